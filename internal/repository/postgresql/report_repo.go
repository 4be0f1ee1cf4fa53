package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

type pgReportRepository struct {
	db repository.DBTX
}

func NewPgReportRepository(db repository.DBTX) repository.ReportRepository {
	return &pgReportRepository{db: db}
}

const reportColumns = `id, code, customer_id, title, content, status, assigned_staff_id, rating, created_at, updated_at`

func (r *pgReportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	query := `INSERT INTO reports (code, customer_id, title, content, status, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		report.Code, report.CustomerID, report.Title, report.Content, report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.Create: %w", err)
	}
	report.CreatedAt = report.CreatedAt.In(time.UTC)
	report.UpdatedAt = report.UpdatedAt.In(time.UTC)
	return report, nil
}

func (r *pgReportRepository) FindByID(ctx context.Context, id int) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	report := &domain.Report{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.Code, &report.CustomerID, &report.Title, &report.Content,
		&report.Status, &report.AssignedStaffID, &report.Rating, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ReportRepository.FindByID: %w", err)
	}
	report.CreatedAt = report.CreatedAt.In(time.UTC)
	report.UpdatedAt = report.UpdatedAt.In(time.UTC)
	return report, nil
}

func (r *pgReportRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(&rep.ID, &rep.Code, &rep.CustomerID, &rep.Title, &rep.Content,
			&rep.Status, &rep.AssignedStaffID, &rep.Rating, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, err
		}
		rep.CreatedAt = rep.CreatedAt.In(time.UTC)
		rep.UpdatedAt = rep.UpdatedAt.In(time.UTC)
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *pgReportRepository) FindAll(ctx context.Context) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC`
	reports, err := r.findMany(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.FindAll: %w", err)
	}
	return reports, nil
}

func (r *pgReportRepository) FindByCustomerID(ctx context.Context, customerID int) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE customer_id = $1 ORDER BY created_at DESC`
	reports, err := r.findMany(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.FindByCustomerID: %w", err)
	}
	return reports, nil
}

func (r *pgReportRepository) Update(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	query := `UPDATE reports
	           SET title = $1, content = $2, status = $3, assigned_staff_id = $4, rating = $5,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = $6
	           RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		report.Title, report.Content, report.Status, report.AssignedStaffID, report.Rating, report.ID,
	).Scan(&report.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ReportRepository.Update: %w", err)
	}
	report.UpdatedAt = report.UpdatedAt.In(time.UTC)
	return report, nil
}

func (r *pgReportRepository) AddComment(ctx context.Context, comment *domain.ReportComment) (*domain.ReportComment, error) {
	query := `INSERT INTO report_comments (report_id, author_name, content, created_at)
	           VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
	           RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		comment.ReportID, comment.AuthorName, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.AddComment: %w", err)
	}
	comment.CreatedAt = comment.CreatedAt.In(time.UTC)
	return comment, nil
}

func (r *pgReportRepository) FindCommentsByReportID(ctx context.Context, reportID int) ([]domain.ReportComment, error) {
	query := `SELECT id, report_id, author_name, content, created_at
	           FROM report_comments WHERE report_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("ReportRepository.FindCommentsByReportID: %w", err)
	}
	defer rows.Close()

	var comments []domain.ReportComment
	for rows.Next() {
		var c domain.ReportComment
		if err := rows.Scan(&c.ID, &c.ReportID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ReportRepository.FindCommentsByReportID (scanning row): %w", err)
		}
		c.CreatedAt = c.CreatedAt.In(time.UTC)
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ReportRepository.FindCommentsByReportID (rows error): %w", err)
	}
	return comments, nil
}
