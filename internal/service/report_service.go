package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"
)

// ReportService xử lý phiếu hỗ trợ của khách hàng: tạo phiếu, trao đổi qua
// bình luận, giao cho nhân viên và đánh giá sau khi xử lý xong.
type ReportService struct {
	store repository.Store
}

func NewReportService(store repository.Store) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) CreateReport(ctx context.Context, dto domain.CreateReportDTO) (*domain.Report, error) {
	repos := s.store.Repos()
	if _, err := repos.Customers.FindByID(ctx, dto.CustomerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy khách hàng với id %d", dto.CustomerID))
		}
		return nil, err
	}

	report := &domain.Report{
		Code:       uuid.NewString(),
		CustomerID: dto.CustomerID,
		Title:      dto.Title,
		Content:    dto.Content,
		Status:     domain.ReportOpen,
	}
	return repos.Reports.Create(ctx, report)
}

func (s *ReportService) GetReports(ctx context.Context) ([]domain.Report, error) {
	return s.store.Repos().Reports.FindAll(ctx)
}

func (s *ReportService) GetReportsByCustomer(ctx context.Context, customerID int) ([]domain.Report, error) {
	return s.store.Repos().Reports.FindByCustomerID(ctx, customerID)
}

func (s *ReportService) GetReportByID(ctx context.Context, id int) (*domain.Report, error) {
	report, err := s.store.Repos().Reports.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy phiếu hỗ trợ với id %d", id))
		}
		return nil, err
	}
	return report, nil
}

func (s *ReportService) AddComment(ctx context.Context, reportID int, dto domain.ReportCommentDTO) (*domain.ReportComment, error) {
	if _, err := s.GetReportByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.store.Repos().Reports.AddComment(ctx, &domain.ReportComment{
		ReportID:   reportID,
		AuthorName: dto.AuthorName,
		Content:    dto.Content,
	})
}

func (s *ReportService) GetComments(ctx context.Context, reportID int) ([]domain.ReportComment, error) {
	if _, err := s.GetReportByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.store.Repos().Reports.FindCommentsByReportID(ctx, reportID)
}

func (s *ReportService) AssignReport(ctx context.Context, reportID int, staffID int) (*domain.Report, error) {
	repos := s.store.Repos()

	report, err := s.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == domain.ReportResolved {
		return nil, ErrConflict("phiếu hỗ trợ đã được xử lý xong, không thể giao lại")
	}

	if _, err := repos.Users.FindByID(ctx, staffID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound(fmt.Sprintf("không tìm thấy nhân viên với id %d", staffID))
		}
		return nil, err
	}

	report.AssignedStaffID = null.IntFrom(int64(staffID))
	report.Status = domain.ReportAssigned
	return repos.Reports.Update(ctx, report)
}

func (s *ReportService) ResolveReport(ctx context.Context, reportID int) (*domain.Report, error) {
	report, err := s.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == domain.ReportResolved {
		return nil, ErrConflict("phiếu hỗ trợ đã được xử lý xong")
	}
	report.Status = domain.ReportResolved
	return s.store.Repos().Reports.Update(ctx, report)
}

// RateReport ghi đánh giá 1-5 sao của khách sau khi phiếu đã xử lý xong.
func (s *ReportService) RateReport(ctx context.Context, reportID int, rating int) (*domain.Report, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrValidation("đánh giá phải từ 1 đến 5 sao")
	}

	report, err := s.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReportResolved {
		return nil, ErrConflict("chỉ đánh giá được phiếu đã xử lý xong")
	}

	report.Rating = null.IntFrom(int64(rating))
	return s.store.Repos().Reports.Update(ctx, report)
}
