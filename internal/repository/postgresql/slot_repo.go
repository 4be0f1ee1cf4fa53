package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"

	"github.com/lib/pq"
)

type pgSlotRepository struct {
	db repository.DBTX
}

func NewPgSlotRepository(db repository.DBTX) repository.SlotRepository {
	return &pgSlotRepository{db: db}
}

func (r *pgSlotRepository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	query := `INSERT INTO slots (code, status, created_at, updated_at)
	           VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, slot.Code, slot.Status).
		Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "slots_code_key" {
				return nil, fmt.Errorf("%w: mã chỗ đỗ '%s' đã tồn tại", repository.ErrDuplicateEntry, slot.Code)
			}
		}
		return nil, fmt.Errorf("SlotRepository.Create: %w", err)
	}
	slot.CreatedAt = slot.CreatedAt.In(time.UTC)
	slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
	return slot, nil
}

func (r *pgSlotRepository) scanRow(row *sql.Row) (*domain.Slot, error) {
	slot := &domain.Slot{}
	err := row.Scan(&slot.ID, &slot.Code, &slot.Status, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	slot.CreatedAt = slot.CreatedAt.In(time.UTC)
	slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
	return slot, nil
}

func (r *pgSlotRepository) FindByID(ctx context.Context, id int) (*domain.Slot, error) {
	query := `SELECT id, code, status, created_at, updated_at FROM slots WHERE id = $1`
	slot, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("SlotRepository.FindByID: %w", err)
	}
	return slot, nil
}

// FindByIDForUpdate khóa dòng chỗ đỗ cho tới khi transaction hiện tại kết
// thúc. Transaction đồng thời thứ hai sẽ chờ và đọc được trạng thái đã cập
// nhật, không phải trạng thái cũ.
func (r *pgSlotRepository) FindByIDForUpdate(ctx context.Context, id int) (*domain.Slot, error) {
	query := `SELECT id, code, status, created_at, updated_at FROM slots WHERE id = $1 FOR UPDATE`
	slot, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("SlotRepository.FindByIDForUpdate: %w", err)
	}
	return slot, nil
}

func (r *pgSlotRepository) FindByCode(ctx context.Context, code string) (*domain.Slot, error) {
	query := `SELECT id, code, status, created_at, updated_at FROM slots WHERE code = $1`
	slot, err := r.scanRow(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("SlotRepository.FindByCode: %w", err)
	}
	return slot, nil
}

func (r *pgSlotRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]domain.Slot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		var slot domain.Slot
		if err := rows.Scan(&slot.ID, &slot.Code, &slot.Status, &slot.CreatedAt, &slot.UpdatedAt); err != nil {
			return nil, err
		}
		slot.CreatedAt = slot.CreatedAt.In(time.UTC)
		slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *pgSlotRepository) FindAll(ctx context.Context) ([]domain.Slot, error) {
	query := `SELECT id, code, status, created_at, updated_at FROM slots ORDER BY code`
	slots, err := r.findMany(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("SlotRepository.FindAll: %w", err)
	}
	return slots, nil
}

func (r *pgSlotRepository) FindByStatus(ctx context.Context, status domain.SlotStatus) ([]domain.Slot, error) {
	query := `SELECT id, code, status, created_at, updated_at FROM slots WHERE status = $1 ORDER BY code`
	slots, err := r.findMany(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("SlotRepository.FindByStatus: %w", err)
	}
	return slots, nil
}

func (r *pgSlotRepository) UpdateStatus(ctx context.Context, id int, status domain.SlotStatus) error {
	query := `UPDATE slots SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("SlotRepository.UpdateStatus: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("SlotRepository.UpdateStatus (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgSlotRepository) Update(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	query := `UPDATE slots SET code = $1, status = $2, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $3
	           RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, slot.Code, slot.Status, slot.ID).Scan(&slot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "slots_code_key" {
				return nil, fmt.Errorf("%w: mã chỗ đỗ '%s' đã tồn tại", repository.ErrDuplicateEntry, slot.Code)
			}
		}
		return nil, fmt.Errorf("SlotRepository.Update: %w", err)
	}
	slot.UpdatedAt = slot.UpdatedAt.In(time.UTC)
	return slot, nil
}

func (r *pgSlotRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM slots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("SlotRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("SlotRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
