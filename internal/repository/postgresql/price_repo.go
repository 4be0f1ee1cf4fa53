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

type pgPriceRepository struct {
	db repository.DBTX
}

func NewPgPriceRepository(db repository.DBTX) repository.PriceRepository {
	return &pgPriceRepository{db: db}
}

func (r *pgPriceRepository) Create(ctx context.Context, price *domain.Price) (*domain.Price, error) {
	query := `INSERT INTO prices (vehicle_type, price_per_hour, is_active, created_at, updated_at)
	           VALUES ($1, $2, TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, price.VehicleType, price.PricePerHour).
		Scan(&price.ID, &price.CreatedAt, &price.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "prices_vehicle_type_active_key" {
				return nil, fmt.Errorf("%w: loại xe '%s' đã có biểu giá đang hiệu lực", repository.ErrDuplicateEntry, price.VehicleType)
			}
		}
		return nil, fmt.Errorf("PriceRepository.Create: %w", err)
	}
	price.IsActive = true
	price.CreatedAt = price.CreatedAt.In(time.UTC)
	price.UpdatedAt = price.UpdatedAt.In(time.UTC)
	return price, nil
}

func (r *pgPriceRepository) scanRow(row *sql.Row) (*domain.Price, error) {
	price := &domain.Price{}
	err := row.Scan(&price.ID, &price.VehicleType, &price.PricePerHour, &price.IsActive,
		&price.CreatedAt, &price.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	price.CreatedAt = price.CreatedAt.In(time.UTC)
	price.UpdatedAt = price.UpdatedAt.In(time.UTC)
	return price, nil
}

func (r *pgPriceRepository) FindByID(ctx context.Context, id int) (*domain.Price, error) {
	query := `SELECT id, vehicle_type, price_per_hour, is_active, created_at, updated_at
	           FROM prices WHERE id = $1`
	price, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("PriceRepository.FindByID: %w", err)
	}
	return price, nil
}

func (r *pgPriceRepository) FindActiveByVehicleType(ctx context.Context, vehicleType domain.VehicleType) (*domain.Price, error) {
	query := `SELECT id, vehicle_type, price_per_hour, is_active, created_at, updated_at
	           FROM prices WHERE vehicle_type = $1 AND is_active = TRUE`
	price, err := r.scanRow(r.db.QueryRowContext(ctx, query, vehicleType))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("PriceRepository.FindActiveByVehicleType: %w", err)
	}
	return price, nil
}

func (r *pgPriceRepository) FindAll(ctx context.Context) ([]domain.Price, error) {
	query := `SELECT id, vehicle_type, price_per_hour, is_active, created_at, updated_at
	           FROM prices WHERE is_active = TRUE ORDER BY vehicle_type`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("PriceRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var prices []domain.Price
	for rows.Next() {
		var p domain.Price
		if err := rows.Scan(&p.ID, &p.VehicleType, &p.PricePerHour, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("PriceRepository.FindAll (scanning row): %w", err)
		}
		p.CreatedAt = p.CreatedAt.In(time.UTC)
		p.UpdatedAt = p.UpdatedAt.In(time.UTC)
		prices = append(prices, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("PriceRepository.FindAll (rows error): %w", err)
	}
	return prices, nil
}

func (r *pgPriceRepository) Update(ctx context.Context, price *domain.Price) (*domain.Price, error) {
	query := `UPDATE prices SET vehicle_type = $1, price_per_hour = $2, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $3 AND is_active = TRUE
	           RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, price.VehicleType, price.PricePerHour, price.ID).
		Scan(&price.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "prices_vehicle_type_active_key" {
				return nil, fmt.Errorf("%w: loại xe '%s' đã có biểu giá đang hiệu lực", repository.ErrDuplicateEntry, price.VehicleType)
			}
		}
		return nil, fmt.Errorf("PriceRepository.Update: %w", err)
	}
	price.UpdatedAt = price.UpdatedAt.In(time.UTC)
	return price, nil
}

// Deactivate là xóa mềm: biểu giá cũ được giữ lại cho lịch sử.
func (r *pgPriceRepository) Deactivate(ctx context.Context, id int) error {
	query := `UPDATE prices SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $1 AND is_active = TRUE`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("PriceRepository.Deactivate: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("PriceRepository.Deactivate (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
