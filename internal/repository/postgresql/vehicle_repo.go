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

type pgVehicleRepository struct {
	db repository.DBTX
}

func NewPgVehicleRepository(db repository.DBTX) repository.VehicleRepository {
	return &pgVehicleRepository{db: db}
}

func (r *pgVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `INSERT INTO vehicles (plate_number, vehicle_type, customer_id, created_at)
	           VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
	           RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		vehicle.PlateNumber, vehicle.Type, vehicle.CustomerID,
	).Scan(&vehicle.ID, &vehicle.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "vehicles_plate_number_key" {
				return nil, fmt.Errorf("%w: biển số '%s' đã được đăng ký", repository.ErrDuplicateEntry, vehicle.PlateNumber)
			}
		}
		return nil, fmt.Errorf("VehicleRepository.Create: %w", err)
	}
	vehicle.CreatedAt = vehicle.CreatedAt.In(time.UTC)
	return vehicle, nil
}

func (r *pgVehicleRepository) scanRow(row *sql.Row) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	err := row.Scan(&vehicle.ID, &vehicle.PlateNumber, &vehicle.Type, &vehicle.CustomerID, &vehicle.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	vehicle.CreatedAt = vehicle.CreatedAt.In(time.UTC)
	return vehicle, nil
}

func (r *pgVehicleRepository) FindByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	query := `SELECT id, plate_number, vehicle_type, customer_id, created_at FROM vehicles WHERE id = $1`
	vehicle, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("VehicleRepository.FindByID: %w", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) FindByPlate(ctx context.Context, plateNumber string) (*domain.Vehicle, error) {
	query := `SELECT id, plate_number, vehicle_type, customer_id, created_at FROM vehicles WHERE plate_number = $1`
	vehicle, err := r.scanRow(r.db.QueryRowContext(ctx, query, plateNumber))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("VehicleRepository.FindByPlate: %w", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) FindByCustomerID(ctx context.Context, customerID int) ([]domain.Vehicle, error) {
	query := `SELECT id, plate_number, vehicle_type, customer_id, created_at
	           FROM vehicles WHERE customer_id = $1 ORDER BY plate_number`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.FindByCustomerID: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.Type, &v.CustomerID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("VehicleRepository.FindByCustomerID (scanning row): %w", err)
		}
		v.CreatedAt = v.CreatedAt.In(time.UTC)
		vehicles = append(vehicles, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("VehicleRepository.FindByCustomerID (rows error): %w", err)
	}
	return vehicles, nil
}
