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

type pgRegistrationRepository struct {
	db repository.DBTX
}

func NewPgRegistrationRepository(db repository.DBTX) repository.RegistrationRepository {
	return &pgRegistrationRepository{db: db}
}

const registrationColumns = `id, vehicle_id, slot_id, staff_id, check_in_time, check_out_time, status, created_at, updated_at`

func (r *pgRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	query := `INSERT INTO registrations (vehicle_id, slot_id, staff_id, check_in_time, status, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		reg.VehicleID, reg.SlotID, reg.StaffID, reg.CheckInTime, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("RegistrationRepository.Create: %w", err)
	}
	reg.CreatedAt = reg.CreatedAt.In(time.UTC)
	reg.UpdatedAt = reg.UpdatedAt.In(time.UTC)
	return reg, nil
}

func normalizeRegistration(reg *domain.Registration) {
	reg.CheckInTime = reg.CheckInTime.In(time.UTC)
	if reg.CheckOutTime.Valid {
		reg.CheckOutTime.Time = reg.CheckOutTime.Time.In(time.UTC)
	}
	reg.CreatedAt = reg.CreatedAt.In(time.UTC)
	reg.UpdatedAt = reg.UpdatedAt.In(time.UTC)
}

func (r *pgRegistrationRepository) scanRow(row *sql.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(&reg.ID, &reg.VehicleID, &reg.SlotID, &reg.StaffID,
		&reg.CheckInTime, &reg.CheckOutTime, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	normalizeRegistration(reg)
	return reg, nil
}

func (r *pgRegistrationRepository) FindByID(ctx context.Context, id int) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("RegistrationRepository.FindByID: %w", err)
	}
	return reg, nil
}

func (r *pgRegistrationRepository) FindOpenBySlotID(ctx context.Context, slotID int) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
	           WHERE slot_id = $1 AND status = $2
	           ORDER BY check_in_time DESC LIMIT 1`
	reg, err := r.scanRow(r.db.QueryRowContext(ctx, query, slotID, domain.RegistrationActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoOpenRegistration
		}
		return nil, fmt.Errorf("RegistrationRepository.FindOpenBySlotID: %w", err)
	}
	return reg, nil
}

func (r *pgRegistrationRepository) FindOpenByVehicleID(ctx context.Context, vehicleID int) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
	           WHERE vehicle_id = $1 AND status = $2
	           ORDER BY check_in_time DESC LIMIT 1`
	reg, err := r.scanRow(r.db.QueryRowContext(ctx, query, vehicleID, domain.RegistrationActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoOpenRegistration
		}
		return nil, fmt.Errorf("RegistrationRepository.FindOpenByVehicleID: %w", err)
	}
	return reg, nil
}

func (r *pgRegistrationRepository) HasOpenByCustomerID(ctx context.Context, customerID int) (bool, error) {
	query := `SELECT EXISTS (
	             SELECT 1 FROM registrations r
	             JOIN vehicles v ON v.id = r.vehicle_id
	             WHERE v.customer_id = $1 AND r.status = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, customerID, domain.RegistrationActive).Scan(&exists); err != nil {
		return false, fmt.Errorf("RegistrationRepository.HasOpenByCustomerID: %w", err)
	}
	return exists, nil
}

// Complete chỉ khớp lượt đang mở: lượt đã checked_out không bao giờ bị sửa
// lại (trạng thái cuối).
func (r *pgRegistrationRepository) Complete(ctx context.Context, id int, checkOutTime time.Time) error {
	query := `UPDATE registrations
	           SET check_out_time = $1, status = $2, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, checkOutTime, domain.RegistrationCheckedOut, id, domain.RegistrationActive)
	if err != nil {
		return fmt.Errorf("RegistrationRepository.Complete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("RegistrationRepository.Complete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

const registrationDetailQuery = `SELECT r.id, r.vehicle_id, r.slot_id, r.staff_id, r.check_in_time, r.check_out_time,
	       r.status, r.created_at, r.updated_at,
	       v.plate_number, v.vehicle_type, c.id, c.full_name, c.phone,
	       COALESCE(s.code, '')
	  FROM registrations r
	  JOIN vehicles v ON v.id = r.vehicle_id
	  JOIN customers c ON c.id = v.customer_id
	  LEFT JOIN slots s ON s.id = r.slot_id
	 WHERE r.status = $1`

func (r *pgRegistrationRepository) findDetails(ctx context.Context, query string, args ...interface{}) ([]domain.RegistrationDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.RegistrationDetail
	for rows.Next() {
		var d domain.RegistrationDetail
		if err := rows.Scan(&d.ID, &d.VehicleID, &d.SlotID, &d.StaffID, &d.CheckInTime, &d.CheckOutTime,
			&d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.PlateNumber, &d.VehicleType, &d.CustomerID, &d.CustomerName, &d.CustomerPhone,
			&d.SlotCode); err != nil {
			return nil, err
		}
		normalizeRegistration(&d.Registration)
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *pgRegistrationRepository) FindOpenDetails(ctx context.Context) ([]domain.RegistrationDetail, error) {
	details, err := r.findDetails(ctx, registrationDetailQuery, domain.RegistrationActive)
	if err != nil {
		return nil, fmt.Errorf("RegistrationRepository.FindOpenDetails: %w", err)
	}
	return details, nil
}

func (r *pgRegistrationRepository) FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationDetail, error) {
	query := registrationDetailQuery + ` AND r.check_in_time < $2`
	details, err := r.findDetails(ctx, query, domain.RegistrationActive, cutoff)
	if err != nil {
		return nil, fmt.Errorf("RegistrationRepository.FindOpenOlderThan: %w", err)
	}
	return details, nil
}
