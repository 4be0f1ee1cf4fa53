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

type pgCustomerRepository struct {
	db repository.DBTX
}

func NewPgCustomerRepository(db repository.DBTX) repository.CustomerRepository {
	return &pgCustomerRepository{db: db}
}

func (r *pgCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `INSERT INTO customers (full_name, phone, email, password, is_deleted, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, FALSE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		customer.FullName, customer.Phone, customer.Email, customer.Password,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "customers_phone_key" {
				return nil, fmt.Errorf("%w: số điện thoại '%s' đã được đăng ký", repository.ErrDuplicateEntry, customer.Phone)
			}
		}
		return nil, fmt.Errorf("CustomerRepository.Create: %w", err)
	}
	customer.CreatedAt = customer.CreatedAt.In(time.UTC)
	customer.UpdatedAt = customer.UpdatedAt.In(time.UTC)
	return customer, nil
}

func (r *pgCustomerRepository) scanRow(row *sql.Row) (*domain.Customer, error) {
	customer := &domain.Customer{}
	err := row.Scan(&customer.ID, &customer.FullName, &customer.Phone, &customer.Email,
		&customer.Password, &customer.IsDeleted, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	customer.CreatedAt = customer.CreatedAt.In(time.UTC)
	customer.UpdatedAt = customer.UpdatedAt.In(time.UTC)
	return customer, nil
}

// Khách hàng đã xóa mềm không xuất hiện trong bất kỳ lookup nào.
func (r *pgCustomerRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	query := `SELECT id, full_name, phone, email, password, is_deleted, created_at, updated_at
	           FROM customers WHERE id = $1 AND is_deleted = FALSE`
	customer, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("CustomerRepository.FindByID: %w", err)
	}
	return customer, nil
}

func (r *pgCustomerRepository) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `SELECT id, full_name, phone, email, password, is_deleted, created_at, updated_at
	           FROM customers WHERE phone = $1 AND is_deleted = FALSE`
	customer, err := r.scanRow(r.db.QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("CustomerRepository.FindByPhone: %w", err)
	}
	return customer, nil
}

func (r *pgCustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT id, full_name, phone, email, password, is_deleted, created_at, updated_at
	           FROM customers WHERE is_deleted = FALSE ORDER BY full_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CustomerRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email,
			&c.Password, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("CustomerRepository.FindAll (scanning row): %w", err)
		}
		c.CreatedAt = c.CreatedAt.In(time.UTC)
		c.UpdatedAt = c.UpdatedAt.In(time.UTC)
		customers = append(customers, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("CustomerRepository.FindAll (rows error): %w", err)
	}
	return customers, nil
}

func (r *pgCustomerRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE customers SET is_deleted = TRUE, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $1 AND is_deleted = FALSE`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("CustomerRepository.SoftDelete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("CustomerRepository.SoftDelete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
