package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/ducsminh514/ParkingSystem-sub000/internal/domain"
	"github.com/ducsminh514/ParkingSystem-sub000/internal/repository"

	"github.com/lib/pq"
)

// Sổ thanh toán chỉ ghi thêm: không có Update/Delete.
type pgPaymentRepository struct {
	db repository.DBTX
}

func NewPgPaymentRepository(db repository.DBTX) repository.PaymentRepository {
	return &pgPaymentRepository{db: db}
}

func (r *pgPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `INSERT INTO payments (registration_id, amount, method, payment_date, request_id)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		payment.RegistrationID, payment.Amount, payment.Method, payment.PaymentDate, payment.RequestID,
	).Scan(&payment.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "payments_request_id_key" {
				return nil, fmt.Errorf("%w: yêu cầu thanh toán '%s' đã được xử lý", repository.ErrDuplicateEntry, payment.RequestID.String)
			}
		}
		return nil, fmt.Errorf("PaymentRepository.Create: %w", err)
	}
	payment.PaymentDate = payment.PaymentDate.In(time.UTC)
	return payment, nil
}

func (r *pgPaymentRepository) FindByRegistrationID(ctx context.Context, registrationID int) ([]domain.Payment, error) {
	query := `SELECT id, registration_id, amount, method, payment_date, request_id
	           FROM payments WHERE registration_id = $1 ORDER BY payment_date`
	rows, err := r.db.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, fmt.Errorf("PaymentRepository.FindByRegistrationID: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.RegistrationID, &p.Amount, &p.Method, &p.PaymentDate, &p.RequestID); err != nil {
			return nil, fmt.Errorf("PaymentRepository.FindByRegistrationID (scanning row): %w", err)
		}
		p.PaymentDate = p.PaymentDate.In(time.UTC)
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("PaymentRepository.FindByRegistrationID (rows error): %w", err)
	}
	return payments, nil
}
