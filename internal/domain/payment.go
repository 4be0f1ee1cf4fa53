package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Payment là một dòng sổ thanh toán, chỉ ghi thêm, không bao giờ sửa hoặc
// xóa. RequestID là khóa idempotency do client cung cấp khi trả xe: hai lần
// trả xe với cùng RequestID chỉ tạo được đúng một dòng.
type Payment struct {
	ID             int           `json:"id"`
	RegistrationID int           `json:"registration_id"`
	Amount         float64       `json:"amount"`
	Method         PaymentMethod `json:"method"`
	PaymentDate    time.Time     `json:"payment_date"`
	RequestID      null.String   `json:"request_id,omitempty"`
}
