package domain

import "time"

// CustomerRef tham chiếu khách hàng: hoặc id của khách đã có, hoặc thông tin
// tạo mới (họ tên + số điện thoại bắt buộc). Không được để trống cả hai.
type CustomerRef struct {
	CustomerID *int   `json:"customer_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// VehicleRef tham chiếu xe: hoặc id của xe đã có (phải thuộc khách hàng
// được xác định), hoặc biển số + loại xe để tạo mới/tái sử dụng.
type VehicleRef struct {
	VehicleID   *int   `json:"vehicle_id,omitempty"`
	PlateNumber string `json:"plate_number,omitempty"`
	Type        string `json:"type,omitempty"`
}

type RegisterParkingRequest struct {
	SlotID   int         `json:"slot_id" validate:"required,gt=0"`
	Customer CustomerRef `json:"customer"`
	Vehicle  VehicleRef  `json:"vehicle"`
	StaffID  *int        `json:"staff_id,omitempty"`
}

type RegisterParkingResult struct {
	RegistrationID int            `json:"registration_id"`
	CustomerID     int            `json:"customer_id"`
	VehicleID      int            `json:"vehicle_id"`
	PlateNumber    string         `json:"plate_number"`
	CheckInTime    time.Time      `json:"check_in_time"`
	Slot           SlotProjection `json:"slot"`
}

type CheckOutRequest struct {
	RegistrationID int     `json:"registration_id" validate:"required,gt=0"`
	PaymentAmount  float64 `json:"payment_amount" validate:"gte=0"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	// RequestID là khóa idempotency do client sinh (uuid); nếu bỏ trống,
	// server tự sinh và lần gọi đó không thể retry an toàn.
	RequestID string `json:"request_id,omitempty"`
}

type CheckOutResult struct {
	RegistrationID  int       `json:"registration_id"`
	SlotID          int       `json:"slot_id"`
	SlotCode        string    `json:"slot_code"`
	CheckOutTime    time.Time `json:"check_out_time"`
	TotalAmount     float64   `json:"total_amount"`
	DurationMinutes int64     `json:"duration_minutes"`
}

type FeeResult struct {
	RegistrationID int         `json:"registration_id"`
	VehicleType    VehicleType `json:"vehicle_type"`
	PricePerHour   float64     `json:"price_per_hour"`
	TotalHours     float64     `json:"total_hours"`
	TotalAmount    float64     `json:"total_amount"`
}

type DeleteSlotResult struct {
	SlotID  int    `json:"slot_id"`
	Code    string `json:"code"`
	Deleted bool   `json:"deleted"`
}
