package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type RegistrationStatus string

const (
	RegistrationActive     RegistrationStatus = "active"
	RegistrationCheckedOut RegistrationStatus = "checked_out"
)

// Registration là một lượt gửi xe: một xe chiếm một chỗ đỗ từ lúc vào
// đến lúc ra. slot_id có thể NULL nếu chỗ đỗ đã bị admin xóa cứng sau đó.
// Trạng thái checked_out là trạng thái cuối, không được sửa đổi thêm.
type Registration struct {
	ID           int                `json:"id"`
	VehicleID    int                `json:"vehicle_id"`
	SlotID       null.Int           `json:"slot_id"`
	StaffID      null.Int           `json:"staff_id,omitempty"`
	CheckInTime  time.Time          `json:"check_in_time"`
	CheckOutTime null.Time          `json:"check_out_time"`
	Status       RegistrationStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (r *Registration) IsOpen() bool {
	return r.Status != RegistrationCheckedOut && !r.CheckOutTime.Valid
}

// RegistrationDetail là lượt gửi xe kèm thông tin xe/khách/chỗ đỗ,
// dùng cho các góc nhìn chiếu (projection) và quét quá hạn.
type RegistrationDetail struct {
	Registration
	PlateNumber   string      `json:"plate_number"`
	VehicleType   VehicleType `json:"vehicle_type"`
	CustomerID    int         `json:"customer_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	SlotCode      string      `json:"slot_code"`
}
