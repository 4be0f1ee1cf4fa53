package domain

import "time"

// Price là biểu giá theo loại xe. Xóa mềm qua is_active; mỗi loại xe chỉ có
// tối đa một biểu giá đang hiệu lực (unique index ở tầng lưu trữ).
type Price struct {
	ID           int         `json:"id"`
	VehicleType  VehicleType `json:"vehicle_type"`
	PricePerHour float64     `json:"price_per_hour"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type PriceDTO struct {
	VehicleType  string  `json:"vehicle_type" binding:"required" validate:"required"`
	PricePerHour float64 `json:"price_per_hour" binding:"required,gt=0" validate:"required,gt=0"`
}
