package domain

import (
	"time"
	"unicode"
)

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotOccupied    SlotStatus = "occupied"
	SlotMaintenance SlotStatus = "maintenance"
	SlotReserved    SlotStatus = "reserved"
)

// AreaUnknown là nhóm khu vực cho các mã chỗ đỗ không bắt đầu bằng chữ cái.
const AreaUnknown = "Unknown"

type Slot struct {
	ID        int        `json:"id"`
	Code      string     `json:"code"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Area trích xuất khu vực từ mã chỗ đỗ: chuỗi chữ cái đứng đầu, viết hoa.
// Ví dụ "a12" -> "A", "VIP03" -> "VIP", "12B" -> "Unknown".
func (s *Slot) Area() string {
	return AreaFromCode(s.Code)
}

func AreaFromCode(code string) string {
	var prefix []rune
	for _, r := range code {
		if !unicode.IsLetter(r) {
			break
		}
		prefix = append(prefix, unicode.ToUpper(r))
	}
	if len(prefix) == 0 {
		return AreaUnknown
	}
	return string(prefix)
}

type SlotDTO struct {
	Code   string `json:"code" binding:"required" validate:"required"`
	Status string `json:"status,omitempty"`
}

type SlotStatusUpdateDTO struct {
	Status string `json:"status" binding:"required" validate:"required"`
}

type BulkCreateSlotsDTO struct {
	Codes []string `json:"codes" binding:"required,min=1" validate:"required,min=1"`
}

type BulkDeleteSlotsDTO struct {
	SlotIDs []int `json:"slot_ids" binding:"required,min=1" validate:"required,min=1"`
	Force   bool  `json:"force"`
}
