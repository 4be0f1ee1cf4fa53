package domain

import "time"

// Tên các sự kiện đẩy qua hub. Mỗi tên sự kiện có đúng một kiểu payload
// cố định — không dùng payload động.
const (
	EventParkingRegistered   = "ParkingRegistered"
	EventSlotUpdated         = "SlotUpdated"
	EventSlotCheckedOut      = "SlotCheckedOut"
	EventSlotCreated         = "SlotCreated"
	EventSlotsBulkCreated    = "SlotsBulkCreated"
	EventSlotDeleted         = "SlotDeleted"
	EventSlotsBulkDeleted    = "SlotsBulkDeleted"
	EventRegistrationOverdue = "RegistrationOverdue"
)

// EventParkingRegistered mang RegisterParkingResult.
// EventSlotUpdated mang SlotProjection.

type SlotCheckedOutEvent struct {
	SlotID         int       `json:"slot_id"`
	RegistrationID int       `json:"registration_id"`
	CheckOutTime   time.Time `json:"check_out_time"`
}

type SlotCreatedEvent struct {
	Slot SlotProjection `json:"slot"`
}

type SlotsBulkCreatedEvent struct {
	Slots []SlotProjection `json:"slots"`
}

type SlotDeletedEvent struct {
	SlotID int    `json:"slot_id"`
	Code   string `json:"code"`
}

type SlotsBulkDeletedEvent struct {
	SlotIDs []int `json:"slot_ids"`
}

// RegistrationOverdueEvent được gửi nhắm đến đúng khách hàng sở hữu xe.
type RegistrationOverdueEvent struct {
	RegistrationID int       `json:"registration_id"`
	SlotCode       string    `json:"slot_code"`
	PlateNumber    string    `json:"plate_number"`
	CheckInTime    time.Time `json:"check_in_time"`
	HoursParked    float64   `json:"hours_parked"`
}
