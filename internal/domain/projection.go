package domain

import "time"

// OccupantInfo là thông tin xe đang chiếm một chỗ đỗ. Trong góc nhìn của
// khách hàng, trường này chỉ được điền khi xe thuộc chính khách hàng đó —
// ranh giới riêng tư, không để lộ biển số/số điện thoại của người khác.
type OccupantInfo struct {
	RegistrationID int         `json:"registration_id"`
	PlateNumber    string      `json:"plate_number"`
	VehicleType    VehicleType `json:"vehicle_type"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	CheckInTime    time.Time   `json:"check_in_time"`
}

type SlotProjection struct {
	ID       int           `json:"id"`
	Code     string        `json:"code"`
	Area     string        `json:"area"`
	Status   SlotStatus    `json:"status"`
	Occupant *OccupantInfo `json:"occupant,omitempty"`
}

type AreaGroup struct {
	Area        string           `json:"area"`
	Total       int              `json:"total"`
	Available   int              `json:"available"`
	Occupied    int              `json:"occupied"`
	Maintenance int              `json:"maintenance"`
	Reserved    int              `json:"reserved"`
	Slots       []SlotProjection `json:"slots"`
}

type ParkingOverview struct {
	TotalSlots  int     `json:"total_slots"`
	Available   int     `json:"available"`
	Occupied    int     `json:"occupied"`
	Maintenance int     `json:"maintenance"`
	Reserved    int     `json:"reserved"`
	// Tỷ lệ lấp đầy (%), làm tròn 1 chữ số thập phân; 0 nếu chưa có chỗ đỗ.
	OccupancyRate float64 `json:"occupancy_rate"`
}
