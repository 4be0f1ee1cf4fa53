package domain

import "time"

type VehicleType string

const (
	VehicleCar       VehicleType = "car"
	VehicleMotorbike VehicleType = "motorbike"
	VehicleBicycle   VehicleType = "bicycle"
	VehicleTruck     VehicleType = "truck"
)

func ValidVehicleType(t string) bool {
	switch VehicleType(t) {
	case VehicleCar, VehicleMotorbike, VehicleBicycle, VehicleTruck:
		return true
	}
	return false
}

type Vehicle struct {
	ID          int         `json:"id"`
	PlateNumber string      `json:"plate_number"`
	Type        VehicleType `json:"type"`
	CustomerID  int         `json:"customer_id"`
	CreatedAt   time.Time   `json:"created_at"`
}
