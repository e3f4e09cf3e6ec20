package models

import "time"

// VehicleStatus represents the current status of a vehicle
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusAssigned    VehicleStatus = "ASSIGNED"
	VehicleStatusInUse       VehicleStatus = "IN_USE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusInactive    VehicleStatus = "INACTIVE"
)

// vehicleTransitions is the closed transition table for vehicle status.
// Status is a projection of assignments, ongoing trips and open maintenance;
// every transition here corresponds to exactly one engine operation.
var vehicleTransitions = map[VehicleStatus][]VehicleStatus{
	VehicleStatusAvailable:   {VehicleStatusAssigned, VehicleStatusMaintenance, VehicleStatusInactive},
	VehicleStatusAssigned:    {VehicleStatusInUse, VehicleStatusAvailable, VehicleStatusInactive},
	VehicleStatusInUse:       {VehicleStatusAssigned, VehicleStatusAvailable},
	VehicleStatusMaintenance: {VehicleStatusAvailable},
	VehicleStatusInactive:    {VehicleStatusAvailable, VehicleStatusMaintenance},
}

// IsValid reports whether s is a known vehicle status.
func (s VehicleStatus) IsValid() bool {
	_, ok := vehicleTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to target is allowed.
func (s VehicleStatus) CanTransition(target VehicleStatus) bool {
	for _, t := range vehicleTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID               string        `json:"id" db:"id"`
	Name             string        `json:"name" db:"name"`
	Registration     string        `json:"registration" db:"registration"`
	Make             string        `json:"make" db:"make"`
	Model            string        `json:"model" db:"model"`
	Type             string        `json:"type" db:"type"` // Truck, Van, Car
	Year             int           `json:"year" db:"year"`
	OdometerKm       float64       `json:"odometer_km" db:"odometer_km"`
	DaysSinceService int           `json:"days_since_service" db:"days_since_service"`
	Status           VehicleStatus `json:"status" db:"status"`
	AssignedDriverID string        `json:"assigned_driver_id,omitempty" db:"assigned_driver_id"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// MaintenancePriority is the derived urgency score: one point per 5000 km
// plus one point per 30 days since the last service. It is a separate
// signal from the maintenance record's requested priority and neither
// supersedes the other.
func (v *Vehicle) MaintenancePriority() int {
	return int(v.OdometerKm/5000) + v.DaysSinceService/30
}

// NeedsMaintenance reports whether the vehicle is past either service threshold.
func (v *Vehicle) NeedsMaintenance(kmThreshold float64, daysThreshold int) bool {
	return v.OdometerKm > kmThreshold || v.DaysSinceService > daysThreshold
}

// VehicleCreateRequest represents a new vehicle registration
type VehicleCreateRequest struct {
	Name             string  `json:"name"`
	Registration     string  `json:"registration"`
	Make             string  `json:"make"`
	Model            string  `json:"model"`
	Type             string  `json:"type"`
	Year             int     `json:"year"`
	OdometerKm       float64 `json:"odometer_km"`
	DaysSinceService int     `json:"days_since_service"`
}
