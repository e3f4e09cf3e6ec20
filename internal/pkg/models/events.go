package models

import "time"

// Event topics published to NSQ.
const (
	TopicTripStarted          = "trip.started"
	TopicTripCompleted        = "trip.completed"
	TopicVehicleAssigned      = "vehicle.assigned"
	TopicVehicleUnassigned    = "vehicle.unassigned"
	TopicMaintenanceApproved  = "maintenance.approved"
	TopicMaintenanceCompleted = "maintenance.completed"
)

// TripEvent is published when a trip starts or completes
type TripEvent struct {
	EventID    string     `json:"event_id"`
	TripID     string     `json:"trip_id"`
	DriverID   string     `json:"driver_id"`
	VehicleID  string     `json:"vehicle_id"`
	Status     TripStatus `json:"status"`
	DistanceKm float64    `json:"distance_km,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// AssignmentEvent is published when a driver/vehicle pairing changes
type AssignmentEvent struct {
	EventID    string    `json:"event_id"`
	DriverID   string    `json:"driver_id"`
	VehicleID  string    `json:"vehicle_id"`
	Assigned   bool      `json:"assigned"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MaintenanceEvent is published on maintenance approval and completion
type MaintenanceEvent struct {
	EventID       string            `json:"event_id"`
	MaintenanceID string            `json:"maintenance_id"`
	VehicleID     string            `json:"vehicle_id"`
	Status        MaintenanceStatus `json:"status"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
