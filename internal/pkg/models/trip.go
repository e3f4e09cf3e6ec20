package models

import (
	"database/sql"
	"time"
)

// TripStatus represents the current status of a trip
type TripStatus string

const (
	TripStatusOngoing   TripStatus = "ONGOING"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// Trip represents a vehicle trip from start to end location
type Trip struct {
	ID            string     `json:"trip_id" db:"trip_id"`
	DriverID      string     `json:"driver_id" db:"driver_id"`
	VehicleID     string     `json:"vehicle_id" db:"vehicle_id"`
	StartLocation string     `json:"start_location" db:"start_location"`
	StartLat      float64    `json:"start_lat" db:"start_lat"`
	StartLon      float64    `json:"start_lon" db:"start_lon"`
	Destination   string     `json:"destination" db:"destination"`
	DestLat       float64    `json:"dest_lat" db:"dest_lat"`
	DestLon       float64    `json:"dest_lon" db:"dest_lon"`
	EndLocation   string     `json:"end_location,omitempty" db:"end_location"`
	StartOdometer float64    `json:"start_odometer" db:"start_odometer"`
	EndOdometer   *float64   `json:"end_odometer,omitempty" db:"end_odometer"`
	StartTime     time.Time  `json:"start_time" db:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty" db:"end_time"`
	Status        TripStatus `json:"status" db:"status"`
	// DistanceKm and DurationMinutes are derived on completion:
	// end odometer minus start odometer, end time minus start time.
	DistanceKm      float64 `json:"distance_km" db:"distance_km"`
	DurationMinutes int     `json:"duration_minutes" db:"duration_minutes"`
	Purpose         string  `json:"purpose" db:"purpose"`
	Notes           string  `json:"notes,omitempty" db:"notes"`
}

// TripDTO flattens nullable completion columns for scanning.
type TripDTO struct {
	ID              string          `db:"trip_id"`
	DriverID        string          `db:"driver_id"`
	VehicleID       string          `db:"vehicle_id"`
	StartLocation   string          `db:"start_location"`
	StartLat        float64         `db:"start_lat"`
	StartLon        float64         `db:"start_lon"`
	Destination     string          `db:"destination"`
	DestLat         float64         `db:"dest_lat"`
	DestLon         float64         `db:"dest_lon"`
	EndLocation     sql.NullString  `db:"end_location"`
	StartOdometer   float64         `db:"start_odometer"`
	EndOdometer     sql.NullFloat64 `db:"end_odometer"`
	StartTime       time.Time       `db:"start_time"`
	EndTime         sql.NullTime    `db:"end_time"`
	Status          TripStatus      `db:"status"`
	DistanceKm      sql.NullFloat64 `db:"distance_km"`
	DurationMinutes sql.NullInt64   `db:"duration_minutes"`
	Purpose         string          `db:"purpose"`
	Notes           sql.NullString  `db:"notes"`
}

// ToTrip converts a scanned row to the API model.
func (d *TripDTO) ToTrip() *Trip {
	t := &Trip{
		ID:            d.ID,
		DriverID:      d.DriverID,
		VehicleID:     d.VehicleID,
		StartLocation: d.StartLocation,
		StartLat:      d.StartLat,
		StartLon:      d.StartLon,
		Destination:   d.Destination,
		DestLat:       d.DestLat,
		DestLon:       d.DestLon,
		StartOdometer: d.StartOdometer,
		StartTime:     d.StartTime,
		Status:        d.Status,
		Purpose:       d.Purpose,
	}
	if d.EndLocation.Valid {
		t.EndLocation = d.EndLocation.String
	}
	if d.EndOdometer.Valid {
		v := d.EndOdometer.Float64
		t.EndOdometer = &v
	}
	if d.EndTime.Valid {
		v := d.EndTime.Time
		t.EndTime = &v
	}
	if d.DistanceKm.Valid {
		t.DistanceKm = d.DistanceKm.Float64
	}
	if d.DurationMinutes.Valid {
		t.DurationMinutes = int(d.DurationMinutes.Int64)
	}
	if d.Notes.Valid {
		t.Notes = d.Notes.String
	}
	return t
}

// TripStartRequest represents a trip start request
type TripStartRequest struct {
	DriverID      string  `json:"driver_id"`
	VehicleID     string  `json:"vehicle_id"`
	StartLocation string  `json:"start_location"`
	StartLat      float64 `json:"start_lat"`
	StartLon      float64 `json:"start_lon"`
	Destination   string  `json:"destination"`
	DestLat       float64 `json:"dest_lat"`
	DestLon       float64 `json:"dest_lon"`
	StartOdometer float64 `json:"start_odometer"`
	Purpose       string  `json:"purpose"`
	Notes         string  `json:"notes"`
}

// TripEndRequest represents a trip end request
type TripEndRequest struct {
	TripID      string  `json:"trip_id"`
	EndLocation string  `json:"end_location"`
	EndOdometer float64 `json:"end_odometer"`
	Notes       string  `json:"notes"`
}

// TripEndResult carries the derived figures back to the caller
type TripEndResult struct {
	Trip            *Trip         `json:"trip"`
	DistanceKm      float64       `json:"distance_km"`
	DurationMinutes int           `json:"duration_minutes"`
	VehicleStatus   VehicleStatus `json:"vehicle_status"`
}

// TripPosition is the live GPS position of an ongoing trip,
// cached with last-write-wins semantics while the trip runs.
type TripPosition struct {
	TripID    string    `json:"trip_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed,omitempty"`
	Geohash   string    `json:"geohash"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TripLocationUpdate represents an incoming GPS update for an ongoing trip
type TripLocationUpdate struct {
	TripID    string  `json:"trip_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
}
