package models

import (
	"database/sql"
	"time"
)

// FuelStatus represents a fuel record's approval state
type FuelStatus string

const (
	FuelStatusPending   FuelStatus = "PENDING"
	FuelStatusApproved  FuelStatus = "APPROVED"
	FuelStatusRejected  FuelStatus = "REJECTED"
	FuelStatusCompleted FuelStatus = "COMPLETED"
)

// IsValid reports whether s is a known fuel status.
func (s FuelStatus) IsValid() bool {
	switch s {
	case FuelStatusPending, FuelStatusApproved, FuelStatusRejected, FuelStatusCompleted:
		return true
	}
	return false
}

// FuelRecord represents a refuelling entry
type FuelRecord struct {
	ID            string     `json:"fuel_id" db:"fuel_id"`
	VehicleID     string     `json:"vehicle_id" db:"vehicle_id"`
	DriverID      string     `json:"driver_id,omitempty" db:"driver_id"`
	TripID        string     `json:"trip_id,omitempty" db:"trip_id"`
	FuelType      string     `json:"fuel_type" db:"fuel_type"`
	Liters        float64    `json:"quantity_liters" db:"quantity_liters"`
	CostPerLiter  float64    `json:"cost_per_liter" db:"cost_per_liter"`
	TotalCost     float64    `json:"total_cost" db:"total_cost"`
	OdometerKm    float64    `json:"odometer_km" db:"odometer_km"`
	Station       string     `json:"station,omitempty" db:"station"`
	ReceiptNumber string     `json:"receipt_number,omitempty" db:"receipt_number"`
	Status        FuelStatus `json:"status" db:"status"`
	Notes         string     `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// FuelRecordDTO flattens nullable columns for scanning.
type FuelRecordDTO struct {
	ID            string          `db:"fuel_id"`
	VehicleID     string          `db:"vehicle_id"`
	DriverID      sql.NullString  `db:"driver_id"`
	TripID        sql.NullString  `db:"trip_id"`
	FuelType      string          `db:"fuel_type"`
	Liters        float64         `db:"quantity_liters"`
	CostPerLiter  float64         `db:"cost_per_liter"`
	TotalCost     float64         `db:"total_cost"`
	OdometerKm    sql.NullFloat64 `db:"odometer_km"`
	Station       sql.NullString  `db:"station"`
	ReceiptNumber sql.NullString  `db:"receipt_number"`
	Status        FuelStatus      `db:"status"`
	Notes         sql.NullString  `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	CompletedAt   sql.NullTime    `db:"completed_at"`
}

// ToFuelRecord converts a scanned row to the API model.
func (d *FuelRecordDTO) ToFuelRecord() *FuelRecord {
	f := &FuelRecord{
		ID:           d.ID,
		VehicleID:    d.VehicleID,
		FuelType:     d.FuelType,
		Liters:       d.Liters,
		CostPerLiter: d.CostPerLiter,
		TotalCost:    d.TotalCost,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
	}
	if d.DriverID.Valid {
		f.DriverID = d.DriverID.String
	}
	if d.TripID.Valid {
		f.TripID = d.TripID.String
	}
	if d.OdometerKm.Valid {
		f.OdometerKm = d.OdometerKm.Float64
	}
	if d.Station.Valid {
		f.Station = d.Station.String
	}
	if d.ReceiptNumber.Valid {
		f.ReceiptNumber = d.ReceiptNumber.String
	}
	if d.Notes.Valid {
		f.Notes = d.Notes.String
	}
	if d.CompletedAt.Valid {
		v := d.CompletedAt.Time
		f.CompletedAt = &v
	}
	return f
}

// FuelCreateRequest represents a new fuel record
type FuelCreateRequest struct {
	VehicleID     string  `json:"vehicle_id"`
	DriverID      string  `json:"driver_id"`
	TripID        string  `json:"trip_id"`
	FuelType      string  `json:"fuel_type"`
	Liters        float64 `json:"quantity_liters"`
	CostPerLiter  float64 `json:"cost_per_liter"`
	OdometerKm    float64 `json:"odometer_km"`
	Station       string  `json:"station"`
	ReceiptNumber string  `json:"receipt_number"`
	Notes         string  `json:"notes"`
}
