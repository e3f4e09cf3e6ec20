package models

import (
	"database/sql"
	"time"
)

// MaintenanceStatus represents a maintenance request's workflow state
type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "PENDING"
	MaintenanceStatusApproved   MaintenanceStatus = "APPROVED"
	MaintenanceStatusRejected   MaintenanceStatus = "REJECTED"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusCompleted  MaintenanceStatus = "COMPLETED"
)

// maintenanceTransitions is the closed workflow table.
var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceStatusPending:    {MaintenanceStatusApproved, MaintenanceStatusRejected},
	MaintenanceStatusApproved:   {MaintenanceStatusInProgress, MaintenanceStatusCompleted},
	MaintenanceStatusInProgress: {MaintenanceStatusCompleted},
	MaintenanceStatusRejected:   {},
	MaintenanceStatusCompleted:  {},
}

// IsValid reports whether s is a known maintenance status.
func (s MaintenanceStatus) IsValid() bool {
	_, ok := maintenanceTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to target is allowed.
func (s MaintenanceStatus) CanTransition(target MaintenanceStatus) bool {
	for _, t := range maintenanceTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// MaintenancePriority is the requested urgency of a maintenance record.
// It is independent of the vehicle's derived priority score.
type MaintenancePriority string

const (
	MaintenancePriorityLow    MaintenancePriority = "low"
	MaintenancePriorityMedium MaintenancePriority = "medium"
	MaintenancePriorityHigh   MaintenancePriority = "high"
)

// IsValid reports whether p is a known priority.
func (p MaintenancePriority) IsValid() bool {
	switch p {
	case MaintenancePriorityLow, MaintenancePriorityMedium, MaintenancePriorityHigh:
		return true
	}
	return false
}

// Maintenance represents a vehicle maintenance request
type Maintenance struct {
	ID              string              `json:"maintenance_id" db:"maintenance_id"`
	VehicleID       string              `json:"vehicle_id" db:"vehicle_id"`
	ServiceType     string              `json:"service_type" db:"service_type"`
	Priority        MaintenancePriority `json:"priority" db:"priority"`
	Status          MaintenanceStatus   `json:"status" db:"status"`
	ScheduledDate   time.Time           `json:"scheduled_date" db:"scheduled_date"`
	OdometerKm      float64             `json:"odometer_km" db:"odometer_km"`
	EstimatedCost   float64             `json:"estimated_cost" db:"estimated_cost"`
	ActualCost      *float64            `json:"actual_cost,omitempty" db:"actual_cost"`
	ServiceProvider string              `json:"service_provider,omitempty" db:"service_provider"`
	Notes           string              `json:"notes,omitempty" db:"notes"`
	RequestedBy     string              `json:"requested_by" db:"requested_by"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
}

// MaintenanceDTO flattens nullable completion columns for scanning.
type MaintenanceDTO struct {
	ID              string              `db:"maintenance_id"`
	VehicleID       string              `db:"vehicle_id"`
	ServiceType     string              `db:"service_type"`
	Priority        MaintenancePriority `db:"priority"`
	Status          MaintenanceStatus   `db:"status"`
	ScheduledDate   time.Time           `db:"scheduled_date"`
	OdometerKm      float64             `db:"odometer_km"`
	EstimatedCost   float64             `db:"estimated_cost"`
	ActualCost      sql.NullFloat64     `db:"actual_cost"`
	ServiceProvider sql.NullString      `db:"service_provider"`
	Notes           sql.NullString      `db:"notes"`
	RequestedBy     string              `db:"requested_by"`
	CompletedAt     sql.NullTime        `db:"completed_at"`
	CreatedAt       time.Time           `db:"created_at"`
}

// ToMaintenance converts a scanned row to the API model.
func (d *MaintenanceDTO) ToMaintenance() *Maintenance {
	m := &Maintenance{
		ID:            d.ID,
		VehicleID:     d.VehicleID,
		ServiceType:   d.ServiceType,
		Priority:      d.Priority,
		Status:        d.Status,
		ScheduledDate: d.ScheduledDate,
		OdometerKm:    d.OdometerKm,
		EstimatedCost: d.EstimatedCost,
		RequestedBy:   d.RequestedBy,
		CreatedAt:     d.CreatedAt,
	}
	if d.ActualCost.Valid {
		v := d.ActualCost.Float64
		m.ActualCost = &v
	}
	if d.ServiceProvider.Valid {
		m.ServiceProvider = d.ServiceProvider.String
	}
	if d.Notes.Valid {
		m.Notes = d.Notes.String
	}
	if d.CompletedAt.Valid {
		v := d.CompletedAt.Time
		m.CompletedAt = &v
	}
	return m
}

// MaintenanceCreateRequest represents a new maintenance request
type MaintenanceCreateRequest struct {
	VehicleID     string              `json:"vehicle_id"`
	ServiceType   string              `json:"service_type"`
	Priority      MaintenancePriority `json:"priority"`
	ScheduledDate time.Time           `json:"scheduled_date"`
	OdometerKm    float64             `json:"odometer_km"`
	EstimatedCost float64             `json:"estimated_cost"`
	Notes         string              `json:"notes"`
	RequestedBy   string              `json:"requested_by"`
}

// MaintenanceCompleteRequest carries the fields completion requires
type MaintenanceCompleteRequest struct {
	ActualCost      float64 `json:"actual_cost"`
	ServiceProvider string  `json:"service_provider"`
	CompletionNotes string  `json:"completion_notes"`
}
