package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
)

// FuelRepo persists fuel records in PostgreSQL
type FuelRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewFuelRepository creates a new fuel repository
func NewFuelRepository(cfg *models.Config, db *sqlx.DB) *FuelRepo {
	return &FuelRepo{
		cfg: cfg,
		db:  db,
	}
}

func storageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return err
}

// CreateRecord inserts a new fuel record
func (r *FuelRepo) CreateRecord(ctx context.Context, record *models.FuelRecord) error {
	query := `
		INSERT INTO fuel_records (
			fuel_id, vehicle_id, driver_id, trip_id, fuel_type,
			quantity_liters, cost_per_liter, total_cost, odometer_km,
			station, receipt_number, status, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	record.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.VehicleID,
		nullable(record.DriverID),
		nullable(record.TripID),
		record.FuelType,
		record.Liters,
		record.CostPerLiter,
		record.TotalCost,
		record.OdometerKm,
		record.Station,
		record.ReceiptNumber,
		record.Status,
		record.Notes,
		record.CreatedAt,
	)
	return storageErr(err)
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

const fuelColumns = `
	fuel_id, vehicle_id, driver_id, trip_id, fuel_type,
	quantity_liters, cost_per_liter, total_cost, odometer_km,
	station, receipt_number, status, notes, created_at, completed_at
`

// GetRecordByID retrieves a fuel record by id
func (r *FuelRepo) GetRecordByID(ctx context.Context, fuelID string) (*models.FuelRecord, error) {
	query := `SELECT ` + fuelColumns + ` FROM fuel_records WHERE fuel_id = $1`

	var dto models.FuelRecordDTO
	if err := r.db.GetContext(ctx, &dto, query, fuelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrFuelNotFound
		}
		return nil, storageErr(err)
	}
	return dto.ToFuelRecord(), nil
}

// ListRecords retrieves records, optionally filtered by vehicle and status
func (r *FuelRepo) ListRecords(ctx context.Context, vehicleID string, status models.FuelStatus) ([]*models.FuelRecord, error) {
	query := `SELECT ` + fuelColumns + ` FROM fuel_records`
	args := []interface{}{}

	switch {
	case vehicleID != "" && status != "":
		query += ` WHERE vehicle_id = $1 AND status = $2`
		args = append(args, vehicleID, status)
	case vehicleID != "":
		query += ` WHERE vehicle_id = $1`
		args = append(args, vehicleID)
	case status != "":
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var dtos []models.FuelRecordDTO
	if err := r.db.SelectContext(ctx, &dtos, query, args...); err != nil {
		return nil, storageErr(err)
	}

	records := make([]*models.FuelRecord, 0, len(dtos))
	for i := range dtos {
		records = append(records, dtos[i].ToFuelRecord())
	}
	return records, nil
}

// UpdateStatus performs a guarded status move
func (r *FuelRepo) UpdateStatus(ctx context.Context, fuelID string, from, to models.FuelStatus) error {
	query := `UPDATE fuel_records SET status = $1 WHERE fuel_id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, to, fuelID, from)
	if err != nil {
		return storageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr(err)
	}
	if rows == 0 {
		var exists int
		if err := r.db.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM fuel_records WHERE fuel_id = $1`, fuelID); err != nil {
			return storageErr(err)
		}
		if exists == 0 {
			return apperr.ErrFuelNotFound
		}
		return apperr.ErrInvalidTransition
	}
	return nil
}

// Complete closes an approved record and rolls the vehicle's odometer
// forward when the recorded reading is ahead of it
func (r *FuelRepo) Complete(ctx context.Context, fuelID string) (*models.FuelRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE fuel_records SET status = $1, completed_at = $2 WHERE fuel_id = $3 AND status = $4`,
		models.FuelStatusCompleted, time.Now(), fuelID, models.FuelStatusApproved)
	if err != nil {
		return nil, storageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, storageErr(err)
	}
	if rows == 0 {
		var exists int
		if err := tx.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM fuel_records WHERE fuel_id = $1`, fuelID); err != nil {
			return nil, storageErr(err)
		}
		if exists == 0 {
			return nil, apperr.ErrFuelNotFound
		}
		return nil, apperr.ErrInvalidTransition
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vehicles SET odometer_km = GREATEST(odometer_km, f.odometer_km), updated_at = $1
		FROM fuel_records f
		WHERE f.fuel_id = $2 AND vehicles.id = f.vehicle_id AND f.odometer_km > 0
	`, time.Now(), fuelID)
	if err != nil {
		return nil, storageErr(err)
	}

	var dto models.FuelRecordDTO
	err = tx.GetContext(ctx, &dto,
		`SELECT `+fuelColumns+` FROM fuel_records WHERE fuel_id = $1`, fuelID)
	if err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return dto.ToFuelRecord(), nil
}
