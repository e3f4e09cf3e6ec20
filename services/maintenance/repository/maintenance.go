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

// MaintenanceRepo persists maintenance records in PostgreSQL
type MaintenanceRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(cfg *models.Config, db *sqlx.DB) *MaintenanceRepo {
	return &MaintenanceRepo{
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

// CreateRecord inserts a new maintenance request
func (r *MaintenanceRepo) CreateRecord(ctx context.Context, record *models.Maintenance) error {
	query := `
		INSERT INTO maintenance_records (
			maintenance_id, vehicle_id, service_type, priority, status,
			scheduled_date, odometer_km, estimated_cost, notes, requested_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	record.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.VehicleID,
		record.ServiceType,
		record.Priority,
		record.Status,
		record.ScheduledDate,
		record.OdometerKm,
		record.EstimatedCost,
		record.Notes,
		record.RequestedBy,
		record.CreatedAt,
	)
	return storageErr(err)
}

const maintenanceColumns = `
	maintenance_id, vehicle_id, service_type, priority, status,
	scheduled_date, odometer_km, estimated_cost, actual_cost,
	service_provider, notes, requested_by, completed_at, created_at
`

// GetRecordByID retrieves a maintenance record by id
func (r *MaintenanceRepo) GetRecordByID(ctx context.Context, maintenanceID string) (*models.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_records WHERE maintenance_id = $1`

	var dto models.MaintenanceDTO
	if err := r.db.GetContext(ctx, &dto, query, maintenanceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrMaintenanceNotFound
		}
		return nil, storageErr(err)
	}
	return dto.ToMaintenance(), nil
}

// ListRecords retrieves records, optionally filtered by vehicle and status
func (r *MaintenanceRepo) ListRecords(ctx context.Context, vehicleID string, status models.MaintenanceStatus) ([]*models.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_records`
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

	var dtos []models.MaintenanceDTO
	if err := r.db.SelectContext(ctx, &dtos, query, args...); err != nil {
		return nil, storageErr(err)
	}

	records := make([]*models.Maintenance, 0, len(dtos))
	for i := range dtos {
		records = append(records, dtos[i].ToMaintenance())
	}
	return records, nil
}

// transition performs a guarded status move inside an open transaction.
// Zero rows means either the record is gone or it is no longer in the
// expected source state, the caller gets the distinction.
func (r *MaintenanceRepo) transition(ctx context.Context, tx *sqlx.Tx, maintenanceID string, from []models.MaintenanceStatus, to models.MaintenanceStatus) error {
	var (
		result sql.Result
		err    error
	)
	if len(from) == 1 {
		result, err = tx.ExecContext(ctx,
			`UPDATE maintenance_records SET status = $1 WHERE maintenance_id = $2 AND status = $3`,
			to, maintenanceID, from[0])
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE maintenance_records SET status = $1 WHERE maintenance_id = $2 AND status IN ($3, $4)`,
			to, maintenanceID, from[0], from[1])
	}
	if err != nil {
		return storageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr(err)
	}
	if rows == 0 {
		var exists int
		if err := tx.GetContext(ctx, &exists,
			`SELECT COUNT(*) FROM maintenance_records WHERE maintenance_id = $1`, maintenanceID); err != nil {
			return storageErr(err)
		}
		if exists == 0 {
			return apperr.ErrMaintenanceNotFound
		}
		return apperr.ErrInvalidTransition
	}
	return nil
}

// Approve moves PENDING to APPROVED. The vehicle drops into MAINTENANCE
// only when idle, a busy vehicle keeps running and the reconciler or
// trip completion picks the state up later.
func (r *MaintenanceRepo) Approve(ctx context.Context, maintenanceID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if err := r.transition(ctx, tx, maintenanceID,
		[]models.MaintenanceStatus{models.MaintenanceStatusPending},
		models.MaintenanceStatusApproved); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vehicles SET status = $1, updated_at = $2
		WHERE id = (SELECT vehicle_id FROM maintenance_records WHERE maintenance_id = $3)
		AND status IN ($4, $5)
	`,
		models.VehicleStatusMaintenance, time.Now(), maintenanceID,
		models.VehicleStatusAvailable, models.VehicleStatusInactive)
	if err != nil {
		return storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// Reject moves PENDING to REJECTED with no vehicle side effect
func (r *MaintenanceRepo) Reject(ctx context.Context, maintenanceID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if err := r.transition(ctx, tx, maintenanceID,
		[]models.MaintenanceStatus{models.MaintenanceStatusPending},
		models.MaintenanceStatusRejected); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// StartWork moves APPROVED to IN_PROGRESS
func (r *MaintenanceRepo) StartWork(ctx context.Context, maintenanceID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if err := r.transition(ctx, tx, maintenanceID,
		[]models.MaintenanceStatus{models.MaintenanceStatusApproved},
		models.MaintenanceStatusInProgress); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// Complete closes the record and releases the vehicle back to AVAILABLE
// with its service clock reset
func (r *MaintenanceRepo) Complete(ctx context.Context, maintenanceID string, req *models.MaintenanceCompleteRequest) (*models.Maintenance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if err := r.transition(ctx, tx, maintenanceID,
		[]models.MaintenanceStatus{models.MaintenanceStatusApproved, models.MaintenanceStatusInProgress},
		models.MaintenanceStatusCompleted); err != nil {
		return nil, err
	}

	completedAt := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE maintenance_records SET
			actual_cost = $1, service_provider = $2, notes = $3, completed_at = $4
		WHERE maintenance_id = $5
	`, req.ActualCost, req.ServiceProvider, req.CompletionNotes, completedAt, maintenanceID)
	if err != nil {
		return nil, storageErr(err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vehicles SET status = $1, days_since_service = 0, updated_at = $2
		WHERE id = (SELECT vehicle_id FROM maintenance_records WHERE maintenance_id = $3)
	`, models.VehicleStatusAvailable, time.Now(), maintenanceID)
	if err != nil {
		return nil, storageErr(err)
	}

	var dto models.MaintenanceDTO
	err = tx.GetContext(ctx, &dto,
		`SELECT `+maintenanceColumns+` FROM maintenance_records WHERE maintenance_id = $1`,
		maintenanceID)
	if err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return dto.ToMaintenance(), nil
}
