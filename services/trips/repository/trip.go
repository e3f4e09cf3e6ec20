package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
)

const pgUniqueViolation = "23505"

// TripRepo persists trips in PostgreSQL
type TripRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(cfg *models.Config, db *sqlx.DB) *TripRepo {
	return &TripRepo{
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

// StartTrip opens a trip after locking the vehicle and checking every
// precondition inside the same transaction. The partial unique indexes
// on ongoing trips backstop any race the locks cannot see, surfacing
// as a unique violation mapped to a conflict.
func (r *TripRepo) StartTrip(ctx context.Context, trip *models.Trip) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	var vehicle struct {
		Status           models.VehicleStatus `db:"status"`
		AssignedDriverID string               `db:"assigned_driver_id"`
		OdometerKm       float64              `db:"odometer_km"`
	}
	err = tx.GetContext(ctx, &vehicle, `
		SELECT status, COALESCE(assigned_driver_id, '') AS assigned_driver_id, odometer_km
		FROM vehicles WHERE id = $1 FOR UPDATE
	`, trip.VehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrVehicleNotFound
		}
		return storageErr(err)
	}

	if vehicle.AssignedDriverID != trip.DriverID {
		return apperr.New(apperr.KindConflict, "vehicle is not assigned to this driver")
	}
	if vehicle.Status != models.VehicleStatusAssigned {
		return apperr.ErrVehicleBusy
	}
	if trip.StartOdometer == 0 {
		trip.StartOdometer = vehicle.OdometerKm
	}
	if trip.StartOdometer < vehicle.OdometerKm {
		return apperr.Validation("start odometer is behind the vehicle's recorded reading")
	}

	var ongoing int
	err = tx.GetContext(ctx, &ongoing,
		`SELECT COUNT(*) FROM trips WHERE driver_id = $1 AND status = $2`,
		trip.DriverID, models.TripStatusOngoing)
	if err != nil {
		return storageErr(err)
	}
	if ongoing > 0 {
		return apperr.ErrDriverBusy
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trips (
			trip_id, driver_id, vehicle_id,
			start_location, start_lat, start_lon,
			destination, dest_lat, dest_lon,
			start_odometer, start_time, status, purpose, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		trip.ID, trip.DriverID, trip.VehicleID,
		trip.StartLocation, trip.StartLat, trip.StartLon,
		trip.Destination, trip.DestLat, trip.DestLon,
		trip.StartOdometer, trip.StartTime, trip.Status, trip.Purpose, trip.Notes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.New(apperr.KindConflict, "an ongoing trip already exists for this driver or vehicle")
		}
		return storageErr(err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3`,
		models.VehicleStatusInUse, time.Now(), trip.VehicleID)
	if err != nil {
		return storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// EndTrip closes a trip and settles the vehicle in one transaction.
// Distance and duration are derived here from the locked row, never
// from client input.
func (r *TripRepo) EndTrip(ctx context.Context, tripID string, req *models.TripEndRequest) (*models.TripEndResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	var dto models.TripDTO
	err = tx.GetContext(ctx, &dto, `
		SELECT trip_id, driver_id, vehicle_id,
			start_location, start_lat, start_lon,
			destination, dest_lat, dest_lon,
			end_location, start_odometer, end_odometer,
			start_time, end_time, status, distance_km, duration_minutes,
			purpose, notes
		FROM trips WHERE trip_id = $1 FOR UPDATE
	`, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrTripNotFound
		}
		return nil, storageErr(err)
	}
	trip := dto.ToTrip()

	if trip.Status != models.TripStatusOngoing {
		return nil, apperr.ErrTripNotOngoing
	}
	if req.EndOdometer < trip.StartOdometer {
		return nil, apperr.ErrInvalidOdometer
	}

	endTime := time.Now()
	distance := req.EndOdometer - trip.StartOdometer
	duration := int(endTime.Sub(trip.StartTime).Minutes())

	_, err = tx.ExecContext(ctx, `
		UPDATE trips SET
			status = $1, end_location = $2, end_odometer = $3,
			end_time = $4, distance_km = $5, duration_minutes = $6, notes = $7
		WHERE trip_id = $8
	`,
		models.TripStatusCompleted, req.EndLocation, req.EndOdometer,
		endTime, distance, duration, req.Notes, tripID)
	if err != nil {
		return nil, storageErr(err)
	}

	// The vehicle returns to its driver when the pairing survived the
	// trip, otherwise back to the pool
	var assignedDriver string
	err = tx.GetContext(ctx, &assignedDriver, `
		SELECT COALESCE(assigned_driver_id, '') FROM vehicles WHERE id = $1 FOR UPDATE
	`, trip.VehicleID)
	if err != nil {
		return nil, storageErr(err)
	}

	vehicleStatus := models.VehicleStatusAvailable
	if assignedDriver != "" {
		vehicleStatus = models.VehicleStatusAssigned
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE vehicles SET status = $1, odometer_km = odometer_km + $2, updated_at = $3
		WHERE id = $4
	`, vehicleStatus, distance, time.Now(), trip.VehicleID)
	if err != nil {
		return nil, storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}

	trip.Status = models.TripStatusCompleted
	trip.EndLocation = req.EndLocation
	trip.EndOdometer = &req.EndOdometer
	trip.EndTime = &endTime
	trip.DistanceKm = distance
	trip.DurationMinutes = duration
	trip.Notes = req.Notes

	return &models.TripEndResult{
		Trip:            trip,
		DistanceKm:      distance,
		DurationMinutes: duration,
		VehicleStatus:   vehicleStatus,
	}, nil
}

const tripColumns = `
	trip_id, driver_id, vehicle_id,
	start_location, start_lat, start_lon,
	destination, dest_lat, dest_lon,
	end_location, start_odometer, end_odometer,
	start_time, end_time, status, distance_km, duration_minutes,
	purpose, notes
`

// GetTripByID retrieves a trip by id
func (r *TripRepo) GetTripByID(ctx context.Context, tripID string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE trip_id = $1`

	var dto models.TripDTO
	if err := r.db.GetContext(ctx, &dto, query, tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrTripNotFound
		}
		return nil, storageErr(err)
	}
	return dto.ToTrip(), nil
}

// GetTripStatus retrieves just a trip's status
func (r *TripRepo) GetTripStatus(ctx context.Context, tripID string) (models.TripStatus, error) {
	var status models.TripStatus
	err := r.db.GetContext(ctx, &status, `SELECT status FROM trips WHERE trip_id = $1`, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.ErrTripNotFound
		}
		return "", storageErr(err)
	}
	return status, nil
}

// ListTrips retrieves trips, optionally filtered by driver or vehicle
func (r *TripRepo) ListTrips(ctx context.Context, driverID, vehicleID string) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips`
	args := []interface{}{}

	switch {
	case driverID != "" && vehicleID != "":
		query += ` WHERE driver_id = $1 AND vehicle_id = $2`
		args = append(args, driverID, vehicleID)
	case driverID != "":
		query += ` WHERE driver_id = $1`
		args = append(args, driverID)
	case vehicleID != "":
		query += ` WHERE vehicle_id = $1`
		args = append(args, vehicleID)
	}
	query += ` ORDER BY start_time DESC`

	var dtos []models.TripDTO
	if err := r.db.SelectContext(ctx, &dtos, query, args...); err != nil {
		return nil, storageErr(err)
	}

	trips := make([]*models.Trip, 0, len(dtos))
	for i := range dtos {
		trips = append(trips, dtos[i].ToTrip())
	}
	return trips, nil
}
