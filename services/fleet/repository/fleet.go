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

// FleetRepo persists users and vehicles in PostgreSQL
type FleetRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewFleetRepository creates a new fleet repository
func NewFleetRepository(cfg *models.Config, db *sqlx.DB) *FleetRepo {
	return &FleetRepo{
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

// CreateUser inserts a new user account
func (r *FleetRepo) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.New(apperr.KindConflict, "email is already registered")
		}
		return storageErr(err)
	}
	return nil
}

const userColumns = `
	u.id, u.email, u.name, u.password_hash, u.role, u.status,
	v.id AS assigned_vehicle, u.created_at, u.updated_at
`

// GetUserByID retrieves a user with their current vehicle, if any
func (r *FleetRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN vehicles v ON v.assigned_driver_id = u.id
		WHERE u.id = $1
	`

	var dto models.UserDTO
	if err := r.db.GetContext(ctx, &dto, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	return dto.ToUser(), nil
}

// GetUserByEmail retrieves a user by email
func (r *FleetRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN vehicles v ON v.assigned_driver_id = u.id
		WHERE u.email = $1
	`

	var dto models.UserDTO
	if err := r.db.GetContext(ctx, &dto, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	return dto.ToUser(), nil
}

// ListUsers retrieves all users ordered by id
func (r *FleetRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN vehicles v ON v.assigned_driver_id = u.id
		ORDER BY u.id
	`

	var dtos []models.UserDTO
	if err := r.db.SelectContext(ctx, &dtos, query); err != nil {
		return nil, storageErr(err)
	}

	users := make([]*models.User, 0, len(dtos))
	for i := range dtos {
		users = append(users, dtos[i].ToUser())
	}
	return users, nil
}

// UpdateUserStatus sets a user's account status
func (r *FleetRepo) UpdateUserStatus(ctx context.Context, userID string, status models.UserStatus) error {
	query := `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), userID)
	if err != nil {
		return storageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr(err)
	}
	if rows == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// CreateVehicle inserts a new vehicle
func (r *FleetRepo) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (
			id, name, registration, make, model, type, year,
			odometer_km, days_since_service, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.Registration,
		vehicle.Make,
		vehicle.Model,
		vehicle.Type,
		vehicle.Year,
		vehicle.OdometerKm,
		vehicle.DaysSinceService,
		vehicle.Status,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.New(apperr.KindConflict, "registration is already in use")
		}
		return storageErr(err)
	}
	return nil
}

const vehicleColumns = `
	id, name, registration, make, model, type, year,
	odometer_km, days_since_service, status,
	COALESCE(assigned_driver_id, '') AS assigned_driver_id,
	created_at, updated_at
`

// GetVehicleByID retrieves a vehicle by id
func (r *FleetRepo) GetVehicleByID(ctx context.Context, vehicleID string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	var vehicle models.Vehicle
	if err := r.db.GetContext(ctx, &vehicle, query, vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrVehicleNotFound
		}
		return nil, storageErr(err)
	}
	return &vehicle, nil
}

// ListVehicles retrieves all vehicles ordered by id
func (r *FleetRepo) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id`

	var vehicles []*models.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query); err != nil {
		return nil, storageErr(err)
	}
	return vehicles, nil
}

// ListVehiclesByStatus retrieves vehicles in the given status
func (r *FleetRepo) ListVehiclesByStatus(ctx context.Context, status models.VehicleStatus) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE status = $1 ORDER BY id`

	var vehicles []*models.Vehicle
	if err := r.db.SelectContext(ctx, &vehicles, query, status); err != nil {
		return nil, storageErr(err)
	}
	return vehicles, nil
}

// UpdateVehicleStatus moves a vehicle between statuses. The WHERE clause
// carries the expected source status so a concurrent writer cannot slip
// a change in between read and write.
func (r *FleetRepo) UpdateVehicleStatus(ctx context.Context, vehicleID string, from, to models.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, to, time.Now(), vehicleID, from)
	if err != nil {
		return storageErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr(err)
	}
	if rows == 0 {
		// Distinguish a missing vehicle from a lost race
		if _, err := r.GetVehicleByID(ctx, vehicleID); err != nil {
			return err
		}
		return apperr.ErrInvalidTransition
	}
	return nil
}

// AssignVehicle pairs a driver with a vehicle. Both rows are locked for
// the duration of the transaction so two admins cannot hand the same
// vehicle to different drivers.
func (r *FleetRepo) AssignVehicle(ctx context.Context, driverID, vehicleID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	driver, err := lockUser(ctx, tx, driverID)
	if err != nil {
		return err
	}
	if driver.Role != models.RoleEmployee {
		return apperr.ErrDriverNotEligible
	}
	if driver.Status != models.UserStatusActive {
		return apperr.Validation("driver account is not active")
	}

	vehicle, err := lockVehicle(ctx, tx, vehicleID)
	if err != nil {
		return err
	}
	if vehicle.AssignedDriverID != "" {
		return apperr.ErrAlreadyAssigned
	}
	if vehicle.Status != models.VehicleStatusAvailable {
		return apperr.ErrVehicleUnavailable
	}

	// One vehicle per driver
	var existing int
	err = tx.GetContext(ctx, &existing,
		`SELECT COUNT(*) FROM vehicles WHERE assigned_driver_id = $1`, driverID)
	if err != nil {
		return storageErr(err)
	}
	if existing > 0 {
		return apperr.New(apperr.KindConflict, "driver already has an assigned vehicle")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE vehicles SET assigned_driver_id = $1, status = $2, updated_at = $3 WHERE id = $4`,
		driverID, models.VehicleStatusAssigned, time.Now(), vehicleID)
	if err != nil {
		return storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// UnassignVehicle clears whatever vehicle the driver currently holds and
// returns its id. A driver with no assignment is a success no-op, so
// calling this twice in a row works. Rejected while the vehicle is
// mid-trip.
func (r *FleetRepo) UnassignVehicle(ctx context.Context, driverID string) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	// Lock the driver row first, same order as AssignVehicle
	if _, err := lockUser(ctx, tx, driverID); err != nil {
		return "", err
	}

	var vehicle models.Vehicle
	err = tx.GetContext(ctx, &vehicle, `
		SELECT id, name, registration, make, model, type, year,
			odometer_km, days_since_service, status,
			COALESCE(assigned_driver_id, '') AS assigned_driver_id,
			created_at, updated_at
		FROM vehicles WHERE assigned_driver_id = $1 FOR UPDATE
	`, driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Nothing to clear
			return "", nil
		}
		return "", storageErr(err)
	}
	if vehicle.Status == models.VehicleStatusInUse {
		return "", apperr.ErrVehicleBusy
	}

	newStatus := vehicle.Status
	if vehicle.Status == models.VehicleStatusAssigned {
		newStatus = models.VehicleStatusAvailable
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE vehicles SET assigned_driver_id = NULL, status = $1, updated_at = $2 WHERE id = $3`,
		newStatus, time.Now(), vehicle.ID)
	if err != nil {
		return "", storageErr(err)
	}

	if err := tx.Commit(); err != nil {
		return "", apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return vehicle.ID, nil
}

// Reconcile rebuilds vehicle status from the authoritative facts: open
// maintenance wins, then ongoing trips, then assignments. INACTIVE
// vehicles without any of those are left alone.
func (r *FleetRepo) Reconcile(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	statements := []struct {
		query string
		args  []interface{}
	}{
		{
			query: `
				UPDATE vehicles v SET status = $1, updated_at = NOW()
				WHERE EXISTS (
					SELECT 1 FROM maintenance_records m
					WHERE m.vehicle_id = v.id AND m.status IN ($2, $3)
				) AND v.status <> $1
			`,
			args: []interface{}{
				models.VehicleStatusMaintenance,
				models.MaintenanceStatusApproved,
				models.MaintenanceStatusInProgress,
			},
		},
		{
			query: `
				UPDATE vehicles v SET status = $1, updated_at = NOW()
				WHERE EXISTS (
					SELECT 1 FROM trips t
					WHERE t.vehicle_id = v.id AND t.status = $2
				)
				AND NOT EXISTS (
					SELECT 1 FROM maintenance_records m
					WHERE m.vehicle_id = v.id AND m.status IN ($3, $4)
				)
				AND v.status <> $1
			`,
			args: []interface{}{
				models.VehicleStatusInUse,
				models.TripStatusOngoing,
				models.MaintenanceStatusApproved,
				models.MaintenanceStatusInProgress,
			},
		},
		{
			query: `
				UPDATE vehicles v SET status = $1, updated_at = NOW()
				WHERE v.assigned_driver_id IS NOT NULL
				AND NOT EXISTS (
					SELECT 1 FROM trips t
					WHERE t.vehicle_id = v.id AND t.status = $2
				)
				AND NOT EXISTS (
					SELECT 1 FROM maintenance_records m
					WHERE m.vehicle_id = v.id AND m.status IN ($3, $4)
				)
				AND v.status <> $1
			`,
			args: []interface{}{
				models.VehicleStatusAssigned,
				models.TripStatusOngoing,
				models.MaintenanceStatusApproved,
				models.MaintenanceStatusInProgress,
			},
		},
		{
			query: `
				UPDATE vehicles v SET status = $1, updated_at = NOW()
				WHERE v.assigned_driver_id IS NULL
				AND v.status NOT IN ($1, $2)
				AND NOT EXISTS (
					SELECT 1 FROM trips t
					WHERE t.vehicle_id = v.id AND t.status = $3
				)
				AND NOT EXISTS (
					SELECT 1 FROM maintenance_records m
					WHERE m.vehicle_id = v.id AND m.status IN ($4, $5)
				)
			`,
			args: []interface{}{
				models.VehicleStatusAvailable,
				models.VehicleStatusInactive,
				models.TripStatusOngoing,
				models.MaintenanceStatusApproved,
				models.MaintenanceStatusInProgress,
			},
		},
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return storageErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStorageUnavailable, err)
	}
	return nil
}

func lockUser(ctx context.Context, tx *sqlx.Tx, userID string) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, role, status, created_at, updated_at
		FROM users WHERE id = $1 FOR UPDATE
	`

	var user models.User
	if err := tx.GetContext(ctx, &user, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, storageErr(err)
	}
	return &user, nil
}

func lockVehicle(ctx context.Context, tx *sqlx.Tx, vehicleID string) (*models.Vehicle, error) {
	query := `
		SELECT id, name, registration, make, model, type, year,
			odometer_km, days_since_service, status,
			COALESCE(assigned_driver_id, '') AS assigned_driver_id,
			created_at, updated_at
		FROM vehicles WHERE id = $1 FOR UPDATE
	`

	var vehicle models.Vehicle
	if err := tx.GetContext(ctx, &vehicle, query, vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrVehicleNotFound
		}
		return nil, storageErr(err)
	}
	return &vehicle, nil
}
