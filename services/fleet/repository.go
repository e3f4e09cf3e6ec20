package fleet

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// FleetRepo defines the persistence interface for users and vehicles
type FleetRepo interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserStatus(ctx context.Context, userID string, status models.UserStatus) error

	// Vehicles
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicleByID(ctx context.Context, vehicleID string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*models.Vehicle, error)
	ListVehiclesByStatus(ctx context.Context, status models.VehicleStatus) ([]*models.Vehicle, error)
	UpdateVehicleStatus(ctx context.Context, vehicleID string, from, to models.VehicleStatus) error

	// Allocation, each call is one transaction with row locks.
	// UnassignVehicle returns the cleared vehicle id, empty when the
	// driver held no vehicle.
	AssignVehicle(ctx context.Context, driverID, vehicleID string) error
	UnassignVehicle(ctx context.Context, driverID string) (string, error)
	Reconcile(ctx context.Context) error
}
