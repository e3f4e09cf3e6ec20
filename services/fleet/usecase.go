package fleet

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// FleetUC defines the interface for fleet business logic
type FleetUC interface {
	// Accounts
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	ApproveUser(ctx context.Context, userID string) (*models.User, error)
	DeactivateUser(ctx context.Context, userID string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	// Vehicles
	CreateVehicle(ctx context.Context, req *models.VehicleCreateRequest) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, vehicleID string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, status models.VehicleStatus) ([]*models.Vehicle, error)
	SetVehicleStatus(ctx context.Context, vehicleID string, target models.VehicleStatus) (*models.Vehicle, error)
	MaintenanceDue(ctx context.Context) ([]*models.Vehicle, error)

	// Allocation
	AssignVehicle(ctx context.Context, driverID, vehicleID string) error
	UnassignVehicle(ctx context.Context, driverID string) error
	Reconcile(ctx context.Context) error
}
