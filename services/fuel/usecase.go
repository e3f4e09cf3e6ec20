package fuel

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// FuelUC defines the interface for fuel record business logic
type FuelUC interface {
	CreateRecord(ctx context.Context, req *models.FuelCreateRequest) (*models.FuelRecord, error)
	Approve(ctx context.Context, fuelID string) (*models.FuelRecord, error)
	Reject(ctx context.Context, fuelID string) (*models.FuelRecord, error)
	Complete(ctx context.Context, fuelID string) (*models.FuelRecord, error)
	GetRecord(ctx context.Context, fuelID string) (*models.FuelRecord, error)
	ListRecords(ctx context.Context, vehicleID string, status models.FuelStatus) ([]*models.FuelRecord, error)
}
