package fuel

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// FuelRepo defines the persistence interface for fuel records
type FuelRepo interface {
	CreateRecord(ctx context.Context, record *models.FuelRecord) error
	GetRecordByID(ctx context.Context, fuelID string) (*models.FuelRecord, error)
	ListRecords(ctx context.Context, vehicleID string, status models.FuelStatus) ([]*models.FuelRecord, error)
	UpdateStatus(ctx context.Context, fuelID string, from, to models.FuelStatus) error
	Complete(ctx context.Context, fuelID string) (*models.FuelRecord, error)
}
