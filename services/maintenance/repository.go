package maintenance

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// MaintenanceRepo defines the persistence interface for maintenance records
type MaintenanceRepo interface {
	CreateRecord(ctx context.Context, record *models.Maintenance) error
	GetRecordByID(ctx context.Context, maintenanceID string) (*models.Maintenance, error)
	ListRecords(ctx context.Context, vehicleID string, status models.MaintenanceStatus) ([]*models.Maintenance, error)

	// Transition moves a record between workflow states and applies the
	// vehicle side effect in the same transaction
	Approve(ctx context.Context, maintenanceID string) error
	Reject(ctx context.Context, maintenanceID string) error
	StartWork(ctx context.Context, maintenanceID string) error
	Complete(ctx context.Context, maintenanceID string, req *models.MaintenanceCompleteRequest) (*models.Maintenance, error)
}
