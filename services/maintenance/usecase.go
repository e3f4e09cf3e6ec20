package maintenance

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// MaintenanceUC defines the interface for the maintenance workflow
type MaintenanceUC interface {
	CreateRequest(ctx context.Context, req *models.MaintenanceCreateRequest) (*models.Maintenance, error)
	Approve(ctx context.Context, maintenanceID string) (*models.Maintenance, error)
	Reject(ctx context.Context, maintenanceID string) (*models.Maintenance, error)
	StartWork(ctx context.Context, maintenanceID string) (*models.Maintenance, error)
	Complete(ctx context.Context, maintenanceID string, req *models.MaintenanceCompleteRequest) (*models.Maintenance, error)
	GetRecord(ctx context.Context, maintenanceID string) (*models.Maintenance, error)
	ListRecords(ctx context.Context, vehicleID string, status models.MaintenanceStatus) ([]*models.Maintenance, error)
}
