package maintenance

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// MaintenanceGW defines the event publishing interface for maintenance
type MaintenanceGW interface {
	PublishMaintenanceEvent(ctx context.Context, topic string, event *models.MaintenanceEvent) error
}
