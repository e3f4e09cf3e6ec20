package fleet

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// FleetGW defines the event publishing interface for the fleet service
type FleetGW interface {
	PublishAssignmentEvent(ctx context.Context, event *models.AssignmentEvent) error
}
