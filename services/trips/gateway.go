package trips

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// TripGW defines the event publishing interface for the trips service
type TripGW interface {
	PublishTripEvent(ctx context.Context, topic string, event *models.TripEvent) error
}
