package trips

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// TripUC defines the interface for trip lifecycle business logic
type TripUC interface {
	StartTrip(ctx context.Context, req *models.TripStartRequest) (*models.Trip, error)
	EndTrip(ctx context.Context, req *models.TripEndRequest) (*models.TripEndResult, error)
	UpdateLocation(ctx context.Context, update *models.TripLocationUpdate) (*models.TripPosition, error)
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	GetPosition(ctx context.Context, tripID string) (*models.TripPosition, error)
	ListLivePositions(ctx context.Context, latitude, longitude, radiusKm float64) ([]*models.TripPosition, error)
	ListTrips(ctx context.Context, driverID, vehicleID string) ([]*models.Trip, error)
}
