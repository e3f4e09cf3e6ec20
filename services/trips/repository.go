package trips

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// TripRepo defines the persistence interface for trips
type TripRepo interface {
	// StartTrip and EndTrip each run as one transaction with row locks
	StartTrip(ctx context.Context, trip *models.Trip) error
	EndTrip(ctx context.Context, tripID string, req *models.TripEndRequest) (*models.TripEndResult, error)

	GetTripByID(ctx context.Context, tripID string) (*models.Trip, error)
	GetTripStatus(ctx context.Context, tripID string) (models.TripStatus, error)
	ListTrips(ctx context.Context, driverID, vehicleID string) ([]*models.Trip, error)
}

// PositionRepo caches live GPS positions for ongoing trips
type PositionRepo interface {
	SetPosition(ctx context.Context, pos *models.TripPosition) error
	GetPosition(ctx context.Context, tripID string) (*models.TripPosition, error)
	// ListLive returns cached positions within radiusKm of the given point
	ListLive(ctx context.Context, latitude, longitude, radiusKm float64) ([]*models.TripPosition, error)
	DeletePosition(ctx context.Context, tripID string) error
}
