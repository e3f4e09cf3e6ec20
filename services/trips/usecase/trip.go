package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/registry"
	"github.com/fleetops/fleetd/services/trips"
)

// TripUC implements the trip lifecycle business logic
type TripUC struct {
	cfg        *models.Config
	logger     *logrus.Logger
	tripRepo   trips.TripRepo
	posRepo    trips.PositionRepo
	registryUC registry.RegistryUC
	tripGW     trips.TripGW
}

// NewTripUC creates the trip usecase
func NewTripUC(
	cfg *models.Config,
	logger *logrus.Logger,
	tripRepo trips.TripRepo,
	posRepo trips.PositionRepo,
	registryUC registry.RegistryUC,
	tripGW trips.TripGW,
) *TripUC {
	return &TripUC{
		cfg:        cfg,
		logger:     logger,
		tripRepo:   tripRepo,
		posRepo:    posRepo,
		registryUC: registryUC,
		tripGW:     tripGW,
	}
}

// StartTrip opens a trip for an assigned driver/vehicle pairing
func (uc *TripUC) StartTrip(ctx context.Context, req *models.TripStartRequest) (*models.Trip, error) {
	if req.DriverID == "" || req.VehicleID == "" {
		return nil, apperr.Validation("driver_id and vehicle_id are required")
	}
	if req.StartLocation == "" || req.Destination == "" {
		return nil, apperr.Validation("start_location and destination are required")
	}
	if req.StartOdometer < 0 {
		return nil, apperr.Validation("start odometer must not be negative")
	}

	id, err := uc.registryUC.NextID(ctx, registry.EntityTrip)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		ID:            id,
		DriverID:      req.DriverID,
		VehicleID:     req.VehicleID,
		StartLocation: req.StartLocation,
		StartLat:      req.StartLat,
		StartLon:      req.StartLon,
		Destination:   req.Destination,
		DestLat:       req.DestLat,
		DestLon:       req.DestLon,
		StartOdometer: req.StartOdometer,
		StartTime:     time.Now(),
		Status:        models.TripStatusOngoing,
		Purpose:       req.Purpose,
		Notes:         req.Notes,
	}

	if err := uc.tripRepo.StartTrip(ctx, trip); err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"trip_id":    trip.ID,
		"driver_id":  trip.DriverID,
		"vehicle_id": trip.VehicleID,
	}).Info("Trip started")

	uc.publishTripEvent(ctx, models.TopicTripStarted, trip, 0)
	return trip, nil
}

// EndTrip completes a trip and settles the vehicle
func (uc *TripUC) EndTrip(ctx context.Context, req *models.TripEndRequest) (*models.TripEndResult, error) {
	if req.TripID == "" {
		return nil, apperr.Validation("trip_id is required")
	}
	if req.EndLocation == "" {
		return nil, apperr.Validation("end_location is required")
	}

	result, err := uc.tripRepo.EndTrip(ctx, req.TripID, req)
	if err != nil {
		return nil, err
	}

	// Best effort cleanup, TTL covers a miss
	if err := uc.posRepo.DeletePosition(ctx, req.TripID); err != nil {
		uc.logger.WithError(err).WithField("trip_id", req.TripID).
			Warn("Failed to drop cached trip position")
	}

	uc.logger.WithFields(logrus.Fields{
		"trip_id":          req.TripID,
		"distance_km":      result.DistanceKm,
		"duration_minutes": result.DurationMinutes,
	}).Info("Trip completed")

	uc.publishTripEvent(ctx, models.TopicTripCompleted, result.Trip, result.DistanceKm)
	return result, nil
}

// UpdateLocation records a GPS fix for an ongoing trip.
// Updates for finished trips are rejected, the cache only tracks live ones.
func (uc *TripUC) UpdateLocation(ctx context.Context, update *models.TripLocationUpdate) (*models.TripPosition, error) {
	if update.TripID == "" {
		return nil, apperr.Validation("trip_id is required")
	}
	if update.Latitude < -90 || update.Latitude > 90 {
		return nil, apperr.Validation("latitude must be between -90 and 90")
	}
	if update.Longitude < -180 || update.Longitude > 180 {
		return nil, apperr.Validation("longitude must be between -180 and 180")
	}

	status, err := uc.tripRepo.GetTripStatus(ctx, update.TripID)
	if err != nil {
		return nil, err
	}
	if status != models.TripStatusOngoing {
		return nil, apperr.ErrTripNotOngoing
	}

	pos := &models.TripPosition{
		TripID:    update.TripID,
		Latitude:  update.Latitude,
		Longitude: update.Longitude,
		Speed:     update.Speed,
		Geohash:   geohash.Encode(update.Latitude, update.Longitude),
		UpdatedAt: time.Now(),
	}

	if err := uc.posRepo.SetPosition(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// GetTrip retrieves a single trip
func (uc *TripUC) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return uc.tripRepo.GetTripByID(ctx, tripID)
}

// GetPosition retrieves the live position of a trip
func (uc *TripUC) GetPosition(ctx context.Context, tripID string) (*models.TripPosition, error) {
	return uc.posRepo.GetPosition(ctx, tripID)
}

// ListLivePositions returns live trip positions within radiusKm of a point
func (uc *TripUC) ListLivePositions(ctx context.Context, latitude, longitude, radiusKm float64) ([]*models.TripPosition, error) {
	if latitude < -90 || latitude > 90 {
		return nil, apperr.Validation("latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return nil, apperr.Validation("longitude must be between -180 and 180")
	}
	if radiusKm <= 0 {
		return nil, apperr.Validation("radius_km must be positive")
	}
	return uc.posRepo.ListLive(ctx, latitude, longitude, radiusKm)
}

// ListTrips retrieves trips filtered by driver and/or vehicle
func (uc *TripUC) ListTrips(ctx context.Context, driverID, vehicleID string) ([]*models.Trip, error) {
	return uc.tripRepo.ListTrips(ctx, driverID, vehicleID)
}

func (uc *TripUC) publishTripEvent(ctx context.Context, topic string, trip *models.Trip, distance float64) {
	event := &models.TripEvent{
		EventID:    uuid.NewString(),
		TripID:     trip.ID,
		DriverID:   trip.DriverID,
		VehicleID:  trip.VehicleID,
		Status:     trip.Status,
		DistanceKm: distance,
		OccurredAt: time.Now(),
	}
	if err := uc.tripGW.PublishTripEvent(ctx, topic, event); err != nil {
		uc.logger.WithError(err).WithField("trip_id", trip.ID).
			Warn("Failed to publish trip event")
	}
}
