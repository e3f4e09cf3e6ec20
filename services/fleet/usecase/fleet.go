package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/fleet"
	"github.com/fleetops/fleetd/services/registry"
)

// FleetUC implements the fleet business logic
type FleetUC struct {
	cfg        *models.Config
	logger     *logrus.Logger
	fleetRepo  fleet.FleetRepo
	registryUC registry.RegistryUC
	fleetGW    fleet.FleetGW
}

// NewFleetUC creates the fleet usecase
func NewFleetUC(
	cfg *models.Config,
	logger *logrus.Logger,
	fleetRepo fleet.FleetRepo,
	registryUC registry.RegistryUC,
	fleetGW fleet.FleetGW,
) *FleetUC {
	return &FleetUC{
		cfg:        cfg,
		logger:     logger,
		fleetRepo:  fleetRepo,
		registryUC: registryUC,
		fleetGW:    fleetGW,
	}
}

// CreateVehicle registers a new vehicle as AVAILABLE
func (uc *FleetUC) CreateVehicle(ctx context.Context, req *models.VehicleCreateRequest) (*models.Vehicle, error) {
	if req.Name == "" {
		return nil, apperr.Validation("vehicle name is required")
	}
	if req.Registration == "" {
		return nil, apperr.Validation("registration is required")
	}
	if req.OdometerKm < 0 {
		return nil, apperr.Validation("odometer must not be negative")
	}

	id, err := uc.registryUC.NextID(ctx, registry.EntityVehicle)
	if err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		ID:               id,
		Name:             req.Name,
		Registration:     req.Registration,
		Make:             req.Make,
		Model:            req.Model,
		Type:             req.Type,
		Year:             req.Year,
		OdometerKm:       req.OdometerKm,
		DaysSinceService: req.DaysSinceService,
		Status:           models.VehicleStatusAvailable,
	}

	if err := uc.fleetRepo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"vehicle_id":   vehicle.ID,
		"registration": vehicle.Registration,
	}).Info("Vehicle registered")

	return vehicle, nil
}

// GetVehicle retrieves a single vehicle
func (uc *FleetUC) GetVehicle(ctx context.Context, vehicleID string) (*models.Vehicle, error) {
	return uc.fleetRepo.GetVehicleByID(ctx, vehicleID)
}

// ListVehicles retrieves vehicles, optionally filtered by status
func (uc *FleetUC) ListVehicles(ctx context.Context, status models.VehicleStatus) ([]*models.Vehicle, error) {
	if status == "" {
		return uc.fleetRepo.ListVehicles(ctx)
	}
	if !status.IsValid() {
		return nil, apperr.Validation("unknown vehicle status")
	}
	return uc.fleetRepo.ListVehiclesByStatus(ctx, status)
}

// SetVehicleStatus retires a vehicle to INACTIVE or brings it back to
// AVAILABLE. The other statuses are projections owned by allocation,
// trips and maintenance; the admin surface cannot set them directly.
func (uc *FleetUC) SetVehicleStatus(ctx context.Context, vehicleID string, target models.VehicleStatus) (*models.Vehicle, error) {
	if !target.IsValid() {
		return nil, apperr.Validation("unknown vehicle status")
	}
	if target != models.VehicleStatusAvailable && target != models.VehicleStatusInactive {
		return nil, apperr.Validation("status can only be set to AVAILABLE or INACTIVE")
	}

	vehicle, err := uc.fleetRepo.GetVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Status.CanTransition(target) {
		return nil, apperr.ErrInvalidTransition
	}

	if err := uc.fleetRepo.UpdateVehicleStatus(ctx, vehicleID, vehicle.Status, target); err != nil {
		return nil, err
	}

	return uc.fleetRepo.GetVehicleByID(ctx, vehicleID)
}

// MaintenanceDue lists vehicles past either service threshold, most
// urgent first
func (uc *FleetUC) MaintenanceDue(ctx context.Context) ([]*models.Vehicle, error) {
	vehicles, err := uc.fleetRepo.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]*models.Vehicle, 0)
	for _, v := range vehicles {
		if v.NeedsMaintenance(uc.cfg.Engine.MaintenanceKmThreshold, uc.cfg.Engine.MaintenanceDaysThreshold) {
			due = append(due, v)
		}
	}

	// Priority descending, id ascending as stable order
	sort.Slice(due, func(i, j int) bool {
		pi, pj := due[i].MaintenancePriority(), due[j].MaintenancePriority()
		if pi != pj {
			return pi > pj
		}
		return due[i].ID < due[j].ID
	})

	return due, nil
}

// AssignVehicle pairs an active employee with an available vehicle
func (uc *FleetUC) AssignVehicle(ctx context.Context, driverID, vehicleID string) error {
	if driverID == "" || vehicleID == "" {
		return apperr.Validation("driver_id and vehicle_id are required")
	}

	if err := uc.fleetRepo.AssignVehicle(ctx, driverID, vehicleID); err != nil {
		return err
	}

	uc.publishAssignment(ctx, driverID, vehicleID, true)
	return nil
}

// UnassignVehicle clears the driver's current vehicle, if any. A driver
// without an assignment succeeds without doing anything.
func (uc *FleetUC) UnassignVehicle(ctx context.Context, driverID string) error {
	if driverID == "" {
		return apperr.Validation("driver_id is required")
	}

	vehicleID, err := uc.fleetRepo.UnassignVehicle(ctx, driverID)
	if err != nil {
		return err
	}
	if vehicleID == "" {
		return nil
	}

	uc.publishAssignment(ctx, driverID, vehicleID, false)
	return nil
}

// Reconcile rebuilds vehicle status projections from stored facts
func (uc *FleetUC) Reconcile(ctx context.Context) error {
	if err := uc.fleetRepo.Reconcile(ctx); err != nil {
		return err
	}
	uc.logger.Info("Fleet status reconciliation completed")
	return nil
}

// Events are best effort, failures are logged and never fail the operation
func (uc *FleetUC) publishAssignment(ctx context.Context, driverID, vehicleID string, assigned bool) {
	event := &models.AssignmentEvent{
		EventID:    uuid.NewString(),
		DriverID:   driverID,
		VehicleID:  vehicleID,
		Assigned:   assigned,
		OccurredAt: time.Now(),
	}
	if err := uc.fleetGW.PublishAssignmentEvent(ctx, event); err != nil {
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"driver_id":  driverID,
			"vehicle_id": vehicleID,
		}).Warn("Failed to publish assignment event")
	}
}
