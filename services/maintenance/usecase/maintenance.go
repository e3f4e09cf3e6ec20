package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/fleet"
	"github.com/fleetops/fleetd/services/maintenance"
	"github.com/fleetops/fleetd/services/registry"
)

// MaintenanceUC implements the maintenance workflow
type MaintenanceUC struct {
	cfg        *models.Config
	logger     *logrus.Logger
	repo       maintenance.MaintenanceRepo
	fleetRepo  fleet.FleetRepo
	registryUC registry.RegistryUC
	maintenGW  maintenance.MaintenanceGW
}

// NewMaintenanceUC creates the maintenance usecase
func NewMaintenanceUC(
	cfg *models.Config,
	logger *logrus.Logger,
	repo maintenance.MaintenanceRepo,
	fleetRepo fleet.FleetRepo,
	registryUC registry.RegistryUC,
	maintenGW maintenance.MaintenanceGW,
) *MaintenanceUC {
	return &MaintenanceUC{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		fleetRepo:  fleetRepo,
		registryUC: registryUC,
		maintenGW:  maintenGW,
	}
}

// CreateRequest opens a new maintenance request as PENDING
func (uc *MaintenanceUC) CreateRequest(ctx context.Context, req *models.MaintenanceCreateRequest) (*models.Maintenance, error) {
	if req.VehicleID == "" {
		return nil, apperr.Validation("vehicle_id is required")
	}
	if req.ServiceType == "" {
		return nil, apperr.Validation("service_type is required")
	}
	if req.Priority == "" {
		req.Priority = models.MaintenancePriorityMedium
	}
	if !req.Priority.IsValid() {
		return nil, apperr.Validation("priority must be low, medium or high")
	}
	if req.EstimatedCost < 0 {
		return nil, apperr.Validation("estimated cost must not be negative")
	}

	vehicle, err := uc.fleetRepo.GetVehicleByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	odometer := req.OdometerKm
	if odometer == 0 {
		odometer = vehicle.OdometerKm
	}

	scheduled := req.ScheduledDate
	if scheduled.IsZero() {
		scheduled = time.Now()
	}

	id, err := uc.registryUC.NextID(ctx, registry.EntityMaintenance)
	if err != nil {
		return nil, err
	}

	record := &models.Maintenance{
		ID:            id,
		VehicleID:     req.VehicleID,
		ServiceType:   req.ServiceType,
		Priority:      req.Priority,
		Status:        models.MaintenanceStatusPending,
		ScheduledDate: scheduled,
		OdometerKm:    odometer,
		EstimatedCost: req.EstimatedCost,
		Notes:         req.Notes,
		RequestedBy:   req.RequestedBy,
	}

	if err := uc.repo.CreateRecord(ctx, record); err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"maintenance_id": record.ID,
		"vehicle_id":     record.VehicleID,
		"priority":       record.Priority,
	}).Info("Maintenance requested")

	return record, nil
}

// Approve moves a pending request to APPROVED
func (uc *MaintenanceUC) Approve(ctx context.Context, maintenanceID string) (*models.Maintenance, error) {
	if err := uc.repo.Approve(ctx, maintenanceID); err != nil {
		return nil, err
	}

	record, err := uc.repo.GetRecordByID(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}

	uc.publishEvent(ctx, models.TopicMaintenanceApproved, record)
	return record, nil
}

// Reject moves a pending request to REJECTED
func (uc *MaintenanceUC) Reject(ctx context.Context, maintenanceID string) (*models.Maintenance, error) {
	if err := uc.repo.Reject(ctx, maintenanceID); err != nil {
		return nil, err
	}
	return uc.repo.GetRecordByID(ctx, maintenanceID)
}

// StartWork moves an approved request to IN_PROGRESS
func (uc *MaintenanceUC) StartWork(ctx context.Context, maintenanceID string) (*models.Maintenance, error) {
	if err := uc.repo.StartWork(ctx, maintenanceID); err != nil {
		return nil, err
	}
	return uc.repo.GetRecordByID(ctx, maintenanceID)
}

// Complete closes a request, completion needs the real cost and provider
func (uc *MaintenanceUC) Complete(ctx context.Context, maintenanceID string, req *models.MaintenanceCompleteRequest) (*models.Maintenance, error) {
	if req.ActualCost <= 0 {
		return nil, apperr.Validation("actual_cost is required")
	}
	if req.ServiceProvider == "" {
		return nil, apperr.Validation("service_provider is required")
	}

	record, err := uc.repo.Complete(ctx, maintenanceID, req)
	if err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"maintenance_id": maintenanceID,
		"vehicle_id":     record.VehicleID,
	}).Info("Maintenance completed")

	uc.publishEvent(ctx, models.TopicMaintenanceCompleted, record)
	return record, nil
}

// GetRecord retrieves a single maintenance record
func (uc *MaintenanceUC) GetRecord(ctx context.Context, maintenanceID string) (*models.Maintenance, error) {
	return uc.repo.GetRecordByID(ctx, maintenanceID)
}

// ListRecords retrieves records filtered by vehicle and/or status
func (uc *MaintenanceUC) ListRecords(ctx context.Context, vehicleID string, status models.MaintenanceStatus) ([]*models.Maintenance, error) {
	if status != "" && !status.IsValid() {
		return nil, apperr.Validation("unknown maintenance status")
	}
	return uc.repo.ListRecords(ctx, vehicleID, status)
}

func (uc *MaintenanceUC) publishEvent(ctx context.Context, topic string, record *models.Maintenance) {
	event := &models.MaintenanceEvent{
		EventID:       uuid.NewString(),
		MaintenanceID: record.ID,
		VehicleID:     record.VehicleID,
		Status:        record.Status,
		OccurredAt:    time.Now(),
	}
	if err := uc.maintenGW.PublishMaintenanceEvent(ctx, topic, event); err != nil {
		uc.logger.WithError(err).WithField("maintenance_id", record.ID).
			Warn("Failed to publish maintenance event")
	}
}
