package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/fleet"
	"github.com/fleetops/fleetd/services/fuel"
	"github.com/fleetops/fleetd/services/registry"
)

// FuelUC implements fuel record business logic
type FuelUC struct {
	cfg        *models.Config
	logger     *logrus.Logger
	repo       fuel.FuelRepo
	fleetRepo  fleet.FleetRepo
	registryUC registry.RegistryUC
}

// NewFuelUC creates the fuel usecase
func NewFuelUC(
	cfg *models.Config,
	logger *logrus.Logger,
	repo fuel.FuelRepo,
	fleetRepo fleet.FleetRepo,
	registryUC registry.RegistryUC,
) *FuelUC {
	return &FuelUC{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		fleetRepo:  fleetRepo,
		registryUC: registryUC,
	}
}

// CreateRecord opens a fuel record, total cost is derived server side
func (uc *FuelUC) CreateRecord(ctx context.Context, req *models.FuelCreateRequest) (*models.FuelRecord, error) {
	if req.VehicleID == "" {
		return nil, apperr.Validation("vehicle_id is required")
	}
	if req.Liters <= 0 {
		return nil, apperr.Validation("quantity_liters must be positive")
	}
	if req.CostPerLiter <= 0 {
		return nil, apperr.Validation("cost_per_liter must be positive")
	}
	if req.FuelType == "" {
		return nil, apperr.Validation("fuel_type is required")
	}

	if _, err := uc.fleetRepo.GetVehicleByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	id, err := uc.registryUC.NextID(ctx, registry.EntityFuel)
	if err != nil {
		return nil, err
	}

	record := &models.FuelRecord{
		ID:            id,
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		TripID:        req.TripID,
		FuelType:      req.FuelType,
		Liters:        req.Liters,
		CostPerLiter:  req.CostPerLiter,
		TotalCost:     req.Liters * req.CostPerLiter,
		OdometerKm:    req.OdometerKm,
		Station:       req.Station,
		ReceiptNumber: req.ReceiptNumber,
		Status:        models.FuelStatusPending,
		Notes:         req.Notes,
	}

	if err := uc.repo.CreateRecord(ctx, record); err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"fuel_id":    record.ID,
		"vehicle_id": record.VehicleID,
		"total_cost": record.TotalCost,
	}).Info("Fuel record created")

	return record, nil
}

// Approve moves a pending record to APPROVED
func (uc *FuelUC) Approve(ctx context.Context, fuelID string) (*models.FuelRecord, error) {
	if err := uc.repo.UpdateStatus(ctx, fuelID, models.FuelStatusPending, models.FuelStatusApproved); err != nil {
		return nil, err
	}
	return uc.repo.GetRecordByID(ctx, fuelID)
}

// Reject moves a pending record to REJECTED
func (uc *FuelUC) Reject(ctx context.Context, fuelID string) (*models.FuelRecord, error) {
	if err := uc.repo.UpdateStatus(ctx, fuelID, models.FuelStatusPending, models.FuelStatusRejected); err != nil {
		return nil, err
	}
	return uc.repo.GetRecordByID(ctx, fuelID)
}

// Complete closes an approved record
func (uc *FuelUC) Complete(ctx context.Context, fuelID string) (*models.FuelRecord, error) {
	return uc.repo.Complete(ctx, fuelID)
}

// GetRecord retrieves a single fuel record
func (uc *FuelUC) GetRecord(ctx context.Context, fuelID string) (*models.FuelRecord, error) {
	return uc.repo.GetRecordByID(ctx, fuelID)
}

// ListRecords retrieves records filtered by vehicle and/or status
func (uc *FuelUC) ListRecords(ctx context.Context, vehicleID string, status models.FuelStatus) ([]*models.FuelRecord, error) {
	if status != "" && !status.IsValid() {
		return nil, apperr.Validation("unknown fuel status")
	}
	return uc.repo.ListRecords(ctx, vehicleID, status)
}
