package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/registry"
)

type fakeFuelRepo struct {
	records map[string]*models.FuelRecord
}

func newFakeFuelRepo() *fakeFuelRepo {
	return &fakeFuelRepo{records: make(map[string]*models.FuelRecord)}
}

func (f *fakeFuelRepo) CreateRecord(_ context.Context, r *models.FuelRecord) error {
	f.records[r.ID] = r
	return nil
}

func (f *fakeFuelRepo) GetRecordByID(_ context.Context, id string) (*models.FuelRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrFuelNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeFuelRepo) ListRecords(_ context.Context, vehicleID string, status models.FuelStatus) ([]*models.FuelRecord, error) {
	out := []*models.FuelRecord{}
	for _, r := range f.records {
		if vehicleID != "" && r.VehicleID != vehicleID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeFuelRepo) UpdateStatus(_ context.Context, id string, from, to models.FuelStatus) error {
	r, ok := f.records[id]
	if !ok {
		return apperr.ErrFuelNotFound
	}
	if r.Status != from {
		return apperr.ErrInvalidTransition
	}
	r.Status = to
	return nil
}

func (f *fakeFuelRepo) Complete(_ context.Context, id string) (*models.FuelRecord, error) {
	if err := f.UpdateStatus(context.Background(), id, models.FuelStatusApproved, models.FuelStatusCompleted); err != nil {
		return nil, err
	}
	r := f.records[id]
	now := time.Now()
	r.CompletedAt = &now
	copied := *r
	return &copied, nil
}

type fakeFuelVehicles struct {
	vehicles map[string]*models.Vehicle
}

func (f *fakeFuelVehicles) GetVehicleByID(_ context.Context, id string) (*models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, apperr.ErrVehicleNotFound
	}
	return v, nil
}

func (f *fakeFuelVehicles) CreateUser(_ context.Context, _ *models.User) error { return nil }
func (f *fakeFuelVehicles) GetUserByID(_ context.Context, _ string) (*models.User, error) {
	return nil, apperr.ErrUserNotFound
}
func (f *fakeFuelVehicles) GetUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, apperr.ErrUserNotFound
}
func (f *fakeFuelVehicles) ListUsers(_ context.Context) ([]*models.User, error) { return nil, nil }
func (f *fakeFuelVehicles) UpdateUserStatus(_ context.Context, _ string, _ models.UserStatus) error {
	return nil
}
func (f *fakeFuelVehicles) CreateVehicle(_ context.Context, _ *models.Vehicle) error { return nil }
func (f *fakeFuelVehicles) ListVehicles(_ context.Context) ([]*models.Vehicle, error) {
	return nil, nil
}
func (f *fakeFuelVehicles) ListVehiclesByStatus(_ context.Context, _ models.VehicleStatus) ([]*models.Vehicle, error) {
	return nil, nil
}
func (f *fakeFuelVehicles) UpdateVehicleStatus(_ context.Context, _ string, _, _ models.VehicleStatus) error {
	return nil
}
func (f *fakeFuelVehicles) AssignVehicle(_ context.Context, _, _ string) error { return nil }
func (f *fakeFuelVehicles) UnassignVehicle(_ context.Context, _ string) (string, error) {
	return "", nil
}
func (f *fakeFuelVehicles) Reconcile(_ context.Context) error { return nil }

type fakeFuelRegistry struct{ n int }

func (f *fakeFuelRegistry) NextID(_ context.Context, _ registry.Entity) (string, error) {
	f.n++
	return "F000" + string(rune('0'+f.n)), nil
}

func (f *fakeFuelRegistry) SyncSequences(_ context.Context) error { return nil }

func newTestFuelUC() (*FuelUC, *fakeFuelRepo) {
	repo := newFakeFuelRepo()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	fleetRepo := &fakeFuelVehicles{vehicles: map[string]*models.Vehicle{
		"V001": {ID: "V001", OdometerKm: 12000, Status: models.VehicleStatusAvailable},
	}}

	uc := NewFuelUC(&models.Config{}, logger, repo, fleetRepo, &fakeFuelRegistry{})
	return uc, repo
}

func TestCreateRecord(t *testing.T) {
	uc, _ := newTestFuelUC()

	record, err := uc.CreateRecord(context.Background(), &models.FuelCreateRequest{
		VehicleID:    "V001",
		DriverID:     "U001",
		FuelType:     "diesel",
		Liters:       40,
		CostPerLiter: 1.5,
		OdometerKm:   12040,
	})
	require.NoError(t, err)

	assert.Equal(t, "F0001", record.ID)
	assert.Equal(t, models.FuelStatusPending, record.Status)
	// Total cost is always derived, never taken from the client
	assert.Equal(t, 60.0, record.TotalCost)
}

func TestCreateRecord_Validation(t *testing.T) {
	uc, _ := newTestFuelUC()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.FuelCreateRequest
	}{
		{"missing vehicle", models.FuelCreateRequest{FuelType: "diesel", Liters: 10, CostPerLiter: 1}},
		{"zero liters", models.FuelCreateRequest{VehicleID: "V001", FuelType: "diesel", CostPerLiter: 1}},
		{"negative cost", models.FuelCreateRequest{VehicleID: "V001", FuelType: "diesel", Liters: 10, CostPerLiter: -1}},
		{"missing fuel type", models.FuelCreateRequest{VehicleID: "V001", Liters: 10, CostPerLiter: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateRecord(ctx, &tt.req)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestCreateRecord_UnknownVehicle(t *testing.T) {
	uc, _ := newTestFuelUC()

	_, err := uc.CreateRecord(context.Background(), &models.FuelCreateRequest{
		VehicleID: "V999", FuelType: "diesel", Liters: 10, CostPerLiter: 1,
	})
	assert.ErrorIs(t, err, apperr.ErrVehicleNotFound)
}

func TestFuelTransitions(t *testing.T) {
	uc, repo := newTestFuelUC()
	ctx := context.Background()
	repo.records["F0001"] = &models.FuelRecord{
		ID: "F0001", VehicleID: "V001", Status: models.FuelStatusPending,
	}

	record, err := uc.Approve(ctx, "F0001")
	require.NoError(t, err)
	assert.Equal(t, models.FuelStatusApproved, record.Status)

	// Approving twice is rejected
	_, err = uc.Approve(ctx, "F0001")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	record, err = uc.Complete(ctx, "F0001")
	require.NoError(t, err)
	assert.Equal(t, models.FuelStatusCompleted, record.Status)
	assert.NotNil(t, record.CompletedAt)
}

func TestReject(t *testing.T) {
	uc, repo := newTestFuelUC()
	repo.records["F0001"] = &models.FuelRecord{
		ID: "F0001", VehicleID: "V001", Status: models.FuelStatusPending,
	}

	record, err := uc.Reject(context.Background(), "F0001")
	require.NoError(t, err)
	assert.Equal(t, models.FuelStatusRejected, record.Status)

	// A rejected record can never be completed
	_, err = uc.Complete(context.Background(), "F0001")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestListRecords_BadStatus(t *testing.T) {
	uc, _ := newTestFuelUC()

	_, err := uc.ListRecords(context.Background(), "", models.FuelStatus("BOGUS"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
