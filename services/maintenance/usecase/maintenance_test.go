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

type fakeMaintenanceRepo struct {
	records map[string]*models.Maintenance
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{records: make(map[string]*models.Maintenance)}
}

func (f *fakeMaintenanceRepo) CreateRecord(_ context.Context, r *models.Maintenance) error {
	f.records[r.ID] = r
	return nil
}

func (f *fakeMaintenanceRepo) GetRecordByID(_ context.Context, id string) (*models.Maintenance, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, apperr.ErrMaintenanceNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeMaintenanceRepo) ListRecords(_ context.Context, _ string, _ models.MaintenanceStatus) ([]*models.Maintenance, error) {
	out := make([]*models.Maintenance, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeMaintenanceRepo) move(id string, from []models.MaintenanceStatus, to models.MaintenanceStatus) error {
	r, ok := f.records[id]
	if !ok {
		return apperr.ErrMaintenanceNotFound
	}
	for _, s := range from {
		if r.Status == s {
			r.Status = to
			return nil
		}
	}
	return apperr.ErrInvalidTransition
}

func (f *fakeMaintenanceRepo) Approve(_ context.Context, id string) error {
	return f.move(id, []models.MaintenanceStatus{models.MaintenanceStatusPending}, models.MaintenanceStatusApproved)
}

func (f *fakeMaintenanceRepo) Reject(_ context.Context, id string) error {
	return f.move(id, []models.MaintenanceStatus{models.MaintenanceStatusPending}, models.MaintenanceStatusRejected)
}

func (f *fakeMaintenanceRepo) StartWork(_ context.Context, id string) error {
	return f.move(id, []models.MaintenanceStatus{models.MaintenanceStatusApproved}, models.MaintenanceStatusInProgress)
}

func (f *fakeMaintenanceRepo) Complete(_ context.Context, id string, req *models.MaintenanceCompleteRequest) (*models.Maintenance, error) {
	err := f.move(id, []models.MaintenanceStatus{
		models.MaintenanceStatusApproved, models.MaintenanceStatusInProgress,
	}, models.MaintenanceStatusCompleted)
	if err != nil {
		return nil, err
	}
	r := f.records[id]
	r.ActualCost = &req.ActualCost
	r.ServiceProvider = req.ServiceProvider
	now := time.Now()
	r.CompletedAt = &now
	copied := *r
	return &copied, nil
}

type fakeVehicleLookup struct {
	vehicles map[string]*models.Vehicle
}

func (f *fakeVehicleLookup) GetVehicleByID(_ context.Context, id string) (*models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, apperr.ErrVehicleNotFound
	}
	return v, nil
}

func (f *fakeVehicleLookup) CreateUser(_ context.Context, _ *models.User) error      { return nil }
func (f *fakeVehicleLookup) GetUserByID(_ context.Context, _ string) (*models.User, error) {
	return nil, apperr.ErrUserNotFound
}
func (f *fakeVehicleLookup) GetUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, apperr.ErrUserNotFound
}
func (f *fakeVehicleLookup) ListUsers(_ context.Context) ([]*models.User, error) { return nil, nil }
func (f *fakeVehicleLookup) UpdateUserStatus(_ context.Context, _ string, _ models.UserStatus) error {
	return nil
}
func (f *fakeVehicleLookup) CreateVehicle(_ context.Context, _ *models.Vehicle) error { return nil }
func (f *fakeVehicleLookup) ListVehicles(_ context.Context) ([]*models.Vehicle, error) {
	return nil, nil
}
func (f *fakeVehicleLookup) ListVehiclesByStatus(_ context.Context, _ models.VehicleStatus) ([]*models.Vehicle, error) {
	return nil, nil
}
func (f *fakeVehicleLookup) UpdateVehicleStatus(_ context.Context, _ string, _, _ models.VehicleStatus) error {
	return nil
}
func (f *fakeVehicleLookup) AssignVehicle(_ context.Context, _, _ string) error { return nil }
func (f *fakeVehicleLookup) UnassignVehicle(_ context.Context, _ string) (string, error) {
	return "", nil
}
func (f *fakeVehicleLookup) Reconcile(_ context.Context) error { return nil }

type fakeMaintenanceRegistry struct{ n int }

func (f *fakeMaintenanceRegistry) NextID(_ context.Context, _ registry.Entity) (string, error) {
	f.n++
	return "M00" + string(rune('0'+f.n)), nil
}

func (f *fakeMaintenanceRegistry) SyncSequences(_ context.Context) error { return nil }

type fakeMaintenanceGW struct {
	topics []string
}

func (f *fakeMaintenanceGW) PublishMaintenanceEvent(_ context.Context, topic string, _ *models.MaintenanceEvent) error {
	f.topics = append(f.topics, topic)
	return nil
}

func newTestMaintenanceUC() (*MaintenanceUC, *fakeMaintenanceRepo, *fakeMaintenanceGW) {
	repo := newFakeMaintenanceRepo()
	gw := &fakeMaintenanceGW{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	fleetRepo := &fakeVehicleLookup{vehicles: map[string]*models.Vehicle{
		"V001": {ID: "V001", OdometerKm: 12000, Status: models.VehicleStatusAvailable},
	}}

	uc := NewMaintenanceUC(&models.Config{}, logger, repo, fleetRepo, &fakeMaintenanceRegistry{}, gw)
	return uc, repo, gw
}

func TestCreateRequest(t *testing.T) {
	uc, _, _ := newTestMaintenanceUC()

	record, err := uc.CreateRequest(context.Background(), &models.MaintenanceCreateRequest{
		VehicleID:   "V001",
		ServiceType: "Oil change",
		RequestedBy: "U001",
	})
	require.NoError(t, err)

	assert.Equal(t, "M001", record.ID)
	assert.Equal(t, models.MaintenanceStatusPending, record.Status)
	assert.Equal(t, models.MaintenancePriorityMedium, record.Priority)
	// Omitted odometer falls back to the vehicle's reading
	assert.Equal(t, 12000.0, record.OdometerKm)
}

func TestCreateRequest_UnknownVehicle(t *testing.T) {
	uc, _, _ := newTestMaintenanceUC()

	_, err := uc.CreateRequest(context.Background(), &models.MaintenanceCreateRequest{
		VehicleID: "V999", ServiceType: "Oil change",
	})
	assert.ErrorIs(t, err, apperr.ErrVehicleNotFound)
}

func TestCreateRequest_BadPriority(t *testing.T) {
	uc, _, _ := newTestMaintenanceUC()

	_, err := uc.CreateRequest(context.Background(), &models.MaintenanceCreateRequest{
		VehicleID: "V001", ServiceType: "Oil change", Priority: "urgent",
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestWorkflowTransitions(t *testing.T) {
	tests := []struct {
		name    string
		start   models.MaintenanceStatus
		action  func(*MaintenanceUC, context.Context, string) error
		want    models.MaintenanceStatus
		wantErr bool
	}{
		{
			name:  "approve pending",
			start: models.MaintenanceStatusPending,
			action: func(uc *MaintenanceUC, ctx context.Context, id string) error {
				_, err := uc.Approve(ctx, id)
				return err
			},
			want: models.MaintenanceStatusApproved,
		},
		{
			name:  "reject pending",
			start: models.MaintenanceStatusPending,
			action: func(uc *MaintenanceUC, ctx context.Context, id string) error {
				_, err := uc.Reject(ctx, id)
				return err
			},
			want: models.MaintenanceStatusRejected,
		},
		{
			name:  "start approved",
			start: models.MaintenanceStatusApproved,
			action: func(uc *MaintenanceUC, ctx context.Context, id string) error {
				_, err := uc.StartWork(ctx, id)
				return err
			},
			want: models.MaintenanceStatusInProgress,
		},
		{
			name:  "approve rejected fails",
			start: models.MaintenanceStatusRejected,
			action: func(uc *MaintenanceUC, ctx context.Context, id string) error {
				_, err := uc.Approve(ctx, id)
				return err
			},
			wantErr: true,
		},
		{
			name:  "start pending fails",
			start: models.MaintenanceStatusPending,
			action: func(uc *MaintenanceUC, ctx context.Context, id string) error {
				_, err := uc.StartWork(ctx, id)
				return err
			},
			wantErr: true,
		},
		{
			name:  "reject completed fails",
			start: models.MaintenanceStatusCompleted,
			action: func(uc *MaintenanceUC, ctx context.Context, id string) error {
				_, err := uc.Reject(ctx, id)
				return err
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newTestMaintenanceUC()
			repo.records["M001"] = &models.Maintenance{
				ID: "M001", VehicleID: "V001", Status: tt.start,
			}

			err := tt.action(uc, context.Background(), "M001")
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, repo.records["M001"].Status)
		})
	}
}

func TestApprove_PublishesEvent(t *testing.T) {
	uc, repo, gw := newTestMaintenanceUC()
	repo.records["M001"] = &models.Maintenance{
		ID: "M001", VehicleID: "V001", Status: models.MaintenanceStatusPending,
	}

	_, err := uc.Approve(context.Background(), "M001")
	require.NoError(t, err)
	assert.Equal(t, []string{models.TopicMaintenanceApproved}, gw.topics)
}

func TestComplete(t *testing.T) {
	uc, repo, gw := newTestMaintenanceUC()
	repo.records["M001"] = &models.Maintenance{
		ID: "M001", VehicleID: "V001", Status: models.MaintenanceStatusInProgress,
	}

	record, err := uc.Complete(context.Background(), "M001", &models.MaintenanceCompleteRequest{
		ActualCost:      450,
		ServiceProvider: "City Garage",
	})
	require.NoError(t, err)

	assert.Equal(t, models.MaintenanceStatusCompleted, record.Status)
	require.NotNil(t, record.ActualCost)
	assert.Equal(t, 450.0, *record.ActualCost)
	assert.NotNil(t, record.CompletedAt)
	assert.Equal(t, []string{models.TopicMaintenanceCompleted}, gw.topics)
}

func TestComplete_RequiresCostAndProvider(t *testing.T) {
	uc, repo, _ := newTestMaintenanceUC()
	repo.records["M001"] = &models.Maintenance{
		ID: "M001", VehicleID: "V001", Status: models.MaintenanceStatusApproved,
	}
	ctx := context.Background()

	_, err := uc.Complete(ctx, "M001", &models.MaintenanceCompleteRequest{ServiceProvider: "X"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = uc.Complete(ctx, "M001", &models.MaintenanceCompleteRequest{ActualCost: 100})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
