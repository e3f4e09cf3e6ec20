package usecase

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/registry"
)

type fakeFleetRepo struct {
	users      map[string]*models.User
	vehicles   map[string]*models.Vehicle
	assigned   []string
	unassigned []string
}

func newFakeFleetRepo() *fakeFleetRepo {
	return &fakeFleetRepo{
		users:    make(map[string]*models.User),
		vehicles: make(map[string]*models.Vehicle),
	}
}

func (f *fakeFleetRepo) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperr.New(apperr.KindConflict, "email is already registered")
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeFleetRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeFleetRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.ErrUserNotFound
}

func (f *fakeFleetRepo) ListUsers(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeFleetRepo) UpdateUserStatus(_ context.Context, id string, status models.UserStatus) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeFleetRepo) CreateVehicle(_ context.Context, v *models.Vehicle) error {
	f.vehicles[v.ID] = v
	return nil
}

func (f *fakeFleetRepo) GetVehicleByID(_ context.Context, id string) (*models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, apperr.ErrVehicleNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeFleetRepo) ListVehicles(_ context.Context) ([]*models.Vehicle, error) {
	out := make([]*models.Vehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeFleetRepo) ListVehiclesByStatus(_ context.Context, status models.VehicleStatus) ([]*models.Vehicle, error) {
	out := make([]*models.Vehicle, 0)
	for _, v := range f.vehicles {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeFleetRepo) UpdateVehicleStatus(_ context.Context, id string, from, to models.VehicleStatus) error {
	v, ok := f.vehicles[id]
	if !ok {
		return apperr.ErrVehicleNotFound
	}
	if v.Status != from {
		return apperr.ErrInvalidTransition
	}
	v.Status = to
	return nil
}

func (f *fakeFleetRepo) AssignVehicle(_ context.Context, driverID, vehicleID string) error {
	f.assigned = append(f.assigned, driverID+":"+vehicleID)
	return nil
}

func (f *fakeFleetRepo) UnassignVehicle(_ context.Context, driverID string) (string, error) {
	for _, v := range f.vehicles {
		if v.AssignedDriverID == driverID {
			v.AssignedDriverID = ""
			v.Status = models.VehicleStatusAvailable
			f.unassigned = append(f.unassigned, driverID+":"+v.ID)
			return v.ID, nil
		}
	}
	return "", nil
}

func (f *fakeFleetRepo) Reconcile(_ context.Context) error { return nil }

type fakeRegistry struct {
	counters map[registry.Entity]int
}

func (f *fakeRegistry) NextID(_ context.Context, entity registry.Entity) (string, error) {
	if f.counters == nil {
		f.counters = make(map[registry.Entity]int)
	}
	f.counters[entity]++
	switch entity {
	case registry.EntityUser:
		return "U00" + string(rune('0'+f.counters[entity])), nil
	case registry.EntityVehicle:
		return "V00" + string(rune('0'+f.counters[entity])), nil
	}
	return "X001", nil
}

func (f *fakeRegistry) SyncSequences(_ context.Context) error { return nil }

type fakeFleetGW struct {
	events []*models.AssignmentEvent
}

func (f *fakeFleetGW) PublishAssignmentEvent(_ context.Context, e *models.AssignmentEvent) error {
	f.events = append(f.events, e)
	return nil
}

func newTestFleetUC() (*FleetUC, *fakeFleetRepo, *fakeFleetGW) {
	repo := newFakeFleetRepo()
	gw := &fakeFleetGW{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &models.Config{}
	cfg.Engine.MaintenanceKmThreshold = 10000
	cfg.Engine.MaintenanceDaysThreshold = 90

	uc := NewFleetUC(cfg, logger, repo, &fakeRegistry{}, gw)
	return uc, repo, gw
}

func TestRegisterAndLogin(t *testing.T) {
	uc, repo, _ := newTestFleetUC()
	ctx := context.Background()

	user, err := uc.Register(ctx, &models.RegisterRequest{
		Email:    "Driver@Fleet.Test",
		Password: "correct horse",
		Name:     "Driver One",
	})
	require.NoError(t, err)
	assert.Equal(t, "U001", user.ID)
	assert.Equal(t, models.UserStatusPending, user.Status)
	assert.Equal(t, "driver@fleet.test", user.Email)

	// Pending accounts cannot log in
	_, err = uc.Login(ctx, &models.LoginRequest{Email: "driver@fleet.test", Password: "correct horse"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	repo.users["U001"].Status = models.UserStatusActive

	uc.cfg.JWT.Secret = "test-secret"
	uc.cfg.JWT.Expiration = 60

	resp, err := uc.Login(ctx, &models.LoginRequest{Email: "driver@fleet.test", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "U001", resp.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	uc, repo, _ := newTestFleetUC()

	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["U001"] = &models.User{
		ID: "U001", Email: "driver@fleet.test", PasswordHash: string(hash),
		Role: models.RoleEmployee, Status: models.UserStatusActive,
	}

	_, err = uc.Login(context.Background(), &models.LoginRequest{
		Email: "driver@fleet.test", Password: "wrong",
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegister_Validation(t *testing.T) {
	uc, _, _ := newTestFleetUC()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{name: "missing email", req: models.RegisterRequest{Password: "longenough", Name: "X"}},
		{name: "malformed email", req: models.RegisterRequest{Email: "nope", Password: "longenough", Name: "X"}},
		{name: "short password", req: models.RegisterRequest{Email: "a@b.c", Password: "short", Name: "X"}},
		{name: "missing name", req: models.RegisterRequest{Email: "a@b.c", Password: "longenough"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, &tt.req)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestApproveUser(t *testing.T) {
	uc, repo, _ := newTestFleetUC()
	repo.users["U001"] = &models.User{ID: "U001", Status: models.UserStatusPending}

	user, err := uc.ApproveUser(context.Background(), "U001")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)

	// Approving twice conflicts
	_, err = uc.ApproveUser(context.Background(), "U001")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestDeactivateUser_WithVehicle(t *testing.T) {
	uc, repo, _ := newTestFleetUC()
	repo.users["U001"] = &models.User{
		ID: "U001", Status: models.UserStatusActive, AssignedVehicle: "V001",
	}

	_, err := uc.DeactivateUser(context.Background(), "U001")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAssignVehicle_PublishesEvent(t *testing.T) {
	uc, repo, gw := newTestFleetUC()

	err := uc.AssignVehicle(context.Background(), "U001", "V001")
	require.NoError(t, err)

	assert.Equal(t, []string{"U001:V001"}, repo.assigned)
	require.Len(t, gw.events, 1)
	assert.True(t, gw.events[0].Assigned)
}

func TestAssignVehicle_MissingIDs(t *testing.T) {
	uc, _, _ := newTestFleetUC()

	err := uc.AssignVehicle(context.Background(), "", "V001")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateVehicle(t *testing.T) {
	uc, _, _ := newTestFleetUC()

	vehicle, err := uc.CreateVehicle(context.Background(), &models.VehicleCreateRequest{
		Name:         "Box Truck",
		Registration: "B 1234 XY",
		Type:         "Truck",
		OdometerKm:   12000,
	})
	require.NoError(t, err)
	assert.Equal(t, "V001", vehicle.ID)
	assert.Equal(t, models.VehicleStatusAvailable, vehicle.Status)
}

func TestCreateVehicle_NegativeOdometer(t *testing.T) {
	uc, _, _ := newTestFleetUC()

	_, err := uc.CreateVehicle(context.Background(), &models.VehicleCreateRequest{
		Name: "Box Truck", Registration: "B 1", OdometerKm: -1,
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetVehicleStatus_InvalidTransition(t *testing.T) {
	uc, repo, _ := newTestFleetUC()
	repo.vehicles["V001"] = &models.Vehicle{ID: "V001", Status: models.VehicleStatusInUse}

	_, err := uc.SetVehicleStatus(context.Background(), "V001", models.VehicleStatusInactive)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestSetVehicleStatus_ManagedStatesRejected(t *testing.T) {
	uc, repo, _ := newTestFleetUC()
	repo.vehicles["V001"] = &models.Vehicle{ID: "V001", Status: models.VehicleStatusAvailable}
	ctx := context.Background()

	// Allocation and trip states are owned by their controllers, the
	// admin endpoint only retires and revives vehicles
	for _, target := range []models.VehicleStatus{
		models.VehicleStatusAssigned,
		models.VehicleStatusInUse,
		models.VehicleStatusMaintenance,
	} {
		_, err := uc.SetVehicleStatus(ctx, "V001", target)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "target %s", target)
	}

	vehicle, err := uc.SetVehicleStatus(ctx, "V001", models.VehicleStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleStatusInactive, vehicle.Status)
}

func TestUnassignVehicle_TwiceSucceeds(t *testing.T) {
	uc, repo, gw := newTestFleetUC()
	repo.vehicles["V001"] = &models.Vehicle{
		ID: "V001", Status: models.VehicleStatusAssigned, AssignedDriverID: "U001",
	}
	ctx := context.Background()

	require.NoError(t, uc.UnassignVehicle(ctx, "U001"))
	assert.Equal(t, []string{"U001:V001"}, repo.unassigned)
	require.Len(t, gw.events, 1)
	assert.False(t, gw.events[0].Assigned)
	assert.Equal(t, "V001", gw.events[0].VehicleID)

	// Second call is a success no-op and publishes nothing
	require.NoError(t, uc.UnassignVehicle(ctx, "U001"))
	assert.Len(t, repo.unassigned, 1)
	assert.Len(t, gw.events, 1)
}

func TestUnassignVehicle_MissingID(t *testing.T) {
	uc, _, _ := newTestFleetUC()

	err := uc.UnassignVehicle(context.Background(), "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestMaintenanceDue_OrderedByPriority(t *testing.T) {
	uc, repo, _ := newTestFleetUC()
	repo.vehicles["V001"] = &models.Vehicle{ID: "V001", OdometerKm: 11000, DaysSinceService: 10}
	repo.vehicles["V002"] = &models.Vehicle{ID: "V002", OdometerKm: 25000, DaysSinceService: 120}
	repo.vehicles["V003"] = &models.Vehicle{ID: "V003", OdometerKm: 2000, DaysSinceService: 5}

	due, err := uc.MaintenanceDue(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "V002", due[0].ID)
	assert.Equal(t, "V001", due[1].ID)
}
