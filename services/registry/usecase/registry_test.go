package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/registry"
)

type fakeSequenceRepo struct {
	counters map[string]int64
	maxima   map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{
		counters: make(map[string]int64),
		maxima:   make(map[string]int64),
	}
}

func (f *fakeSequenceRepo) NextValue(_ context.Context, entity string) (int64, error) {
	f.counters[entity]++
	return f.counters[entity], nil
}

func (f *fakeSequenceRepo) EnsureAtLeast(_ context.Context, entity string, value int64) error {
	if f.counters[entity] < value {
		f.counters[entity] = value
	}
	return nil
}

func (f *fakeSequenceRepo) MaxAssignedSuffix(_ context.Context, table, _, _ string) (int64, error) {
	return f.maxima[table], nil
}

func TestNextID_Formats(t *testing.T) {
	tests := []struct {
		name   string
		entity registry.Entity
		want   string
	}{
		{name: "user ids are U plus three digits", entity: registry.EntityUser, want: "U001"},
		{name: "vehicle ids are V plus three digits", entity: registry.EntityVehicle, want: "V001"},
		{name: "maintenance ids are M plus three digits", entity: registry.EntityMaintenance, want: "M001"},
		{name: "fuel ids are F plus four digits", entity: registry.EntityFuel, want: "F0001"},
		{name: "trip ids are TRIP- plus the raw counter", entity: registry.EntityTrip, want: "TRIP-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewRegistryUC(&models.Config{}, newFakeSequenceRepo())
			id, err := uc.NextID(context.Background(), tt.entity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestNextID_Monotonic(t *testing.T) {
	uc := NewRegistryUC(&models.Config{}, newFakeSequenceRepo())

	first, err := uc.NextID(context.Background(), registry.EntityVehicle)
	require.NoError(t, err)
	second, err := uc.NextID(context.Background(), registry.EntityVehicle)
	require.NoError(t, err)

	assert.Equal(t, "V001", first)
	assert.Equal(t, "V002", second)
}

func TestNextID_GrowsBeyondPadding(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.counters["users"] = 999
	uc := NewRegistryUC(&models.Config{}, repo)

	id, err := uc.NextID(context.Background(), registry.EntityUser)
	require.NoError(t, err)
	assert.Equal(t, "U1000", id)
}

func TestNextID_UnknownEntity(t *testing.T) {
	uc := NewRegistryUC(&models.Config{}, newFakeSequenceRepo())

	_, err := uc.NextID(context.Background(), registry.Entity("widgets"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSyncSequences(t *testing.T) {
	repo := newFakeSequenceRepo()
	repo.maxima["vehicles"] = 12
	uc := NewRegistryUC(&models.Config{}, repo)

	require.NoError(t, uc.SyncSequences(context.Background()))

	id, err := uc.NextID(context.Background(), registry.EntityVehicle)
	require.NoError(t, err)
	assert.Equal(t, "V013", id)
}
