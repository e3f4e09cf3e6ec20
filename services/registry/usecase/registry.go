package usecase

import (
	"context"
	"fmt"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/services/registry"
)

// idFormat describes how an entity's IDs are rendered and where
// existing rows live for startup resynchronization.
type idFormat struct {
	prefix string
	width  int
	table  string
	column string
}

var idFormats = map[registry.Entity]idFormat{
	registry.EntityUser:        {prefix: "U", width: 3, table: "users", column: "id"},
	registry.EntityVehicle:     {prefix: "V", width: 3, table: "vehicles", column: "id"},
	registry.EntityMaintenance: {prefix: "M", width: 3, table: "maintenance_records", column: "maintenance_id"},
	registry.EntityFuel:        {prefix: "F", width: 4, table: "fuel_records", column: "fuel_id"},
	registry.EntityTrip:        {prefix: "TRIP-", width: 0, table: "trips", column: "trip_id"},
}

// RegistryUC generates prefixed sequential IDs
type RegistryUC struct {
	cfg  *models.Config
	repo registry.SequenceRepo
}

// NewRegistryUC creates the registry usecase
func NewRegistryUC(cfg *models.Config, repo registry.SequenceRepo) *RegistryUC {
	return &RegistryUC{
		cfg:  cfg,
		repo: repo,
	}
}

// NextID returns the next identifier for the given entity, for example
// U001, V042, M007, F0013, TRIP-5. Counters never go backwards and
// values beyond the pad width simply grow wider.
func (uc *RegistryUC) NextID(ctx context.Context, entity registry.Entity) (string, error) {
	format, ok := idFormats[entity]
	if !ok {
		return "", apperr.Validation(fmt.Sprintf("unknown id entity: %s", entity))
	}

	value, err := uc.repo.NextValue(ctx, string(entity))
	if err != nil {
		return "", err
	}

	if format.width > 0 {
		return fmt.Sprintf("%s%0*d", format.prefix, format.width, value), nil
	}
	return fmt.Sprintf("%s%d", format.prefix, value), nil
}

// SyncSequences raises every counter to the highest suffix already stored,
// so IDs stay unique after restoring from a dump or a manual insert.
func (uc *RegistryUC) SyncSequences(ctx context.Context) error {
	for entity, format := range idFormats {
		max, err := uc.repo.MaxAssignedSuffix(ctx, format.table, format.column, format.prefix)
		if err != nil {
			return fmt.Errorf("syncing %s sequence: %w", entity, err)
		}
		if max == 0 {
			continue
		}
		if err := uc.repo.EnsureAtLeast(ctx, string(entity), max); err != nil {
			return fmt.Errorf("syncing %s sequence: %w", entity, err)
		}
	}
	return nil
}
