package registry

import "context"

// Entity names the ID spaces managed by the registry
type Entity string

const (
	EntityUser        Entity = "users"
	EntityVehicle     Entity = "vehicles"
	EntityTrip        Entity = "trips"
	EntityMaintenance Entity = "maintenance"
	EntityFuel        Entity = "fuel"
)

// RegistryUC defines the interface for ID generation
type RegistryUC interface {
	NextID(ctx context.Context, entity Entity) (string, error)
	SyncSequences(ctx context.Context) error
}
