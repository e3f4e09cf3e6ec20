package routing

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// RouteUC defines the interface for shortest-route queries
type RouteUC interface {
	GetRoute(ctx context.Context, from, to int) (*models.Route, error)
	ListLocations(ctx context.Context) []models.LocationNode
	ListRoads(ctx context.Context) []models.RoadEdge
}
