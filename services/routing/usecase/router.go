package usecase

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/apperr"
	"github.com/fleetops/fleetd/internal/pkg/models"
)

// defaultLocations is the static road network the fleet operates on.
var defaultLocations = []models.LocationNode{
	{ID: 0, Name: "Warehouse"},
	{ID: 1, Name: "City Center"},
	{ID: 2, Name: "Service Station"},
	{ID: 3, Name: "Highway Junction"},
	{ID: 4, Name: "Delivery Hub"},
	{ID: 5, Name: "Industrial Area"},
}

// defaultRoads are bidirectional, weights in kilometers.
var defaultRoads = []models.RoadEdge{
	{From: 0, To: 1, Distance: 15},
	{From: 0, To: 2, Distance: 8},
	{From: 1, To: 3, Distance: 12},
	{From: 2, To: 3, Distance: 10},
	{From: 3, To: 4, Distance: 18},
	{From: 1, To: 4, Distance: 25},
	{From: 2, To: 5, Distance: 14},
	{From: 4, To: 5, Distance: 20},
}

// RouteUC computes shortest routes over the static road network
type RouteUC struct {
	locations []models.LocationNode
	roads     []models.RoadEdge
	adjacency [][]int
}

// NewRouteUC creates the route usecase with the default network
func NewRouteUC() *RouteUC {
	return newRouteUC(defaultLocations, defaultRoads)
}

func newRouteUC(locations []models.LocationNode, roads []models.RoadEdge) *RouteUC {
	n := len(locations)
	adjacency := make([][]int, n)
	for i := range adjacency {
		adjacency[i] = make([]int, n)
	}
	for _, r := range roads {
		adjacency[r.From][r.To] = r.Distance
		adjacency[r.To][r.From] = r.Distance
	}
	return &RouteUC{
		locations: locations,
		roads:     roads,
		adjacency: adjacency,
	}
}

// ListLocations returns the known locations in id order
func (uc *RouteUC) ListLocations(_ context.Context) []models.LocationNode {
	out := make([]models.LocationNode, len(uc.locations))
	copy(out, uc.locations)
	return out
}

// ListRoads returns the road segments of the network
func (uc *RouteUC) ListRoads(_ context.Context) []models.RoadEdge {
	out := make([]models.RoadEdge, len(uc.roads))
	copy(out, uc.roads)
	return out
}

// GetRoute returns the shortest route between two locations.
// Equal-cost alternatives resolve deterministically: vertices are settled
// in ascending id order, so repeated queries yield the same path.
func (uc *RouteUC) GetRoute(_ context.Context, from, to int) (*models.Route, error) {
	n := len(uc.locations)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, apperr.ErrLocationNotFound
	}

	if from == to {
		return &models.Route{
			From:       uc.locations[from].Name,
			To:         uc.locations[to].Name,
			DistanceKm: 0,
			Path:       []string{uc.locations[from].Name},
		}, nil
	}

	const unreachable = int(^uint(0) >> 1)

	dist := make([]int, n)
	prev := make([]int, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = unreachable
		prev[i] = -1
	}
	dist[from] = 0

	for {
		u := -1
		for v := 0; v < n; v++ {
			if !done[v] && dist[v] != unreachable && (u == -1 || dist[v] < dist[u]) {
				u = v
			}
		}
		if u == -1 || u == to {
			break
		}
		done[u] = true

		for v := 0; v < n; v++ {
			w := uc.adjacency[u][v]
			if w == 0 || done[v] {
				continue
			}
			if dist[u]+w < dist[v] {
				dist[v] = dist[u] + w
				prev[v] = u
			}
		}
	}

	if dist[to] == unreachable {
		return nil, apperr.ErrNoRouteFound
	}

	// Walk parent pointers back from the destination
	var ids []int
	for v := to; v != -1; v = prev[v] {
		ids = append(ids, v)
	}
	path := make([]string, len(ids))
	for i, id := range ids {
		path[len(ids)-1-i] = uc.locations[id].Name
	}

	return &models.Route{
		From:       uc.locations[from].Name,
		To:         uc.locations[to].Name,
		DistanceKm: dist[to],
		Path:       path,
	}, nil
}
