package models

// LocationNode is a named vertex in the static road network
type LocationNode struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RoadEdge is a bidirectional weighted road between two locations
type RoadEdge struct {
	From     int `json:"from"`
	To       int `json:"to"`
	Distance int `json:"distance_km"`
}

// Route is the result of a shortest-path query
type Route struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	DistanceKm int      `json:"distance_km"`
	Path       []string `json:"path"`
}

// RouteRequest represents a shortest-route query between two location ids
type RouteRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}
