package gateway

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
	nsqpkg "github.com/fleetops/fleetd/internal/pkg/nsq"
)

// TripGW publishes trip events to NSQ
type TripGW struct {
	producer nsqpkg.Publisher
}

// NewTripGW creates a new trip gateway
func NewTripGW(producer nsqpkg.Publisher) *TripGW {
	return &TripGW{producer: producer}
}

// PublishTripEvent announces a trip lifecycle change
func (g *TripGW) PublishTripEvent(_ context.Context, topic string, event *models.TripEvent) error {
	return g.producer.Publish(topic, event)
}
