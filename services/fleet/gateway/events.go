package gateway

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
	nsqpkg "github.com/fleetops/fleetd/internal/pkg/nsq"
)

// FleetGW publishes fleet events to NSQ
type FleetGW struct {
	producer nsqpkg.Publisher
}

// NewFleetGW creates a new fleet gateway
func NewFleetGW(producer nsqpkg.Publisher) *FleetGW {
	return &FleetGW{producer: producer}
}

// PublishAssignmentEvent announces a changed driver/vehicle pairing
func (g *FleetGW) PublishAssignmentEvent(_ context.Context, event *models.AssignmentEvent) error {
	topic := models.TopicVehicleAssigned
	if !event.Assigned {
		topic = models.TopicVehicleUnassigned
	}
	return g.producer.Publish(topic, event)
}
