package gateway

import (
	"context"

	"github.com/fleetops/fleetd/internal/pkg/models"
	nsqpkg "github.com/fleetops/fleetd/internal/pkg/nsq"
)

// MaintenanceGW publishes maintenance events to NSQ
type MaintenanceGW struct {
	producer nsqpkg.Publisher
}

// NewMaintenanceGW creates a new maintenance gateway
func NewMaintenanceGW(producer nsqpkg.Publisher) *MaintenanceGW {
	return &MaintenanceGW{producer: producer}
}

// PublishMaintenanceEvent announces a maintenance workflow change
func (g *MaintenanceGW) PublishMaintenanceEvent(_ context.Context, topic string, event *models.MaintenanceEvent) error {
	return g.producer.Publish(topic, event)
}
