package services

import (
	"log"

	"fleetdash-backend/internal/models"
	"fleetdash-backend/internal/store"
	"fleetdash-backend/internal/websocket"
)

// FleetSnapshot is what dashboards receive on connect
type FleetSnapshot struct {
	Vehicles []models.VehicleRecord `json:"vehicles"`
	Stats    models.FleetStats      `json:"stats"`
	Summary  models.FatigueSummary  `json:"fatigue_summary"`
}

// LiveFeed streams projector and registry changes to dashboard websockets
type LiveFeed struct {
	registry  *store.Registry
	projector *store.Projector
	hub       *websocket.Hub
	unsubs    []func()
}

// NewLiveFeed wires the hub to the registry and projector
func NewLiveFeed(hub *websocket.Hub, registry *store.Registry, projector *store.Projector) *LiveFeed {
	f := &LiveFeed{
		registry:  registry,
		projector: projector,
		hub:       hub,
	}

	hub.SetSnapshotProvider(func() *websocket.Message {
		return websocket.NewMessage("fleet_snapshot", f.Snapshot())
	})

	f.unsubs = append(f.unsubs,
		projector.Subscribe(f.onVehicles),
		registry.Subscribe(f.onRegistryEvent),
	)

	log.Println("✅ Live feed attached to WebSocket hub")
	return f
}

// Snapshot returns the current fleet state
func (f *LiveFeed) Snapshot() FleetSnapshot {
	return FleetSnapshot{
		Vehicles: f.projector.Vehicles(),
		Stats:    f.projector.Stats(),
		Summary:  f.registry.Summary(),
	}
}

// Close stops forwarding updates
func (f *LiveFeed) Close() {
	for _, unsub := range f.unsubs {
		unsub()
	}
	f.unsubs = nil
}

func (f *LiveFeed) onVehicles(vehicles []models.VehicleRecord) {
	f.hub.BroadcastToRole(websocket.RoleDashboard, websocket.NewMessage("vehicles_update", map[string]interface{}{
		"vehicles": vehicles,
		"stats":    f.projector.Stats(),
	}))
}

func (f *LiveFeed) onRegistryEvent(event store.Event) {
	f.hub.BroadcastToRole(websocket.RoleDashboard, websocket.NewMessage("fatigue_summary", event.Summary))
}
