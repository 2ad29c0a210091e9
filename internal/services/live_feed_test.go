package services

import (
	"testing"
	"time"

	"fleetdash-backend/internal/models"
	"fleetdash-backend/internal/store"
	"fleetdash-backend/internal/websocket"

	"github.com/zoobzio/clockz"
)

func TestLiveFeedSnapshot(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := store.NewRegistry([]models.DriverRecord{
		{LicenseNumber: "L1", AssignedVehicleRegistration: "DL01AB1234", DutyStart: startedAgo(clock, 9*time.Hour)},
		{LicenseNumber: "L2"},
	}, store.WithClock(clock))
	projector := store.NewProjector(reg, store.DefaultJobTemplates(), store.DefaultVehicleCatalog())
	defer projector.Close()

	hub := websocket.NewHub()
	feed := NewLiveFeed(hub, reg, projector)
	defer feed.Close()

	snap := feed.Snapshot()
	if len(snap.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(snap.Vehicles))
	}
	if snap.Summary.High != 1 {
		t.Errorf("expected one HIGH driver, got %+v", snap.Summary)
	}
	if snap.Stats.OnDuty != 1 || snap.Stats.Offline != 1 {
		t.Errorf("unexpected stats: %+v", snap.Stats)
	}

	msg := hub.Snapshot()
	if msg == nil || msg.Type != "fleet_snapshot" {
		t.Fatalf("hub snapshot provider not wired: %+v", msg)
	}
	if _, ok := msg.Data.(FleetSnapshot); !ok {
		t.Errorf("expected FleetSnapshot payload, got %T", msg.Data)
	}

	// No clients connected; broadcasting must not block
	reg.SetDutyStart("L2", startedAgo(clock, time.Hour))
	if got := feed.Snapshot().Stats.Idle; got != 1 {
		t.Errorf("expected L2 vehicle idle after duty start, got %d", got)
	}
}
