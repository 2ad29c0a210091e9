package store

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"fleetdash-backend/internal/helpers"
	"fleetdash-backend/internal/models"

	"github.com/zoobzio/clockz"
)

func startedAgo(clock clockz.Clock, d time.Duration) *time.Time {
	t := clock.Now().Add(-d)
	return &t
}

func newTestRegistry(t *testing.T, clock *clockz.FakeClock) *Registry {
	t.Helper()
	drivers := []models.DriverRecord{
		{LicenseNumber: "L1", Name: "Low", AssignedVehicleRegistration: "REG1", DutyStart: startedAgo(clock, 2*time.Hour)},
		{LicenseNumber: "L2", Name: "Medium", AssignedVehicleRegistration: "REG2", DutyStart: startedAgo(clock, 7*time.Hour)},
		{LicenseNumber: "L3", Name: "Critical", AssignedVehicleRegistration: "REG3", DutyStart: startedAgo(clock, 13*time.Hour)},
		{LicenseNumber: "L4", Name: "Offline", AssignedVehicleRegistration: "REG4"},
	}
	return NewRegistry(drivers, WithClock(clock))
}

func TestRegistryDutyStatusInvariant(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := newTestRegistry(t, clock)

	reg.SetDutyStart("L4", startedAgo(clock, time.Hour))
	reg.SetDutyStart("L1", nil)
	reg.AddDriver(models.DriverRecord{LicenseNumber: "L5", Name: "New", DutyStart: startedAgo(clock, time.Hour)})

	for _, d := range reg.Drivers() {
		onDuty := d.DutyStatus() == models.DutyStatusOnDuty
		if onDuty != (d.DutyStart != nil) {
			t.Errorf("driver %s: duty status %s inconsistent with duty start %v", d.LicenseNumber, d.DutyStatus(), d.DutyStart)
		}
	}
}

func TestRegistryFatigueLevel(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := NewRegistry(nil, WithClock(clock))

	if got := reg.FatigueLevel(startedAgo(clock, 13*time.Hour)); got != models.FatigueCritical {
		t.Errorf("13h on duty: expected CRITICAL, got %q", got)
	}
	if got := reg.FatigueLevel(startedAgo(clock, 5*time.Hour)); got != models.FatigueLow {
		t.Errorf("5h on duty: expected LOW, got %q", got)
	}
	if got := reg.FatigueLevel(nil); got != models.FatigueNone {
		t.Errorf("off duty: expected no level, got %q", got)
	}

	start := startedAgo(clock, 6*time.Hour)
	if got := reg.FatigueLevel(start); got != models.FatigueLow {
		t.Errorf("exactly 6h: expected LOW, got %q", got)
	}
	clock.Advance(time.Second)
	if got := reg.FatigueLevel(start); got != models.FatigueMedium {
		t.Errorf("6h plus a second: expected MEDIUM, got %q", got)
	}
}

func TestRegistryAddDriver(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := newTestRegistry(t, clock)
	before := reg.Summary()

	reg.AddDriver(models.DriverRecord{
		LicenseNumber: "L9",
		Name:          "Prepended",
		DutyStart:     startedAgo(clock, 3*time.Hour),
	})

	drivers := reg.Drivers()
	if len(drivers) != 5 {
		t.Fatalf("expected 5 drivers, got %d", len(drivers))
	}
	if drivers[0].LicenseNumber != "L9" {
		t.Errorf("expected new driver first, got %s", drivers[0].LicenseNumber)
	}
	if drivers[0].DutyStart != nil || drivers[0].DutyStatus() != models.DutyStatusOffline {
		t.Errorf("new driver should start off duty")
	}
	if reg.Summary() != before {
		t.Errorf("adding an off duty driver changed summary: %+v -> %+v", before, reg.Summary())
	}

	t.Run("duplicate license numbers are kept", func(t *testing.T) {
		reg.AddDriver(models.DriverRecord{LicenseNumber: "L9", Name: "Duplicate"})
		if reg.Len() != 6 {
			t.Errorf("expected 6 drivers, got %d", reg.Len())
		}
	})
}

func TestRegistryRemoveDrivers(t *testing.T) {
	clock := clockz.NewFakeClock()

	t.Run("removes matches and recomputes", func(t *testing.T) {
		reg := newTestRegistry(t, clock)
		removed := reg.RemoveDrivers("L3", "L4")
		if removed != 2 {
			t.Fatalf("expected 2 removed, got %d", removed)
		}
		want := models.FatigueSummary{Low: 1, Medium: 1}
		if got := reg.Summary(); got != want {
			t.Errorf("summary after removal = %+v, want %+v", got, want)
		}
	})

	t.Run("unknown license leaves registry unchanged", func(t *testing.T) {
		reg := newTestRegistry(t, clock)
		events := 0
		reg.Subscribe(func(Event) { events++ })

		before := reg.Drivers()
		summary := reg.Summary()
		if removed := reg.RemoveDrivers("NOPE"); removed != 0 {
			t.Errorf("expected nothing removed, got %d", removed)
		}
		if !reflect.DeepEqual(before, reg.Drivers()) {
			t.Errorf("drivers changed after removing unknown license")
		}
		if reg.Summary() != summary {
			t.Errorf("summary changed after removing unknown license")
		}
		if events != 0 {
			t.Errorf("expected no events, got %d", events)
		}
	})
}

func TestRegistrySetDutyStart(t *testing.T) {
	clock := clockz.NewFakeClock()

	t.Run("unknown license is a no-op", func(t *testing.T) {
		reg := newTestRegistry(t, clock)
		before := reg.Drivers()
		if reg.SetDutyStart("NOPE", startedAgo(clock, time.Hour)) {
			t.Error("expected false for unknown license")
		}
		if !reflect.DeepEqual(before, reg.Drivers()) {
			t.Error("state changed for unknown license")
		}
	})

	t.Run("toggle off then on moves one driver", func(t *testing.T) {
		reg := newTestRegistry(t, clock)
		initial := reg.Summary()

		if !reg.SetDutyStart("L3", nil) {
			t.Fatal("expected toggle off to succeed")
		}
		off := reg.Summary()
		if off.Critical != initial.Critical-1 || off.Total() != initial.Total()-1 {
			t.Errorf("toggle off: %+v -> %+v", initial, off)
		}

		if !reg.SetDutyStart("L3", startedAgo(clock, 13*time.Hour)) {
			t.Fatal("expected toggle on to succeed")
		}
		on := reg.Summary()
		if on != initial {
			t.Errorf("toggle on: expected %+v, got %+v", initial, on)
		}
	})

	t.Run("caller cannot mutate stored timestamp", func(t *testing.T) {
		reg := newTestRegistry(t, clock)
		start := clock.Now()
		reg.SetDutyStart("L4", &start)
		start = start.Add(-20 * time.Hour)

		d, ok := reg.Driver("L4")
		if !ok {
			t.Fatal("expected driver L4")
		}
		if reg.FatigueLevel(d.DutyStart) != models.FatigueLow {
			t.Errorf("stored timestamp leaked to caller")
		}
	})
}

func TestRegistrySummaryMatchesExternalScan(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := newTestRegistry(t, clock)

	reg.SetDutyStart("L4", startedAgo(clock, 9*time.Hour))
	reg.RemoveDrivers("L1")
	reg.AddDriver(models.DriverRecord{LicenseNumber: "L7"})

	external := helpers.Summarize(reg.Drivers(), clock.Now())
	if got := reg.Summary(); got != external {
		t.Errorf("summary %+v differs from external scan %+v", got, external)
	}
	if first, second := reg.Refresh(), reg.Refresh(); first != second {
		t.Errorf("repeated refresh differs: %+v vs %+v", first, second)
	}
}

func TestRegistrySubscribers(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := newTestRegistry(t, clock)

	var got []Event
	unsubscribe := reg.Subscribe(func(e Event) { got = append(got, e) })

	reg.SetDutyStart("L4", startedAgo(clock, time.Hour))
	reg.RemoveDrivers("L1")

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != EventDriversChanged {
		t.Errorf("expected drivers_changed, got %s", got[0].Type)
	}
	if len(got[1].Drivers) != 3 {
		t.Errorf("second event should see 3 drivers, got %d", len(got[1].Drivers))
	}

	unsubscribe()
	reg.SetDutyStart("L2", nil)
	if len(got) != 2 {
		t.Errorf("received event after unsubscribe")
	}

	t.Run("watch delivers current state first", func(t *testing.T) {
		var first *Event
		reg.Watch(func(e Event) {
			if first == nil {
				first = &e
			}
		})
		if first == nil {
			t.Fatal("watch did not deliver current state")
		}
		if len(first.Drivers) != reg.Len() {
			t.Errorf("expected %d drivers, got %d", reg.Len(), len(first.Drivers))
		}
	})
}

func TestRegistryRefreshLoop(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := NewRegistry([]models.DriverRecord{
		{LicenseNumber: "L1", DutyStart: startedAgo(clock, 6*time.Hour-30*time.Second)},
	}, WithClock(clock))

	refreshed := make(chan models.FatigueSummary, 16)
	reg.Subscribe(func(e Event) {
		if e.Type == EventFatigueRefresh {
			refreshed <- e.Summary
		}
	})

	if got := reg.Summary(); got.Low != 1 {
		t.Fatalf("expected LOW before refresh, got %+v", got)
	}

	reg.Start(context.Background())
	defer reg.Stop()

	// Allow goroutine to start
	time.Sleep(10 * time.Millisecond)

	clock.Advance(DefaultRefreshInterval)
	clock.BlockUntilReady()

	select {
	case summary := <-refreshed:
		if summary.Medium != 1 || summary.Low != 0 {
			t.Errorf("expected drift into MEDIUM, got %+v", summary)
		}
	case <-time.After(time.Second):
		t.Fatal("refresh tick did not fire")
	}

	if got := reg.Summary(); got.Medium != 1 {
		t.Errorf("stored summary not refreshed: %+v", got)
	}
}

func TestRegistryStartStop(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := NewRegistry(nil, WithClock(clock), WithRefreshInterval(time.Minute))

	reg.Start(context.Background())
	reg.Start(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Stop()
		reg.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestRegistryConcurrentMutations(t *testing.T) {
	clock := clockz.NewFakeClock()
	reg := newTestRegistry(t, clock)

	var mu sync.Mutex
	events := 0
	reg.Subscribe(func(Event) {
		mu.Lock()
		events++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				reg.SetDutyStart("L4", startedAgo(clock, time.Hour))
			} else {
				reg.SetDutyStart("L4", nil)
			}
			reg.Refresh()
		}(i)
	}
	wg.Wait()

	if events != 40 {
		t.Errorf("expected 40 events, got %d", events)
	}
	external := helpers.Summarize(reg.Drivers(), clock.Now())
	if reg.Summary() != external {
		t.Errorf("summary %+v differs from scan %+v", reg.Summary(), external)
	}
}
