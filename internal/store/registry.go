package store

import (
	"context"
	"log"
	"sync"
	"time"

	"fleetdash-backend/internal/helpers"
	"fleetdash-backend/internal/models"

	"github.com/zoobzio/clockz"
)

// DefaultRefreshInterval is how often the fatigue summary is recomputed
// without any mutation, so duty-time drift shows up on dashboards
const DefaultRefreshInterval = 60 * time.Second

// EventType identifies why subscribers are being notified
type EventType string

const (
	EventDriversChanged EventType = "drivers_changed"
	EventFatigueRefresh EventType = "fatigue_refresh"
)

// Event carries a snapshot of registry state after a mutation or refresh tick
type Event struct {
	Type    EventType
	Drivers []models.DriverRecord
	Summary models.FatigueSummary
	At      time.Time
}

type subscriber struct {
	id int
	fn func(Event)
}

// Registry is the source of truth for drivers and their duty state.
//
// Every mutation rescans all records to rebuild the fatigue summary (O(n)),
// which is fine for fleets of a few hundred drivers. Subscribers are called
// synchronously, in mutation order, after the mutation has been applied.
// A subscriber must not mutate the registry from its callback.
type Registry struct {
	mu      sync.RWMutex
	drivers []models.DriverRecord
	summary models.FatigueSummary

	clock           clockz.Clock
	refreshInterval time.Duration

	// notifyMu serializes mutate+notify so events arrive in mutation order
	notifyMu    sync.Mutex
	subsMu      sync.RWMutex
	subscribers []subscriber
	nextSubID   int

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithClock sets the time source used for fatigue and refresh ticks
func WithClock(clock clockz.Clock) RegistryOption {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithRefreshInterval overrides the background refresh period
func WithRefreshInterval(interval time.Duration) RegistryOption {
	return func(r *Registry) {
		if interval > 0 {
			r.refreshInterval = interval
		}
	}
}

// NewRegistry creates a registry seeded with the given drivers
func NewRegistry(initial []models.DriverRecord, opts ...RegistryOption) *Registry {
	r := &Registry{
		clock:           clockz.RealClock,
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.drivers = make([]models.DriverRecord, 0, len(initial))
	for _, d := range initial {
		r.drivers = append(r.drivers, d.Clone())
	}
	r.summary = helpers.Summarize(r.drivers, r.clock.Now())

	return r
}

// Now returns the registry's notion of the current time
func (r *Registry) Now() time.Time {
	return r.clock.Now()
}

// AddDriver prepends a driver. New drivers always start off duty.
// License numbers are not checked for uniqueness.
func (r *Registry) AddDriver(record models.DriverRecord) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	record = record.Clone()
	record.DutyStart = nil

	r.mu.Lock()
	r.drivers = append([]models.DriverRecord{record}, r.drivers...)
	event := r.recomputeLocked(EventDriversChanged)
	r.mu.Unlock()

	log.Printf("➕ [REGISTRY] Driver added: %s (%s)", record.Name, record.LicenseNumber)
	r.publish(event)
}

// RemoveDrivers removes every driver whose license number is listed and
// returns how many records were removed. Unknown license numbers are ignored;
// when nothing matches, state is untouched and no event is published.
func (r *Registry) RemoveDrivers(licenseNumbers ...string) int {
	if len(licenseNumbers) == 0 {
		return 0
	}

	targets := make(map[string]struct{}, len(licenseNumbers))
	for _, ln := range licenseNumbers {
		targets[ln] = struct{}{}
	}

	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	kept := make([]models.DriverRecord, 0, len(r.drivers))
	for _, d := range r.drivers {
		if _, ok := targets[d.LicenseNumber]; !ok {
			kept = append(kept, d)
		}
	}
	removed := len(r.drivers) - len(kept)
	if removed == 0 {
		r.mu.Unlock()
		return 0
	}
	r.drivers = kept
	event := r.recomputeLocked(EventDriversChanged)
	r.mu.Unlock()

	log.Printf("➖ [REGISTRY] Removed %d driver(s)", removed)
	r.publish(event)
	return removed
}

// SetDutyStart sets or clears (nil) the duty start of a driver.
// Returns false without touching state if the license number is unknown.
// With duplicate license numbers only the first match is updated.
func (r *Registry) SetDutyStart(licenseNumber string, start *time.Time) bool {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	idx := r.indexLocked(licenseNumber)
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	if start != nil {
		t := *start
		r.drivers[idx].DutyStart = &t
	} else {
		r.drivers[idx].DutyStart = nil
	}
	status := r.drivers[idx].DutyStatus()
	event := r.recomputeLocked(EventDriversChanged)
	r.mu.Unlock()

	log.Printf("🕒 [REGISTRY] Duty updated: %s -> %s", licenseNumber, status)
	r.publish(event)
	return true
}

// Refresh recomputes the fatigue summary against the current time and
// notifies subscribers. Called by the background loop on every tick.
func (r *Registry) Refresh() models.FatigueSummary {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	event := r.recomputeLocked(EventFatigueRefresh)
	r.mu.Unlock()

	r.publish(event)
	return event.Summary
}

// FatigueLevel classifies a duty start against the current time. Not cached.
func (r *Registry) FatigueLevel(start *time.Time) models.FatigueLevel {
	return helpers.FatigueLevelAt(start, r.clock.Now())
}

// Summary returns the last computed fatigue summary
func (r *Registry) Summary() models.FatigueSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

// Drivers returns a copy of all driver records in registry order
func (r *Registry) Drivers() []models.DriverRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Driver looks up the first driver with the given license number
func (r *Registry) Driver(licenseNumber string) (models.DriverRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexLocked(licenseNumber)
	if idx < 0 {
		return models.DriverRecord{}, false
	}
	return r.drivers[idx].Clone(), true
}

// Len returns the number of registered drivers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drivers)
}

// Subscribe registers fn for every subsequent event and returns a func that
// removes it.
func (r *Registry) Subscribe(fn func(Event)) func() {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	return r.addSubscriber(fn)
}

// Watch is Subscribe that first delivers the current state to fn. Delivery
// and registration happen atomically, so no event is missed or reordered.
func (r *Registry) Watch(fn func(Event)) func() {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.RLock()
	current := Event{
		Type:    EventDriversChanged,
		Drivers: r.snapshotLocked(),
		Summary: r.summary,
		At:      r.clock.Now(),
	}
	r.mu.RUnlock()

	fn(current)
	return r.addSubscriber(fn)
}

func (r *Registry) addSubscriber(fn func(Event)) func() {
	r.subsMu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers = append(r.subscribers, subscriber{id: id, fn: fn})
	r.subsMu.Unlock()

	return func() {
		r.subsMu.Lock()
		defer r.subsMu.Unlock()
		for i, s := range r.subscribers {
			if s.id == id {
				r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Start launches the background refresh loop. Calling Start on a running
// registry does nothing.
func (r *Registry) Start(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go r.refreshLoop(ctx, done)
	log.Printf("⏱️  [REGISTRY] Fatigue refresh started (every %s)", r.refreshInterval)
}

// Stop halts the refresh loop and waits for it to exit
func (r *Registry) Stop() {
	r.runMu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel = nil
	r.done = nil
	r.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("🛑 [REGISTRY] Fatigue refresh stopped")
}

// refreshLoop ticks once per interval. Missed ticks are not replayed.
func (r *Registry) refreshLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.clock.After(r.refreshInterval):
			r.Refresh()
		}
	}
}

func (r *Registry) recomputeLocked(eventType EventType) Event {
	now := r.clock.Now()
	r.summary = helpers.Summarize(r.drivers, now)
	return Event{
		Type:    eventType,
		Drivers: r.snapshotLocked(),
		Summary: r.summary,
		At:      now,
	}
}

func (r *Registry) snapshotLocked() []models.DriverRecord {
	out := make([]models.DriverRecord, len(r.drivers))
	for i, d := range r.drivers {
		out[i] = d.Clone()
	}
	return out
}

func (r *Registry) indexLocked(licenseNumber string) int {
	for i, d := range r.drivers {
		if d.LicenseNumber == licenseNumber {
			return i
		}
	}
	return -1
}

func (r *Registry) publish(event Event) {
	r.subsMu.RLock()
	subs := make([]subscriber, len(r.subscribers))
	copy(subs, r.subscribers)
	r.subsMu.RUnlock()

	for _, s := range subs {
		s.fn(event)
	}
}
