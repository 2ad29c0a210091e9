package store

import (
	"fmt"
	"log"
	"sync"
	"time"

	"fleetdash-backend/internal/helpers"
	"fleetdash-backend/internal/models"

	"github.com/google/uuid"
)

// JobTemplates maps a vehicle registration to a canned job scenario
type JobTemplates map[string]models.JobAssignment

// Lookup returns a copy of the template for registration, or nil
func (t JobTemplates) Lookup(registration string) *models.JobAssignment {
	if registration == "" || t == nil {
		return nil
	}
	tpl, ok := t[registration]
	if !ok {
		return nil
	}
	return tpl.Clone()
}

// VehicleCatalog maps a vehicle registration to its physical details
type VehicleCatalog map[string]models.VehicleProfile

// VehicleID is the deterministic id of the vehicle projected from the
// driver at position idx
func VehicleID(idx int) string {
	return fmt.Sprintf("VEH-%03d", idx+1)
}

type vehicleSubscriber struct {
	id int
	fn func([]models.VehicleRecord)
}

// Projector derives vehicles and their jobs from the driver registry.
// The whole vehicle set is rebuilt on every registry mutation; consumers
// must not assume records are patched incrementally.
type Projector struct {
	registry  *Registry
	templates JobTemplates
	catalog   VehicleCatalog

	mu       sync.RWMutex
	vehicles []models.VehicleRecord
	index    map[string]int
	gen      uint64

	// pubMu guards the delivery state below. Only one goroutine delivers at a
	// time and it always finishes on the newest generation.
	pubMu        sync.Mutex
	delivering   bool
	pending      []models.VehicleRecord
	pendingGen   uint64
	deliveredGen uint64

	subsMu      sync.RWMutex
	subscribers []vehicleSubscriber
	nextSubID   int

	unsubscribe func()
}

// NewProjector builds the initial vehicle set and subscribes to registry changes
func NewProjector(registry *Registry, templates JobTemplates, catalog VehicleCatalog) *Projector {
	p := &Projector{
		registry:  registry,
		templates: templates,
		catalog:   catalog,
	}

	p.unsubscribe = registry.Watch(p.handleEvent)
	return p
}

// Close detaches the projector from the registry
func (p *Projector) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *Projector) handleEvent(event Event) {
	if event.Type != EventDriversChanged {
		return
	}
	p.regenerate(event.Drivers, event.At)
}

// regenerate replaces the previous generation of vehicles entirely
func (p *Projector) regenerate(drivers []models.DriverRecord, now time.Time) {
	vehicles := make([]models.VehicleRecord, 0, len(drivers))
	index := make(map[string]int, len(drivers))

	for i, d := range drivers {
		v := p.project(i, d, now)
		index[v.ID] = len(vehicles)
		vehicles = append(vehicles, v)
	}

	p.mu.Lock()
	p.vehicles = vehicles
	p.index = index
	p.gen++
	gen, snapshot := p.gen, p.snapshotLocked()
	p.mu.Unlock()

	log.Printf("🚚 [PROJECTOR] Regenerated %d vehicle(s)", len(vehicles))
	p.publish(gen, snapshot)
}

func (p *Projector) project(idx int, d models.DriverRecord, now time.Time) models.VehicleRecord {
	registration := d.AssignedVehicleRegistration

	job := p.templates.Lookup(registration)
	if job == nil {
		job = defaultJob(d, now)
	} else if job.DwellTime == "" {
		job.DwellTime = helpers.DwellTime(d.DutyStart, now)
	}

	profile := p.catalog[registration]
	class := profile.VehicleClass
	if class == "" && len(d.AllowedVehicleClasses) > 0 {
		class = d.AllowedVehicleClasses[0]
	}

	return models.VehicleRecord{
		ID:            VehicleID(idx),
		Registration:  registration,
		VehicleClass:  class,
		Make:          profile.Make,
		Model:         profile.Model,
		Capacity:      profile.Capacity,
		DriverName:    d.Name,
		DriverLicense: d.LicenseNumber,
		DisplayStatus: helpers.DisplayStatusFor(job, d.DutyStart),
		Job:           job,
	}
}

// defaultJob is used when no template matches. Off-duty drivers get no job.
func defaultJob(d models.DriverRecord, now time.Time) *models.JobAssignment {
	if d.DutyStart == nil {
		return nil
	}
	return &models.JobAssignment{
		JobID:     nil,
		Status:    models.JobStatusIdle,
		DwellTime: helpers.DwellTime(d.DutyStart, now),
		Distance:  0,
		ETA:       nil,
	}
}

// AssignJobToVehicle dispatches a manual job to a vehicle. The job enters
// Received directly and the vehicle shows OnDuty. The returned record is the
// vehicle as it was assigned, so callers never have to look it up again by id.
// Returns false and changes nothing when req is nil or the vehicle is unknown.
// The assignment lasts until the next regeneration.
func (p *Projector) AssignJobToVehicle(vehicleID string, req *models.JobRequest) (models.VehicleRecord, bool) {
	if req == nil {
		return models.VehicleRecord{}, false
	}

	jobID := req.ID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	p.mu.Lock()
	idx, ok := p.index[vehicleID]
	if !ok {
		p.mu.Unlock()
		return models.VehicleRecord{}, false
	}

	p.vehicles[idx].Job = &models.JobAssignment{
		JobID:          &jobID,
		Title:          req.Title,
		Status:         models.JobStatusReceived,
		ServiceType:    req.VehicleType,
		Account:        req.CustomerName,
		PickupLocation: req.From,
		PickupTime:     p.registry.Now().Format(time.RFC3339),
		DwellTime:      "0h 0m",
	}
	p.vehicles[idx].DisplayStatus = models.DisplayStatusOnDuty
	assigned := p.vehicles[idx].Clone()
	p.gen++
	gen, snapshot := p.gen, p.snapshotLocked()
	p.mu.Unlock()

	log.Printf("📦 [PROJECTOR] Job %s assigned to vehicle %s", jobID, vehicleID)
	p.publish(gen, snapshot)
	return assigned, true
}

// Vehicles returns a copy of the current generation
func (p *Projector) Vehicles() []models.VehicleRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

// Vehicle returns the vehicle with the given id
func (p *Projector) Vehicle(id string) (models.VehicleRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	idx, ok := p.index[id]
	if !ok {
		return models.VehicleRecord{}, false
	}
	return p.vehicles[idx].Clone(), true
}

// Stats aggregates the current vehicles for dashboard cards
func (p *Projector) Stats() models.FleetStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := models.FleetStats{TotalVehicles: len(p.vehicles)}
	for _, v := range p.vehicles {
		switch v.DisplayStatus {
		case models.DisplayStatusOnDuty:
			stats.OnDuty++
		case models.DisplayStatusIdle:
			stats.Idle++
		default:
			stats.Offline++
		}
		if v.Job != nil && helpers.IsActiveJobStatus(v.Job.Status) {
			stats.ActiveJobs++
		}
	}
	return stats
}

// Subscribe registers fn to receive every new vehicle snapshot
func (p *Projector) Subscribe(fn func([]models.VehicleRecord)) func() {
	p.subsMu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers = append(p.subscribers, vehicleSubscriber{id: id, fn: fn})
	p.subsMu.Unlock()

	return func() {
		p.subsMu.Lock()
		defer p.subsMu.Unlock()
		for i, s := range p.subscribers {
			if s.id == id {
				p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (p *Projector) snapshotLocked() []models.VehicleRecord {
	out := make([]models.VehicleRecord, len(p.vehicles))
	for i, v := range p.vehicles {
		out[i] = v.Clone()
	}
	return out
}

// publish delivers generation gen unless a newer one has already been
// delivered or queued. If another call is delivering, the snapshot is handed
// to it and publish returns without waiting. Subscribers are called without
// any projector lock held and always see generations in increasing order.
func (p *Projector) publish(gen uint64, vehicles []models.VehicleRecord) {
	p.pubMu.Lock()
	if gen <= p.deliveredGen || gen <= p.pendingGen {
		p.pubMu.Unlock()
		return
	}
	p.pending, p.pendingGen = vehicles, gen
	if p.delivering {
		p.pubMu.Unlock()
		return
	}
	p.delivering = true

	for p.pendingGen > p.deliveredGen {
		next := p.pending
		p.deliveredGen = p.pendingGen
		p.pending = nil
		p.pubMu.Unlock()

		p.deliver(next)

		p.pubMu.Lock()
	}
	p.delivering = false
	p.pubMu.Unlock()
}

func (p *Projector) deliver(vehicles []models.VehicleRecord) {
	p.subsMu.RLock()
	subs := make([]vehicleSubscriber, len(p.subscribers))
	copy(subs, p.subscribers)
	p.subsMu.RUnlock()

	for _, s := range subs {
		s.fn(vehicles)
	}
}
