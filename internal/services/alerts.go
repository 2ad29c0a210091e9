package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fleetdash-backend/internal/helpers"
	"fleetdash-backend/internal/models"
	"fleetdash-backend/internal/store"
	"fleetdash-backend/internal/websocket"

	"github.com/google/uuid"
)

const (
	// maxAlertFeed bounds the in-memory alert feed
	maxAlertFeed = 100

	pushTimeout = 10 * time.Second
)

// Notifier pushes alerts to devices. *FCMService implements it.
type Notifier interface {
	SendFatigueAlert(ctx context.Context, token string, alert models.Alert) error
	SendJobAssignedNotification(ctx context.Context, token string, alert models.Alert) error
	SendSupervisorAlert(ctx context.Context, tokens []string, alert models.Alert) error
}

// Broadcaster pushes messages to connected websocket clients. *websocket.Hub implements it.
type Broadcaster interface {
	BroadcastToRole(role string, msg *websocket.Message) int
}

// AlertService watches the registry for drivers escalating into HIGH or
// CRITICAL fatigue and keeps the dashboard alert feed
type AlertService struct {
	notifier    Notifier
	broadcaster Broadcaster
	tokens      *TokenStore
	threshold   models.FatigueLevel
	now         func() time.Time

	// levels is keyed by license number plus occurrence, so drivers sharing
	// a license number keep separate escalation state
	mu     sync.Mutex
	levels map[string]models.FatigueLevel
	feed   []models.Alert

	pushes      sync.WaitGroup
	unsubscribe func()
}

// NewAlertService subscribes to the registry. notifier and broadcaster may be nil.
func NewAlertService(registry *store.Registry, notifier Notifier, broadcaster Broadcaster, tokens *TokenStore) *AlertService {
	if tokens == nil {
		tokens = NewTokenStore()
	}
	s := &AlertService{
		notifier:    notifier,
		broadcaster: broadcaster,
		tokens:      tokens,
		threshold:   models.FatigueHigh,
		now:         registry.Now,
		levels:      make(map[string]models.FatigueLevel),
	}
	s.unsubscribe = registry.Watch(s.handleEvent)
	return s
}

// Close detaches from the registry and waits for pending pushes
func (s *AlertService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.pushes.Wait()
}

// Alerts returns the feed, newest first
func (s *AlertService) Alerts() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Alert, len(s.feed))
	copy(out, s.feed)
	return out
}

func (s *AlertService) handleEvent(event store.Event) {
	levels := make(map[string]models.FatigueLevel, len(event.Drivers))
	seen := make(map[string]int, len(event.Drivers))
	var raised []models.Alert

	s.mu.Lock()
	for _, d := range event.Drivers {
		key := levelKey(d.LicenseNumber, seen[d.LicenseNumber])
		seen[d.LicenseNumber]++

		level := helpers.FatigueLevelAt(d.DutyStart, event.At)
		levels[key] = level

		prev := s.levels[key]
		if level.Rank() < s.threshold.Rank() || level.Rank() <= prev.Rank() {
			continue
		}
		raised = append(raised, models.Alert{
			ID:            uuid.New().String(),
			Type:          models.AlertTypeFatigue,
			DriverLicense: d.LicenseNumber,
			DriverName:    d.Name,
			Level:         level,
			Message:       fmt.Sprintf("%s has been on duty for %s (%s fatigue)", d.Name, helpers.DwellTime(d.DutyStart, event.At), level),
			CreatedAt:     event.At.Unix(),
		})
	}
	s.levels = levels
	for _, a := range raised {
		s.appendLocked(a)
	}
	s.mu.Unlock()

	for _, a := range raised {
		log.Printf("⚠️  [ALERT] %s", a.Message)
		s.broadcast(a)
		s.pushFatigue(a)
	}
}

// NotifyJobAssigned records a dispatch in the feed and pushes it to the driver
func (s *AlertService) NotifyJobAssigned(vehicle models.VehicleRecord, jobID string) models.Alert {
	title := jobID
	if vehicle.Job != nil && vehicle.Job.Title != "" {
		title = vehicle.Job.Title
	}
	alert := models.Alert{
		ID:            uuid.New().String(),
		Type:          models.AlertTypeJobAssigned,
		DriverLicense: vehicle.DriverLicense,
		DriverName:    vehicle.DriverName,
		VehicleID:     vehicle.ID,
		Message:       fmt.Sprintf("Job %s (%s) dispatched to %s", jobID, title, vehicle.ID),
		CreatedAt:     s.now().Unix(),
	}

	s.mu.Lock()
	s.appendLocked(alert)
	s.mu.Unlock()

	s.broadcast(alert)

	token, ok := s.tokens.DriverToken(vehicle.DriverLicense)
	if s.notifier != nil && ok {
		s.push(func(ctx context.Context) error {
			return s.notifier.SendJobAssignedNotification(ctx, token, alert)
		})
	}
	return alert
}

func levelKey(licenseNumber string, occurrence int) string {
	return fmt.Sprintf("%s#%d", licenseNumber, occurrence)
}

func (s *AlertService) appendLocked(alert models.Alert) {
	s.feed = append([]models.Alert{alert}, s.feed...)
	if len(s.feed) > maxAlertFeed {
		s.feed = s.feed[:maxAlertFeed]
	}
}

func (s *AlertService) broadcast(alert models.Alert) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRole(websocket.RoleDashboard, websocket.NewMessage("alert", alert))
}

func (s *AlertService) pushFatigue(alert models.Alert) {
	if s.notifier == nil {
		return
	}
	if token, ok := s.tokens.DriverToken(alert.DriverLicense); ok {
		s.push(func(ctx context.Context) error {
			return s.notifier.SendFatigueAlert(ctx, token, alert)
		})
	}
	if alert.Level == models.FatigueCritical {
		if tokens := s.tokens.SupervisorTokens(); len(tokens) > 0 {
			s.push(func(ctx context.Context) error {
				return s.notifier.SendSupervisorAlert(ctx, tokens, alert)
			})
		}
	}
}

// push runs send in the background with a timeout
func (s *AlertService) push(send func(ctx context.Context) error) {
	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Printf("❌ [ALERT] Push failed: %v", err)
		}
	}()
}
