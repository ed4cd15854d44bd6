package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	appevent "github.com/daniel-caso-github/realtime-alerting-system/internal/application/event"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// EscalationManagerConfig holds the worker interval and per-severity
// policies.
type EscalationManagerConfig struct {
	Interval time.Duration
	Policies map[entity.AlertSeverity]entity.EscalationPolicy
	// Recipients maps (severity, level) to the notification recipients the
	// router should target at that level. Looked up via recipientsFor.
	Recipients map[string][]string
}

// DefaultEscalationPolicies returns a three-level ladder per severity,
// widening the timeframe for less urgent severities.
func DefaultEscalationPolicies() map[entity.AlertSeverity]entity.EscalationPolicy {
	return map[entity.AlertSeverity]entity.EscalationPolicy{
		entity.AlertSeverityCritical: {
			Severity:   entity.AlertSeverityCritical,
			Levels:     []int{1, 2, 3},
			Timeframes: map[int]int{1: 5, 2: 15, 3: 30},
		},
		entity.AlertSeverityHigh: {
			Severity:   entity.AlertSeverityHigh,
			Levels:     []int{1, 2, 3},
			Timeframes: map[int]int{1: 15, 2: 45, 3: 90},
		},
		entity.AlertSeverityMedium: {
			Severity:   entity.AlertSeverityMedium,
			Levels:     []int{1, 2},
			Timeframes: map[int]int{1: 60, 2: 240},
		},
		entity.AlertSeverityLow: {
			Severity:   entity.AlertSeverityLow,
			Levels:     []int{1},
			Timeframes: map[int]int{1: 240},
		},
	}
}

// DefaultEscalationManagerConfig returns the 60s-interval default.
func DefaultEscalationManagerConfig() EscalationManagerConfig {
	return EscalationManagerConfig{
		Interval: 60 * time.Second,
		Policies: DefaultEscalationPolicies(),
	}
}

// EscalationManager implements C5: the sole background worker escalating
// unacknowledged alerts through a severity-specific level ladder. It owns
// its escalation-state map exclusively, guarded by its own lock, per the
// "each shared map owned by one component" design note.
type EscalationManager struct {
	cfg       EscalationManagerConfig
	alertRepo repository.AlertRepository
	router    *NotificationRouter

	running int32
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu    sync.Mutex
	state map[entity.ID]entity.EscalationState

	producer *appevent.AlertProducer
}

// SetEventProducer attaches the async audit/observability side-channel.
func (m *EscalationManager) SetEventProducer(producer *appevent.AlertProducer) {
	m.producer = producer
}

// NewEscalationManager constructs a manager. The worker does not start
// until StartMonitoring is called.
func NewEscalationManager(cfg EscalationManagerConfig, alertRepo repository.AlertRepository, router *NotificationRouter) *EscalationManager {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Policies == nil {
		cfg.Policies = DefaultEscalationPolicies()
	}
	return &EscalationManager{
		cfg:       cfg,
		alertRepo: alertRepo,
		router:    router,
		state:     make(map[entity.ID]entity.EscalationState),
	}
}

// StartMonitoring launches the single background worker. Calling it while
// already running is a no-op.
func (m *EscalationManager) StartMonitoring(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		return
	}
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})

	go func() {
		defer close(m.doneCh)
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				atomic.StoreInt32(&m.running, 0)
				return
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.runOnce(ctx)
			}
		}
	}()
}

// StopMonitoring clears the running flag and blocks until the worker exits
// its current iteration.
func (m *EscalationManager) StopMonitoring() {
	if !atomic.CompareAndSwapInt32(&m.running, 1, 0) {
		return
	}
	close(m.stopCh)
	<-m.doneCh
}

// IsRunning reports whether the background worker is active.
func (m *EscalationManager) IsRunning() bool {
	return atomic.LoadInt32(&m.running) == 1
}

// runOnce executes one escalation pass. Any error from the repository or
// router is logged and swallowed — this worker is the only long-lived
// thread in the core and must never die silently.
func (m *EscalationManager) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("escalation manager: recovered from panic, continuing")
		}
	}()

	active, err := m.alertRepo.GetActiveAlerts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("escalation manager: failed to load active alerts")
		return
	}

	now := time.Now().UTC()
	for _, alert := range active {
		if alert.Status == entity.AlertStatusAcknowledged || alert.Status == entity.AlertStatusResolved {
			m.evict(alert.ID)
			continue
		}

		policy, ok := m.cfg.Policies[alert.Severity]
		if !ok {
			continue
		}

		elapsedMinutes := now.Sub(alert.CreatedAt).Minutes()
		targetLevel := policy.LevelFor(elapsedMinutes)

		m.mu.Lock()
		current := m.state[alert.ID].Level
		m.mu.Unlock()

		if targetLevel <= current {
			continue
		}

		recipients := m.recipientsFor(alert.Severity, targetLevel)
		if !m.escalate(ctx, alert, targetLevel, recipients) {
			continue
		}

		m.mu.Lock()
		m.state[alert.ID] = entity.EscalationState{AlertID: alert.ID, Level: targetLevel, UpdatedAt: now}
		m.mu.Unlock()
	}

	m.evictResolved(ctx, active)
}

func (m *EscalationManager) recipientsFor(severity entity.AlertSeverity, level int) []string {
	if m.cfg.Recipients == nil {
		return nil
	}
	return m.cfg.Recipients[recipientKey(severity, level)]
}

func recipientKey(severity entity.AlertSeverity, level int) string {
	return string(severity) + ":" + strconv.Itoa(level)
}

// escalate sends the escalation notification through the Router and reports
// whether every channel delivered successfully. Per the decision recorded
// in SPEC_FULL.md's resolved ambiguities, escalation state only advances once every
// notification for this level has succeeded; a partial failure leaves the
// caller's state untouched so the next tick retries the same level.
func (m *EscalationManager) escalate(ctx context.Context, alert *entity.Alert, level int, recipients []string) bool {
	msg := notification.Message{
		NotificationID: alert.ID.String() + ":escalation:" + strconv.Itoa(level),
		Title:          "escalation: " + alert.AlertType,
		Text:           formatEscalation(alert, level),
		Severity:       string(alert.Severity),
		AlertID:        alert.ID.String(),
		Recipients:     recipients,
	}

	channels := m.router.ResolveChannels(alert.AlertType, string(alert.Severity), alert.Context, nil)
	results := m.router.Dispatch(ctx, msg, channels)

	allSucceeded := true
	for _, result := range results {
		if !result.Success {
			allSucceeded = false
			break
		}
	}

	if m.producer != nil {
		m.producer.PublishAlertEscalated(ctx, alert.ID, level, alert.Severity, recipients, time.Now().UTC())
	}

	return allSucceeded
}

func formatEscalation(alert *entity.Alert, level int) string {
	return "alert " + alert.ID.String() + " (" + alert.AlertType + ") escalated to level " + strconv.Itoa(level) + ": " + alert.Description
}

func (m *EscalationManager) evictResolved(ctx context.Context, active []*entity.Alert) {
	activeIDs := make(map[entity.ID]bool, len(active))
	for _, a := range active {
		activeIDs[a.ID] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.state {
		if !activeIDs[id] {
			delete(m.state, id)
		}
	}
}

func (m *EscalationManager) evict(id entity.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state, id)
}

// GetState returns the current escalation state for an alert, if any.
func (m *EscalationManager) GetState(id entity.ID) (entity.EscalationState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.state[id]
	return s, ok
}
