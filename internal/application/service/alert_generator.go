package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	appevent "github.com/daniel-caso-github/realtime-alerting-system/internal/application/event"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// counterWindow tracks windowed alert counts (1h/24h) by a dimension key,
// pruned on write. Owned exclusively by the Generator.
type counterWindow struct {
	mu      sync.Mutex
	entries []time.Time
	window  time.Duration
}

func newCounterWindow(window time.Duration) *counterWindow {
	return &counterWindow{window: window}
}

func (w *counterWindow) record(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, at)
	w.prune(at)
}

func (w *counterWindow) count(at time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(at)
	return len(w.entries)
}

func (w *counterWindow) prune(at time.Time) {
	cutoff := at.Add(-w.window)
	i := 0
	for i < len(w.entries) && w.entries[i].Before(cutoff) {
		i++
	}
	w.entries = w.entries[i:]
}

// AlertCounters holds the Generator's in-memory windowed counters, keyed by
// severity/type/component, for both the 1h and 24h windows named in spec.md
// §4.4 — this is a from-scratch implementation since the original source's
// update_alert_counts was an unimplemented stub.
type AlertCounters struct {
	mu    sync.Mutex
	hour  map[string]*counterWindow
	day   map[string]*counterWindow
}

// NewAlertCounters constructs an empty counter set.
func NewAlertCounters() *AlertCounters {
	return &AlertCounters{
		hour: make(map[string]*counterWindow),
		day:  make(map[string]*counterWindow),
	}
}

func (c *AlertCounters) windowFor(m map[string]*counterWindow, key string, window time.Duration) *counterWindow {
	c.mu.Lock()
	w, ok := m[key]
	if !ok {
		w = newCounterWindow(window)
		m[key] = w
	}
	c.mu.Unlock()
	return w
}

// Record increments every dimension's counters for one new alert.
func (c *AlertCounters) Record(alert *entity.Alert) {
	now := time.Now().UTC()
	for _, key := range []string{
		"severity:" + string(alert.Severity),
		"type:" + alert.AlertType,
		"component:" + alert.Component,
	} {
		c.windowFor(c.hour, key, time.Hour).record(now)
		c.windowFor(c.day, key, 24*time.Hour).record(now)
	}
}

// CountLastHour returns the count for a dimension key over the trailing hour.
func (c *AlertCounters) CountLastHour(key string) int {
	return c.windowFor(c.hour, key, time.Hour).count(time.Now().UTC())
}

// CountLastDay returns the count for a dimension key over the trailing 24h.
func (c *AlertCounters) CountLastDay(key string) int {
	return c.windowFor(c.day, key, 24*time.Hour).count(time.Now().UTC())
}

// GeneratorConfig holds the Alert Generator's concurrency knobs.
type GeneratorConfig struct {
	MaxConcurrentAlerts int
	PerAlertTimeout     time.Duration
}

// DefaultGeneratorConfig returns the spec's documented defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{MaxConcurrentAlerts: 10, PerAlertTimeout: 30 * time.Second}
}

// AlertGenerator implements C4: orchestrates rule evaluation, alert
// creation, correlation, persistence, and notification. It is deliberately
// a thin orchestrator — each concern lives behind an injected
// collaborator, per the "mixed-responsibility classes" re-architecture
// note.
type AlertGenerator struct {
	cfg        GeneratorConfig
	rules      *RuleEngine
	correlator *Correlator
	router     *NotificationRouter
	alertRepo  repository.AlertRepository
	counters   *AlertCounters
	sem        chan struct{}
	producer   *appevent.AlertProducer
}

// SetEventProducer attaches the async audit/observability side-channel.
func (g *AlertGenerator) SetEventProducer(producer *appevent.AlertProducer) {
	g.producer = producer
}

// NewAlertGenerator wires the Generator's collaborators.
func NewAlertGenerator(cfg GeneratorConfig, rules *RuleEngine, correlator *Correlator, router *NotificationRouter, alertRepo repository.AlertRepository) *AlertGenerator {
	if cfg.MaxConcurrentAlerts <= 0 {
		cfg.MaxConcurrentAlerts = 10
	}
	return &AlertGenerator{
		cfg:        cfg,
		rules:      rules,
		correlator: correlator,
		router:     router,
		alertRepo:  alertRepo,
		counters:   NewAlertCounters(),
		sem:        make(chan struct{}, cfg.MaxConcurrentAlerts),
	}
}

// ProcessMetrics evaluates metric-oriented rules and, for each triggered
// result, produces an alert. Returns the IDs of every alert created
// (including suppressed ones, since they are still persisted).
func (g *AlertGenerator) ProcessMetrics(ctx context.Context, metrics map[string]interface{}, evalCtx EvaluationContext) ([]entity.ID, error) {
	evalCtx.Metrics = metrics
	results := g.rules.EvaluateMetrics(evalCtx)
	return g.processResults(ctx, results, metrics)
}

// ProcessEvents evaluates event-oriented rules and, for each triggered
// result, produces an alert.
func (g *AlertGenerator) ProcessEvents(ctx context.Context, event map[string]interface{}, evalCtx EvaluationContext) ([]entity.ID, error) {
	evalCtx.Event = event
	results := g.rules.EvaluateEvents(evalCtx)
	return g.processResults(ctx, results, event)
}

func (g *AlertGenerator) processResults(ctx context.Context, results []entity.RuleEvaluationResult, callerContext map[string]interface{}) ([]entity.ID, error) {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		ids []entity.ID
		firstErr error
	)

	for _, result := range results {
		if !result.Triggered {
			continue
		}

		result := result
		wg.Add(1)
		g.sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-g.sem }()

			alertCtx, cancel := context.WithTimeout(ctx, g.cfg.PerAlertTimeout)
			defer cancel()

			mergedContext := mergeContexts(result.Context, callerContext)
			alertType := "rule_" + string(result.RuleType)
			component := stringFromContext(mergedContext, "component")
			executionID := stringFromContext(mergedContext, "execution_id")
			alert, err := entity.NewAlert(alertType, describeResult(result), result.Severity, component, executionID, mergedContext)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			id, procErr := g.handleNewAlert(alertCtx, alert)
			mu.Lock()
			if procErr != nil {
				if firstErr == nil {
					firstErr = procErr
				}
			} else {
				ids = append(ids, id)
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	return ids, firstErr
}

func describeResult(result entity.RuleEvaluationResult) string {
	return fmt.Sprintf("rule %q (%s) triggered", result.RuleName, result.RuleType)
}

// stringFromContext reads a string-typed key out of a metrics/event
// context map, so rule-triggered alerts carry the same component/
// execution_id the caller's batch was scoped to and remain correlatable
// by the Correlator (which keys off those Alert struct fields, not Context).
func stringFromContext(ctx map[string]interface{}, key string) string {
	v, ok := ctx[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func mergeContexts(a, b map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(a)+len(b))
	for k, v := range b {
		merged[k] = v
	}
	for k, v := range a {
		merged[k] = v
	}
	return merged
}

// handleNewAlert runs one alert through correlation, persistence, and
// (if not suppressed) notification.
func (g *AlertGenerator) handleNewAlert(ctx context.Context, alert *entity.Alert) (entity.ID, error) {
	corrResult := g.correlator.Correlate(ctx, alert, func(id entity.ID) (*entity.Alert, error) {
		return g.alertRepo.Get(ctx, id)
	})

	if corrResult.Suppressed {
		alert.Suppress(corrResult.Reason)
		if corrResult.PrimaryAlertID != uuid.Nil {
			alert.AddRelatedAlert(corrResult.PrimaryAlertID)
		}
	}

	if _, err := g.alertRepo.Create(ctx, alert); err != nil {
		return entity.ID{}, fmt.Errorf("persist alert: %w", err)
	}

	g.counters.Record(alert)

	if g.producer != nil {
		g.producer.PublishAlertCreated(ctx, alert)
	}

	if corrResult.Suppressed {
		if primary, err := g.alertRepo.Get(ctx, corrResult.PrimaryAlertID); err == nil && primary != nil {
			primary.AddRelatedAlert(alert.ID)
			_ = g.alertRepo.Update(ctx, primary)
		}
		if g.producer != nil {
			g.producer.PublishAlertSuppressed(ctx, alert)
		}
		return alert.ID, nil
	}

	g.notify(ctx, alert)
	return alert.ID, nil
}

func (g *AlertGenerator) notify(ctx context.Context, alert *entity.Alert) {
	msg := notification.Message{
		NotificationID: alert.ID.String(),
		Title:          alert.AlertType,
		Text:           alert.Description,
		Severity:       string(alert.Severity),
		AlertID:        alert.ID.String(),
	}

	channels := g.router.ResolveChannels(alert.AlertType, string(alert.Severity), alert.Context, nil)
	results := g.router.Dispatch(ctx, msg, channels)

	for ch, result := range results {
		attempt := entity.NotificationAttempt{
			Channel:   entity.NotificationChannel(ch),
			Success:   result.Success,
			Details:   result.ErrorMessage,
			Timestamp: time.Now().UTC(),
		}
		alert.AddNotification(attempt)
		if err := g.alertRepo.AddNotification(ctx, alert.ID, attempt); err != nil {
			log.Error().Err(err).Str("alert_id", alert.ID.String()).Msg("failed to persist notification attempt")
		}
	}
}

// GenerateAlert is the direct entry point for components that produce
// alerts without a rule (e.g. pipeline-failure adapters). Returns the
// created alert's ID, or the zero ID if creation failed validation.
func (g *AlertGenerator) GenerateAlert(ctx context.Context, alertType, description string, severity entity.AlertSeverity, component, executionID string, context map[string]interface{}) (entity.ID, error) {
	alert, err := entity.NewAlert(alertType, description, severity, component, executionID, context)
	if err != nil {
		return entity.ID{}, err
	}
	return g.handleNewAlert(ctx, alert)
}
