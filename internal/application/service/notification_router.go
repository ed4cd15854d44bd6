package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
	"github.com/rs/zerolog/log"
)

// RoutingRuleCondition is one field=expected (or field={operator,value})
// check within a routing rule.
type RoutingRuleCondition struct {
	Field    string
	Operator entity.ComparisonOperator
	Value    interface{}
}

// RoutingRule matches a message when every condition holds; on match its
// Channels are unioned into the resolved channel set.
type RoutingRule struct {
	Conditions []RoutingRuleCondition
	Channels   []notification.Channel
}

// RouterConfig holds the Notification Router's policy knobs.
type RouterConfig struct {
	RoutingRules               []RoutingRule
	SeverityDefaults           map[string][]notification.Channel
	AlertTypeOverrides         map[string][]notification.Channel
	PerChannelTimeout          time.Duration
	BatchPerMessageTimeout     time.Duration
	HistoryRetention           time.Duration
	MaxConcurrentNotifications int
}

// DefaultRouterConfig returns the spec's documented defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		SeverityDefaults: map[string][]notification.Channel{
			notification.SeverityCritical: {notification.ChannelTeams, notification.ChannelEmail},
			notification.SeverityHigh:     {notification.ChannelTeams, notification.ChannelEmail},
			notification.SeverityMedium:   {notification.ChannelTeams},
			notification.SeverityLow:      {notification.ChannelTeams},
			notification.SeverityInfo:     {notification.ChannelTeams},
		},
		PerChannelTimeout:          30 * time.Second,
		BatchPerMessageTimeout:     60 * time.Second,
		HistoryRetention:           24 * time.Hour,
		MaxConcurrentNotifications: 10,
	}
}

// deliveryRecord is one entry in the Router's in-memory delivery history.
type deliveryRecord struct {
	Timestamp time.Time
	Channels  map[notification.Channel]notification.DeliveryResult
	Summary   string
}

// NotificationRouter implements C3: resolves effective channels for a
// message and dispatches concurrently across a bounded worker pool. The
// router does not retry failed deliveries itself — see
// DESIGN.md's Open Question decision 4; idempotent notification_ids let a
// caller retry safely.
type NotificationRouter struct {
	cfg       RouterConfig
	notifiers map[notification.Channel]notification.Notifier
	sem       chan struct{}

	mu      sync.Mutex
	history map[string]*deliveryRecord
}

// NewNotificationRouter constructs a Router over the given channel notifiers.
func NewNotificationRouter(cfg RouterConfig, notifiers map[notification.Channel]notification.Notifier) *NotificationRouter {
	if cfg.MaxConcurrentNotifications <= 0 {
		cfg.MaxConcurrentNotifications = 10
	}
	return &NotificationRouter{
		cfg:       cfg,
		notifiers: notifiers,
		sem:       make(chan struct{}, cfg.MaxConcurrentNotifications),
		history:   make(map[string]*deliveryRecord),
	}
}

// ResolveChannels implements the three-tier channel resolution order:
// explicit channels, then routing-rule matches (unioned), then severity
// fallback defaults (replaced entirely by a per-alert_type override).
func (r *NotificationRouter) ResolveChannels(alertType, severity string, fields map[string]interface{}, explicit []notification.Channel) []notification.Channel {
	if len(explicit) > 0 {
		return dedupeChannels(explicit)
	}

	var matched []notification.Channel
	for _, rule := range r.cfg.RoutingRules {
		if ruleMatches(rule, severity, fields) {
			matched = append(matched, rule.Channels...)
		}
	}
	if len(matched) > 0 {
		return dedupeChannels(matched)
	}

	if override, ok := r.cfg.AlertTypeOverrides[alertType]; ok {
		return dedupeChannels(override)
	}

	return dedupeChannels(r.cfg.SeverityDefaults[severity])
}

func ruleMatches(rule RoutingRule, severity string, fields map[string]interface{}) bool {
	for _, cond := range rule.Conditions {
		if cond.Field == "severity" {
			expectedStr, _ := cond.Value.(string)
			expected := float64(notification.SeverityPriority(expectedStr))
			actual := float64(notification.SeverityPriority(severity))
			if !compare(actual, orEqual(cond.Operator), expected) {
				return false
			}
			continue
		}
		actual, ok := fields[cond.Field]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", cond.Value) {
			return false
		}
	}
	return true
}

func orEqual(op entity.ComparisonOperator) entity.ComparisonOperator {
	if op == "" {
		return entity.OpEqual
	}
	return op
}

func dedupeChannels(channels []notification.Channel) []notification.Channel {
	seen := make(map[notification.Channel]bool)
	out := make([]notification.Channel, 0, len(channels))
	for _, c := range channels {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Dispatch formats and sends msg to each resolved channel concurrently,
// waiting up to PerChannelTimeout per channel. A per-channel failure
// (error, timeout, or transport-reported failure) produces a
// DeliveryResult{success:false} and never fails the other channels.
func (r *NotificationRouter) Dispatch(ctx context.Context, msg notification.Message, channels []notification.Channel) map[notification.Channel]notification.DeliveryResult {
	tBefore := time.Now().UTC()
	results := make(map[notification.Channel]notification.DeliveryResult, len(channels))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, ch := range channels {
		ch := ch
		notifier, ok := r.notifiers[ch]
		if !ok || !notifier.IsEnabled() {
			mu.Lock()
			results[ch] = notification.DeliveryResult{Channel: ch, Success: false, ErrorMessage: "channel not configured or disabled"}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		r.sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-r.sem }()

			chMsg := msg
			chMsg.Channel = ch
			result := r.sendWithTimeout(ctx, notifier, chMsg)

			mu.Lock()
			results[ch] = result
			mu.Unlock()
		}()
	}

	wg.Wait()
	r.recordHistory(msg, results, tBefore)
	return results
}

func (r *NotificationRouter) sendWithTimeout(ctx context.Context, notifier notification.Notifier, msg notification.Message) notification.DeliveryResult {
	timeout := r.cfg.PerChannelTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result notification.DeliveryResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		result, err := notifier.Send(sendCtx, msg)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-sendCtx.Done():
		log.Warn().Str("channel", string(msg.Channel)).Str("notification_id", msg.NotificationID).Msg("notification delivery timed out")
		return notification.DeliveryResult{Channel: msg.Channel, Success: false, ErrorMessage: "timeout"}
	case o := <-done:
		if o.err != nil {
			return notification.DeliveryResult{Channel: msg.Channel, Success: false, ErrorMessage: o.err.Error()}
		}
		return o.result
	}
}

// DispatchBatch sends many messages across their own resolved channels,
// each bounded by a 60s outer timeout.
func (r *NotificationRouter) DispatchBatch(ctx context.Context, batch []struct {
	Message  notification.Message
	Channels []notification.Channel
}) map[string]map[notification.Channel]notification.DeliveryResult {
	out := make(map[string]map[notification.Channel]notification.DeliveryResult, len(batch))
	var mu sync.Mutex
	var wg sync.WaitGroup

	timeout := r.cfg.BatchPerMessageTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	for _, item := range batch {
		item := item
		wg.Add(1)
		go func() {
			defer wg.Done()
			msgCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			results := r.Dispatch(msgCtx, item.Message, item.Channels)
			mu.Lock()
			out[item.Message.NotificationID] = results
			mu.Unlock()
		}()
	}

	wg.Wait()
	return out
}

func (r *NotificationRouter) recordHistory(msg notification.Message, results map[notification.Channel]notification.DeliveryResult, at time.Time) {
	if msg.NotificationID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneHistoryLocked()
	r.history[msg.NotificationID] = &deliveryRecord{
		Timestamp: at,
		Channels:  results,
		Summary:   msg.Title,
	}
}

// pruneHistoryLocked drops entries older than HistoryRetention. Caller must hold r.mu.
func (r *NotificationRouter) pruneHistoryLocked() {
	retention := r.cfg.HistoryRetention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	cutoff := time.Now().UTC().Add(-retention)
	for id, rec := range r.history {
		if rec.Timestamp.Before(cutoff) {
			delete(r.history, id)
		}
	}
}

// GetDeliveryStatus returns the recorded delivery outcome for a
// notification_id, or false if unknown or pruned.
func (r *NotificationRouter) GetDeliveryStatus(notificationID string) (map[notification.Channel]notification.DeliveryResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.history[notificationID]
	if !ok {
		return nil, false
	}
	return rec.Channels, true
}
