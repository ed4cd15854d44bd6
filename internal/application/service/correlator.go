package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// CorrelatorConfig holds the tunables the spec leaves as configured
// parameters (see DESIGN.md's Open Question decisions): the correlation
// window, the group TTL, and the per-(alert_type,component) rate limit.
type CorrelatorConfig struct {
	WindowSeconds    int
	GroupTTLSeconds  int
	RateLimitCount   int
	RateLimitSeconds int
}

// DefaultCorrelatorConfig returns the defaults chosen to satisfy scenario
// S2 (alerts 5s apart still correlate).
func DefaultCorrelatorConfig() CorrelatorConfig {
	return CorrelatorConfig{
		WindowSeconds:    300,
		GroupTTLSeconds:  3600,
		RateLimitCount:   10,
		RateLimitSeconds: 60,
	}
}

// CorrelationResult is the Correlator's per-alert decision.
type CorrelationResult struct {
	Suppressed    bool
	Reason        string
	GroupID       entity.ID
	PrimaryAlertID entity.ID
}

// Correlator implements C2: for each new alert it assigns the alert to an
// open group (sharing a correlation key) or opens a new one, then decides
// suppression. Groups are owned exclusively by this component and guarded
// by its own lock; the rate-limit counters are held only in the cache
// repository (Increment/Expire), not in this struct.
type Correlator struct {
	cfg       CorrelatorConfig
	cacheRepo repository.CacheRepository

	mu     sync.Mutex
	groups map[entity.ID]*entity.AlertGroup
	// keyIndex maps a correlation key to the most recently opened group for
	// that key, so a later alert sharing the key can be found in O(1).
	keyIndex map[string]entity.ID
}

// NewCorrelator constructs a Correlator. cacheRepo backs the rate-limit
// counters; it may be nil to disable rate limiting.
func NewCorrelator(cfg CorrelatorConfig, cacheRepo repository.CacheRepository) *Correlator {
	return &Correlator{
		cfg:       cfg,
		cacheRepo: cacheRepo,
		groups:    make(map[entity.ID]*entity.AlertGroup),
		keyIndex:  make(map[string]entity.ID),
	}
}

// correlationKey computes the alert's correlation key. Per spec §4.2, an
// alert matches an existing group via any of: same execution_id, same
// component within the sliding window, or matching alert_type with
// overlapping context attributes. This key covers only the first two: it is
// execution_id when set, else component+alert_type. Context attributes are
// not compared, WindowSeconds is not read (a component key matches for as
// long as its group is open), and an alert with neither execution_id nor
// component always opens a new group.
func correlationKey(alert *entity.Alert) (string, bool) {
	if alert.ExecutionID != "" {
		return "exec:" + alert.ExecutionID, true
	}
	if alert.Component != "" {
		return fmt.Sprintf("component:%s:%s", alert.Component, alert.AlertType), true
	}
	return "", false
}

// Correlate runs the two-phase decision for a newly created alert
// (not-yet-persisted status is assumed NEW). A correlator/suppression
// exception must default to "do not suppress" — safety before noise
// reduction — so any unexpected internal error here returns an
// unsuppressed result rather than propagating.
func (c *Correlator) Correlate(ctx context.Context, alert *entity.Alert, primaryLookup func(entity.ID) (*entity.Alert, error)) (result CorrelationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("alert_id", alert.ID.String()).Msg("correlator panic, defaulting to not-suppress")
			result = CorrelationResult{Suppressed: false}
		}
	}()

	c.mu.Lock()
	c.evictExpiredLocked()

	key, hasKey := correlationKey(alert)
	var group *entity.AlertGroup

	if hasKey {
		if existingID, ok := c.keyIndex[key]; ok {
			if g, ok := c.groups[existingID]; ok {
				group = g
			}
		}
	}

	if group == nil {
		group = entity.NewAlertGroup(alert.ID, key)
		c.groups[group.ID] = group
		if hasKey {
			c.keyIndex[key] = group.ID
		}
		c.mu.Unlock()
		return CorrelationResult{Suppressed: false, GroupID: group.ID, PrimaryAlertID: group.PrimaryAlertID}
	}

	group.AddMember(alert.ID)
	primaryID := group.PrimaryAlertID
	c.mu.Unlock()

	// Suppression decision (b): a later alert joining a group whose primary
	// is still NEW or ACKNOWLEDGED is a duplicate and is suppressed.
	if primaryLookup != nil {
		primary, err := primaryLookup(primaryID)
		if err == nil && primary != nil && primary.IsActive() {
			return CorrelationResult{
				Suppressed:     true,
				Reason:         "duplicate_of:" + primaryID.String(),
				GroupID:        group.ID,
				PrimaryAlertID: primaryID,
			}
		}
	}

	// Optional rate limiting: more than N alerts of the same
	// (alert_type, component) within window W suppresses further alerts
	// until the window empties.
	if c.cacheRepo != nil && c.cfg.RateLimitCount > 0 {
		suppressed, err := c.checkRateLimit(ctx, alert)
		if err != nil {
			log.Warn().Err(err).Msg("rate limit check failed, defaulting to not-suppress")
		} else if suppressed {
			return CorrelationResult{
				Suppressed:     true,
				Reason:         "rate_limited",
				GroupID:        group.ID,
				PrimaryAlertID: primaryID,
			}
		}
	}

	return CorrelationResult{Suppressed: false, GroupID: group.ID, PrimaryAlertID: primaryID}
}

func (c *Correlator) checkRateLimit(ctx context.Context, alert *entity.Alert) (bool, error) {
	key := fmt.Sprintf("correlator:ratelimit:%s:%s", alert.AlertType, alert.Component)
	window := time.Duration(c.cfg.RateLimitSeconds) * time.Second

	count, err := c.cacheRepo.Increment(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		_ = c.cacheRepo.Expire(ctx, key, window)
	}
	return count > int64(c.cfg.RateLimitCount), nil
}

// evictExpiredLocked drops groups past their TTL. Caller must hold c.mu.
func (c *Correlator) evictExpiredLocked() {
	ttl := time.Duration(c.cfg.GroupTTLSeconds) * time.Second
	for id, g := range c.groups {
		if g.IsExpired(ttl) {
			delete(c.groups, id)
			for k, gid := range c.keyIndex {
				if gid == id {
					delete(c.keyIndex, k)
				}
			}
		}
	}
}

// RetireGroup drops a group immediately, e.g. when its last member resolves.
func (c *Correlator) RetireGroup(groupID entity.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.groups, groupID)
	for k, gid := range c.keyIndex {
		if gid == groupID {
			delete(c.keyIndex, k)
		}
	}
}
