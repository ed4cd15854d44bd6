package database

import (
	"fmt"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// CacheKey provides consistent cache key generation.
// Format: {prefix}:{entity}:{identifier}
type CacheKey struct{}

// NewCacheKey creates a new CacheKey helper.
func NewCacheKey() *CacheKey {
	return &CacheKey{}
}

// Alert returns the cache key for an alert by ID.
func (c *CacheKey) Alert(id entity.ID) string {
	return fmt.Sprintf("alert:%s", id.String())
}

// AlertRule returns the cache key for an alert rule by ID.
func (c *CacheKey) AlertRule(id entity.ID) string {
	return fmt.Sprintf("rule:%s", id.String())
}

// AlertRulesEnabled returns the cache key for all enabled rules.
func (c *CacheKey) AlertRulesEnabled() string {
	return "rules:enabled"
}

// AlertGroup returns the cache key for a correlation group by its group key.
func (c *CacheKey) AlertGroup(groupKey string) string {
	return fmt.Sprintf("alertgroup:%s", groupKey)
}

// RateLimitDimension returns a rate-limit counter key for one dimension
// (e.g. "severity:critical"). The Correlator builds its own
// "correlator:ratelimit:<alert_type>:<component>" keys and does not use it.
func (c *CacheKey) RateLimitDimension(dimension string) string {
	return fmt.Sprintf("ratelimit:%s", dimension)
}

// EscalationState returns the cache key for an alert's escalation watermark.
func (c *CacheKey) EscalationState(alertID entity.ID) string {
	return fmt.Sprintf("escalation:%s", alertID.String())
}

// ApprovalRequest returns the cache key for an approval request by ID.
func (c *CacheKey) ApprovalRequest(id entity.ID) string {
	return fmt.Sprintf("approval:%s", id.String())
}

// ApprovalIndex returns the cache key for the set of all approval request
// IDs, used to satisfy QueryByFields without a secondary index store.
func (c *CacheKey) ApprovalIndex() string {
	return "approval:index"
}

// Resolution returns the cache key for a resolution by ID.
func (c *CacheKey) Resolution(id entity.ID) string {
	return fmt.Sprintf("resolution:%s", id.String())
}

// ResolutionsByIssue returns the cache key for the set of resolution IDs
// produced for one issue.
func (c *CacheKey) ResolutionsByIssue(issueID string) string {
	return fmt.Sprintf("resolution:issue:%s", issueID)
}

// ResolutionsByActionType returns the cache key for the set of resolution
// IDs produced for one action type, most-recent-first.
func (c *CacheKey) ResolutionsByActionType(actionType entity.HealingActionType) string {
	return fmt.Sprintf("resolution:actiontype:%s", actionType)
}

// AlertStatistics returns the cache key for alert statistics.
func (c *CacheKey) AlertStatistics() string {
	return "stats:alerts"
}

// Pattern returns a pattern for matching multiple keys.
// Example: Pattern("user", "*") returns "user:*"
func (c *CacheKey) Pattern(parts ...string) string {
	if len(parts) == 0 {
		return "*"
	}

	key := parts[0]
	for i := 1; i < len(parts); i++ {
		key += ":" + parts[i]
	}

	return key
}
