package entity

import "time"

// AlertGroup is an open set of related alerts sharing a correlation key,
// owned by the Alert Correlator. Created on the first alert that doesn't
// match any open group; retired when the group's TTL elapses or when
// Correlator.RetireGroup is called for it. Resolving members does not retire
// a group.
type AlertGroup struct {
	ID              ID                     `json:"group_id"`
	Members         []ID                   `json:"members"`
	PrimaryAlertID  ID                     `json:"primary_alert_id"`
	OpenedAt        time.Time              `json:"opened_at"`
	CorrelationKey  string                 `json:"correlation_key"`
	SuppressionPlan map[string]interface{} `json:"suppression_policy,omitempty"`
}

// NewAlertGroup opens a new group with the given alert as its primary member.
func NewAlertGroup(primaryAlertID ID, correlationKey string) *AlertGroup {
	return &AlertGroup{
		ID:             NewID(),
		Members:        []ID{primaryAlertID},
		PrimaryAlertID: primaryAlertID,
		OpenedAt:       time.Now().UTC(),
		CorrelationKey: correlationKey,
	}
}

// AddMember appends an alert ID to the group's member set.
func (g *AlertGroup) AddMember(alertID ID) {
	g.Members = append(g.Members, alertID)
}

// HasMember reports whether alertID is already tracked by this group.
func (g *AlertGroup) HasMember(alertID ID) bool {
	for _, m := range g.Members {
		if m == alertID {
			return true
		}
	}
	return false
}

// IsExpired reports whether the group has outlived its TTL.
func (g *AlertGroup) IsExpired(ttl time.Duration) bool {
	return time.Since(g.OpenedAt) > ttl
}
