package database

import (
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// AlertModel is the database row shape for alerts. Context, RelatedAlerts,
// and Notifications are stored as JSONB columns since their shape is
// nested and append-only rather than relational.
type AlertModel struct {
	ID             string     `db:"id"`
	RuleID         *string    `db:"rule_id"`
	AlertType      string     `db:"alert_type"`
	Description    string     `db:"description"`
	Severity       string     `db:"severity"`
	Status         string     `db:"status"`
	Component      string     `db:"component"`
	ExecutionID    string     `db:"execution_id"`
	Context        JSONMap    `db:"context"`
	RelatedAlerts  JSONArray  `db:"related_alerts"`
	Notifications  JSONArray  `db:"notifications"`
	AcknowledgedAt *time.Time `db:"acknowledged_at"`
	ResolvedAt     *time.Time `db:"resolved_at"`
	AckActor       *string    `db:"ack_actor"`
	AckNotes       *string    `db:"ack_notes"`
	ResActor       *string    `db:"res_actor"`
	ResReason      *string    `db:"res_reason"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// AlertModelFromEntity converts a domain Alert to its database row shape.
func AlertModelFromEntity(a *entity.Alert) (*AlertModel, error) {
	m := &AlertModel{
		ID:             a.ID.String(),
		AlertType:      a.AlertType,
		Description:    a.Description,
		Severity:       string(a.Severity),
		Status:         string(a.Status),
		Component:      a.Component,
		ExecutionID:    a.ExecutionID,
		Context:        JSONMap(a.Context),
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if a.RuleID != nil {
		ruleID := a.RuleID.String()
		m.RuleID = &ruleID
	}

	related := make([]interface{}, 0, len(a.RelatedAlerts))
	for _, id := range a.RelatedAlerts {
		related = append(related, id.String())
	}
	m.RelatedAlerts = JSONArray(related)

	notifications := make([]interface{}, 0, len(a.Notifications))
	for _, n := range a.Notifications {
		notifications = append(notifications, map[string]interface{}{
			"channel":   string(n.Channel),
			"recipient": n.Recipient,
			"success":   n.Success,
			"details":   n.Details,
			"timestamp": n.Timestamp,
		})
	}
	m.Notifications = JSONArray(notifications)

	if a.Acknowledgment != nil {
		m.AckActor = &a.Acknowledgment.Actor
		m.AckNotes = &a.Acknowledgment.Notes
	}
	if a.Resolution != nil {
		m.ResActor = &a.Resolution.Actor
		m.ResReason = &a.Resolution.Reason
	}

	return m, nil
}

// ToEntity converts the database row to a domain entity.
func (m *AlertModel) ToEntity() (*entity.Alert, error) {
	id, err := entity.ParseID(m.ID)
	if err != nil {
		return nil, err
	}

	alert := &entity.Alert{
		ID:             id,
		AlertType:      m.AlertType,
		Description:    m.Description,
		Severity:       entity.AlertSeverity(m.Severity),
		Status:         entity.AlertStatus(m.Status),
		Component:      m.Component,
		ExecutionID:    m.ExecutionID,
		Context:        map[string]interface{}(m.Context),
		AcknowledgedAt: m.AcknowledgedAt,
		ResolvedAt:     m.ResolvedAt,
		Timestamps:     entity.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
	}

	if m.RuleID != nil {
		ruleID, err := entity.ParseID(*m.RuleID)
		if err != nil {
			return nil, err
		}
		alert.RuleID = &ruleID
	}

	for _, raw := range m.RelatedAlerts {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		relatedID, err := entity.ParseID(s)
		if err != nil {
			continue
		}
		alert.RelatedAlerts = append(alert.RelatedAlerts, relatedID)
	}

	for _, raw := range m.Notifications {
		fields, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		alert.Notifications = append(alert.Notifications, notificationAttemptFromMap(fields))
	}

	if m.AckActor != nil || m.AckNotes != nil {
		details := entity.AcknowledgmentDetails{}
		if m.AckActor != nil {
			details.Actor = *m.AckActor
		}
		if m.AckNotes != nil {
			details.Notes = *m.AckNotes
		}
		alert.Acknowledgment = &details
	}

	if m.ResActor != nil || m.ResReason != nil {
		details := entity.ResolutionDetails{}
		if m.ResActor != nil {
			details.Actor = *m.ResActor
		}
		if m.ResReason != nil {
			details.Reason = *m.ResReason
		}
		alert.Resolution = &details
	}

	return alert, nil
}

func notificationAttemptFromMap(fields map[string]interface{}) entity.NotificationAttempt {
	attempt := entity.NotificationAttempt{}
	if v, ok := fields["channel"].(string); ok {
		attempt.Channel = entity.NotificationChannel(v)
	}
	if v, ok := fields["recipient"].(string); ok {
		attempt.Recipient = v
	}
	if v, ok := fields["success"].(bool); ok {
		attempt.Success = v
	}
	if v, ok := fields["details"].(string); ok {
		attempt.Details = v
	}
	if v, ok := fields["timestamp"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			attempt.Timestamp = ts
		}
	}
	return attempt
}
