package event

import "time"

// AlertPayload represents the payload for alert lifecycle events.
type AlertPayload struct {
	ID          string                 `json:"id"`
	AlertType   string                 `json:"alert_type"`
	Description string                 `json:"description"`
	Severity    string                 `json:"severity"`
	Status      string                 `json:"status"`
	Component   string                 `json:"component,omitempty"`
	ExecutionID string                 `json:"execution_id,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AlertEscalatedPayload represents the payload for an escalation.alert.escalated event.
type AlertEscalatedPayload struct {
	AlertID   string    `json:"alert_id"`
	Level     int       `json:"escalation_level"`
	Severity  string    `json:"severity"`
	Recipients []string `json:"recipients"`
	EscalatedAt time.Time `json:"escalated_at"`
}

// ApprovalPayload represents the payload for approval lifecycle events.
type ApprovalPayload struct {
	RequestID  string    `json:"request_id"`
	ActionID   string    `json:"action_id"`
	ActionType string    `json:"action_type"`
	IssueID    string    `json:"issue_id"`
	Status     string    `json:"status"`
	Approver   string    `json:"approver,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ResolutionSelectedPayload represents the payload for a resolution.selected event.
type ResolutionSelectedPayload struct {
	ResolutionID string  `json:"resolution_id"`
	IssueID      string  `json:"issue_id"`
	ActionID     string  `json:"action_id"`
	ActionType   string  `json:"action_type"`
	Confidence   float64 `json:"confidence_score"`
	Impact       float64 `json:"impact_score"`
	Status       string  `json:"status"`
}

// NotificationPayload represents the payload for notification delivery events.
type NotificationPayload struct {
	Channel   string                 `json:"channel"`
	Recipient string                 `json:"recipient"`
	Subject   string                 `json:"subject"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
