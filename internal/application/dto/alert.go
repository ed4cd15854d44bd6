// Package dto provides Data Transfer Objects for the application layer.
// DTOs are used to transfer data between the API handlers and the service layer,
// decoupling the external API representation from the internal domain model.
package dto

import (
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// CreateAlertRequest represents the request payload for manually raising an
// alert outside the rule engine (e.g. a pipeline-failure webhook).
type CreateAlertRequest struct {
	AlertType   string                 `json:"alert_type" validate:"required,max=255"`
	Description string                 `json:"description" validate:"required"`
	Severity    string                 `json:"severity" validate:"required,oneof=critical high medium low info"`
	Component   string                 `json:"component,omitempty"`
	ExecutionID string                 `json:"execution_id,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// AcknowledgeAlertRequest represents the request payload for acknowledging
// an alert.
type AcknowledgeAlertRequest struct {
	Actor string `json:"actor" validate:"required"`
	Notes string `json:"notes,omitempty"`
}

// ResolveAlertRequest represents the request payload for resolving an alert.
type ResolveAlertRequest struct {
	Actor string `json:"actor" validate:"required"`
}

// ListAlertsRequest represents query parameters for listing and filtering alerts.
type ListAlertsRequest struct {
	Page        int      `query:"page" validate:"omitempty,min=1"`
	PageSize    int      `query:"page_size" validate:"omitempty,min=1,max=100"`
	Status      []string `query:"status" validate:"omitempty,dive,oneof=new acknowledged resolved suppressed"`
	Severity    []string `query:"severity" validate:"omitempty,dive,oneof=critical high medium low info"`
	Component   string   `query:"component"`
	ExecutionID string   `query:"execution_id"`
	AlertType   string   `query:"alert_type"`
	FromDate    string   `query:"from_date"`
	ToDate      string   `query:"to_date"`
	SortBy      string   `query:"sort_by" validate:"omitempty,oneof=created_at severity status"`
	SortOrder   string   `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// NotificationAttemptResponse is the API representation of one delivery
// attempt recorded against an alert.
type NotificationAttemptResponse struct {
	Channel   string    `json:"channel"`
	Success   bool      `json:"success"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AcknowledgmentResponse is the API representation of entity.AcknowledgmentDetails.
type AcknowledgmentResponse struct {
	Actor string `json:"actor"`
	Notes string `json:"notes,omitempty"`
}

// ResolutionDetailsResponse is the API representation of entity.ResolutionDetails.
type ResolutionDetailsResponse struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason,omitempty"`
}

// AlertResponse represents the API response format for an alert.
type AlertResponse struct {
	ID             string                        `json:"id"`
	RuleID         *string                       `json:"rule_id,omitempty"`
	AlertType      string                        `json:"alert_type"`
	Description    string                        `json:"description"`
	Severity       string                        `json:"severity"`
	Status         string                        `json:"status"`
	Component      string                        `json:"component,omitempty"`
	ExecutionID    string                        `json:"execution_id,omitempty"`
	Context        map[string]interface{}        `json:"context,omitempty"`
	RelatedAlerts  []string                      `json:"related_alerts,omitempty"`
	Notifications  []NotificationAttemptResponse `json:"notifications,omitempty"`
	AcknowledgedAt *time.Time                    `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time                    `json:"resolved_at,omitempty"`
	Acknowledgment *AcknowledgmentResponse       `json:"acknowledgment,omitempty"`
	Resolution     *ResolutionDetailsResponse    `json:"resolution,omitempty"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

// AlertFromEntity converts a domain Alert entity to an AlertResponse DTO.
// It handles the conversion of internal types (UUIDs, enums) to string
// representations and properly handles optional fields.
func AlertFromEntity(a *entity.Alert) AlertResponse {
	response := AlertResponse{
		ID:             a.ID.String(),
		AlertType:      a.AlertType,
		Description:    a.Description,
		Severity:       string(a.Severity),
		Status:         string(a.Status),
		Component:      a.Component,
		ExecutionID:    a.ExecutionID,
		Context:        a.Context,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if a.RuleID != nil {
		ruleID := a.RuleID.String()
		response.RuleID = &ruleID
	}

	for _, id := range a.RelatedAlerts {
		response.RelatedAlerts = append(response.RelatedAlerts, id.String())
	}

	for _, n := range a.Notifications {
		response.Notifications = append(response.Notifications, NotificationAttemptResponse{
			Channel:   string(n.Channel),
			Success:   n.Success,
			Details:   n.Details,
			Timestamp: n.Timestamp,
		})
	}

	if a.Acknowledgment != nil {
		response.Acknowledgment = &AcknowledgmentResponse{Actor: a.Acknowledgment.Actor, Notes: a.Acknowledgment.Notes}
	}
	if a.Resolution != nil {
		response.Resolution = &ResolutionDetailsResponse{Actor: a.Resolution.Actor, Reason: a.Resolution.Reason}
	}

	return response
}

// AlertsFromEntities converts a slice of Alert entities to AlertResponse DTOs.
func AlertsFromEntities(alerts []*entity.Alert) []AlertResponse {
	result := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		result[i] = AlertFromEntity(a)
	}
	return result
}

// AlertStatisticsResponse represents aggregated alert statistics for dashboards.
type AlertStatisticsResponse struct {
	TotalAlerts        int64            `json:"total_alerts"`
	ActiveAlerts       int64            `json:"active_alerts"`
	AcknowledgedAlerts int64            `json:"acknowledged_alerts"`
	ResolvedAlerts     int64            `json:"resolved_alerts"`
	SuppressedAlerts   int64            `json:"suppressed_alerts"`
	BySeverity         map[string]int64 `json:"by_severity"`
	ByComponent        map[string]int64 `json:"by_component"`
}
