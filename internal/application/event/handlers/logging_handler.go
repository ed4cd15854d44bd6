// Package handlers provides event handler implementations.
package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/event"
)

// LoggingHandler logs all alert, approval, and resolution events for auditing.
type LoggingHandler struct{}

// NewLoggingHandler creates a new logging handler.
func NewLoggingHandler() *LoggingHandler {
	return &LoggingHandler{}
}

// HandleAlertCreated logs alert created events.
func (h *LoggingHandler) HandleAlertCreated(_ context.Context, payload event.AlertPayload) error {
	log.Info().
		Str("alert_id", payload.ID).
		Str("alert_type", payload.AlertType).
		Str("severity", payload.Severity).
		Str("component", payload.Component).
		Msg("Alert created event processed")
	return nil
}

// HandleAlertAcknowledged logs alert acknowledged events.
func (h *LoggingHandler) HandleAlertAcknowledged(_ context.Context, payload event.AlertPayload) error {
	log.Info().
		Str("alert_id", payload.ID).
		Str("alert_type", payload.AlertType).
		Msg("Alert acknowledged event processed")
	return nil
}

// HandleAlertResolved logs alert resolved events.
func (h *LoggingHandler) HandleAlertResolved(_ context.Context, payload event.AlertPayload) error {
	log.Info().
		Str("alert_id", payload.ID).
		Str("alert_type", payload.AlertType).
		Msg("Alert resolved event processed")
	return nil
}

// HandleAlertSuppressed logs alert suppressed events.
func (h *LoggingHandler) HandleAlertSuppressed(_ context.Context, payload event.AlertPayload) error {
	log.Info().
		Str("alert_id", payload.ID).
		Str("alert_type", payload.AlertType).
		Msg("Alert suppressed event processed")
	return nil
}

// HandleAlertEscalated logs alert escalated events.
func (h *LoggingHandler) HandleAlertEscalated(_ context.Context, payload event.AlertEscalatedPayload) error {
	log.Info().
		Str("alert_id", payload.AlertID).
		Int("level", payload.Level).
		Str("severity", payload.Severity).
		Strs("recipients", payload.Recipients).
		Msg("Alert escalated event processed")
	return nil
}

// HandleApprovalRequested logs approval requested events.
func (h *LoggingHandler) HandleApprovalRequested(_ context.Context, payload event.ApprovalPayload) error {
	log.Info().
		Str("approval_id", payload.RequestID).
		Str("action_type", payload.ActionType).
		Str("issue_id", payload.IssueID).
		Msg("Approval requested event processed")
	return nil
}

// HandleApprovalApproved logs approval approved events.
func (h *LoggingHandler) HandleApprovalApproved(_ context.Context, payload event.ApprovalPayload) error {
	log.Info().
		Str("approval_id", payload.RequestID).
		Str("approver", payload.Approver).
		Msg("Approval approved event processed")
	return nil
}

// HandleApprovalRejected logs approval rejected events.
func (h *LoggingHandler) HandleApprovalRejected(_ context.Context, payload event.ApprovalPayload) error {
	log.Info().
		Str("approval_id", payload.RequestID).
		Str("approver", payload.Approver).
		Msg("Approval rejected event processed")
	return nil
}

// HandleResolutionSelected logs resolution selected events.
func (h *LoggingHandler) HandleResolutionSelected(_ context.Context, payload event.ResolutionSelectedPayload) error {
	log.Info().
		Str("resolution_id", payload.ResolutionID).
		Str("issue_id", payload.IssueID).
		Str("action_type", payload.ActionType).
		Float64("confidence", payload.Confidence).
		Float64("impact", payload.Impact).
		Msg("Resolution selected event processed")
	return nil
}
