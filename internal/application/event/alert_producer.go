// Package event provides event producers for the application layer.
package event

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/event"
)

// AlertProducer publishes alert, approval, and resolution lifecycle events
// onto the event bus. This is an audit/observability side-channel: the
// synchronous alert and notification path does not depend on it, so a
// publish failure is logged and swallowed rather than returned.
type AlertProducer struct {
	bus event.Publisher
}

// NewAlertProducer creates a new alert event producer.
func NewAlertProducer(bus event.Publisher) *AlertProducer {
	return &AlertProducer{
		bus: bus,
	}
}

// PublishAlertCreated publishes an alert created event.
func (p *AlertProducer) PublishAlertCreated(ctx context.Context, alert *entity.Alert) {
	p.publishAlert(ctx, event.AlertCreated, alert)
}

// PublishAlertAcknowledged publishes an alert acknowledged event.
func (p *AlertProducer) PublishAlertAcknowledged(ctx context.Context, alert *entity.Alert) {
	p.publishAlert(ctx, event.AlertAcknowledged, alert)
}

// PublishAlertResolved publishes an alert resolved event.
func (p *AlertProducer) PublishAlertResolved(ctx context.Context, alert *entity.Alert) {
	p.publishAlert(ctx, event.AlertResolved, alert)
}

// PublishAlertSuppressed publishes an alert suppressed event.
func (p *AlertProducer) PublishAlertSuppressed(ctx context.Context, alert *entity.Alert) {
	p.publishAlert(ctx, event.AlertSuppressed, alert)
}

// PublishAlertEscalated publishes an alert escalated event.
func (p *AlertProducer) PublishAlertEscalated(ctx context.Context, alertID entity.ID, level int, severity entity.AlertSeverity, recipients []string, escalatedAt time.Time) {
	payload := event.AlertEscalatedPayload{
		AlertID:     alertID.String(),
		Level:       level,
		Severity:    string(severity),
		Recipients:  recipients,
		EscalatedAt: escalatedAt,
	}

	evt, err := event.NewEvent(event.AlertEscalated, payload)
	if err != nil {
		log.Error().Err(err).Str("alert_id", alertID.String()).Msg("Failed to create alert.escalated event")
		return
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		log.Error().Err(err).Str("alert_id", alertID.String()).Msg("Failed to publish alert.escalated event")
	}
}

// PublishApprovalRequested publishes an approval requested event.
func (p *AlertProducer) PublishApprovalRequested(ctx context.Context, request *entity.ApprovalRequest) {
	p.publishApproval(ctx, event.ApprovalRequested, request)
}

// PublishApprovalApproved publishes an approval approved event.
func (p *AlertProducer) PublishApprovalApproved(ctx context.Context, request *entity.ApprovalRequest) {
	p.publishApproval(ctx, event.ApprovalApproved, request)
}

// PublishApprovalRejected publishes an approval rejected event.
func (p *AlertProducer) PublishApprovalRejected(ctx context.Context, request *entity.ApprovalRequest) {
	p.publishApproval(ctx, event.ApprovalRejected, request)
}

// PublishResolutionSelected publishes a resolution selected event.
func (p *AlertProducer) PublishResolutionSelected(ctx context.Context, resolution *entity.Resolution) {
	payload := event.ResolutionSelectedPayload{
		ResolutionID: resolution.ID.String(),
		IssueID:      resolution.IssueID,
		ActionID:     resolution.ActionID,
		ActionType:   string(resolution.ActionType),
		Confidence:   resolution.ConfidenceScore.Overall,
		Impact:       resolution.ImpactAnalysis.Overall,
		Status:       string(resolution.Status),
	}

	evt, err := event.NewEvent(event.ResolutionSelected, payload)
	if err != nil {
		log.Error().Err(err).Str("resolution_id", resolution.ID.String()).Msg("Failed to create resolution.selected event")
		return
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		log.Error().Err(err).Str("resolution_id", resolution.ID.String()).Msg("Failed to publish resolution.selected event")
	}
}

func (p *AlertProducer) publishAlert(ctx context.Context, eventType event.Type, alert *entity.Alert) {
	payload := alertToPayload(alert)

	evt, err := event.NewEvent(eventType, payload)
	if err != nil {
		log.Error().Err(err).Str("alert_id", alert.ID.String()).Str("event_type", string(eventType)).Msg("Failed to create alert event")
		return
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		log.Error().Err(err).Str("alert_id", alert.ID.String()).Str("event_type", string(eventType)).Msg("Failed to publish alert event")
	}
}

func (p *AlertProducer) publishApproval(ctx context.Context, eventType event.Type, request *entity.ApprovalRequest) {
	payload := approvalToPayload(request)

	evt, err := event.NewEvent(eventType, payload)
	if err != nil {
		log.Error().Err(err).Str("approval_id", request.ID.String()).Str("event_type", string(eventType)).Msg("Failed to create approval event")
		return
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		log.Error().Err(err).Str("approval_id", request.ID.String()).Str("event_type", string(eventType)).Msg("Failed to publish approval event")
	}
}

// alertToPayload converts an alert entity to an event payload.
func alertToPayload(alert *entity.Alert) event.AlertPayload {
	return event.AlertPayload{
		ID:          alert.ID.String(),
		AlertType:   alert.AlertType,
		Description: alert.Description,
		Severity:    string(alert.Severity),
		Status:      string(alert.Status),
		Component:   alert.Component,
		ExecutionID: alert.ExecutionID,
		Context:     alert.Context,
		CreatedAt:   alert.CreatedAt,
	}
}

// approvalToPayload converts an approval request entity to an event payload.
func approvalToPayload(request *entity.ApprovalRequest) event.ApprovalPayload {
	return event.ApprovalPayload{
		RequestID:  request.ID.String(),
		ActionID:   request.ActionID,
		ActionType: request.ActionType,
		IssueID:    request.IssueID,
		Status:     string(request.Status),
		Approver:   request.Approver,
		Timestamp:  request.UpdatedAt,
	}
}
