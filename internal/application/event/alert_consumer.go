package event

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/event"
)

// AlertConsumer consumes and dispatches alert, approval, and resolution
// events to every registered handler.
type AlertConsumer struct {
	handlers []AlertEventHandler
}

// NewAlertConsumer creates a new alert consumer.
func NewAlertConsumer() *AlertConsumer {
	return &AlertConsumer{
		handlers: make([]AlertEventHandler, 0),
	}
}

// RegisterHandler registers an event handler.
func (c *AlertConsumer) RegisterHandler(handler AlertEventHandler) {
	c.handlers = append(c.handlers, handler)
}

// Handle processes an event from the event bus.
func (c *AlertConsumer) Handle(ctx context.Context, evt *event.Event) error {
	log.Debug().
		Str("event_id", evt.ID).
		Str("event_type", string(evt.Type)).
		Int("retries", evt.Retries).
		Msg("Processing event")

	switch evt.Type {
	case event.AlertCreated:
		return dispatch(ctx, evt, "alert.created", c.handlers, AlertEventHandler.HandleAlertCreated)
	case event.AlertAcknowledged:
		return dispatch(ctx, evt, "alert.acknowledged", c.handlers, AlertEventHandler.HandleAlertAcknowledged)
	case event.AlertResolved:
		return dispatch(ctx, evt, "alert.resolved", c.handlers, AlertEventHandler.HandleAlertResolved)
	case event.AlertSuppressed:
		return dispatch(ctx, evt, "alert.suppressed", c.handlers, AlertEventHandler.HandleAlertSuppressed)
	case event.AlertEscalated:
		return dispatch(ctx, evt, "alert.escalated", c.handlers, AlertEventHandler.HandleAlertEscalated)
	case event.ApprovalRequested:
		return dispatch(ctx, evt, "approval.requested", c.handlers, AlertEventHandler.HandleApprovalRequested)
	case event.ApprovalApproved:
		return dispatch(ctx, evt, "approval.approved", c.handlers, AlertEventHandler.HandleApprovalApproved)
	case event.ApprovalRejected:
		return dispatch(ctx, evt, "approval.rejected", c.handlers, AlertEventHandler.HandleApprovalRejected)
	case event.ResolutionSelected:
		return dispatch(ctx, evt, "resolution.selected", c.handlers, AlertEventHandler.HandleResolutionSelected)
	default:
		log.Warn().Str("event_type", string(evt.Type)).Msg("Unknown event type")
		return nil
	}
}

// dispatch unmarshals evt's payload into P and runs fn against every
// registered handler, stopping at the first error.
func dispatch[P any](ctx context.Context, evt *event.Event, label string, handlers []AlertEventHandler, fn func(AlertEventHandler, context.Context, P) error) error {
	var payload P
	if err := evt.UnmarshalPayload(&payload); err != nil {
		log.Error().Err(err).Str("event_type", label).Msg("Failed to unmarshal event payload")
		return err
	}

	for _, handler := range handlers {
		if err := fn(handler, ctx, payload); err != nil {
			log.Error().Err(err).Str("event_type", label).Msg("Handler failed")
			return err
		}
	}

	return nil
}
