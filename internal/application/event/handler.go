package event

import (
	"context"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/event"
)

// AlertEventHandler handles alert, escalation, approval, and resolution
// events consumed off the event bus.
type AlertEventHandler interface {
	HandleAlertCreated(ctx context.Context, payload event.AlertPayload) error
	HandleAlertAcknowledged(ctx context.Context, payload event.AlertPayload) error
	HandleAlertResolved(ctx context.Context, payload event.AlertPayload) error
	HandleAlertSuppressed(ctx context.Context, payload event.AlertPayload) error
	HandleAlertEscalated(ctx context.Context, payload event.AlertEscalatedPayload) error
	HandleApprovalRequested(ctx context.Context, payload event.ApprovalPayload) error
	HandleApprovalApproved(ctx context.Context, payload event.ApprovalPayload) error
	HandleApprovalRejected(ctx context.Context, payload event.ApprovalPayload) error
	HandleResolutionSelected(ctx context.Context, payload event.ResolutionSelectedPayload) error
}
