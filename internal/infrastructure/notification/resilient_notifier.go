package notification

import (
	"context"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/circuitbreaker"
)

// ResilientNotifier wraps a notifier with circuit breaker protection.
type ResilientNotifier struct {
	notifier notification.Notifier
	cb       *circuitbreaker.CircuitBreaker
}

// NewResilientNotifier creates a new resilient notifier.
func NewResilientNotifier(notifier notification.Notifier, cb *circuitbreaker.CircuitBreaker) *ResilientNotifier {
	return &ResilientNotifier{
		notifier: notifier,
		cb:       cb,
	}
}

// Send sends a notification with circuit breaker protection. A tripped
// circuit is reported as a DeliveryResult{success:false}, matching the
// Router's contract that a per-channel failure never errors the whole call.
func (n *ResilientNotifier) Send(ctx context.Context, msg notification.Message) (notification.DeliveryResult, error) {
	var result notification.DeliveryResult
	err := n.cb.Execute(ctx, func(ctx context.Context) error {
		var sendErr error
		result, sendErr = n.notifier.Send(ctx, msg)
		return sendErr
	})
	if err != nil {
		return notification.DeliveryResult{
			Channel:      msg.Channel,
			Success:      false,
			ErrorMessage: err.Error(),
		}, err
	}
	return result, nil
}

// Name returns the notifier name.
func (n *ResilientNotifier) Name() string {
	return n.notifier.Name()
}

// IsEnabled returns whether the notifier is enabled.
func (n *ResilientNotifier) IsEnabled() bool {
	return n.notifier.IsEnabled()
}

// Stats returns circuit breaker statistics.
func (n *ResilientNotifier) Stats() map[string]interface{} {
	return n.cb.Stats()
}

// Compile-time interface verification.
var _ notification.Notifier = (*ResilientNotifier)(nil)
