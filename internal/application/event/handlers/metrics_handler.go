package handlers

import (
	"context"
	"sync/atomic"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/event"
)

// MetricsHandler tracks how many events of each type have been consumed off
// the bus. Distinct from the Prometheus counters in infrastructure/metrics,
// which are incremented at the point of creation on the synchronous path;
// this is a cross-check that the event-bus side-channel is actually keeping up.
type MetricsHandler struct {
	alertsCreated       int64
	alertsAcknowledged  int64
	alertsResolved      int64
	alertsSuppressed    int64
	alertsEscalated     int64
	approvalsRequested  int64
	approvalsApproved   int64
	approvalsRejected   int64
	resolutionsSelected int64
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// HandleAlertCreated increments the alerts created counter.
func (h *MetricsHandler) HandleAlertCreated(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsCreated, 1)
	return nil
}

// HandleAlertAcknowledged increments the alerts acknowledged counter.
func (h *MetricsHandler) HandleAlertAcknowledged(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsAcknowledged, 1)
	return nil
}

// HandleAlertResolved increments the alerts resolved counter.
func (h *MetricsHandler) HandleAlertResolved(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsResolved, 1)
	return nil
}

// HandleAlertSuppressed increments the alerts suppressed counter.
func (h *MetricsHandler) HandleAlertSuppressed(_ context.Context, _ event.AlertPayload) error {
	atomic.AddInt64(&h.alertsSuppressed, 1)
	return nil
}

// HandleAlertEscalated increments the alerts escalated counter.
func (h *MetricsHandler) HandleAlertEscalated(_ context.Context, _ event.AlertEscalatedPayload) error {
	atomic.AddInt64(&h.alertsEscalated, 1)
	return nil
}

// HandleApprovalRequested increments the approvals requested counter.
func (h *MetricsHandler) HandleApprovalRequested(_ context.Context, _ event.ApprovalPayload) error {
	atomic.AddInt64(&h.approvalsRequested, 1)
	return nil
}

// HandleApprovalApproved increments the approvals approved counter.
func (h *MetricsHandler) HandleApprovalApproved(_ context.Context, _ event.ApprovalPayload) error {
	atomic.AddInt64(&h.approvalsApproved, 1)
	return nil
}

// HandleApprovalRejected increments the approvals rejected counter.
func (h *MetricsHandler) HandleApprovalRejected(_ context.Context, _ event.ApprovalPayload) error {
	atomic.AddInt64(&h.approvalsRejected, 1)
	return nil
}

// HandleResolutionSelected increments the resolutions selected counter.
func (h *MetricsHandler) HandleResolutionSelected(_ context.Context, _ event.ResolutionSelectedPayload) error {
	atomic.AddInt64(&h.resolutionsSelected, 1)
	return nil
}

// GetMetrics returns the current metrics.
func (h *MetricsHandler) GetMetrics() map[string]int64 {
	return map[string]int64{
		"alerts_created":       atomic.LoadInt64(&h.alertsCreated),
		"alerts_acknowledged":  atomic.LoadInt64(&h.alertsAcknowledged),
		"alerts_resolved":      atomic.LoadInt64(&h.alertsResolved),
		"alerts_suppressed":    atomic.LoadInt64(&h.alertsSuppressed),
		"alerts_escalated":     atomic.LoadInt64(&h.alertsEscalated),
		"approvals_requested":  atomic.LoadInt64(&h.approvalsRequested),
		"approvals_approved":   atomic.LoadInt64(&h.approvalsApproved),
		"approvals_rejected":   atomic.LoadInt64(&h.approvalsRejected),
		"resolutions_selected": atomic.LoadInt64(&h.resolutionsSelected),
	}
}
