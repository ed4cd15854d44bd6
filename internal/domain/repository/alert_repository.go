package repository

import (
	"context"
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/valueobject"
)

// AlertCounts summarizes alert volume grouped by one dimension, optionally
// restricted to a trailing window.
type AlertCounts map[string]int64

// AlertRepository persists Alerts and answers the queries the Generator,
// Correlator, Escalation Manager, and admin surface need. Implementations
// must be safe for concurrent use.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) (entity.ID, error)
	BatchCreate(ctx context.Context, alerts []*entity.Alert) error
	Get(ctx context.Context, id entity.ID) (*entity.Alert, error)
	Update(ctx context.Context, alert *entity.Alert) error

	List(ctx context.Context, filter valueobject.AlertFilter, pagination valueobject.Pagination) (valueobject.PaginatedResult[*entity.Alert], error)

	// GetActiveAlerts returns every alert whose status is NEW or
	// ACKNOWLEDGED — SUPPRESSED and terminal alerts are excluded at the
	// query level, not filtered post-hoc, so the Escalation Manager can
	// never observe one.
	GetActiveAlerts(ctx context.Context) ([]*entity.Alert, error)

	CountByStatus(ctx context.Context, since *time.Time) (AlertCounts, error)
	CountBySeverity(ctx context.Context, since *time.Time) (AlertCounts, error)
	CountByComponent(ctx context.Context, since *time.Time) (AlertCounts, error)

	AddNotification(ctx context.Context, alertID entity.ID, attempt entity.NotificationAttempt) error

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
