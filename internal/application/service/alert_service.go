// Package service implements the application layer services following hexagonal architecture.
// Services orchestrate domain logic and coordinate between repositories and other infrastructure.
package service

import (
	"context"
	"errors"
	"time"

	appevent "github.com/daniel-caso-github/realtime-alerting-system/internal/application/event"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/valueobject"
)

// Alert service errors define domain-specific error types for the alert service.
var (
	ErrAlertNotFound           = errors.New("alert not found")
	ErrAlertNotAcknowledgeable = errors.New("alert cannot be acknowledged from its current status")
	ErrAlertNotResolvable      = errors.New("alert cannot be resolved from its current status")
)

// Statistics summarizes alert volume across the three grouping dimensions
// the repository supports, for a given lookback window.
type Statistics struct {
	ByStatus    repository.AlertCounts
	BySeverity  repository.AlertCounts
	ByComponent repository.AlertCounts
}

const statsCacheKey = "stats:alerts"

// AlertService is the query and lifecycle-management surface the HTTP/
// WebSocket layers use to read alerts and record human actions
// (acknowledge, resolve) on them. Alert creation itself belongs to the
// Alert Generator (C4); this service never constructs a new alert.
type AlertService struct {
	alertRepo repository.AlertRepository
	cacheRepo repository.CacheRepository
	producer  *appevent.AlertProducer
}

// NewAlertService creates a new AlertService with the required dependencies.
func NewAlertService(
	alertRepo repository.AlertRepository,
	cacheRepo repository.CacheRepository,
) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
		cacheRepo: cacheRepo,
	}
}

// SetEventProducer attaches the async audit/observability side-channel.
// Optional: a nil producer (the default) simply skips publishing.
func (s *AlertService) SetEventProducer(producer *appevent.AlertProducer) {
	s.producer = producer
}

// GetByID retrieves a single alert by its unique identifier.
func (s *AlertService) GetByID(ctx context.Context, id entity.ID) (*entity.Alert, error) {
	alert, err := s.alertRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return alert, nil
}

// ListInput represents the input parameters for listing alerts with filters.
type ListInput struct {
	Filter     valueobject.AlertFilter
	Pagination valueobject.Pagination
}

// List retrieves alerts matching the specified filters with pagination.
func (s *AlertService) List(ctx context.Context, input ListInput) (valueobject.PaginatedResult[*entity.Alert], error) {
	return s.alertRepo.List(ctx, input.Filter, input.Pagination)
}

// Acknowledge marks an alert as acknowledged by actor, recording any notes left.
func (s *AlertService) Acknowledge(ctx context.Context, alertID entity.ID, actor, notes string) (*entity.Alert, error) {
	alert, err := s.alertRepo.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if !alert.Acknowledge(actor, notes) {
		return nil, ErrAlertNotAcknowledgeable
	}

	if err := s.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}

	_ = s.cacheRepo.Delete(ctx, statsCacheKey)

	if s.producer != nil {
		s.producer.PublishAlertAcknowledged(ctx, alert)
	}

	return alert, nil
}

// Resolve marks an alert as resolved by actor.
func (s *AlertService) Resolve(ctx context.Context, alertID entity.ID, actor string) (*entity.Alert, error) {
	alert, err := s.alertRepo.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if !alert.Resolve(actor) {
		return nil, ErrAlertNotResolvable
	}

	if err := s.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}

	_ = s.cacheRepo.Delete(ctx, statsCacheKey)

	if s.producer != nil {
		s.producer.PublishAlertResolved(ctx, alert)
	}

	return alert, nil
}

// Suppress marks an alert suppressed, recording reason (e.g. correlated
// into a group already under active escalation).
func (s *AlertService) Suppress(ctx context.Context, alertID entity.ID, reason string) (*entity.Alert, error) {
	alert, err := s.alertRepo.Get(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if !alert.Suppress(reason) {
		return nil, ErrAlertNotResolvable
	}

	if err := s.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}

	_ = s.cacheRepo.Delete(ctx, statsCacheKey)

	if s.producer != nil {
		s.producer.PublishAlertSuppressed(ctx, alert)
	}

	return alert, nil
}

// GetStatistics retrieves aggregated alert counts for dashboards, grouped
// by status, severity, and component over the full history. Cache-aside:
// a miss recomputes from the repository and caches for one minute.
func (s *AlertService) GetStatistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	if err := s.cacheRepo.Get(ctx, statsCacheKey, &stats); err == nil {
		return &stats, nil
	}

	byStatus, err := s.alertRepo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.alertRepo.CountBySeverity(ctx, nil)
	if err != nil {
		return nil, err
	}
	byComponent, err := s.alertRepo.CountByComponent(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats = Statistics{ByStatus: byStatus, BySeverity: bySeverity, ByComponent: byComponent}
	_ = s.cacheRepo.Set(ctx, statsCacheKey, stats, time.Minute)

	return &stats, nil
}

// GetActiveAlerts retrieves every NEW/ACKNOWLEDGED alert, for real-time
// dashboards and the Escalation Manager's own direct repository use.
func (s *AlertService) GetActiveAlerts(ctx context.Context) ([]*entity.Alert, error) {
	return s.alertRepo.GetActiveAlerts(ctx)
}

// PurgeResolved deletes RESOLVED/SUPPRESSED alerts older than cutoff,
// returning how many rows were removed.
func (s *AlertService) PurgeResolved(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.alertRepo.DeleteOlderThan(ctx, cutoff)
}
