package service

import (
	"context"
	"sync"
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/valueobject"
)

// fakeAlertRepository is a hand-rolled, in-memory AlertRepository used
// across the service package's tests. Only the methods exercised by the
// services under test carry real behavior; the rest satisfy the interface
// with zero-value returns.
type fakeAlertRepository struct {
	mu      sync.Mutex
	alerts  map[entity.ID]*entity.Alert
	notices []entity.NotificationAttempt
}

func newFakeAlertRepository() *fakeAlertRepository {
	return &fakeAlertRepository{alerts: make(map[entity.ID]*entity.Alert)}
}

func (f *fakeAlertRepository) Create(ctx context.Context, alert *entity.Alert) (entity.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts[alert.ID] = alert
	return alert.ID, nil
}

func (f *fakeAlertRepository) BatchCreate(ctx context.Context, alerts []*entity.Alert) error {
	for _, a := range alerts {
		if _, err := f.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAlertRepository) Get(ctx context.Context, id entity.ID) (*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (f *fakeAlertRepository) Update(ctx context.Context, alert *entity.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts[alert.ID] = alert
	return nil
}

func (f *fakeAlertRepository) List(ctx context.Context, filter valueobject.AlertFilter, pagination valueobject.Pagination) (valueobject.PaginatedResult[*entity.Alert], error) {
	return valueobject.PaginatedResult[*entity.Alert]{}, nil
}

// GetActiveAlerts returns every alert currently held, whatever its status;
// unlike the real repository it does not filter to NEW/ACKNOWLEDGED.
func (f *fakeAlertRepository) GetActiveAlerts(ctx context.Context) ([]*entity.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Alert, 0, len(f.alerts))
	for _, a := range f.alerts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAlertRepository) CountByStatus(ctx context.Context, since *time.Time) (repository.AlertCounts, error) {
	return repository.AlertCounts{}, nil
}

func (f *fakeAlertRepository) CountBySeverity(ctx context.Context, since *time.Time) (repository.AlertCounts, error) {
	return repository.AlertCounts{}, nil
}

func (f *fakeAlertRepository) CountByComponent(ctx context.Context, since *time.Time) (repository.AlertCounts, error) {
	return repository.AlertCounts{}, nil
}

func (f *fakeAlertRepository) AddNotification(ctx context.Context, alertID entity.ID, attempt entity.NotificationAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, attempt)
	return nil
}

func (f *fakeAlertRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

var _ repository.AlertRepository = (*fakeAlertRepository)(nil)

// fakeApprovalRepository is a hand-rolled, in-memory ApprovalRepository.
type fakeApprovalRepository struct {
	mu       sync.Mutex
	requests map[entity.ID]*entity.ApprovalRequest
}

func newFakeApprovalRepository() *fakeApprovalRepository {
	return &fakeApprovalRepository{requests: make(map[entity.ID]*entity.ApprovalRequest)}
}

func (f *fakeApprovalRepository) Add(ctx context.Context, request *entity.ApprovalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeApprovalRepository) Get(ctx context.Context, id entity.ID) (*entity.ApprovalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[id], nil
}

func (f *fakeApprovalRepository) Update(ctx context.Context, request *entity.ApprovalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeApprovalRepository) QueryByFields(ctx context.Context, fields map[string]interface{}) ([]*entity.ApprovalRequest, error) {
	return nil, nil
}

func (f *fakeApprovalRepository) QueryExpiredPending(ctx context.Context, asOf time.Time) ([]*entity.ApprovalRequest, error) {
	return nil, nil
}

func (f *fakeApprovalRepository) BatchUpdate(ctx context.Context, requests []*entity.ApprovalRequest) error {
	return nil
}

var _ repository.ApprovalRepository = (*fakeApprovalRepository)(nil)

// fakeHealingActionRepository is a hand-rolled, in-memory
// HealingActionRepository backing Resolution Selector tests.
type fakeHealingActionRepository struct {
	mu          sync.Mutex
	candidates  map[entity.HealingActionType][]repository.CandidateAction
	resolutions []*entity.Resolution
}

func newFakeHealingActionRepository() *fakeHealingActionRepository {
	return &fakeHealingActionRepository{candidates: make(map[entity.HealingActionType][]repository.CandidateAction)}
}

func (f *fakeHealingActionRepository) CandidatesForType(ctx context.Context, actionType entity.HealingActionType) ([]repository.CandidateAction, error) {
	return f.candidates[actionType], nil
}

func (f *fakeHealingActionRepository) SaveResolution(ctx context.Context, resolution *entity.Resolution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolutions = append(f.resolutions, resolution)
	return nil
}

func (f *fakeHealingActionRepository) GetResolution(ctx context.Context, id entity.ID) (*entity.Resolution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.resolutions {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeHealingActionRepository) GetResolutionsForIssue(ctx context.Context, issueID string) ([]*entity.Resolution, error) {
	return nil, nil
}

func (f *fakeHealingActionRepository) ResolutionsByActionType(ctx context.Context, actionType entity.HealingActionType, limit int) ([]*entity.Resolution, error) {
	return nil, nil
}

var _ repository.HealingActionRepository = (*fakeHealingActionRepository)(nil)
