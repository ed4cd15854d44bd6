package repository

import (
	"context"
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// ApprovalRepository is a keyed document store for ApprovalRequests. The
// Approval Manager assumes last-writer-wins semantics at the storage layer
// and applies its own status guards in application code.
type ApprovalRepository interface {
	Add(ctx context.Context, request *entity.ApprovalRequest) error
	Get(ctx context.Context, id entity.ID) (*entity.ApprovalRequest, error)
	Update(ctx context.Context, request *entity.ApprovalRequest) error

	// QueryByFields returns every request matching all of the given
	// field=value equality constraints (e.g. {"status": entity.ApprovalStatusPending}).
	QueryByFields(ctx context.Context, fields map[string]interface{}) ([]*entity.ApprovalRequest, error)

	// QueryExpiredPending returns every PENDING request whose expires_at is
	// before asOf, for the periodic cleanup sweep.
	QueryExpiredPending(ctx context.Context, asOf time.Time) ([]*entity.ApprovalRequest, error)

	// BatchUpdate persists a batch of requests in one round trip — used by
	// the expiry sweep.
	BatchUpdate(ctx context.Context, requests []*entity.ApprovalRequest) error
}
