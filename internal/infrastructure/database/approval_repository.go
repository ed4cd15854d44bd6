package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
)

// Ensure RedisApprovalRepository implements repository.ApprovalRepository
var _ repository.ApprovalRepository = (*RedisApprovalRepository)(nil)

// RedisApprovalRepository implements ApprovalRepository as a keyed document
// store over Redis: each request is a JSON blob at approval:<id>, and an
// index set tracks every ID so QueryByFields and the expiry sweep can scan
// without a secondary query engine. Matches the last-writer-wins contract
// the domain interface documents.
type RedisApprovalRepository struct {
	client *redis.Client
	keys   *CacheKey
}

// NewRedisApprovalRepository creates a new Redis approval repository.
func NewRedisApprovalRepository(redisClient *RedisClient) *RedisApprovalRepository {
	return &RedisApprovalRepository{
		client: redisClient.Client(),
		keys:   NewCacheKey(),
	}
}

// Add stores a new approval request and indexes its ID.
func (r *RedisApprovalRepository) Add(ctx context.Context, request *entity.ApprovalRequest) error {
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal approval request: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.keys.ApprovalRequest(request.ID), data, 0)
	pipe.SAdd(ctx, r.keys.ApprovalIndex(), request.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return translateRedisError(err)
	}

	return nil
}

// Get retrieves an approval request by ID.
func (r *RedisApprovalRepository) Get(ctx context.Context, id entity.ID) (*entity.ApprovalRequest, error) {
	data, err := r.client.Get(ctx, r.keys.ApprovalRequest(id)).Bytes()
	if err != nil {
		return nil, translateRedisError(err)
	}

	var request entity.ApprovalRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("unmarshal approval request: %w", err)
	}

	return &request, nil
}

// Update overwrites the stored document for an approval request.
func (r *RedisApprovalRepository) Update(ctx context.Context, request *entity.ApprovalRequest) error {
	data, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal approval request: %w", err)
	}

	if err := r.client.Set(ctx, r.keys.ApprovalRequest(request.ID), data, 0).Err(); err != nil {
		return translateRedisError(err)
	}

	return nil
}

// QueryByFields scans the index and returns every request matching all
// given field=value equality constraints. The index is expected to stay in
// the hundreds-to-low-thousands range for a decision core's own backlog, so
// a full scan-and-filter is acceptable; it avoids standing up a secondary
// query engine for what is fundamentally a small working set.
func (r *RedisApprovalRepository) QueryByFields(ctx context.Context, fields map[string]interface{}) ([]*entity.ApprovalRequest, error) {
	ids, err := r.client.SMembers(ctx, r.keys.ApprovalIndex()).Result()
	if err != nil {
		return nil, translateRedisError(err)
	}

	matches := make([]*entity.ApprovalRequest, 0, len(ids))
	for _, idStr := range ids {
		id, err := entity.ParseID(idStr)
		if err != nil {
			continue
		}

		request, err := r.Get(ctx, id)
		if err != nil {
			continue
		}

		if matchesFields(request, fields) {
			matches = append(matches, request)
		}
	}

	return matches, nil
}

// QueryExpiredPending returns every PENDING request whose expires_at is
// before asOf.
func (r *RedisApprovalRepository) QueryExpiredPending(ctx context.Context, asOf time.Time) ([]*entity.ApprovalRequest, error) {
	pending, err := r.QueryByFields(ctx, map[string]interface{}{"status": entity.ApprovalStatusPending})
	if err != nil {
		return nil, err
	}

	expired := make([]*entity.ApprovalRequest, 0, len(pending))
	for _, request := range pending {
		if request.ExpiresAt.Before(asOf) {
			expired = append(expired, request)
		}
	}

	return expired, nil
}

// BatchUpdate persists a batch of requests in one round trip.
func (r *RedisApprovalRepository) BatchUpdate(ctx context.Context, requests []*entity.ApprovalRequest) error {
	if len(requests) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, request := range requests {
		data, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("marshal approval request: %w", err)
		}
		pipe.Set(ctx, r.keys.ApprovalRequest(request.ID), data, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return translateRedisError(err)
	}

	return nil
}

func matchesFields(request *entity.ApprovalRequest, fields map[string]interface{}) bool {
	for key, want := range fields {
		var got interface{}
		switch key {
		case "status":
			got = request.Status
		case "action_type":
			got = request.ActionType
		case "issue_id":
			got = request.IssueID
		case "requester":
			got = request.Requester
		case "approver":
			got = request.Approver
		default:
			return false
		}

		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}

	return true
}
