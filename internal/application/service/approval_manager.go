package service

import (
	"context"
	"fmt"
	"time"

	appevent "github.com/daniel-caso-github/realtime-alerting-system/internal/application/event"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// ActionApprovalPolicy is the per-action-type override on top of the
// global policy gates.
type ActionApprovalPolicy string

// Supported per-action-type override values.
const (
	ActionApprovalAlways          ActionApprovalPolicy = "always"
	ActionApprovalNever           ActionApprovalPolicy = "never"
	ActionApprovalHighImpactOnly  ActionApprovalPolicy = "high_impact_only"
	ActionApprovalCriticalOnly    ActionApprovalPolicy = "critical_only"
)

// ApprovalManagerConfig holds the policy knobs combined by
// RequiresManualApproval.
type ApprovalManagerConfig struct {
	Mode                      entity.SelfHealingMode
	ActionTypeOverrides       map[entity.HealingActionType]ActionApprovalPolicy
	ConfidenceThreshold       float64
	AutomaticRiskThreshold    float64 // require approval when risk_score exceeds this in AUTOMATIC mode
	SemiAutomaticRiskThreshold float64
	BusinessHoursRequireApproval bool
	DefaultTTL                time.Duration
}

// DefaultApprovalManagerConfig returns the spec's documented defaults:
// a 0.8 AUTOMATIC-mode risk gate and a 24h TTL.
func DefaultApprovalManagerConfig() ApprovalManagerConfig {
	return ApprovalManagerConfig{
		Mode:                   entity.HealingModeSemiAutomatic,
		ConfidenceThreshold:    0.85,
		AutomaticRiskThreshold: 0.8,
		SemiAutomaticRiskThreshold: 0.5,
		DefaultTTL:             24 * time.Hour,
	}
}

// ApprovalDecisionInput bundles the signals RequiresManualApproval combines.
type ApprovalDecisionInput struct {
	ActionType    entity.HealingActionType
	Confidence    entity.ConfidenceScore
	Impact        entity.ImpactAnalysis
	RiskScore     float64 // combined risk signal, e.g. 1-confidence weighted by impact
	BusinessHours bool
}

// ApprovalManager implements C8: the manual-approval gate policy and the
// PENDING/APPROVED/REJECTED/EXPIRED lifecycle for ApprovalRequests.
type ApprovalManager struct {
	cfg      ApprovalManagerConfig
	repo     repository.ApprovalRepository
	producer *appevent.AlertProducer
}

// NewApprovalManager constructs a manager.
func NewApprovalManager(cfg ApprovalManagerConfig, repo repository.ApprovalRepository) *ApprovalManager {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 24 * time.Hour
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 0.85
	}
	return &ApprovalManager{cfg: cfg, repo: repo}
}

// SetEventProducer attaches the async audit/observability side-channel.
func (m *ApprovalManager) SetEventProducer(producer *appevent.AlertProducer) {
	m.producer = producer
}

// RequiresManualApproval combines the healing mode, per-action-type
// override, confidence threshold, and business-hours policy bit into one
// yes/no decision, per spec §4.8.
func (m *ApprovalManager) RequiresManualApproval(in ApprovalDecisionInput) bool {
	if override, ok := m.cfg.ActionTypeOverrides[in.ActionType]; ok {
		switch override {
		case ActionApprovalAlways:
			return true
		case ActionApprovalNever:
			return false
		case ActionApprovalHighImpactOnly:
			if in.Impact.Level == entity.ImpactLevelHigh || in.Impact.Level == entity.ImpactLevelCritical {
				return true
			}
		case ActionApprovalCriticalOnly:
			if in.Impact.Level == entity.ImpactLevelCritical {
				return true
			}
		}
	}

	switch m.cfg.Mode {
	case entity.HealingModeDisabled, entity.HealingModeRecommendationOnly:
		return true
	case entity.HealingModeAutomatic:
		if in.RiskScore > m.cfg.AutomaticRiskThreshold {
			return true
		}
	case entity.HealingModeSemiAutomatic:
		if in.RiskScore > m.cfg.SemiAutomaticRiskThreshold {
			return true
		}
	}

	if !in.Confidence.MeetsThreshold(m.cfg.ConfidenceThreshold) {
		return true
	}

	if in.BusinessHours && m.cfg.BusinessHoursRequireApproval {
		return true
	}

	return false
}

// RequestApproval creates and persists a PENDING ApprovalRequest.
func (m *ApprovalManager) RequestApproval(ctx context.Context, actionID, actionType, issueID, issueDescription string, confidence, impact float64, impactLevel entity.ImpactLevel, requester string) (*entity.ApprovalRequest, error) {
	request := entity.NewApprovalRequest(actionID, actionType, issueID, issueDescription, confidence, impact, impactLevel, requester, m.cfg.DefaultTTL)
	if err := m.repo.Add(ctx, request); err != nil {
		return nil, fmt.Errorf("persist approval request: %w", err)
	}
	if m.producer != nil {
		m.producer.PublishApprovalRequested(ctx, request)
	}
	return request, nil
}

// Approve transitions a request PENDING -> APPROVED. Returns false if the
// transition was refused (not pending, or lazily expired).
func (m *ApprovalManager) Approve(ctx context.Context, id entity.ID, approver string) (bool, error) {
	request, err := m.repo.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load approval request: %w", err)
	}
	ok := request.Approve(approver)
	if err := m.repo.Update(ctx, request); err != nil {
		return false, fmt.Errorf("persist approval request: %w", err)
	}
	if ok && m.producer != nil {
		m.producer.PublishApprovalApproved(ctx, request)
	}
	return ok, nil
}

// Reject transitions a request PENDING -> REJECTED.
func (m *ApprovalManager) Reject(ctx context.Context, id entity.ID, approver, reason string) (bool, error) {
	request, err := m.repo.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load approval request: %w", err)
	}
	ok := request.Reject(approver, reason)
	if err := m.repo.Update(ctx, request); err != nil {
		return false, fmt.Errorf("persist approval request: %w", err)
	}
	if ok && m.producer != nil {
		m.producer.PublishApprovalRejected(ctx, request)
	}
	return ok, nil
}

// Get returns a request, lazily flipping it to EXPIRED and persisting the
// transition if its TTL has elapsed.
func (m *ApprovalManager) Get(ctx context.Context, id entity.ID) (*entity.ApprovalRequest, error) {
	request, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.EnsureNotExpired() {
		if err := m.repo.Update(ctx, request); err != nil {
			log.Warn().Err(err).Str("request_id", id.String()).Msg("approval manager: failed to persist lazy expiry")
		}
	}
	return request, nil
}

// CleanupExpiredRequests sweeps all PENDING requests whose TTL has
// elapsed and flips them to EXPIRED in one batch update.
func (m *ApprovalManager) CleanupExpiredRequests(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	expired, err := m.repo.QueryExpiredPending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("query expired approval requests: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	for _, r := range expired {
		r.EnsureNotExpired()
	}

	if err := m.repo.BatchUpdate(ctx, expired); err != nil {
		return 0, fmt.Errorf("batch update expired approval requests: %w", err)
	}
	return len(expired), nil
}
