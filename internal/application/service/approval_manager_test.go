package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

func highConfidence() entity.ConfidenceScore {
	return entity.ConfidenceScore{Overall: 0.95}
}

// Property 6: in AUTOMATIC mode, a risk score at or below the configured
// threshold with confidence clearing the bar never requires approval.
func TestRequiresManualApproval_Automatic_LowRisk_NoApprovalNeeded(t *testing.T) {
	mgr := NewApprovalManager(ApprovalManagerConfig{
		Mode:                   entity.HealingModeAutomatic,
		AutomaticRiskThreshold: 0.8,
		ConfidenceThreshold:    0.85,
	}, newFakeApprovalRepository())

	requires := mgr.RequiresManualApproval(ApprovalDecisionInput{
		ActionType: entity.HealingActionPipelineRetry,
		Confidence: highConfidence(),
		RiskScore:  0.5,
	})

	assert.False(t, requires)
}

func TestRequiresManualApproval_Automatic_HighRisk_RequiresApproval(t *testing.T) {
	mgr := NewApprovalManager(ApprovalManagerConfig{
		Mode:                   entity.HealingModeAutomatic,
		AutomaticRiskThreshold: 0.8,
		ConfidenceThreshold:    0.85,
	}, newFakeApprovalRepository())

	requires := mgr.RequiresManualApproval(ApprovalDecisionInput{
		ActionType: entity.HealingActionPipelineRetry,
		Confidence: highConfidence(),
		RiskScore:  0.9,
	})

	assert.True(t, requires)
}

// Property 6: RECOMMENDATION_ONLY mode always requires approval, regardless
// of confidence or risk.
func TestRequiresManualApproval_RecommendationOnlyMode_AlwaysRequiresApproval(t *testing.T) {
	mgr := NewApprovalManager(ApprovalManagerConfig{
		Mode: entity.HealingModeRecommendationOnly,
	}, newFakeApprovalRepository())

	requires := mgr.RequiresManualApproval(ApprovalDecisionInput{
		ActionType: entity.HealingActionPipelineRetry,
		Confidence: highConfidence(),
		RiskScore:  0.0,
	})

	assert.True(t, requires)
}

func TestRequiresManualApproval_LowConfidenceForcesApproval(t *testing.T) {
	mgr := NewApprovalManager(ApprovalManagerConfig{
		Mode:                   entity.HealingModeAutomatic,
		AutomaticRiskThreshold: 0.8,
		ConfidenceThreshold:    0.85,
	}, newFakeApprovalRepository())

	requires := mgr.RequiresManualApproval(ApprovalDecisionInput{
		ActionType: entity.HealingActionPipelineRetry,
		Confidence: entity.ConfidenceScore{Overall: 0.3},
		RiskScore:  0.1,
	})

	assert.True(t, requires)
}

func TestRequiresManualApproval_ActionTypeOverrideNever(t *testing.T) {
	mgr := NewApprovalManager(ApprovalManagerConfig{
		Mode:                   entity.HealingModeAutomatic,
		AutomaticRiskThreshold: 0.8,
		ConfidenceThreshold:    0.85,
		ActionTypeOverrides: map[entity.HealingActionType]ActionApprovalPolicy{
			entity.HealingActionPipelineRetry: ActionApprovalNever,
		},
	}, newFakeApprovalRepository())

	requires := mgr.RequiresManualApproval(ApprovalDecisionInput{
		ActionType: entity.HealingActionPipelineRetry,
		Confidence: entity.ConfidenceScore{Overall: 0.1},
		RiskScore:  0.99,
	})

	assert.False(t, requires)
}

// S6: an ApprovalRequest with an already-elapsed TTL lazily expires on the
// next Approve/Get call instead of transitioning to APPROVED.
func TestApprovalManager_Approve_ExpiredRequestCannotBeApproved(t *testing.T) {
	repo := newFakeApprovalRepository()
	mgr := NewApprovalManager(DefaultApprovalManagerConfig(), repo)

	request := entity.NewApprovalRequest("action-1", "pipeline_retry", "issue-1", "queue backing up", 0.4, 0.2, entity.ImpactLevelLow, "system", time.Millisecond)
	require.NoError(t, repo.Add(context.Background(), request))

	time.Sleep(5 * time.Millisecond)

	ok, err := mgr.Approve(context.Background(), request.ID, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := mgr.Get(context.Background(), request.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.ApprovalStatusExpired, stored.Status)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt) || stored.UpdatedAt.Equal(stored.CreatedAt))
}

func TestApprovalManager_Approve_PendingRequestApproves(t *testing.T) {
	repo := newFakeApprovalRepository()
	mgr := NewApprovalManager(DefaultApprovalManagerConfig(), repo)

	request := entity.NewApprovalRequest("action-1", "pipeline_retry", "issue-1", "queue backing up", 0.9, 0.1, entity.ImpactLevelLow, "system", time.Hour)
	require.NoError(t, repo.Add(context.Background(), request))

	ok, err := mgr.Approve(context.Background(), request.ID, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := mgr.Get(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalStatusApproved, stored.Status)
	assert.Equal(t, "alice", stored.Approver)
}
