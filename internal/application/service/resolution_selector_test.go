package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
)

func goodScoringInput() ScoringInput {
	return ScoringInput{
		Pattern:           &MatchedPattern{IssueSimilarity: 1, ActionSimilarity: 1},
		DataVolume:        "low",
		DataCriticality:   "low",
		DataComplexity:    "low",
		Environment:       "dev",
		MaintenanceWindow: true,
	}
}

func lowImpactInput() ImpactAnalysisInput {
	return ImpactAnalysisInput{
		DataCriticality:     "low",
		DataVisibility:      "low",
		ExecutionTime:       "low",
		PipelineCriticality: "low",
		BusinessCriticality: "low",
		ComputeChange:       "low",
		StorageChange:       "low",
		CostChange:          "low",
	}
}

func newTestResolutionSelector(actionRepo repository.HealingActionRepository, mode entity.SelfHealingMode) *ResolutionSelector {
	cfg := DefaultResolutionSelectorConfig()
	cfg.Mode = mode
	scorer := NewConfidenceScorer(DefaultConfidenceScorerConfig(), actionRepo)
	analyzer := NewImpactAnalyzer(DefaultImpactAnalyzerConfig())
	approvals := NewApprovalManager(DefaultApprovalManagerConfig(), newFakeApprovalRepository())
	return NewResolutionSelector(cfg, actionRepo, scorer, analyzer, approvals)
}

// S5: in RECOMMENDATION_ONLY mode the selector produces a resolution
// flagged RecommendationOnly, left PENDING with no approval attached, and
// never reaches an executor.
func TestSelectResolution_RecommendationOnlyMode(t *testing.T) {
	actionRepo := newFakeHealingActionRepository()
	actionRepo.candidates[entity.HealingActionPipelineRetry] = []repository.CandidateAction{
		{ActionID: "retry-1", ActionType: entity.HealingActionPipelineRetry, Description: "retry the pipeline"},
	}
	selector := newTestResolutionSelector(actionRepo, entity.HealingModeRecommendationOnly)

	resolution, err := selector.SelectResolution(context.Background(), IssueContext{
		IssueID:    "issue-1",
		ActionType: entity.HealingActionPipelineRetry,
		Scoring:    goodScoringInput(),
		Impact:     lowImpactInput(),
	})

	require.NoError(t, err)
	require.NotNil(t, resolution)
	assert.True(t, resolution.RecommendationOnly)
	assert.Equal(t, entity.ResolutionStatusPending, resolution.Status)
	assert.Nil(t, resolution.ApprovalID)
	assert.False(t, resolution.RequiresApproval)
	require.Len(t, actionRepo.resolutions, 1)
	assert.Equal(t, resolution.ID, actionRepo.resolutions[0].ID)
}

func TestSelectResolution_DisabledMode_ReturnsNil(t *testing.T) {
	actionRepo := newFakeHealingActionRepository()
	actionRepo.candidates[entity.HealingActionPipelineRetry] = []repository.CandidateAction{
		{ActionID: "retry-1", ActionType: entity.HealingActionPipelineRetry},
	}
	selector := newTestResolutionSelector(actionRepo, entity.HealingModeDisabled)

	resolution, err := selector.SelectResolution(context.Background(), IssueContext{
		IssueID:    "issue-1",
		ActionType: entity.HealingActionPipelineRetry,
		Scoring:    goodScoringInput(),
		Impact:     lowImpactInput(),
	})

	require.NoError(t, err)
	assert.Nil(t, resolution)
	assert.Empty(t, actionRepo.resolutions)
}

func TestSelectResolution_NoCandidates_ReturnsNil(t *testing.T) {
	actionRepo := newFakeHealingActionRepository()
	selector := newTestResolutionSelector(actionRepo, entity.HealingModeSemiAutomatic)

	resolution, err := selector.SelectResolution(context.Background(), IssueContext{
		IssueID:    "issue-1",
		ActionType: entity.HealingActionPipelineRetry,
		Scoring:    goodScoringInput(),
		Impact:     lowImpactInput(),
	})

	require.NoError(t, err)
	assert.Nil(t, resolution)
}

// SEMI_AUTOMATIC mode gates on RequiresManualApproval; with default config
// and a low-confidence candidate, approval is required and the resolution
// transitions to APPROVAL_REQUIRED with an ApprovalID attached.
func TestSelectResolution_SemiAutomaticMode_LowConfidenceRequiresApproval(t *testing.T) {
	actionRepo := newFakeHealingActionRepository()
	actionRepo.candidates[entity.HealingActionPipelineRetry] = []repository.CandidateAction{
		{ActionID: "retry-1", ActionType: entity.HealingActionPipelineRetry},
	}
	selector := newTestResolutionSelector(actionRepo, entity.HealingModeSemiAutomatic)

	resolution, err := selector.SelectResolution(context.Background(), IssueContext{
		IssueID:    "issue-1",
		ActionType: entity.HealingActionPipelineRetry,
		Scoring:    goodScoringInput(),
		Impact:     lowImpactInput(),
		RiskScore:  0.9,
	})

	require.NoError(t, err)
	require.NotNil(t, resolution)
	assert.True(t, resolution.RequiresApproval)
	assert.Equal(t, entity.ResolutionStatusApprovalRequired, resolution.Status)
	require.NotNil(t, resolution.ApprovalID)
	assert.False(t, resolution.RecommendationOnly)
}

func TestPickWinner_FullTieBrokenByLowestActionID(t *testing.T) {
	scored := []scoredCandidate{
		{candidate: repository.CandidateAction{ActionID: "b"}, confidence: entity.ConfidenceScore{Overall: 0.9}, impact: entity.ImpactAnalysis{Overall: 0.2}, priority: 0.7},
		{candidate: repository.CandidateAction{ActionID: "a"}, confidence: entity.ConfidenceScore{Overall: 0.9}, impact: entity.ImpactAnalysis{Overall: 0.2}, priority: 0.7},
	}

	winner := pickWinner(scored)

	assert.Equal(t, "a", winner.candidate.ActionID)
}
