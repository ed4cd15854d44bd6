package service

import (
	"context"
	"fmt"
	"sort"

	appevent "github.com/daniel-caso-github/realtime-alerting-system/internal/application/event"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
)

// SelectionThresholds gate which scored candidates are eligible for
// selection at all.
type SelectionThresholds struct {
	MinConfidence float64
	MaxImpact     float64
}

// DefaultSelectionThresholds returns permissive defaults that still screen
// out clearly unsafe candidates.
func DefaultSelectionThresholds() SelectionThresholds {
	return SelectionThresholds{MinConfidence: 0.5, MaxImpact: 0.9}
}

// ResolutionSelectorConfig holds the selector's policy knobs.
type ResolutionSelectorConfig struct {
	Thresholds  SelectionThresholds
	Mode        entity.SelfHealingMode
	MaxAttempts int
}

// DefaultResolutionSelectorConfig returns the spec's documented
// max_attempts default of 3.
func DefaultResolutionSelectorConfig() ResolutionSelectorConfig {
	return ResolutionSelectorConfig{
		Thresholds:  DefaultSelectionThresholds(),
		Mode:        entity.HealingModeSemiAutomatic,
		MaxAttempts: 3,
	}
}

// IssueContext describes the issue a Resolution is being selected for.
type IssueContext struct {
	IssueID     string
	Description string
	ActionType  entity.HealingActionType
	Requester   string
	Scoring     ScoringInput
	Impact      ImpactAnalysisInput
	RiskScore   float64
	BusinessHours bool
}

// scoredCandidate pairs a candidate action with its computed scores.
type scoredCandidate struct {
	candidate  repository.CandidateAction
	confidence entity.ConfidenceScore
	impact     entity.ImpactAnalysis
	priority   float64
}

// ResolutionSelector implements C9: enumerates candidate healing actions
// for an issue, scores each via the Confidence Scorer (C6) and Impact
// Analyzer (C7), filters and ranks them, and wraps the winner in a
// Resolution gated by the configured healing mode and the Approval
// Manager (C8).
type ResolutionSelector struct {
	cfg       ResolutionSelectorConfig
	actionRepo repository.HealingActionRepository
	scorer    *ConfidenceScorer
	analyzer  *ImpactAnalyzer
	approvals *ApprovalManager
	producer  *appevent.AlertProducer
}

// SetEventProducer attaches the async audit/observability side-channel.
func (s *ResolutionSelector) SetEventProducer(producer *appevent.AlertProducer) {
	s.producer = producer
}

// NewResolutionSelector wires the selector's collaborators.
func NewResolutionSelector(cfg ResolutionSelectorConfig, actionRepo repository.HealingActionRepository, scorer *ConfidenceScorer, analyzer *ImpactAnalyzer, approvals *ApprovalManager) *ResolutionSelector {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &ResolutionSelector{
		cfg:        cfg,
		actionRepo: actionRepo,
		scorer:     scorer,
		analyzer:   analyzer,
		approvals:  approvals,
	}
}

// SelectResolution runs the full C9 pipeline. Returns nil (no error) when
// the healing mode is DISABLED or no candidate survives thresholding.
func (s *ResolutionSelector) SelectResolution(ctx context.Context, issue IssueContext) (*entity.Resolution, error) {
	candidates, err := s.actionRepo.CandidatesForType(ctx, issue.ActionType)
	if err != nil {
		return nil, fmt.Errorf("list candidate actions: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scoring := issue.Scoring
		scoring.ActionType = issue.ActionType
		scoring.ActionParams = c.Details
		confidence := s.scorer.Score(ctx, scoring)

		impactInput := issue.Impact
		impactInput.ActionType = issue.ActionType
		impact := s.analyzer.Analyze(impactInput)

		if confidence.Overall < s.cfg.Thresholds.MinConfidence {
			continue
		}
		if impact.Overall > s.cfg.Thresholds.MaxImpact {
			continue
		}

		scored = append(scored, scoredCandidate{
			candidate:  c,
			confidence: confidence,
			impact:     impact,
			priority:   confidence.Overall - impact.Overall,
		})
	}

	if len(scored) == 0 {
		return nil, nil
	}

	winner := pickWinner(scored)

	if s.cfg.Mode == entity.HealingModeDisabled {
		return nil, nil
	}

	resolution := entity.NewResolution(issue.IssueID, winner.candidate.ActionID, issue.ActionType, winner.confidence, winner.impact, s.cfg.MaxAttempts)
	resolution.ActionDetails = winner.candidate.Details

	if s.cfg.Mode == entity.HealingModeRecommendationOnly {
		resolution.MarkRecommendationOnly()
		if err := s.actionRepo.SaveResolution(ctx, resolution); err != nil {
			return nil, fmt.Errorf("persist resolution: %w", err)
		}
		if s.producer != nil {
			s.producer.PublishResolutionSelected(ctx, resolution)
		}
		return resolution, nil
	}

	requiresApproval := s.approvals.RequiresManualApproval(ApprovalDecisionInput{
		ActionType:    issue.ActionType,
		Confidence:    winner.confidence,
		Impact:        winner.impact,
		RiskScore:     issue.RiskScore,
		BusinessHours: issue.BusinessHours,
	})

	if requiresApproval {
		request, err := s.approvals.RequestApproval(ctx, winner.candidate.ActionID, string(issue.ActionType), issue.IssueID, issue.Description, winner.confidence.Overall, winner.impact.Overall, winner.impact.Level, issue.Requester)
		if err != nil {
			return nil, fmt.Errorf("request approval: %w", err)
		}
		resolution.MarkApprovalRequired(request.ID)
	}

	if err := s.actionRepo.SaveResolution(ctx, resolution); err != nil {
		return nil, fmt.Errorf("persist resolution: %w", err)
	}
	if s.producer != nil {
		s.producer.PublishResolutionSelected(ctx, resolution)
	}
	return resolution, nil
}

// pickWinner picks the highest priority_score, breaking ties by highest
// confidence, then lowest impact, then lowest action_id lexicographically.
func pickWinner(scored []scoredCandidate) scoredCandidate {
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.confidence.Overall != b.confidence.Overall {
			return a.confidence.Overall > b.confidence.Overall
		}
		if a.impact.Overall != b.impact.Overall {
			return a.impact.Overall < b.impact.Overall
		}
		return a.candidate.ActionID < b.candidate.ActionID
	})
	return scored[0]
}

// ExecuteResolution runs one attempt of a PENDING resolution through the
// supplied executor function, recording the outcome. Returns false
// without invoking execute if the resolution cannot begin an attempt
// (not PENDING, or attempts exhausted).
func (s *ResolutionSelector) ExecuteResolution(ctx context.Context, resolution *entity.Resolution, execute func(ctx context.Context, resolution *entity.Resolution) (map[string]interface{}, error)) (bool, error) {
	if !resolution.BeginAttempt() {
		return false, nil
	}
	if err := s.actionRepo.SaveResolution(ctx, resolution); err != nil {
		return false, fmt.Errorf("persist in-progress resolution: %w", err)
	}

	result, execErr := execute(ctx, resolution)
	resolution.CompleteAttempt(execErr == nil, result)
	if err := s.actionRepo.SaveResolution(ctx, resolution); err != nil {
		return false, fmt.Errorf("persist resolution outcome: %w", err)
	}
	return execErr == nil, execErr
}

// GetResolution returns a resolution by ID.
func (s *ResolutionSelector) GetResolution(ctx context.Context, id entity.ID) (*entity.Resolution, error) {
	return s.actionRepo.GetResolution(ctx, id)
}

// GetResolutionsForIssue returns every resolution produced for an issue.
func (s *ResolutionSelector) GetResolutionsForIssue(ctx context.Context, issueID string) ([]*entity.Resolution, error) {
	return s.actionRepo.GetResolutionsForIssue(ctx, issueID)
}
