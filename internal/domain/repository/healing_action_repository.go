package repository

import (
	"context"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// CandidateAction is one registered healing action the Resolution Selector
// may choose for a given action type: enough detail to score confidence and
// impact and, if selected, hand to the executor.
type CandidateAction struct {
	ActionID    string                 `json:"action_id"`
	ActionType  entity.HealingActionType `json:"action_type"`
	Description string                 `json:"description,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// HealingActionRepository registers the candidate healing actions available
// per action type, and persists the Resolutions the selector produces.
type HealingActionRepository interface {
	CandidatesForType(ctx context.Context, actionType entity.HealingActionType) ([]CandidateAction, error)

	SaveResolution(ctx context.Context, resolution *entity.Resolution) error
	GetResolution(ctx context.Context, id entity.ID) (*entity.Resolution, error)
	GetResolutionsForIssue(ctx context.Context, issueID string) ([]*entity.Resolution, error)

	// ResolutionsByActionType returns prior resolution attempts for an
	// action type, most recent first, for the Confidence Scorer's
	// historical-success factor. limit bounds the recency window.
	ResolutionsByActionType(ctx context.Context, actionType entity.HealingActionType, limit int) ([]*entity.Resolution, error)
}
