package dto

import (
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// ConfidenceScoreResponse is the API representation of an entity.ConfidenceScore.
type ConfidenceScoreResponse struct {
	Factors map[string]float64 `json:"factors"`
	Overall float64            `json:"overall"`
}

// ImpactAnalysisResponse is the API representation of an entity.ImpactAnalysis.
type ImpactAnalysisResponse struct {
	CategoryScores map[string]float64 `json:"category_scores"`
	Overall        float64            `json:"overall"`
	Level          string             `json:"level"`
}

// ResolutionResponse is the API representation of an entity.Resolution.
type ResolutionResponse struct {
	ID                 string                  `json:"resolution_id"`
	IssueID            string                  `json:"issue_id"`
	ActionID           string                  `json:"action_id"`
	ActionType         string                  `json:"action_type"`
	Status             string                  `json:"status"`
	Confidence         ConfidenceScoreResponse `json:"confidence_score"`
	Impact             ImpactAnalysisResponse  `json:"impact_analysis"`
	RequiresApproval   bool                    `json:"requires_approval"`
	RecommendationOnly bool                    `json:"recommendation_only"`
	ApprovalID         *string                 `json:"approval_id,omitempty"`
	AttemptCount       int                     `json:"attempt_count"`
	MaxAttempts        int                     `json:"max_attempts"`
	ExecutedAt         *time.Time              `json:"executed_at,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// ResolutionFromEntity converts a domain Resolution to its API DTO.
func ResolutionFromEntity(r *entity.Resolution) ResolutionResponse {
	out := ResolutionResponse{
		ID:         r.ID.String(),
		IssueID:    r.IssueID,
		ActionID:   r.ActionID,
		ActionType: string(r.ActionType),
		Status:     string(r.Status),
		Confidence: ConfidenceScoreResponse{
			Factors: factorsToStrings(r.ConfidenceScore.Factors),
			Overall: r.ConfidenceScore.Overall,
		},
		Impact: ImpactAnalysisResponse{
			CategoryScores: categoriesToStrings(r.ImpactAnalysis.CategoryScores),
			Overall:        r.ImpactAnalysis.Overall,
			Level:          string(r.ImpactAnalysis.Level),
		},
		RequiresApproval:   r.RequiresApproval,
		RecommendationOnly: r.RecommendationOnly,
		AttemptCount:       r.AttemptCount,
		MaxAttempts:        r.MaxAttempts,
		ExecutedAt:         r.ExecutedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.ApprovalID != nil {
		id := r.ApprovalID.String()
		out.ApprovalID = &id
	}
	return out
}

// ResolutionsFromEntities converts a slice of Resolutions.
func ResolutionsFromEntities(resolutions []*entity.Resolution) []ResolutionResponse {
	result := make([]ResolutionResponse, len(resolutions))
	for i, r := range resolutions {
		result[i] = ResolutionFromEntity(r)
	}
	return result
}

func factorsToStrings(factors map[entity.ConfidenceFactor]float64) map[string]float64 {
	out := make(map[string]float64, len(factors))
	for k, v := range factors {
		out[string(k)] = v
	}
	return out
}

func categoriesToStrings(categories map[entity.ImpactCategory]float64) map[string]float64 {
	out := make(map[string]float64, len(categories))
	for k, v := range categories {
		out[string(k)] = v
	}
	return out
}
