package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
)

// Ensure PostgresHealingActionRepository implements repository.HealingActionRepository
var _ repository.HealingActionRepository = (*PostgresHealingActionRepository)(nil)

// PostgresHealingActionRepository implements HealingActionRepository using
// PostgreSQL. Candidate actions are registered reference data (seeded by
// migration or an admin surface, not written by the decision core itself);
// resolutions are the decision core's own output.
type PostgresHealingActionRepository struct {
	db *sqlx.DB
}

// NewPostgresHealingActionRepository creates a new PostgreSQL healing action repository.
func NewPostgresHealingActionRepository(db *PostgresDB) *PostgresHealingActionRepository {
	return &PostgresHealingActionRepository{db: db.DB}
}

type candidateActionModel struct {
	ActionID    string  `db:"action_id"`
	ActionType  string  `db:"action_type"`
	Description string  `db:"description"`
	Details     JSONMap `db:"details"`
}

// CandidatesForType returns every registered candidate action for actionType.
func (r *PostgresHealingActionRepository) CandidatesForType(ctx context.Context, actionType entity.HealingActionType) ([]repository.CandidateAction, error) {
	query := `
		SELECT action_id, action_type, description, details
		FROM healing_actions
		WHERE action_type = $1
		ORDER BY action_id ASC
	`

	var models []candidateActionModel
	if err := r.db.SelectContext(ctx, &models, query, string(actionType)); err != nil {
		return nil, TranslateError(err)
	}

	candidates := make([]repository.CandidateAction, 0, len(models))
	for _, m := range models {
		candidates = append(candidates, repository.CandidateAction{
			ActionID:    m.ActionID,
			ActionType:  entity.HealingActionType(m.ActionType),
			Description: m.Description,
			Details:     map[string]interface{}(m.Details),
		})
	}

	return candidates, nil
}

type resolutionModel struct {
	ID                 string     `db:"id"`
	IssueID            string     `db:"issue_id"`
	ActionID           string     `db:"action_id"`
	ActionType         string     `db:"action_type"`
	ActionDetails      JSONMap    `db:"action_details"`
	Status             string     `db:"status"`
	ConfidenceFactors  JSONMap    `db:"confidence_factors"`
	ConfidenceOverall  float64    `db:"confidence_overall"`
	ImpactCategories   JSONMap    `db:"impact_categories"`
	ImpactOverall      float64    `db:"impact_overall"`
	ImpactLevel        string     `db:"impact_level"`
	RequiresApproval   bool       `db:"requires_approval"`
	RecommendationOnly bool       `db:"recommendation_only"`
	ApprovalID         *string    `db:"approval_id"`
	ApprovalStatus     *string    `db:"approval_status"`
	AttemptCount       int        `db:"attempt_count"`
	MaxAttempts        int        `db:"max_attempts"`
	ExecutedAt         *time.Time `db:"executed_at"`
	ExecutionResult    JSONMap    `db:"execution_result"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func resolutionModelFromEntity(r *entity.Resolution) *resolutionModel {
	m := &resolutionModel{
		ID:                 r.ID.String(),
		IssueID:            r.IssueID,
		ActionID:           r.ActionID,
		ActionType:         string(r.ActionType),
		ActionDetails:      JSONMap(r.ActionDetails),
		Status:             string(r.Status),
		ConfidenceOverall:  r.ConfidenceScore.Overall,
		ImpactOverall:      r.ImpactAnalysis.Overall,
		ImpactLevel:        string(r.ImpactAnalysis.Level),
		RequiresApproval:   r.RequiresApproval,
		RecommendationOnly: r.RecommendationOnly,
		AttemptCount:       r.AttemptCount,
		MaxAttempts:        r.MaxAttempts,
		ExecutionResult:    JSONMap(r.ExecutionResult),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	confidenceFactors := make(JSONMap, len(r.ConfidenceScore.Factors))
	for k, v := range r.ConfidenceScore.Factors {
		confidenceFactors[string(k)] = v
	}
	m.ConfidenceFactors = confidenceFactors

	impactCategories := make(JSONMap, len(r.ImpactAnalysis.CategoryScores))
	for k, v := range r.ImpactAnalysis.CategoryScores {
		impactCategories[string(k)] = v
	}
	m.ImpactCategories = impactCategories

	if r.ApprovalID != nil {
		id := r.ApprovalID.String()
		m.ApprovalID = &id
	}
	if r.ApprovalStatus != nil {
		status := string(*r.ApprovalStatus)
		m.ApprovalStatus = &status
	}
	if r.ExecutedAt != nil {
		executedAt := *r.ExecutedAt
		m.ExecutedAt = &executedAt
	}

	return m
}

func (m *resolutionModel) toEntity() (*entity.Resolution, error) {
	id, err := entity.ParseID(m.ID)
	if err != nil {
		return nil, err
	}

	confidenceFactors := make(map[entity.ConfidenceFactor]float64, len(m.ConfidenceFactors))
	for k, v := range m.ConfidenceFactors {
		if f, ok := v.(float64); ok {
			confidenceFactors[entity.ConfidenceFactor(k)] = f
		}
	}

	impactCategories := make(map[entity.ImpactCategory]float64, len(m.ImpactCategories))
	for k, v := range m.ImpactCategories {
		if f, ok := v.(float64); ok {
			impactCategories[entity.ImpactCategory(k)] = f
		}
	}

	resolution := &entity.Resolution{
		ID:                 id,
		IssueID:            m.IssueID,
		ActionID:           m.ActionID,
		ActionType:         entity.HealingActionType(m.ActionType),
		ActionDetails:      map[string]interface{}(m.ActionDetails),
		Status:             entity.ResolutionStatus(m.Status),
		ConfidenceScore:    entity.ConfidenceScore{Factors: confidenceFactors, Overall: m.ConfidenceOverall},
		ImpactAnalysis:     entity.ImpactAnalysis{CategoryScores: impactCategories, Overall: m.ImpactOverall, Level: entity.ImpactLevel(m.ImpactLevel)},
		RequiresApproval:   m.RequiresApproval,
		RecommendationOnly: m.RecommendationOnly,
		AttemptCount:       m.AttemptCount,
		MaxAttempts:        m.MaxAttempts,
		ExecutionResult:    map[string]interface{}(m.ExecutionResult),
		Timestamps:         entity.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
	}

	if m.ApprovalID != nil {
		approvalID, err := entity.ParseID(*m.ApprovalID)
		if err == nil {
			resolution.ApprovalID = &approvalID
		}
	}
	if m.ApprovalStatus != nil {
		status := entity.ApprovalStatus(*m.ApprovalStatus)
		resolution.ApprovalStatus = &status
	}
	if m.ExecutedAt != nil {
		executedAt := *m.ExecutedAt
		resolution.ExecutedAt = &executedAt
	}

	return resolution, nil
}

const resolutionColumns = `id, issue_id, action_id, action_type, action_details, status,
	confidence_factors, confidence_overall, impact_categories, impact_overall, impact_level,
	requires_approval, recommendation_only, approval_id, approval_status,
	attempt_count, max_attempts, executed_at, execution_result, created_at, updated_at`

// SaveResolution inserts or updates a resolution (upsert on primary key).
func (r *PostgresHealingActionRepository) SaveResolution(ctx context.Context, resolution *entity.Resolution) error {
	m := resolutionModelFromEntity(resolution)

	query := `
		INSERT INTO resolutions (` + resolutionColumns + `)
		VALUES (:id, :issue_id, :action_id, :action_type, :action_details, :status,
			:confidence_factors, :confidence_overall, :impact_categories, :impact_overall, :impact_level,
			:requires_approval, :recommendation_only, :approval_id, :approval_status,
			:attempt_count, :max_attempts, :executed_at, :execution_result, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			requires_approval = EXCLUDED.requires_approval,
			approval_id = EXCLUDED.approval_id,
			approval_status = EXCLUDED.approval_status,
			attempt_count = EXCLUDED.attempt_count,
			executed_at = EXCLUDED.executed_at,
			execution_result = EXCLUDED.execution_result,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return TranslateError(err)
	}
	return nil
}

// GetResolution finds a resolution by its ID.
func (r *PostgresHealingActionRepository) GetResolution(ctx context.Context, id entity.ID) (*entity.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions WHERE id = $1`

	var m resolutionModel
	if err := r.db.GetContext(ctx, &m, query, id.String()); err != nil {
		return nil, TranslateError(err)
	}

	return m.toEntity()
}

// GetResolutionsForIssue returns every resolution produced for one issue.
func (r *PostgresHealingActionRepository) GetResolutionsForIssue(ctx context.Context, issueID string) ([]*entity.Resolution, error) {
	query := fmt.Sprintf(`SELECT %s FROM resolutions WHERE issue_id = $1 ORDER BY created_at DESC`, resolutionColumns)

	var models []resolutionModel
	if err := r.db.SelectContext(ctx, &models, query, issueID); err != nil {
		return nil, TranslateError(err)
	}

	return resolutionModelsToEntities(models)
}

// ResolutionsByActionType returns the most recent resolutions for an action
// type, bounded by limit, for the Confidence Scorer's historical-success factor.
func (r *PostgresHealingActionRepository) ResolutionsByActionType(ctx context.Context, actionType entity.HealingActionType, limit int) ([]*entity.Resolution, error) {
	query := fmt.Sprintf(`SELECT %s FROM resolutions WHERE action_type = $1 ORDER BY created_at DESC LIMIT $2`, resolutionColumns)

	var models []resolutionModel
	if err := r.db.SelectContext(ctx, &models, query, string(actionType), limit); err != nil {
		return nil, TranslateError(err)
	}

	return resolutionModelsToEntities(models)
}

func resolutionModelsToEntities(models []resolutionModel) ([]*entity.Resolution, error) {
	resolutions := make([]*entity.Resolution, 0, len(models))
	for i := range models {
		r, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, r)
	}
	return resolutions, nil
}
