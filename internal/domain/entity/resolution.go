package entity

import "time"

// HealingActionType identifies the kind of automated remediation a
// Resolution enacts. Inferred from consistent usage across the original
// source's confidence/impact/approval/resolution modules — the source's
// constants module was not part of the retrieval pack.
type HealingActionType string

// Supported healing action types.
const (
	HealingActionDataCorrection      HealingActionType = "data_correction"
	HealingActionSchemaEvolution     HealingActionType = "schema_evolution"
	HealingActionPipelineRetry       HealingActionType = "pipeline_retry"
	HealingActionParameterAdjustment HealingActionType = "parameter_adjustment"
	HealingActionDependencyResolution HealingActionType = "dependency_resolution"
	HealingActionResourceScaling     HealingActionType = "resource_scaling"
)

// SelfHealingMode is the operator-configured policy gate controlling
// whether the Resolution Selector executes, recommends, or disables
// automated actions.
type SelfHealingMode string

// Supported self-healing modes.
const (
	HealingModeDisabled           SelfHealingMode = "disabled"
	HealingModeRecommendationOnly SelfHealingMode = "recommendation_only"
	HealingModeSemiAutomatic      SelfHealingMode = "semi_automatic"
	HealingModeAutomatic          SelfHealingMode = "automatic"
)

// ResolutionStatus is the lifecycle state of a Resolution.
type ResolutionStatus string

// Resolution status constants. PENDING <-> IN_PROGRESS; IN_PROGRESS ->
// SUCCESS | FAILED. PENDING -> APPROVAL_REQUIRED -> PENDING (on approval) |
// FAILED (on reject/expire). Terminal statuses are SUCCESS and FAILED.
const (
	ResolutionStatusPending          ResolutionStatus = "pending"
	ResolutionStatusInProgress       ResolutionStatus = "in_progress"
	ResolutionStatusSuccess          ResolutionStatus = "success"
	ResolutionStatusFailed           ResolutionStatus = "failed"
	ResolutionStatusApprovalRequired ResolutionStatus = "approval_required"
)

// IsTerminal reports whether no further transitions are possible.
func (s ResolutionStatus) IsTerminal() bool {
	return s == ResolutionStatusSuccess || s == ResolutionStatusFailed
}

// Resolution is a selected, approved-or-not, possibly-executed healing
// action for one issue. Owned exclusively by the Resolution Selector.
type Resolution struct {
	ID                ID                     `json:"resolution_id"`
	IssueID           string                 `json:"issue_id"`
	ActionID          string                 `json:"action_id"`
	ActionType        HealingActionType      `json:"action_type"`
	ActionDetails     map[string]interface{} `json:"action_details,omitempty"`
	Status            ResolutionStatus       `json:"status"`
	ConfidenceScore   ConfidenceScore        `json:"confidence_score"`
	ImpactAnalysis    ImpactAnalysis         `json:"impact_analysis"`
	RequiresApproval  bool                   `json:"requires_approval"`
	RecommendationOnly bool                  `json:"recommendation_only"`
	ApprovalID        *ID                    `json:"approval_id,omitempty"`
	ApprovalStatus    *ApprovalStatus        `json:"approval_status,omitempty"`
	AttemptCount      int                    `json:"attempt_count"`
	MaxAttempts       int                    `json:"max_attempts"`
	ExecutedAt        *time.Time             `json:"executed_at,omitempty"`
	ExecutionResult   map[string]interface{} `json:"execution_result,omitempty"`
	Timestamps
}

// NewResolution creates a PENDING resolution for the chosen candidate action.
func NewResolution(issueID, actionID string, actionType HealingActionType, confidence ConfidenceScore, impact ImpactAnalysis, maxAttempts int) *Resolution {
	return &Resolution{
		ID:              NewID(),
		IssueID:         issueID,
		ActionID:        actionID,
		ActionType:      actionType,
		Status:          ResolutionStatusPending,
		ConfidenceScore: confidence,
		ImpactAnalysis:  impact,
		MaxAttempts:     maxAttempts,
		Timestamps:      NewTimestamps(),
	}
}

// MarkRecommendationOnly flags the resolution as RECOMMENDATION_ONLY output:
// never dispatched to the executor.
func (r *Resolution) MarkRecommendationOnly() {
	r.RecommendationOnly = true
	r.Touch()
}

// MarkApprovalRequired transitions PENDING -> APPROVAL_REQUIRED, recording
// the ApprovalRequest that now gates execution.
func (r *Resolution) MarkApprovalRequired(approvalID ID) {
	r.RequiresApproval = true
	r.Status = ResolutionStatusApprovalRequired
	r.ApprovalID = &approvalID
	pending := ApprovalStatusPending
	r.ApprovalStatus = &pending
	r.Touch()
}

// ResolveApproval reacts to the gating ApprovalRequest's outcome: approval
// returns the resolution to PENDING for scheduling; rejection or expiry
// fails it terminally.
func (r *Resolution) ResolveApproval(status ApprovalStatus) {
	r.ApprovalStatus = &status
	switch status {
	case ApprovalStatusApproved:
		r.Status = ResolutionStatusPending
	case ApprovalStatusRejected, ApprovalStatusExpired:
		r.Status = ResolutionStatusFailed
	}
	r.Touch()
}

// BeginAttempt transitions PENDING -> IN_PROGRESS, consuming one attempt.
// Returns false if the resolution is not PENDING or attempts are exhausted.
func (r *Resolution) BeginAttempt() bool {
	if r.Status != ResolutionStatusPending {
		return false
	}
	if r.AttemptCount >= r.MaxAttempts {
		return false
	}
	r.AttemptCount++
	r.Status = ResolutionStatusInProgress
	now := time.Now().UTC()
	r.ExecutedAt = &now
	r.Touch()
	return true
}

// CompleteAttempt records the outcome of an IN_PROGRESS attempt. On failure
// with attempts remaining the resolution returns to PENDING for rescheduling;
// exhaustion is FAILED-terminal.
func (r *Resolution) CompleteAttempt(success bool, result map[string]interface{}) {
	r.ExecutionResult = result
	if success {
		r.Status = ResolutionStatusSuccess
	} else if r.AttemptCount < r.MaxAttempts {
		r.Status = ResolutionStatusPending
	} else {
		r.Status = ResolutionStatusFailed
	}
	r.Touch()
}
