package dto

import (
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// ApproveRequest represents the request payload for approving a pending
// approval request.
type ApproveRequest struct {
	Approver string `json:"approver" validate:"required"`
}

// RejectRequest represents the request payload for rejecting a pending
// approval request.
type RejectRequest struct {
	Approver string `json:"approver" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// ApprovalRequestResponse is the API representation of an ApprovalRequest.
type ApprovalRequestResponse struct {
	ID               string                 `json:"request_id"`
	ActionID         string                 `json:"action_id"`
	ActionType       string                 `json:"action_type"`
	IssueID          string                 `json:"issue_id"`
	IssueDescription string                 `json:"issue_description"`
	ActionDetails    map[string]interface{} `json:"action_details,omitempty"`
	ConfidenceScore  float64                `json:"confidence_score"`
	ImpactScore      float64                `json:"impact_score"`
	ImpactLevel      string                 `json:"impact_level"`
	Status           string                 `json:"status"`
	Requester        string                 `json:"requester,omitempty"`
	Approver         string                 `json:"approver,omitempty"`
	RejectionReason  string                 `json:"rejection_reason,omitempty"`
	ExpiresAt        time.Time              `json:"expires_at"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// ApprovalRequestFromEntity converts a domain ApprovalRequest to its API DTO.
func ApprovalRequestFromEntity(r *entity.ApprovalRequest) ApprovalRequestResponse {
	return ApprovalRequestResponse{
		ID:               r.ID.String(),
		ActionID:         r.ActionID,
		ActionType:       r.ActionType,
		IssueID:          r.IssueID,
		IssueDescription: r.IssueDescription,
		ActionDetails:    r.ActionDetails,
		ConfidenceScore:  r.ConfidenceScore,
		ImpactScore:      r.ImpactScore,
		ImpactLevel:      string(r.ImpactLevel),
		Status:           string(r.Status),
		Requester:        r.Requester,
		Approver:         r.Approver,
		RejectionReason:  r.RejectionReason,
		ExpiresAt:        r.ExpiresAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ApprovalRequestsFromEntities converts a slice of ApprovalRequests.
func ApprovalRequestsFromEntities(requests []*entity.ApprovalRequest) []ApprovalRequestResponse {
	result := make([]ApprovalRequestResponse, len(requests))
	for i, r := range requests {
		result[i] = ApprovalRequestFromEntity(r)
	}
	return result
}
