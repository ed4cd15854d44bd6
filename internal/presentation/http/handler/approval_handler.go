package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/dto"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/service"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/http/helper"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/websocket"
)

// ApprovalHandler exposes the Approval Manager (C8) as an HTTP surface for
// the human-in-the-loop decision on SEMI_AUTOMATIC resolutions.
type ApprovalHandler struct {
	approvals   *service.ApprovalManager
	wsPublisher *websocket.AlertPublisher
}

// NewApprovalHandler creates a new approval handler.
func NewApprovalHandler(approvals *service.ApprovalManager) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

// SetWSPublisher attaches the live dashboard push channel.
func (h *ApprovalHandler) SetWSPublisher(pub *websocket.AlertPublisher) {
	h.wsPublisher = pub
}

// GetByID handles GET /api/v1/approvals/:id
//
//	@Summary		Get approval request
//	@Description	Retrieve a pending or decided approval request
//	@Tags			approvals
//	@Produce		json
//	@Param			id	path		string	true	"Approval request ID"
//	@Success		200	{object}	dto.ApprovalRequestResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/approvals/{id} [get]
func (h *ApprovalHandler) GetByID(c *fiber.Ctx) error {
	id, err := entity.ParseID(c.Params("id"))
	if err != nil {
		return helper.BadRequest(c, "Invalid approval request ID")
	}

	request, err := h.approvals.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NotFound(c, "Approval request not found")
		}
		return helper.InternalError(c, "Failed to get approval request")
	}

	return helper.Success(c, dto.ApprovalRequestFromEntity(request))
}

// Approve handles POST /api/v1/approvals/:id/approve
//
//	@Summary		Approve a pending request
//	@Description	Transition a PENDING approval request to APPROVED
//	@Tags			approvals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Approval request ID"
//	@Param			request	body		dto.ApproveRequest	true	"Approver"
//	@Success		200		{object}	dto.ApprovalRequestResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	id, err := entity.ParseID(c.Params("id"))
	if err != nil {
		return helper.BadRequest(c, "Invalid approval request ID")
	}

	var req dto.ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadRequest(c, "Invalid request body")
	}
	if errs := helper.ValidateStruct(req); len(errs) > 0 {
		return helper.ValidationErrors(c, errs)
	}

	ok, err := h.approvals.Approve(c.Context(), id, req.Approver)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NotFound(c, "Approval request not found")
		}
		return helper.InternalError(c, "Failed to approve request")
	}
	if !ok {
		return helper.Conflict(c, "Approval request is not pending")
	}

	request, err := h.approvals.Get(c.Context(), id)
	if err != nil {
		return helper.InternalError(c, "Approved but could not be retrieved")
	}

	if h.wsPublisher != nil {
		h.wsPublisher.PublishApprovalApproved(request)
	}

	return helper.Success(c, dto.ApprovalRequestFromEntity(request))
}

// Reject handles POST /api/v1/approvals/:id/reject
//
//	@Summary		Reject a pending request
//	@Description	Transition a PENDING approval request to REJECTED
//	@Tags			approvals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Approval request ID"
//	@Param			request	body		dto.RejectRequest	true	"Approver and reason"
//	@Success		200		{object}	dto.ApprovalRequestResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	id, err := entity.ParseID(c.Params("id"))
	if err != nil {
		return helper.BadRequest(c, "Invalid approval request ID")
	}

	var req dto.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadRequest(c, "Invalid request body")
	}
	if errs := helper.ValidateStruct(req); len(errs) > 0 {
		return helper.ValidationErrors(c, errs)
	}

	ok, err := h.approvals.Reject(c.Context(), id, req.Approver, req.Reason)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NotFound(c, "Approval request not found")
		}
		return helper.InternalError(c, "Failed to reject request")
	}
	if !ok {
		return helper.Conflict(c, "Approval request is not pending")
	}

	request, err := h.approvals.Get(c.Context(), id)
	if err != nil {
		return helper.InternalError(c, "Rejected but could not be retrieved")
	}

	if h.wsPublisher != nil {
		h.wsPublisher.PublishApprovalRejected(request)
	}

	return helper.Success(c, dto.ApprovalRequestFromEntity(request))
}
