package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/dto"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/service"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/http/helper"
)

// ResolutionHandler exposes the Resolution Selector (C9) read surface:
// resolutions themselves are produced internally by the self-healing
// pipeline, not created through the API.
type ResolutionHandler struct {
	resolutions *service.ResolutionSelector
}

// NewResolutionHandler creates a new resolution handler.
func NewResolutionHandler(resolutions *service.ResolutionSelector) *ResolutionHandler {
	return &ResolutionHandler{resolutions: resolutions}
}

// GetByID handles GET /api/v1/resolutions/:id
//
//	@Summary		Get resolution
//	@Description	Retrieve a selected resolution by ID
//	@Tags			resolutions
//	@Produce		json
//	@Param			id	path		string	true	"Resolution ID"
//	@Success		200	{object}	dto.ResolutionResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/resolutions/{id} [get]
func (h *ResolutionHandler) GetByID(c *fiber.Ctx) error {
	id, err := entity.ParseID(c.Params("id"))
	if err != nil {
		return helper.BadRequest(c, "Invalid resolution ID")
	}

	resolution, err := h.resolutions.GetResolution(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NotFound(c, "Resolution not found")
		}
		return helper.InternalError(c, "Failed to get resolution")
	}

	return helper.Success(c, dto.ResolutionFromEntity(resolution))
}

// ListForIssue handles GET /api/v1/issues/:issueId/resolutions
//
//	@Summary		List resolutions for an issue
//	@Description	Retrieve every resolution produced for an issue, most recent attempts included
//	@Tags			resolutions
//	@Produce		json
//	@Param			issueId	path		string	true	"Issue ID"
//	@Success		200		{array}		dto.ResolutionResponse
//	@Router			/issues/{issueId}/resolutions [get]
func (h *ResolutionHandler) ListForIssue(c *fiber.Ctx) error {
	issueID := c.Params("issueId")
	if issueID == "" {
		return helper.BadRequest(c, "Issue ID is required")
	}

	resolutions, err := h.resolutions.GetResolutionsForIssue(c.Context(), issueID)
	if err != nil {
		return helper.InternalError(c, "Failed to list resolutions")
	}

	return helper.Success(c, dto.ResolutionsFromEntities(resolutions))
}
