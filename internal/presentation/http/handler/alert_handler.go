// Package handler provides HTTP request handlers for the API.
package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/dto"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/service"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/valueobject"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/http/helper"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/websocket"

	"github.com/rs/zerolog/log"
)

// AlertHandler handles alert-related HTTP requests. Alert creation
// (Create, POST /alerts) goes through the Alert Generator's GenerateAlert,
// the same entry point WebhookHandler uses, so correlation and routing
// apply to alerts raised over HTTP.
type AlertHandler struct {
	alertService   *service.AlertService
	alertGenerator *service.AlertGenerator
	wsPublisher    *websocket.AlertPublisher
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(alertService *service.AlertService, alertGenerator *service.AlertGenerator) *AlertHandler {
	return &AlertHandler{
		alertService:   alertService,
		alertGenerator: alertGenerator,
	}
}

// SetWSPublisher attaches the live dashboard push channel. Optional: when
// unset, alert state changes are still recorded and still flow through
// the async event bus, just without a WebSocket push.
func (h *AlertHandler) SetWSPublisher(pub *websocket.AlertPublisher) {
	h.wsPublisher = pub
}

// Create handles POST /api/v1/alerts
//
//	@Summary		Raise an alert
//	@Description	Raise a new alert directly, bypassing the rule engine
//	@Tags			alerts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateAlertRequest	true	"Alert data"
//	@Success		201		{object}	dto.AlertResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		422		{object}	dto.ValidationErrorResponse
//	@Router			/alerts [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadRequest(c, "Invalid request body")
	}

	if errs := helper.ValidateStruct(req); len(errs) > 0 {
		return helper.ValidationErrors(c, errs)
	}

	alertID, err := h.alertGenerator.GenerateAlert(c.Context(), req.AlertType, req.Description, entity.AlertSeverity(req.Severity), req.Component, req.ExecutionID, req.Context)
	if err != nil {
		return helper.BadRequest(c, err.Error())
	}

	alert, err := h.alertService.GetByID(c.Context(), alertID)
	if err != nil {
		return helper.InternalError(c, "Alert created but could not be retrieved")
	}

	if h.wsPublisher != nil {
		h.wsPublisher.PublishAlertCreated(alert)
	}

	return helper.Created(c, dto.AlertFromEntity(alert))
}

// GetByID handles GET /api/v1/alerts/:id
//
//	@Summary		Get alert by ID
//	@Description	Retrieve a specific alert
//	@Tags			alerts
//	@Produce		json
//	@Param			id	path		string	true	"Alert ID"
//	@Success		200	{object}	dto.AlertResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/alerts/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	id, err := entity.ParseID(c.Params("id"))
	if err != nil {
		return helper.BadRequest(c, "Invalid alert ID")
	}

	alert, err := h.alertService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			return helper.NotFound(c, "Alert not found")
		}
		return helper.InternalError(c, "Failed to get alert")
	}

	return helper.Success(c, dto.AlertFromEntity(alert))
}

// List handles GET /api/v1/alerts
//
//	@Summary		List alerts
//	@Description	Retrieve paginated list of alerts with optional filters
//	@Tags			alerts
//	@Produce		json
//	@Param			page		query		int			false	"Page number"		default(1)
//	@Param			page_size	query		int			false	"Items per page"	default(20)
//	@Param			status		query		[]string	false	"Filter by status"
//	@Param			severity	query		[]string	false	"Filter by severity"
//	@Param			component	query		string		false	"Filter by component"
//	@Param			search		query		string		false	"Search in alert type/description"
//	@Success		200			{object}	dto.PaginatedResponse[dto.AlertResponse]
//	@Router			/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var req dto.ListAlertsRequest
	if err := c.QueryParser(&req); err != nil {
		return helper.BadRequest(c, "Invalid query parameters")
	}

	filter := valueobject.NewAlertFilter()

	if len(req.Status) > 0 {
		statuses := make([]entity.AlertStatus, len(req.Status))
		for i, s := range req.Status {
			statuses[i] = entity.AlertStatus(s)
		}
		filter = filter.WithStatuses(statuses...)
	}

	if len(req.Severity) > 0 {
		severities := make([]entity.AlertSeverity, len(req.Severity))
		for i, s := range req.Severity {
			severities[i] = entity.AlertSeverity(s)
		}
		filter = filter.WithSeverities(severities...)
	}

	if req.Component != "" {
		filter = filter.WithComponent(req.Component)
	}

	if req.ExecutionID != "" {
		filter = filter.WithExecutionID(req.ExecutionID)
	}

	if req.Search != "" {
		filter = filter.WithSearch(req.Search)
	}

	filter = applyDateFilter(filter, req.FromDate, req.ToDate)

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	pagination := valueobject.NewPagination(page, pageSize)

	result, err := h.alertService.List(c.Context(), service.ListInput{
		Filter:     filter,
		Pagination: pagination,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list alerts")
		return helper.InternalError(c, "Failed to list alerts")
	}

	response := dto.PaginatedResponse[dto.AlertResponse]{
		Items:       dto.AlertsFromEntities(result.Items),
		TotalItems:  result.TotalItems,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		PageSize:    result.PageSize,
		HasNext:     result.HasNext,
		HasPrevious: result.HasPrevious,
	}

	return helper.Success(c, response)
}

// Acknowledge handles POST /api/v1/alerts/:id/acknowledge
//
//	@Summary		Acknowledge alert
//	@Description	Mark an alert as acknowledged
//	@Tags			alerts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Alert ID"
//	@Param			request	body		dto.AcknowledgeAlertRequest	true	"Acknowledgment details"
//	@Success		200		{object}	dto.AlertResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	alertID, err := entity.ParseID(c.Params("id"))
	if err != nil {
		return helper.BadRequest(c, "Invalid alert ID")
	}

	var req dto.AcknowledgeAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadRequest(c, "Invalid request body")
	}
	if errs := helper.ValidateStruct(req); len(errs) > 0 {
		return helper.ValidationErrors(c, errs)
	}

	alert, err := h.alertService.Acknowledge(c.Context(), alertID, req.Actor, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			return helper.NotFound(c, "Alert not found")
		}
		if errors.Is(err, service.ErrAlertNotAcknowledgeable) {
			return helper.Conflict(c, "Alert cannot be acknowledged from its current status")
		}
		return helper.InternalError(c, "Failed to acknowledge alert")
	}

	if h.wsPublisher != nil {
		h.wsPublisher.PublishAlertAcknowledged(alert)
	}

	return helper.Success(c, dto.AlertFromEntity(alert))
}

// Resolve handles POST /api/v1/alerts/:id/resolve
//
//	@Summary		Resolve alert
//	@Description	Mark an alert as resolved
//	@Tags			alerts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Alert ID"
//	@Param			request	body		dto.ResolveAlertRequest	true	"Resolution details"
//	@Success		200		{object}	dto.AlertResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	alertID, err := entity.ParseID(c.Params("id"))
	if err != nil {
		return helper.BadRequest(c, "Invalid alert ID")
	}

	var req dto.ResolveAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadRequest(c, "Invalid request body")
	}
	if errs := helper.ValidateStruct(req); len(errs) > 0 {
		return helper.ValidationErrors(c, errs)
	}

	alert, err := h.alertService.Resolve(c.Context(), alertID, req.Actor)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			return helper.NotFound(c, "Alert not found")
		}
		if errors.Is(err, service.ErrAlertNotResolvable) {
			return helper.Conflict(c, "Alert cannot be resolved from its current status")
		}
		return helper.InternalError(c, "Failed to resolve alert")
	}

	if h.wsPublisher != nil {
		h.wsPublisher.PublishAlertResolved(alert)
	}

	return helper.Success(c, dto.AlertFromEntity(alert))
}

// GetStatistics handles GET /api/v1/alerts/statistics
//
//	@Summary		Get alert statistics
//	@Description	Retrieve aggregated alert counts by status, severity, and component
//	@Tags			alerts
//	@Produce		json
//	@Success		200	{object}	dto.AlertStatisticsResponse
//	@Router			/alerts/statistics [get]
func (h *AlertHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.alertService.GetStatistics(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get statistics")
		return helper.InternalError(c, "Failed to get statistics")
	}

	response := dto.AlertStatisticsResponse{
		TotalAlerts:        sumCounts(stats.ByStatus),
		ActiveAlerts:       stats.ByStatus[string(entity.AlertStatusNew)] + stats.ByStatus[string(entity.AlertStatusAcknowledged)],
		AcknowledgedAlerts: stats.ByStatus[string(entity.AlertStatusAcknowledged)],
		ResolvedAlerts:     stats.ByStatus[string(entity.AlertStatusResolved)],
		SuppressedAlerts:   stats.ByStatus[string(entity.AlertStatusSuppressed)],
		BySeverity:         stats.BySeverity,
		ByComponent:        stats.ByComponent,
	}

	return helper.Success(c, response)
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

// applyDateFilter applies date range filter if valid dates are provided.
func applyDateFilter(filter valueobject.AlertFilter, fromDate, toDate string) valueobject.AlertFilter {
	if fromDate == "" || toDate == "" {
		return filter
	}

	from, err := time.Parse(time.RFC3339, fromDate)
	if err != nil {
		return filter
	}

	to, err := time.Parse(time.RFC3339, toDate)
	if err != nil {
		return filter
	}

	return filter.WithDateRange(from, to)
}
