package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/service"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/http/helper"
)

// AlertManagerWebhook represents the webhook payload from AlertManager.
type AlertManagerWebhook struct {
	Version           string              `json:"version"`
	GroupKey          string              `json:"groupKey"`
	TruncatedAlerts   int                 `json:"truncatedAlerts"`
	Status            string              `json:"status"`
	Receiver          string              `json:"receiver"`
	GroupLabels       map[string]string   `json:"groupLabels"`
	CommonLabels      map[string]string   `json:"commonLabels"`
	CommonAnnotations map[string]string   `json:"commonAnnotations"`
	ExternalURL       string              `json:"externalURL"`
	Alerts            []AlertManagerAlert `json:"alerts"`
}

// AlertManagerAlert represents a single alert from AlertManager.
type AlertManagerAlert struct {
	Status       string            `json:"status"`
	Labels       map[string]string `json:"labels"`
	Annotations  map[string]string `json:"annotations"`
	StartsAt     time.Time         `json:"startsAt"`
	EndsAt       time.Time         `json:"endsAt"`
	GeneratorURL string            `json:"generatorURL"`
	Fingerprint  string            `json:"fingerprint"`
}

// WebhookHandler handles webhook endpoints that feed alerts into the
// decision core from outside systems, entering through the Alert
// Generator's direct entry point rather than the rule engine.
type WebhookHandler struct {
	alertGenerator *service.AlertGenerator
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(alertGenerator *service.AlertGenerator) *WebhookHandler {
	return &WebhookHandler{
		alertGenerator: alertGenerator,
	}
}

// AlertManagerWebhookHandler handles POST /api/v1/webhooks/alertmanager
//
//	@Summary		Receive AlertManager webhook
//	@Description	Receives alerts from Prometheus AlertManager
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	AlertManagerWebhook	true	"AlertManager webhook payload"
//	@Success		200
//	@Failure		400	{object}	dto.ErrorResponse
//	@Router			/webhooks/alertmanager [post]
func (h *WebhookHandler) AlertManagerWebhookHandler(c *fiber.Ctx) error {
	var payload AlertManagerWebhook
	if err := c.BodyParser(&payload); err != nil {
		log.Error().Err(err).Msg("Failed to parse AlertManager webhook")
		return helper.BadRequest(c, "Invalid webhook payload")
	}

	log.Info().
		Str("status", payload.Status).
		Str("receiver", payload.Receiver).
		Int("alert_count", len(payload.Alerts)).
		Msg("Received AlertManager webhook")

	for _, alert := range payload.Alerts {
		if err := h.processAlert(c, alert); err != nil {
			log.Error().Err(err).Str("fingerprint", alert.Fingerprint).Msg("Failed to process alert")
		}
	}

	return helper.Success(c, fiber.Map{"status": "received"})
}

// processAlert processes a single AlertManager alert.
func (h *WebhookHandler) processAlert(c *fiber.Ctx, alert AlertManagerAlert) error {
	if alert.Status != "firing" {
		log.Info().
			Str("alertname", alert.Labels["alertname"]).
			Str("status", alert.Status).
			Str("fingerprint", alert.Fingerprint).
			Msg("Alert resolved in AlertManager")
		return nil
	}

	severity := h.mapSeverity(alert.Labels["severity"])

	alertType := alert.Labels["alertname"]
	if alertType == "" {
		alertType = "alertmanager_alert"
	}

	description := alert.Annotations["description"]
	if description == "" {
		description = alert.Annotations["summary"]
	}
	if description == "" {
		description = "Alert triggered from Prometheus"
	}

	component := "alertmanager"
	if instance, ok := alert.Labels["instance"]; ok {
		component = instance
	}

	alertCtx := map[string]interface{}{
		"fingerprint":   alert.Fingerprint,
		"generator_url": alert.GeneratorURL,
		"labels":        alert.Labels,
		"annotations":   alert.Annotations,
		"starts_at":     alert.StartsAt,
	}

	alertID, err := h.alertGenerator.GenerateAlert(c.Context(), alertType, description, severity, component, alert.Fingerprint, alertCtx)
	if err != nil {
		return err
	}

	log.Info().
		Str("alert_id", alertID.String()).
		Str("alertname", alertType).
		Str("severity", string(severity)).
		Str("fingerprint", alert.Fingerprint).
		Msg("Created alert from AlertManager")

	return nil
}

// mapSeverity maps AlertManager severity to entity severity.
func (h *WebhookHandler) mapSeverity(severity string) entity.AlertSeverity {
	switch severity {
	case "critical":
		return entity.AlertSeverityCritical
	case "warning", "high":
		return entity.AlertSeverityHigh
	case "info", "medium":
		return entity.AlertSeverityMedium
	default:
		return entity.AlertSeverityLow
	}
}
