// Package notification provides notification implementations.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/config"
)

// TeamsNotifier sends notifications to a Microsoft Teams channel via an
// incoming webhook connector, using the legacy MessageCard format.
type TeamsNotifier struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// teamsMessageCard is a Microsoft Teams connector "MessageCard" payload.
type teamsMessageCard struct {
	Type       string             `json:"@type"`
	Context    string             `json:"@context"`
	ThemeColor string             `json:"themeColor"`
	Summary    string             `json:"summary"`
	Title      string             `json:"title"`
	Text       string             `json:"text"`
	Sections   []teamsCardSection `json:"sections,omitempty"`
}

// teamsCardSection holds a MessageCard fact block.
type teamsCardSection struct {
	Facts []teamsCardFact `json:"facts"`
}

// teamsCardFact is one name/value row in a MessageCard fact block.
type teamsCardFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewTeamsNotifier creates a new Teams notifier.
func NewTeamsNotifier(cfg config.TeamsConfig) *TeamsNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TeamsNotifier{
		webhookURL: cfg.WebhookURL,
		enabled:    cfg.Enabled && cfg.WebhookURL != "",
		client:     &http.Client{Timeout: timeout},
	}
}

// Send posts a MessageCard to the configured Teams webhook.
func (n *TeamsNotifier) Send(ctx context.Context, msg notification.Message) (notification.DeliveryResult, error) {
	result := notification.DeliveryResult{Channel: notification.ChannelTeams}

	if !n.enabled {
		log.Debug().Msg("teams notifications disabled, skipping")
		result.Success = false
		result.ErrorMessage = "teams notifier disabled"
		return result, nil
	}

	card := n.buildCard(msg)
	payload, err := json.Marshal(card)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("marshal teams card: %v", err)
		return result, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("build teams request: %v", err)
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("send teams webhook: %v", err)
		return result, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("teams webhook returned non-200 status: %d", resp.StatusCode)
		result.ErrorMessage = err.Error()
		return result, err
	}

	log.Debug().
		Str("alert_id", msg.AlertID).
		Str("severity", msg.Severity).
		Msg("teams notification sent")

	result.Success = true
	return result, nil
}

// Name returns the notifier name.
func (n *TeamsNotifier) Name() string {
	return "teams"
}

// IsEnabled returns whether the notifier is enabled.
func (n *TeamsNotifier) IsEnabled() bool {
	return n.enabled
}

// buildCard builds a Teams MessageCard from a notification message.
func (n *TeamsNotifier) buildCard(msg notification.Message) teamsMessageCard {
	facts := make([]teamsCardFact, 0, 3+len(msg.Fields))
	facts = append(facts, teamsCardFact{Name: "Severity", Value: msg.Severity})

	if msg.AlertID != "" {
		facts = append(facts, teamsCardFact{Name: "Alert ID", Value: msg.AlertID})
	}
	if msg.NotificationID != "" {
		facts = append(facts, teamsCardFact{Name: "Notification ID", Value: msg.NotificationID})
	}
	for key, value := range msg.Fields {
		facts = append(facts, teamsCardFact{Name: key, Value: value})
	}

	return teamsMessageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: severityToColor(msg.Severity),
		Summary:    msg.Title,
		Title:      msg.Title,
		Text:       msg.Text,
		Sections:   []teamsCardSection{{Facts: facts}},
	}
}

// severityToColor maps severity to a MessageCard theme color.
func severityToColor(severity string) string {
	switch severity {
	case notification.SeverityCritical:
		return "dc3545"
	case notification.SeverityHigh:
		return "fd7e14"
	case notification.SeverityMedium:
		return "ffc107"
	case notification.SeverityLow:
		return "17a2b8"
	case notification.SeverityInfo:
		return "6c757d"
	default:
		return "6c757d"
	}
}

// Compile-time interface verification.
var _ notification.Notifier = (*TeamsNotifier)(nil)
