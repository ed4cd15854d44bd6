package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

func TestNewAlert_Success(t *testing.T) {
	alert, err := entity.NewAlert("cpu_high", "CPU usage at 95%", entity.AlertSeverityCritical, "server-01", "exec-1", map[string]interface{}{"cpu_percent": 95.0})

	require.NoError(t, err)
	assert.NotNil(t, alert)
	assert.NotEqual(t, entity.ID{}, alert.ID)
	assert.Equal(t, "cpu_high", alert.AlertType)
	assert.Equal(t, "CPU usage at 95%", alert.Description)
	assert.Equal(t, entity.AlertSeverityCritical, alert.Severity)
	assert.Equal(t, entity.AlertStatusNew, alert.Status)
	assert.Equal(t, "server-01", alert.Component)
	assert.Equal(t, "exec-1", alert.ExecutionID)
	assert.Equal(t, 95.0, alert.Context["cpu_percent"])
}

func TestNewAlert_NilContext(t *testing.T) {
	alert, err := entity.NewAlert("cpu_high", "CPU usage at 95%", entity.AlertSeverityCritical, "server-01", "", nil)

	require.NoError(t, err)
	assert.NotNil(t, alert.Context)
}

func TestNewAlert_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name        string
		alertType   string
		description string
		severity    entity.AlertSeverity
		expectedErr error
	}{
		{
			name:        "empty alert type",
			alertType:   "",
			description: "message",
			severity:    entity.AlertSeverityMedium,
			expectedErr: entity.ErrAlertTypeRequired,
		},
		{
			name:        "empty description",
			alertType:   "cpu_high",
			description: "",
			severity:    entity.AlertSeverityMedium,
			expectedErr: entity.ErrAlertDescRequired,
		},
		{
			name:        "invalid severity",
			alertType:   "cpu_high",
			description: "message",
			severity:    entity.AlertSeverity("invalid"),
			expectedErr: entity.ErrAlertInvalidSeverity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alert, err := entity.NewAlert(tc.alertType, tc.description, tc.severity, "server-01", "", nil)

			assert.Nil(t, alert)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestAlertSeverity_Priority(t *testing.T) {
	assert.Equal(t, 1, entity.AlertSeverityCritical.Priority())
	assert.Equal(t, 2, entity.AlertSeverityHigh.Priority())
	assert.Equal(t, 3, entity.AlertSeverityMedium.Priority())
	assert.Equal(t, 4, entity.AlertSeverityLow.Priority())
	assert.Equal(t, 5, entity.AlertSeverityInfo.Priority())

	assert.Less(t, entity.AlertSeverityCritical.Priority(), entity.AlertSeverityHigh.Priority())
}

func TestAlert_Acknowledge(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)

	ok := alert.Acknowledge("operator1", "investigating")

	assert.True(t, ok)
	assert.Equal(t, entity.AlertStatusAcknowledged, alert.Status)
	require.NotNil(t, alert.Acknowledgment)
	assert.Equal(t, "operator1", alert.Acknowledgment.Actor)
	assert.Equal(t, "investigating", alert.Acknowledgment.Notes)
	assert.NotNil(t, alert.AcknowledgedAt)
}

func TestAlert_Acknowledge_AlreadyAcknowledged(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)
	alert.Acknowledge("operator1", "")

	ok := alert.Acknowledge("operator2", "")

	assert.False(t, ok)
	assert.Equal(t, "operator1", alert.Acknowledgment.Actor)
}

func TestAlert_Acknowledge_AlreadyResolved(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)
	alert.Resolve("operator1")

	ok := alert.Acknowledge("operator2", "")

	assert.False(t, ok)
}

func TestAlert_Resolve(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)

	ok := alert.Resolve("operator1")

	assert.True(t, ok)
	assert.Equal(t, entity.AlertStatusResolved, alert.Status)
	require.NotNil(t, alert.Resolution)
	assert.Equal(t, "operator1", alert.Resolution.Actor)
	assert.NotNil(t, alert.ResolvedAt)
}

func TestAlert_Resolve_FromAcknowledged(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)
	alert.Acknowledge("operator1", "")

	ok := alert.Resolve("operator1")

	assert.True(t, ok)
	assert.Equal(t, entity.AlertStatusResolved, alert.Status)
}

func TestAlert_Resolve_AlreadyResolved(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)
	alert.Resolve("operator1")

	ok := alert.Resolve("operator2")

	assert.False(t, ok)
}

func TestAlert_Suppress(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)

	ok := alert.Suppress("rate limited")

	assert.True(t, ok)
	assert.Equal(t, entity.AlertStatusSuppressed, alert.Status)
	require.NotNil(t, alert.Resolution)
	assert.Equal(t, "rate limited", alert.Resolution.Reason)
	assert.Equal(t, "rate limited", alert.Context["suppression"])
}

func TestAlert_Suppress_AlreadyTerminal(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)
	alert.Resolve("operator1")

	ok := alert.Suppress("rate limited")

	assert.False(t, ok)
}

func TestAlert_AddRelatedAlert(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)
	related := entity.NewID()

	alert.AddRelatedAlert(related)

	assert.Contains(t, alert.RelatedAlerts, related)
}

func TestAlert_AddNotification(t *testing.T) {
	alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)

	alert.AddNotification(entity.NotificationAttempt{
		Channel:   entity.ChannelTeams,
		Recipient: "#alerts",
		Success:   true,
	})

	require.Len(t, alert.Notifications, 1)
	assert.Equal(t, entity.ChannelTeams, alert.Notifications[0].Channel)
}

func TestAlert_IsActive(t *testing.T) {
	testCases := []struct {
		name     string
		status   entity.AlertStatus
		expected bool
	}{
		{"new", entity.AlertStatusNew, true},
		{"acknowledged", entity.AlertStatusAcknowledged, true},
		{"resolved", entity.AlertStatusResolved, false},
		{"suppressed", entity.AlertStatusSuppressed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alert, _ := entity.NewAlert("cpu_high", "message", entity.AlertSeverityMedium, "server-01", "", nil)

			switch tc.status {
			case entity.AlertStatusAcknowledged:
				alert.Acknowledge("operator1", "")
			case entity.AlertStatusResolved:
				alert.Resolve("operator1")
			case entity.AlertStatusSuppressed:
				alert.Suppress("reason")
			}

			assert.Equal(t, tc.expected, alert.IsActive())
		})
	}
}

func TestAlert_NeedsImmediateAttention(t *testing.T) {
	testCases := []struct {
		name     string
		severity entity.AlertSeverity
		status   entity.AlertStatus
		expected bool
	}{
		{"critical new", entity.AlertSeverityCritical, entity.AlertStatusNew, true},
		{"high new", entity.AlertSeverityHigh, entity.AlertStatusNew, true},
		{"medium new", entity.AlertSeverityMedium, entity.AlertStatusNew, false},
		{"critical acknowledged", entity.AlertSeverityCritical, entity.AlertStatusAcknowledged, false},
		{"critical resolved", entity.AlertSeverityCritical, entity.AlertStatusResolved, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alert, _ := entity.NewAlert("cpu_high", "message", tc.severity, "server-01", "", nil)

			switch tc.status {
			case entity.AlertStatusAcknowledged:
				alert.Acknowledge("operator1", "")
			case entity.AlertStatusResolved:
				alert.Resolve("operator1")
			}

			assert.Equal(t, tc.expected, alert.NeedsImmediateAttention())
		})
	}
}
