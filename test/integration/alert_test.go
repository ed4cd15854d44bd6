package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/dto"
)

func TestCreateAlert_Success(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	resp := app.MakeRequest("POST", "/api/v1/alerts", dto.CreateAlertRequest{
		AlertType:   "cpu_high",
		Description: "This is a test alert",
		Severity:    "high",
		Component:   "integration-test",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var alertResp dto.AlertResponse
	err := json.Unmarshal(resp.Body.Bytes(), &alertResp)
	require.NoError(t, err)

	assert.NotEmpty(t, alertResp.ID)
	assert.Equal(t, "cpu_high", alertResp.AlertType)
	assert.Equal(t, "high", alertResp.Severity)
	assert.Equal(t, "new", alertResp.Status)
}

func TestCreateAlert_ValidationError(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	resp := app.MakeRequest("POST", "/api/v1/alerts", dto.CreateAlertRequest{
		AlertType:   "", // Empty alert type
		Description: "This is a test alert",
		Severity:    "high",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestListAlerts_Success(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	// Create a few alerts
	for i := 0; i < 3; i++ {
		app.MakeRequest("POST", "/api/v1/alerts", dto.CreateAlertRequest{
			AlertType:   fmt.Sprintf("test_alert_%d", i),
			Description: "Test message",
			Severity:    "medium",
		})
	}

	// List alerts
	resp := app.MakeRequest("GET", "/api/v1/alerts", nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	var listResp dto.PaginatedResponse[dto.AlertResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &listResp)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(listResp.Items), 3)
}

func TestGetAlert_Success(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	// Create alert
	createResp := app.MakeRequest("POST", "/api/v1/alerts", dto.CreateAlertRequest{
		AlertType:   "test_get_alert",
		Description: "Test message",
		Severity:    "low",
	})

	var created dto.AlertResponse
	_ = json.Unmarshal(createResp.Body.Bytes(), &created)

	// Get alert
	resp := app.MakeRequest("GET", "/api/v1/alerts/"+created.ID, nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	var alertResp dto.AlertResponse
	err := json.Unmarshal(resp.Body.Bytes(), &alertResp)
	require.NoError(t, err)

	assert.Equal(t, created.ID, alertResp.ID)
	assert.Equal(t, "test_get_alert", alertResp.AlertType)
}

func TestGetAlert_NotFound(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	resp := app.MakeRequest("GET", "/api/v1/alerts/00000000-0000-0000-0000-000000000000", nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAcknowledgeAlert_Success(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	// Create alert
	createResp := app.MakeRequest("POST", "/api/v1/alerts", dto.CreateAlertRequest{
		AlertType:   "test_acknowledge_alert",
		Description: "Test message",
		Severity:    "high",
	})

	var created dto.AlertResponse
	_ = json.Unmarshal(createResp.Body.Bytes(), &created)

	// Acknowledge alert
	resp := app.MakeRequest("POST", "/api/v1/alerts/"+created.ID+"/acknowledge", dto.AcknowledgeAlertRequest{
		Actor: "operator1",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var alertResp dto.AlertResponse
	err := json.Unmarshal(resp.Body.Bytes(), &alertResp)
	require.NoError(t, err)

	assert.Equal(t, "acknowledged", alertResp.Status)
	assert.NotNil(t, alertResp.AcknowledgedAt)
}

func TestAcknowledgeAlert_AlreadyAcknowledged(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	createResp := app.MakeRequest("POST", "/api/v1/alerts", dto.CreateAlertRequest{
		AlertType:   "test_acknowledge_conflict",
		Description: "Test message",
		Severity:    "high",
	})

	var created dto.AlertResponse
	_ = json.Unmarshal(createResp.Body.Bytes(), &created)

	app.MakeRequest("POST", "/api/v1/alerts/"+created.ID+"/acknowledge", dto.AcknowledgeAlertRequest{Actor: "operator1"})
	resp := app.MakeRequest("POST", "/api/v1/alerts/"+created.ID+"/acknowledge", dto.AcknowledgeAlertRequest{Actor: "operator2"})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestResolveAlert_Success(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	// Create alert
	createResp := app.MakeRequest("POST", "/api/v1/alerts", dto.CreateAlertRequest{
		AlertType:   "test_resolve_alert",
		Description: "Test message",
		Severity:    "medium",
	})

	var created dto.AlertResponse
	_ = json.Unmarshal(createResp.Body.Bytes(), &created)

	// Resolve alert
	resp := app.MakeRequest("POST", "/api/v1/alerts/"+created.ID+"/resolve", dto.ResolveAlertRequest{
		Actor: "operator1",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var alertResp dto.AlertResponse
	err := json.Unmarshal(resp.Body.Bytes(), &alertResp)
	require.NoError(t, err)

	assert.Equal(t, "resolved", alertResp.Status)
	assert.NotNil(t, alertResp.ResolvedAt)
}

func TestGetStatistics_Success(t *testing.T) {
	app := SetupTestApp(t)
	defer app.Cleanup(t)

	resp := app.MakeRequest("GET", "/api/v1/alerts/statistics", nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	var stats dto.AlertStatisticsResponse
	err := json.Unmarshal(resp.Body.Bytes(), &stats)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, stats.TotalAlerts, int64(0))
}
