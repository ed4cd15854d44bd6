package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
)

// highSeverityPolicy mirrors S3's fixture: levels 1/2/3 at 15/60/240 minutes.
func highSeverityPolicy() map[entity.AlertSeverity]entity.EscalationPolicy {
	return map[entity.AlertSeverity]entity.EscalationPolicy{
		entity.AlertSeverityHigh: {
			Severity:   entity.AlertSeverityHigh,
			Levels:     []int{1, 2, 3},
			Timeframes: map[int]int{1: 15, 2: 60, 3: 240},
		},
	}
}

func newTestEscalationManager(repo *fakeAlertRepository, router *NotificationRouter) *EscalationManager {
	cfg := EscalationManagerConfig{Interval: time.Minute, Policies: highSeverityPolicy()}
	return NewEscalationManager(cfg, repo, router)
}

func newAlertAge(t *testing.T, age time.Duration) *entity.Alert {
	t.Helper()
	alert, err := entity.NewAlert("rule_threshold", "cpu high", entity.AlertSeverityHigh, "comp-1", "exec-1", nil)
	require.NoError(t, err)
	alert.CreatedAt = time.Now().UTC().Add(-age)
	return alert
}

// S3: no escalation before the first level's timeframe elapses.
func TestEscalationManager_RunOnce_NoEscalationBeforeTimeframe(t *testing.T) {
	repo := newFakeAlertRepository()
	router := newTestRouter(false)
	mgr := newTestEscalationManager(repo, router)

	alert := newAlertAge(t, 14*time.Minute)
	_, _ = repo.Create(context.Background(), alert)

	mgr.runOnce(context.Background())

	_, ok := mgr.GetState(alert.ID)
	assert.False(t, ok)
}

// S3: crossing the level-1 timeframe escalates exactly to level 1.
func TestEscalationManager_RunOnce_EscalatesToLevelOne(t *testing.T) {
	repo := newFakeAlertRepository()
	router := newTestRouter(false)
	mgr := newTestEscalationManager(repo, router)

	alert := newAlertAge(t, 16*time.Minute)
	_, _ = repo.Create(context.Background(), alert)

	mgr.runOnce(context.Background())

	state, ok := mgr.GetState(alert.ID)
	require.True(t, ok)
	assert.Equal(t, 1, state.Level)
}

// S3: crossing the level-2 timeframe escalates to level 2, not re-notifying level 1.
func TestEscalationManager_RunOnce_EscalatesToLevelTwo(t *testing.T) {
	repo := newFakeAlertRepository()
	router := newTestRouter(false)
	mgr := newTestEscalationManager(repo, router)

	alert := newAlertAge(t, 61*time.Minute)
	_, _ = repo.Create(context.Background(), alert)

	mgr.runOnce(context.Background())

	state, ok := mgr.GetState(alert.ID)
	require.True(t, ok)
	assert.Equal(t, 2, state.Level)
}

// Property 4: escalation is monotonic — a second tick at the same elapsed
// time never re-escalates or regresses the level.
func TestEscalationManager_RunOnce_NoDuplicateEscalationAtSameLevel(t *testing.T) {
	repo := newFakeAlertRepository()
	router := newTestRouter(false)
	mgr := newTestEscalationManager(repo, router)

	alert := newAlertAge(t, 16*time.Minute)
	_, _ = repo.Create(context.Background(), alert)

	mgr.runOnce(context.Background())
	first, _ := mgr.GetState(alert.ID)

	mgr.runOnce(context.Background())
	second, _ := mgr.GetState(alert.ID)

	assert.Equal(t, first.Level, second.Level)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

// Review fix #3: escalation state must not advance when every channel in
// the fan-out fails — the next tick should retry the same (absent) level.
func TestEscalationManager_RunOnce_DoesNotAdvanceOnTotalDeliveryFailure(t *testing.T) {
	repo := newFakeAlertRepository()
	router := NewNotificationRouter(DefaultRouterConfig(), map[notification.Channel]notification.Notifier{
		notification.ChannelTeams: &fakeNotifier{channel: notification.ChannelTeams, enabled: true, fail: true},
		notification.ChannelEmail: &fakeNotifier{channel: notification.ChannelEmail, enabled: true, fail: true},
	})
	mgr := newTestEscalationManager(repo, router)

	alert := newAlertAge(t, 16*time.Minute)
	_, _ = repo.Create(context.Background(), alert)

	mgr.runOnce(context.Background())

	_, ok := mgr.GetState(alert.ID)
	assert.False(t, ok)
}

// A partial delivery failure across the fan-out must also withhold the
// state advance, per the documented all-succeed requirement.
func TestEscalationManager_RunOnce_DoesNotAdvanceOnPartialDeliveryFailure(t *testing.T) {
	repo := newFakeAlertRepository()
	router := newTestRouter(true) // email fails, teams succeeds
	mgr := newTestEscalationManager(repo, router)

	alert := newAlertAge(t, 16*time.Minute)
	_, _ = repo.Create(context.Background(), alert)

	mgr.runOnce(context.Background())

	_, ok := mgr.GetState(alert.ID)
	assert.False(t, ok)
}

func TestEscalationManager_RunOnce_AcknowledgedAlertIsEvicted(t *testing.T) {
	repo := newFakeAlertRepository()
	router := newTestRouter(false)
	mgr := newTestEscalationManager(repo, router)

	alert := newAlertAge(t, 16*time.Minute)
	_, _ = repo.Create(context.Background(), alert)
	mgr.runOnce(context.Background())
	_, ok := mgr.GetState(alert.ID)
	require.True(t, ok)

	alert.Status = entity.AlertStatusAcknowledged
	_ = repo.Update(context.Background(), alert)
	mgr.runOnce(context.Background())

	_, ok = mgr.GetState(alert.ID)
	assert.False(t, ok)
}
