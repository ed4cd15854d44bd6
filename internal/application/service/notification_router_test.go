package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
)

// fakeNotifier is a hand-rolled Notifier stub: no mock library is part of
// this module's dependency set.
type fakeNotifier struct {
	channel notification.Channel
	enabled bool
	fail    bool
}

func (f *fakeNotifier) Send(ctx context.Context, msg notification.Message) (notification.DeliveryResult, error) {
	if f.fail {
		return notification.DeliveryResult{Channel: f.channel, Success: false, ErrorMessage: "simulated failure"}, nil
	}
	return notification.DeliveryResult{Channel: f.channel, Success: true}, nil
}

func (f *fakeNotifier) Name() string    { return string(f.channel) }
func (f *fakeNotifier) IsEnabled() bool { return f.enabled }

func newTestRouter(failEmail bool) *NotificationRouter {
	notifiers := map[notification.Channel]notification.Notifier{
		notification.ChannelTeams: &fakeNotifier{channel: notification.ChannelTeams, enabled: true},
		notification.ChannelEmail: &fakeNotifier{channel: notification.ChannelEmail, enabled: true, fail: failEmail},
	}
	return NewNotificationRouter(DefaultRouterConfig(), notifiers)
}

// S1: a HIGH-severity alert with no explicit channels and no matching
// routing rule resolves to the severity defaults {TEAMS, EMAIL}.
func TestResolveChannels_SeverityDefaults_High(t *testing.T) {
	router := newTestRouter(false)

	channels := router.ResolveChannels("rule_threshold", "high", nil, nil)

	assert.ElementsMatch(t, []notification.Channel{notification.ChannelTeams, notification.ChannelEmail}, channels)
}

func TestResolveChannels_ExplicitChannelsWin(t *testing.T) {
	router := newTestRouter(false)

	channels := router.ResolveChannels("rule_threshold", "high", nil, []notification.Channel{notification.ChannelTeams})

	assert.Equal(t, []notification.Channel{notification.ChannelTeams}, channels)
}

func TestResolveChannels_AlertTypeOverrideBeatsSeverityDefault(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.AlertTypeOverrides = map[string][]notification.Channel{
		"rule_anomaly": {notification.ChannelEmail},
	}
	router := NewNotificationRouter(cfg, map[notification.Channel]notification.Notifier{
		notification.ChannelEmail: &fakeNotifier{channel: notification.ChannelEmail, enabled: true},
	})

	channels := router.ResolveChannels("rule_anomaly", "high", nil, nil)

	assert.Equal(t, []notification.Channel{notification.ChannelEmail}, channels)
}

// Property 3: a successful dispatch can always be read back through
// GetDeliveryStatus with a consistent per-channel outcome.
func TestDispatch_RoundTripsThroughGetDeliveryStatus(t *testing.T) {
	router := newTestRouter(false)
	msg := notification.Message{NotificationID: "notif-1", Title: "high cpu"}

	results := router.Dispatch(context.Background(), msg, []notification.Channel{notification.ChannelTeams, notification.ChannelEmail})

	require.Len(t, results, 2)
	assert.True(t, results[notification.ChannelTeams].Success)
	assert.True(t, results[notification.ChannelEmail].Success)

	stored, ok := router.GetDeliveryStatus("notif-1")
	require.True(t, ok)
	assert.Equal(t, results, stored)
}

func TestDispatch_PartialFailureIsolatedPerChannel(t *testing.T) {
	router := newTestRouter(true)
	msg := notification.Message{NotificationID: "notif-2", Title: "high cpu"}

	results := router.Dispatch(context.Background(), msg, []notification.Channel{notification.ChannelTeams, notification.ChannelEmail})

	assert.True(t, results[notification.ChannelTeams].Success)
	assert.False(t, results[notification.ChannelEmail].Success)
}

func TestDispatch_UnconfiguredChannelFailsWithoutAffectingOthers(t *testing.T) {
	router := NewNotificationRouter(DefaultRouterConfig(), map[notification.Channel]notification.Notifier{
		notification.ChannelTeams: &fakeNotifier{channel: notification.ChannelTeams, enabled: true},
	})
	msg := notification.Message{NotificationID: "notif-3", Title: "high cpu"}

	results := router.Dispatch(context.Background(), msg, []notification.Channel{notification.ChannelTeams, notification.ChannelEmail})

	assert.True(t, results[notification.ChannelTeams].Success)
	assert.False(t, results[notification.ChannelEmail].Success)
	assert.Equal(t, "channel not configured or disabled", results[notification.ChannelEmail].ErrorMessage)
}

func TestGetDeliveryStatus_UnknownNotificationID(t *testing.T) {
	router := newTestRouter(false)

	_, ok := router.GetDeliveryStatus("never-dispatched")

	assert.False(t, ok)
}
