package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

func newTestAlertGenerator(alertRepo *fakeAlertRepository, router *NotificationRouter, rules *RuleEngine) *AlertGenerator {
	correlator := NewCorrelator(DefaultCorrelatorConfig(), nil)
	return NewAlertGenerator(DefaultGeneratorConfig(), rules, correlator, router, alertRepo)
}

// Regression for review fix #4: rule-triggered alerts must carry the
// component/execution_id from the caller's context so the Correlator can
// key off them, not always "".
func TestProcessMetrics_PopulatesComponentAndExecutionIDFromContext(t *testing.T) {
	rules := NewRuleEngine()
	rule := mustRule(t, "high cpu", entity.RuleTypeThreshold, entity.ThresholdCondition{
		MetricPath: "cpu.utilization",
		Operator:   entity.OpGreaterThan,
		Value:      80,
	}, entity.AlertSeverityHigh)
	require.NoError(t, rules.AddRule(rule))

	alertRepo := newFakeAlertRepository()
	router := newTestRouter(false)
	generator := newTestAlertGenerator(alertRepo, router, rules)

	ids, err := generator.ProcessMetrics(context.Background(), map[string]interface{}{
		"cpu":          map[string]interface{}{"utilization": 92.0},
		"component":    "ingest-worker",
		"execution_id": "exec-123",
	}, EvaluationContext{})

	require.NoError(t, err)
	require.Len(t, ids, 1)

	stored, err := alertRepo.Get(context.Background(), ids[0])
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ingest-worker", stored.Component)
	assert.Equal(t, "exec-123", stored.ExecutionID)
}

// S2 groundwork: a second rule-triggered alert sharing the same
// execution_id as the first is suppressed as a duplicate of it — only
// reachable because the alerts now carry non-empty Component/ExecutionID.
func TestProcessMetrics_SecondTriggerWithSameExecutionIDIsSuppressed(t *testing.T) {
	rules := NewRuleEngine()
	rule := mustRule(t, "high cpu", entity.RuleTypeThreshold, entity.ThresholdCondition{
		MetricPath: "cpu.utilization",
		Operator:   entity.OpGreaterThan,
		Value:      80,
	}, entity.AlertSeverityHigh)
	require.NoError(t, rules.AddRule(rule))

	alertRepo := newFakeAlertRepository()
	router := newTestRouter(false)
	generator := newTestAlertGenerator(alertRepo, router, rules)

	metrics := map[string]interface{}{
		"cpu":          map[string]interface{}{"utilization": 92.0},
		"component":    "ingest-worker",
		"execution_id": "exec-shared",
	}

	firstIDs, err := generator.ProcessMetrics(context.Background(), metrics, EvaluationContext{})
	require.NoError(t, err)
	require.Len(t, firstIDs, 1)

	secondIDs, err := generator.ProcessMetrics(context.Background(), metrics, EvaluationContext{})
	require.NoError(t, err)
	require.Len(t, secondIDs, 1)

	second, err := alertRepo.Get(context.Background(), secondIDs[0])
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusSuppressed, second.Status)
}
