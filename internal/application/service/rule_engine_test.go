package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

func mustRule(t *testing.T, name string, ruleType entity.RuleType, cond entity.Condition, severity entity.AlertSeverity) *entity.Rule {
	t.Helper()
	rule, err := entity.NewRule(name, ruleType, cond, severity)
	require.NoError(t, err)
	return rule
}

// S1: a THRESHOLD rule on cpu.utilization > 80 fires against a 92% reading
// and the result carries the HIGH severity declared on the rule.
func TestRuleEngine_ThresholdRule_Fires(t *testing.T) {
	engine := NewRuleEngine()
	rule := mustRule(t, "high cpu", entity.RuleTypeThreshold, entity.ThresholdCondition{
		MetricPath: "cpu.utilization",
		Operator:   entity.OpGreaterThan,
		Value:      80,
	}, entity.AlertSeverityHigh)
	require.NoError(t, engine.AddRule(rule))

	results := engine.EvaluateMetrics(EvaluationContext{
		Metrics: map[string]interface{}{
			"cpu": map[string]interface{}{"utilization": 92.0},
		},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Triggered)
	assert.Equal(t, entity.AlertSeverityHigh, results[0].Severity)
}

func TestRuleEngine_ThresholdRule_DoesNotFireBelowThreshold(t *testing.T) {
	engine := NewRuleEngine()
	rule := mustRule(t, "high cpu", entity.RuleTypeThreshold, entity.ThresholdCondition{
		MetricPath: "cpu.utilization",
		Operator:   entity.OpGreaterThan,
		Value:      80,
	}, entity.AlertSeverityHigh)
	require.NoError(t, engine.AddRule(rule))

	results := engine.EvaluateMetrics(EvaluationContext{
		Metrics: map[string]interface{}{
			"cpu": map[string]interface{}{"utilization": 40.0},
		},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Triggered)
}

// S4 groundwork: a compound AND short-circuits on the first failing child
// and records how many children it actually evaluated.
func TestEvaluateCompound_AND_ShortCircuits(t *testing.T) {
	failing := entity.ThresholdCondition{MetricPath: "cpu.utilization", Operator: entity.OpGreaterThan, Value: 999}
	passing := entity.ThresholdCondition{MetricPath: "cpu.utilization", Operator: entity.OpGreaterThan, Value: 1}

	cond := entity.CompoundCondition{
		Operator:   entity.CompoundAnd,
		Conditions: []entity.Condition{failing, passing},
	}

	triggered, details, err := evaluateCondition(cond, EvaluationContext{
		Metrics: map[string]interface{}{"cpu": map[string]interface{}{"utilization": 50.0}},
	})

	require.NoError(t, err)
	assert.False(t, triggered)
	assert.Equal(t, 1, details["evaluated_children"])
}

func TestEvaluateCompound_AND_EvaluatesAllWhenAllPass(t *testing.T) {
	a := entity.ThresholdCondition{MetricPath: "cpu.utilization", Operator: entity.OpGreaterThan, Value: 1}
	b := entity.ThresholdCondition{MetricPath: "cpu.utilization", Operator: entity.OpLessThan, Value: 100}

	cond := entity.CompoundCondition{
		Operator:   entity.CompoundAnd,
		Conditions: []entity.Condition{a, b},
	}

	triggered, details, err := evaluateCondition(cond, EvaluationContext{
		Metrics: map[string]interface{}{"cpu": map[string]interface{}{"utilization": 50.0}},
	})

	require.NoError(t, err)
	assert.True(t, triggered)
	assert.Equal(t, 2, details["evaluated_children"])
}

func TestEvaluateCompound_OR_ShortCircuitsOnFirstMatch(t *testing.T) {
	passing := entity.ThresholdCondition{MetricPath: "cpu.utilization", Operator: entity.OpGreaterThan, Value: 1}
	neverReached := entity.ThresholdCondition{MetricPath: "cpu.utilization", Operator: entity.OpGreaterThan, Value: 999}

	cond := entity.CompoundCondition{
		Operator:   entity.CompoundOr,
		Conditions: []entity.Condition{passing, neverReached},
	}

	triggered, details, err := evaluateCondition(cond, EvaluationContext{
		Metrics: map[string]interface{}{"cpu": map[string]interface{}{"utilization": 50.0}},
	})

	require.NoError(t, err)
	assert.True(t, triggered)
	assert.Equal(t, 1, details["evaluated_children"])
}

// Regression for the fixed impossible type-switch case: *entity.AnomalyCondition
// must route through evaluateAnomaly rather than falling into the default
// "unsupported condition type" branch.
func TestEvaluateCondition_AnomalyCondition_Routes(t *testing.T) {
	cond := &entity.AnomalyCondition{MetricPath: "error_rate", MinDataPoints: 2}

	_, _, err := evaluateCondition(cond, EvaluationContext{
		HistoricalSeries: map[string][]float64{"error_rate": {1, 2, 3}},
		Detector:         nil,
	})

	require.NoError(t, err)
}

// Property 5: rule evaluation is pure — identical input evaluated twice
// yields identical triggered/severity/details.
func TestRuleEngine_EvaluationIsPure(t *testing.T) {
	engine := NewRuleEngine()
	rule := mustRule(t, "lag trend", entity.RuleTypeTrend, entity.TrendCondition{
		MetricPath: "queue.lag",
		Window:     5,
		TrendType:  entity.TrendSlope,
		Threshold:  1,
		Direction:  entity.DirectionIncreasing,
	}, entity.AlertSeverityMedium)
	require.NoError(t, engine.AddRule(rule))

	ctx := EvaluationContext{
		Metrics: map[string]interface{}{"queue": map[string]interface{}{"lag": 40.0}},
		HistoricalSeries: map[string][]float64{
			"queue.lag": {10, 15, 20, 25},
		},
	}

	first := engine.EvaluateMetrics(ctx)
	second := engine.EvaluateMetrics(ctx)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Triggered, second[0].Triggered)
	assert.Equal(t, first[0].Severity, second[0].Severity)
	assert.Equal(t, first[0].Details["magnitude"], second[0].Details["magnitude"])
}

func TestRuleEngine_EvaluateEvents_PatternCondition(t *testing.T) {
	engine := NewRuleEngine()
	rule := mustRule(t, "error log pattern", entity.RuleTypePattern, entity.PatternCondition{
		Pattern:   "^ERROR",
		Field:     "message",
		MatchType: entity.MatchRegex,
	}, entity.AlertSeverityLow)
	require.NoError(t, engine.AddRule(rule))

	results := engine.EvaluateEvents(EvaluationContext{
		Event: map[string]interface{}{"message": "ERROR: disk full"},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Triggered)
}

func TestRuleEngine_DisabledRuleIsSkipped(t *testing.T) {
	engine := NewRuleEngine()
	rule := mustRule(t, "high cpu", entity.RuleTypeThreshold, entity.ThresholdCondition{
		MetricPath: "cpu.utilization",
		Operator:   entity.OpGreaterThan,
		Value:      80,
	}, entity.AlertSeverityHigh)
	require.NoError(t, engine.AddRule(rule))
	rule.Enabled = false
	require.NoError(t, engine.UpdateRule(rule))

	results := engine.EvaluateAll(EvaluationContext{
		Metrics: map[string]interface{}{"cpu": map[string]interface{}{"utilization": 92.0}},
	})

	assert.Empty(t, results)
}
