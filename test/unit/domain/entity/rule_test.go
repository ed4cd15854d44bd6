package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

func TestNewRule_Success(t *testing.T) {
	condition := entity.ThresholdCondition{
		MetricPath: "cpu.usage",
		Operator:   entity.OpGreaterThan,
		Value:      90,
	}

	rule, err := entity.NewRule("High CPU", entity.RuleTypeThreshold, condition, entity.AlertSeverityHigh)

	require.NoError(t, err)
	assert.NotNil(t, rule)
	assert.Equal(t, "High CPU", rule.Name)
	assert.Equal(t, entity.AlertSeverityHigh, rule.Severity)
	assert.True(t, rule.Enabled)
	assert.NotEmpty(t, rule.ID)
}

func TestNewRule_ValidationErrors(t *testing.T) {
	validThreshold := entity.ThresholdCondition{MetricPath: "cpu", Operator: entity.OpGreaterThan, Value: 90}

	testCases := []struct {
		name      string
		ruleName  string
		ruleType  entity.RuleType
		condition entity.Condition
		severity  entity.AlertSeverity
	}{
		{
			name:      "empty name",
			ruleName:  "",
			ruleType:  entity.RuleTypeThreshold,
			condition: validThreshold,
			severity:  entity.AlertSeverityHigh,
		},
		{
			name:      "invalid rule type",
			ruleName:  "Test Rule",
			ruleType:  entity.RuleType("bogus"),
			condition: validThreshold,
			severity:  entity.AlertSeverityHigh,
		},
		{
			name:      "invalid severity",
			ruleName:  "Test Rule",
			ruleType:  entity.RuleTypeThreshold,
			condition: validThreshold,
			severity:  entity.AlertSeverity("invalid"),
		},
		{
			name:      "condition type mismatch",
			ruleName:  "Test Rule",
			ruleType:  entity.RuleTypeTrend,
			condition: validThreshold,
			severity:  entity.AlertSeverityHigh,
		},
		{
			name:     "invalid threshold condition",
			ruleName: "Test Rule",
			ruleType: entity.RuleTypeThreshold,
			condition: entity.ThresholdCondition{
				MetricPath: "",
				Operator:   entity.OpGreaterThan,
				Value:      90,
			},
			severity: entity.AlertSeverityHigh,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := entity.NewRule(tc.ruleName, tc.ruleType, tc.condition, tc.severity)

			assert.Nil(t, rule)
			assert.Error(t, err)
		})
	}
}

func TestThresholdCondition_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		condition entity.ThresholdCondition
		wantErr   bool
	}{
		{"valid", entity.ThresholdCondition{MetricPath: "cpu", Operator: entity.OpGreaterEqual, Value: 1}, false},
		{"missing metric path", entity.ThresholdCondition{MetricPath: "", Operator: entity.OpEqual, Value: 1}, true},
		{"invalid operator", entity.ThresholdCondition{MetricPath: "cpu", Operator: "~=", Value: 1}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.condition.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrendCondition_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		condition entity.TrendCondition
		wantErr   bool
	}{
		{
			name:      "valid with direction",
			condition: entity.TrendCondition{MetricPath: "lag", Window: 10, TrendType: entity.TrendSlope, Threshold: 1, Direction: entity.DirectionIncreasing},
			wantErr:   false,
		},
		{
			name:      "valid without direction",
			condition: entity.TrendCondition{MetricPath: "lag", Window: 10, TrendType: entity.TrendPercentChange, Threshold: 1},
			wantErr:   false,
		},
		{
			name:      "non-positive window",
			condition: entity.TrendCondition{MetricPath: "lag", Window: 0, TrendType: entity.TrendSlope, Threshold: 1},
			wantErr:   true,
		},
		{
			name:      "invalid trend type",
			condition: entity.TrendCondition{MetricPath: "lag", Window: 10, TrendType: "bogus", Threshold: 1},
			wantErr:   true,
		},
		{
			name:      "invalid direction",
			condition: entity.TrendCondition{MetricPath: "lag", Window: 10, TrendType: entity.TrendSlope, Threshold: 1, Direction: "sideways"},
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.condition.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrendCondition_EffectiveDirection(t *testing.T) {
	withDirection := entity.TrendCondition{Direction: entity.DirectionDecreasing}
	assert.Equal(t, entity.DirectionDecreasing, withDirection.EffectiveDirection())

	withoutDirection := entity.TrendCondition{}
	assert.Equal(t, entity.DirectionAny, withoutDirection.EffectiveDirection())
}

func TestAnomalyCondition_Validate_FillsDefaults(t *testing.T) {
	condition := &entity.AnomalyCondition{MetricPath: "error_rate"}

	err := condition.Validate()

	require.NoError(t, err)
	assert.Equal(t, 2.0, condition.Sensitivity)
	assert.Equal(t, "z_score", condition.Algorithm)
	assert.Equal(t, 5, condition.MinDataPoints)
}

func TestAnomalyCondition_Validate_RequiresMetricPath(t *testing.T) {
	condition := &entity.AnomalyCondition{}

	err := condition.Validate()

	assert.Error(t, err)
}

func TestCompoundCondition_Validate(t *testing.T) {
	leaf := entity.ThresholdCondition{MetricPath: "cpu", Operator: entity.OpGreaterThan, Value: 90}

	testCases := []struct {
		name      string
		condition entity.CompoundCondition
		wantErr   bool
	}{
		{
			name:      "AND with children",
			condition: entity.CompoundCondition{Operator: entity.CompoundAnd, Conditions: []entity.Condition{leaf, leaf}},
			wantErr:   false,
		},
		{
			name:      "AND with no children",
			condition: entity.CompoundCondition{Operator: entity.CompoundAnd, Conditions: nil},
			wantErr:   true,
		},
		{
			name:      "NOT with exactly one child",
			condition: entity.CompoundCondition{Operator: entity.CompoundNot, Conditions: []entity.Condition{leaf}},
			wantErr:   false,
		},
		{
			name:      "NOT with two children",
			condition: entity.CompoundCondition{Operator: entity.CompoundNot, Conditions: []entity.Condition{leaf, leaf}},
			wantErr:   true,
		},
		{
			name:      "invalid operator",
			condition: entity.CompoundCondition{Operator: "XOR", Conditions: []entity.Condition{leaf}},
			wantErr:   true,
		},
		{
			name: "invalid nested condition",
			condition: entity.CompoundCondition{
				Operator:   entity.CompoundAnd,
				Conditions: []entity.Condition{entity.ThresholdCondition{MetricPath: "", Operator: entity.OpEqual, Value: 1}},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.condition.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventCondition_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		condition entity.EventCondition
		wantErr   bool
	}{
		{
			name:      "valid without properties",
			condition: entity.EventCondition{EventType: "deploy.finished"},
			wantErr:   false,
		},
		{
			name: "valid with properties",
			condition: entity.EventCondition{
				EventType:  "deploy.finished",
				Properties: []entity.EventPropertyCheck{{Field: "status", Operator: entity.OpEqual, Value: "failed"}},
			},
			wantErr: false,
		},
		{
			name:      "missing event type",
			condition: entity.EventCondition{},
			wantErr:   true,
		},
		{
			name: "property missing field",
			condition: entity.EventCondition{
				EventType:  "deploy.finished",
				Properties: []entity.EventPropertyCheck{{Field: "", Operator: entity.OpEqual, Value: "failed"}},
			},
			wantErr: true,
		},
		{
			name: "property invalid operator",
			condition: entity.EventCondition{
				EventType:  "deploy.finished",
				Properties: []entity.EventPropertyCheck{{Field: "status", Operator: "~=", Value: "failed"}},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.condition.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatternCondition_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		condition entity.PatternCondition
		wantErr   bool
	}{
		{"valid regex", entity.PatternCondition{Pattern: "^ERROR", Field: "message", MatchType: entity.MatchRegex}, false},
		{"missing pattern", entity.PatternCondition{Pattern: "", Field: "message", MatchType: entity.MatchContains}, true},
		{"missing field", entity.PatternCondition{Pattern: "x", Field: "", MatchType: entity.MatchContains}, true},
		{"invalid match type", entity.PatternCondition{Pattern: "x", Field: "message", MatchType: "fuzzy"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.condition.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRule_IsMetricRuleAndIsEventRule(t *testing.T) {
	testCases := []struct {
		ruleType      entity.RuleType
		wantMetric    bool
		wantEvent     bool
	}{
		{entity.RuleTypeThreshold, true, false},
		{entity.RuleTypeTrend, true, false},
		{entity.RuleTypeAnomaly, true, false},
		{entity.RuleTypeCompound, true, false},
		{entity.RuleTypeEvent, false, true},
		{entity.RuleTypePattern, false, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.ruleType), func(t *testing.T) {
			rule := entity.Rule{Type: tc.ruleType}
			assert.Equal(t, tc.wantMetric, rule.IsMetricRule())
			assert.Equal(t, tc.wantEvent, rule.IsEventRule())
		})
	}
}

func TestRule_RuleGroup(t *testing.T) {
	withGroup := entity.Rule{Metadata: map[string]interface{}{"group": "infra"}}
	group, ok := withGroup.RuleGroup()
	assert.True(t, ok)
	assert.Equal(t, "infra", group)

	withoutGroup := entity.Rule{}
	_, ok = withoutGroup.RuleGroup()
	assert.False(t, ok)
}
