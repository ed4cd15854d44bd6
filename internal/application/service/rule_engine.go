package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
)

// AnomalyDetector is the consumed boundary interface for anomaly detection.
// Stateless from the caller's perspective; the detector may maintain its
// own caches.
type AnomalyDetector interface {
	DetectAnomaly(series []float64, algorithm string, sensitivity float64, metricName string) bool
}

// EvaluationContext carries the data a rule batch is evaluated against: the
// current metrics/event snapshot, an optional historical series cache (for
// TREND/ANOMALY), and the anomaly detector handle.
type EvaluationContext struct {
	Metrics         map[string]interface{}
	Event           map[string]interface{}
	HistoricalSeries map[string][]float64
	Detector        AnomalyDetector
	Extra           map[string]interface{}
}

// RuleEngine evaluates rules of the six supported families. It is stateless
// between calls and safe for concurrent invocation provided rule mutations
// are serialized through its own lock, as they are here.
type RuleEngine struct {
	mu     sync.RWMutex
	rules  map[entity.ID]*entity.Rule
	groups map[string][]entity.ID
}

// NewRuleEngine constructs an empty engine. Rules are loaded via AddRule,
// typically once at startup from config.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{
		rules:  make(map[entity.ID]*entity.Rule),
		groups: make(map[string][]entity.ID),
	}
}

// AddRule validates and registers a rule.
func (e *RuleEngine) AddRule(rule *entity.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[rule.ID] = rule
	if group, ok := rule.RuleGroup(); ok {
		e.groups[group] = append(e.groups[group], rule.ID)
	}
	return nil
}

// UpdateRule replaces an existing rule in place.
func (e *RuleEngine) UpdateRule(rule *entity.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rules[rule.ID]; !ok {
		return fmt.Errorf("rule %s not found", rule.ID)
	}
	e.rules[rule.ID] = rule
	return nil
}

// DeleteRule removes a rule by ID.
func (e *RuleEngine) DeleteRule(id entity.ID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rules, id)
}

// ExportRules serializes the active rule set, for the admin surface.
func (e *RuleEngine) ExportRules() []*entity.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*entity.Rule, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, r)
	}
	return out
}

// ImportRules replaces the active rule set wholesale, validating every rule
// before committing any of them.
func (e *RuleEngine) ImportRules(rules []*entity.Rule) error {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %s invalid: %w", r.Name, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = make(map[entity.ID]*entity.Rule, len(rules))
	e.groups = make(map[string][]entity.ID)
	for _, r := range rules {
		e.rules[r.ID] = r
		if group, ok := r.RuleGroup(); ok {
			e.groups[group] = append(e.groups[group], r.ID)
		}
	}
	return nil
}

func (e *RuleEngine) snapshot(ids []entity.ID) []*entity.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if ids == nil {
		out := make([]*entity.Rule, 0, len(e.rules))
		for _, r := range e.rules {
			if r.Enabled {
				out = append(out, r)
			}
		}
		return out
	}

	out := make([]*entity.Rule, 0, len(ids))
	for _, id := range ids {
		if r, ok := e.rules[id]; ok && r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

func (e *RuleEngine) groupSnapshot(group string) []*entity.Rule {
	e.mu.RLock()
	ids := append([]entity.ID(nil), e.groups[group]...)
	e.mu.RUnlock()
	return e.snapshot(ids)
}

// EvaluateAll evaluates every enabled rule against ctx.
func (e *RuleEngine) EvaluateAll(ctx EvaluationContext) []entity.RuleEvaluationResult {
	return e.evaluateRules(e.snapshot(nil), ctx)
}

// EvaluateGroup evaluates every enabled rule in the named group.
func (e *RuleEngine) EvaluateGroup(group string, ctx EvaluationContext) []entity.RuleEvaluationResult {
	return e.evaluateRules(e.groupSnapshot(group), ctx)
}

// EvaluateByIDs evaluates exactly the named rules, in order, skipping any
// that are unknown or disabled.
func (e *RuleEngine) EvaluateByIDs(ids []entity.ID, ctx EvaluationContext) []entity.RuleEvaluationResult {
	return e.evaluateRules(e.snapshot(ids), ctx)
}

// EvaluateMetrics evaluates only the metric-oriented families
// (THRESHOLD/TREND/ANOMALY/COMPOUND) against ctx.
func (e *RuleEngine) EvaluateMetrics(ctx EvaluationContext) []entity.RuleEvaluationResult {
	all := e.snapshot(nil)
	filtered := make([]*entity.Rule, 0, len(all))
	for _, r := range all {
		if r.IsMetricRule() {
			filtered = append(filtered, r)
		}
	}
	return e.evaluateRules(filtered, ctx)
}

// EvaluateEvents evaluates only the event-oriented families (EVENT/PATTERN)
// against ctx.
func (e *RuleEngine) EvaluateEvents(ctx EvaluationContext) []entity.RuleEvaluationResult {
	all := e.snapshot(nil)
	filtered := make([]*entity.Rule, 0, len(all))
	for _, r := range all {
		if r.IsEventRule() {
			filtered = append(filtered, r)
		}
	}
	return e.evaluateRules(filtered, ctx)
}

// evaluateRules evaluates every rule, catching any panic/error per rule so a
// single bad rule never poisons the batch.
func (e *RuleEngine) evaluateRules(rules []*entity.Rule, ctx EvaluationContext) []entity.RuleEvaluationResult {
	results := make([]entity.RuleEvaluationResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, e.evaluateOne(rule, ctx))
	}
	return results
}

func (e *RuleEngine) evaluateOne(rule *entity.Rule, ctx EvaluationContext) (result entity.RuleEvaluationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = entity.ErrorResult(rule, fmt.Errorf("panic: %v", r))
		}
	}()

	triggered, details, err := evaluateCondition(rule.Condition, ctx)
	if err != nil {
		return entity.ErrorResult(rule, err)
	}
	return entity.NewRuleEvaluationResult(rule, triggered, details, ctx.Metrics)
}

func evaluateCondition(cond entity.Condition, ctx EvaluationContext) (bool, map[string]interface{}, error) {
	switch c := cond.(type) {
	case entity.ThresholdCondition:
		return evaluateThreshold(c, ctx)
	case entity.TrendCondition:
		return evaluateTrend(c, ctx)
	case *entity.AnomalyCondition:
		return evaluateAnomaly(*c, ctx)
	case entity.CompoundCondition:
		return evaluateCompound(c, ctx)
	case entity.EventCondition:
		return evaluateEvent(c, ctx)
	case entity.PatternCondition:
		return evaluatePattern(c, ctx)
	default:
		return false, nil, fmt.Errorf("unsupported condition type %T", cond)
	}
}

// resolveMetricPath performs a dot-notation walk of nested mappings; any
// missing hop returns (nil, false) rather than an error.
func resolveMetricPath(data map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func compare(value float64, op entity.ComparisonOperator, threshold float64) bool {
	switch op {
	case entity.OpEqual:
		return value == threshold
	case entity.OpNotEqual:
		return value != threshold
	case entity.OpGreaterThan:
		return value > threshold
	case entity.OpGreaterEqual:
		return value >= threshold
	case entity.OpLessThan:
		return value < threshold
	case entity.OpLessEqual:
		return value <= threshold
	default:
		return false
	}
}

func evaluateThreshold(c entity.ThresholdCondition, ctx EvaluationContext) (bool, map[string]interface{}, error) {
	raw, found := resolveMetricPath(ctx.Metrics, c.MetricPath)
	if !found {
		return false, map[string]interface{}{"reason": "metric_path not found", "metric_path": c.MetricPath}, nil
	}
	value, ok := toFloat(raw)
	if !ok {
		return false, map[string]interface{}{"reason": "metric value not numeric"}, nil
	}
	triggered := compare(value, c.Operator, c.Value)
	return triggered, map[string]interface{}{"value": value, "threshold": c.Value, "operator": c.Operator}, nil
}

func seriesFor(c entity.TrendCondition, ctx EvaluationContext) []float64 {
	series := ctx.HistoricalSeries[c.MetricPath]
	if raw, found := resolveMetricPath(ctx.Metrics, c.MetricPath); found {
		if v, ok := toFloat(raw); ok {
			series = append(append([]float64(nil), series...), v)
		}
	}
	if c.Window > 0 && len(series) > c.Window {
		series = series[len(series)-c.Window:]
	}
	return series
}

func evaluateTrend(c entity.TrendCondition, ctx EvaluationContext) (bool, map[string]interface{}, error) {
	series := seriesFor(c, ctx)
	if len(series) < 2 {
		return false, map[string]interface{}{"reason": "insufficient data points"}, nil
	}

	var magnitude float64
	switch c.TrendType {
	case entity.TrendSlope:
		magnitude = slope(series)
	case entity.TrendPercentChange:
		magnitude = percentChange(series[0], series[len(series)-1])
	case entity.TrendAbsoluteChange:
		magnitude = series[len(series)-1] - series[0]
	}

	direction := c.EffectiveDirection()
	var directionalMagnitude float64
	switch direction {
	case entity.DirectionIncreasing:
		if magnitude < 0 {
			return false, map[string]interface{}{"magnitude": magnitude, "direction": direction}, nil
		}
		directionalMagnitude = magnitude
	case entity.DirectionDecreasing:
		if magnitude > 0 {
			return false, map[string]interface{}{"magnitude": magnitude, "direction": direction}, nil
		}
		directionalMagnitude = -magnitude
	default:
		directionalMagnitude = math.Abs(magnitude)
	}

	triggered := directionalMagnitude >= c.Threshold
	return triggered, map[string]interface{}{"magnitude": magnitude, "threshold": c.Threshold, "direction": direction}, nil
}

// slope computes the ordinary least squares slope over an evenly-spaced
// series, guarding the degenerate Σ(xᵢ-x̄)²=0 case (a single distinct x) to
// slope 0 rather than dividing by zero.
func slope(series []float64) float64 {
	n := float64(len(series))
	var sumX, sumY float64
	for i, y := range series {
		sumX += float64(i)
		sumY += y
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for i, y := range series {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// percentChange returns ±100 if start is 0 and end is non-zero (undefined
// percentage otherwise treated as a full swing), 0 if both are 0.
func percentChange(start, end float64) float64 {
	if start == 0 {
		if end != 0 {
			if end > 0 {
				return 100
			}
			return -100
		}
		return 0
	}
	return (end - start) / math.Abs(start) * 100
}

func evaluateAnomaly(c entity.AnomalyCondition, ctx EvaluationContext) (bool, map[string]interface{}, error) {
	_ = c.Validate()

	series := append([]float64(nil), ctx.HistoricalSeries[c.MetricPath]...)
	if raw, found := resolveMetricPath(ctx.Metrics, c.MetricPath); found {
		if v, ok := toFloat(raw); ok {
			series = append(series, v)
		}
	}

	if len(series) < c.MinDataPoints {
		return false, map[string]interface{}{"reason": "insufficient data points", "have": len(series), "need": c.MinDataPoints}, nil
	}

	if ctx.Detector == nil {
		return false, map[string]interface{}{"reason": "no anomaly detector configured"}, nil
	}

	triggered := ctx.Detector.DetectAnomaly(series, c.Algorithm, c.Sensitivity, c.MetricPath)
	return triggered, map[string]interface{}{"algorithm": c.Algorithm, "sensitivity": c.Sensitivity}, nil
}

func evaluateCompound(c entity.CompoundCondition, ctx EvaluationContext) (bool, map[string]interface{}, error) {
	evaluated := 0
	details := map[string]interface{}{"operator": c.Operator}

	switch c.Operator {
	case entity.CompoundAnd:
		for _, child := range c.Conditions {
			evaluated++
			triggered, _, err := evaluateCondition(child, ctx)
			if err != nil {
				details["evaluated_children"] = evaluated
				return false, details, err
			}
			if !triggered {
				details["evaluated_children"] = evaluated
				return false, details, nil
			}
		}
		details["evaluated_children"] = evaluated
		return true, details, nil

	case entity.CompoundOr:
		for _, child := range c.Conditions {
			evaluated++
			triggered, _, err := evaluateCondition(child, ctx)
			if err != nil {
				details["evaluated_children"] = evaluated
				return false, details, err
			}
			if triggered {
				details["evaluated_children"] = evaluated
				return true, details, nil
			}
		}
		details["evaluated_children"] = evaluated
		return false, details, nil

	case entity.CompoundNot:
		triggered, _, err := evaluateCondition(c.Conditions[0], ctx)
		details["evaluated_children"] = 1
		if err != nil {
			return false, details, err
		}
		return !triggered, details, nil

	default:
		return false, details, fmt.Errorf("unsupported compound operator %q", c.Operator)
	}
}

func evaluateEvent(c entity.EventCondition, ctx EvaluationContext) (bool, map[string]interface{}, error) {
	if ctx.Event == nil {
		return false, map[string]interface{}{"reason": "no event in context"}, nil
	}

	eventType, _ := ctx.Event["type"].(string)
	if eventType != c.EventType {
		return false, map[string]interface{}{"reason": "event type mismatch"}, nil
	}

	if c.EventSource != "" {
		source, _ := ctx.Event["source"].(string)
		if source != c.EventSource {
			return false, map[string]interface{}{"reason": "event source mismatch"}, nil
		}
	}

	for _, p := range c.Properties {
		raw, found := resolveMetricPath(ctx.Event, p.Field)
		if !found {
			return false, map[string]interface{}{"reason": "property not found", "field": p.Field}, nil
		}
		if !propertyMatches(raw, p.Operator, p.Value) {
			return false, map[string]interface{}{"reason": "property mismatch", "field": p.Field}, nil
		}
	}

	return true, map[string]interface{}{"event_type": c.EventType}, nil
}

func propertyMatches(actual interface{}, op entity.ComparisonOperator, expected interface{}) bool {
	actualF, actualOK := toFloat(actual)
	expectedF, expectedOK := toFloat(expected)
	if actualOK && expectedOK {
		return compare(actualF, op, expectedF)
	}
	switch op {
	case entity.OpEqual:
		return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
	case entity.OpNotEqual:
		return fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", expected)
	default:
		return false
	}
}

func evaluatePattern(c entity.PatternCondition, ctx EvaluationContext) (bool, map[string]interface{}, error) {
	source := ctx.Metrics
	if ctx.Event != nil {
		source = ctx.Event
	}

	raw, found := resolveMetricPath(source, c.Field)
	if !found {
		return false, map[string]interface{}{"reason": "field not found"}, nil
	}
	target := fmt.Sprintf("%v", raw)

	switch c.MatchType {
	case entity.MatchContains:
		return strings.Contains(target, c.Pattern), nil, nil
	case entity.MatchStartsWith:
		return strings.HasPrefix(target, c.Pattern), nil, nil
	case entity.MatchEndsWith:
		return strings.HasSuffix(target, c.Pattern), nil, nil
	case entity.MatchRegex:
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return false, map[string]interface{}{"reason": "invalid regex", "error": err.Error()}, nil
		}
		return re.MatchString(target), nil, nil
	default:
		return false, nil, fmt.Errorf("unsupported match_type %q", c.MatchType)
	}
}
