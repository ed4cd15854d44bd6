package entity

import "time"

// RuleEvaluationResult is the short-lived output of evaluating one Rule
// against one input batch. Produced per evaluation and consumed by the
// Alert Generator; never persisted on its own.
type RuleEvaluationResult struct {
	RuleID         ID                     `json:"rule_id"`
	RuleName       string                 `json:"rule_name"`
	RuleType       RuleType               `json:"rule_type"`
	Triggered      bool                   `json:"triggered"`
	Severity       AlertSeverity          `json:"severity"`
	Details        map[string]interface{} `json:"details"`
	Context        map[string]interface{} `json:"context,omitempty"`
	EvaluationTime time.Time              `json:"evaluation_time"`
}

// NewRuleEvaluationResult builds a result stamped with the current time.
func NewRuleEvaluationResult(rule *Rule, triggered bool, details map[string]interface{}, context map[string]interface{}) RuleEvaluationResult {
	if details == nil {
		details = make(map[string]interface{})
	}
	return RuleEvaluationResult{
		RuleID:         rule.ID,
		RuleName:       rule.Name,
		RuleType:       rule.Type,
		Triggered:      triggered,
		Severity:       rule.Severity,
		Details:        details,
		Context:        context,
		EvaluationTime: time.Now().UTC(),
	}
}

// ErrorResult builds a RuleEvaluationResult representing a caught
// RuleEvaluationError: triggered=false, details.status="error". A single
// bad rule must not poison a batch.
func ErrorResult(rule *Rule, err error) RuleEvaluationResult {
	return RuleEvaluationResult{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		RuleType: rule.Type,
		Triggered: false,
		Severity:  rule.Severity,
		Details: map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		},
		EvaluationTime: time.Now().UTC(),
	}
}
