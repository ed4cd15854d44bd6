package service

import (
	"context"
	"time"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/rs/zerolog/log"
)

// ConfidenceWeights holds the per-factor weights for the overall score.
// The sum need not be 1 — the result is clamped to [0,1] regardless.
type ConfidenceWeights struct {
	HistoricalSuccess  float64
	PatternMatch       float64
	DataCharacteristics float64
	Contextual         float64
}

// DefaultConfidenceWeights returns the spec's documented defaults.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		HistoricalSuccess:   0.4,
		PatternMatch:        0.3,
		DataCharacteristics: 0.2,
		Contextual:          0.1,
	}
}

// ConfidenceScorerConfig holds the scorer's tunables.
type ConfidenceScorerConfig struct {
	Weights             ConfidenceWeights
	DefaultThreshold    float64
	ActionTypeThresholds map[entity.HealingActionType]float64
	MinHistorySamples   int
	HistoryWindow       int
}

// DefaultConfidenceScorerConfig returns the spec's 0.85/5-sample defaults.
func DefaultConfidenceScorerConfig() ConfidenceScorerConfig {
	return ConfidenceScorerConfig{
		Weights:           DefaultConfidenceWeights(),
		DefaultThreshold:  0.85,
		MinHistorySamples: 5,
		HistoryWindow:     50,
	}
}

// MatchedPattern describes the known pattern (if any) a candidate action
// is being scored against, used by the pattern-match factor.
type MatchedPattern struct {
	IssueSimilarity   float64
	ActionSimilarity  float64
}

// ScoringInput bundles the context the Confidence Scorer's factors draw
// from: the candidate action, the matched historical pattern (if any), and
// derived context signals.
type ScoringInput struct {
	ActionType      entity.HealingActionType
	ActionParams    map[string]interface{}
	Pattern         *MatchedPattern
	DataVolume      string // low|medium|high
	DataCriticality string // low|medium|high
	DataComplexity  string // low|medium|high
	TimeOfDay       time.Time
	Environment     string // prod|stg|dev
	MaintenanceWindow bool
}

// ConfidenceScorer implements C6: a weighted combination of four [0,1]
// factors into one overall ConfidenceScore.
type ConfidenceScorer struct {
	cfg  ConfidenceScorerConfig
	repo repository.HealingActionRepository
}

// NewConfidenceScorer constructs a scorer. repo may be nil, in which case
// the historical-success factor always returns the neutral prior.
func NewConfidenceScorer(cfg ConfidenceScorerConfig, repo repository.HealingActionRepository) *ConfidenceScorer {
	if cfg.MinHistorySamples <= 0 {
		cfg.MinHistorySamples = 5
	}
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = 0.85
	}
	return &ConfidenceScorer{cfg: cfg, repo: repo}
}

// Threshold returns the effective threshold for an action type: the
// per-action-type override if configured, otherwise the global default.
func (s *ConfidenceScorer) Threshold(actionType entity.HealingActionType) float64 {
	if t, ok := s.cfg.ActionTypeThresholds[actionType]; ok {
		return t
	}
	return s.cfg.DefaultThreshold
}

// Score computes the ConfidenceScore for a candidate action against the
// given input.
func (s *ConfidenceScorer) Score(ctx context.Context, in ScoringInput) entity.ConfidenceScore {
	historical := s.historicalSuccess(ctx, in.ActionType)
	pattern := s.patternMatch(in.Pattern)
	data := s.dataCharacteristics(in)
	contextual := s.contextual(in)

	w := s.cfg.Weights
	overall := clamp01(w.HistoricalSuccess*historical + w.PatternMatch*pattern + w.DataCharacteristics*data + w.Contextual*contextual)

	return entity.ConfidenceScore{
		Factors: map[entity.ConfidenceFactor]float64{
			entity.FactorHistoricalSuccess:   historical,
			entity.FactorPatternMatch:        pattern,
			entity.FactorDataCharacteristics: data,
			entity.FactorContextual:          contextual,
		},
		Overall: overall,
	}
}

// historicalSuccess computes a recency-weighted success rate over prior
// attempts of this action type. Below MinHistorySamples, returns the
// neutral prior (0.5) rather than an unreliable estimate.
func (s *ConfidenceScorer) historicalSuccess(ctx context.Context, actionType entity.HealingActionType) float64 {
	if s.repo == nil {
		return 0.5
	}
	window := s.cfg.HistoryWindow
	if window <= 0 {
		window = 50
	}
	resolutions, err := s.repo.ResolutionsByActionType(ctx, actionType, window)
	if err != nil {
		log.Warn().Err(err).Str("action_type", string(actionType)).Msg("confidence scorer: historical lookup failed, using neutral prior")
		return 0.5
	}

	var samples []bool
	for _, r := range resolutions {
		if r.Status == entity.ResolutionStatusSuccess {
			samples = append(samples, true)
		} else if r.Status == entity.ResolutionStatusFailed {
			samples = append(samples, false)
		}
	}

	if len(samples) < s.cfg.MinHistorySamples {
		return 0.5
	}

	// Recency weighting: most-recent-first entries get geometrically
	// larger weight so a string of recent failures pulls the score down
	// faster than an old one offset by recent successes.
	var weightedSum, totalWeight float64
	weight := 1.0
	decay := 0.9
	for _, ok := range samples {
		if ok {
			weightedSum += weight
		}
		totalWeight += weight
		weight *= decay
	}
	if totalWeight == 0 {
		return 0.5
	}
	return clamp01(weightedSum / totalWeight)
}

// patternMatch blends issue-similarity and action-similarity to the
// canonical pattern action. No matched pattern yields the neutral prior.
func (s *ConfidenceScorer) patternMatch(pattern *MatchedPattern) float64 {
	if pattern == nil {
		return 0.5
	}
	return clamp01((pattern.IssueSimilarity + pattern.ActionSimilarity) / 2)
}

// dataCharacteristics maps discrete volume/criticality/complexity levels
// to a [0,1] score via a fixed enumerated table.
func (s *ConfidenceScorer) dataCharacteristics(in ScoringInput) float64 {
	return clamp01(1 - (levelWeight(in.DataVolume)+levelWeight(in.DataCriticality)+levelWeight(in.DataComplexity))/3)
}

func levelWeight(level string) float64 {
	switch level {
	case "high":
		return 0.8
	case "medium":
		return 0.4
	case "low":
		return 0.1
	default:
		return 0.4
	}
}

// contextual scores time-of-day, environment, and maintenance-window
// signals: a maintenance window or a non-prod environment raises
// confidence that an automated action is safe to take.
func (s *ConfidenceScorer) contextual(in ScoringInput) float64 {
	score := 0.5
	if in.MaintenanceWindow {
		score += 0.3
	}
	switch in.Environment {
	case "prod":
		score -= 0.1
	case "dev":
		score += 0.2
	}
	hour := in.TimeOfDay.Hour()
	if hour >= 9 && hour < 18 {
		score += 0.1
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
