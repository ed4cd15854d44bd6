package service

import (
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/rs/zerolog/log"
)

// ImpactWeights holds the per-category weights for the overall score.
type ImpactWeights struct {
	Data     float64
	Pipeline float64
	Business float64
	Resource float64
}

// DefaultImpactWeights returns the spec's documented defaults.
func DefaultImpactWeights() ImpactWeights {
	return ImpactWeights{Data: 0.4, Pipeline: 0.3, Business: 0.2, Resource: 0.1}
}

// ActionBaseImpact is the per-action-type base impact contribution for
// each category, enumerated by config per spec §4.7. Analyze adds the Data,
// Pipeline and Resource bases; the Business base is not read, since the
// business score starts from BusinessCriticality alone.
type ActionBaseImpact struct {
	Data     float64
	Pipeline float64
	Business float64
	Resource float64
}

// DefaultActionBaseImpacts returns one base-impact row per healing action
// type, grounded on the relative invasiveness of each action.
func DefaultActionBaseImpacts() map[entity.HealingActionType]ActionBaseImpact {
	return map[entity.HealingActionType]ActionBaseImpact{
		entity.HealingActionDataCorrection:       {Data: 0.3, Pipeline: 0.1, Business: 0.1, Resource: 0.05},
		entity.HealingActionSchemaEvolution:      {Data: 0.4, Pipeline: 0.3, Business: 0.2, Resource: 0.05},
		entity.HealingActionPipelineRetry:        {Data: 0.05, Pipeline: 0.2, Business: 0.05, Resource: 0.1},
		entity.HealingActionParameterAdjustment:  {Data: 0.1, Pipeline: 0.15, Business: 0.05, Resource: 0.05},
		entity.HealingActionDependencyResolution: {Data: 0.15, Pipeline: 0.25, Business: 0.1, Resource: 0.1},
		entity.HealingActionResourceScaling:      {Data: 0.05, Pipeline: 0.1, Business: 0.05, Resource: 0.3},
	}
}

// ImpactAnalyzerConfig holds the analyzer's weights and enumerated tables.
type ImpactAnalyzerConfig struct {
	Weights    ImpactWeights
	BaseImpact map[entity.HealingActionType]ActionBaseImpact
}

// DefaultImpactAnalyzerConfig returns the spec's documented defaults.
func DefaultImpactAnalyzerConfig() ImpactAnalyzerConfig {
	return ImpactAnalyzerConfig{
		Weights:    DefaultImpactWeights(),
		BaseImpact: DefaultActionBaseImpacts(),
	}
}

// ImpactAnalysisInput bundles the signals the per-category formulas
// consume, per spec §4.7.
type ImpactAnalysisInput struct {
	ActionType         entity.HealingActionType
	DataVolume         float64 // row/record count
	DataCriticality    string  // low|medium|high
	DataVisibility     string  // low|medium|high (how externally visible the data is)
	ExecutionTime      string  // low|medium|high
	DependencyCount    int
	PipelineCriticality string // low|medium|high
	BusinessCriticality string // low|medium|high
	ApproachingSLA     bool
	AffectsReporting   bool
	ComputeChange      string // low|medium|high
	StorageChange      string // low|medium|high
	CostChange         string // low|medium|high
	ScaleFactor        float64
}

// ImpactAnalyzer implements C7: per-category [0,1] scores combined into a
// weighted overall and banded into an ImpactLevel. On any internal panic
// it returns a moderate default across the board — impact analysis must
// never block the decision path.
type ImpactAnalyzer struct {
	cfg ImpactAnalyzerConfig
}

// NewImpactAnalyzer constructs an analyzer.
func NewImpactAnalyzer(cfg ImpactAnalyzerConfig) *ImpactAnalyzer {
	if cfg.BaseImpact == nil {
		cfg.BaseImpact = DefaultActionBaseImpacts()
	}
	return &ImpactAnalyzer{cfg: cfg}
}

// Analyze computes the ImpactAnalysis for one candidate action.
func (a *ImpactAnalyzer) Analyze(in ImpactAnalysisInput) (result entity.ImpactAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("impact analyzer: recovered from panic, returning moderate default")
			result = moderateDefault(r)
		}
	}()

	base := a.cfg.BaseImpact[in.ActionType]

	data := clamp01(base.Data + minF(1, in.DataVolume/1e6)*0.2 + levelWeight(in.DataCriticality)*0.5 + levelWeight(in.DataVisibility)*0.3)
	pipeline := clamp01(base.Pipeline + levelWeight(in.ExecutionTime)*0.3 + minF(0.2, float64(in.DependencyCount)/20) + levelWeight(in.PipelineCriticality)*0.3)

	business := levelWeight(in.BusinessCriticality)
	if in.ApproachingSLA {
		business += 0.2
	}
	business += levelWeight(in.DataVisibility) * 0.3
	if in.AffectsReporting {
		business += 0.1
	}
	business = clamp01(business)

	resource := base.Resource + levelWeight(in.ComputeChange)*0.3 + levelWeight(in.StorageChange)*0.2 + levelWeight(in.CostChange)*0.2
	if in.ActionType == entity.HealingActionResourceScaling && in.ScaleFactor > 2 {
		resource += 0.2
	}
	resource = clamp01(resource)

	w := a.cfg.Weights
	overall := clamp01(w.Data*data + w.Pipeline*pipeline + w.Business*business + w.Resource*resource)

	return entity.ImpactAnalysis{
		CategoryScores: map[entity.ImpactCategory]float64{
			entity.ImpactCategoryData:     data,
			entity.ImpactCategoryPipeline: pipeline,
			entity.ImpactCategoryBusiness: business,
			entity.ImpactCategoryResource: resource,
		},
		Overall: overall,
		Level:   entity.ImpactLevelFor(overall),
	}
}

func moderateDefault(cause interface{}) entity.ImpactAnalysis {
	const moderate = 0.5
	return entity.ImpactAnalysis{
		CategoryScores: map[entity.ImpactCategory]float64{
			entity.ImpactCategoryData:     moderate,
			entity.ImpactCategoryPipeline: moderate,
			entity.ImpactCategoryBusiness: moderate,
			entity.ImpactCategoryResource: moderate,
		},
		Overall: moderate,
		Level:   entity.ImpactLevelFor(moderate),
		Details: map[string]interface{}{"error": cause},
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
