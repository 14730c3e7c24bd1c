// Package confidence scores how much a scan result should be trusted.
// Five weighted factors feed the score: photo coverage, measurement
// consistency, AI response quality, data completeness, and validation
// outcome.
package confidence

import (
	"fmt"
	"math"

	"github.com/reddyfit/bodyscan/internal/models"
)

// Weights distributes the overall score across its factors. The
// defaults sum to 1.0; callers supplying custom weights own that
// invariant.
type Weights struct {
	PhotoQuality float64 `json:"photo_quality" mapstructure:"photo_quality"`
	Consistency  float64 `json:"consistency" mapstructure:"consistency"`
	AIResponse   float64 `json:"ai_response" mapstructure:"ai_response"`
	Completeness float64 `json:"completeness" mapstructure:"completeness"`
	Validation   float64 `json:"validation" mapstructure:"validation"`
}

// DefaultWeights returns the production factor weights
func DefaultWeights() Weights {
	return Weights{
		PhotoQuality: 0.20,
		Consistency:  0.30,
		AIResponse:   0.20,
		Completeness: 0.20,
		Validation:   0.10,
	}
}

// DefaultThreshold is the minimum score at which a scan is surfaced
// without a low-confidence warning.
const DefaultThreshold = 0.70

// Inputs carries everything the scorer needs for one scan
type Inputs struct {
	PhotoCount       int
	Measurements     models.BodyMeasurements
	MuscleDefinition models.MuscleDefinition
	Completeness     float64 // 0.0-1.0 share of expected fields present
	FinishReason     string  // LLM finish reason ("stop", "length", ...)
	ParseStrategy    string  // JSON extraction strategy that succeeded
	ValidationErrors int
}

// Scorer computes confidence metrics. Stateless beyond configuration.
type Scorer struct {
	weights   Weights
	threshold float64
}

// NewScorer creates a scorer with explicit weights and threshold
func NewScorer(weights Weights, threshold float64) *Scorer {
	return &Scorer{weights: weights, threshold: threshold}
}

// NewDefaultScorer creates a scorer with production settings
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultWeights(), DefaultThreshold)
}

// Score computes the weighted overall confidence and its factor
// breakdown. Factors are rounded to 3 decimals before weighting so
// the reported breakdown reproduces the overall exactly.
func (s *Scorer) Score(in Inputs) models.ConfidenceMetrics {
	photo := round3(s.PhotoQualityFactor(in.PhotoCount))
	consistency := round3(s.ConsistencyFactor(in.Measurements, in.MuscleDefinition))
	ai := round3(s.AIResponseFactor(in.FinishReason, in.ParseStrategy))
	completeness := round3(clamp01(in.Completeness))
	validation := round3(s.ValidationFactor(in.ValidationErrors))

	overall := photo*s.weights.PhotoQuality +
		consistency*s.weights.Consistency +
		ai*s.weights.AIResponse +
		completeness*s.weights.Completeness +
		validation*s.weights.Validation
	overall = round3(overall)

	metrics := models.ConfidenceMetrics{
		OverallScore:            overall,
		PhotoCountFactor:        photo,
		ConsistencyFactor:       consistency,
		AIConfidenceFactor:      ai,
		DataCompletenessFactor:  completeness,
		ValidationQualityFactor: validation,
		MeetsThreshold:          overall >= s.threshold,
	}
	metrics.FactorsBreakdown = s.FactorsBreakdown(metrics, in.PhotoCount)
	return metrics
}

// PhotoQualityFactor scores photo coverage. Three angles is full
// coverage; fewer photos cut the factor sharply.
func (s *Scorer) PhotoQualityFactor(photoCount int) float64 {
	switch {
	case photoCount >= 3:
		return 1.0
	case photoCount == 2:
		return 0.75
	case photoCount == 1:
		return 0.50
	default:
		return 0.0
	}
}

// ConsistencyFactor starts at 1.0 and deducts for each anatomically
// implausible relationship between measurements.
func (s *Scorer) ConsistencyFactor(m models.BodyMeasurements, muscle models.MuscleDefinition) float64 {
	score := 1.0

	if m.WaistCircumferenceCm > m.ChestCircumferenceCm {
		score -= 0.10
	}
	if muscle == models.MuscleDefinitionHigh && m.BodyFatPercent > 20 {
		score -= 0.15
	}
	if muscle == models.MuscleDefinitionLow && m.BodyFatPercent < 10 {
		score -= 0.15
	}
	if m.BicepCircumferenceCm > m.ThighCircumferenceCm {
		score -= 0.25
	}
	if m.CalfCircumferenceCm != nil && *m.CalfCircumferenceCm > m.ThighCircumferenceCm {
		score -= 0.20
	}
	if m.ShoulderWidthCm != nil && m.ChestCircumferenceCm > 0 {
		ratio := *m.ShoulderWidthCm / m.ChestCircumferenceCm
		if ratio < 0.3 || ratio > 0.8 {
			score -= 0.15
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

// AIResponseFactor blends the model's finish reason with the JSON
// extraction strategy that eventually produced parseable output.
func (s *Scorer) AIResponseFactor(finishReason, parseStrategy string) float64 {
	var finish float64
	switch finishReason {
	case "stop":
		finish = 1.0
	case "length":
		finish = 0.70
	default:
		finish = 0.50
	}

	var strategy float64
	switch parseStrategy {
	case "direct_parse":
		strategy = 1.0
	case "markdown_strip":
		strategy = 0.95
	case "regex_extract":
		strategy = 0.85
	case "error_fix":
		strategy = 0.75
	case "ai_repair":
		strategy = 0.60
	default:
		strategy = 0.50
	}

	return finish*0.6 + strategy*0.4
}

// ValidationFactor scores by how many validation errors the scan
// accumulated.
func (s *Scorer) ValidationFactor(errorCount int) float64 {
	switch {
	case errorCount == 0:
		return 1.0
	case errorCount <= 2:
		return 0.85
	case errorCount <= 5:
		return 0.70
	default:
		return 0.50
	}
}

// ConsistencySummary maps a consistency factor onto a display label
func ConsistencySummary(factor float64) string {
	switch {
	case factor >= 0.9:
		return "Excellent"
	case factor >= 0.75:
		return "Good"
	case factor >= 0.6:
		return "Fair"
	default:
		return "Poor"
	}
}

// FactorsBreakdown renders the metrics into display strings keyed by
// factor name.
func (s *Scorer) FactorsBreakdown(metrics models.ConfidenceMetrics, photoCount int) map[string]string {
	return map[string]string{
		"photo_quality": fmt.Sprintf("%d/3 photos", min(photoCount, 3)),
		"consistency":   ConsistencySummary(metrics.ConsistencyFactor),
		"ai_response":   fmt.Sprintf("%.0f%% response quality", metrics.AIConfidenceFactor*100),
		"completeness":  fmt.Sprintf("%.0f%% of fields present", metrics.DataCompletenessFactor*100),
		"validation":    fmt.Sprintf("%.0f%% validation score", metrics.ValidationQualityFactor*100),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
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
