package classify

import (
	"math"

	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/ratios"
)

// Sub-score caps. The four components always sum to the overall score.
const (
	MaxGoldenRatioScore = 40.0
	MaxSymmetryScore    = 30.0
	MaxCompositionScore = 20.0
	MaxPostureScore     = 10.0
)

// AestheticScorer computes the 0-100 composite aesthetic score from
// four weighted components.
type AestheticScorer struct{}

// NewAestheticScorer creates an aesthetic scorer
func NewAestheticScorer() *AestheticScorer {
	return &AestheticScorer{}
}

// Score computes the full aesthetic breakdown. postureRating is 0-10;
// callers without posture data pass 0 and the posture component drops
// out of the total.
func (s *AestheticScorer) Score(r models.BodyRatios, m models.BodyMeasurements, postureRating float64) models.AestheticScore {
	golden := s.GoldenRatioScore(r.ShoulderToWaistRatio)
	symmetry := s.SymmetryComponent(r.SymmetryScore)
	composition := s.CompositionScore(m.BodyFatPercent)
	posture := s.PostureScore(postureRating)

	return models.AestheticScore{
		GoldenRatioScore: golden,
		SymmetryScore:    symmetry,
		CompositionScore: composition,
		PostureScore:     posture,
		OverallScore:     round1(golden + symmetry + composition + posture),
	}
}

// GoldenRatioScore scores shoulder:waist proximity to 1.618 on a 0-40
// scale. Deviation within 0.05 earns full marks; scores decay linearly
// to zero at deviation 0.5.
func (s *AestheticScorer) GoldenRatioScore(adonisIndex float64) float64 {
	deviation := math.Abs(adonisIndex - ratios.GoldenRatio)
	switch {
	case deviation <= 0.05:
		return MaxGoldenRatioScore
	case deviation >= 0.5:
		return 0.0
	default:
		return round1(MaxGoldenRatioScore * (1.0 - deviation/0.5))
	}
}

// SymmetryComponent rescales a 0-100 symmetry score onto 0-30
func (s *AestheticScorer) SymmetryComponent(symmetryScore float64) float64 {
	return round1(symmetryScore / 100.0 * MaxSymmetryScore)
}

// CompositionScore scores body fat percentage on a 0-20 scale. The
// 10-15% band is treated as the aesthetic optimum.
func (s *AestheticScorer) CompositionScore(bodyFatPercent float64) float64 {
	switch {
	case bodyFatPercent >= 10 && bodyFatPercent <= 15:
		return 20.0
	case (bodyFatPercent >= 8 && bodyFatPercent < 10) || (bodyFatPercent > 15 && bodyFatPercent <= 18):
		return 18.0
	case (bodyFatPercent >= 5 && bodyFatPercent < 8) || (bodyFatPercent > 18 && bodyFatPercent <= 22):
		return 15.0
	case bodyFatPercent < 5 || bodyFatPercent > 30:
		return 5.0
	default:
		return 12.0
	}
}

// PostureScore maps a 0-10 posture rating onto the 0-10 component
func (s *AestheticScorer) PostureScore(rating float64) float64 {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxPostureScore {
		rating = MaxPostureScore
	}
	return round1(rating)
}

// ImprovementPotential estimates how many points each component could
// still gain, keyed by component name.
func (s *AestheticScorer) ImprovementPotential(score models.AestheticScore) map[string]float64 {
	return map[string]float64{
		"golden_ratio": round1(MaxGoldenRatioScore - score.GoldenRatioScore),
		"symmetry":     round1(MaxSymmetryScore - score.SymmetryScore),
		"composition":  round1(MaxCompositionScore - score.CompositionScore),
		"posture":      round1(MaxPostureScore - score.PostureScore),
	}
}

// Interpretation returns a reading of the overall score
func (s *AestheticScorer) Interpretation(overall float64) string {
	switch {
	case overall >= 90:
		return "Elite aesthetic physique"
	case overall >= 80:
		return "Excellent proportions and conditioning"
	case overall >= 70:
		return "Very good physique with minor areas to improve"
	case overall >= 60:
		return "Good foundation, clear improvement targets"
	case overall >= 50:
		return "Average proportions, consistent training will move the score"
	default:
		return "Significant improvement potential across components"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
