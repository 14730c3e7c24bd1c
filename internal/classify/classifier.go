// Package classify assigns a body-type category and an aesthetic score
// to a measurement set. Classification is rule-based: every rule whose
// threshold conditions hold contributes a (type, confidence) candidate,
// and the highest-confidence candidate wins. The per-rule confidences
// are tunable constants, not load-bearing precision.
package classify

import (
	"sort"

	"github.com/reddyfit/bodyscan/internal/models"
)

// RuleConfidences holds the confidence assigned to each classification
// rule when it fires. Exposed as configuration so the tie-break
// ordering can be tuned without touching rule logic.
type RuleConfidences struct {
	VTaperStrong float64 // shoulder:waist >= 1.6
	VTaper       float64
	Classic      float64
	Balanced     float64
	Rectangular  float64
	Apple        float64
	Pear         float64
	Fallback     float64 // no rule matched
}

// DefaultRuleConfidences are the production tie-break values
func DefaultRuleConfidences() RuleConfidences {
	return RuleConfidences{
		VTaperStrong: 0.95,
		VTaper:       0.80,
		Classic:      0.85,
		Balanced:     0.90,
		Rectangular:  0.85,
		Apple:        0.80,
		Pear:         0.75,
		Fallback:     0.60,
	}
}

// Candidate is one fired classification rule
type Candidate struct {
	BodyType   models.BodyType
	Confidence float64
}

// Classifier evaluates the body-type rule set. Stateless beyond its
// confidence configuration; safe for concurrent use.
type Classifier struct {
	conf RuleConfidences
}

// NewClassifier creates a classifier with the given rule confidences
func NewClassifier(conf RuleConfidences) *Classifier {
	return &Classifier{conf: conf}
}

// NewDefaultClassifier creates a classifier with production confidences
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRuleConfidences())
}

// Classify determines the body type from ratios and measurements.
// Rules are independent and may fire simultaneously; the candidate
// with the highest confidence wins. When nothing fires the result
// defaults to Rectangular at reduced confidence - an expected edge
// case, not a failure.
func (c *Classifier) Classify(r models.BodyRatios, m models.BodyMeasurements) (models.BodyType, float64) {
	candidates := c.Candidates(r, m)
	if len(candidates) == 0 {
		return models.BodyTypeRectangular, c.conf.Fallback
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates[0].BodyType, candidates[0].Confidence
}

// Candidates returns every rule that fires for the given inputs, in
// rule-definition order.
func (c *Classifier) Candidates(r models.BodyRatios, m models.BodyMeasurements) []Candidate {
	stw := r.ShoulderToWaistRatio
	whr := r.WaistToHipRatio
	ctw := r.ChestToWaistRatio
	symmetry := r.SymmetryScore

	var candidates []Candidate

	// V-Taper: broad shoulders, narrow waist
	if stw >= 1.4 && ctw >= 1.3 {
		if stw >= 1.6 {
			candidates = append(candidates, Candidate{models.BodyTypeVTaper, c.conf.VTaperStrong})
		} else {
			candidates = append(candidates, Candidate{models.BodyTypeVTaper, c.conf.VTaper})
		}
	}

	// Classic: well-proportioned with strong symmetry
	if stw >= 1.35 && stw <= 1.55 && symmetry >= 80 {
		candidates = append(candidates, Candidate{models.BodyTypeClassic, c.conf.Classic})
	}

	// Balanced: all ratios inside ideal bands
	if stw >= 1.4 && stw <= 1.7 && whr >= 0.85 && whr <= 0.95 && symmetry >= 85 {
		candidates = append(candidates, Candidate{models.BodyTypeBalanced, c.conf.Balanced})
	}

	// Rectangular: minimal taper
	if stw < 1.2 && whr > 0.9 && whr < 1.1 {
		candidates = append(candidates, Candidate{models.BodyTypeRectangular, c.conf.Rectangular})
	}

	// Apple: weight concentrated in the midsection
	if whr > 0.95 && m.BodyFatPercent > 20 {
		candidates = append(candidates, Candidate{models.BodyTypeApple, c.conf.Apple})
	}

	// Pear: weight concentrated in the lower body
	if whr < 0.85 && m.HipCircumferenceCm > m.ChestCircumferenceCm {
		candidates = append(candidates, Candidate{models.BodyTypePear, c.conf.Pear})
	}

	return candidates
}

// Description returns the detailed display description for a body type
func Description(bodyType models.BodyType) string {
	switch bodyType {
	case models.BodyTypeVTaper:
		return "V-Taper physique: Characterized by broad shoulders and a narrow waist, " +
			"creating the classic athletic 'V' shape. This body type is often associated " +
			"with excellent upper body development and aesthetic proportions."
	case models.BodyTypeClassic:
		return "Classic physique: Well-proportioned with balanced muscle development " +
			"across all body parts. This timeless physique represents symmetry and " +
			"harmonious proportions."
	case models.BodyTypeRectangular:
		return "Rectangular physique: Characterized by relatively straight body lines " +
			"with minimal taper from shoulders to waist. This body type may benefit " +
			"from targeted shoulder and back development to create more taper."
	case models.BodyTypeApple:
		return "Apple shape: Weight tends to be concentrated in the midsection. " +
			"This body type may benefit from core training and body fat reduction " +
			"to improve proportions."
	case models.BodyTypePear:
		return "Pear shape: Weight is primarily stored in the lower body (hips and thighs). " +
			"This body type often has a narrower upper body relative to the lower body."
	case models.BodyTypeBalanced:
		return "Balanced physique: Exceptional overall proportions with all body ratios " +
			"within ideal ranges. This represents excellent symmetry and development " +
			"across all muscle groups."
	default:
		return "Body type description not available."
	}
}

// TrainingRecommendations returns per-type training advice plus
// body-fat-specific additions.
func TrainingRecommendations(bodyType models.BodyType, m models.BodyMeasurements) []string {
	var recs []string

	switch bodyType {
	case models.BodyTypeVTaper:
		recs = append(recs,
			"Maintain shoulder width with overhead press and lateral raises",
			"Keep waist tight with core training and diet control",
			"Balance with leg development to avoid top-heavy appearance")
	case models.BodyTypeClassic:
		recs = append(recs,
			"Focus on progressive overload across all muscle groups",
			"Maintain balanced training split (push/pull/legs)",
			"Fine-tune proportions with targeted isolation work")
	case models.BodyTypeRectangular:
		recs = append(recs,
			"Prioritize shoulder and back width (lateral raises, pull-ups)",
			"Build upper chest (incline press)",
			"Tighten waist through fat loss and core training")
	case models.BodyTypeApple:
		recs = append(recs,
			"Focus on calorie deficit for fat loss",
			"High-protein diet to preserve muscle",
			"Increase cardio and HIIT training",
			"Build shoulders to improve upper body proportions")
	case models.BodyTypePear:
		recs = append(recs,
			"Build upper body (chest, shoulders, back)",
			"Maintain leg development without overemphasis",
			"Focus on creating upper body width")
	case models.BodyTypeBalanced:
		recs = append(recs,
			"Maintain current balanced approach",
			"Focus on strength progression",
			"Fine-tune any minor weak points")
	}

	if m.BodyFatPercent > 20 {
		recs = append(recs, "Reduce body fat to reveal muscle definition")
	} else if m.BodyFatPercent < 10 {
		recs = append(recs, "Consider slight bulk to build more muscle mass")
	}

	return recs
}
