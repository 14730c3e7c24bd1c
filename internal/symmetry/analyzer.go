// Package symmetry detects proportion imbalances in a measurement set
// and maps each finding to concrete training recommendations.
package symmetry

import (
	"math"
	"strings"

	"github.com/reddyfit/bodyscan/internal/models"
)

// Analyzer inspects body ratios and measurements for imbalances.
// Stateless; safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates an analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// DetectAsymmetries returns human-readable findings for every ratio
// outside its healthy band. An empty slice means nothing notable.
func (a *Analyzer) DetectAsymmetries(r models.BodyRatios, m models.BodyMeasurements, gender string) []string {
	var findings []string

	if r.ShoulderToWaistRatio < 1.2 {
		findings = append(findings, "Narrow shoulders relative to waist")
	} else if r.ShoulderToWaistRatio > 1.8 {
		findings = append(findings, "Very broad shoulders (elite proportion)")
	}

	if strings.EqualFold(gender, "female") {
		if r.WaistToHipRatio < 0.65 {
			findings = append(findings, "Very narrow waist (excellent proportion)")
		} else if r.WaistToHipRatio > 0.85 {
			findings = append(findings, "Wide waist relative to hips")
		}
	} else {
		if r.WaistToHipRatio < 0.85 {
			findings = append(findings, "Narrow waist (low health risk)")
		} else if r.WaistToHipRatio > 0.95 {
			findings = append(findings, "Wide waist relative to hips (health risk)")
		}
	}

	if r.ChestToWaistRatio < 1.1 {
		findings = append(findings, "Underdeveloped chest")
	} else if r.ChestToWaistRatio > 1.5 {
		findings = append(findings, "Very well-developed chest")
	}

	if r.ArmToChestRatio < 0.32 {
		findings = append(findings, "Underdeveloped arms relative to chest")
	} else if r.ArmToChestRatio > 0.42 {
		findings = append(findings, "Very well-developed arms")
	}

	if r.LegToTorsoRatio != nil {
		if *r.LegToTorsoRatio < 0.65 {
			findings = append(findings, "Underdeveloped legs relative to upper body")
		} else if *r.LegToTorsoRatio > 0.90 {
			findings = append(findings, "Very well-developed legs")
		}
	}

	if m.BodyFatPercent < 8 {
		findings = append(findings, "Very low body fat (may be unsustainable)")
	} else if m.BodyFatPercent > 25 {
		findings = append(findings, "High body fat (consider reduction)")
	}

	return findings
}

// Recommendations converts findings into training advice via keyword
// matching. With no corrective findings it returns maintenance advice.
func (a *Analyzer) Recommendations(findings []string) []string {
	var recs []string

	for _, finding := range findings {
		f := strings.ToLower(finding)
		switch {
		case strings.Contains(f, "narrow shoulders"):
			recs = append(recs,
				"Prioritize lateral raises and overhead press for shoulder width",
				"Add rowing movements for rear delt development")
		case strings.Contains(f, "underdeveloped chest"):
			recs = append(recs, "Increase bench press and incline press volume")
		case strings.Contains(f, "underdeveloped arms"):
			recs = append(recs, "Add direct arm work (curls, extensions) twice weekly")
		case strings.Contains(f, "underdeveloped legs"):
			recs = append(recs, "Prioritize squats and leg press to balance lower body")
		case strings.Contains(f, "wide waist"):
			recs = append(recs, "Combine calorie deficit with cardio to trim the waist")
		case strings.Contains(f, "high body fat"):
			recs = append(recs, "Establish a moderate calorie deficit with high protein intake")
		}
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Maintain current training balance across muscle groups",
			"Continue progressive overload to improve overall development")
	}

	return recs
}

// ProportionScores buckets each major proportion onto a 0-100 scale
// and averages them into an overall score.
func (a *Analyzer) ProportionScores(r models.BodyRatios) map[string]float64 {
	shoulders := scoreShoulders(r.ShoulderToWaistRatio)
	waist := scoreWaist(r.WaistToHipRatio)
	chest := scoreChest(r.ChestToWaistRatio)
	arms := scoreArms(r.ArmToChestRatio)

	overall := round1((shoulders + waist + chest + arms) / 4.0)

	return map[string]float64{
		"shoulders": shoulders,
		"waist":     waist,
		"chest":     chest,
		"arms":      arms,
		"overall":   overall,
	}
}

func scoreShoulders(adonis float64) float64 {
	switch {
	case adonis >= 1.5 && adonis <= 1.7:
		return 100
	case adonis >= 1.4 && adonis <= 1.8:
		return 85
	case adonis >= 1.2 && adonis <= 2.0:
		return 70
	default:
		return 50
	}
}

func scoreWaist(whr float64) float64 {
	switch {
	case whr >= 0.85 && whr <= 0.95:
		return 100
	case whr >= 0.80 && whr <= 1.0:
		return 80
	default:
		return 60
	}
}

func scoreChest(ctw float64) float64 {
	switch {
	case ctw >= 1.2 && ctw <= 1.4:
		return 100
	case ctw >= 1.1 && ctw <= 1.5:
		return 80
	default:
		return 60
	}
}

func scoreArms(atc float64) float64 {
	switch {
	case atc >= 0.36 && atc <= 0.40:
		return 100
	case atc >= 0.33 && atc <= 0.42:
		return 80
	default:
		return 60
	}
}

// MuscleBalance compares paired muscle-group measurements and reports
// each relationship as balanced or skewed.
func (a *Analyzer) MuscleBalance(m models.BodyMeasurements) map[string]string {
	balance := make(map[string]string)

	chestWaistGap := m.ChestCircumferenceCm - m.WaistCircumferenceCm
	switch {
	case chestWaistGap < 10:
		balance["chest_vs_waist"] = "Chest barely larger than waist - prioritize chest development"
	case chestWaistGap < 20:
		balance["chest_vs_waist"] = "Moderate chest-to-waist differential"
	default:
		balance["chest_vs_waist"] = "Strong chest-to-waist differential"
	}

	// Bicep generally sits near 38% of chest circumference.
	expectedBicep := m.ChestCircumferenceCm * 0.38
	diff := m.BicepCircumferenceCm - expectedBicep
	switch {
	case diff < -3:
		balance["arms_vs_chest"] = "Arms lagging behind chest development"
	case diff > 3:
		balance["arms_vs_chest"] = "Arms ahead of chest development"
	default:
		balance["arms_vs_chest"] = "Arms proportionate to chest"
	}

	expectedThigh := m.WaistCircumferenceCm * 0.75
	diff = m.ThighCircumferenceCm - expectedThigh
	switch {
	case diff < -5:
		balance["legs_vs_torso"] = "Legs lagging behind torso development"
	case diff > 5:
		balance["legs_vs_torso"] = "Legs ahead of torso development"
	default:
		balance["legs_vs_torso"] = "Legs proportionate to torso"
	}

	return balance
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
