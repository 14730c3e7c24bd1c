// Package nutrition computes calorie and macro targets from body
// composition, activity level and recovery signals.
package nutrition

import (
	"fmt"
	"math"
	"strings"

	"github.com/reddyfit/bodyscan/internal/errors"
)

// Goal is the user's current training objective
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalRecomp      Goal = "recomp"
	GoalMaintenance Goal = "maintenance"
)

// ParseGoal normalizes a user-supplied goal string. "recomposition" is
// accepted as an alias for recomp, "fat_loss" for weight loss; blank or
// unrecognized input maps to maintenance.
func ParseGoal(s string) Goal {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weight_loss", "fat_loss":
		return GoalWeightLoss
	case "muscle_gain":
		return GoalMuscleGain
	case "recomp", "recomposition":
		return GoalRecomp
	default:
		return GoalMaintenance
	}
}

// activityMultipliers maps activity level onto the TDEE factor
var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

const defaultActivityMultiplier = 1.55

// BMRMifflinStJeor computes basal metabolic rate from weight (kg),
// height (cm), age and gender.
func BMRMifflinStJeor(weightKg, heightCm float64, age int, gender string) (float64, error) {
	if weightKg <= 0 || heightCm <= 0 || age <= 0 {
		return 0, errors.InvalidInputError("weight, height and age must be positive")
	}

	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case "male":
		base += 5
	case "female":
		base -= 161
	default:
		// midpoint of the gendered offsets
		base -= 78
	}
	return base, nil
}

// BMRKatchMcArdle computes BMR from lean body mass, preferred when
// body fat is known.
func BMRKatchMcArdle(weightKg, bodyFatPercent float64) (float64, error) {
	if weightKg <= 0 || bodyFatPercent < 0 || bodyFatPercent >= 100 {
		return 0, errors.InvalidInputError("weight must be positive and body fat a valid percentage")
	}
	lean := weightKg * (1 - bodyFatPercent/100)
	return 370 + 21.6*lean, nil
}

// TDEE scales BMR by activity level. Unknown levels fall back to
// moderately active.
func TDEE(bmr float64, activityLevel string) float64 {
	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		mult = defaultActivityMultiplier
	}
	return math.Round(bmr * mult)
}

// GoalCalories adjusts TDEE for the training goal. Muscle gain scales
// its surplus with body fat: leaner users get the larger surplus.
func GoalCalories(tdee float64, goal Goal, bodyFatPercent float64) float64 {
	switch goal {
	case GoalWeightLoss:
		return tdee - 500
	case GoalMuscleGain:
		if bodyFatPercent < 15 {
			return tdee + 500
		}
		return tdee + 300
	case GoalRecomp:
		return tdee - 200
	default:
		return tdee
	}
}

// Macros is a daily macro target in grams
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// MacroSplit derives macros from a calorie target. Protein anchors at
// 2g per kg bodyweight, fat takes 25% of calories, carbs fill the
// remainder.
func MacroSplit(calories, weightKg float64) Macros {
	protein := 2.0 * weightKg
	proteinCal := protein * 4

	fatCal := calories * 0.25
	fat := fatCal / 9

	carbsCal := calories - proteinCal - fatCal
	if carbsCal < 0 {
		carbsCal = 0
	}
	carbs := carbsCal / 4

	return Macros{
		Calories: math.Round(calories),
		ProteinG: math.Round(protein),
		CarbsG:   math.Round(carbs),
		FatG:     math.Round(fat),
	}
}

// RecoveryAdjustment scales a calorie target by WHOOP recovery. Poor
// recovery adds fuel; good recovery only boosts a surplus goal.
func RecoveryAdjustment(calories float64, recoveryScore float64, goal Goal) (float64, string) {
	var factor float64
	var reasoning string

	switch {
	case recoveryScore >= 67:
		if goal == GoalMuscleGain {
			factor = 1.05
			reasoning = "High recovery: increased calories to support muscle growth"
		} else {
			factor = 1.0
			reasoning = "High recovery: maintaining planned calorie target"
		}
	case recoveryScore >= 34:
		if goal == GoalWeightLoss {
			factor = 1.05
			reasoning = "Moderate recovery: slightly increased calories to support training"
		} else {
			factor = 1.0
			reasoning = "Moderate recovery: maintaining planned calorie target"
		}
	default:
		switch goal {
		case GoalWeightLoss:
			factor = 1.10
			reasoning = "Low recovery: increased calories to prioritize recovery over deficit"
		case GoalMuscleGain:
			factor = 1.15
			reasoning = "Low recovery: increased calories to support recovery and growth"
		default:
			factor = 1.10
			reasoning = "Low recovery: increased calories to prioritize recovery"
		}
	}

	return math.Round(calories * factor), reasoning
}

// StrainAdjustment shifts the carb/fat balance by daily strain. High
// strain days push carbs up and fat slightly down.
func StrainAdjustment(m Macros, strainScore float64) Macros {
	switch {
	case strainScore > 15:
		m.CarbsG = math.Round(m.CarbsG * 1.10)
		m.FatG = math.Round(m.FatG * 0.95)
	case strainScore < 10:
		// light day, no adjustment
	default:
		m.CarbsG = math.Round(m.CarbsG * 1.05)
		m.FatG = math.Round(m.FatG * 0.98)
	}
	return m
}

// IdealWeightRange estimates a healthy weight band from height using
// the BMI 18.5-24.9 bounds, shifted upward for muscular (lean) users.
func IdealWeightRange(heightCm, bodyFatPercent float64) (float64, float64, error) {
	if heightCm <= 0 {
		return 0, 0, errors.InvalidInputError("height must be positive")
	}

	heightM := heightCm / 100
	lo := 18.5 * heightM * heightM
	hi := 24.9 * heightM * heightM

	// muscular users carry more mass at the same height
	if bodyFatPercent < 15 {
		lo *= 1.05
		hi *= 1.10
	} else if bodyFatPercent < 20 {
		lo *= 1.02
		hi *= 1.05
	}

	return round1(lo), round1(hi), nil
}

// Summary renders a one-paragraph description of a daily target
func Summary(m Macros, goal Goal) string {
	return fmt.Sprintf("%.0f kcal/day for %s: %.0fg protein, %.0fg carbs, %.0fg fat",
		m.Calories, goal, m.ProteinG, m.CarbsG, m.FatG)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
