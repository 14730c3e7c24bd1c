// Package recommend turns a completed scan plus recovery data into a
// coaching plan: training split, intensity, focus areas and nutrition
// guidance. Rule-based; no model calls.
package recommend

import (
	"fmt"
	"strings"

	"github.com/reddyfit/bodyscan/internal/classify"
	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/nutrition"
	"github.com/reddyfit/bodyscan/internal/symmetry"
)

// Engine generates plans from scan results
type Engine struct {
	analyzer *symmetry.Analyzer
}

// NewEngine creates a recommendation engine
func NewEngine() *Engine {
	return &Engine{analyzer: symmetry.NewAnalyzer()}
}

// Input bundles everything a plan is generated from
type Input struct {
	Scan    *models.ScanResult
	Profile *models.UserProfile
	Goal    nutrition.Goal
}

// Generate builds the full recommendation set for a scan
func (e *Engine) Generate(in Input) *models.Recommendations {
	scan := in.Scan
	goal := in.Goal
	if goal == "" {
		goal = nutrition.GoalMaintenance
	}

	focusAreas := e.focusAreas(scan)
	timeline := e.timelineWeeks(scan, goal)

	rec := &models.Recommendations{
		WorkoutPlan:            e.workoutPlan(scan, focusAreas),
		NutritionPlan:          e.nutritionPlan(scan, in.Profile, goal),
		KeyFocusAreas:          focusAreas,
		EstimatedTimelineWeeks: &timeline,
	}

	if scan.WhoopData != nil && scan.WhoopData.HasData {
		rec.RecoveryAdvice = e.recoveryAdvice(scan.WhoopData)
	}

	return rec
}

// focusAreas derives training priorities from detected asymmetries and
// the body-type classification.
func (e *Engine) focusAreas(scan *models.ScanResult) []string {
	var areas []string
	seen := make(map[string]bool)
	add := func(area string) {
		if !seen[area] {
			seen[area] = true
			areas = append(areas, area)
		}
	}

	for _, finding := range scan.Asymmetries {
		f := strings.ToLower(finding)
		switch {
		case strings.Contains(f, "narrow shoulders"):
			add("shoulder width")
		case strings.Contains(f, "underdeveloped chest"):
			add("chest development")
		case strings.Contains(f, "underdeveloped arms"):
			add("arm development")
		case strings.Contains(f, "underdeveloped legs"):
			add("leg development")
		case strings.Contains(f, "wide waist"), strings.Contains(f, "high body fat"):
			add("fat loss")
		}
	}

	switch scan.AestheticScore.BodyType {
	case models.BodyTypeRectangular:
		add("shoulder width")
		add("back width")
	case models.BodyTypeApple:
		add("fat loss")
		add("shoulder width")
	case models.BodyTypePear:
		add("upper body mass")
	}

	if len(areas) == 0 {
		areas = append(areas, "overall progression")
	}
	return areas
}

// workoutPlan combines the per-type template with asymmetry-driven
// additions.
func (e *Engine) workoutPlan(scan *models.ScanResult, focusAreas []string) string {
	var b strings.Builder

	split := e.trainingSplit(scan)
	b.WriteString(fmt.Sprintf("Training split: %s\n", split))
	b.WriteString(fmt.Sprintf("Intensity: %s\n\n", e.intensity(scan)))

	for _, line := range classify.TrainingRecommendations(scan.AestheticScore.BodyType, scan.Measurements) {
		b.WriteString("- " + line + "\n")
	}

	corrections := e.analyzer.Recommendations(scan.Asymmetries)
	if len(corrections) > 0 {
		b.WriteString("\nCorrective work:\n")
		for _, line := range corrections {
			b.WriteString("- " + line + "\n")
		}
	}

	if len(focusAreas) > 0 {
		b.WriteString("\nPriorities: " + strings.Join(focusAreas, ", "))
	}

	return b.String()
}

// trainingSplit picks a weekly structure by development level
func (e *Engine) trainingSplit(scan *models.ScanResult) string {
	score := scan.AestheticScore.OverallScore
	switch {
	case score >= 75:
		return "5-day body part split with specialization day"
	case score >= 60:
		return "4-day upper/lower split"
	default:
		return "3-day full body split"
	}
}

// intensity scales volume advice by recovery when available
func (e *Engine) intensity(scan *models.ScanResult) string {
	if scan.WhoopData != nil && scan.WhoopData.RecoveryScore != nil {
		switch {
		case *scan.WhoopData.RecoveryScore >= 67:
			return "High: recovery supports heavy compound work"
		case *scan.WhoopData.RecoveryScore >= 34:
			return "Moderate: keep volume controlled, stop short of failure"
		default:
			return "Low: light technique work only until recovery improves"
		}
	}
	return "Moderate: progress load weekly while form holds"
}

// nutritionPlan computes targets when enough profile data is present,
// otherwise falls back to qualitative advice.
func (e *Engine) nutritionPlan(scan *models.ScanResult, profile *models.UserProfile, goal nutrition.Goal) string {
	weight := weightOrEstimate(scan, profile)
	if weight <= 0 || profile == nil || profile.HeightCm == nil || profile.Age == nil {
		return qualitativeNutrition(scan, goal)
	}

	bmr, err := nutrition.BMRKatchMcArdle(weight, scan.Measurements.BodyFatPercent)
	if err != nil {
		return qualitativeNutrition(scan, goal)
	}

	tdee := nutrition.TDEE(bmr, profile.ActivityLevel)
	calories := nutrition.GoalCalories(tdee, goal, scan.Measurements.BodyFatPercent)

	var reasoning string
	if scan.WhoopData != nil && scan.WhoopData.RecoveryScore != nil {
		calories, reasoning = nutrition.RecoveryAdjustment(calories, *scan.WhoopData.RecoveryScore, goal)
	}

	macros := nutrition.MacroSplit(calories, weight)
	if scan.WhoopData != nil && scan.WhoopData.StrainScore != nil {
		macros = nutrition.StrainAdjustment(macros, *scan.WhoopData.StrainScore)
	}

	plan := nutrition.Summary(macros, goal)
	if reasoning != "" {
		plan += "\n" + reasoning
	}
	return plan
}

func weightOrEstimate(scan *models.ScanResult, profile *models.UserProfile) float64 {
	if scan.Measurements.EstimatedWeightKg != nil {
		return *scan.Measurements.EstimatedWeightKg
	}
	if profile != nil && profile.WeightKg != nil {
		return *profile.WeightKg
	}
	return 0
}

func qualitativeNutrition(scan *models.ScanResult, goal nutrition.Goal) string {
	bf := scan.Measurements.BodyFatPercent
	switch goal {
	case nutrition.GoalWeightLoss:
		return "Moderate calorie deficit with at least 2g protein per kg bodyweight"
	case nutrition.GoalMuscleGain:
		if bf > 20 {
			return "Recomposition approach: slight deficit, high protein, progressive training"
		}
		return "Moderate calorie surplus with 2g protein per kg bodyweight"
	default:
		return "Maintenance calories with high protein to support training"
	}
}

// recoveryAdvice renders sleep and recovery guidance from WHOOP data
func (e *Engine) recoveryAdvice(data *models.WhoopData) string {
	var lines []string

	if data.RecoveryScore != nil {
		switch {
		case *data.RecoveryScore >= 67:
			lines = append(lines, "Recovery is strong: a good day for high-intensity training")
		case *data.RecoveryScore >= 34:
			lines = append(lines, "Recovery is moderate: train, but manage volume")
		default:
			lines = append(lines, "Recovery is low: prioritize rest, hydration and sleep today")
		}
	}

	if data.SleepHours != nil && *data.SleepHours < 7 {
		lines = append(lines, fmt.Sprintf("Sleep averaged %.1fh: aim for 7-9 hours to support recovery", *data.SleepHours))
	}

	return strings.Join(lines, "\n")
}

// timelineWeeks estimates weeks to a visible change for the goal
func (e *Engine) timelineWeeks(scan *models.ScanResult, goal nutrition.Goal) int {
	bf := scan.Measurements.BodyFatPercent
	switch goal {
	case nutrition.GoalWeightLoss:
		// ~0.5% body fat per week down to a lean baseline
		excess := bf - 12
		if excess < 1 {
			return 4
		}
		weeks := int(excess * 2)
		if weeks > 52 {
			return 52
		}
		return weeks
	case nutrition.GoalMuscleGain:
		return 12
	case nutrition.GoalRecomp:
		return 16
	default:
		return 8
	}
}
