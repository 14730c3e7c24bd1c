package recommend

import (
	"strings"
	"testing"

	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/nutrition"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }

func baseScan() *models.ScanResult {
	return &models.ScanResult{
		Measurements: models.BodyMeasurements{
			ChestCircumferenceCm: 105,
			WaistCircumferenceCm: 80,
			HipCircumferenceCm:   95,
			BicepCircumferenceCm: 38,
			ThighCircumferenceCm: 58,
			BodyFatPercent:       14,
			EstimatedWeightKg:    floatPtr(80),
		},
		Ratios: models.BodyRatios{
			ShoulderToWaistRatio: 1.51,
			WaistToHipRatio:      0.84,
			ChestToWaistRatio:    1.31,
			ArmToChestRatio:      0.36,
			SymmetryScore:        88,
		},
		AestheticScore: models.AestheticScore{
			OverallScore: 78,
			BodyType:     models.BodyTypeVTaper,
		},
	}
}

func TestGenerateCompletePlan(t *testing.T) {
	e := NewEngine()

	profile := &models.UserProfile{
		UID:           "u1",
		Age:           intPtr(30),
		HeightCm:      floatPtr(180),
		WeightKg:      floatPtr(80),
		ActivityLevel: "moderately_active",
	}

	rec := e.Generate(Input{Scan: baseScan(), Profile: profile, Goal: nutrition.GoalMuscleGain})

	if rec.WorkoutPlan == "" {
		t.Error("workout plan missing")
	}
	if !strings.Contains(rec.NutritionPlan, "kcal/day") {
		t.Errorf("nutrition plan not quantitative: %q", rec.NutritionPlan)
	}
	if len(rec.KeyFocusAreas) == 0 {
		t.Error("focus areas missing")
	}
	if rec.EstimatedTimelineWeeks == nil || *rec.EstimatedTimelineWeeks != 12 {
		t.Errorf("timeline = %v, want 12 weeks for muscle gain", rec.EstimatedTimelineWeeks)
	}
}

func TestGenerateQualitativeFallback(t *testing.T) {
	e := NewEngine()

	scan := baseScan()
	scan.Measurements.EstimatedWeightKg = nil

	rec := e.Generate(Input{Scan: scan, Goal: nutrition.GoalWeightLoss})
	if strings.Contains(rec.NutritionPlan, "kcal/day") {
		t.Errorf("expected qualitative plan without profile, got %q", rec.NutritionPlan)
	}
	if !strings.Contains(rec.NutritionPlan, "deficit") {
		t.Errorf("NutritionPlan = %q", rec.NutritionPlan)
	}
}

func TestFocusAreasFromAsymmetries(t *testing.T) {
	e := NewEngine()

	scan := baseScan()
	scan.Asymmetries = []string{
		"Narrow shoulders relative to waist",
		"Underdeveloped chest",
		"High body fat (consider reduction)",
	}
	scan.AestheticScore.BodyType = models.BodyTypeRectangular

	areas := e.focusAreas(scan)
	joined := strings.Join(areas, ",")
	for _, want := range []string{"shoulder width", "chest development", "fat loss", "back width"} {
		if !strings.Contains(joined, want) {
			t.Errorf("focus areas %v missing %q", areas, want)
		}
	}

	// dedup: rectangular also adds shoulder width, must appear once
	count := 0
	for _, a := range areas {
		if a == "shoulder width" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shoulder width appears %d times", count)
	}
}

func TestTrainingSplitByScore(t *testing.T) {
	e := NewEngine()
	scan := baseScan()

	scan.AestheticScore.OverallScore = 80
	if s := e.trainingSplit(scan); !strings.Contains(s, "5-day") {
		t.Errorf("split = %q", s)
	}
	scan.AestheticScore.OverallScore = 65
	if s := e.trainingSplit(scan); !strings.Contains(s, "upper/lower") {
		t.Errorf("split = %q", s)
	}
	scan.AestheticScore.OverallScore = 40
	if s := e.trainingSplit(scan); !strings.Contains(s, "full body") {
		t.Errorf("split = %q", s)
	}
}

func TestIntensityFollowsRecovery(t *testing.T) {
	e := NewEngine()
	scan := baseScan()

	scan.WhoopData = &models.WhoopData{HasData: true, RecoveryScore: floatPtr(85)}
	if s := e.intensity(scan); !strings.HasPrefix(s, "High") {
		t.Errorf("intensity = %q", s)
	}
	scan.WhoopData.RecoveryScore = floatPtr(20)
	if s := e.intensity(scan); !strings.HasPrefix(s, "Low") {
		t.Errorf("intensity = %q", s)
	}
	scan.WhoopData = nil
	if s := e.intensity(scan); !strings.HasPrefix(s, "Moderate") {
		t.Errorf("intensity = %q", s)
	}
}

func TestRecoveryAdviceIncluded(t *testing.T) {
	e := NewEngine()
	scan := baseScan()
	scan.WhoopData = &models.WhoopData{
		HasData:       true,
		RecoveryScore: floatPtr(25),
		SleepHours:    floatPtr(5.5),
	}

	rec := e.Generate(Input{Scan: scan, Goal: nutrition.GoalMaintenance})
	if !strings.Contains(rec.RecoveryAdvice, "Recovery is low") {
		t.Errorf("RecoveryAdvice = %q", rec.RecoveryAdvice)
	}
	if !strings.Contains(rec.RecoveryAdvice, "7-9 hours") {
		t.Errorf("RecoveryAdvice = %q missing sleep guidance", rec.RecoveryAdvice)
	}
}

func TestTimelineWeeks(t *testing.T) {
	e := NewEngine()
	scan := baseScan()

	scan.Measurements.BodyFatPercent = 22
	if w := e.timelineWeeks(scan, nutrition.GoalWeightLoss); w != 20 {
		t.Errorf("weight loss timeline = %d, want 20", w)
	}
	scan.Measurements.BodyFatPercent = 12
	if w := e.timelineWeeks(scan, nutrition.GoalWeightLoss); w != 4 {
		t.Errorf("lean weight loss timeline = %d, want 4", w)
	}
	if w := e.timelineWeeks(scan, nutrition.GoalRecomp); w != 16 {
		t.Errorf("recomp timeline = %d, want 16", w)
	}
}
