package symmetry

import (
	"strings"
	"testing"

	"github.com/reddyfit/bodyscan/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestDetectAsymmetries(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name     string
		ratios   models.BodyRatios
		m        models.BodyMeasurements
		gender   string
		contains []string
	}{
		{
			name: "narrow shoulders and underdeveloped chest",
			ratios: models.BodyRatios{
				ShoulderToWaistRatio: 1.1,
				WaistToHipRatio:      0.90,
				ChestToWaistRatio:    1.05,
				ArmToChestRatio:      0.37,
			},
			m:      models.BodyMeasurements{BodyFatPercent: 15},
			gender: "male",
			contains: []string{
				"Narrow shoulders relative to waist",
				"Underdeveloped chest",
			},
		},
		{
			name: "elite shoulders with health-risk waist",
			ratios: models.BodyRatios{
				ShoulderToWaistRatio: 1.85,
				WaistToHipRatio:      0.97,
				ChestToWaistRatio:    1.3,
				ArmToChestRatio:      0.38,
			},
			m:      models.BodyMeasurements{BodyFatPercent: 18},
			gender: "male",
			contains: []string{
				"Very broad shoulders (elite proportion)",
				"Wide waist relative to hips (health risk)",
			},
		},
		{
			name: "female narrow waist",
			ratios: models.BodyRatios{
				ShoulderToWaistRatio: 1.4,
				WaistToHipRatio:      0.62,
				ChestToWaistRatio:    1.25,
				ArmToChestRatio:      0.37,
			},
			m:      models.BodyMeasurements{BodyFatPercent: 20},
			gender: "female",
			contains: []string{
				"Very narrow waist (excellent proportion)",
			},
		},
		{
			name: "underdeveloped legs and high body fat",
			ratios: models.BodyRatios{
				ShoulderToWaistRatio: 1.4,
				WaistToHipRatio:      0.90,
				ChestToWaistRatio:    1.25,
				ArmToChestRatio:      0.37,
				LegToTorsoRatio:      floatPtr(0.60),
			},
			m:      models.BodyMeasurements{BodyFatPercent: 27},
			gender: "male",
			contains: []string{
				"Underdeveloped legs relative to upper body",
				"High body fat (consider reduction)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := a.DetectAsymmetries(tt.ratios, tt.m, tt.gender)
			for _, want := range tt.contains {
				found := false
				for _, f := range findings {
					if f == want {
						found = true
					}
				}
				if !found {
					t.Errorf("findings %v missing %q", findings, want)
				}
			}
		})
	}
}

func TestDetectAsymmetriesBalanced(t *testing.T) {
	a := NewAnalyzer()
	r := models.BodyRatios{
		ShoulderToWaistRatio: 1.5,
		WaistToHipRatio:      0.90,
		ChestToWaistRatio:    1.3,
		ArmToChestRatio:      0.38,
		LegToTorsoRatio:      floatPtr(0.75),
	}
	findings := a.DetectAsymmetries(r, models.BodyMeasurements{BodyFatPercent: 14}, "male")
	if len(findings) != 0 {
		t.Errorf("expected no findings for balanced inputs, got %v", findings)
	}
}

func TestRecommendations(t *testing.T) {
	a := NewAnalyzer()

	recs := a.Recommendations([]string{
		"Narrow shoulders relative to waist",
		"High body fat (consider reduction)",
	})
	joined := strings.Join(recs, "\n")
	if !strings.Contains(joined, "lateral raises") {
		t.Errorf("missing shoulder recommendation in %v", recs)
	}
	if !strings.Contains(joined, "calorie deficit") {
		t.Errorf("missing fat-loss recommendation in %v", recs)
	}
}

func TestRecommendationsMaintenanceDefault(t *testing.T) {
	a := NewAnalyzer()
	recs := a.Recommendations(nil)
	if len(recs) != 2 {
		t.Fatalf("expected 2 maintenance recommendations, got %d", len(recs))
	}
	if !strings.Contains(recs[0], "Maintain") {
		t.Errorf("unexpected maintenance advice: %v", recs)
	}
}

func TestProportionScores(t *testing.T) {
	a := NewAnalyzer()

	r := models.BodyRatios{
		ShoulderToWaistRatio: 1.6,
		WaistToHipRatio:      0.90,
		ChestToWaistRatio:    1.3,
		ArmToChestRatio:      0.38,
	}
	scores := a.ProportionScores(r)
	for _, key := range []string{"shoulders", "waist", "chest", "arms"} {
		if scores[key] != 100 {
			t.Errorf("%s = %v, want 100", key, scores[key])
		}
	}
	if scores["overall"] != 100 {
		t.Errorf("overall = %v, want 100", scores["overall"])
	}

	r.ShoulderToWaistRatio = 1.0
	scores = a.ProportionScores(r)
	if scores["shoulders"] != 50 {
		t.Errorf("shoulders = %v, want 50", scores["shoulders"])
	}
	if scores["overall"] != 87.5 {
		t.Errorf("overall = %v, want 87.5", scores["overall"])
	}
}

func TestMuscleBalance(t *testing.T) {
	a := NewAnalyzer()

	m := models.BodyMeasurements{
		ChestCircumferenceCm: 105,
		WaistCircumferenceCm: 80,
		BicepCircumferenceCm: 40,
		ThighCircumferenceCm: 60,
	}
	balance := a.MuscleBalance(m)

	if !strings.Contains(balance["chest_vs_waist"], "Strong") {
		t.Errorf("chest_vs_waist = %q", balance["chest_vs_waist"])
	}
	// expected bicep 105*0.38 = 39.9, measured 40 - proportionate
	if !strings.Contains(balance["arms_vs_chest"], "proportionate") {
		t.Errorf("arms_vs_chest = %q", balance["arms_vs_chest"])
	}
	// expected thigh 80*0.75 = 60, measured 60 - proportionate
	if !strings.Contains(balance["legs_vs_torso"], "proportionate") {
		t.Errorf("legs_vs_torso = %q", balance["legs_vs_torso"])
	}

	m.BicepCircumferenceCm = 33
	m.ThighCircumferenceCm = 50
	balance = a.MuscleBalance(m)
	if !strings.Contains(balance["arms_vs_chest"], "lagging") {
		t.Errorf("arms_vs_chest = %q", balance["arms_vs_chest"])
	}
	if !strings.Contains(balance["legs_vs_torso"], "lagging") {
		t.Errorf("legs_vs_torso = %q", balance["legs_vs_torso"])
	}
}
