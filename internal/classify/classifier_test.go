package classify

import (
	"strings"
	"testing"

	"github.com/reddyfit/bodyscan/internal/models"
)

func TestClassifyVTaper(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name       string
		ratios     models.BodyRatios
		wantType   models.BodyType
		wantConf   float64
	}{
		{
			name: "strong v-taper",
			ratios: models.BodyRatios{
				ShoulderToWaistRatio: 1.65,
				ChestToWaistRatio:    1.35,
				WaistToHipRatio:      0.80,
				SymmetryScore:        75,
			},
			wantType: models.BodyTypeVTaper,
			wantConf: 0.95,
		},
		{
			name: "moderate v-taper",
			ratios: models.BodyRatios{
				ShoulderToWaistRatio: 1.45,
				ChestToWaistRatio:    1.32,
				WaistToHipRatio:      0.80,
				SymmetryScore:        70,
			},
			wantType: models.BodyTypeVTaper,
			wantConf: 0.80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotConf := c.Classify(tt.ratios, models.BodyMeasurements{})
			if gotType != tt.wantType {
				t.Errorf("Classify() type = %v, want %v", gotType, tt.wantType)
			}
			if gotConf != tt.wantConf {
				t.Errorf("Classify() confidence = %v, want %v", gotConf, tt.wantConf)
			}
		})
	}
}

func TestClassifyHighestConfidenceWins(t *testing.T) {
	c := NewDefaultClassifier()

	// Fires Classic (0.85), Balanced (0.90) and moderate V-Taper (0.80);
	// Balanced must win.
	r := models.BodyRatios{
		ShoulderToWaistRatio: 1.50,
		ChestToWaistRatio:    1.30,
		WaistToHipRatio:      0.90,
		SymmetryScore:        90,
	}

	candidates := c.Candidates(r, models.BodyMeasurements{})
	if len(candidates) != 3 {
		t.Fatalf("Candidates() = %d rules fired, want 3", len(candidates))
	}

	gotType, gotConf := c.Classify(r, models.BodyMeasurements{})
	if gotType != models.BodyTypeBalanced {
		t.Errorf("Classify() type = %v, want %v", gotType, models.BodyTypeBalanced)
	}
	if gotConf != 0.90 {
		t.Errorf("Classify() confidence = %v, want 0.90", gotConf)
	}
}

func TestClassifyFallback(t *testing.T) {
	c := NewDefaultClassifier()

	// Nothing fires: modest taper, whr outside every band's trigger.
	r := models.BodyRatios{
		ShoulderToWaistRatio: 1.25,
		ChestToWaistRatio:    1.15,
		WaistToHipRatio:      0.88,
		SymmetryScore:        70,
	}
	m := models.BodyMeasurements{
		ChestCircumferenceCm: 100,
		HipCircumferenceCm:   95,
		BodyFatPercent:       15,
	}

	gotType, gotConf := c.Classify(r, m)
	if gotType != models.BodyTypeRectangular {
		t.Errorf("Classify() type = %v, want %v", gotType, models.BodyTypeRectangular)
	}
	if gotConf != 0.60 {
		t.Errorf("Classify() confidence = %v, want 0.60", gotConf)
	}
}

func TestClassifyAppleAndPear(t *testing.T) {
	c := NewDefaultClassifier()

	apple := models.BodyRatios{
		ShoulderToWaistRatio: 1.22,
		ChestToWaistRatio:    1.05,
		WaistToHipRatio:      1.02,
		SymmetryScore:        60,
	}
	gotType, _ := c.Classify(apple, models.BodyMeasurements{BodyFatPercent: 26})
	if gotType != models.BodyTypeApple {
		t.Errorf("apple inputs classified as %v", gotType)
	}

	pear := models.BodyRatios{
		ShoulderToWaistRatio: 1.25,
		ChestToWaistRatio:    1.05,
		WaistToHipRatio:      0.78,
		SymmetryScore:        60,
	}
	m := models.BodyMeasurements{
		ChestCircumferenceCm: 90,
		HipCircumferenceCm:   105,
		BodyFatPercent:       22,
	}
	gotType, _ = c.Classify(pear, m)
	if gotType != models.BodyTypePear {
		t.Errorf("pear inputs classified as %v", gotType)
	}
}

func TestDescriptionCoversAllTypes(t *testing.T) {
	for _, bt := range []models.BodyType{
		models.BodyTypeVTaper,
		models.BodyTypeClassic,
		models.BodyTypeRectangular,
		models.BodyTypeApple,
		models.BodyTypePear,
		models.BodyTypeBalanced,
	} {
		if desc := Description(bt); desc == "" || strings.Contains(desc, "not available") {
			t.Errorf("Description(%v) missing", bt)
		}
	}
}

func TestTrainingRecommendationsBodyFatAdditions(t *testing.T) {
	recs := TrainingRecommendations(models.BodyTypeVTaper, models.BodyMeasurements{BodyFatPercent: 22})
	found := false
	for _, r := range recs {
		if strings.Contains(r, "Reduce body fat") {
			found = true
		}
	}
	if !found {
		t.Error("expected fat-loss recommendation above 20% body fat")
	}

	recs = TrainingRecommendations(models.BodyTypeClassic, models.BodyMeasurements{BodyFatPercent: 8})
	found = false
	for _, r := range recs {
		if strings.Contains(r, "bulk") {
			found = true
		}
	}
	if !found {
		t.Error("expected bulk recommendation below 10% body fat")
	}
}
