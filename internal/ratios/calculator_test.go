package ratios

import (
	"math"
	"testing"

	"github.com/reddyfit/bodyscan/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestAdonisIndex(t *testing.T) {
	tests := []struct {
		name     string
		shoulder float64
		waist    float64
		expected float64
		wantErr  bool
	}{
		{"Typical narrow build", 50, 80, 0.625, false},
		{"Golden ratio build", 129.44, 80, 1.618, false},
		{"Athletic taper", 120, 80, 1.5, false},
		{"Zero waist rejected", 50, 0, 0, true},
		{"Negative waist rejected", 50, -10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdonisIndex(tt.shoulder, tt.waist)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("AdonisIndex(%v, %v) expected error, got nil", tt.shoulder, tt.waist)
				}
				return
			}
			if err != nil {
				t.Fatalf("AdonisIndex(%v, %v) unexpected error: %v", tt.shoulder, tt.waist, err)
			}
			if got != tt.expected {
				t.Errorf("AdonisIndex(%v, %v) = %v, want %v", tt.shoulder, tt.waist, got, tt.expected)
			}
		})
	}
}

func TestGoldenRatioProximity(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		expected float64
	}{
		{"Exact golden ratio", 1.618, 100},
		{"Far below golden ratio", 0.625, 0},
		{"Above 50 percent deviation", 2.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GoldenRatioProximity(tt.actual); got != tt.expected {
				t.Errorf("GoldenRatioProximity(%v) = %v, want %v", tt.actual, got, tt.expected)
			}
		})
	}
}

func TestScoreRatio(t *testing.T) {
	ideal := IdealRange{1.4, 1.7}

	tests := []struct {
		name    string
		actual  float64
		minWant float64
		maxWant float64
	}{
		// Midpoint lands a hair under 100 in floating point
		{"Band midpoint scores ~100", 1.55, 99.999, 100},
		{"Band edge scores 80", 1.4, 80, 80},
		{"Inside band stays 80-100", 1.5, 80, 100},
		{"Just below band under 80", 1.35, 0, 80},
		{"Far below band scores 0", 0.5, 0, 0},
		{"Far above band scores 0", 3.0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreRatio(tt.actual, ideal)
			if got < tt.minWant || got > tt.maxWant {
				t.Errorf("ScoreRatio(%v) = %v, want in [%v, %v]", tt.actual, got, tt.minWant, tt.maxWant)
			}
		})
	}
}

func TestScoreRatioMonotonicOutsideBand(t *testing.T) {
	ideal := IdealRange{1.4, 1.7}
	prev := ScoreRatio(1.39, ideal)
	for _, v := range []float64{1.3, 1.2, 1.1, 1.0, 0.9} {
		got := ScoreRatio(v, ideal)
		if got > prev {
			t.Errorf("ScoreRatio(%v) = %v, expected <= %v (decay should be monotonic)", v, got, prev)
		}
		prev = got
	}
}

func TestCalculate(t *testing.T) {
	m := models.BodyMeasurements{
		ChestCircumferenceCm: 105,
		WaistCircumferenceCm: 80,
		HipCircumferenceCm:   95,
		BicepCircumferenceCm: 38,
		ThighCircumferenceCm: 58,
		ShoulderWidthCm:      floatPtr(50),
		BodyFatPercent:       12.5,
		PostureRating:        7,
	}

	r, err := Calculate(m, "male")
	if err != nil {
		t.Fatalf("Calculate() unexpected error: %v", err)
	}

	if r.AdonisIndex != 0.625 {
		t.Errorf("AdonisIndex = %v, want 0.625", r.AdonisIndex)
	}
	if r.ShoulderToWaistRatio != r.AdonisIndex {
		t.Errorf("ShoulderToWaistRatio = %v, want same as AdonisIndex %v", r.ShoulderToWaistRatio, r.AdonisIndex)
	}
	if want := math.Abs(0.625 - GoldenRatio); math.Abs(r.GoldenRatioDeviation-want) > 1e-9 {
		t.Errorf("GoldenRatioDeviation = %v, want %v", r.GoldenRatioDeviation, want)
	}
	if r.WaistToHipRatio != 0.842 {
		t.Errorf("WaistToHipRatio = %v, want 0.842", r.WaistToHipRatio)
	}
	if r.ChestToWaistRatio != 1.313 {
		t.Errorf("ChestToWaistRatio = %v, want 1.313", r.ChestToWaistRatio)
	}
	if r.ArmToChestRatio != 0.362 {
		t.Errorf("ArmToChestRatio = %v, want 0.362", r.ArmToChestRatio)
	}
	if r.LegToTorsoRatio == nil || *r.LegToTorsoRatio != 0.725 {
		t.Errorf("LegToTorsoRatio = %v, want 0.725", r.LegToTorsoRatio)
	}
	if r.SymmetryScore < 0 || r.SymmetryScore > 100 {
		t.Errorf("SymmetryScore = %v, want within [0, 100]", r.SymmetryScore)
	}
}

func TestCalculateShoulderEstimate(t *testing.T) {
	m := models.BodyMeasurements{
		ChestCircumferenceCm: 100,
		WaistCircumferenceCm: 80,
		HipCircumferenceCm:   95,
		BicepCircumferenceCm: 36,
		ThighCircumferenceCm: 55,
		BodyFatPercent:       15,
		PostureRating:        6,
	}

	r, err := Calculate(m, "")
	if err != nil {
		t.Fatalf("Calculate() unexpected error: %v", err)
	}

	// Without a measured shoulder width, shoulders = chest * 1.15, which
	// computes a hair under 115 in floating point, so 3 dp rounding
	// lands on 1.437 rather than 1.438
	if want := 1.437; r.AdonisIndex != want {
		t.Errorf("AdonisIndex with estimated shoulders = %v, want %v", r.AdonisIndex, want)
	}
}

func TestCalculateZeroWaist(t *testing.T) {
	m := models.BodyMeasurements{
		ChestCircumferenceCm: 100,
		WaistCircumferenceCm: 0,
		HipCircumferenceCm:   95,
		BicepCircumferenceCm: 36,
		ThighCircumferenceCm: 55,
	}

	if _, err := Calculate(m, ""); err == nil {
		t.Fatal("Calculate() with zero waist expected error, got nil")
	}
}

func TestSymmetryScoreGenderBands(t *testing.T) {
	// WHR 0.70 is ideal for females, poor for males; all other inputs equal
	male := SymmetryScore(1.55, 0.70, 1.3, 0.38, nil, "male")
	female := SymmetryScore(1.55, 0.70, 1.3, 0.38, nil, "female")

	if female <= male {
		t.Errorf("female symmetry %v should exceed male %v at WHR 0.70", female, male)
	}
}

func TestInterpretation(t *testing.T) {
	tests := []struct {
		ratio    string
		value    float64
		expected string
	}{
		{"shoulder_to_waist", 1.0, "Narrow shoulders"},
		{"shoulder_to_waist", 1.55, "Athletic V-taper"},
		{"shoulder_to_waist", 2.1, "Elite V-taper"},
		{"waist_to_hip", 0.9, "Average"},
		{"chest_to_waist", 1.3, "Well-developed"},
		{"arm_to_chest", 0.38, "Well-proportioned"},
		{"unknown_ratio", 1.0, "No interpretation available"},
	}

	for _, tt := range tests {
		if got := Interpretation(tt.ratio, tt.value); got != tt.expected {
			t.Errorf("Interpretation(%q, %v) = %q, want %q", tt.ratio, tt.value, got, tt.expected)
		}
	}
}
