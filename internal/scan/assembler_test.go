package scan

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reddyfit/bodyscan/internal/classify"
	"github.com/reddyfit/bodyscan/internal/composition"
	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/signature"
)

func testMeasurements() models.BodyMeasurements {
	return models.BodyMeasurements{
		ChestCircumferenceCm: 105,
		WaistCircumferenceCm: 80,
		HipCircumferenceCm:   95,
		BicepCircumferenceCm: 38,
		ThighCircumferenceCm: 58,
		BodyFatPercent:       12.5,
		PostureRating:        7.0,
	}
}

func newTestAssembler() *Assembler {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewAssembler(classify.NewDefaultClassifier(), log)
}

func TestAssembleProducesCompleteResult(t *testing.T) {
	a := newTestAssembler()

	result, err := a.Assemble(Input{
		UserID:       "user-1",
		Gender:       "male",
		Measurements: testMeasurements(),
		Confidence:   models.ConfidenceMetrics{OverallScore: 0.9, MeetsThreshold: true},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if result.ScanID == "" {
		t.Error("missing scan ID")
	}
	if result.APIVersion != "2.0" {
		t.Errorf("APIVersion = %q, want 2.0", result.APIVersion)
	}
	if !composition.ValidFormat(result.CompositionHash) {
		t.Errorf("composition hash %q malformed", result.CompositionHash)
	}
	if !signature.Valid(result.BodySignatureID) {
		t.Errorf("signature ID %q malformed", result.BodySignatureID)
	}
	if result.Ratios.ShoulderToWaistRatio == 0 {
		t.Error("ratios not populated")
	}
	if result.AestheticScore.BodyType == "" {
		t.Error("body type not populated")
	}

	// The signature must encode the same hash and body fat the result
	// carries.
	parsed := signature.Parse(result.BodySignatureID)
	if parsed == nil {
		t.Fatal("signature did not parse")
	}
	if parsed.Hash != result.CompositionHash {
		t.Errorf("signature hash %q != composition hash %q", parsed.Hash, result.CompositionHash)
	}
	if parsed.BodyFat != 12.5 {
		t.Errorf("signature body fat = %v, want 12.5", parsed.BodyFat)
	}
}

func TestAssembleDeterministicHash(t *testing.T) {
	a := newTestAssembler()
	in := Input{UserID: "user-1", Gender: "male", Measurements: testMeasurements()}

	first, err := a.Assemble(in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Assemble(in)
	if err != nil {
		t.Fatal(err)
	}

	if first.CompositionHash != second.CompositionHash {
		t.Errorf("hash not deterministic: %q vs %q", first.CompositionHash, second.CompositionHash)
	}
	if first.ScanID == second.ScanID {
		t.Error("scan IDs must be unique per assembly")
	}
}

func TestAssembleRejectsMissingUser(t *testing.T) {
	a := newTestAssembler()
	if _, err := a.Assemble(Input{Gender: "male", Measurements: testMeasurements()}); err == nil {
		t.Error("expected error for missing user ID")
	}
}

func TestAssembleRejectsZeroWaist(t *testing.T) {
	a := newTestAssembler()
	m := testMeasurements()
	m.WaistCircumferenceCm = 0
	if _, err := a.Assemble(Input{UserID: "u", Gender: "male", Measurements: m}); err == nil {
		t.Error("expected error for zero waist")
	}
}

func TestCompareScans(t *testing.T) {
	a := newTestAssembler()

	older, err := a.Assemble(Input{UserID: "u", Gender: "male", Measurements: testMeasurements()})
	if err != nil {
		t.Fatal(err)
	}
	older.Measurements.BodyFatPercent = 14.5
	older.Timestamp = time.Now().AddDate(0, 0, -30)

	m := testMeasurements()
	m.BodyFatPercent = 12.8
	newer, err := a.Assemble(Input{UserID: "u", Gender: "male", Measurements: m})
	if err != nil {
		t.Fatal(err)
	}

	cmp, err := CompareScans(older, newer)
	if err != nil {
		t.Fatalf("CompareScans() error = %v", err)
	}

	if math.Abs(cmp.BodyFatChange-(-1.7)) > 1e-9 {
		t.Errorf("BodyFatChange = %v, want -1.7", cmp.BodyFatChange)
	}
	if cmp.DaysApart != 30 {
		t.Errorf("DaysApart = %d, want 30", cmp.DaysApart)
	}

	joined := strings.Join(cmp.Summaries, "\n")
	if !strings.Contains(joined, "Excellent") {
		t.Errorf("summaries %v missing fat-loss praise", cmp.Summaries)
	}
}

func TestCompareScansMinimalChanges(t *testing.T) {
	a := newTestAssembler()
	in := Input{UserID: "u", Gender: "male", Measurements: testMeasurements()}

	older, _ := a.Assemble(in)
	newer, _ := a.Assemble(in)

	cmp, err := CompareScans(older, newer)
	if err != nil {
		t.Fatal(err)
	}
	if len(cmp.Summaries) != 1 || !strings.Contains(cmp.Summaries[0], "Minimal changes") {
		t.Errorf("Summaries = %v, want minimal-changes line", cmp.Summaries)
	}
}

func TestCompareScansNil(t *testing.T) {
	if _, err := CompareScans(nil, &models.ScanResult{}); err == nil {
		t.Error("expected error for nil scan")
	}
}

func TestValidateScanResult(t *testing.T) {
	a := newTestAssembler()
	result, err := a.Assemble(Input{
		UserID:       "u",
		Gender:       "male",
		Measurements: testMeasurements(),
		Confidence:   models.ConfidenceMetrics{OverallScore: 0.9},
	})
	if err != nil {
		t.Fatal(err)
	}

	errs, warnings := ValidateScanResult(result)
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidateScanResultFlagsProblems(t *testing.T) {
	result := &models.ScanResult{
		Measurements: models.BodyMeasurements{
			ChestCircumferenceCm: 90,
			WaistCircumferenceCm: 115,
			BodyFatPercent:       3.5,
		},
		Confidence: models.ConfidenceMetrics{OverallScore: 0.5},
		AestheticScore: models.AestheticScore{
			OverallScore:     80,
			GoldenRatioScore: 40,
			SymmetryScore:    20,
			CompositionScore: 10,
			PostureScore:     5, // sums to 75, drift 5
		},
	}

	errs, warnings := ValidateScanResult(result)
	if len(errs) != 3 {
		t.Errorf("errors = %v, want signature, hash and drift errors", errs)
	}
	if len(warnings) != 3 {
		t.Errorf("warnings = %v, want waist, body fat and confidence warnings", warnings)
	}
}

func TestQuickSummary(t *testing.T) {
	a := newTestAssembler()
	result, err := a.Assemble(Input{UserID: "u", Gender: "male", Measurements: testMeasurements()})
	if err != nil {
		t.Fatal(err)
	}

	summary := QuickSummary(result)
	if !strings.Contains(summary, "12.5% body fat") {
		t.Errorf("QuickSummary() = %q", summary)
	}
	if !strings.Contains(summary, result.CompositionHash) {
		t.Errorf("QuickSummary() = %q missing hash", summary)
	}

	report := Report(result)
	for _, want := range []string{result.ScanID, result.BodySignatureID, "Aesthetic score"} {
		if !strings.Contains(report, want) {
			t.Errorf("Report() missing %q", want)
		}
	}
}
