// Package scan assembles validated measurements and analysis outputs
// into the final immutable scan result, and provides comparison and
// validation over assembled scans.
package scan

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/reddyfit/bodyscan/internal/classify"
	"github.com/reddyfit/bodyscan/internal/composition"
	"github.com/reddyfit/bodyscan/internal/errors"
	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/ratios"
	"github.com/reddyfit/bodyscan/internal/signature"
	"github.com/reddyfit/bodyscan/internal/symmetry"
)

// APIVersion marks the result schema produced by this assembler
const APIVersion = "2.0"

// Input carries everything the assembler needs for one scan
type Input struct {
	UserID       string
	Gender       string
	Measurements models.BodyMeasurements
	Confidence   models.ConfidenceMetrics

	ImageURLs      map[models.AngleType]string
	ImageQuality   map[models.AngleType]models.ImageQuality
	DetectedAngles map[models.AngleType]models.PhotoAngle

	WhoopData *models.WhoopData
	StartedAt time.Time
}

// Assembler runs the full analysis pipeline over a validated
// measurement set. The component order is fixed: ratios feed the
// asymmetry analysis, the hash and the classifier; classification
// feeds the aesthetic score; everything feeds the signature.
type Assembler struct {
	analyzer   *symmetry.Analyzer
	classifier *classify.Classifier
	scorer     *classify.AestheticScorer
	log        *logrus.Logger
}

// NewAssembler wires the analysis components together
func NewAssembler(classifier *classify.Classifier, log *logrus.Logger) *Assembler {
	if log == nil {
		log = logrus.New()
	}
	return &Assembler{
		analyzer:   symmetry.NewAnalyzer(),
		classifier: classifier,
		scorer:     classify.NewAestheticScorer(),
		log:        log,
	}
}

// Assemble runs the pipeline and returns the complete scan result
func (a *Assembler) Assemble(in Input) (*models.ScanResult, error) {
	if in.UserID == "" {
		return nil, errors.InvalidInputError("user id is required")
	}

	bodyRatios, err := ratios.Calculate(in.Measurements, in.Gender)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInvalidInput, errors.SeverityHigh, "ratio calculation failed")
	}

	asymmetries := a.analyzer.DetectAsymmetries(bodyRatios, in.Measurements, in.Gender)

	hash := composition.Hash(in.Measurements, bodyRatios)

	bodyType, typeConfidence := a.classifier.Classify(bodyRatios, in.Measurements)

	aesthetic := a.scorer.Score(bodyRatios, in.Measurements, in.Measurements.PostureRating)
	aesthetic.BodyType = bodyType
	aesthetic.BodyTypeConfidence = typeConfidence

	sigID := signature.Generate(bodyType, in.Measurements.BodyFatPercent, hash, bodyRatios.AdonisIndex)

	startedAt := in.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	result := &models.ScanResult{
		ScanID:          uuid.New().String(),
		BodySignatureID: sigID,
		UserID:          in.UserID,
		Timestamp:       time.Now().UTC(),

		ImageURLs:      in.ImageURLs,
		ImageQuality:   in.ImageQuality,
		DetectedAngles: in.DetectedAngles,

		Measurements:    in.Measurements,
		Ratios:          bodyRatios,
		Asymmetries:     asymmetries,
		AestheticScore:  aesthetic,
		CompositionHash: hash,

		WhoopData: in.WhoopData,

		Confidence:        in.Confidence,
		ProcessingTimeSec: time.Since(startedAt).Seconds(),
		APIVersion:        APIVersion,
	}

	a.log.WithFields(logrus.Fields{
		"scan_id":   result.ScanID,
		"user_id":   result.UserID,
		"body_type": bodyType,
		"score":     aesthetic.OverallScore,
	}).Info("Scan assembled")

	return result, nil
}

// Comparison summarizes the change between two scans of the same user
type Comparison struct {
	BodyFatChange   float64  `json:"body_fat_change"`
	ScoreChange     float64  `json:"score_change"`
	AdonisChange    float64  `json:"adonis_change"`
	SymmetryChange  float64  `json:"symmetry_change"`
	DaysApart       int      `json:"days_apart"`
	BodyTypeChanged bool     `json:"body_type_changed"`
	Summaries       []string `json:"summaries"`
}

// CompareScans diffs two scan results, oldest first
func CompareScans(older, newer *models.ScanResult) (*Comparison, error) {
	if older == nil || newer == nil {
		return nil, errors.InvalidInputError("both scans are required for comparison")
	}

	cmp := &Comparison{
		BodyFatChange:   round1(newer.Measurements.BodyFatPercent - older.Measurements.BodyFatPercent),
		ScoreChange:     round1(newer.AestheticScore.OverallScore - older.AestheticScore.OverallScore),
		AdonisChange:    round2(newer.Ratios.AdonisIndex - older.Ratios.AdonisIndex),
		SymmetryChange:  round1(newer.Ratios.SymmetryScore - older.Ratios.SymmetryScore),
		DaysApart:       int(newer.Timestamp.Sub(older.Timestamp).Hours() / 24),
		BodyTypeChanged: older.AestheticScore.BodyType != newer.AestheticScore.BodyType,
	}

	if cmp.BodyFatChange < -1 {
		cmp.Summaries = append(cmp.Summaries,
			fmt.Sprintf("Lost %.1f%% body fat - Excellent!", -cmp.BodyFatChange))
	} else if cmp.BodyFatChange > 1 {
		cmp.Summaries = append(cmp.Summaries,
			fmt.Sprintf("Gained %.1f%% body fat", cmp.BodyFatChange))
	}

	if cmp.ScoreChange > 5 {
		cmp.Summaries = append(cmp.Summaries,
			fmt.Sprintf("Aesthetic score improved by %.1f points", cmp.ScoreChange))
	} else if cmp.ScoreChange < -5 {
		cmp.Summaries = append(cmp.Summaries,
			fmt.Sprintf("Aesthetic score decreased by %.1f points", -cmp.ScoreChange))
	}

	if cmp.AdonisChange > 0.05 {
		cmp.Summaries = append(cmp.Summaries,
			"Improved shoulder:waist ratio (better V-taper)")
	}

	if cmp.BodyTypeChanged {
		cmp.Summaries = append(cmp.Summaries,
			fmt.Sprintf("Body type changed from %s to %s",
				older.AestheticScore.BodyType, newer.AestheticScore.BodyType))
	}

	if len(cmp.Summaries) == 0 {
		cmp.Summaries = append(cmp.Summaries, "Minimal changes - maintain consistency")
	}

	return cmp, nil
}

// ValidateScanResult checks an assembled scan for structural problems.
// Errors are data-integrity failures; warnings flag suspicious but
// acceptable values.
func ValidateScanResult(result *models.ScanResult) (errs []string, warnings []string) {
	if result.BodySignatureID == "" {
		errs = append(errs, "missing body signature ID")
	}
	if result.CompositionHash == "" {
		errs = append(errs, "missing composition hash")
	}

	m := result.Measurements
	if m.WaistCircumferenceCm > m.ChestCircumferenceCm*1.2 {
		warnings = append(warnings, "waist measurement unusually large relative to chest")
	}
	if m.BodyFatPercent < 5 || m.BodyFatPercent > 50 {
		warnings = append(warnings, fmt.Sprintf("body fat %.1f%% outside typical range", m.BodyFatPercent))
	}
	if result.Confidence.OverallScore < 0.7 {
		warnings = append(warnings, fmt.Sprintf("low confidence score %.2f", result.Confidence.OverallScore))
	}

	// Sub-scores summing away from the overall means a component was
	// recomputed without reassembly.
	drift := math.Abs(result.AestheticScore.ComponentSum() - result.AestheticScore.OverallScore)
	if drift > 0.5 {
		errs = append(errs, fmt.Sprintf("aesthetic sub-scores drift %.2f from overall", drift))
	}

	return errs, warnings
}

// QuickSummary renders a one-line description of a scan
func QuickSummary(result *models.ScanResult) string {
	return fmt.Sprintf("%s physique, %.1f%% body fat, aesthetic score %.1f (%s)",
		result.AestheticScore.BodyType,
		result.Measurements.BodyFatPercent,
		result.AestheticScore.OverallScore,
		signature.ShortID(result.BodySignatureID))
}

// Report renders a multi-line plain-text report of a scan
func Report(result *models.ScanResult) string {
	var b strings.Builder
	divider := strings.Repeat("=", 60) + "\n"

	b.WriteString(divider)
	fmt.Fprintf(&b, "Scan %s\n", result.ScanID)
	fmt.Fprintf(&b, "Signature: %s\n", result.BodySignatureID)
	b.WriteString(divider)

	score := result.AestheticScore
	fmt.Fprintf(&b, "Body type:       %s (%.0f%% confidence)\n", score.BodyType, score.BodyTypeConfidence*100)
	fmt.Fprintf(&b, "Aesthetic score: %.1f/100\n", score.OverallScore)
	fmt.Fprintf(&b, "  Golden ratio:  %.1f/40\n", score.GoldenRatioScore)
	fmt.Fprintf(&b, "  Symmetry:      %.1f/30\n", score.SymmetryScore)
	fmt.Fprintf(&b, "  Composition:   %.1f/20\n", score.CompositionScore)
	fmt.Fprintf(&b, "  Posture:       %.1f/10\n", score.PostureScore)

	fmt.Fprintf(&b, "\nAdonis Index:    %.3f (ideal 1.618)\n", result.Ratios.AdonisIndex)
	fmt.Fprintf(&b, "Waist:Hip:       %.3f\n", result.Ratios.WaistToHipRatio)
	fmt.Fprintf(&b, "Chest:Waist:     %.3f\n", result.Ratios.ChestToWaistRatio)
	fmt.Fprintf(&b, "Body fat:        %.1f%%\n", result.Measurements.BodyFatPercent)

	if len(result.Asymmetries) > 0 {
		b.WriteString("\nFindings:\n")
		for _, finding := range result.Asymmetries {
			fmt.Fprintf(&b, "  - %s\n", finding)
		}
	}

	fmt.Fprintf(&b, "\nConfidence: %.3f", result.Confidence.OverallScore)
	if result.Confidence.MeetsThreshold {
		b.WriteString(" (reliable)\n")
	} else {
		b.WriteString(" (below threshold, retake photos for a better read)\n")
	}

	if rec := result.Recommendations; rec != nil {
		if len(rec.KeyFocusAreas) > 0 {
			fmt.Fprintf(&b, "\nFocus areas: %s\n", strings.Join(rec.KeyFocusAreas, ", "))
		}
		if rec.EstimatedTimelineWeeks != nil {
			fmt.Fprintf(&b, "Estimated timeline: %d weeks\n", *rec.EstimatedTimelineWeeks)
		}
	}

	return b.String()
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
