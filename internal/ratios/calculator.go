package ratios

import (
	"math"
	"strings"

	"github.com/reddyfit/bodyscan/internal/errors"
	"github.com/reddyfit/bodyscan/internal/models"
)

// GoldenRatio is the aesthetic ideal for the shoulder:waist proportion
const GoldenRatio = 1.618

// IdealRange is an inclusive [Min, Max] band a ratio is scored against
type IdealRange struct {
	Min float64
	Max float64
}

// Ideal ratio bands used for symmetry scoring. The waist:hip band is
// gender-dependent; all others are shared.
var (
	IdealShoulderToWaist = IdealRange{1.4, 1.7}
	IdealWaistToHipMale  = IdealRange{0.85, 0.95}
	IdealWaistToHipFem   = IdealRange{0.65, 0.75}
	IdealChestToWaist    = IdealRange{1.2, 1.4}
	IdealArmToChest      = IdealRange{0.36, 0.40}
	IdealThighToWaist    = IdealRange{0.70, 0.85}
)

// AdonisIndex computes the shoulder-to-waist ratio, rounded to 3
// decimals. The aesthetic ideal is the golden ratio (1.618).
func AdonisIndex(shoulderWidthCm, waistCircumferenceCm float64) (float64, error) {
	if waistCircumferenceCm <= 0 {
		return 0, errors.InvalidInputError("waist circumference must be positive")
	}
	return round3(shoulderWidthCm / waistCircumferenceCm), nil
}

// WaistToHip computes the waist-to-hip ratio (WHR), rounded to 3
// decimals. Lower is better; ideal is 0.85-0.95 for males and
// 0.65-0.75 for females.
func WaistToHip(waistCm, hipCm float64) (float64, error) {
	if hipCm <= 0 {
		return 0, errors.InvalidInputError("hip circumference must be positive")
	}
	return round3(waistCm / hipCm), nil
}

// ChestToWaist computes the chest-to-waist ratio, rounded to 3
// decimals. Indicator of upper body development; ideal is 1.2-1.4.
func ChestToWaist(chestCm, waistCm float64) (float64, error) {
	if waistCm <= 0 {
		return 0, errors.InvalidInputError("waist circumference must be positive")
	}
	return round3(chestCm / waistCm), nil
}

// ArmToChest computes the bicep-to-chest ratio, rounded to 3 decimals.
// Ideal is 0.36-0.40.
func ArmToChest(bicepCm, chestCm float64) (float64, error) {
	if chestCm <= 0 {
		return 0, errors.InvalidInputError("chest circumference must be positive")
	}
	return round3(bicepCm / chestCm), nil
}

// LegToTorso computes the thigh-to-waist ratio, rounded to 3 decimals.
// Ideal is 0.70-0.85.
func LegToTorso(thighCm, waistCm float64) (float64, error) {
	if waistCm <= 0 {
		return 0, errors.InvalidInputError("waist circumference must be positive")
	}
	return round3(thighCm / waistCm), nil
}

// GoldenRatioProximity scores how close a ratio is to the golden ratio
// on a 0-100 scale: 0% deviation scores 100, 50%+ relative deviation
// scores 0, linear in between. Rounded to 1 decimal.
func GoldenRatioProximity(actual float64) float64 {
	deviation := math.Abs(actual-GoldenRatio) / GoldenRatio
	if deviation >= 0.5 {
		return 0
	}
	return round1(100 * (1 - deviation/0.5))
}

// ScoreRatio scores a ratio against its ideal band on a 0-100 scale.
// Inside the band the score is 80-100, peaking at the band midpoint.
// Outside it decays linearly to 0 at 50% relative deviation from the
// nearer bound.
func ScoreRatio(actual float64, ideal IdealRange) float64 {
	mid := (ideal.Min + ideal.Max) / 2

	if actual >= ideal.Min && actual <= ideal.Max {
		halfWidth := (ideal.Max - ideal.Min) / 2
		if halfWidth <= 0 {
			return 100
		}
		score := 100 - 50*(math.Abs(actual-mid)/halfWidth)
		return clamp(score, 80, 100)
	}

	var deviation float64
	if actual < ideal.Min {
		deviation = (ideal.Min - actual) / ideal.Min
	} else {
		deviation = (actual - ideal.Max) / ideal.Max
	}

	if deviation >= 0.5 {
		return 0
	}
	return clamp(80*(1-deviation/0.5), 0, 80)
}

// Calculate derives all body ratios from a validated measurement set.
// Gender only affects the waist:hip ideal band ("female" selects the
// female band, anything else the male band). The measured shoulder
// width is used when present; otherwise it is estimated as chest*1.15.
func Calculate(m models.BodyMeasurements, gender string) (models.BodyRatios, error) {
	shoulders := m.ShoulderWidthOrEstimate()

	stw, err := AdonisIndex(shoulders, m.WaistCircumferenceCm)
	if err != nil {
		return models.BodyRatios{}, err
	}

	whr, err := WaistToHip(m.WaistCircumferenceCm, m.HipCircumferenceCm)
	if err != nil {
		return models.BodyRatios{}, err
	}

	ctw, err := ChestToWaist(m.ChestCircumferenceCm, m.WaistCircumferenceCm)
	if err != nil {
		return models.BodyRatios{}, err
	}

	atc, err := ArmToChest(m.BicepCircumferenceCm, m.ChestCircumferenceCm)
	if err != nil {
		return models.BodyRatios{}, err
	}

	var legToTorso *float64
	if m.ThighCircumferenceCm > 0 {
		ltt, err := LegToTorso(m.ThighCircumferenceCm, m.WaistCircumferenceCm)
		if err != nil {
			return models.BodyRatios{}, err
		}
		legToTorso = &ltt
	}

	return models.BodyRatios{
		ShoulderToWaistRatio: stw,
		AdonisIndex:          stw,
		GoldenRatioDeviation: math.Abs(stw - GoldenRatio),
		WaistToHipRatio:      whr,
		ChestToWaistRatio:    ctw,
		ArmToChestRatio:      atc,
		LegToTorsoRatio:      legToTorso,
		SymmetryScore:        SymmetryScore(stw, whr, ctw, atc, legToTorso, gender),
	}, nil
}

// SymmetryScore scores each ratio against its ideal band and returns
// the unweighted mean, rounded to 1 decimal. The leg:torso ratio joins
// the mean only when present.
func SymmetryScore(shoulderToWaist, waistToHip, chestToWaist, armToChest float64, legToTorso *float64, gender string) float64 {
	whrIdeal := IdealWaistToHipMale
	if strings.EqualFold(gender, "female") {
		whrIdeal = IdealWaistToHipFem
	}

	scores := []float64{
		ScoreRatio(shoulderToWaist, IdealShoulderToWaist),
		ScoreRatio(waistToHip, whrIdeal),
		ScoreRatio(chestToWaist, IdealChestToWaist),
		ScoreRatio(armToChest, IdealArmToChest),
	}
	if legToTorso != nil {
		scores = append(scores, ScoreRatio(*legToTorso, IdealThighToWaist))
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	return round1(sum / float64(len(scores)))
}

// Interpretation returns a human-readable label for a named ratio value
func Interpretation(ratioName string, value float64) string {
	type band struct {
		min, max float64
		desc     string
	}

	bands := map[string][]band{
		"shoulder_to_waist": {
			{0, 1.2, "Narrow shoulders"},
			{1.2, 1.4, "Average"},
			{1.4, 1.7, "Athletic V-taper"},
			{1.7, 2.0, "Excellent V-taper"},
			{2.0, 10, "Elite V-taper"},
		},
		"waist_to_hip": {
			{0, 0.7, "Low risk (healthy)"},
			{0.7, 0.85, "Moderate"},
			{0.85, 0.95, "Average"},
			{0.95, 10, "High risk"},
		},
		"chest_to_waist": {
			{0, 1.1, "Underdeveloped chest"},
			{1.1, 1.2, "Average"},
			{1.2, 1.4, "Well-developed"},
			{1.4, 10, "Excellent development"},
		},
		"arm_to_chest": {
			{0, 0.32, "Underdeveloped arms"},
			{0.32, 0.36, "Average"},
			{0.36, 0.40, "Well-proportioned"},
			{0.40, 10, "Overdeveloped arms"},
		},
	}

	ranges, ok := bands[ratioName]
	if !ok {
		return "No interpretation available"
	}

	for _, b := range ranges {
		if value >= b.min && value < b.max {
			return b.desc
		}
	}
	return "Out of normal range"
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
