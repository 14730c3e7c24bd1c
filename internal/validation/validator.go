// Package validation normalizes raw AI-extracted measurement maps into
// the canonical measurement struct: key aliasing, enum coercion, unit
// correction and range checks.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/reddyfit/bodyscan/internal/models"
)

// keyAliases maps the field names vision models actually emit onto
// canonical keys. camelCase input is snake_cased before lookup.
var keyAliases = map[string]string{
	"chest":             "chest_circumference_cm",
	"chest_cm":          "chest_circumference_cm",
	"waist":             "waist_circumference_cm",
	"waist_cm":          "waist_circumference_cm",
	"hips":              "hip_circumference_cm",
	"hip":               "hip_circumference_cm",
	"hip_cm":            "hip_circumference_cm",
	"bicep":             "bicep_circumference_cm",
	"biceps":            "bicep_circumference_cm",
	"arm":               "bicep_circumference_cm",
	"thigh":             "thigh_circumference_cm",
	"thighs":            "thigh_circumference_cm",
	"calf":              "calf_circumference_cm",
	"calves":            "calf_circumference_cm",
	"shoulder":          "shoulder_width_cm",
	"shoulders":         "shoulder_width_cm",
	"shoulder_width":    "shoulder_width_cm",
	"body_fat":          "body_fat_percent",
	"body_fat_percent":  "body_fat_percent",
	"bodyfat":           "body_fat_percent",
	"bf_percent":        "body_fat_percent",
	"weight":            "estimated_weight_kg",
	"weight_kg":         "estimated_weight_kg",
	"estimated_weight":  "estimated_weight_kg",
	"posture":           "posture_rating",
	"posture_rating":    "posture_rating",
	"muscle_definition": "muscle_definition",
}

// fieldRange is the plausible bound for one canonical field (cm,
// percent or rating as appropriate).
type fieldRange struct {
	min, max float64
}

var fieldRanges = map[string]fieldRange{
	"chest_circumference_cm": {50, 200},
	"waist_circumference_cm": {50, 200},
	"hip_circumference_cm":   {50, 200},
	"bicep_circumference_cm": {15, 70},
	"thigh_circumference_cm": {30, 100},
	"calf_circumference_cm":  {20, 70},
	"shoulder_width_cm":      {30, 80},
	"body_fat_percent":       {3, 60},
	"posture_rating":         {0, 10},
}

// expectedFields are the canonical fields counted toward completeness
var expectedFields = []string{
	"chest_circumference_cm",
	"waist_circumference_cm",
	"hip_circumference_cm",
	"bicep_circumference_cm",
	"thigh_circumference_cm",
	"calf_circumference_cm",
	"shoulder_width_cm",
	"body_fat_percent",
	"posture_rating",
	"muscle_definition",
}

// Result is the outcome of normalizing one raw measurement map
type Result struct {
	Measurements models.BodyMeasurements
	Completeness float64 // share of expected fields present, 0-1
	Errors       []string
	Warnings     []string
}

// Normalize converts a raw key/value map (as parsed from an AI
// response) into validated measurements. Unknown keys are ignored with
// a warning; out-of-range values are dropped with an error.
func Normalize(raw map[string]interface{}) Result {
	var res Result
	canonical := make(map[string]float64)
	var muscle models.MuscleDefinition
	muscleProvided := false

	for key, value := range raw {
		name := canonicalKey(key)
		if name == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("ignoring unknown field %q", key))
			continue
		}

		if name == "muscle_definition" {
			muscle = coerceMuscleDefinition(value, &res)
			muscleProvided = true
			continue
		}

		v, ok := toFloat(value)
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("field %q has non-numeric value %v", key, value))
			continue
		}

		v = correctUnits(name, v, &res)

		if r, bounded := fieldRanges[name]; bounded {
			if v < r.min || v > r.max {
				res.Errors = append(res.Errors,
					fmt.Sprintf("field %q value %.1f outside plausible range [%.0f, %.0f]", name, v, r.min, r.max))
				continue
			}
		}

		canonical[name] = v
	}

	if muscle == "" {
		muscle = models.MuscleDefinitionModerate
	}

	res.Measurements = buildMeasurements(canonical, muscle)
	res.Completeness = completeness(canonical, muscleProvided)
	return res
}

// canonicalKey resolves aliases and camelCase to the canonical field
// name, or "" when the key is unknown.
func canonicalKey(key string) string {
	k := snakeCase(strings.TrimSpace(key))
	if _, ok := fieldRanges[k]; ok {
		return k
	}
	if k == "muscle_definition" || k == "estimated_weight_kg" {
		return k
	}
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return ""
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func coerceMuscleDefinition(value interface{}, res *Result) models.MuscleDefinition {
	s, ok := value.(string)
	if !ok {
		res.Warnings = append(res.Warnings, "muscle_definition is not a string, defaulting to moderate")
		return models.MuscleDefinitionModerate
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "minimal":
		return models.MuscleDefinitionLow
	case "moderate", "medium", "average":
		return models.MuscleDefinitionModerate
	case "high", "defined", "very defined":
		return models.MuscleDefinitionHigh
	default:
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("muscle_definition %q unrecognized, defaulting to moderate", s))
		return models.MuscleDefinitionModerate
	}
}

// correctUnits detects torso circumferences that look like inches and
// converts them. A chest, waist or hip under 50 is not plausible in
// cm; limb circumferences legitimately sit below 50 and are left
// alone.
func correctUnits(name string, v float64, res *Result) float64 {
	isTorso := name == "chest_circumference_cm" ||
		name == "waist_circumference_cm" ||
		name == "hip_circumference_cm"
	if isTorso && v > 0 && v < 50 {
		converted := math.Round(v*2.54*10) / 10
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("field %q value %.1f looks like inches, converted to %.1f cm", name, v, converted))
		return converted
	}
	return v
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func buildMeasurements(c map[string]float64, muscle models.MuscleDefinition) models.BodyMeasurements {
	m := models.BodyMeasurements{
		ChestCircumferenceCm: c["chest_circumference_cm"],
		WaistCircumferenceCm: c["waist_circumference_cm"],
		HipCircumferenceCm:   c["hip_circumference_cm"],
		BicepCircumferenceCm: c["bicep_circumference_cm"],
		ThighCircumferenceCm: c["thigh_circumference_cm"],
		BodyFatPercent:       c["body_fat_percent"],
		PostureRating:        c["posture_rating"],
		MuscleDefinition:     muscle,
	}
	if v, ok := c["calf_circumference_cm"]; ok {
		m.CalfCircumferenceCm = &v
	}
	if v, ok := c["shoulder_width_cm"]; ok {
		m.ShoulderWidthCm = &v
	}
	if v, ok := c["estimated_weight_kg"]; ok {
		m.EstimatedWeightKg = &v
	}
	return m
}

func completeness(c map[string]float64, muscleProvided bool) float64 {
	present := 0
	for _, f := range expectedFields {
		if f == "muscle_definition" {
			if muscleProvided {
				present++
			}
			continue
		}
		if _, ok := c[f]; ok {
			present++
		}
	}
	return float64(present) / float64(len(expectedFields))
}
