// Package signature formats and parses the human-readable scan
// identifier that encodes body type, body fat, composition hash and
// adonis index in one shareable string.
//
// Format: {BodyType}-BF{bodyFat}-{hash}-AI{adonisIndex}
// Example: VTaper-BF12.5-A3F7C2-AI1.54
package signature

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/reddyfit/bodyscan/internal/models"
)

var (
	signaturePattern = regexp.MustCompile(`^([A-Za-z]+)-BF(\d+\.\d+)-([A-F0-9]{6})-AI(\d+\.\d+)$`)
	qrPattern        = regexp.MustCompile(`^([A-Za-z]+)(BF\d+\.\d+)([A-F0-9]{6})(AI\d+\.\d+)$`)
	hashPattern      = regexp.MustCompile(`[A-F0-9]{6}`)
)

// Parsed holds the fields decoded from a signature ID. A nil Parsed
// means the input did not match the format.
type Parsed struct {
	BodyType    string  `json:"body_type"`
	BodyFat     float64 `json:"body_fat"`
	Hash        string  `json:"hash"`
	AdonisIndex float64 `json:"adonis_index"`
}

// Generate builds a signature ID. Spaces and hyphens are stripped from
// the body type so the field count stays fixed at four.
func Generate(bodyType models.BodyType, bodyFatPercent float64, hash string, adonisIndex float64) string {
	name := strings.NewReplacer(" ", "", "-", "").Replace(string(bodyType))
	return fmt.Sprintf("%s-BF%.1f-%s-AI%.2f", name, bodyFatPercent, strings.ToUpper(hash), adonisIndex)
}

// Parse decodes a signature ID. Malformed input returns nil, never an
// error; callers treat nil as "not a signature".
func Parse(signatureID string) *Parsed {
	matches := signaturePattern.FindStringSubmatch(signatureID)
	if matches == nil {
		return nil
	}

	bodyFat, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return nil
	}
	adonis, err := strconv.ParseFloat(matches[4], 64)
	if err != nil {
		return nil
	}

	return &Parsed{
		BodyType:    matches[1],
		BodyFat:     bodyFat,
		Hash:        matches[3],
		AdonisIndex: adonis,
	}
}

// Valid reports whether the string is a well-formed signature ID
func Valid(signatureID string) bool {
	return signaturePattern.MatchString(signatureID)
}

// Comparison describes the delta between two signatures
type Comparison struct {
	BodyTypeChanged    bool     `json:"body_type_changed"`
	BodyFatChange      float64  `json:"body_fat_change"`
	AdonisChange       float64  `json:"adonis_change"`
	CompositionChanged bool     `json:"composition_changed"`
	Interpretations    []string `json:"interpretations"`
}

// Compare diffs two signature IDs. Either side failing to parse
// returns nil.
func Compare(oldID, newID string) *Comparison {
	oldSig := Parse(oldID)
	newSig := Parse(newID)
	if oldSig == nil || newSig == nil {
		return nil
	}

	cmp := &Comparison{
		BodyTypeChanged:    oldSig.BodyType != newSig.BodyType,
		BodyFatChange:      round1(newSig.BodyFat - oldSig.BodyFat),
		AdonisChange:       round2(newSig.AdonisIndex - oldSig.AdonisIndex),
		CompositionChanged: oldSig.Hash != newSig.Hash,
	}

	if cmp.BodyFatChange < -1 {
		cmp.Interpretations = append(cmp.Interpretations,
			fmt.Sprintf("Lost %.1f%% body fat", -cmp.BodyFatChange))
	} else if cmp.BodyFatChange > 1 {
		cmp.Interpretations = append(cmp.Interpretations,
			fmt.Sprintf("Gained %.1f%% body fat", cmp.BodyFatChange))
	}

	if cmp.AdonisChange > 0.05 {
		cmp.Interpretations = append(cmp.Interpretations,
			"Improved shoulder:waist ratio (better V-taper)")
	} else if cmp.AdonisChange < -0.05 {
		cmp.Interpretations = append(cmp.Interpretations,
			"Decreased shoulder:waist ratio")
	}

	if cmp.BodyTypeChanged {
		cmp.Interpretations = append(cmp.Interpretations,
			fmt.Sprintf("Body type changed from %s to %s", oldSig.BodyType, newSig.BodyType))
	}

	return cmp
}

// ShortID extracts the 6-character hash for compact display. Strings
// that parse as signatures use the hash field directly; otherwise any
// embedded hash-shaped token is taken, and "INVALID" marks a dead end.
func ShortID(signatureID string) string {
	if parsed := Parse(signatureID); parsed != nil {
		return parsed.Hash
	}
	if match := hashPattern.FindString(signatureID); match != "" {
		return match
	}
	return "INVALID"
}

// ToQRPayload strips the dashes for denser QR encoding
func ToQRPayload(signatureID string) string {
	return strings.ReplaceAll(signatureID, "-", "")
}

// FromQRPayload restores the dashed form from a QR payload. Returns
// empty string when the payload does not decompose into the four
// fields.
func FromQRPayload(payload string) string {
	matches := qrPattern.FindStringSubmatch(payload)
	if matches == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s-%s", matches[1], matches[2], matches[3], matches[4])
}

// Insights summarizes what a signature says about the physique
func Insights(signatureID string) []string {
	parsed := Parse(signatureID)
	if parsed == nil {
		return []string{"Invalid signature format"}
	}

	var insights []string

	switch {
	case parsed.BodyFat < 10:
		insights = append(insights, "Very Lean body composition")
	case parsed.BodyFat < 15:
		insights = append(insights, "Lean body composition")
	case parsed.BodyFat < 20:
		insights = append(insights, "Average body composition")
	case parsed.BodyFat < 25:
		insights = append(insights, "Above Average body fat")
	default:
		insights = append(insights, "High body fat")
	}

	switch {
	case parsed.AdonisIndex >= 1.6:
		insights = append(insights, "Excellent V-taper proportions")
	case parsed.AdonisIndex >= 1.4:
		insights = append(insights, "Good V-taper proportions")
	case parsed.AdonisIndex >= 1.2:
		insights = append(insights, "Moderate V-taper")
	default:
		insights = append(insights, "Minimal V-taper")
	}

	return insights
}

// DisplayName renders a signature for UI labels
func DisplayName(signatureID string) string {
	parsed := Parse(signatureID)
	if parsed == nil {
		return signatureID
	}
	return fmt.Sprintf("%s | %.1f%% BF | #%s", parsed.BodyType, parsed.BodyFat, parsed.Hash)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
