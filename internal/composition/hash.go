// Package composition produces content-addressed fingerprints of body
// composition. The hash is a pure function of rounded measurements and
// ratios: identical rounded inputs always yield an identical hash, so
// two scans of the same physique deduplicate naturally. Collisions
// between different users with coincidentally identical rounded
// measurements are intentional; resolving them is the caller's concern.
package composition

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/reddyfit/bodyscan/internal/models"
)

// HashLength is the number of hex characters kept from the SHA-256 digest
const HashLength = 6

// Rounding granularity is part of the dedup contract: 1 decimal for cm
// and percent values, 2 decimals for ratios. Changing it silently
// changes how "same" two scans must be to collide.
const (
	measurementPrecision = 1
	ratioPrecision       = 2
)

// Hash generates the deterministic 6-character composition fingerprint
// from the canonical set of measurements and ratios.
func Hash(m models.BodyMeasurements, r models.BodyRatios) string {
	fields := map[string]string{
		"chest":    formatValue(m.ChestCircumferenceCm, measurementPrecision),
		"waist":    formatValue(m.WaistCircumferenceCm, measurementPrecision),
		"hips":     formatValue(m.HipCircumferenceCm, measurementPrecision),
		"bicep":    formatValue(m.BicepCircumferenceCm, measurementPrecision),
		"thigh":    formatValue(m.ThighCircumferenceCm, measurementPrecision),
		"body_fat": formatValue(m.BodyFatPercent, measurementPrecision),

		"shoulder_waist_ratio": formatValue(r.ShoulderToWaistRatio, ratioPrecision),
		"waist_hip_ratio":      formatValue(r.WaistToHipRatio, ratioPrecision),
		"chest_waist_ratio":    formatValue(r.ChestToWaistRatio, ratioPrecision),
	}

	return digest(fields)
}

// DetailedHash includes the optional measurements (calf, shoulder
// width, weight) when present, producing a finer-grained fingerprint.
func DetailedHash(m models.BodyMeasurements, r models.BodyRatios, includeOptionals bool) string {
	fields := map[string]string{
		"chest":    formatValue(m.ChestCircumferenceCm, measurementPrecision),
		"waist":    formatValue(m.WaistCircumferenceCm, measurementPrecision),
		"hips":     formatValue(m.HipCircumferenceCm, measurementPrecision),
		"bicep":    formatValue(m.BicepCircumferenceCm, measurementPrecision),
		"thigh":    formatValue(m.ThighCircumferenceCm, measurementPrecision),
		"body_fat": formatValue(m.BodyFatPercent, measurementPrecision),

		"shoulder_waist_ratio": formatValue(r.ShoulderToWaistRatio, ratioPrecision),
		"waist_hip_ratio":      formatValue(r.WaistToHipRatio, ratioPrecision),
	}

	if includeOptionals {
		if m.CalfCircumferenceCm != nil {
			fields["calf"] = formatValue(*m.CalfCircumferenceCm, measurementPrecision)
		}
		if m.ShoulderWidthCm != nil {
			fields["shoulders"] = formatValue(*m.ShoulderWidthCm, measurementPrecision)
		}
		if m.EstimatedWeightKg != nil {
			fields["weight"] = formatValue(*m.EstimatedWeightKg, measurementPrecision)
		}
	}

	return digest(fields)
}

// SaltedHash mixes an extra string into the fingerprint. Useful when a
// caller wants distinct hashes for the same composition captured at
// different times.
func SaltedHash(m models.BodyMeasurements, r models.BodyRatios, salt string) string {
	fields := map[string]string{
		"chest":    formatValue(m.ChestCircumferenceCm, measurementPrecision),
		"waist":    formatValue(m.WaistCircumferenceCm, measurementPrecision),
		"hips":     formatValue(m.HipCircumferenceCm, measurementPrecision),
		"bicep":    formatValue(m.BicepCircumferenceCm, measurementPrecision),
		"thigh":    formatValue(m.ThighCircumferenceCm, measurementPrecision),
		"body_fat": formatValue(m.BodyFatPercent, measurementPrecision),

		"shoulder_waist_ratio": formatValue(r.ShoulderToWaistRatio, ratioPrecision),
	}

	if salt != "" {
		fields["salt"] = fmt.Sprintf("%q", salt)
	}

	return digest(fields)
}

// ValidFormat reports whether a string is a well-formed composition
// hash: exactly 6 uppercase alphanumeric characters.
func ValidFormat(hash string) bool {
	if len(hash) != HashLength {
		return false
	}
	for _, c := range hash {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// Similarity computes the character-wise match between two hashes as a
// percentage (100 = identical). Either hash being malformed scores 0.
func Similarity(hash1, hash2 string) float64 {
	if !ValidFormat(hash1) || !ValidFormat(hash2) {
		return 0
	}

	matches := 0
	for i := 0; i < HashLength; i++ {
		if hash1[i] == hash2[i] {
			matches++
		}
	}
	return float64(matches) / HashLength * 100
}

// DetectCollision returns the first existing hash whose similarity to
// newHash meets the threshold (100 = exact match only), or "" if none.
// The generator only detects collisions; resolution belongs to the
// persistence layer.
func DetectCollision(newHash string, existing []string, threshold float64) string {
	for _, h := range existing {
		if Similarity(newHash, h) >= threshold {
			return h
		}
	}
	return ""
}

// IsUnique reports whether a hash has no exact collision among the
// given prior scan hashes.
func IsUnique(hash string, existing []string) bool {
	if len(existing) == 0 {
		return true
	}
	return DetectCollision(hash, existing, 100) == ""
}

// digest serializes the field map with sorted keys into a canonical
// JSON-shaped string, SHA-256 hashes it, and keeps the first 6 hex
// characters uppercased.
func digest(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %s", k, fields[k])
	}
	sb.WriteByte('}')

	sum := sha256.Sum256([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:HashLength])
}

// formatValue renders a float with fixed precision so equal rounded
// values always serialize identically.
func formatValue(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}
