package models

import (
	"time"
)

// BodyType classifies overall physique shape
type BodyType string

const (
	BodyTypeVTaper      BodyType = "V-Taper"
	BodyTypeClassic     BodyType = "Classic"
	BodyTypeRectangular BodyType = "Rectangular"
	BodyTypeApple       BodyType = "Apple"
	BodyTypePear        BodyType = "Pear"
	BodyTypeBalanced    BodyType = "Balanced"
)

// String returns the display name of the body type
func (b BodyType) String() string {
	return string(b)
}

// AngleType identifies which side of the body a photo captured
type AngleType string

const (
	AngleFront   AngleType = "front"
	AngleBack    AngleType = "back"
	AngleSide    AngleType = "side"
	AngleUnknown AngleType = "unknown"
)

// MuscleDefinition is a qualitative assessment returned by the vision model
type MuscleDefinition string

const (
	MuscleDefinitionLow      MuscleDefinition = "low"
	MuscleDefinitionModerate MuscleDefinition = "moderate"
	MuscleDefinitionHigh     MuscleDefinition = "high"
)

// BodyMeasurements holds validated anthropometric measurements.
// Values are metric (cm, kg, percent) and validated upstream; the
// analysis engine does not re-check ranges. A measurement set is owned
// exclusively by the scan that produced it and never mutated.
type BodyMeasurements struct {
	// Core circumferences (cm)
	ChestCircumferenceCm float64 `json:"chest_circumference_cm"`
	WaistCircumferenceCm float64 `json:"waist_circumference_cm"`
	HipCircumferenceCm   float64 `json:"hip_circumference_cm"`

	// Limb circumferences (cm)
	BicepCircumferenceCm float64  `json:"bicep_circumference_cm"`
	ThighCircumferenceCm float64  `json:"thigh_circumference_cm"`
	CalfCircumferenceCm  *float64 `json:"calf_circumference_cm,omitempty"`

	// Width (cm)
	ShoulderWidthCm *float64 `json:"shoulder_width_cm,omitempty"`

	// Composition
	BodyFatPercent    float64  `json:"body_fat_percent"`
	EstimatedWeightKg *float64 `json:"estimated_weight_kg,omitempty"`

	// Qualitative
	PostureRating    float64          `json:"posture_rating"`
	MuscleDefinition MuscleDefinition `json:"muscle_definition,omitempty"`
}

// ShoulderWidthOrEstimate returns the measured shoulder width, or the
// documented chest-based estimate when the measurement is absent.
func (m BodyMeasurements) ShoulderWidthOrEstimate() float64 {
	if m.ShoulderWidthCm != nil && *m.ShoulderWidthCm > 0 {
		return *m.ShoulderWidthCm
	}
	// Rough estimate: shoulders ~ chest * 1.15
	return m.ChestCircumferenceCm * 1.15
}

// BodyRatios holds all derived body proportions. Values carry the
// rounding contract: ratios to 3 decimals, symmetry to 1 decimal. The
// composition hash consumes these rounded values, so the precision is
// part of the wire contract.
type BodyRatios struct {
	ShoulderToWaistRatio float64 `json:"shoulder_to_waist_ratio"`
	AdonisIndex          float64 `json:"adonis_index"`
	GoldenRatioDeviation float64 `json:"golden_ratio_deviation"`

	WaistToHipRatio   float64  `json:"waist_to_hip_ratio"`
	ChestToWaistRatio float64  `json:"chest_to_waist_ratio"`
	ArmToChestRatio   float64  `json:"arm_to_chest_ratio"`
	LegToTorsoRatio   *float64 `json:"leg_to_torso_ratio,omitempty"`

	// 0-100, unweighted mean of per-ratio ideal-range scores
	SymmetryScore float64 `json:"symmetry_score"`
}

// AestheticScore is the weighted physique score. The four sub-scores
// sum exactly to OverallScore; drift beyond 0.5 is a data-integrity
// error caught by scan validation.
type AestheticScore struct {
	OverallScore float64 `json:"overall_score"`

	GoldenRatioScore float64 `json:"golden_ratio_score"` // 0-40
	SymmetryScore    float64 `json:"symmetry_score"`     // 0-30
	CompositionScore float64 `json:"composition_score"`  // 0-20
	PostureScore     float64 `json:"posture_score"`      // 0-10

	BodyType           BodyType `json:"body_type"`
	BodyTypeConfidence float64  `json:"body_type_confidence"`
}

// ComponentSum returns the sum of the four sub-scores
func (a AestheticScore) ComponentSum() float64 {
	return a.GoldenRatioScore + a.SymmetryScore + a.CompositionScore + a.PostureScore
}

// ImageQuality carries pass-through quality metadata for one photo
type ImageQuality struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FileSizeKb     float64 `json:"file_size_kb"`
	Format         string  `json:"format"`
	SharpnessScore float64 `json:"sharpness_score"`
	HasExif        bool    `json:"has_exif"`
	Orientation    *int    `json:"orientation,omitempty"`
	IsValid        bool    `json:"is_valid"`
	QualityScore   float64 `json:"quality_score"`
}

// PhotoAngle is the detected camera angle for one photo
type PhotoAngle struct {
	AngleType        AngleType `json:"angle_type"`
	Confidence       float64   `json:"confidence"`
	DetectedKeypoint int       `json:"detected_pose_keypoints"`
	IsStanding       bool      `json:"is_standing"`
}

// WhoopData carries recovery signals from the WHOOP integration
type WhoopData struct {
	UserID           string     `json:"user_id"`
	RecoveryScore    *float64   `json:"recovery_score,omitempty"`
	StrainScore      *float64   `json:"strain_score,omitempty"`
	SleepHours       *float64   `json:"sleep_hours,omitempty"`
	HrvMs            *float64   `json:"hrv_ms,omitempty"`
	RestingHeartRate *int       `json:"resting_heart_rate,omitempty"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
	HasData          bool       `json:"has_data"`
}

// Recommendations holds generated coaching output attached to a scan
type Recommendations struct {
	WorkoutPlan            string   `json:"workout_plan"`
	NutritionPlan          string   `json:"nutrition_plan"`
	RecoveryAdvice         string   `json:"recovery_advice,omitempty"`
	ProgressComparison     string   `json:"progress_comparison,omitempty"`
	KeyFocusAreas          []string `json:"key_focus_areas"`
	EstimatedTimelineWeeks *int     `json:"estimated_timeline_weeks,omitempty"`
}

// ConfidenceMetrics is the reliability assessment for one scan.
// Factors are 0-1; OverallScore is their weighted combination.
// MeetsThreshold is advisory output, not a hard gate.
type ConfidenceMetrics struct {
	OverallScore            float64 `json:"overall_score"`
	PhotoCountFactor        float64 `json:"photo_count_factor"`
	ConsistencyFactor       float64 `json:"consistency_factor"`
	AIConfidenceFactor      float64 `json:"ai_confidence_factor"`
	DataCompletenessFactor  float64 `json:"data_completeness_factor"`
	ValidationQualityFactor float64 `json:"validation_quality_factor"`
	MeetsThreshold          bool    `json:"meets_threshold"`

	FactorsBreakdown map[string]string `json:"factors_breakdown"`
}

// ScanResult is the immutable aggregate produced by the scan assembler.
// It is persisted verbatim, keyed by (user_id, scan_id); corrections
// require a new scan.
type ScanResult struct {
	// Identification
	ScanID          string    `json:"scan_id" db:"scan_id"`
	BodySignatureID string    `json:"body_signature_id" db:"body_signature_id"`
	UserID          string    `json:"user_id" db:"user_id"`
	Timestamp       time.Time `json:"timestamp" db:"timestamp"`

	// Image references (pass-through metadata)
	ImageURLs      map[AngleType]string       `json:"image_urls"`
	ImageQuality   map[AngleType]ImageQuality `json:"image_quality"`
	DetectedAngles map[AngleType]PhotoAngle   `json:"detected_angles"`

	// Measurements & analysis
	Measurements    BodyMeasurements `json:"measurements"`
	Ratios          BodyRatios       `json:"ratios"`
	Asymmetries     []string         `json:"asymmetries"`
	AestheticScore  AestheticScore   `json:"aesthetic_score"`
	CompositionHash string           `json:"composition_hash" db:"composition_hash"`

	// External data
	WhoopData *WhoopData `json:"whoop_data,omitempty"`

	// Confidence & metadata
	Confidence        ConfidenceMetrics `json:"confidence"`
	ProcessingTimeSec float64           `json:"processing_time_sec"`
	APIVersion        string            `json:"api_version"`

	Recommendations *Recommendations `json:"recommendations,omitempty"`
}

// UserProfile is the stored per-user record
type UserProfile struct {
	UID            string     `json:"uid" db:"uid"`
	Email          string     `json:"email,omitempty" db:"email"`
	Age            *int       `json:"age,omitempty" db:"age"`
	Gender         string     `json:"gender,omitempty" db:"gender"`
	HeightCm       *float64   `json:"height_cm,omitempty" db:"height_cm"`
	WeightKg       *float64   `json:"weight_kg,omitempty" db:"weight_kg"`
	ActivityLevel  string     `json:"activity_level,omitempty" db:"activity_level"`
	FitnessGoal    string     `json:"fitness_goal,omitempty" db:"fitness_goal"`
	TotalScans     int        `json:"total_scans" db:"total_scans"`
	LastScanAt     *time.Time `json:"last_scan_at,omitempty" db:"last_scan_at"`
	WhoopConnected bool       `json:"whoop_connected" db:"whoop_connected"`
	WhoopUserID    string     `json:"whoop_user_id,omitempty" db:"whoop_user_id"`
}
