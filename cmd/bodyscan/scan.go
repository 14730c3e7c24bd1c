package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reddyfit/bodyscan/internal/classify"
	"github.com/reddyfit/bodyscan/internal/confidence"
	"github.com/reddyfit/bodyscan/internal/extraction"
	"github.com/reddyfit/bodyscan/internal/nutrition"
	"github.com/reddyfit/bodyscan/internal/recommend"
	"github.com/reddyfit/bodyscan/internal/scan"
	"github.com/reddyfit/bodyscan/internal/validation"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Analyze a measurement file into a full scan result",
	Long: `Reads raw measurements from a JSON file (as produced by photo
analysis or measured by hand), runs the full analysis pipeline and
prints the scan result.

Example input file:
  {"chest": 105, "waist": 78, "hips": 95, "bicep": 38, "thigh": 58,
   "body_fat": 14, "posture": 7, "muscle_definition": "moderate"}`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringP("input", "i", "", "measurements JSON file (required)")
	scanCmd.Flags().StringP("user", "u", "cli", "user ID for the scan")
	scanCmd.Flags().String("gender", "male", "gender for ratio ideals (male, female)")
	scanCmd.Flags().String("goal", "", "fitness goal (weight_loss, muscle_gain, recomposition, maintenance)")
	scanCmd.Flags().Bool("save", false, "persist the scan to configured storage")
	scanCmd.Flags().Bool("json", false, "print the full result as JSON")
	scanCmd.MarkFlagRequired("input")
}

func runScan(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	userID, _ := cmd.Flags().GetString("user")
	gender, _ := cmd.Flags().GetString("gender")
	goal, _ := cmd.Flags().GetString("goal")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	var measurements map[string]interface{}
	if err := json.Unmarshal(raw, &measurements); err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	valRes := validation.Normalize(measurements)
	for _, warning := range valRes.Warnings {
		logger.Warn(warning)
	}
	for _, e := range valRes.Errors {
		logger.Error(e)
	}

	scorer := confidence.NewScorer(confidence.Weights{
		PhotoQuality: cfg.Confidence.PhotoQualityWeight,
		Consistency:  cfg.Confidence.ConsistencyWeight,
		AIResponse:   cfg.Confidence.AIResponseWeight,
		Completeness: cfg.Confidence.CompletenessWeight,
		Validation:   cfg.Confidence.ValidationWeight,
	}, cfg.Confidence.Threshold)
	metrics := scorer.Score(confidence.Inputs{
		PhotoCount:       3, // direct measurements count as a complete photo set
		Measurements:     valRes.Measurements,
		MuscleDefinition: valRes.Measurements.MuscleDefinition,
		Completeness:     valRes.Completeness,
		FinishReason:     "stop",
		ParseStrategy:    extraction.StrategyDirectParse,
		ValidationErrors: len(valRes.Errors),
	})

	assembler := scan.NewAssembler(classify.NewClassifier(classify.RuleConfidences{
		VTaperStrong: cfg.Analysis.VTaperStrongConfidence,
		VTaper:       cfg.Analysis.VTaperConfidence,
		Classic:      cfg.Analysis.ClassicConfidence,
		Balanced:     cfg.Analysis.BalancedConfidence,
		Rectangular:  cfg.Analysis.RectangularConfidence,
		Apple:        cfg.Analysis.AppleConfidence,
		Pear:         cfg.Analysis.PearConfidence,
		Fallback:     cfg.Analysis.FallbackConfidence,
	}), logger)

	result, err := assembler.Assemble(scan.Input{
		UserID:       userID,
		Gender:       gender,
		Measurements: valRes.Measurements,
		Confidence:   metrics,
	})
	if err != nil {
		return err
	}

	if goal != "" {
		result.Recommendations = recommend.NewEngine().Generate(recommend.Input{
			Scan: result,
			Goal: nutrition.ParseGoal(goal),
		})
	}

	if save {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveScan(context.Background(), result); err != nil {
			return fmt.Errorf("saving scan: %w", err)
		}
		logger.WithField("scan_id", result.ScanID).Info("Scan saved")
	}

	if asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printScanSummary(result)
	return nil
}
