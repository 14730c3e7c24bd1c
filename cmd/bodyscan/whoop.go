package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reddyfit/bodyscan/internal/whoop"
)

var whoopCmd = &cobra.Command{
	Use:   "whoop",
	Short: "Fetch WHOOP recovery data for a user",
	Long: `Fetches the latest recovery data from the WHOOP API. Without an
access token configured, deterministic mock data is returned so the
rest of the pipeline can be exercised offline.`,
	RunE: runWhoop,
}

func init() {
	whoopCmd.Flags().StringP("user", "u", "cli", "user ID")
}

func runWhoop(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")

	client := newWhoopClient()
	data, err := client.GetRecoveryData(context.Background(), userID)
	if err != nil {
		return err
	}
	if !data.HasData {
		fmt.Println("No recovery data available")
		return nil
	}

	if data.RecoveryScore != nil {
		fmt.Printf("Recovery score:  %.0f (%s)\n", *data.RecoveryScore, whoop.RecoveryStatus(*data.RecoveryScore))
	}
	if data.StrainScore != nil {
		fmt.Printf("Strain:          %.1f\n", *data.StrainScore)
	}
	if data.SleepHours != nil {
		fmt.Printf("Sleep:           %.1fh (%s)\n", *data.SleepHours, whoop.SleepQuality(*data.SleepHours))
	}
	if data.HrvMs != nil {
		fmt.Printf("HRV:             %.0f ms\n", *data.HrvMs)
	}
	if data.RestingHeartRate != nil {
		fmt.Printf("Resting HR:      %d bpm\n", *data.RestingHeartRate)
	}
	return nil
}
