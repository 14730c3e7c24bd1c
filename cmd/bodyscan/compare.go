package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/scan"
	"github.com/reddyfit/bodyscan/internal/storage"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two stored scans for a user",
	Long: `Compares two scans from storage and prints the progress between
them. Without --from/--to the two most recent scans are compared.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringP("user", "u", "cli", "user ID")
	compareCmd.Flags().String("from", "", "older scan ID")
	compareCmd.Flags().String("to", "", "newer scan ID")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	userID, _ := cmd.Flags().GetString("user")
	fromID, _ := cmd.Flags().GetString("from")
	toID, _ := cmd.Flags().GetString("to")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	older, newer, err := loadComparePair(ctx, store, userID, fromID, toID)
	if err != nil {
		return err
	}

	comparison, err := scan.CompareScans(older, newer)
	if err != nil {
		return err
	}
	printComparison(comparison)
	return nil
}

func loadComparePair(ctx context.Context, store storage.Store, userID, fromID, toID string) (*models.ScanResult, *models.ScanResult, error) {
	if (fromID == "") != (toID == "") {
		return nil, nil, fmt.Errorf("--from and --to must be supplied together")
	}
	if fromID != "" && toID != "" {
		older, err := store.GetScan(ctx, userID, fromID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading scan %s: %w", fromID, err)
		}
		newer, err := store.GetScan(ctx, userID, toID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading scan %s: %w", toID, err)
		}
		return older, newer, nil
	}

	history, err := store.GetScanHistory(ctx, userID, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(history) < 2 {
		return nil, nil, fmt.Errorf("user %s has %d scan(s), need at least two to compare", userID, len(history))
	}
	// History is newest first
	return history[1], history[0], nil
}
