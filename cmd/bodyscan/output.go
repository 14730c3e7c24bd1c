package main

import (
	"fmt"
	"strings"

	"github.com/reddyfit/bodyscan/internal/models"
	"github.com/reddyfit/bodyscan/internal/scan"
)

func printScanSummary(result *models.ScanResult) {
	fmt.Print(scan.Report(result))
}

func printComparison(c *scan.Comparison) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Comparing scans %d day(s) apart\n", c.DaysApart)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Body fat:        %+.1f%%\n", c.BodyFatChange)
	fmt.Printf("Aesthetic score: %+.1f\n", c.ScoreChange)
	fmt.Printf("Adonis Index:    %+.2f\n", c.AdonisChange)
	fmt.Printf("Symmetry:        %+.1f\n", c.SymmetryChange)
	if len(c.Summaries) > 0 {
		fmt.Println("\nProgress:")
		for _, line := range c.Summaries {
			fmt.Printf("  - %s\n", line)
		}
	}
}
