package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reddyfit/bodyscan/internal/signature"
)

var signatureCmd = &cobra.Command{
	Use:   "signature [BODY-SIGNATURE-ID]",
	Short: "Decode and explain a body signature ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignature,
}

func runSignature(cmd *cobra.Command, args []string) error {
	parsed := signature.Parse(args[0])
	if parsed == nil {
		return fmt.Errorf("%q is not a valid body signature", args[0])
	}

	fmt.Println(signature.DisplayName(args[0]))
	fmt.Printf("Body type:    %s\n", parsed.BodyType)
	fmt.Printf("Body fat:     %.1f%%\n", parsed.BodyFat)
	fmt.Printf("Adonis Index: %.2f\n", parsed.AdonisIndex)
	fmt.Printf("Hash:         %s\n", parsed.Hash)
	fmt.Printf("Short ID:     %s\n", signature.ShortID(args[0]))

	for _, insight := range signature.Insights(args[0]) {
		fmt.Printf("  - %s\n", insight)
	}
	return nil
}
