// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/babuconsultant/medical-consultation-ai/internal/codes"
)

var codesCmd = &cobra.Command{
	Use:   "codes [report-file]",
	Short: "Derive ICD-10 and CPT code candidates from a report",
	Long: `Codes reads assembled report text and prints up to five ICD-10 and five
CPT candidates, each with a human-readable gloss, ranked by specificity
and recency. Sparse reports yield shorter or empty lists, never padding.`,
	Args: cobra.ExactArgs(1),
	RunE: runCodes,
}

func runCodes(cmd *cobra.Command, args []string) error {
	coder, err := newCoder(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	set, err := coder.ExtractCodes(context.Background(), string(data))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}
	fmt.Print(codes.FormatCodeSet(set))
	return nil
}

func init() {
	backendFlags(codesCmd)
	codesCmd.Flags().Bool("json", false, "output code lists as JSON")

	rootCmd.AddCommand(codesCmd)
}
