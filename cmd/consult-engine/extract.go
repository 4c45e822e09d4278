// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/babuconsultant/medical-consultation-ai/internal/fields"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [transcript-file]",
	Short: "Extract the structured record from a consultation transcript",
	Long: `Extract maps one transcript to the fixed sixteen-field structured record
and prints it as YAML. With --batch it processes every .txt file under
<consultations-dir>/transcripts/ and writes records to
<consultations-dir>/records/, skipping unchanged transcripts.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	extractor, err := newExtractor(cmd)
	if err != nil {
		return err
	}

	batch, _ := cmd.Flags().GetBool("batch")
	if batch {
		consultationsDir, _ := cmd.Flags().GetString("consultations-dir")
		cfg := types.ExtractionConfig{ConsultationsDir: consultationsDir}

		summary, err := fields.ExtractAll(context.Background(), extractor, cfg, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Printf("extracted %d, skipped %d, failed %d\n", summary.Extracted, summary.Skipped, summary.Failed)
		if summary.HasFailures() {
			return fmt.Errorf("%d transcript(s) failed extraction", summary.Failed)
		}
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("transcript file required (or use --batch)")
	}
	transcript, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	record, err := extractor.Extract(context.Background(), string(transcript))
	if err != nil {
		var incomplete *fields.IncompleteError
		if !errors.As(err, &incomplete) {
			return err
		}
		record = incomplete.Record
		fmt.Fprintf(os.Stderr, "warning: %v\n", incomplete)
	}

	out, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func init() {
	backendFlags(extractCmd)
	extractCmd.Flags().Bool("batch", false, "process all transcripts under consultations-dir")
	extractCmd.Flags().String("consultations-dir", "consultations", "base directory for transcripts and records")

	rootCmd.AddCommand(extractCmd)
}
