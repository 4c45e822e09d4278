// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/babuconsultant/medical-consultation-ai/internal/archive"
	"github.com/babuconsultant/medical-consultation-ai/internal/codes"
	"github.com/babuconsultant/medical-consultation-ai/internal/pipeline"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [transcript-file]",
	Short: "Run the full pipeline: transcript to report to codes",
	Long: `Run chains all three stages over one transcript: field extraction,
report assembly, and code extraction. The assembled report and code
blocks print to stdout; --save archives the finished consultation.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	extractor, err := newExtractor(cmd)
	if err != nil {
		return err
	}
	coder, err := newCoder(cmd)
	if err != nil {
		return err
	}

	transcript, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}

	meta := metaFromFlags(cmd)
	ctx := context.Background()

	res, err := pipeline.Run(ctx, extractor, coder, string(transcript), meta)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	fmt.Print(res.ReportText)
	fmt.Print(codes.FormatCodeSet(res.Codes))

	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return nil
	}

	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	store, err := archive.NewStore(types.ArchiveConfig{ArchiveDir: archiveDir})
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(ctx, res.Record, meta, res.ReportText, res.Codes)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "archived as %s\n", id)
	return nil
}

func init() {
	backendFlags(runCmd)
	metaFlags(runCmd)
	runCmd.Flags().Bool("save", false, "archive the finished consultation")
	runCmd.Flags().String("archive-dir", "archive", "base directory for the consultation archive")

	rootCmd.AddCommand(runCmd)
}
