// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/babuconsultant/medical-consultation-ai/internal/report"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Assemble and parse canonical consultation reports",
	Long: `Report converts between structured records and canonical report text.
The render subcommand assembles report text from a record YAML file; the
parse subcommand recovers the record and visit metadata from report text,
accepting manually edited reports as input.`,
}

// --- render subcommand ---

var reportRenderCmd = &cobra.Command{
	Use:   "render [record-file]",
	Short: "Assemble canonical report text from a record YAML file",
	Long: `Render reads a structured record from YAML and emits the canonical
eighteen-section report. Empty fields render as the neutral clause; the
KEYWORDS section is synthesized from the record.`,
	Args: cobra.ExactArgs(1),
	RunE: runReportRender,
}

func runReportRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}
	var record types.StructuredRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("parsing record: %w", err)
	}

	meta := metaFromFlags(cmd)
	fmt.Print(report.Text(report.Render(record, meta)))
	return nil
}

// --- parse subcommand ---

var reportParseCmd = &cobra.Command{
	Use:   "parse [report-file]",
	Short: "Recover the structured record from report text",
	Long: `Parse reads canonical (or hand-edited) report text and prints the
recovered structured record as YAML. Unknown headings are ignored;
missing headings yield empty fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runReportParse,
}

func runReportParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	record, meta, err := report.Parse(string(data))
	if err != nil {
		return err
	}

	out := struct {
		Metadata types.VisitMetadata    `yaml:"metadata"`
		Record   types.StructuredRecord `yaml:"record"`
	}{Metadata: meta, Record: record}

	encoded, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Print(string(encoded))
	return nil
}

// --- shared helpers ---

func metaFromFlags(cmd *cobra.Command) types.VisitMetadata {
	sampleName, _ := cmd.Flags().GetString("sample-name")
	description, _ := cmd.Flags().GetString("description")
	dateOfVisit, _ := cmd.Flags().GetString("date-of-visit")
	return types.VisitMetadata{
		SampleName:  sampleName,
		Description: description,
		DateOfVisit: dateOfVisit,
	}
}

func metaFlags(cmd *cobra.Command) {
	cmd.Flags().String("sample-name", "", "visit sample name for the report header")
	cmd.Flags().String("description", "", "visit description for the report header")
	cmd.Flags().String("date-of-visit", "", "visit date for the report header")
}

func init() {
	metaFlags(reportRenderCmd)

	reportCmd.AddCommand(reportRenderCmd)
	reportCmd.AddCommand(reportParseCmd)

	rootCmd.AddCommand(reportCmd)
}
