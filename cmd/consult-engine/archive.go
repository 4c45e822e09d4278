// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/babuconsultant/medical-consultation-ai/internal/archive"
	"github.com/babuconsultant/medical-consultation-ai/internal/report"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Search and export archived consultations",
	Long: `Archive manages the local SQLite store of finished consultations.
Use subcommands to search past reports with full-text queries and
structured filters, or to export one consultation as JSON or text.`,
}

// --- store subcommand ---

var archiveStoreCmd = &cobra.Command{
	Use:   "store [report-file]",
	Short: "Store a finished report in the archive",
	Long: `Store parses a rendered report, extracts its code lists, and saves the
consultation. Metadata flags override values recovered from the report.
Re-storing the same visit replaces the earlier entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveStore,
}

func runArchiveStore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	text := string(data)

	record, meta, err := report.Parse(text)
	if err != nil {
		return err
	}
	override := metaFromFlags(cmd)
	if override.SampleName != "" {
		meta.SampleName = override.SampleName
	}
	if override.Description != "" {
		meta.Description = override.Description
	}
	if override.DateOfVisit != "" {
		meta.DateOfVisit = override.DateOfVisit
	}

	coder, err := newCoder(cmd)
	if err != nil {
		return err
	}
	set, err := coder.ExtractCodes(context.Background(), text)
	if err != nil {
		return err
	}

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(context.Background(), record, meta, text, set)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "archived as %s\n", id)
	return nil
}

// --- search subcommand ---

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search archived consultations",
	Long: `Search queries the archive with FTS5 full-text search over report text,
plus structured filters on gender and finding code. Without any query or
filter it lists the newest consultations first.`,
	RunE: runArchiveSearch,
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	gender, _ := cmd.Flags().GetString("gender")
	code, _ := cmd.Flags().GetString("code")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := archive.SearchOptions{
		Query:      strings.Join(args, " "),
		Gender:     gender,
		Code:       code,
		MaxResults: limit,
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-30s  %-12s  %s\n", "ID", "Sample", "Visit", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range results {
		sample := r.SampleName
		if len(sample) > 30 {
			sample = sample[:27] + "..."
		}
		desc := r.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-30s  %-12s  %s\n", r.ID, sample, r.DateOfVisit, desc)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export [consultation-id]",
	Short: "Export one archived consultation",
	Long: `Export writes one consultation to stdout: the record, report, and code
lists as indented JSON, or the report followed by code blocks as text.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "":
		return store.ExportJSON(context.Background(), args[0], os.Stdout)
	case "text":
		return store.ExportText(context.Background(), args[0], os.Stdout)
	default:
		return fmt.Errorf("unsupported format %q: use json or text", format)
	}
}

// --- shared helpers ---

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return archive.NewStore(types.ArchiveConfig{ArchiveDir: archiveDir, MaxResults: maxResults})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	archiveCmd.PersistentFlags().String("archive-dir", "archive", "base directory for the consultation archive")
	archiveCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	// Search flags.
	archiveSearchCmd.Flags().String("gender", "", "filter by recorded patient gender")
	archiveSearchCmd.Flags().String("code", "", "filter by finding code (ICD-10 or CPT)")
	archiveSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	archiveExportCmd.Flags().String("format", "json", "export format: json or text")

	// Store flags.
	backendFlags(archiveStoreCmd)
	metaFlags(archiveStoreCmd)

	// Wire subcommands.
	archiveCmd.AddCommand(archiveStoreCmd)
	archiveCmd.AddCommand(archiveSearchCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
