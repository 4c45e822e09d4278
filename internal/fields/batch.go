// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

const (
	transcriptsDir = "transcripts"
	recordsDir     = "records"
)

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of transcripts processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any transcripts failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractAll processes all transcript files in consultationsDir/transcripts/,
// extracts a StructuredRecord from each via the extractor, and writes the
// records as YAML to consultationsDir/records/. Unchanged transcripts are
// skipped; changed ones are re-extracted. An extraction that needed
// defaulted fields still writes its partial record but counts as failed so
// the caller can warn.
func ExtractAll(ctx context.Context, extractor Extractor, cfg types.ExtractionConfig, w io.Writer) (BatchSummary, error) {
	inDir := filepath.Join(cfg.ConsultationsDir, transcriptsDir)
	outDir := filepath.Join(cfg.ConsultationsDir, recordsDir)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating records directory: %w", err)
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading transcripts directory %s: %w", inDir, err)
	}

	var summary BatchSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		consultID := strings.TrimSuffix(entry.Name(), ".txt")
		inPath := filepath.Join(inDir, entry.Name())
		outPath := filepath.Join(outDir, consultID+"-record.yaml")

		changed, err := hasChanged(inPath, outPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", consultID, err)
			summary.Failed++
			continue
		}
		if !changed {
			fmt.Fprintf(w, "skipped %s\n", consultID)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "extracting %s\n", consultID)

		transcript, err := os.ReadFile(inPath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", consultID, err)
			summary.Failed++
			continue
		}

		record, err := extractor.Extract(ctx, string(transcript))
		var incomplete *IncompleteError
		switch {
		case err == nil:
		case errors.As(err, &incomplete):
			// Partial record survives; the run is reported as failed.
			record = incomplete.Record
			if writeErr := writeRecord(outPath, record); writeErr != nil {
				fmt.Fprintf(w, "failed  %s: write error: %v\n", consultID, writeErr)
			} else {
				fmt.Fprintf(w, "failed  %s: %v (partial record written)\n", consultID, err)
			}
			summary.Failed++
			continue
		default:
			fmt.Fprintf(w, "failed  %s: %v\n", consultID, err)
			summary.Failed++
			continue
		}

		if err := writeRecord(outPath, record); err != nil {
			fmt.Fprintf(w, "failed  %s: write error: %v\n", consultID, err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "extracted %s\n", consultID)
		summary.Extracted++
	}

	return summary, nil
}

// hasChanged reports whether the transcript is newer than the record file.
// Returns true if the record does not exist or the transcript is more recent.
func hasChanged(inPath, outPath string) (bool, error) {
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return false, fmt.Errorf("stat transcript %s: %w", inPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat record %s: %w", outPath, err)
	}

	return inInfo.ModTime().After(outInfo.ModTime()), nil
}

// writeRecord marshals the StructuredRecord to a YAML file.
func writeRecord(path string, record types.StructuredRecord) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRecord loads a StructuredRecord from a YAML file written by
// ExtractAll.
func ReadRecord(path string) (types.StructuredRecord, error) {
	var record types.StructuredRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return record, fmt.Errorf("reading record %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("parsing record %s: %w", path, err)
	}
	return record, nil
}
