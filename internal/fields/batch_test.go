package fields

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

func testConfig(consultationsDir string) types.ExtractionConfig {
	return types.ExtractionConfig{
		RuleBased:        true,
		ConsultationsDir: consultationsDir,
	}
}

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- ExtractAll ---

func TestExtractAll(t *testing.T) {
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, transcriptsDir)
	writeTranscript(t, inDir, "visit1.txt", "45 year old female with headache for the past two days")
	writeTranscript(t, inDir, "visit2.txt", "denies fever, taking aspirin daily")

	var buf strings.Builder
	summary, err := ExtractAll(context.Background(), RuleExtractor{}, testConfig(tmpDir), &buf)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if summary.Extracted != 2 {
		t.Errorf("Extracted = %d, want 2", summary.Extracted)
	}
	if summary.Failed != 0 {
		t.Errorf("Failed = %d, want 0", summary.Failed)
	}

	for _, name := range []string{"visit1-record.yaml", "visit2-record.yaml"} {
		path := filepath.Join(tmpDir, recordsDir, name)
		record, err := ReadRecord(path)
		if err != nil {
			t.Errorf("reading %s: %v", name, err)
			continue
		}
		if record.IsEmpty() {
			t.Errorf("%s: record is empty", name)
		}
	}
}

func TestExtractAllSkipsUnchanged(t *testing.T) {
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, transcriptsDir)
	outDir := filepath.Join(tmpDir, recordsDir)
	writeTranscript(t, inDir, "visit1.txt", "45 year old female with headache")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(outDir, "visit1-record.yaml")
	if err := writeRecord(outPath, types.StructuredRecord{Age: "45"}); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(outPath, future, future); err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	summary, err := ExtractAll(context.Background(), RuleExtractor{}, testConfig(tmpDir), &buf)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if summary.Extracted != 0 {
		t.Errorf("Extracted = %d, want 0", summary.Extracted)
	}
}

func TestExtractAllReextractsChanged(t *testing.T) {
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, transcriptsDir)
	outDir := filepath.Join(tmpDir, recordsDir)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(outDir, "visit1-record.yaml")
	if err := writeRecord(outPath, types.StructuredRecord{Age: "30"}); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(outPath, past, past); err != nil {
		t.Fatal(err)
	}

	writeTranscript(t, inDir, "visit1.txt", "72 year old male with chest pain")

	var buf strings.Builder
	summary, err := ExtractAll(context.Background(), RuleExtractor{}, testConfig(tmpDir), &buf)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if summary.Extracted != 1 {
		t.Errorf("Extracted = %d, want 1", summary.Extracted)
	}

	record, err := ReadRecord(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if record.Age != "72" {
		t.Errorf("Age = %q, want %q (record should be replaced)", record.Age, "72")
	}
}

// failingExtractor always returns a transport-style error.
type failingExtractor struct{}

func (failingExtractor) Extract(_ context.Context, _ string) (types.StructuredRecord, error) {
	return types.StructuredRecord{}, fmt.Errorf("backend unavailable")
}

func TestExtractAllRecordsFailures(t *testing.T) {
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, transcriptsDir)
	writeTranscript(t, inDir, "visit1.txt", "some transcript")

	var buf strings.Builder
	summary, err := ExtractAll(context.Background(), failingExtractor{}, testConfig(tmpDir), &buf)
	if err != nil {
		t.Fatalf("ExtractAll should not fail the whole batch: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if !summary.HasFailures() {
		t.Error("HasFailures() should return true")
	}
	if !strings.Contains(buf.String(), "failed") {
		t.Errorf("output should contain 'failed': %s", buf.String())
	}
}

// incompleteExtractor returns a partial record inside an IncompleteError.
type incompleteExtractor struct{}

func (incompleteExtractor) Extract(_ context.Context, _ string) (types.StructuredRecord, error) {
	record := types.StructuredRecord{Age: "50"}
	return record, &IncompleteError{Record: record, Missing: []string{"gender"}}
}

func TestExtractAllWritesPartialRecords(t *testing.T) {
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, transcriptsDir)
	writeTranscript(t, inDir, "visit1.txt", "some transcript")

	var buf strings.Builder
	summary, err := ExtractAll(context.Background(), incompleteExtractor{}, testConfig(tmpDir), &buf)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}

	// The partial record is still written.
	record, err := ReadRecord(filepath.Join(tmpDir, recordsDir, "visit1-record.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if record.Age != "50" {
		t.Errorf("Age = %q, want %q", record.Age, "50")
	}
	if !strings.Contains(buf.String(), "partial record written") {
		t.Errorf("output should note the partial record: %s", buf.String())
	}
}

// --- BatchSummary ---

func TestBatchSummary(t *testing.T) {
	s := BatchSummary{Extracted: 3, Skipped: 2, Failed: 1}
	if s.Total() != 6 {
		t.Errorf("Total() = %d, want 6", s.Total())
	}
	if !s.HasFailures() {
		t.Error("HasFailures() should return true")
	}

	s2 := BatchSummary{Extracted: 5}
	if s2.HasFailures() {
		t.Error("HasFailures() should return false")
	}
}
