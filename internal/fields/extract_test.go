package fields

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/babuconsultant/medical-consultation-ai/internal/completion"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// --- mock completer ---

// scriptedCompleter returns canned responses in order, one per call.
type scriptedCompleter struct {
	responses []string
	err       error
	calls     int
	prompts   []string
	formats   []completion.Format
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string, format completion.Format) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.formats = append(s.formats, format)
	if s.err != nil {
		return "", s.err
	}
	if s.calls > len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", s.calls)
	}
	return s.responses[s.calls-1], nil
}

// fullResponse builds a JSON object with every canonical key present,
// applying the given overrides.
func fullResponse(t *testing.T, overrides map[string]string) string {
	t.Helper()
	m := make(map[string]string, len(types.FieldKeys))
	for _, key := range types.FieldKeys {
		m[key] = "value for " + key
	}
	for k, v := range overrides {
		m[k] = v
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// --- ModelExtractor ---

func TestModelExtractorValidResponse(t *testing.T) {
	c := &scriptedCompleter{responses: []string{
		fullResponse(t, map[string]string{
			"age":                     "65",
			"gender":                  "male",
			"reason_for_consultation": "chest pain",
		}),
	}}

	record, err := (&ModelExtractor{Completer: c}).Extract(context.Background(), "patient transcript")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if c.calls != 1 {
		t.Errorf("calls = %d, want 1", c.calls)
	}
	if record.Age != "65" {
		t.Errorf("Age = %q, want %q", record.Age, "65")
	}
	if record.ReasonForConsultation != "chest pain" {
		t.Errorf("ReasonForConsultation = %q, want %q", record.ReasonForConsultation, "chest pain")
	}
	if c.formats[0] != completion.FormatJSON {
		t.Errorf("format = %q, want %q", c.formats[0], completion.FormatJSON)
	}
}

func TestModelExtractorEmptyTranscript(t *testing.T) {
	c := &scriptedCompleter{}
	record, err := (&ModelExtractor{Completer: c}).Extract(context.Background(), "   \n\t ")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !record.IsEmpty() {
		t.Errorf("record not empty: %+v", record)
	}
	if c.calls != 0 {
		t.Errorf("calls = %d, want 0 (no prompt for empty transcript)", c.calls)
	}
}

func TestModelExtractorToleratesProseWrapping(t *testing.T) {
	payload := fullResponse(t, map[string]string{"age": "40"})
	c := &scriptedCompleter{responses: []string{
		"Here is the extracted record:\n```json\n" + payload + "\n```\nLet me know if you need anything else.",
	}}

	record, err := (&ModelExtractor{Completer: c}).Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if c.calls != 1 {
		t.Errorf("calls = %d, want 1 (prose wrapping should not trigger a retry)", c.calls)
	}
	if record.Age != "40" {
		t.Errorf("Age = %q, want %q", record.Age, "40")
	}
}

func TestModelExtractorRetriesOnceOnMalformed(t *testing.T) {
	c := &scriptedCompleter{responses: []string{
		"I could not find any structured fields in this transcript.",
		fullResponse(t, map[string]string{"age": "72"}),
	}}

	record, err := (&ModelExtractor{Completer: c}).Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if c.calls != 2 {
		t.Fatalf("calls = %d, want 2", c.calls)
	}
	if c.prompts[0] == c.prompts[1] {
		t.Error("retry should use a stricter prompt, got the same prompt twice")
	}
	if record.Age != "72" {
		t.Errorf("Age = %q, want %q", record.Age, "72")
	}
}

func TestModelExtractorIncompleteAfterRetry(t *testing.T) {
	// Both responses are missing keys; the second carries a partial record.
	partial := `{"age": "58", "gender": "female"}`
	c := &scriptedCompleter{responses: []string{"no json here", partial}}

	record, err := (&ModelExtractor{Completer: c}).Extract(context.Background(), "transcript")
	if err == nil {
		t.Fatal("expected IncompleteError, got nil")
	}

	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error type = %T, want *IncompleteError", err)
	}
	if c.calls != 2 {
		t.Errorf("calls = %d, want 2", c.calls)
	}
	if record.Age != "58" || record.Gender != "female" {
		t.Errorf("partial record = %+v, want age/gender preserved", record)
	}
	if incomplete.Record.Age != "58" {
		t.Errorf("IncompleteError.Record.Age = %q, want %q", incomplete.Record.Age, "58")
	}
	if len(incomplete.Missing) != len(types.FieldKeys)-2 {
		t.Errorf("Missing = %d fields, want %d", len(incomplete.Missing), len(types.FieldKeys)-2)
	}
	// Missing keys are reported sorted.
	for i := 1; i < len(incomplete.Missing); i++ {
		if incomplete.Missing[i] < incomplete.Missing[i-1] {
			t.Errorf("Missing not sorted: %v", incomplete.Missing)
			break
		}
	}
}

func TestModelExtractorCompletionErrorNotRetried(t *testing.T) {
	c := &scriptedCompleter{err: completion.ErrUpstreamTimeout}

	_, err := (&ModelExtractor{Completer: c}).Extract(context.Background(), "transcript")
	if !errors.Is(err, completion.ErrUpstreamTimeout) {
		t.Fatalf("error = %v, want ErrUpstreamTimeout", err)
	}
	if c.calls != 1 {
		t.Errorf("calls = %d, want 1 (transport errors are not retried here)", c.calls)
	}
}

// --- decodeRecord ---

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMissing int
		wantErr     bool
	}{
		{
			name:        "all keys present",
			raw:         fullResponse(t, nil),
			wantMissing: 0,
			wantErr:     false,
		},
		{
			name:        "no JSON at all",
			raw:         "plain prose response",
			wantMissing: len(types.FieldKeys),
			wantErr:     true,
		},
		{
			name:        "invalid JSON",
			raw:         `{"age": "65",}`,
			wantMissing: len(types.FieldKeys),
			wantErr:     true,
		},
		{
			name:        "missing two keys",
			raw:         `{"age": "65", "gender": "male"}`,
			wantMissing: len(types.FieldKeys) - 2,
			wantErr:     true,
		},
		{
			name:        "empty response",
			raw:         "",
			wantMissing: len(types.FieldKeys),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, missing, err := decodeRecord(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(missing) != tt.wantMissing {
				t.Errorf("missing = %d %v, want %d", len(missing), missing, tt.wantMissing)
			}
		})
	}
}

func TestDecodeRecordNonStringValue(t *testing.T) {
	raw := `{`
	for i, key := range types.FieldKeys {
		if i > 0 {
			raw += ", "
		}
		if key == "age" {
			raw += `"age": 65`
			continue
		}
		raw += fmt.Sprintf("%q: %q", key, "text")
	}
	raw += `}`

	record, missing, err := decodeRecord(raw)
	if err == nil {
		t.Fatal("expected error for non-string value")
	}
	if len(missing) != 1 || missing[0] != "age" {
		t.Errorf("missing = %v, want [age]", missing)
	}
	if record.Gender != "text" {
		t.Errorf("Gender = %q, want %q (other fields still recovered)", record.Gender, "text")
	}
}

// --- scrubPlaceholders ---

func TestScrubPlaceholders(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chest pain", "chest pain"},
		{"  chest pain  ", "chest pain"},
		{"N/A", ""},
		{"n/a", ""},
		{"None", ""},
		{"None.", ""},
		{"Not stated", ""},
		{"not reported", ""},
		{"Unknown", ""},
		{"null", ""},
		{"[not found in transcript]", ""},
		{"[age]", ""},
		{"", ""},
		{"nausea", "nausea"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := scrubPlaceholders(tt.in); got != tt.want {
				t.Errorf("scrubPlaceholders(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- renderPrompt ---

func TestRenderPrompt(t *testing.T) {
	prompt, err := renderPrompt(extractionPromptTmpl, types.FieldKeys, "the patient transcript")
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	if !strings.Contains(prompt, "the patient transcript") {
		t.Error("prompt should contain the transcript")
	}
	for _, key := range types.FieldKeys {
		if !strings.Contains(prompt, key) {
			t.Errorf("prompt missing field key %q", key)
		}
	}

	strict, err := renderPrompt(strictPromptTmpl, types.FieldKeys, "the patient transcript")
	if err != nil {
		t.Fatalf("renderPrompt(strict): %v", err)
	}
	if strict == prompt {
		t.Error("strict prompt should differ from the standard prompt")
	}
}
