// Package fields maps raw consultation transcripts to the fixed sixteen-field
// StructuredRecord. Two interchangeable extractors implement the same
// contract: ModelExtractor delegates span selection to the completion
// collaborator, RuleExtractor applies deterministic keyword rules.
package fields

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/internal/completion"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// Extractor turns one transcript into a StructuredRecord. Implementations
// are stateless and safe for concurrent use. An empty or whitespace-only
// transcript yields an all-empty record, not an error.
type Extractor interface {
	Extract(ctx context.Context, transcript string) (types.StructuredRecord, error)
}

// IncompleteError reports that the completion collaborator's output did not
// parse into the fixed-key record shape, even after the bounded retry. The
// Record carries whatever fields were recoverable, with the rest empty, so
// callers always hold a complete value.
type IncompleteError struct {
	Record  types.StructuredRecord
	Missing []string
	Cause   error
}

func (e *IncompleteError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("extraction incomplete: missing fields %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("extraction incomplete: %v", e.Cause)
}

func (e *IncompleteError) Unwrap() error { return e.Cause }

// ModelExtractor performs extraction through the completion collaborator.
type ModelExtractor struct {
	Completer completion.Completer
}

// Extract prompts the collaborator for a fixed-key JSON record. A response
// that fails to parse triggers exactly one retry with a stricter prompt;
// after that the partial record is surfaced inside an IncompleteError.
// Collaborator transport failures are returned as-is and are never retried
// here.
func (m *ModelExtractor) Extract(ctx context.Context, transcript string) (types.StructuredRecord, error) {
	if strings.TrimSpace(transcript) == "" {
		return types.StructuredRecord{}, nil
	}

	prompt, err := renderPrompt(extractionPromptTmpl, types.FieldKeys, transcript)
	if err != nil {
		return types.StructuredRecord{}, fmt.Errorf("rendering extraction prompt: %w", err)
	}

	raw, err := m.Completer.Complete(ctx, prompt, completion.FormatJSON)
	if err != nil {
		return types.StructuredRecord{}, err
	}

	record, missing, parseErr := decodeRecord(raw)
	if parseErr == nil && len(missing) == 0 {
		return record, nil
	}

	// One bounded retry with a stricter prompt.
	strict, err := renderPrompt(strictPromptTmpl, types.FieldKeys, transcript)
	if err != nil {
		return types.StructuredRecord{}, fmt.Errorf("rendering strict prompt: %w", err)
	}

	raw, err = m.Completer.Complete(ctx, strict, completion.FormatJSON)
	if err != nil {
		return types.StructuredRecord{}, err
	}

	record, missing, parseErr = decodeRecord(raw)
	if parseErr == nil && len(missing) == 0 {
		return record, nil
	}

	return record, &IncompleteError{Record: record, Missing: missing, Cause: parseErr}
}

// decodeRecord parses collaborator output into a StructuredRecord. It
// tolerates prose or code fences around the JSON object but requires every
// canonical key to be present with a string value. The returned record holds
// whatever recognized fields parsed, scrubbed of placeholder markers.
func decodeRecord(raw string) (types.StructuredRecord, []string, error) {
	var record types.StructuredRecord

	payload := completion.ExtractJSON(raw)
	if payload == "" {
		return record, append([]string(nil), types.FieldKeys...), fmt.Errorf("no JSON object in response")
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return record, append([]string(nil), types.FieldKeys...), fmt.Errorf("parsing response JSON: %w", err)
	}

	var missing []string
	for _, key := range types.FieldKeys {
		v, ok := m[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		s, ok := v.(string)
		if !ok {
			missing = append(missing, key)
			continue
		}
		record.SetField(key, scrubPlaceholders(s))
	}

	sort.Strings(missing)
	if len(missing) > 0 {
		return record, missing, fmt.Errorf("response missing %d field(s)", len(missing))
	}
	return record, nil, nil
}

// placeholderValues are model outputs that mean "nothing extracted" and must
// never reach a record field.
var placeholderValues = map[string]bool{
	"n/a":          true,
	"na":           true,
	"none":         true,
	"not stated":   true,
	"not reported": true,
	"unknown":      true,
	"null":         true,
}

// scrubPlaceholders normalizes a field value: bracket placeholders and
// known null-markers become the empty string, everything else is trimmed.
func scrubPlaceholders(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(strings.Trim(s, "."))
	if placeholderValues[lower] {
		return ""
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return ""
	}
	return s
}
