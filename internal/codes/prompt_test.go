package codes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/babuconsultant/medical-consultation-ai/internal/completion"
	"github.com/babuconsultant/medical-consultation-ai/internal/report"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// stubCompleter returns one canned response for every call.
type stubCompleter struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ completion.Format) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// --- ModelCoder ---

func TestModelCoderKeepsRanking(t *testing.T) {
	c := &stubCompleter{response: `{
		"icd10_codes": [
			{"code": "K35.2", "gloss": "Acute appendicitis with generalized peritonitis"},
			{"code": "R10.9", "gloss": "Unspecified abdominal pain"}
		],
		"cpt_codes": [
			{"code": "44970", "gloss": "Laparoscopy, surgical, appendectomy"}
		]
	}`}

	text := buildReport(types.HeadingAssessmentPlan, "Acute appendicitis with peritonitis.")
	set, err := (&ModelCoder{Completer: c}).ExtractCodes(context.Background(), text)
	if err != nil {
		t.Fatalf("ExtractCodes: %v", err)
	}

	got := codeList(set.ICD10)
	if len(got) != 2 || got[0] != "K35.2" || got[1] != "R10.9" {
		t.Errorf("ICD10 = %v, want [K35.2 R10.9] in response order", got)
	}
	if cpt := codeList(set.CPT); len(cpt) != 1 || cpt[0] != "44970" {
		t.Errorf("CPT = %v, want [44970]", cpt)
	}
	if !strings.Contains(c.prompt, "Acute appendicitis with peritonitis.") {
		t.Error("prompt should embed the report text")
	}
}

func TestModelCoderDropsInvalidSyntax(t *testing.T) {
	c := &stubCompleter{response: `{
		"icd10_codes": [
			{"code": "K35.2", "gloss": "valid"},
			{"code": "K35.123", "gloss": "decimal too long"},
			{"code": "not-a-code", "gloss": "nonsense"},
			{"code": "i10", "gloss": "lowercase, normalized then kept"}
		],
		"cpt_codes": [
			{"code": "9300", "gloss": "too short"},
			{"code": "93000", "gloss": "valid"}
		]
	}`}

	text := buildReport(types.HeadingReason, "Chest pain.")
	set, err := (&ModelCoder{Completer: c}).ExtractCodes(context.Background(), text)
	if err != nil {
		t.Fatalf("ExtractCodes: %v", err)
	}

	if got := codeList(set.ICD10); len(got) != 2 || got[0] != "K35.2" || got[1] != "I10" {
		t.Errorf("ICD10 = %v, want [K35.2 I10]", got)
	}
	if got := codeList(set.CPT); len(got) != 1 || got[0] != "93000" {
		t.Errorf("CPT = %v, want [93000]", got)
	}
}

func TestModelCoderTruncatesAtFive(t *testing.T) {
	c := &stubCompleter{response: `{
		"icd10_codes": [
			{"code": "I10"}, {"code": "E11.9"}, {"code": "E78.5"},
			{"code": "J45.90"}, {"code": "D64.9"}, {"code": "R50.9"},
			{"code": "R05.9"}
		],
		"cpt_codes": []
	}`}

	text := buildReport(types.HeadingAssessmentPlan, "Multiple chronic conditions.")
	set, err := (&ModelCoder{Completer: c}).ExtractCodes(context.Background(), text)
	if err != nil {
		t.Fatalf("ExtractCodes: %v", err)
	}
	if len(set.ICD10) != types.MaxFindingsPerSystem {
		t.Errorf("ICD10 has %d codes, want %d", len(set.ICD10), types.MaxFindingsPerSystem)
	}
}

func TestModelCoderMalformedReportShortCircuits(t *testing.T) {
	c := &stubCompleter{response: `{"icd10_codes": [], "cpt_codes": []}`}

	_, err := (&ModelCoder{Completer: c}).ExtractCodes(context.Background(), "prose with no markers")
	if !errors.Is(err, report.ErrMalformedReport) {
		t.Fatalf("err = %v, want ErrMalformedReport", err)
	}
	if c.calls != 0 {
		t.Errorf("calls = %d, want 0 (malformed text must not reach the collaborator)", c.calls)
	}
}

func TestModelCoderCompletionErrorPropagates(t *testing.T) {
	c := &stubCompleter{err: completion.ErrUpstreamUnavailable}

	text := buildReport(types.HeadingReason, "Chest pain.")
	_, err := (&ModelCoder{Completer: c}).ExtractCodes(context.Background(), text)
	if !errors.Is(err, completion.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestModelCoderToleratesProseWrapping(t *testing.T) {
	c := &stubCompleter{response: "Here are the codes:\n```json\n" +
		`{"icd10_codes": [{"code": "I10", "gloss": "Essential hypertension"}], "cpt_codes": []}` +
		"\n```"}

	text := buildReport(types.HeadingAssessmentPlan, "Hypertension, well controlled.")
	set, err := (&ModelCoder{Completer: c}).ExtractCodes(context.Background(), text)
	if err != nil {
		t.Fatalf("ExtractCodes: %v", err)
	}
	if got := codeList(set.ICD10); len(got) != 1 || got[0] != "I10" {
		t.Errorf("ICD10 = %v, want [I10]", got)
	}
}

// --- FormatCodeSet ---

func TestFormatCodeSet(t *testing.T) {
	set := types.CodeSet{
		ICD10: []types.CodedFinding{
			{Code: "K35.2", System: types.SystemICD10, Gloss: "Acute appendicitis with generalized peritonitis"},
		},
		CPT: []types.CodedFinding{
			{Code: "44970", System: types.SystemCPT, Gloss: "Laparoscopy, surgical, appendectomy"},
			{Code: "85025", System: types.SystemCPT},
		},
	}

	got := FormatCodeSet(set)
	want := "ICD-10 CODES::\n\n" +
		"- K35.2 (Acute appendicitis with generalized peritonitis)\n\n" +
		"CPT CODES::\n\n" +
		"- 44970 (Laparoscopy, surgical, appendectomy)\n" +
		"- 85025\n\n"
	if got != want {
		t.Errorf("FormatCodeSet:\n got %q\nwant %q", got, want)
	}
}

func TestFormatCodeSetEmpty(t *testing.T) {
	got := FormatCodeSet(types.CodeSet{})
	want := "ICD-10 CODES::\n\nNone.\n\nCPT CODES::\n\nNone.\n\n"
	if got != want {
		t.Errorf("FormatCodeSet:\n got %q\nwant %q", got, want)
	}
}
