// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/babuconsultant/medical-consultation-ai/internal/completion"
	"github.com/babuconsultant/medical-consultation-ai/internal/report"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// codingPromptTmpl asks the collaborator for ranked diagnosis and procedure
// codes from a full report.
var codingPromptTmpl = template.Must(template.New("coding").Parse(`You are a medical coding assistant. Read the following consultation report and extract billing and diagnosis codes.

Focus on the REASON FOR CONSULTATION, HISTORY OF PRESENT ILLNESS, PHYSICAL EXAMINATION, and ASSESSMENT AND PLAN sections. Rank candidates by specificity (a fully qualified condition outranks a generic one) and prefer mentions from the assessment and plan over earlier sections. Never invent codes the report does not support, and skip explicitly denied findings.

Respond with a JSON object of exactly this shape, each list ordered best first with at most 5 entries:
{"icd10_codes": [{"code": "K35.2", "gloss": "Acute appendicitis with generalized peritonitis"}], "cpt_codes": [{"code": "93000", "gloss": "Electrocardiogram, routine, with interpretation"}]}

ICD-10 codes are a letter, two digits, and an optional decimal with up to two characters. CPT codes are exactly five digits. Do not include any text outside the JSON object.

Report:
{{.Report}}
`))

// ModelCoder performs code extraction through the completion collaborator.
type ModelCoder struct {
	Completer completion.Completer
}

type codingResponse struct {
	ICD10 []codingItem `json:"icd10_codes"`
	CPT   []codingItem `json:"cpt_codes"`
}

type codingItem struct {
	Code  string `json:"code"`
	Gloss string `json:"gloss"`
}

// ExtractCodes prompts the collaborator and keeps its ranking. Candidates
// with invalid syntax are dropped silently; lists are truncated to five.
// Report text without heading markers short-circuits to empty lists and
// report.ErrMalformedReport without a collaborator call.
func (m *ModelCoder) ExtractCodes(ctx context.Context, reportText string) (types.CodeSet, error) {
	if _, err := report.Sections(reportText); err != nil {
		return types.CodeSet{}, err
	}

	var buf bytes.Buffer
	if err := codingPromptTmpl.Execute(&buf, struct{ Report string }{Report: reportText}); err != nil {
		return types.CodeSet{}, fmt.Errorf("rendering coding prompt: %w", err)
	}

	raw, err := m.Completer.Complete(ctx, buf.String(), completion.FormatJSON)
	if err != nil {
		return types.CodeSet{}, err
	}

	payload := completion.ExtractJSON(raw)
	if payload == "" {
		return types.CodeSet{}, fmt.Errorf("no JSON object in coding response")
	}

	var resp codingResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return types.CodeSet{}, fmt.Errorf("parsing coding response: %w", err)
	}

	return types.CodeSet{
		ICD10: keepValid(resp.ICD10, types.SystemICD10),
		CPT:   keepValid(resp.CPT, types.SystemCPT),
	}, nil
}

func keepValid(items []codingItem, system types.CodeSystem) []types.CodedFinding {
	findings := make([]types.CodedFinding, 0, len(items))
	for _, item := range items {
		code := NormalizeCode(item.Code)
		if !ValidCode(code, system) {
			continue
		}
		findings = append(findings, types.CodedFinding{Code: code, System: system, Gloss: item.Gloss})
		if len(findings) == types.MaxFindingsPerSystem {
			break
		}
	}
	return findings
}
