// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CodeSystem identifies the coding system a finding belongs to.
type CodeSystem string

const (
	SystemICD10 CodeSystem = "ICD10"
	SystemCPT   CodeSystem = "CPT"
)

// MaxFindingsPerSystem caps each code list produced by code extraction.
const MaxFindingsPerSystem = 5

// CodedFinding is one diagnosis or procedure code derived from an assembled
// report, with a human-readable gloss.
type CodedFinding struct {
	// Code is the code text, syntactically valid for its system.
	Code string `json:"code" yaml:"code"`

	// System is ICD10 for diagnoses or CPT for procedures.
	System CodeSystem `json:"system" yaml:"system"`

	// Gloss is a short human-readable description of the code.
	Gloss string `json:"gloss" yaml:"gloss"`
}

// CodeSet holds the two bounded code lists derived from one report
// snapshot. The lists become stale if the report is edited afterward;
// tracking that is the caller's responsibility.
type CodeSet struct {
	ICD10 []CodedFinding `json:"icd10" yaml:"icd10"`
	CPT   []CodedFinding `json:"cpt" yaml:"cpt"`
}
