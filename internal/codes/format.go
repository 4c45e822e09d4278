// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codes

import (
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// FormatCodeSet renders the two code lists as report-style blocks:
// each system under its own heading marker, one "- CODE (gloss)" line per
// finding, with the report grammar's blank-line convention. An empty list
// renders "None." under its heading.
func FormatCodeSet(set types.CodeSet) string {
	var b strings.Builder
	writeBlock(&b, "ICD-10 CODES", set.ICD10)
	writeBlock(&b, "CPT CODES", set.CPT)
	return b.String()
}

func writeBlock(b *strings.Builder, heading string, findings []types.CodedFinding) {
	b.WriteString(heading)
	b.WriteString("::\n\n")
	if len(findings) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	for _, f := range findings {
		b.WriteString("- ")
		b.WriteString(f.Code)
		if f.Gloss != "" {
			b.WriteString(" (")
			b.WriteString(f.Gloss)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
