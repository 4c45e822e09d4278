// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles StructuredRecords into canonical consultation
// report text and parses report text back into records. Rendering is a
// deterministic, total function; parsing is tolerant and order-independent.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// NeutralClause fills sections whose source field is empty. The report
// grammar forbids empty section bodies.
const NeutralClause = "Not reported."

var (
	bracketPlaceholder = regexp.MustCompile(`\[[^\[\]]*\]`)
	bulletPrefix       = regexp.MustCompile(`^\s*[-*•]\s+`)
	multiSpace         = regexp.MustCompile(`[ \t]{2,}`)
)

// Render assembles the canonical report: all eighteen headings exactly once,
// in canonical order, each body non-empty. Age and gender are folded into
// the DESCRIPTION section as a trailing demographics clause so the record
// survives a parse round trip.
func Render(record types.StructuredRecord, meta types.VisitMetadata) types.Report {
	var rep types.Report

	for _, heading := range types.ReportHeadings {
		var body string
		switch heading {
		case types.HeadingSampleName:
			body = normalizeBody(meta.SampleName)
		case types.HeadingDescription:
			body = descriptionBody(record, meta)
		case types.HeadingDateOfVisit:
			body = normalizeBody(meta.DateOfVisit)
		case types.HeadingKeywords:
			body = strings.Join(Keywords(record), ", ")
		default:
			key := types.HeadingFieldKeys[heading]
			value, _ := record.Field(key)
			body = normalizeBody(value)
		}

		if body == "" {
			body = NeutralClause
		}
		rep.Sections = append(rep.Sections, types.Section{Heading: heading, Body: body})
	}

	return rep
}

// Text emits the report in the fixed grammar: each heading uppercase,
// terminated by the double-colon marker, one blank line, the body, one
// blank line.
func Text(rep types.Report) string {
	var b strings.Builder
	for _, s := range rep.Sections {
		b.WriteString(s.Heading)
		b.WriteString("::\n\n")
		b.WriteString(s.Body)
		b.WriteString("\n\n")
	}
	return b.String()
}

// descriptionBody combines the visit description with the demographics
// clause derived from the record's age and gender.
func descriptionBody(record types.StructuredRecord, meta types.VisitMetadata) string {
	desc := normalizeBody(meta.Description)
	clause := demographicsClause(record.Age, record.Gender)
	switch {
	case clause == "":
		return desc
	case desc == "":
		return clause
	default:
		return desc + "\n" + clause
	}
}

// demographicsClause renders age and gender as a single canonical line.
// Empty when both are absent.
func demographicsClause(age, gender string) string {
	switch {
	case age != "" && gender != "":
		return fmt.Sprintf("Patient: %s-year-old %s.", age, gender)
	case age != "":
		return fmt.Sprintf("Patient: %s-year-old.", age)
	case gender != "":
		return fmt.Sprintf("Patient: %s.", gender)
	}
	return ""
}

// normalizeBody scrubs a field value for the report grammar: bracket
// placeholders removed, bullet prefixes stripped, blank lines collapsed,
// edges trimmed. The result is a stable fixed point: normalizing it again
// changes nothing.
func normalizeBody(value string) string {
	value = bracketPlaceholder.ReplaceAllString(value, "")

	var lines []string
	for _, line := range strings.Split(value, "\n") {
		line = bulletPrefix.ReplaceAllString(line, "")
		line = multiSpace.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
