// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"regexp"
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// ErrMalformedReport indicates the input text contains no recognizable
// heading markers at all. Callers degrade to an empty record or empty code
// lists and surface the condition as a warning; it is never fatal.
var ErrMalformedReport = errors.New("malformed report: no heading markers found")

// headingMarker matches a heading line: uppercase text terminated by the
// double-colon marker, alone on its line. Unknown headings still match so
// their bodies are skipped rather than glued onto a neighbor.
var headingMarker = regexp.MustCompile(`^([A-Z][A-Z0-9 /\-]*)::$`)

var (
	demographicsFull = regexp.MustCompile(`^Patient: (\d{1,3})-year-old(?: ([A-Za-z][A-Za-z -]*))?\.$`)
	demographicsSex  = regexp.MustCompile(`(?i)^Patient: (female|male|woman|man|girl|boy|nonbinary|non-binary|other)\.$`)
)

// Sections splits report text into heading/body pairs in input order,
// including unknown headings. Returns ErrMalformedReport alongside an empty
// report when no marker lines exist.
func Sections(text string) (types.Report, error) {
	var rep types.Report

	lines := strings.Split(text, "\n")
	current := ""
	var bodyLines []string

	flush := func() {
		if current == "" {
			return
		}
		body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		rep.Sections = append(rep.Sections, types.Section{Heading: current, Body: body})
		bodyLines = nil
	}

	for _, line := range lines {
		if m := headingMarker.FindStringSubmatch(strings.TrimRight(line, " \t")); m != nil {
			flush()
			current = m[1]
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	flush()

	if len(rep.Sections) == 0 {
		return types.Report{}, ErrMalformedReport
	}
	return rep, nil
}

// Parse recovers a StructuredRecord and VisitMetadata from report text. The
// parser is order-independent and tolerant: unknown headings are ignored and
// missing headings yield empty fields. Section bodies equal to the neutral
// clause are kept verbatim, a documented lossy point of the round trip.
func Parse(text string) (types.StructuredRecord, types.VisitMetadata, error) {
	var record types.StructuredRecord
	var meta types.VisitMetadata

	rep, err := Sections(text)
	if err != nil {
		return record, meta, err
	}

	for _, s := range rep.Sections {
		switch s.Heading {
		case types.HeadingSampleName:
			meta.SampleName = s.Body
		case types.HeadingDateOfVisit:
			meta.DateOfVisit = s.Body
		case types.HeadingDescription:
			desc, age, gender := splitDescription(s.Body)
			meta.Description = desc
			record.Age = age
			record.Gender = gender
		case types.HeadingKeywords:
			// Synthesized section, not a record field.
		default:
			if key, ok := types.HeadingFieldKeys[s.Heading]; ok {
				record.SetField(key, s.Body)
			}
		}
	}

	return record, meta, nil
}

// splitDescription separates the demographics clause the renderer appends
// to the DESCRIPTION body from the description proper.
func splitDescription(body string) (desc, age, gender string) {
	lines := strings.Split(body, "\n")
	last := lines[len(lines)-1]

	switch {
	case demographicsFull.MatchString(last):
		m := demographicsFull.FindStringSubmatch(last)
		age, gender = m[1], m[2]
		lines = lines[:len(lines)-1]
	case demographicsSex.MatchString(last):
		m := demographicsSex.FindStringSubmatch(last)
		gender = m[1]
		lines = lines[:len(lines)-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), age, gender
}
