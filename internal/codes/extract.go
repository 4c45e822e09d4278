// Package codes derives bounded ICD-10 and CPT code lists from assembled
// consultation reports. Two interchangeable coders implement the same
// contract: ModelCoder delegates to the completion collaborator, RuleCoder
// matches curated condition and procedure tables.
package codes

import (
	"context"
	"sort"
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/internal/report"
	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// Coder extracts code lists from one report snapshot. Implementations are
// stateless and safe for concurrent use.
type Coder interface {
	ExtractCodes(ctx context.Context, reportText string) (types.CodeSet, error)
}

// codedSections are the report sections scanned for codable findings, in
// reading order. The section weight implements the recency rule: a
// condition mentioned in ASSESSMENT AND PLAN outranks the same condition
// mentioned earlier.
var codedSections = []struct {
	heading string
	weight  int
}{
	{types.HeadingReason, 1},
	{types.HeadingHPI, 2},
	{types.HeadingPhysicalExam, 3},
	{types.HeadingAssessmentPlan, 4},
}

// RuleCoder is the deterministic coder variant, built on the curated
// tables in tables.go.
type RuleCoder struct{}

// candidate accumulates evidence for one code across sections.
type candidate struct {
	finding     types.CodedFinding
	specificity int
	weight      int
	sectionIdx  int
	offset      int
}

// ExtractCodes scans the codable sections and ranks matches by specificity,
// then recency, then first textual appearance. Each list is truncated to
// five entries; missing evidence yields shorter or empty lists, never
// padding. Text without any heading markers returns empty lists together
// with report.ErrMalformedReport so the caller can warn.
func (RuleCoder) ExtractCodes(_ context.Context, reportText string) (types.CodeSet, error) {
	rep, err := report.Sections(reportText)
	if err != nil {
		return types.CodeSet{}, err
	}

	icd := scanSections(rep, icd10Rules, types.SystemICD10)
	cpt := scanSections(rep, cptRules, types.SystemCPT)

	return types.CodeSet{ICD10: rank(icd), CPT: rank(cpt)}, nil
}

// scanSections runs one rule table over every codable section, merging
// per-code evidence.
func scanSections(rep types.Report, rules []codeRule, system types.CodeSystem) map[string]*candidate {
	found := map[string]*candidate{}

	for idx, sec := range codedSections {
		body, ok := rep.Section(sec.heading)
		if !ok || body == "" || body == report.NeutralClause {
			continue
		}
		lower := strings.ToLower(body)

		// Longer match strings first, so "acute appendicitis with
		// peritonitis" consumes its span before "appendicitis" can
		// claim it.
		ordered := make([]codeRule, len(rules))
		copy(ordered, rules)
		sort.SliceStable(ordered, func(i, j int) bool {
			return len(ordered[i].match) > len(ordered[j].match)
		})

		var consumed [][2]int
		for _, rule := range ordered {
			pos := matchPosition(lower, rule.match, consumed)
			if pos < 0 {
				continue
			}
			consumed = append(consumed, [2]int{pos, pos + len(rule.match)})

			c, ok := found[rule.code]
			if !ok {
				found[rule.code] = &candidate{
					finding:     types.CodedFinding{Code: rule.code, System: system, Gloss: rule.gloss},
					specificity: rule.specificity,
					weight:      sec.weight,
					sectionIdx:  idx,
					offset:      pos,
				}
				continue
			}
			if rule.specificity > c.specificity {
				c.specificity = rule.specificity
			}
			if sec.weight > c.weight {
				c.weight = sec.weight
			}
			// First appearance stays at the earliest section.
		}
	}

	return found
}

// matchPosition finds the first un-negated, un-consumed occurrence of term.
func matchPosition(lower, term string, consumed [][2]int) int {
	from := 0
	for {
		i := strings.Index(lower[from:], term)
		if i < 0 {
			return -1
		}
		pos := from + i
		from = pos + 1

		if overlaps(pos, pos+len(term), consumed) {
			continue
		}
		if negated(lower, pos) {
			continue
		}
		return pos
	}
}

func overlaps(start, end int, spans [][2]int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}

// negationMarkers suppress a match when they appear in the same clause
// before the matched term ("denies fever" must not code fever).
var negationMarkers = []string{"denies", "denied", "no ", "without", "negative for", "not ", "ruled out"}

func negated(lower string, pos int) bool {
	clauseStart := strings.LastIndexAny(lower[:pos], ".,;\n") + 1
	prefix := lower[clauseStart:pos]
	for _, marker := range negationMarkers {
		if strings.Contains(prefix, marker) {
			return true
		}
	}
	return false
}

// rank orders candidates by specificity, then section recency, then first
// textual appearance, and truncates to the per-system cap.
func rank(found map[string]*candidate) []types.CodedFinding {
	cands := make([]*candidate, 0, len(found))
	for _, c := range found {
		cands = append(cands, c)
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.specificity != b.specificity {
			return a.specificity > b.specificity
		}
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		if a.sectionIdx != b.sectionIdx {
			return a.sectionIdx < b.sectionIdx
		}
		return a.offset < b.offset
	})

	if len(cands) > types.MaxFindingsPerSystem {
		cands = cands[:types.MaxFindingsPerSystem]
	}

	findings := make([]types.CodedFinding, 0, len(cands))
	for _, c := range cands {
		findings = append(findings, c.finding)
	}
	return findings
}
