// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"context"
	"regexp"
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// RuleExtractor is the deterministic extractor variant. It classifies
// transcript clauses with keyword rules and copies the matching spans
// verbatim. It makes no external calls and never fails.
type RuleExtractor struct{}

// Age patterns in priority classes. Self-referential phrasing wins over a
// bare age mention; within a class the earliest occurrence wins.
var (
	selfRefAgePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bi\s*am\s+(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\bi'm\s+(\d{1,3})\b`),
		regexp.MustCompile(`(?i)\bpatient\s+is\s+(?:an?\s+)?(\d{1,3})\b`),
	}
	generalAgePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*year[\s-]*old\b`),
		regexp.MustCompile(`(?i)\b(\d{1,3})\s+years?\s+of\s+age\b`),
		regexp.MustCompile(`(?i)\bage\s*:?\s*(\d{1,3})\b`),
	}
)

var genderPattern = regexp.MustCompile(`(?i)\b(female|male|woman|man|girl|boy|nonbinary|non-binary)\b`)

// demographicLead strips a leading "NN year old male" style phrase from a
// clause once age and gender have been captured from it.
var demographicLead = regexp.MustCompile(`(?i)^(?:an?\s+)?\d{1,3}[\s-]*year[\s-]*old\s+(?:female|male|woman|man)\s*`)

// leadBridges are connective words that precede the clinically meaningful
// part of a clause and are not part of the span itself.
var leadBridges = []string{
	"with ", "complains of ", "complaining of ", "presents with ",
	"presenting with ", "here for ", "here with ", "c/o ", "on ",
	"and ", "but ", "also ",
}

// complaintTerms mark a clause as the presenting complaint. Mirrors the
// complaint vocabulary of the upstream consultation form.
var complaintTerms = []string{
	"chest pain", "headache", "abdominal pain", "shortness of breath",
	"nausea", "vomiting", "fever", "cough", "back pain", "dizziness",
	"fatigue", "palpitations", "sore throat", "rash", "weakness",
	"syncope", "diarrhea", "constipation",
}

type clauseRule struct {
	field string
	terms []string
}

// clauseRules assign a clause to its most specific category. Order is
// precedence: the first matching rule wins, so medications outrank history
// and allergies outrank the review of systems.
var clauseRules = []clauseRule{
	{"allergies", []string{"allerg", "adverse reaction", "anaphyla"}},
	{"home_medications", []string{"home medication", "takes at home", "medications at home"}},
	{"current_medications", []string{"taking", "prescribed", "medication", "pill", "tablet", "mg", "daily", "twice a day", "dose"}},
	{"past_surgical_history", []string{"surgery", "surgical", "operation", "ectomy", "bypass", "replacement"}},
	{"family_history", []string{"family history", "mother", "father", "brother", "sister", "grandmother", "grandfather"}},
	{"social_history", []string{"smok", "alcohol", "drinks", "tobacco", "occupation", "works as", "lives alone", "lives with", "retired", "drug use"}},
	{"review_of_systems", []string{"denies", "denied", "reports no", "negative for", "endorses"}},
	{"past_medical_history", []string{"history of", "previous", "previously", "diagnosed with", "known case of", "chronic"}},
	{"physical_exam", []string{"exam", "blood pressure", "heart rate", "pulse", "temperature", "auscultation", "tender", "respiratory rate", "saturation", "bp "}},
	{"lab_results", []string{"lab", "wbc", "white count", "hemoglobin", "troponin", "creatinine", "glucose", "potassium", "sodium", "a1c", "panel", "urinalysis"}},
	{"imaging_findings", []string{"x-ray", "xray", "ct scan", "ct ", "mri", "ultrasound", "echocardiogram", "ekg", "ecg", "radiograph", "imaging"}},
	{"assessment_and_plan", []string{"plan", "recommend", "follow up", "follow-up", "admit", "discharge", "refer", "schedule"}},
}

// hpiTerms mark onset, course, and modifier clauses as present-illness
// narrative.
var hpiTerms = []string{
	"for the past", "since", "started", "began", "worse", "better",
	"radiating", "days ago", "weeks ago", "hours ago", "intermittent",
	"constant", "on and off",
}

// Extract applies the keyword rules to one transcript. Clauses are sentence
// fragments split on sentence enders and commas; each clause lands in at
// most one field, chosen by rule precedence. When nothing classifies at all,
// the whole transcript becomes the HPI, matching the upstream auto-fill
// behavior.
func (RuleExtractor) Extract(_ context.Context, transcript string) (types.StructuredRecord, error) {
	var record types.StructuredRecord

	if strings.TrimSpace(transcript) == "" {
		return record, nil
	}

	record.Age = extractAge(transcript)
	if m := genderPattern.FindString(transcript); m != "" {
		record.Gender = strings.ToLower(m)
	}

	assigned := map[string][]string{}
	for _, clause := range splitClauses(transcript) {
		field, span := classifyClause(clause)
		if field == "" || span == "" {
			continue
		}
		assigned[field] = append(assigned[field], span)
	}

	for field, spans := range assigned {
		record.SetField(field, strings.Join(spans, ". "))
	}

	// Nothing classified beyond demographics: keep the transcript as HPI.
	if len(assigned) == 0 {
		record.HPI = strings.TrimSpace(transcript)
	}

	return record, nil
}

// extractAge returns the stated age nearest to self-referential phrasing,
// falling back to the first stated age of any form.
func extractAge(transcript string) string {
	if v := firstAgeMatch(selfRefAgePatterns, transcript); v != "" {
		return v
	}
	return firstAgeMatch(generalAgePatterns, transcript)
}

func firstAgeMatch(patterns []*regexp.Regexp, transcript string) string {
	best := -1
	value := ""
	for _, p := range patterns {
		loc := p.FindStringSubmatchIndex(transcript)
		if loc == nil {
			continue
		}
		if best < 0 || loc[0] < best {
			best = loc[0]
			value = transcript[loc[2]:loc[3]]
		}
	}
	return value
}

// splitClauses breaks a transcript into sentence fragments: sentences on
// [.!?\n], then clauses on [,;].
func splitClauses(transcript string) []string {
	var clauses []string
	for _, sentence := range regexp.MustCompile(`[.!?\n]+`).Split(transcript, -1) {
		for _, clause := range regexp.MustCompile(`[,;]`).Split(sentence, -1) {
			clause = strings.TrimSpace(clause)
			if clause != "" {
				clauses = append(clauses, clause)
			}
		}
	}
	return clauses
}

// classifyClause picks the most specific field for a clause and returns the
// span to store. The presenting complaint and HPI markers are checked after
// the precedence table so that, e.g., a medication clause mentioning pain
// still lands in medications.
func classifyClause(clause string) (field, span string) {
	lower := strings.ToLower(clause)

	for _, rule := range clauseRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.field, trimSpan(clause)
			}
		}
	}

	for _, term := range complaintTerms {
		if strings.Contains(lower, term) {
			return "reason_for_consultation", trimSpan(clause)
		}
	}

	for _, term := range hpiTerms {
		if strings.Contains(lower, term) {
			return "hpi", trimSpan(clause)
		}
	}

	return "", ""
}

// trimSpan removes demographic leads and connective words from the front of
// a clause, leaving the verbatim clinical span.
func trimSpan(clause string) string {
	clause = strings.TrimSpace(clause)
	clause = demographicLead.ReplaceAllString(clause, "")

	changed := true
	for changed {
		changed = false
		lower := strings.ToLower(clause)
		for _, bridge := range leadBridges {
			if strings.HasPrefix(lower, bridge) {
				clause = strings.TrimSpace(clause[len(bridge):])
				changed = true
				break
			}
		}
	}
	return clause
}
