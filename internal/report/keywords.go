// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"regexp"
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

// maxKeywords caps the synthesized KEYWORDS section.
const maxKeywords = 12

// maxTermWords bounds a single keyword term.
const maxTermWords = 4

var phraseSplit = regexp.MustCompile(`[.,;:()!?\n]+`)

// keywordStopwords are dropped from the edges of candidate terms. Interior
// stopwords are kept so multi-word clinical phrases survive.
var keywordStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "with": true, "without": true, "to": true, "for": true,
	"on": true, "in": true, "at": true, "by": true, "is": true,
	"are": true, "was": true, "were": true, "has": true, "have": true,
	"had": true, "patient": true, "presents": true, "complains": true,
	"complaint": true, "denies": true, "no": true, "known": true,
	"not": true, "reported": true, "will": true, "plan": true,
	"recommend": true, "start": true, "started": true, "continue": true,
	"daily": true, "twice": true, "day": true, "takes": true,
	"taking": true, "prescribed": true, "he": true, "she": true,
	"they": true, "his": true, "her": true, "their": true,
	"old": true, "year": true, "years": true,
}

// Keywords derives the KEYWORDS section terms from the reason for
// consultation, the assessment and plan, and the current medications, in
// that priority order. Terms keep the casing of their first occurrence,
// are de-duplicated case-insensitively, and are capped at twelve.
func Keywords(record types.StructuredRecord) []string {
	sources := []string{
		record.ReasonForConsultation,
		record.AssessmentAndPlan,
		record.CurrentMedications,
	}

	var terms []string
	seen := map[string]bool{}

	for _, source := range sources {
		if source == "" || source == NeutralClause {
			continue
		}
		for _, phrase := range phraseSplit.Split(source, -1) {
			term := keywordTerm(phrase)
			if term == "" {
				continue
			}
			lower := strings.ToLower(term)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			terms = append(terms, term)
			if len(terms) == maxKeywords {
				return terms
			}
		}
	}

	return terms
}

// keywordTerm reduces a phrase to a salient term: edge stopwords trimmed,
// length capped, purely numeric fragments rejected.
func keywordTerm(phrase string) string {
	words := strings.Fields(phrase)

	// Trim leading stopwords.
	for len(words) > 0 && keywordStopwords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	if len(words) > maxTermWords {
		words = words[:maxTermWords]
	}
	// Trim trailing stopwords, re-checking after the length cap.
	for len(words) > 0 && keywordStopwords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}

	hasAlpha := false
	for _, w := range words {
		if strings.ContainsFunc(w, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		}) {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return ""
	}

	return strings.Join(words, " ")
}
