// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codes

import (
	"regexp"
	"strings"

	"github.com/babuconsultant/medical-consultation-ai/pkg/types"
)

var (
	// icd10Pattern: one letter, two digits, optional dot with up to two
	// alphanumerics.
	icd10Pattern = regexp.MustCompile(`^[A-Z][0-9]{2}(\.[A-Z0-9]{1,2})?$`)

	// cptPattern: exactly five digits.
	cptPattern = regexp.MustCompile(`^[0-9]{5}$`)
)

// ValidCode reports whether a code is syntactically well-formed for its
// system. Candidates failing the check are dropped silently; a malformed
// code is never emitted.
func ValidCode(code string, system types.CodeSystem) bool {
	switch system {
	case types.SystemICD10:
		return icd10Pattern.MatchString(code)
	case types.SystemCPT:
		return cptPattern.MatchString(code)
	}
	return false
}

// NormalizeCode uppercases and trims a candidate code before validation.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
