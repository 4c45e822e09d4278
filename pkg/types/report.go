// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Section is one heading/body pair in an assembled consultation report.
type Section struct {
	// Heading is the uppercase section heading without the "::" marker.
	Heading string `json:"heading" yaml:"heading"`

	// Body is the narrative text under the heading. Never empty in
	// assembled output; sections without content carry a short neutral
	// clause instead.
	Body string `json:"body" yaml:"body"`
}

// Report is an ordered sequence of sections. Assembled reports always
// contain the eighteen canonical headings exactly once, in canonical order.
type Report struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// Canonical report headings, in the order the assembler emits them.
const (
	HeadingSampleName        = "SAMPLE NAME"
	HeadingDescription       = "DESCRIPTION"
	HeadingDateOfVisit       = "DATE OF VISIT"
	HeadingReason            = "REASON FOR CONSULTATION"
	HeadingHPI               = "HISTORY OF PRESENT ILLNESS"
	HeadingPastMedical       = "PAST MEDICAL HISTORY"
	HeadingPastSurgical      = "PAST SURGICAL HISTORY"
	HeadingHomeMedications   = "HOME MEDICATIONS"
	HeadingCurrentMedication = "CURRENT MEDICATIONS"
	HeadingReviewOfSystems   = "REVIEW OF SYSTEMS"
	HeadingAllergies         = "ALLERGIES"
	HeadingFamilyHistory     = "FAMILY HISTORY"
	HeadingSocialHistory     = "SOCIAL HISTORY"
	HeadingPhysicalExam      = "PHYSICAL EXAMINATION"
	HeadingLaboratory        = "LABORATORY EXAMINATION"
	HeadingImaging           = "IMAGING / DIAGNOSTICS"
	HeadingAssessmentPlan    = "ASSESSMENT AND PLAN"
	HeadingKeywords          = "KEYWORDS"
)

// ReportHeadings lists all canonical headings in assembly order.
var ReportHeadings = []string{
	HeadingSampleName,
	HeadingDescription,
	HeadingDateOfVisit,
	HeadingReason,
	HeadingHPI,
	HeadingPastMedical,
	HeadingPastSurgical,
	HeadingHomeMedications,
	HeadingCurrentMedication,
	HeadingReviewOfSystems,
	HeadingAllergies,
	HeadingFamilyHistory,
	HeadingSocialHistory,
	HeadingPhysicalExam,
	HeadingLaboratory,
	HeadingImaging,
	HeadingAssessmentPlan,
	HeadingKeywords,
}

// HeadingFieldKeys maps clinical headings to their StructuredRecord field
// keys. Metadata headings (SAMPLE NAME, DESCRIPTION, DATE OF VISIT) and the
// synthesized KEYWORDS heading are absent: they do not correspond to record
// fields. Age and gender ride in the DESCRIPTION section as a demographics
// clause rather than under headings of their own.
var HeadingFieldKeys = map[string]string{
	HeadingReason:            "reason_for_consultation",
	HeadingHPI:               "hpi",
	HeadingPastMedical:       "past_medical_history",
	HeadingPastSurgical:      "past_surgical_history",
	HeadingHomeMedications:   "home_medications",
	HeadingCurrentMedication: "current_medications",
	HeadingReviewOfSystems:   "review_of_systems",
	HeadingAllergies:         "allergies",
	HeadingFamilyHistory:     "family_history",
	HeadingSocialHistory:     "social_history",
	HeadingPhysicalExam:      "physical_exam",
	HeadingLaboratory:        "lab_results",
	HeadingImaging:           "imaging_findings",
	HeadingAssessmentPlan:    "assessment_and_plan",
}

// Section returns the body of the named section and whether it is present.
func (r *Report) Section(heading string) (string, bool) {
	for _, s := range r.Sections {
		if s.Heading == heading {
			return s.Body, true
		}
	}
	return "", false
}
