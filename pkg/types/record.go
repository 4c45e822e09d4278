// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the consult-engine pipeline:
// the StructuredRecord produced by field extraction, the Report section grammar
// produced by report assembly, and the CodedFinding lists produced by code
// extraction.
package types

// StructuredRecord is the canonical clinical record extracted from one
// consultation transcript. Every field is plain text; an absent finding is the
// empty string, never a placeholder. The field set is fixed: a record always
// carries exactly these sixteen fields.
type StructuredRecord struct {
	// Age is the patient's stated age, as plain text (e.g. "65").
	Age string `json:"age" yaml:"age"`

	// Gender is the patient's stated gender, copied verbatim.
	Gender string `json:"gender" yaml:"gender"`

	// ReasonForConsultation is the presenting complaint.
	ReasonForConsultation string `json:"reason_for_consultation" yaml:"reason_for_consultation"`

	// HPI is the history of present illness.
	HPI string `json:"hpi" yaml:"hpi"`

	// PastMedicalHistory lists prior diagnoses and chronic conditions.
	PastMedicalHistory string `json:"past_medical_history" yaml:"past_medical_history"`

	// PastSurgicalHistory lists prior operations.
	PastSurgicalHistory string `json:"past_surgical_history" yaml:"past_surgical_history"`

	// HomeMedications lists medications taken at home. May overlap with
	// CurrentMedications; the two are extracted independently.
	HomeMedications string `json:"home_medications" yaml:"home_medications"`

	// CurrentMedications lists medications the patient is currently on,
	// with doses preserved verbatim.
	CurrentMedications string `json:"current_medications" yaml:"current_medications"`

	// Allergies records drug and other allergies, including explicit
	// denials such as "no known drug allergies".
	Allergies string `json:"allergies" yaml:"allergies"`

	// ReviewOfSystems records affirmed and explicitly denied symptoms,
	// with the negation kept in the text (e.g. "denies fever").
	ReviewOfSystems string `json:"review_of_systems" yaml:"review_of_systems"`

	// FamilyHistory records conditions in the patient's family.
	FamilyHistory string `json:"family_history" yaml:"family_history"`

	// SocialHistory records smoking, alcohol, occupation, and living
	// situation.
	SocialHistory string `json:"social_history" yaml:"social_history"`

	// PhysicalExam records examination findings.
	PhysicalExam string `json:"physical_exam" yaml:"physical_exam"`

	// LabResults records laboratory values.
	LabResults string `json:"lab_results" yaml:"lab_results"`

	// ImagingFindings records imaging and other diagnostics.
	ImagingFindings string `json:"imaging_findings" yaml:"imaging_findings"`

	// AssessmentAndPlan records the clinician's assessment and plan.
	AssessmentAndPlan string `json:"assessment_and_plan" yaml:"assessment_and_plan"`
}

// FieldKeys lists the record's field keys in canonical order. Extraction
// output, report assembly, and serialization all follow this order.
var FieldKeys = []string{
	"age",
	"gender",
	"reason_for_consultation",
	"hpi",
	"past_medical_history",
	"past_surgical_history",
	"home_medications",
	"current_medications",
	"allergies",
	"review_of_systems",
	"family_history",
	"social_history",
	"physical_exam",
	"lab_results",
	"imaging_findings",
	"assessment_and_plan",
}

// Field returns the value for a canonical field key. Unknown keys return
// the empty string and false.
func (r *StructuredRecord) Field(key string) (string, bool) {
	p, ok := r.fieldPtr(key)
	if !ok {
		return "", false
	}
	return *p, true
}

// SetField assigns the value for a canonical field key. It reports whether
// the key was recognized.
func (r *StructuredRecord) SetField(key, value string) bool {
	p, ok := r.fieldPtr(key)
	if !ok {
		return false
	}
	*p = value
	return true
}

// IsEmpty reports whether every field of the record is empty.
func (r *StructuredRecord) IsEmpty() bool {
	for _, key := range FieldKeys {
		if v, _ := r.Field(key); v != "" {
			return false
		}
	}
	return true
}

func (r *StructuredRecord) fieldPtr(key string) (*string, bool) {
	switch key {
	case "age":
		return &r.Age, true
	case "gender":
		return &r.Gender, true
	case "reason_for_consultation":
		return &r.ReasonForConsultation, true
	case "hpi":
		return &r.HPI, true
	case "past_medical_history":
		return &r.PastMedicalHistory, true
	case "past_surgical_history":
		return &r.PastSurgicalHistory, true
	case "home_medications":
		return &r.HomeMedications, true
	case "current_medications":
		return &r.CurrentMedications, true
	case "allergies":
		return &r.Allergies, true
	case "review_of_systems":
		return &r.ReviewOfSystems, true
	case "family_history":
		return &r.FamilyHistory, true
	case "social_history":
		return &r.SocialHistory, true
	case "physical_exam":
		return &r.PhysicalExam, true
	case "lab_results":
		return &r.LabResults, true
	case "imaging_findings":
		return &r.ImagingFindings, true
	case "assessment_and_plan":
		return &r.AssessmentAndPlan, true
	}
	return nil, false
}

// VisitMetadata carries consultation details supplied by the caller rather
// than derived from the transcript. It passes through report assembly
// unchanged.
type VisitMetadata struct {
	// SampleName is the patient or sample display name.
	SampleName string `json:"sample_name" yaml:"sample_name"`

	// Description is a brief free-text description of the consultation.
	Description string `json:"description" yaml:"description"`

	// DateOfVisit is the consultation date in YYYY-MM-DD format.
	DateOfVisit string `json:"date_of_visit" yaml:"date_of_visit"`
}
