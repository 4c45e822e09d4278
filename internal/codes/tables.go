// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codes

// codeRule maps a report phrase to one code. Specificity counts the
// qualifiers in the phrase: a fully qualified condition outranks a generic
// one regardless of where either is mentioned.
type codeRule struct {
	match       string
	code        string
	gloss       string
	specificity int
}

// icd10Rules is the curated diagnosis table. Match strings are lowercase;
// scanning lowercases the section body.
var icd10Rules = []codeRule{
	{"acute appendicitis with peritonitis", "K35.2", "Acute appendicitis with generalized peritonitis", 3},
	{"appendicitis with peritonitis", "K35.2", "Acute appendicitis with generalized peritonitis", 3},
	{"acute appendicitis", "K35.80", "Unspecified acute appendicitis", 2},
	{"appendicitis", "K37", "Unspecified appendicitis", 1},
	{"unstable angina", "I20.0", "Unstable angina", 2},
	{"chest pain", "R07.9", "Chest pain, unspecified", 1},
	{"acute myocardial infarction", "I21.9", "Acute myocardial infarction, unspecified", 2},
	{"myocardial infarction", "I21.9", "Acute myocardial infarction, unspecified", 1},
	{"atrial fibrillation", "I48.91", "Unspecified atrial fibrillation", 2},
	{"congestive heart failure", "I50.9", "Heart failure, unspecified", 2},
	{"heart failure", "I50.9", "Heart failure, unspecified", 1},
	{"essential hypertension", "I10", "Essential (primary) hypertension", 2},
	{"hypertension", "I10", "Essential (primary) hypertension", 1},
	{"type 2 diabetes mellitus", "E11.9", "Type 2 diabetes mellitus without complications", 2},
	{"type 2 diabetes", "E11.9", "Type 2 diabetes mellitus without complications", 2},
	{"diabetes", "E11.9", "Type 2 diabetes mellitus without complications", 1},
	{"hyperlipidemia", "E78.5", "Hyperlipidemia, unspecified", 1},
	{"community-acquired pneumonia", "J18.9", "Pneumonia, unspecified organism", 2},
	{"pneumonia", "J18.9", "Pneumonia, unspecified organism", 1},
	{"chronic obstructive pulmonary disease", "J44.9", "COPD, unspecified", 2},
	{"copd", "J44.9", "COPD, unspecified", 1},
	{"asthma", "J45.90", "Unspecified asthma", 1},
	{"shortness of breath", "R06.02", "Shortness of breath", 1},
	{"urinary tract infection", "N39.0", "Urinary tract infection, site not specified", 2},
	{"gastroesophageal reflux", "K21.9", "GERD without esophagitis", 2},
	{"gerd", "K21.9", "GERD without esophagitis", 1},
	{"abdominal pain", "R10.9", "Unspecified abdominal pain", 1},
	{"migraine", "G43.9", "Migraine, unspecified", 1},
	{"headache", "R51.9", "Headache, unspecified", 1},
	{"low back pain", "M54.5", "Low back pain", 2},
	{"back pain", "M54.9", "Dorsalgia, unspecified", 1},
	{"anemia", "D64.9", "Anemia, unspecified", 1},
	{"fever", "R50.9", "Fever, unspecified", 1},
	{"cough", "R05.9", "Cough, unspecified", 1},
	{"nausea", "R11.0", "Nausea", 1},
	{"vomiting", "R11.10", "Vomiting, unspecified", 1},
	{"anxiety", "F41.9", "Anxiety disorder, unspecified", 1},
	{"depression", "F32.9", "Major depressive disorder, single episode, unspecified", 1},
	{"hypothyroidism", "E03.9", "Hypothyroidism, unspecified", 1},
	{"chronic kidney disease", "N18.9", "Chronic kidney disease, unspecified", 2},
	{"syncope", "R55", "Syncope and collapse", 1},
	{"dizziness", "R42", "Dizziness and giddiness", 1},
}

// cptRules is the curated procedure and visit-level table.
var cptRules = []codeRule{
	{"laparoscopic appendectomy", "44970", "Laparoscopy, surgical, appendectomy", 2},
	{"appendectomy", "44950", "Appendectomy", 1},
	{"consultation", "99244", "Office consultation, comprehensive", 1},
	{"office visit", "99213", "Office or other outpatient visit, established patient", 1},
	{"electrocardiogram", "93000", "Electrocardiogram, routine, with interpretation", 1},
	{"ekg", "93000", "Electrocardiogram, routine, with interpretation", 1},
	{"ecg", "93000", "Electrocardiogram, routine, with interpretation", 1},
	{"echocardiogram", "93306", "Echocardiography, transthoracic, complete", 1},
	{"chest x-ray", "71046", "Radiologic examination, chest, 2 views", 2},
	{"x-ray", "73030", "Radiologic examination", 1},
	{"ct scan of the abdomen", "74176", "CT abdomen and pelvis without contrast", 2},
	{"ct abdomen", "74176", "CT abdomen and pelvis without contrast", 2},
	{"ct scan", "70450", "CT head or brain without contrast", 1},
	{"mri of the brain", "70551", "MRI brain without contrast", 2},
	{"mri", "70551", "MRI brain without contrast", 1},
	{"complete blood count", "85025", "Complete blood count with differential", 2},
	{"cbc", "85025", "Complete blood count with differential", 1},
	{"comprehensive metabolic panel", "80053", "Comprehensive metabolic panel", 2},
	{"metabolic panel", "80053", "Comprehensive metabolic panel", 1},
	{"lipid panel", "80061", "Lipid panel", 1},
	{"urinalysis", "81003", "Urinalysis, automated, without microscopy", 1},
	{"troponin", "84484", "Troponin, quantitative", 1},
	{"venipuncture", "36415", "Collection of venous blood by venipuncture", 1},
	{"blood draw", "36415", "Collection of venous blood by venipuncture", 1},
	{"colonoscopy", "45378", "Colonoscopy, flexible, diagnostic", 1},
	{"spirometry", "94010", "Spirometry", 1},
	{"nebulizer treatment", "94640", "Inhalation treatment for airway obstruction", 2},
}
