// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"bytes"
	"text/template"
)

// extractionPromptTmpl is the prompt sent to the completion collaborator
// for field extraction. It instructs the model to copy transcript spans
// verbatim into a fixed-key JSON object.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are a clinical documentation extraction system. Read the following transcribed medical consultation and fill a structured record.

Rules:
- For each field, copy the most specific contiguous span(s) of the transcript that describe that field's clinical category. Preserve exact wording, numbers, units, and drug names with doses. Never paraphrase and never invent content.
- If the transcript carries no evidence for a field, use the empty string "".
- When a span plausibly supports two categories, assign it to the most specific one: medications go to medication fields even if they also establish history.
- review_of_systems captures both affirmed and explicitly denied symptoms, keeping the negation in the copied text (e.g. "denies fever").
- age is the plain stated value (e.g. "65"). If several ages appear, prefer the one attached to self-referential phrasing ("I am", "patient is"); on a tie take the first.

Respond with a JSON object containing exactly these keys, all with string values:
{{range .Keys}}  "{{.}}"
{{end}}
Do not include any text outside the JSON object.

Transcript:
{{.Transcript}}
`))

// strictPromptTmpl is the retry prompt used after a malformed response. It
// repeats the schema and forbids every known failure mode.
var strictPromptTmpl = template.Must(template.New("strict").Parse(`Your previous answer could not be parsed. Respond again with ONLY a JSON object and nothing else: no prose, no code fences, no trailing commentary.

The object must contain exactly these {{len .Keys}} keys, each mapped to a string (use "" when the transcript has no evidence):
{{range .Keys}}  "{{.}}"
{{end}}
Copy transcript spans verbatim. Do not use null, nested objects, arrays, or placeholder text such as "N/A" or "[not stated]".

Transcript:
{{.Transcript}}
`))

type promptData struct {
	Keys       []string
	Transcript string
}

func renderPrompt(tmpl *template.Template, keys []string, transcript string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Keys: keys, Transcript: transcript}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
