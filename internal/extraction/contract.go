// Package extraction builds the resume extraction prompt and validates the
// model's structured response.
package extraction

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed prompts/v1.txt
var promptV1 string

//go:embed schema/record_v1.json
var recordSchemaV1 string

const resumePlaceholder = "{{RESUME_TEXT}}"

var recordSchema = jsonschema.MustCompileString("record_v1.json", recordSchemaV1)

// PromptTemplate returns the prompt template for a version and whether the
// version was recognized. Unknown versions fall back to v1.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "v1":
		return promptV1, true
	default:
		return promptV1, false
	}
}

// BuildPrompt embeds the normalized resume text into the versioned
// instruction template. The output is deterministic for a given input.
func BuildPrompt(version, resumeText string) string {
	template, _ := PromptTemplate(version)
	return strings.Replace(template, resumePlaceholder, resumeText, 1)
}

// Parse interprets raw model output. Markdown code fences are stripped, the
// payload is decoded as JSON and validated against the record schema. On any
// failure the result is unparsed and carries the original text verbatim; the
// model's answer is never discarded.
func Parse(raw string) Result {
	result := Result{Raw: raw}

	clean := stripCodeFences(raw)
	var decoded any
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return result
	}
	if err := recordSchema.Validate(decoded); err != nil {
		return result
	}

	var record Record
	if err := json.Unmarshal([]byte(clean), &record); err != nil {
		return result
	}
	result.Record = &record
	return result
}

// stripCodeFences removes a surrounding ```json / ``` fence, which models
// add even when asked for bare JSON.
func stripCodeFences(raw string) string {
	clean := strings.TrimSpace(raw)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
