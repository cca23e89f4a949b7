package extraction

import (
	"os"
	"strings"
	"testing"
)

func TestBuildPromptEmbedsResumeText(t *testing.T) {
	resume := "Jane Doe\nExperience\nInitech - Engineer"
	prompt := BuildPrompt("v1", resume)

	if !strings.Contains(prompt, resume) {
		t.Fatal("prompt must embed the full resume text")
	}
	if strings.Contains(prompt, resumePlaceholder) {
		t.Fatal("placeholder must be replaced")
	}
	for _, field := range []string{"full_name", "total_experience", "skills", "job_history"} {
		if !strings.Contains(prompt, field) {
			t.Fatalf("prompt must name required field %q", field)
		}
	}

	// Deterministic for a fixed input.
	if prompt != BuildPrompt("v1", resume) {
		t.Fatal("prompt must be deterministic")
	}
}

func TestPromptTemplateUnknownVersionFallsBack(t *testing.T) {
	tpl, ok := PromptTemplate("v99")
	if ok {
		t.Fatal("unknown version must not be recognized")
	}
	if tpl != promptV1 {
		t.Fatal("unknown version must fall back to v1")
	}
}

func TestParseValidRecord(t *testing.T) {
	raw := loadFixture(t, "testdata/record_good.json")

	result := Parse(raw)
	if !result.Parsed() {
		t.Fatal("expected parsed record")
	}
	rec := result.Record
	if rec.FullName == nil || *rec.FullName != "Jane Doe" {
		t.Fatalf("unexpected full_name: %v", rec.FullName)
	}
	if len(rec.Skills) != 3 || rec.Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %v", rec.Skills)
	}
	if len(rec.JobHistory) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(rec.JobHistory))
	}
	// Declaration order preserved.
	if rec.JobHistory[0].Company != "Initech" || rec.JobHistory[1].Company != "Acme Corp" {
		t.Fatalf("job order not preserved: %+v", rec.JobHistory)
	}
	if rec.JobHistory[0].EndDate != "Present" {
		t.Fatalf("expected Present sentinel, got %q", rec.JobHistory[0].EndDate)
	}
	if result.Raw != raw {
		t.Fatal("raw text must be carried alongside the record")
	}
}

func TestParseFencedJSON(t *testing.T) {
	raw := "```json\n" + loadFixture(t, "testdata/record_good.json") + "\n```"
	result := Parse(raw)
	if !result.Parsed() {
		t.Fatal("expected fenced JSON to parse")
	}
}

func TestParseSchemaMismatchIsUnparsed(t *testing.T) {
	raw := loadFixture(t, "testdata/record_bad_shape.json")

	result := Parse(raw)
	if result.Parsed() {
		t.Fatal("expected schema mismatch to be unparsed")
	}
	if result.Raw != raw {
		t.Fatal("unparsed result must carry the model output verbatim")
	}
}

func TestParseNonJSONIsUnparsed(t *testing.T) {
	raw := "Sure! Here is the extracted information:\nName: Jane Doe"
	result := Parse(raw)
	if result.Parsed() {
		t.Fatal("expected prose to be unparsed")
	}
	if result.Raw != raw {
		t.Fatal("unparsed result must carry the model output verbatim")
	}
}

func TestParseOptionalFieldsAbsent(t *testing.T) {
	result := Parse(`{"skills":[],"job_history":[]}`)
	if !result.Parsed() {
		t.Fatal("expected minimal record to parse")
	}
	if result.Record.FullName != nil || result.Record.TotalExperience != nil {
		t.Fatal("absent optional fields must stay nil")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripCodeFences(in); got != want {
			t.Fatalf("stripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func loadFixture(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}
