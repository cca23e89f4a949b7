package segment

import "strings"

// LabelExperience is the only section label the segmenter currently produces.
const LabelExperience = "experience"

// Vocabulary drives section boundary detection. Headings open a section and are
// matched by exact equality on the lowercased trimmed line; StopHeadings close
// it and are matched by substring containment, because terminator headings in
// real resumes are often decorated ("EDUCATION & CERTIFICATIONS").
type Vocabulary struct {
	Headings     []string
	StopHeadings []string
}

// DefaultVocabulary returns the heading sets used for the experience section.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Headings: []string{
			"experience",
			"work experience",
			"professional experience",
		},
		StopHeadings: []string{
			"education",
			"projects",
			"certifications",
			"skills",
			"achievements",
			"personal",
			"languages",
			"contact",
			"summary",
			"objective",
			"hobbies",
			"interests",
		},
	}
}

// Section is a contiguous labeled sub-range of a document's normalized lines.
type Section struct {
	Label string
	Start int
	End   int // exclusive
	Text  string
}

// Normalize splits raw text into trimmed, non-empty lines in original order.
func Normalize(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// FindSection locates the first section opened by one of vocab.Headings and
// bounded by the first later line containing any of vocab.StopHeadings. The
// heading line is included in the section, the stop line is not. When no stop
// line follows the heading, the section runs to the end of lines. Returns
// false when no heading matches.
func FindSection(lines []string, vocab Vocabulary) (Section, bool) {
	start := -1
	for i, line := range lines {
		if matchesHeading(line, vocab.Headings) {
			start = i
			break
		}
	}
	if start == -1 {
		return Section{}, false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if containsStopHeading(lines[i], vocab.StopHeadings) {
			end = i
			break
		}
	}

	return Section{
		Label: LabelExperience,
		Start: start,
		End:   end,
		Text:  strings.Join(lines[start:end], "\n"),
	}, true
}

func matchesHeading(line string, headings []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(line))
	for _, h := range headings {
		if normalized == h {
			return true
		}
	}
	return false
}

func containsStopHeading(line string, stops []string) bool {
	normalized := strings.ToLower(line)
	for _, s := range stops {
		if strings.Contains(normalized, s) {
			return true
		}
	}
	return false
}
