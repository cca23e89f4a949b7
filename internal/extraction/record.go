package extraction

// Record is the structured result of resume parsing. Dates are free-form
// strings as written in the resume; EndDate may be the literal "Present".
// JobHistory preserves resume declaration order; most-recent-first is not
// guaranteed.
type Record struct {
	FullName        *string  `json:"full_name"`
	TotalExperience *string  `json:"total_experience"`
	Skills          []string `json:"skills"`
	JobHistory      []Job    `json:"job_history"`
}

// Job is one entry in a resume's job history.
type Job struct {
	Company   string `json:"company"`
	Role      string `json:"role"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Result is the tagged outcome of parsing model output: either a validated
// Record, or the raw text when the output could not be interpreted. Raw is
// always populated so callers can surface the model's answer verbatim.
type Result struct {
	Record *Record
	Raw    string
}

// Parsed reports whether the result carries a validated record.
func (r Result) Parsed() bool { return r.Record != nil }
