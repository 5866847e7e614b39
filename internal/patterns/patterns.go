// Package patterns extracts canonical form fields from raw text using a fixed
// table of labeled regular expressions. It serves both as the last-resort
// baseline when model inference produces nothing and as a supplement when
// inference comes back thin.
package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AbhinavPrakashCoading/dockit/internal/schema"
)

// PatternConfidence is the fixed confidence attached to every regex-derived
// field. It sits below any model-derived score so the merge policy prefers
// model output on collisions.
const PatternConfidence = 0.6

// entry is one row of the pattern table.
type entry struct {
	name    string // canonical field name
	label   string // human-readable source field name
	format  string // "date", "email", "numeric" or empty
	pattern *regexp.Regexp
}

// table is the ordered pattern library. Order matters only for the
// line-oriented fallback output; the structured field map is keys-unique.
var table = []entry{
	{"roll_no", "Roll Number", "numeric", regexp.MustCompile(`(?i)roll\s*(?:no|number)\.?\s*[:\-]?\s*([A-Z0-9\-/]+)`)},
	{"application_no", "Application Number", "numeric", regexp.MustCompile(`(?i)application\s*(?:no|number)\.?\s*[:\-]?\s*([A-Z0-9\-/]+)`)},
	{"dob", "Date of Birth", "date", regexp.MustCompile(`(?i)(?:date\s*of\s*birth|d\.?o\.?b\.?)\s*[:\-]?\s*(\d{1,4}[\-/.]\d{1,2}[\-/.]\d{1,4})`)},
	{"name", "Candidate Name", "", regexp.MustCompile(`(?i)(?:candidate'?s?\s*)?name\s*[:\-]\s*([A-Za-z][A-Za-z .']{1,60})`)},
	{"email", "Email Address", "email", regexp.MustCompile(`(?i)e?-?mail\s*(?:id|address)?\s*[:\-]?\s*([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)},
	{"phone", "Phone Number", "numeric", regexp.MustCompile(`(?i)(?:phone|mobile|contact)\s*(?:no|number)?\.?\s*[:\-]?\s*(\+?\d[\d\s\-]{8,14})`)},
	{"address", "Address", "", regexp.MustCompile(`(?i)address\s*[:\-]\s*([^\n]{5,120})`)},
	{"category", "Category", "", regexp.MustCompile(`(?i)category\s*[:\-]?\s*(GEN|OBC|SC|ST|EWS|UR|General)`)},
	{"gender", "Gender", "", regexp.MustCompile(`(?i)(?:gender|sex)\s*[:\-]?\s*(Male|Female|Other|M|F)\b`)},
	{"father_name", "Father's Name", "", regexp.MustCompile(`(?i)father'?s?\s*name\s*[:\-]\s*([A-Za-z][A-Za-z .']{1,60})`)},
	{"mother_name", "Mother's Name", "", regexp.MustCompile(`(?i)mother'?s?\s*name\s*[:\-]\s*([A-Za-z][A-Za-z .']{1,60})`)},
	{"state", "State", "", regexp.MustCompile(`(?i)state\s*[:\-]\s*([A-Za-z][A-Za-z ]{1,40})`)},
	{"district", "District", "", regexp.MustCompile(`(?i)district\s*[:\-]\s*([A-Za-z][A-Za-z ]{1,40})`)},
	{"pincode", "PIN Code", "numeric", regexp.MustCompile(`(?i)(?:pin\s*code|pincode|postal\s*code)\s*[:\-]?\s*(\d{6})`)},
	{"exam_center", "Exam Center", "", regexp.MustCompile(`(?i)exam(?:ination)?\s*cent(?:er|re)\s*[:\-]\s*([^\n]{3,80})`)},
	{"subject", "Subject", "", regexp.MustCompile(`(?i)subject\s*[:\-]\s*([A-Za-z][A-Za-z ,&]{1,60})`)},
	{"medium", "Medium", "", regexp.MustCompile(`(?i)medium\s*[:\-]?\s*(English|Hindi|[A-Za-z]{3,20})`)},
	{"qualification", "Qualification", "", regexp.MustCompile(`(?i)qualification\s*[:\-]\s*([^\n]{2,60})`)},
	{"year_of_passing", "Year of Passing", "numeric", regexp.MustCompile(`(?i)year\s*of\s*passing\s*[:\-]?\s*((?:19|20)\d{2})`)},
	{"percentage", "Percentage", "numeric", regexp.MustCompile(`(?i)percentage\s*[:\-]?\s*(\d{1,3}(?:\.\d{1,2})?)\s*%?`)},
}

// Extractor is the regex-based field extractor. The zero value is ready to
// use; it exists as a type so callers can depend on an interface.
type Extractor struct{}

// New returns a pattern extractor over the built-in table.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns one field per table entry whose pattern matches text at
// least once. Confidence is the fixed PatternConfidence for every field.
func (e *Extractor) Extract(text string) schema.FieldMap {
	fields := make(schema.FieldMap)
	for _, ent := range table {
		if !ent.pattern.MatchString(text) {
			continue
		}
		f := schema.Field{
			Type:        schema.TypeString,
			Pattern:     ent.pattern.String(),
			Description: fmt.Sprintf("Extracted from %s field", ent.label),
			Confidence:  PatternConfidence,
		}
		switch ent.format {
		case "date":
			f.Format = "date"
		case "email":
			f.Format = "email"
		case "numeric":
			f.Description += " (numeric)"
		}
		fields[ent.name] = f
	}
	return fields
}

// ExtractLines is the absolute last resort: free-text "label: value" lines
// for display when no structured fields can be produced at all.
func (e *Extractor) ExtractLines(text string) []string {
	var lines []string
	for _, ent := range table {
		m := ent.pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", ent.label, strings.TrimSpace(m[1])))
	}
	return lines
}
