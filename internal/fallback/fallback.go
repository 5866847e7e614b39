// Package fallback generates document-requirement schemas from an exam name
// alone, for when no form document is available or the pipeline fails hard.
// Requirements are keyed off well-known exam families.
package fallback

import (
	"strings"
	"time"
)

// Schema is a generated exam document-requirement set.
type Schema struct {
	Exam          string        `json:"exam"`
	Documents     []Requirement `json:"documents"`
	ExtractedFrom string        `json:"extractedFrom"`
	ExtractedAt   time.Time     `json:"extractedAt"`
}

// Requirement describes one required upload (photograph, signature, ...).
type Requirement struct {
	Type         string    `json:"type"`
	Requirements ReqDetail `json:"requirements"`
}

// ReqDetail is the constraint set for a single upload.
type ReqDetail struct {
	Format     []string `json:"format"`
	SizeKB     *SizeKB  `json:"size_kb,omitempty"`
	Dimensions string   `json:"dimensions,omitempty"`
	Color      string   `json:"color,omitempty"`
	Background string   `json:"background,omitempty"`
	Notes      []string `json:"notes,omitempty"`
}

// SizeKB bounds an upload's file size in kilobytes.
type SizeKB struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Generate builds a requirement schema for the named exam. The exam family
// is matched by keyword; unknown exams get generic requirements.
func Generate(examName string) Schema {
	lower := strings.ToLower(examName)

	var docs []Requirement
	switch {
	case containsAny(lower, "ibps", "bank", "sbi", "rbi"):
		docs = bankingRequirements()
	case strings.Contains(lower, "ssc"):
		docs = sscRequirements()
	case containsAny(lower, "neet", "jee", "gate"):
		docs = technicalRequirements()
	case containsAny(lower, "upsc", "civil", "ias", "ips"):
		docs = civilServiceRequirements()
	default:
		docs = genericRequirements()
	}

	return Schema{
		Exam:          normalizeName(examName),
		Documents:     docs,
		ExtractedFrom: "Intelligent Fallback System",
		ExtractedAt:   time.Now(),
	}
}

// Basic returns the minimal schema used when even keyword matching is not
// worth trusting (hard errors mid-request).
func Basic(examName string) Schema {
	if strings.TrimSpace(examName) == "" {
		examName = "Unknown Exam"
	}
	return Schema{
		Exam: examName,
		Documents: []Requirement{
			{
				Type: "photograph",
				Requirements: ReqDetail{
					Format:     []string{"JPG", "JPEG"},
					SizeKB:     &SizeKB{Min: 10, Max: 100},
					Dimensions: "Passport size",
					Color:      "color",
					Notes:      []string{"Recent photograph"},
				},
			},
		},
		ExtractedFrom: "Basic Fallback",
		ExtractedAt:   time.Now(),
	}
}

// normalizeName title-cases an exam name, treating hyphens and underscores
// as word separators.
func normalizeName(examName string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(examName)
	words := strings.Fields(cleaned)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func bankingRequirements() []Requirement {
	return []Requirement{
		{
			Type: "photograph",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG"},
				SizeKB:     &SizeKB{Min: 20, Max: 50},
				Dimensions: "200x230 pixels",
				Color:      "color",
				Background: "light",
				Notes:      []string{"Recent colored photograph", "Passport size", "Clear face visibility"},
			},
		},
		{
			Type: "signature",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG"},
				SizeKB:     &SizeKB{Min: 10, Max: 20},
				Dimensions: "140x60 pixels",
				Background: "white",
				Notes:      []string{"Clear signature in black ink", "Sign on white paper"},
			},
		},
		{
			Type: "thumb_impression",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG"},
				SizeKB:     &SizeKB{Min: 10, Max: 20},
				Dimensions: "240x240 pixels",
				Background: "white",
				Notes:      []string{"Left thumb impression", "Clear impression on white paper"},
			},
		},
	}
}

func sscRequirements() []Requirement {
	return []Requirement{
		{
			Type: "photograph",
			Requirements: ReqDetail{
				Format:     []string{"JPEG"},
				SizeKB:     &SizeKB{Min: 4, Max: 40},
				Dimensions: "3.5x4.5 cm",
				Color:      "color",
				Background: "light",
				Notes:      []string{"Recent colored photograph", "Passport size"},
			},
		},
		{
			Type: "signature",
			Requirements: ReqDetail{
				Format:     []string{"JPEG"},
				SizeKB:     &SizeKB{Min: 1, Max: 12},
				Dimensions: "4x2 cm",
				Background: "white",
				Notes:      []string{"Clear signature in black ink"},
			},
		},
	}
}

func technicalRequirements() []Requirement {
	return []Requirement{
		{
			Type: "photograph",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG"},
				SizeKB:     &SizeKB{Min: 10, Max: 200},
				Dimensions: "Passport size",
				Color:      "color",
				Background: "white",
				Notes:      []string{"Recent photograph", "Face should be clearly visible", "No sunglasses or hat"},
			},
		},
		{
			Type: "signature",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG"},
				SizeKB:     &SizeKB{Min: 4, Max: 30},
				Background: "white",
				Notes:      []string{"Clear signature in blue or black ink"},
			},
		},
	}
}

func civilServiceRequirements() []Requirement {
	return []Requirement{
		{
			Type: "photograph",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG"},
				SizeKB:     &SizeKB{Min: 3, Max: 50},
				Dimensions: "5x7 cm",
				Color:      "color",
				Background: "white",
				Notes:      []string{"Recent photograph", "Professional attire preferred", "Clear face visibility"},
			},
		},
		{
			Type: "signature",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG"},
				SizeKB:     &SizeKB{Min: 1, Max: 10},
				Dimensions: "4x2 cm",
				Background: "white",
				Notes:      []string{"Signature in black ink", "Sign on white paper"},
			},
		},
	}
}

func genericRequirements() []Requirement {
	return []Requirement{
		{
			Type: "photograph",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG", "PNG"},
				SizeKB:     &SizeKB{Min: 10, Max: 100},
				Dimensions: "Passport size",
				Color:      "color",
				Notes:      []string{"Recent photograph", "Clear face visibility"},
			},
		},
		{
			Type: "signature",
			Requirements: ReqDetail{
				Format:     []string{"JPG", "JPEG", "PNG"},
				SizeKB:     &SizeKB{Min: 5, Max: 50},
				Background: "white",
				Notes:      []string{"Clear signature"},
			},
		},
	}
}
