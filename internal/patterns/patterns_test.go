package patterns

import (
	"strings"
	"testing"

	"github.com/AbhinavPrakashCoading/dockit/internal/schema"
)

func TestExtract_BasicFields(t *testing.T) {
	text := "Roll No: AB123456\nDOB: 1999-05-01\nEmail: jane@example.org"

	fields := New().Extract(text)

	for _, name := range []string{"roll_no", "dob", "email"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("expected field %q, not found (got %v)", name, fields)
		}
	}

	roll := fields["roll_no"]
	if roll.Confidence != PatternConfidence {
		t.Errorf("roll_no confidence: got %v, want %v", roll.Confidence, PatternConfidence)
	}
	if roll.Type != schema.TypeString {
		t.Errorf("roll_no type: got %q, want %q", roll.Type, schema.TypeString)
	}
	if roll.Pattern == "" {
		t.Error("roll_no should carry its source pattern")
	}
	if !strings.Contains(roll.Description, "(numeric)") {
		t.Errorf("roll_no description should note numeric content, got %q", roll.Description)
	}

	if f := fields["dob"]; f.Format != "date" {
		t.Errorf("dob format: got %q, want %q", f.Format, "date")
	}
	if f := fields["email"]; f.Format != "email" {
		t.Errorf("email format: got %q, want %q", f.Format, "email")
	}
}

func TestExtract_Variants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"dob abbreviation", "D.O.B: 01/05/1999", "dob"},
		{"application number", "Application No. 20260012345", "application_no"},
		{"phone with label", "Mobile No: 9876543210", "phone"},
		{"category", "Category: OBC", "category"},
		{"gender", "Gender: Female", "gender"},
		{"pincode", "PIN Code: 110001", "pincode"},
		{"year of passing", "Year of Passing: 2021", "year_of_passing"},
		{"percentage", "Percentage: 87.5%", "percentage"},
		{"father name", "Father's Name: Ramesh Kumar", "father_name"},
	}

	ex := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ex.Extract(tt.text)
			if _, ok := fields[tt.want]; !ok {
				t.Errorf("expected field %q from %q, got %v", tt.want, tt.text, fields)
			}
		})
	}
}

func TestExtract_NoMatches(t *testing.T) {
	fields := New().Extract("lorem ipsum dolor sit amet")
	if len(fields) != 0 {
		t.Errorf("expected no fields, got %v", fields)
	}
}

func TestExtractLines(t *testing.T) {
	text := "Roll No: AB123456\nDOB: 1999-05-01"

	lines := New().ExtractLines(text)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Roll Number: AB123456" {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[1] != "Date of Birth: 1999-05-01" {
		t.Errorf("line 1: got %q", lines[1])
	}
}

func TestExtractLines_Empty(t *testing.T) {
	if lines := New().ExtractLines("nothing here"); len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}
