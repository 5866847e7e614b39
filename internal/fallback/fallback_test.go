package fallback

import (
	"testing"
	"time"
)

func docTypes(s Schema) []string {
	types := make([]string, len(s.Documents))
	for i, d := range s.Documents {
		types[i] = d.Type
	}
	return types
}

func TestGenerate_FamilyMatching(t *testing.T) {
	tests := []struct {
		name     string
		exam     string
		wantDocs int
		wantType string
	}{
		{"banking by keyword", "SBI PO 2026", 3, "thumb_impression"},
		{"banking ibps", "ibps clerk", 3, "thumb_impression"},
		{"ssc", "SSC CGL", 2, "signature"},
		{"technical neet", "NEET UG", 2, "signature"},
		{"technical jee", "jee-advanced", 2, "signature"},
		{"civil services", "UPSC Civil Services", 2, "signature"},
		{"generic fallback", "State Teacher Eligibility Test", 2, "signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Generate(tt.exam)
			if len(s.Documents) != tt.wantDocs {
				t.Fatalf("documents: got %d, want %d (%v)", len(s.Documents), tt.wantDocs, docTypes(s))
			}
			found := false
			for _, d := range s.Documents {
				if d.Type == tt.wantType {
					found = true
				}
			}
			if !found {
				t.Errorf("expected document type %q, got %v", tt.wantType, docTypes(s))
			}
			if s.ExtractedFrom != "Intelligent Fallback System" {
				t.Errorf("extractedFrom: got %q", s.ExtractedFrom)
			}
		})
	}
}

func TestGenerate_BankingDetails(t *testing.T) {
	s := Generate("RBI Grade B")

	photo := s.Documents[0]
	if photo.Type != "photograph" {
		t.Fatalf("first document: got %q, want photograph", photo.Type)
	}
	if photo.Requirements.SizeKB == nil || photo.Requirements.SizeKB.Max != 50 {
		t.Errorf("photo size: got %+v", photo.Requirements.SizeKB)
	}
	if photo.Requirements.Dimensions != "200x230 pixels" {
		t.Errorf("photo dimensions: got %q", photo.Requirements.Dimensions)
	}
}

func TestGenerate_NormalizesExamName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"upsc-civil-services", "Upsc Civil Services"},
		{"ssc_cgl", "Ssc Cgl"},
		{"NEET ug", "Neet Ug"},
	}

	for _, tt := range tests {
		if got := Generate(tt.in).Exam; got != tt.want {
			t.Errorf("Exam for %q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerate_Timestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	s := Generate("ssc")
	if s.ExtractedAt.Before(before) {
		t.Errorf("ExtractedAt not set: %v", s.ExtractedAt)
	}
}

func TestBasic(t *testing.T) {
	s := Basic("")
	if s.Exam != "Unknown Exam" {
		t.Errorf("empty name: got %q, want Unknown Exam", s.Exam)
	}
	if s.ExtractedFrom != "Basic Fallback" {
		t.Errorf("extractedFrom: got %q", s.ExtractedFrom)
	}
	if len(s.Documents) != 1 || s.Documents[0].Type != "photograph" {
		t.Errorf("documents: got %v", docTypes(s))
	}

	s = Basic("GATE 2027")
	if s.Exam != "GATE 2027" {
		t.Errorf("Basic must not normalize, got %q", s.Exam)
	}
}
