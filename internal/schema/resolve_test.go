package schema

import (
	"testing"
)

// stubPatterns returns a fixed field map regardless of input text.
type stubPatterns struct {
	fields FieldMap
}

func (s *stubPatterns) Extract(text string) FieldMap {
	out := make(FieldMap, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

func makeFields(confidence float64, names ...string) FieldMap {
	fields := make(FieldMap, len(names))
	for _, n := range names {
		fields[n] = Field{Type: TypeString, Confidence: confidence, Description: "test"}
	}
	return fields
}

func TestResolve_EmptyEntities_RegexWholesale(t *testing.T) {
	regex := makeFields(0.6, "roll_no", "dob")
	r := &Resolver{Patterns: &stubPatterns{fields: regex}}

	res := r.Resolve(FieldMap{}, "Roll No: X")

	if len(res.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(res.Fields))
	}
	if len(res.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", res.Issues)
	}
	if res.Issues[0] != IssueTokenizationFailed {
		t.Errorf("issue 0: got %q, want %q", res.Issues[0], IssueTokenizationFailed)
	}
	// 2 of 20 fields is far below the coverage floor, so the second merge
	// pass also fires.
	if res.Issues[1] != IssueLowCoverage {
		t.Errorf("issue 1: got %q, want %q", res.Issues[1], IssueLowCoverage)
	}
	if want := 10.0; res.Coverage != want {
		t.Errorf("coverage: got %v, want %v", res.Coverage, want)
	}
}

func TestResolve_FewEntities_MergedWithRegex(t *testing.T) {
	entityFields := makeFields(0.9, "name", "dob")
	regex := makeFields(0.6, "dob", "roll_no", "email")
	r := &Resolver{Patterns: &stubPatterns{fields: regex}}

	res := r.Resolve(entityFields, "irrelevant")

	// name, dob (entity) + roll_no, email (regex)
	if len(res.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %v", res.Fields)
	}
	// Entity fields win collisions.
	if got := res.Fields["dob"].Confidence; got != 0.9 {
		t.Errorf("dob confidence: got %v, want 0.9 (entity should win)", got)
	}
	if res.Issues[0] != IssueLowEntityCount {
		t.Errorf("issue 0: got %q, want %q", res.Issues[0], IssueLowEntityCount)
	}
}

func TestResolve_EnoughEntities_LowCoverage(t *testing.T) {
	entityFields := makeFields(0.9, "name", "dob", "email", "phone", "address")
	regex := makeFields(0.6, "roll_no", "category")
	r := &Resolver{Patterns: &stubPatterns{fields: regex}}

	res := r.Resolve(entityFields, "irrelevant")

	// 5 entity fields skips the low-entity merge, but 5/20 = 25% coverage
	// triggers the second merge pass.
	if len(res.Issues) != 1 || res.Issues[0] != IssueLowCoverage {
		t.Fatalf("expected only low-coverage issue, got %v", res.Issues)
	}
	if len(res.Fields) != 7 {
		t.Errorf("expected 7 fields after merge, got %d", len(res.Fields))
	}
	if want := 35.0; res.Coverage != want {
		t.Errorf("coverage: got %v, want %v", res.Coverage, want)
	}
}

func TestResolve_HighCoverage_NoIssues(t *testing.T) {
	names := []string{
		"roll_no", "application_no", "dob", "name", "email", "phone",
		"address", "category", "gender", "father_name", "mother_name",
		"state", "district", "pincode",
	}
	entityFields := makeFields(0.9, names...)
	r := &Resolver{Patterns: &stubPatterns{fields: makeFields(0.6, "subject")}}

	res := r.Resolve(entityFields, "irrelevant")

	if len(res.Issues) != 0 {
		t.Fatalf("expected no issues at 70%% coverage, got %v", res.Issues)
	}
	if want := 70.0; res.Coverage != want {
		t.Errorf("coverage: got %v, want %v", res.Coverage, want)
	}
	if len(res.Fields) != 14 {
		t.Errorf("expected entity fields untouched, got %d", len(res.Fields))
	}
}

func TestResolve_SecondMergeNeverLowersCoverage(t *testing.T) {
	entityFields := makeFields(0.9, "name", "dob", "email", "phone", "address", "state")
	r := &Resolver{Patterns: &stubPatterns{fields: FieldMap{}}}

	res := r.Resolve(entityFields, "irrelevant")

	// The regex source adds nothing; coverage stays at its pre-merge value.
	if want := 30.0; res.Coverage != want {
		t.Errorf("coverage: got %v, want %v", res.Coverage, want)
	}
	if len(res.Fields) != 6 {
		t.Errorf("fields should be unchanged, got %d", len(res.Fields))
	}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name     string
		fields   int
		expected int
		want     float64
	}{
		{"empty", 0, 20, 0},
		{"half", 10, 20, 50},
		{"full", 20, 20, 100},
		{"capped", 30, 20, 100},
		{"zero expected uses default", 5, 0, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := make([]string, tt.fields)
			for i := range names {
				names[i] = string(rune('a'+i%26)) + string(rune('0'+i/26))
			}
			got := Coverage(makeFields(0.5, names...), tt.expected)
			if got != tt.want {
				t.Errorf("Coverage(%d fields, %d expected): got %v, want %v",
					tt.fields, tt.expected, got, tt.want)
			}
		})
	}
}

func TestMerge_OverlayWins(t *testing.T) {
	base := FieldMap{"dob": {Type: TypeString, Confidence: 0.6}}
	overlay := FieldMap{"dob": {Type: TypeString, Confidence: 0.9}}

	merged := Merge(base, overlay)
	if merged["dob"].Confidence != 0.9 {
		t.Errorf("overlay should win: got %v", merged["dob"].Confidence)
	}

	// Inputs are untouched.
	if base["dob"].Confidence != 0.6 {
		t.Error("base was modified")
	}
}
