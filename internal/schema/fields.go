// Package schema defines the inferred field model produced by the extraction
// pipeline, the coverage-driven merge policy that reconciles model output with
// regex output, and an advisory structural validator.
package schema

// FieldType is the value type of an inferred form field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// Field describes a single form field discovered in a document.
// Fields are keyed by canonical name (e.g. "roll_no", "dob", "email") in a
// FieldMap; the map is keys-unique and insertion order is irrelevant.
type Field struct {
	Type        FieldType `json:"type"`
	Pattern     string    `json:"pattern,omitempty"`
	Format      string    `json:"format,omitempty"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
}

// FieldMap maps canonical field names to inferred fields.
type FieldMap map[string]Field

// Result is the pipeline's final artifact: the assembled field map, a
// coverage percentage over the expected field set, and the ordered list of
// issues accumulated across stages.
type Result struct {
	Fields   FieldMap `json:"fields"`
	Coverage float64  `json:"coverage"`
	Issues   []string `json:"issues"`
}

// DefaultExpectedFieldCount is the normalization constant representing a
// "complete" form schema. Tunable via config; not a law of the domain.
const DefaultExpectedFieldCount = 20

// Coverage computes the percentage of an expected field set that a field map
// populates, capped at 100.
func Coverage(fields FieldMap, expected int) float64 {
	if expected <= 0 {
		expected = DefaultExpectedFieldCount
	}
	pct := 100 * float64(len(fields)) / float64(expected)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Merge overlays base with overlay, with overlay winning on name collisions.
// Neither input is modified.
func Merge(base, overlay FieldMap) FieldMap {
	merged := make(FieldMap, len(base)+len(overlay))
	for name, f := range base {
		merged[name] = f
	}
	for name, f := range overlay {
		merged[name] = f
	}
	return merged
}
