package schema

import (
	"log/slog"
)

// Issue strings appended by the merge policy. The surrounding stages rely on
// exact matches for display, so these are fixed.
const (
	IssueTokenizationFailed = "Tokenization failed; using regex fallback"
	IssueLowEntityCount     = "Low entity extraction; enhancing with regex"
	IssueLowCoverage        = "Low coverage (<70%); regex fallback used"
)

// Merge-policy thresholds.
const (
	// minEntityFields is the field count below which regex output is merged
	// in to supplement the model.
	minEntityFields = 5

	// lowCoveragePct is the coverage percentage below which a second regex
	// merge pass runs.
	lowCoveragePct = 70.0
)

// PatternSource extracts fields from raw text by regular expression matching.
// Implemented by patterns.Extractor.
type PatternSource interface {
	Extract(text string) FieldMap
}

// Resolver applies the coverage-driven merge policy: it decides whether to
// accept model-inferred fields as-is or supplement them with regex output,
// based on field count and computed coverage.
type Resolver struct {
	// Patterns supplies the regex fallback. Required.
	Patterns PatternSource

	// ExpectedFieldCount normalizes coverage. Defaults to
	// DefaultExpectedFieldCount when zero.
	ExpectedFieldCount int

	// Logger is optional.
	Logger *slog.Logger
}

// Resolve reconciles entity-inferred fields with regex output over rawText.
// The decision sequence is evaluated once, in order:
//
//  1. No entity fields at all: the regex output is taken wholesale.
//  2. Fewer than 5 entity fields: regex output is merged in underneath,
//     entity fields winning collisions.
//  3. Coverage is computed over whatever map steps 1-2 produced.
//  4. Coverage below 70%: a second regex merge runs (entity fields still
//     winning collisions) and coverage is recomputed. This pass can only add
//     fields, never remove, so coverage is monotonically non-decreasing.
//
// Issues are appended in call order and returned with the final map.
func (r *Resolver) Resolve(entityFields FieldMap, rawText string) Result {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	var issues []string
	fields := entityFields

	switch {
	case len(entityFields) == 0:
		fields = r.Patterns.Extract(rawText)
		issues = append(issues, IssueTokenizationFailed)
		log.Debug("entity inference empty, regex fallback", "fields", len(fields))

	case len(entityFields) < minEntityFields:
		fields = Merge(r.Patterns.Extract(rawText), entityFields)
		issues = append(issues, IssueLowEntityCount)
		log.Debug("low entity count, merged regex", "fields", len(fields))
	}

	coverage := Coverage(fields, r.ExpectedFieldCount)

	if coverage < lowCoveragePct {
		fields = Merge(r.Patterns.Extract(rawText), fields)
		coverage = Coverage(fields, r.ExpectedFieldCount)
		issues = append(issues, IssueLowCoverage)
		log.Debug("low coverage, second regex merge", "fields", len(fields), "coverage", coverage)
	}

	return Result{
		Fields:   fields,
		Coverage: coverage,
		Issues:   issues,
	}
}
