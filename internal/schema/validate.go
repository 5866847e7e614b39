package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// IssueValidationWarnings is appended when the assembled field map does not
// compile into a well-formed object schema. Advisory only; never a gate.
const IssueValidationWarnings = "Schema validation warnings present"

// Validation reports the outcome of a structural validation pass.
type Validation struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues"`
}

// Validate checks the field map for structural soundness: every field must
// carry a known type, and every embedded pattern must compile both as a Go
// regexp and as part of a JSON Schema object description. Failures are
// reported as issues, not errors.
func Validate(fields FieldMap) Validation {
	var issues []string

	for name, f := range fields {
		switch f.Type {
		case TypeString, TypeNumber, TypeBoolean:
		default:
			issues = append(issues, fmt.Sprintf("field %q has unknown type %q", name, f.Type))
		}
		if f.Pattern != "" {
			if _, err := regexp.Compile(f.Pattern); err != nil {
				issues = append(issues, fmt.Sprintf("field %q has unparseable pattern: %v", name, err))
			}
		}
	}

	if err := compileObjectSchema(fields); err != nil {
		issues = append(issues, err.Error())
	}

	if len(issues) > 0 {
		return Validation{OK: false, Issues: []string{IssueValidationWarnings}}
	}
	return Validation{OK: true}
}

// compileObjectSchema builds a JSON Schema object description from the field
// map and compiles it, catching anything a downstream validator would reject.
func compileObjectSchema(fields FieldMap) error {
	props := make(map[string]any, len(fields))
	for name, f := range fields {
		prop := map[string]any{"type": string(f.Type)}
		if f.Pattern != "" && f.Type == TypeString {
			prop["pattern"] = f.Pattern
		}
		if f.Format == "date" || f.Format == "email" {
			prop["format"] = f.Format
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		props[name] = prop
	}

	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize object schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fields.json", bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to load object schema: %w", err)
	}
	if _, err := compiler.Compile("fields.json"); err != nil {
		return fmt.Errorf("failed to compile object schema: %w", err)
	}
	return nil
}
