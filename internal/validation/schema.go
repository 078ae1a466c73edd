// Package validation checks form bodies for required fields using JSON Schema.
package validation

import (
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// nonBlank matches any string containing a non-whitespace character.
const nonBlank = `\S`

// Schema is a compiled form schema.
type Schema struct {
	s *gojsonschema.Schema
}

// Required builds an object schema whose listed properties must be present
// and not null. String values must also contain a non-space character. Other
// value types, and properties not listed, are not checked.
func Required(fields ...string) *Schema {
	props := map[string]any{}
	for _, f := range fields {
		props[f] = map[string]any{
			"not":     map[string]any{"type": "null"},
			"pattern": nonBlank,
		}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any{
		"type":       "object",
		"properties": props,
		"required":   fields,
	}))
	if err != nil {
		// schemas are built from constant field lists at init time
		panic(fmt.Sprintf("validation: bad schema: %v", err))
	}
	return &Schema{s: schema}
}

// Check returns the sorted names of fields that failed validation.
func (sc *Schema) Check(doc map[string]any) ([]string, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	result, err := sc.s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	seen := map[string]bool{}
	var fields []string
	for _, e := range result.Errors() {
		field := e.Field()
		if e.Type() == "required" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
		}
		if !seen[field] {
			seen[field] = true
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields, nil
}
