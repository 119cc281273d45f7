// Package schema validates documents against the JSON schemas the document
// store enforces for each collection.
package schema

import (
	"fmt"
	"sort"

	"crm_backend/platform/apperr"

	"github.com/xeipuuv/gojsonschema"
)

const rootField = "(root)"

// Registry holds compiled collection schemas keyed by name.
type Registry struct {
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry compiles the given raw JSON schemas.
func NewRegistry(raw map[string]string) (*Registry, error) {
	r := &Registry{schemas: make(map[string]*gojsonschema.Schema, len(raw))}
	for name, def := range raw {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(def))
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		r.schemas[name] = compiled
	}
	return r, nil
}

// Validate checks doc against the named schema. A document that violates the
// schema yields an apperr validation error listing each failed field.
func (r *Registry) Validate(name string, doc interface{}) error {
	s, ok := r.schemas[name]
	if !ok {
		return fmt.Errorf("schema %s: not registered", name)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]apperr.FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, apperr.FieldError{
			Field:   fieldName(desc),
			Message: desc.Description(),
		})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return apperr.Validation(name+" failed schema validation", fields...)
}

func fieldName(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if desc.Field() == rootField {
				return prop
			}
			return desc.Field() + "." + prop
		}
	}
	return desc.Field()
}
