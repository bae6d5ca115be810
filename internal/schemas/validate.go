// Package schemas validates the editable data files consumed by the ad-quality engine
// (lexicons and entity rules) against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names
const (
	Lexicon     = "lexicon.schema.json"
	EntityRules = "entity_rules.schema.json"
)

// ValidationError lists every way a document breaks its schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is one schema violation. Rule is the gojsonschema error type, such as
// "required" or "additional_property_not_allowed", or "invalid_json" for unparsable input.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("validation failed against %s: %s", ve.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError reports an embedded schema that is missing or does not compile.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// compiled holds every embedded schema, compiled on first use.
var compiled = sync.OnceValues(func() (map[string]*gojsonschema.Schema, error) {
	names, err := fs.Glob(schemaFiles, "*.schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Path: "*.schema.json", Message: "bad glob", Cause: err}
	}
	out := make(map[string]*gojsonschema.Schema, len(names))
	for _, name := range names {
		data, err := schemaFiles.ReadFile(name)
		if err != nil {
			return nil, &SchemaLoadError{Path: name, Message: "unreadable", Cause: err}
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, &SchemaLoadError{Path: name, Message: "does not compile", Cause: err}
		}
		out[name] = schema
	}
	return out, nil
})

// Schema returns the raw content of an embedded schema.
func Schema(name string) ([]byte, error) {
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	return data, nil
}

// Validate checks document against the named embedded schema. A document that is not
// JSON at all is reported as a ValidationError on the root.
func Validate(name string, document []byte) error {
	schemas, err := compiled()
	if err != nil {
		return err
	}
	schema, ok := schemas[name]
	if !ok {
		return &SchemaLoadError{Path: name, Message: "schema not embedded"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Schema: name, Errors: []FieldError{{
			Field:   "(root)",
			Rule:    "invalid_json",
			Message: err.Error(),
		}}}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Rule: desc.Type(), Message: desc.Description()})
	}
	return ve
}
