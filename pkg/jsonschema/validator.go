// Package jsonschema validates decoded JSON values against JSON Schema documents.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors collects every schema violation found in a document.
type ValidationErrors []error

func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, err := range ve {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON Schema.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile parses and compiles a schema document.
func Compile(schema []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// CompileFile reads and compiles the schema stored at path.
func CompileFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading schema file: %w", err)
	}
	return Compile(data)
}

// Validate checks data against the schema. It returns nil when data conforms.
// Any Go value that encodes to JSON is accepted.
func (s *Schema) Validate(data any) ValidationErrors {
	doc, err := normalize(data)
	if err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}

	err = s.compiled.Validate(doc)
	if err == nil {
		return nil
	}
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		return flatten(verr)
	}
	return ValidationErrors{err}
}

// Validate compiles schema and checks data against it. The error return is
// reserved for schema problems; violations come back as ValidationErrors.
func Validate(data any, schema []byte) (ValidationErrors, error) {
	compiled, err := Compile(schema)
	if err != nil {
		return nil, err
	}
	return compiled.Validate(data), nil
}

// normalize re-decodes data so that numbers and containers use the types the
// validator understands.
func normalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func flatten(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if err.Message != "" {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, fmt.Errorf("validation error at %s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	return errs
}
