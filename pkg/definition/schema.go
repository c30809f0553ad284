package definition

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("definitions.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add definitions schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("definitions.json")
	})
	return schema, schemaErr
}

// validateDocument checks a decoded YAML or JSON document against the
// definitions schema.
func validateDocument(path string, doc interface{}) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	// Normalize YAML scalars into the JSON value space the validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return &Error{Path: path, Message: fmt.Sprintf("document is not JSON-compatible: %v", err)}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var normalized interface{}
	if err := dec.Decode(&normalized); err != nil {
		return &Error{Path: path, Message: err.Error()}
	}

	if err := s.Validate(normalized); err != nil {
		verr := &SchemaError{Path: path}
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			collectViolations(ve, verr)
		}
		if len(verr.Violations) == 0 {
			verr.Violations = append(verr.Violations, err.Error())
		}
		return verr
	}
	return nil
}

// collectViolations flattens a validation error tree into leaf messages.
func collectViolations(err *jsonschema.ValidationError, out *SchemaError) {
	if len(err.Causes) == 0 {
		loc := strings.TrimPrefix(err.InstanceLocation, "/")
		loc = strings.ReplaceAll(loc, "/", ".")
		if loc == "" {
			out.Violations = append(out.Violations, err.Message)
		} else {
			out.Violations = append(out.Violations, loc+": "+err.Message)
		}
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}
