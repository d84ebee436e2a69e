package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is the JSON Schema a reply must satisfy. Build one with NewSchema
// or CompileSchema; the compiled form is immutable and safe to share.
type Schema struct {
	// Name is kebab-case, e.g. "vocabulary-expansion". OpenAI requires it
	// for json_schema response formats.
	Name        string
	Description string
	Definition  map[string]any

	raw      json.RawMessage
	compiled *jsonschema.Schema
}

// NewSchema compiles def and panics if it is not a valid schema. It is meant
// for package-level schema values.
func NewSchema(name, description string, def map[string]any) *Schema {
	s, err := CompileSchema(name, description, def)
	if err != nil {
		panic(err)
	}
	return s
}

// CompileSchema compiles def under name.
func CompileSchema(name, description string, def map[string]any) (*Schema, error) {
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("schema %q: marshal: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema %q: parse: %w", name, err)
	}

	url := "wordiz://schemas/" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("schema %q: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %q: compile: %w", name, err)
	}

	return &Schema{
		Name:        name,
		Description: description,
		Definition:  def,
		raw:         raw,
		compiled:    compiled,
	}, nil
}

// JSON returns the schema definition as JSON.
func (s *Schema) JSON() json.RawMessage {
	return s.raw
}

// Validate checks that out is JSON conforming to the schema.
func (s *Schema) Validate(out json.RawMessage) error {
	if s.compiled == nil {
		return errors.New("schema " + s.Name + " was not compiled")
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(out))
	if err != nil {
		return fmt.Errorf("reply is not JSON: %w", err)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return fmt.Errorf("reply does not match %s: %w", s.Name, err)
	}
	return nil
}
