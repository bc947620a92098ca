package docsource

import (
	"bytes"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaGate optionally rejects a raw document before it is walked
// into a model.Object graph, catching shape problems (a missing
// object_type, a links map with the wrong value type) earlier and with
// a clearer message than a StructuralFault raised mid-traversal would.
type SchemaGate struct {
	schema *jsonschema.Schema
}

// NewSchemaGate compiles a JSON Schema document (draft 2020-12) and
// returns a gate that validates documents against it.
func NewSchemaGate(schemaJSON []byte) (*SchemaGate, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("document.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile("document.json")
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &SchemaGate{schema: schema}, nil
}

// Validate checks doc (already decoded into generic JSON values, e.g.
// via json.Unmarshal into any) against the compiled schema.
func (g *SchemaGate) Validate(doc any) error {
	if err := g.schema.Validate(doc); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("document failed schema validation: %s", formatValidationError(verr))
		}
		return fmt.Errorf("document failed schema validation: %w", err)
	}
	return nil
}

func formatValidationError(err *jsonschema.ValidationError) string {
	var messages []string
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)
	return strings.Join(messages, "; ")
}
