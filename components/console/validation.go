package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchemaValidator compiles settings schemas and validates tenant
// settings maps against them. Compiled schemas are cached per tenant.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the provided settings satisfy the schema.
func (v *JSONSchemaValidator) Validate(tenantID string, schemaDoc map[string]any, settings map[string]any) error {
	if len(schemaDoc) == 0 {
		return nil
	}
	schema, err := v.schemaFor(tenantID, schemaDoc)
	if err != nil {
		return err
	}
	var payload map[string]any
	if settings == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("console: marshal settings for %s: %w", tenantID, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("console: normalize settings for %s: %w", tenantID, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("console: settings for %s failed validation: %w", tenantID, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(tenantID string, schemaDoc map[string]any) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[tenantID]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("console: marshal schema for %s: %w", tenantID, err)
	}
	compiler := jsonschema.NewCompiler()
	name := tenantID + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("console: load schema for %s: %w", tenantID, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("console: compile schema for %s: %w", tenantID, err)
	}
	v.mu.Lock()
	v.compiled[tenantID] = compiled
	v.mu.Unlock()
	return compiled, nil
}
