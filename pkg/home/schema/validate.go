package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Value schemas for characteristic formats
var formatSchemas = map[string]json.RawMessage{
	"bool":   json.RawMessage(`{"type": "boolean"}`),
	"uint8":  json.RawMessage(`{"type": "integer", "minimum": 0, "maximum": 100}`),
	"float":  json.RawMessage(`{"type": "number"}`),
	"string": json.RawMessage(`{"type": "string", "maxLength": 64}`),
}

// SchemaFor returns the value schema for a characteristic format, or nil when
// the format is unknown.
func SchemaFor(format string) json.RawMessage {
	return formatSchemas[format]
}

// Validator validates values against JSON Schema documents.
// It caches compiled schemas keyed by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a new Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{
		cache: make(map[string]*jsonschema.Schema),
	}
}

// Validate validates value against the given JSON Schema document.
// Returns nil if valid, or an error describing the validation failures.
func (v *Validator) Validate(schemaDoc json.RawMessage, value any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil // No schema = no validation
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	return compiled.Validate(normalize(value))
}

// ValidateFormat validates a characteristic value against its format schema.
func (v *Validator) ValidateFormat(format string, value any) error {
	return v.Validate(SchemaFor(format), value)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}

// normalize converts Go integer types to float64, the only numeric type the
// validator accepts besides json.Number.
func normalize(value any) any {
	switch n := value.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint8:
		return float64(n)
	default:
		return value
	}
}
