package schema

import (
	"encoding/json"
	"testing"
)

func powerRequestSchema() json.RawMessage {
	return json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"on": {"type": "boolean"},
			"brightness": {"type": "number", "minimum": 0, "maximum": 100}
		},
		"required": ["on"],
		"additionalProperties": false
	}`)
}

func TestValidate_ValidPayload(t *testing.T) {
	v := NewValidator()

	err := v.Validate(powerRequestSchema(), map[string]any{
		"on":         true,
		"brightness": float64(80),
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	v := NewValidator()

	err := v.Validate(powerRequestSchema(), map[string]any{
		"brightness": float64(10),
	})
	if err == nil {
		t.Error("expected validation error for missing on")
	}
}

func TestValidate_OutOfRange(t *testing.T) {
	v := NewValidator()

	err := v.Validate(powerRequestSchema(), map[string]any{
		"on":         true,
		"brightness": float64(300),
	})
	if err == nil {
		t.Error("expected validation error for out-of-range brightness")
	}
}

func TestValidate_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.Validate(powerRequestSchema(), map[string]any{
		"on":      true,
		"unknown": "value",
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	// Empty schema means no validation
	err := v.Validate(json.RawMessage(`{}`), map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}

func TestValidate_NilSchema(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(nil, "anything"); err != nil {
		t.Errorf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidateFormat_Bool(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateFormat("bool", true); err != nil {
		t.Errorf("expected bool to be valid, got: %v", err)
	}
	if err := v.ValidateFormat("bool", "ON"); err == nil {
		t.Error("expected validation error for string power state")
	}
}

func TestValidateFormat_Brightness(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateFormat("uint8", 42); err != nil {
		t.Errorf("expected int brightness to be valid, got: %v", err)
	}
	if err := v.ValidateFormat("uint8", float64(101)); err == nil {
		t.Error("expected validation error for brightness above 100")
	}
	if err := v.ValidateFormat("uint8", 2.5); err == nil {
		t.Error("expected validation error for fractional brightness")
	}
}

func TestValidateFormat_UnknownFormat(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateFormat("tlv8", []byte{1, 2}); err != nil {
		t.Errorf("unknown format should skip validation, got: %v", err)
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateFormat("bool", true); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateFormat("bool", false); err != nil {
		t.Fatal(err)
	}
	if err := v.Validate(powerRequestSchema(), map[string]any{"on": false}); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 2 {
		t.Errorf("expected 2 cached schemas, got %d", cacheSize)
	}
}
