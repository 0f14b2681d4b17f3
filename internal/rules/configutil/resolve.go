// Package configutil provides utilities for rule configuration resolution.
package configutil

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

var resolvedSchemaCache sync.Map

// Resolve merges user options over defaults and unmarshals to typed config.
// If opts is nil or empty, returns defaults unchanged.
//
// Note: For slice/map fields, only nil values are replaced with defaults.
// An explicitly empty slice ([]string{}) preserves the empty value,
// allowing users to explicitly clear defaults.
func Resolve[T any](opts map[string]any, defaults T) T {
	if len(opts) == 0 {
		return defaults
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, "."), nil); err != nil {
		return defaults
	}

	var result T
	if err := k.Unmarshal("", &result); err != nil {
		return defaults
	}

	return mergeDefaults(result, defaults)
}

// Coerce converts a dynamic rule config value to a typed config with defaults.
// Supported inputs:
//   - T
//   - *T
//   - map[string]any (decoded via Resolve)
//
// Any unsupported value falls back to defaults.
func Coerce[T any](config any, defaults T) T {
	switch v := config.(type) {
	case *T:
		if v != nil {
			return *v
		}
	case map[string]any:
		return Resolve(v, defaults)
	case T:
		return v
	}
	return defaults
}

// mergeDefaults fills zero-valued fields in result with values from defaults.
func mergeDefaults[T any](result, defaults T) T {
	resultVal := reflect.ValueOf(&result).Elem()
	defaultsVal := reflect.ValueOf(defaults)

	if resultVal.Kind() != reflect.Struct {
		return result
	}

	for i := range resultVal.NumField() {
		field := resultVal.Field(i)
		if !field.CanSet() {
			continue
		}
		if isZero(field) {
			field.Set(defaultsVal.Field(i))
		}
	}

	return result
}

func isZero(v reflect.Value) bool {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// ValidateWithSchema validates config against a JSON Schema map.
// Returns nil if valid, or an error describing validation failures.
func ValidateWithSchema(config any, schema map[string]any) error {
	if schema == nil || isNilConfig(config) {
		return nil
	}

	// encoding/json sorts map keys, so equal schemas share a cache entry.
	schemaData, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	resolved, err := resolveSchema(schemaData)
	if err != nil {
		return err
	}

	return validateResolved(config, resolved)
}

func resolveSchema(schemaData []byte) (*gjsonschema.Resolved, error) {
	if cached, ok := resolvedSchemaCache.Load(string(schemaData)); ok {
		if resolved, ok := cached.(*gjsonschema.Resolved); ok {
			return resolved, nil
		}
	}

	var parsedSchema gjsonschema.Schema
	if err := json.Unmarshal(schemaData, &parsedSchema); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	resolved, err := parsedSchema.Resolve(nil)
	if err != nil {
		return nil, err
	}
	resolvedSchemaCache.Store(string(schemaData), resolved)
	return resolved, nil
}

func validateResolved(config any, resolved *gjsonschema.Resolved) error {
	configData, err := json.Marshal(config)
	if err != nil {
		return err
	}
	var configJSON any
	if err := json.Unmarshal(configData, &configJSON); err != nil {
		return err
	}
	return resolved.Validate(configJSON)
}

func isNilConfig(config any) bool {
	if config == nil {
		return true
	}
	rv := reflect.ValueOf(config)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
