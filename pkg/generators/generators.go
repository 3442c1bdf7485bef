package generators

import (
	"errors"
	"fmt"
	"math"
)

// Generator type names.
const (
	TypeRandomInt         = "RandomInt"
	TypeRandomDecimal     = "RandomDecimal"
	TypeRandomHexadecimal = "RandomHexadecimal"
	TypeRandomString      = "RandomString"
	TypeRandomBoolean     = "RandomBoolean"
	TypeUUID              = "Uuid"
	TypeRegex             = "Regex"
	TypeDate              = "Date"
	TypeTime              = "Time"
	TypeDateTime          = "DateTime"
	TypeProviderState     = "ProviderState"
)

var (
	// ErrUnsupported is returned for generator types the engine cannot evaluate.
	ErrUnsupported = errors.New("unsupported generator type")

	// ErrInvalidParameter is returned when a generator parameter has the wrong shape.
	ErrInvalidParameter = errors.New("invalid generator parameter")

	// ErrMissingContext is returned when a provider state expression cannot be resolved.
	ErrMissingContext = errors.New("value not found in generator context")
)

// Generator describes how a value is generated.
type Generator struct {
	Type   string
	Values map[string]any
}

// GeneratorSet maps a path to the single generator for that field.
type GeneratorSet map[string]Generator

func (g Generator) String() string {
	if len(g.Values) == 0 {
		return g.Type
	}
	return fmt.Sprintf("%s%v", g.Type, g.Values)
}

// Known reports whether the generator type is one the engine supports.
func Known(generatorType string) bool {
	switch generatorType {
	case TypeRandomInt, TypeRandomDecimal, TypeRandomHexadecimal, TypeRandomString,
		TypeRandomBoolean, TypeUUID, TypeRegex, TypeDate, TypeTime, TypeDateTime,
		TypeProviderState:
		return true
	}
	return false
}

// FromWire rebuilds a generator received from the host.
func FromWire(generatorType string, values map[string]any) (Generator, error) {
	if !Known(generatorType) {
		return Generator{}, fmt.Errorf("%w '%s'", ErrUnsupported, generatorType)
	}
	if values == nil {
		values = map[string]any{}
	}
	return Generator{Type: generatorType, Values: values}, nil
}

// intParam returns a whole-number parameter or def when absent.
func (g Generator) intParam(key string, def int) (int, error) {
	raw, ok := g.Values[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("%w: %s '%s' must be a whole number, got %v", ErrInvalidParameter, g.Type, key, raw)
}

// stringParam returns a string parameter or def when absent.
func (g Generator) stringParam(key, def string) (string, error) {
	raw, ok := g.Values[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s '%s' must be a string, got %v", ErrInvalidParameter, g.Type, key, raw)
	}
	return s, nil
}
