package rules

import (
	"errors"
	"fmt"
	"math"
)

// Rule type names.
const (
	TypeEquality    = "equality"
	TypeRegex       = "regex"
	TypeType        = "type"
	TypeNumber      = "number"
	TypeInteger     = "integer"
	TypeDecimal     = "decimal"
	TypeInclude     = "include"
	TypeBoolean     = "boolean"
	TypeNotEmpty    = "notEmpty"
	TypeNull        = "null"
	TypeDate        = "date"
	TypeTime        = "time"
	TypeDateTime    = "datetime"
	TypeTimestamp   = "timestamp"
	TypeSemver      = "semver"
	TypeContentType = "contentType"
	TypeMin         = "min"
	TypeMax         = "max"
	TypeMinMax      = "minmax"
	TypeValues      = "values"
	TypeEachKey     = "eachKey"
	TypeEachValue   = "eachValue"
)

var (
	// ErrUnknownRule is returned for a rule type this package does not know.
	ErrUnknownRule = errors.New("unknown matching rule type")

	// ErrMissingParameter is returned when a rule lacks a required value.
	ErrMissingParameter = errors.New("matching rule is missing a parameter")
)

// MatchingRule is a single rule: a type name and its parameters.
type MatchingRule struct {
	Type   string
	Values map[string]any
}

// RuleSet maps a path to rules combined with AND logic.
type RuleSet map[string][]MatchingRule

// String renders the rule for log output.
func (r MatchingRule) String() string {
	if len(r.Values) == 0 {
		return r.Type
	}
	return fmt.Sprintf("%s%v", r.Type, r.Values)
}

// Rule constructors.

func Equality() MatchingRule { return MatchingRule{Type: TypeEquality} }
func Like() MatchingRule     { return MatchingRule{Type: TypeType} }
func Number() MatchingRule   { return MatchingRule{Type: TypeNumber} }
func Integer() MatchingRule  { return MatchingRule{Type: TypeInteger} }
func Decimal() MatchingRule  { return MatchingRule{Type: TypeDecimal} }
func Boolean() MatchingRule  { return MatchingRule{Type: TypeBoolean} }
func NotEmpty() MatchingRule { return MatchingRule{Type: TypeNotEmpty} }
func Semver() MatchingRule   { return MatchingRule{Type: TypeSemver} }

func Regex(pattern string) MatchingRule {
	return MatchingRule{Type: TypeRegex, Values: map[string]any{"regex": pattern}}
}

func Include(value string) MatchingRule {
	return MatchingRule{Type: TypeInclude, Values: map[string]any{"value": value}}
}

func ContentType(mimeType string) MatchingRule {
	return MatchingRule{Type: TypeContentType, Values: map[string]any{"value": mimeType}}
}

// Timestamp builds a date, time or datetime rule with a Java style format.
func Timestamp(ruleType, format string) MatchingRule {
	return MatchingRule{Type: ruleType, Values: map[string]any{"format": format}}
}

func Min(n int) MatchingRule {
	return MatchingRule{Type: TypeMin, Values: map[string]any{"min": float64(n)}}
}

func Max(n int) MatchingRule {
	return MatchingRule{Type: TypeMax, Values: map[string]any{"max": float64(n)}}
}

// FromWire rebuilds a rule received from the host and checks its parameters.
func FromWire(ruleType string, values map[string]any) (MatchingRule, error) {
	rule := MatchingRule{Type: ruleType, Values: values}

	switch ruleType {
	case TypeEquality, TypeType, TypeNumber, TypeInteger, TypeDecimal, TypeBoolean,
		TypeNotEmpty, TypeNull, TypeSemver, TypeValues, TypeEachKey, TypeEachValue:
		return rule, nil
	case TypeRegex:
		return rule, requireString(rule, "regex")
	case TypeInclude, TypeContentType:
		return rule, requireString(rule, "value")
	case TypeDate, TypeTime, TypeDateTime, TypeTimestamp:
		if _, ok := rule.format(); !ok {
			return rule, fmt.Errorf("%w: %s requires 'format'", ErrMissingParameter, ruleType)
		}
		return rule, nil
	case TypeMin:
		return rule, requireInt(rule, "min")
	case TypeMax:
		return rule, requireInt(rule, "max")
	case TypeMinMax:
		if err := requireInt(rule, "min"); err != nil {
			return rule, err
		}
		return rule, requireInt(rule, "max")
	default:
		return rule, fmt.Errorf("%w '%s'", ErrUnknownRule, ruleType)
	}
}

// format returns the date pattern. Older hosts key it by the rule type
// ("timestamp", "date" or "time"), newer ones send "format".
func (r MatchingRule) format() (string, bool) {
	for _, key := range []string{"format", r.Type} {
		if s, ok := r.Values[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// StringValue returns a string parameter.
func (r MatchingRule) StringValue(key string) (string, bool) {
	s, ok := r.Values[key].(string)
	return s, ok
}

// IntValue returns a whole-number parameter. Wire numbers arrive as float64.
func (r MatchingRule) IntValue(key string) (int, bool) {
	return intValue(r.Values, key)
}

func intValue(values map[string]any, key string) (int, bool) {
	switch v := values[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func requireString(rule MatchingRule, key string) error {
	if _, ok := rule.StringValue(key); !ok {
		return fmt.Errorf("%w: %s requires '%s'", ErrMissingParameter, rule.Type, key)
	}
	return nil
}

func requireInt(rule MatchingRule, key string) error {
	if _, ok := rule.IntValue(key); !ok {
		return fmt.Errorf("%w: %s requires a numeric '%s'", ErrMissingParameter, rule.Type, key)
	}
	return nil
}
