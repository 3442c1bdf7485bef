package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/gabriel-vasile/mimetype"
)

// Evaluator checks an actual value against an expected value under one rule.
// A nil return means the rule accepted the value; otherwise the error message
// describes the mismatch.
type Evaluator interface {
	Match(rule MatchingRule, expected, actual string) error
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(rule MatchingRule, expected, actual string) error

// Match calls f.
func (f EvaluatorFunc) Match(rule MatchingRule, expected, actual string) error {
	return f(rule, expected, actual)
}

type defaultEvaluator struct{}

// Default returns the built-in evaluator for string values.
func Default() Evaluator {
	return defaultEvaluator{}
}

// Match implements Evaluator.
func (defaultEvaluator) Match(rule MatchingRule, expected, actual string) error {
	switch rule.Type {
	case TypeEquality:
		if actual != expected {
			return fmt.Errorf("Expected '%s' to be equal to '%s'", actual, expected)
		}
	case TypeRegex:
		return matchRegex(rule, actual)
	case TypeType, TypeMin, TypeMax, TypeMinMax, TypeValues, TypeEachKey, TypeEachValue:
		// Both sides are strings, so the type always agrees and
		// collection constraints have nothing to count.
	case TypeNumber:
		if _, err := strconv.ParseFloat(actual, 64); err != nil {
			return fmt.Errorf("Expected '%s' to be a number", actual)
		}
	case TypeInteger:
		if _, err := strconv.ParseInt(actual, 10, 64); err != nil {
			return fmt.Errorf("Expected '%s' to be an integer value", actual)
		}
	case TypeDecimal:
		if _, err := strconv.ParseFloat(actual, 64); err != nil || !strings.Contains(actual, ".") {
			return fmt.Errorf("Expected '%s' to be a decimal value", actual)
		}
	case TypeInclude:
		value, _ := rule.StringValue("value")
		if !strings.Contains(actual, value) {
			return fmt.Errorf("Expected '%s' to include '%s'", actual, value)
		}
	case TypeBoolean:
		if actual != "true" && actual != "false" {
			return fmt.Errorf("Expected '%s' to match a boolean value", actual)
		}
	case TypeNotEmpty:
		if actual == "" {
			return fmt.Errorf("Expected '%s' to not be empty", actual)
		}
	case TypeNull:
		return fmt.Errorf("Expected '%s' to be a null value", actual)
	case TypeDate, TypeTime, TypeDateTime, TypeTimestamp:
		return matchTimestamp(rule, actual)
	case TypeSemver:
		if _, err := semver.StrictNewVersion(actual); err != nil {
			return fmt.Errorf("'%s' is not a valid semantic version - %v", actual, err)
		}
	case TypeContentType:
		return matchContentType(rule, actual)
	default:
		return fmt.Errorf("Unable to match '%s' using %s", actual, rule)
	}
	return nil
}

func matchRegex(rule MatchingRule, actual string) error {
	pattern, _ := rule.StringValue("regex")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("'%s' is not a valid regular expression - %v", pattern, err)
	}
	if !re.MatchString(actual) {
		return fmt.Errorf("Expected '%s' to match '%s'", actual, pattern)
	}
	return nil
}

func matchTimestamp(rule MatchingRule, actual string) error {
	pattern, ok := rule.format()
	if !ok {
		return fmt.Errorf("%w: %s requires 'format'", ErrMissingParameter, rule.Type)
	}
	layout, err := GoLayout(pattern)
	if err != nil {
		return err
	}
	if _, err := time.Parse(layout, actual); err != nil {
		return fmt.Errorf("Expected '%s' to match a %s pattern of '%s': %v", actual, describeTimestamp(rule.Type), pattern, err)
	}
	return nil
}

func describeTimestamp(ruleType string) string {
	switch ruleType {
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	default:
		return "datetime"
	}
}

func matchContentType(rule MatchingRule, actual string) error {
	expected, _ := rule.StringValue("value")
	detected := mimetype.Detect([]byte(actual))
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(expected) {
			return nil
		}
	}
	return fmt.Errorf("Expected data to have a content type of '%s' but was '%s'", expected, detected.String())
}
