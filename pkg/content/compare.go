package content

import (
	"fmt"

	"github.com/getmockd/form-urlencoded-plugin/pkg/field"
	"github.com/getmockd/form-urlencoded-plugin/pkg/form"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

// Mismatch is one discrepancy found while comparing two bodies.
type Mismatch struct {
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"mismatch"`
	Path     string `json:"path,omitempty"`
	Diff     string `json:"diff,omitempty"`
}

// ComparisonResult groups mismatches by category. Form bodies only ever use
// the empty category.
type ComparisonResult map[string][]Mismatch

// Mismatches returns every mismatch regardless of category.
func (r ComparisonResult) Mismatches() []Mismatch {
	var all []Mismatch
	for _, m := range r {
		all = append(all, m...)
	}
	return all
}

// present reports whether a body was sent. Empty content is still a body.
func present(b *Body) bool {
	return b != nil && b.Content != nil
}

// Compare matches the actual body against the expected one. Mismatches are
// returned as data; an error means one of the bodies could not be decoded.
func (e *Engine) Compare(expected, actual *Body, allowUnexpected bool, ruleSet rules.RuleSet) (ComparisonResult, error) {
	switch {
	case !present(expected) && !present(actual):
		return ComparisonResult{"": nil}, nil
	case !present(expected):
		return ComparisonResult{"": {{
			Actual:  string(actual.Content),
			Message: fmt.Sprintf("Expected no Form Url Encoded content, but got %d bytes", len(actual.Content)),
		}}}, nil
	case !present(actual):
		return ComparisonResult{"": {{
			Expected: string(expected.Content),
			Message:  "Expected Form Url Encoded content, but did not get any",
		}}}, nil
	}

	expectedBody, err := form.Decode(expected.Content)
	if err != nil {
		return nil, fmt.Errorf("expected content: %w", err)
	}
	actualBody, err := form.Decode(actual.Content)
	if err != nil {
		return nil, fmt.Errorf("actual content: %w", err)
	}

	expectedNames, expectedValues := expectedBody.Fields()
	actualNames, actualValues := actualBody.Fields()

	var mismatches []Mismatch
	for _, name := range expectedNames {
		expectedValue := expectedValues[name]
		actualValue, ok := actualValues[name]
		if !ok {
			mismatches = append(mismatches, Mismatch{
				Expected: name,
				Message:  fmt.Sprintf("Expected field '%s', but was missing", name),
			})
			continue
		}
		mismatches = append(mismatches, e.compareField(name, expectedValue, actualValue, ruleSet)...)
	}

	if !allowUnexpected {
		for _, name := range actualNames {
			if _, ok := expectedValues[name]; !ok {
				mismatches = append(mismatches, Mismatch{
					Actual:  name,
					Message: fmt.Sprintf("Unexpected field '%s', but was not allowed", name),
				})
			}
		}
	}

	e.log.Debug("compared form bodies", "expected_fields", len(expectedNames), "actual_fields", len(actualNames), "mismatches", len(mismatches))
	return ComparisonResult{"": mismatches}, nil
}

// compareField routes one field to its rule list, falling back to equality.
func (e *Engine) compareField(name, expected, actual string, ruleSet rules.RuleSet) []Mismatch {
	path := field.Path(name)
	list, ok := ruleSet[path]
	if !ok || len(list) == 0 {
		if expected == actual {
			return nil
		}
		return []Mismatch{{
			Expected: expected,
			Actual:   actual,
			Message:  fmt.Sprintf("Expected field %s value to equal '%s', but got '%s'", name, expected, actual),
			Path:     path,
		}}
	}

	var mismatches []Mismatch
	for _, rule := range list {
		if err := e.matcher.Match(rule, expected, actual); err != nil {
			mismatches = append(mismatches, Mismatch{
				Expected: expected,
				Actual:   actual,
				Message:  err.Error(),
				Path:     path,
			})
		}
	}
	return mismatches
}
