// Package rules models matching rules and evaluates them against field values.
//
// A MatchingRule is pure data: a type name and a parameter bag, exactly as it
// travels on the plugin wire. A RuleSet maps a path (field:<name>) to the rules
// that must all accept a value. Evaluation is done by an Evaluator so callers
// can substitute a fake in tests:
//
//	rule := rules.Regex(`\d+`)
//	err := rules.Default().Match(rule, "100", "abc")
//	// err: Expected 'abc' to match '\d+'
//
// Supported types: equality, regex, type, number, integer, decimal, include,
// boolean, notEmpty, null, date, time, datetime (alias timestamp), semver,
// contentType, and the collection rules min, max, minmax, values, eachKey and
// eachValue which accept any scalar value.
package rules
