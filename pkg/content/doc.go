// Package content configures, compares and generates form-urlencoded bodies.
//
// The Engine has three operations, each a pure function of its input:
//
//   - Configure turns field definitions (field:<name> -> matching expression)
//     into an example body, a rule set, a generator set and display markup.
//   - Compare diffs an expected body against an actual body and reports every
//     mismatch it finds. Mismatches are data; only malformed input is an error.
//   - Generate substitutes generated values into a template body, keeping the
//     field order and repeated fields of the template.
//
// Rule evaluation and value generation are delegated to a rules.Evaluator and a
// generators.Evaluator so both can be replaced in tests.
package content
