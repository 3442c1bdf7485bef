package expression

import (
	"fmt"

	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

// Definition is the result of parsing a matching rule expression.
type Definition struct {
	// Value is the example value.
	Value string
	// Rules are the rule entries in declaration order.
	Rules []Entry
	// Generator is set by date and time matchers.
	Generator *generators.Generator
}

// Entry is either a RuleEntry or a ReferenceEntry.
type Entry interface {
	entry()
}

// RuleEntry is a resolved matching rule.
type RuleEntry struct {
	Rule rules.MatchingRule
}

// ReferenceEntry points at a named definition that has not been resolved.
type ReferenceEntry struct {
	Name string
}

func (RuleEntry) entry()      {}
func (ReferenceEntry) entry() {}

func (r ReferenceEntry) String() string {
	return fmt.Sprintf("MatchingReference { name: %q }", r.Name)
}

// merge folds other into d. Rules accumulate; a later value or generator
// replaces an earlier one.
func (d *Definition) merge(other *Definition) {
	d.Rules = append(d.Rules, other.Rules...)
	if other.Value != "" {
		d.Value = other.Value
	}
	if other.Generator != nil {
		d.Generator = other.Generator
	}
}
