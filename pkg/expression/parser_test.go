package expression

import (
	"testing"

	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleEntries(rs ...rules.MatchingRule) []Entry {
	entries := make([]Entry, 0, len(rs))
	for _, r := range rs {
		entries = append(entries, RuleEntry{Rule: r})
	}
	return entries
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValue string
		wantRules []Entry
		wantGen   *generators.Generator
	}{
		{
			name:      "type",
			input:     "matching(type,'Name')",
			wantValue: "Name",
			wantRules: ruleEntries(rules.Like()),
		},
		{
			name:      "type with spaces and number",
			input:     " matching( type , 100 ) ",
			wantValue: "100",
			wantRules: ruleEntries(rules.Like()),
		},
		{
			name:      "equal to",
			input:     "matching(equalTo, 'exact')",
			wantValue: "exact",
			wantRules: ruleEntries(rules.Equality()),
		},
		{
			name:      "number",
			input:     "matching(number,100)",
			wantValue: "100",
			wantRules: ruleEntries(rules.Number()),
		},
		{
			name:      "integer",
			input:     "matching(integer, -5)",
			wantValue: "-5",
			wantRules: ruleEntries(rules.Integer()),
		},
		{
			name:      "decimal",
			input:     "matching(decimal, 12.50)",
			wantValue: "12.50",
			wantRules: ruleEntries(rules.Decimal()),
		},
		{
			name:      "datetime adds generator",
			input:     "matching(datetime, 'yyyy-MM-dd','2000-01-01')",
			wantValue: "2000-01-01",
			wantRules: ruleEntries(rules.Timestamp(rules.TypeDateTime, "yyyy-MM-dd")),
			wantGen:   &generators.Generator{Type: generators.TypeDateTime, Values: map[string]any{"format": "yyyy-MM-dd"}},
		},
		{
			name:      "time adds generator",
			input:     "matching(time, 'HH:mm', '22:04')",
			wantValue: "22:04",
			wantRules: ruleEntries(rules.Timestamp(rules.TypeTime, "HH:mm")),
			wantGen:   &generators.Generator{Type: generators.TypeTime, Values: map[string]any{"format": "HH:mm"}},
		},
		{
			name:      "regex keeps backslashes",
			input:     `matching(regex, '\d+', '100')`,
			wantValue: "100",
			wantRules: ruleEntries(rules.Regex(`\d+`)),
		},
		{
			name:      "include",
			input:     "matching(include, 'foo')",
			wantValue: "foo",
			wantRules: ruleEntries(rules.Include("foo")),
		},
		{
			name:      "boolean",
			input:     "matching(boolean, true)",
			wantValue: "true",
			wantRules: ruleEntries(rules.Boolean()),
		},
		{
			name:      "semver",
			input:     "matching(semver, '1.2.3')",
			wantValue: "1.2.3",
			wantRules: ruleEntries(rules.Semver()),
		},
		{
			name:      "content type",
			input:     "matching(contentType, 'text/plain', 'hello')",
			wantValue: "hello",
			wantRules: ruleEntries(rules.ContentType("text/plain")),
		},
		{
			name:      "escaped quote",
			input:     `matching(type, 'it\'s')`,
			wantValue: "it's",
			wantRules: ruleEntries(rules.Like()),
		},
		{
			name:      "combined definitions",
			input:     "notEmpty('Fred'), matching(regex, '[A-Z][a-z]+', 'Fred')",
			wantValue: "Fred",
			wantRules: ruleEntries(rules.NotEmpty(), rules.Regex("[A-Z][a-z]+")),
		},
		{
			name:      "at least and at most",
			input:     "atLeast(1), atMost(3), matching(type, 'x')",
			wantValue: "x",
			wantRules: ruleEntries(rules.Min(1), rules.Max(3), rules.Like()),
		},
		{
			name:      "null value",
			input:     "matching(type, null)",
			wantValue: "",
			wantRules: ruleEntries(rules.Like()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, def.Value)
			assert.Equal(t, tt.wantRules, def.Rules)
			assert.Equal(t, tt.wantGen, def.Generator)
		})
	}
}

func TestParseReference(t *testing.T) {
	def, err := Parse("matching($'items')")
	require.NoError(t, err)
	require.Len(t, def.Rules, 1)
	assert.Equal(t, ReferenceEntry{Name: "items"}, def.Rules[0])
	assert.Equal(t, `MatchingReference { name: "items" }`, def.Rules[0].(ReferenceEntry).String())
}

func TestParseEachValue(t *testing.T) {
	def, err := Parse("eachValue(matching(regex, '\\w+', 'abc'))")
	require.NoError(t, err)
	assert.Equal(t, "abc", def.Value)
	require.Len(t, def.Rules, 1)
	rule := def.Rules[0].(RuleEntry).Rule
	assert.Equal(t, rules.TypeEachValue, rule.Type)
	assert.Equal(t, []any{map[string]any{"match": "regex", "regex": `\w+`}}, rule.Values["rules"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty", input: "", wantMsg: "expected identifier, got end of input at position 0"},
		{name: "unknown function", input: "matches(type, 'a')", wantMsg: "expected a matching definition, got 'matches' at position 0"},
		{name: "unknown rule", input: "matching(fuzzy, 'a')", wantMsg: "unknown matching rule type 'fuzzy' at position 9"},
		{name: "missing paren", input: "matching(type, 'a'", wantMsg: "expected ')', got end of input at position 18"},
		{name: "integer with decimal", input: "matching(integer, 1.5)", wantMsg: "expected an integer, got '1.5' at position 18"},
		{name: "decimal with integer", input: "matching(decimal, 15)", wantMsg: "expected a decimal number, got '15' at position 18"},
		{name: "bad boolean", input: "matching(boolean, yes)", wantMsg: "expected a boolean, got 'yes' at position 18"},
		{name: "trailing garbage", input: "matching(type, 'a') x", wantMsg: "expected end of input, got 'x' at position 20"},
		{name: "unterminated string", input: "matching(type, 'a)", wantMsg: "unterminated string starting at position 15"},
		{name: "bad character", input: "matching(type, \"a\")", wantMsg: "unexpected character '\"' at position 15"},
		{name: "bad date pattern", input: "matching(date, 'QQ', '1')", wantMsg: "unsupported date pattern 'QQ'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
