package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/form-urlencoded-plugin/pkg/form"
	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

func TestConfigure(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Configure(map[string]any{
		"field:name": "matching(type,'Fred')",
		"field:age":  "matching(integer,42)",
		"field:dob":  "matching(date,'yyyy-MM-dd','2000-01-31')",
		"other":      "ignored",
	})
	require.NoError(t, err)
	require.Empty(t, result.Error)
	require.NotNil(t, result.Interaction)

	interaction := result.Interaction
	assert.Equal(t, form.ContentType, interaction.Contents.ContentType)
	assert.Equal(t, "age=42&dob=2000-01-31&name=Fred", string(interaction.Contents.Content))
	assert.Equal(t, "```\nage=42&dob=2000-01-31&name=Fred\n```\n", interaction.Markup)

	assert.Equal(t, rules.RuleSet{
		"field:name": {rules.Like()},
		"field:age":  {rules.Integer()},
		"field:dob":  {rules.Timestamp(rules.TypeDate, "yyyy-MM-dd")},
	}, interaction.Rules)

	assert.Equal(t, generators.GeneratorSet{
		"field:dob": {Type: generators.TypeDate, Values: map[string]any{"format": "yyyy-MM-dd"}},
	}, interaction.Generators)
}

func TestConfigureKeepsEveryRule(t *testing.T) {
	result, err := NewEngine().Configure(map[string]any{
		"field:code": "notEmpty('AB12'), matching(regex,'[A-Z]+\\d+','AB12')",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Interaction)

	assert.Equal(t, []rules.MatchingRule{rules.NotEmpty(), rules.Regex(`[A-Z]+\d+`)}, result.Interaction.Rules["field:code"])
	assert.Equal(t, "code=AB12", string(result.Interaction.Contents.Content))
}

func TestConfigureWithoutFields(t *testing.T) {
	result, err := NewEngine().Configure(map[string]any{"unrelated": "matching(type,'x')"})
	require.NoError(t, err)
	require.NotNil(t, result.Interaction)

	assert.Empty(t, result.Interaction.Rules)
	assert.Empty(t, result.Interaction.Generators)
	assert.Empty(t, result.Interaction.Contents.Content)
	assert.Equal(t, "```\n\n```\n", result.Interaction.Markup)
}

func TestConfigureWithoutConfig(t *testing.T) {
	_, err := NewEngine().Configure(nil)
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestConfigureReference(t *testing.T) {
	result, err := NewEngine().Configure(map[string]any{
		"field:name": "matching($'person')",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Interaction)
	assert.Equal(t, `Expected a matching rule definition, but got an un-resolved reference MatchingReference { name: "person" }`, result.Error)
}

func TestConfigureErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		wantMsg string
	}{
		{
			name:    "invalid field key",
			config:  map[string]any{"field:first_name": "matching(type,'x')"},
			wantMsg: "'field:first_name' is not a valid field definition, expected a text, got '_name'",
		},
		{
			name:    "null value",
			config:  map[string]any{"field:name": nil},
			wantMsg: "field 'field:name': Null is not a valid value definition value",
		},
		{
			name:    "number value",
			config:  map[string]any{"field:age": float64(12)},
			wantMsg: "field 'field:age': Number is not a valid value definition value",
		},
		{
			name:    "bool value",
			config:  map[string]any{"field:ok": true},
			wantMsg: "field 'field:ok': Bool is not a valid value definition value",
		},
		{
			name:    "struct value",
			config:  map[string]any{"field:obj": map[string]any{}},
			wantMsg: "field 'field:obj': Struct is not a valid value definition value",
		},
		{
			name:    "list value",
			config:  map[string]any{"field:list": []any{"a"}},
			wantMsg: "field 'field:list': List is not a valid value definition value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine().Configure(tt.config)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestConfigureInvalidExpression(t *testing.T) {
	_, err := NewEngine().Configure(map[string]any{"field:name": "matching(type,"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'field:name' with value 'matching(type,'")
}
