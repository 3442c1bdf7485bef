package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getmockd/form-urlencoded-plugin/pkg/expression"
	"github.com/getmockd/form-urlencoded-plugin/pkg/field"
	"github.com/getmockd/form-urlencoded-plugin/pkg/form"
	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

// Interaction is the configured part of an interaction.
type Interaction struct {
	Contents   *Body
	Rules      rules.RuleSet
	Generators generators.GeneratorSet
	Markup     string
}

// ConfigureResult holds either an interaction or a protocol level error
// message. An error message is not a failed call: the host reports it to the
// test author as-is.
type ConfigureResult struct {
	Interaction *Interaction
	Error       string
}

// fieldDefinition is one parsed field:<name> entry.
type fieldDefinition struct {
	name string
	def  *expression.Definition
}

// Configure builds an interaction from field definitions. config maps
// configuration keys to expression values as decoded from the host, a nil
// config means none was supplied. Keys without the field: prefix are ignored.
func (e *Engine) Configure(config map[string]any) (*ConfigureResult, error) {
	if config == nil {
		return nil, ErrNoConfig
	}

	keys := make([]string, 0, len(config))
	for key := range config {
		if field.IsFieldKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	fields := make([]fieldDefinition, 0, len(keys))
	for _, key := range keys {
		name, err := field.Parse(key)
		if err != nil {
			return nil, err
		}
		def, err := parseValue(key, config[key])
		if err != nil {
			return nil, err
		}
		e.log.Debug("parsed field definition", "field", name, "value", def.Value, "rules", len(def.Rules))
		fields = append(fields, fieldDefinition{name: name, def: def})
	}

	body := make(form.Body, 0, len(fields))
	ruleSet := rules.RuleSet{}
	generatorSet := generators.GeneratorSet{}

	for _, f := range fields {
		body = append(body, form.Pair{Name: f.name, Value: f.def.Value})
		path := field.Path(f.name)

		var list []rules.MatchingRule
		for _, entry := range f.def.Rules {
			switch entry := entry.(type) {
			case expression.RuleEntry:
				list = append(list, entry.Rule)
			case expression.ReferenceEntry:
				return &ConfigureResult{
					Error: fmt.Sprintf("Expected a matching rule definition, but got an un-resolved reference %s", entry),
				}, nil
			}
		}
		if len(list) > 0 {
			ruleSet[path] = list
		}
		if f.def.Generator != nil {
			generatorSet[path] = *f.def.Generator
		}
	}

	e.log.Debug("configured form interaction", "fields", len(fields), "rules", len(ruleSet), "generators", len(generatorSet))

	encoded := body.Encode()
	return &ConfigureResult{
		Interaction: &Interaction{
			Contents:   NewBody(encoded),
			Rules:      ruleSet,
			Generators: generatorSet,
			Markup:     markup(encoded),
		},
	}, nil
}

// markup renders the example body as a fenced block.
func markup(encoded []byte) string {
	var sb strings.Builder
	sb.WriteString("```\n")
	sb.Write(encoded)
	sb.WriteString("\n```\n")
	return sb.String()
}

// parseValue parses a configuration value. Only strings hold expressions.
func parseValue(key string, value any) (*expression.Definition, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case nil:
		return nil, fmt.Errorf("field '%s': Null is not a valid value definition value", key)
	case float64, int, int64:
		return nil, fmt.Errorf("field '%s': Number is not a valid value definition value", key)
	case bool:
		return nil, fmt.Errorf("field '%s': Bool is not a valid value definition value", key)
	case map[string]any:
		return nil, fmt.Errorf("field '%s': Struct is not a valid value definition value", key)
	case []any:
		return nil, fmt.Errorf("field '%s': List is not a valid value definition value", key)
	default:
		return nil, fmt.Errorf("field '%s': %T is not a valid value definition value", key, value)
	}

	def, err := expression.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("field '%s' with value '%s': %w", key, s, err)
	}
	return def, nil
}
