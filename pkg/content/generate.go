package content

import (
	"fmt"

	"github.com/getmockd/form-urlencoded-plugin/pkg/field"
	"github.com/getmockd/form-urlencoded-plugin/pkg/form"
	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
)

// Generate substitutes generated values into the template body. Field order
// and duplicates are kept; fields without a generator pass through unchanged.
// The context is handed to every generator as-is and may be nil.
func (e *Engine) Generate(template *Body, generatorSet generators.GeneratorSet, context map[string]any) (*Body, error) {
	if template == nil || template.Content == nil {
		return nil, ErrNoContents
	}

	body, err := form.Decode(template.Content)
	if err != nil {
		return nil, err
	}
	if context == nil {
		context = map[string]any{}
	}

	generated := make(form.Body, len(body))
	for i, pair := range body {
		generated[i] = pair
		g, ok := generatorSet[field.Path(pair.Name)]
		if !ok {
			continue
		}
		value, err := e.generator.Generate(g, pair.Value, context)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", pair.Name, err)
		}
		generated[i].Value = value
	}

	e.log.Debug("generated form body", "fields", len(generated), "generators", len(generatorSet))
	return NewBody(generated.Encode()), nil
}
