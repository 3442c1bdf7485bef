package generators

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// providerState resolves an expression against the test context. A bare
// expression is a key lookup, otherwise every ${key} is substituted. Keys
// may be JSONPath style paths into nested values, e.g. ${user.id}.
func providerState(g Generator, seed string, context map[string]any) (string, error) {
	expression, err := g.stringParam("expression", "")
	if err != nil {
		return "", err
	}
	if expression == "" {
		return seed, nil
	}

	if !placeholderPattern.MatchString(expression) {
		v, ok := lookupContext(context, expression)
		if !ok {
			return "", fmt.Errorf("%w: '%s'", ErrMissingContext, expression)
		}
		return formatContextValue(v), nil
	}

	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(expression, func(m string) string {
		key := placeholderPattern.FindStringSubmatch(m)[1]
		v, ok := lookupContext(context, key)
		if !ok {
			if missing == "" {
				missing = key
			}
			return m
		}
		return formatContextValue(v)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: '%s' in expression '%s'", ErrMissingContext, missing, expression)
	}
	return out, nil
}

// lookupContext finds key directly, then as a path below the context root.
func lookupContext(context map[string]any, key string) (any, bool) {
	if v, ok := context[key]; ok {
		return v, true
	}
	if !strings.ContainsAny(key, ".[") {
		return nil, false
	}

	path := key
	if !strings.HasPrefix(path, "$") {
		path = "$." + path
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, false
	}
	if results := expr.Get(context); len(results) > 0 {
		return results[0], true
	}
	return nil, false
}

func formatContextValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
