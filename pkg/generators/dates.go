package generators

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

var defaultFormats = map[string]string{
	TypeDate:     "yyyy-MM-dd",
	TypeTime:     "HH:mm:ss",
	TypeDateTime: "yyyy-MM-dd'T'HH:mm:ss.SSSXXX",
}

func (e *Engine) timestamp(g Generator) (string, error) {
	format, err := g.stringParam("format", defaultFormats[g.Type])
	if err != nil {
		return "", err
	}
	expression, err := g.stringParam("expression", "")
	if err != nil {
		return "", err
	}

	layout, err := rules.GoLayout(format)
	if err != nil {
		return "", err
	}
	at, err := evalDateExpression(expression, e.now())
	if err != nil {
		return "", err
	}
	return at.Format(layout), nil
}

// evalDateExpression applies expressions such as "tomorrow", "today + 2 days"
// or "now - 1 hour" to base.
func evalDateExpression(expression string, base time.Time) (time.Time, error) {
	fields := strings.Fields(strings.NewReplacer("+", " + ", "-", " - ").Replace(expression))
	if len(fields) == 0 {
		return base, nil
	}

	at := base
	switch fields[0] {
	case "now":
		fields = fields[1:]
	case "today":
		at = midnight(base)
		fields = fields[1:]
	case "tomorrow":
		at = midnight(base).AddDate(0, 0, 1)
		fields = fields[1:]
	case "yesterday":
		at = midnight(base).AddDate(0, 0, -1)
		fields = fields[1:]
	}

	for len(fields) > 0 {
		if len(fields) < 3 {
			return time.Time{}, fmt.Errorf("%w: date expression '%s' is incomplete", ErrInvalidParameter, expression)
		}
		sign := 1
		switch fields[0] {
		case "+":
		case "-":
			sign = -1
		default:
			return time.Time{}, fmt.Errorf("%w: date expression '%s': expected '+' or '-', got '%s'", ErrInvalidParameter, expression, fields[0])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: date expression '%s': '%s' is not a number", ErrInvalidParameter, expression, fields[1])
		}
		next, err := offset(at, sign*n, fields[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: date expression '%s': %v", ErrInvalidParameter, expression, err)
		}
		at = next
		fields = fields[3:]
	}
	return at, nil
}

func offset(t time.Time, n int, unit string) (time.Time, error) {
	switch strings.TrimSuffix(strings.ToLower(unit), "s") {
	case "second":
		return t.Add(time.Duration(n) * time.Second), nil
	case "minute":
		return t.Add(time.Duration(n) * time.Minute), nil
	case "hour":
		return t.Add(time.Duration(n) * time.Hour), nil
	case "day":
		return t.AddDate(0, 0, n), nil
	case "week":
		return t.AddDate(0, 0, 7*n), nil
	case "month":
		return t.AddDate(0, n, 0), nil
	case "year":
		return t.AddDate(n, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown unit '%s'", unit)
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
