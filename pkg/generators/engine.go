package generators

import (
	"fmt"
	mathrand "math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	hexDigits    = "0123456789abcdef"
)

// Evaluator generates a value for one field. seed is the value currently in
// the body and context carries host supplied test data.
type Evaluator interface {
	Generate(g Generator, seed string, context map[string]any) (string, error)
}

// Engine is the built-in Evaluator.
type Engine struct {
	rng *mathrand.Rand
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source. Useful for reproducible output.
func WithRand(rng *mathrand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock sets the time source used by date and time generators.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate implements Evaluator.
func (e *Engine) Generate(g Generator, seed string, context map[string]any) (string, error) {
	switch g.Type {
	case TypeRandomInt:
		return e.randomInt(g)
	case TypeRandomDecimal:
		return e.randomDecimal(g)
	case TypeRandomHexadecimal:
		digits, err := g.intParam("digits", 10)
		if err != nil {
			return "", err
		}
		return e.randomFrom(hexDigits, digits), nil
	case TypeRandomString:
		size, err := g.intParam("size", 10)
		if err != nil {
			return "", err
		}
		return e.randomFrom(alphanumeric, size), nil
	case TypeRandomBoolean:
		return strconv.FormatBool(rngIntN(e.rng, 2) == 1), nil
	case TypeUUID:
		return e.uuid(g)
	case TypeRegex:
		pattern, err := g.stringParam("regex", "")
		if err != nil {
			return "", err
		}
		return generateRegex(pattern, e.rng)
	case TypeDate, TypeTime, TypeDateTime:
		return e.timestamp(g)
	case TypeProviderState:
		return providerState(g, seed, context)
	default:
		return "", fmt.Errorf("%w '%s'", ErrUnsupported, g.Type)
	}
}

func (e *Engine) randomInt(g Generator) (string, error) {
	lo, err := g.intParam("min", 0)
	if err != nil {
		return "", err
	}
	hi, err := g.intParam("max", 10)
	if err != nil {
		return "", err
	}
	if lo > hi {
		return "", fmt.Errorf("%w: RandomInt min %d is greater than max %d", ErrInvalidParameter, lo, hi)
	}
	return strconv.Itoa(lo + rngIntN(e.rng, hi-lo+1)), nil
}

// randomDecimal produces a number with the requested count of digits and a
// decimal point somewhere inside it. The leading digit is never zero.
func (e *Engine) randomDecimal(g Generator) (string, error) {
	digits, err := g.intParam("digits", 6)
	if err != nil {
		return "", err
	}
	if digits < 2 {
		return "", fmt.Errorf("%w: RandomDecimal needs at least 2 digits, got %d", ErrInvalidParameter, digits)
	}

	var sb strings.Builder
	point := 1 + rngIntN(e.rng, digits-1)
	for i := 0; i < digits; i++ {
		if i == point {
			sb.WriteByte('.')
		}
		if i == 0 {
			sb.WriteByte("123456789"[rngIntN(e.rng, 9)])
			continue
		}
		sb.WriteByte("0123456789"[rngIntN(e.rng, 10)])
	}
	return sb.String(), nil
}

func (e *Engine) randomFrom(alphabet string, n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rngIntN(e.rng, len(alphabet))]
	}
	return string(b)
}

func (e *Engine) uuid(g Generator) (string, error) {
	format, err := g.stringParam("format", "lower-case-hyphenated")
	if err != nil {
		return "", err
	}
	id := rngUUID(e.rng)
	switch format {
	case "simple":
		return strings.ReplaceAll(id.String(), "-", ""), nil
	case "lower-case-hyphenated":
		return id.String(), nil
	case "upper-case-hyphenated":
		return strings.ToUpper(id.String()), nil
	case "URN":
		return id.URN(), nil
	default:
		return "", fmt.Errorf("%w: Uuid format '%s'", ErrInvalidParameter, format)
	}
}
