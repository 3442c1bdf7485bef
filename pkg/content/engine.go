package content

import (
	"errors"
	"log/slog"

	"github.com/getmockd/form-urlencoded-plugin/pkg/form"
	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
	"github.com/getmockd/form-urlencoded-plugin/pkg/logging"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

var (
	// ErrNoConfig is returned by Configure when no configuration was supplied.
	ErrNoConfig = errors.New("no configuration provided to match/generate form urlencoded content")

	// ErrNoContents is returned by Generate when there is no template body.
	ErrNoContents = errors.New("no contents provided to generate form urlencoded content from")
)

// Body is a raw body as exchanged with the host.
type Body struct {
	ContentType string
	Content     []byte
}

// NewBody wraps encoded form data.
func NewBody(content []byte) *Body {
	return &Body{ContentType: form.ContentType, Content: content}
}

// Engine runs the content operations. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	matcher   rules.Evaluator
	generator generators.Evaluator
	log       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcher replaces the rule evaluator.
func WithMatcher(m rules.Evaluator) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithGenerator replaces the value generator.
func WithGenerator(g generators.Evaluator) Option {
	return func(e *Engine) { e.generator = g }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates an Engine using the built-in evaluators unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		matcher:   rules.Default(),
		generator: generators.New(),
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
