package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/getmockd/form-urlencoded-plugin/pkg/content"
	"github.com/getmockd/form-urlencoded-plugin/pkg/field"
	"github.com/getmockd/form-urlencoded-plugin/pkg/form"
	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
	"github.com/getmockd/form-urlencoded-plugin/pkg/logging"
	"github.com/getmockd/form-urlencoded-plugin/pkg/metrics"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

// CatalogueKey is the key the plugin registers its entries under.
const CatalogueKey = "form-urlencoded"

// Plugin implements the plugin calls on wire types. It is independent of
// the gRPC transport.
type Plugin struct {
	engine  *content.Engine
	metrics *metrics.Registry
	log     *slog.Logger
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithEngine sets the content engine.
func WithEngine(e *content.Engine) Option {
	return func(p *Plugin) { p.engine = e }
}

// WithMetrics records comparison results in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(p *Plugin) { p.metrics = reg }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Plugin) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a Plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{log: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.engine == nil {
		p.engine = content.NewEngine(content.WithLogger(p.log))
	}
	return p
}

// InitPlugin returns the catalogue entries of the plugin.
func (p *Plugin) InitPlugin(_ context.Context, req *InitPluginRequest) (*InitPluginResponse, error) {
	p.log.Debug("init request", "implementation", req.Implementation, "version", req.Version)

	values := map[string]string{"content-types": form.ContentType}
	return &InitPluginResponse{
		Catalogue: []CatalogueEntry{
			{Type: EntryContentMatcher, Key: CatalogueKey, Values: values},
			{Type: EntryContentGenerator, Key: CatalogueKey, Values: values},
		},
	}, nil
}

// UpdateCatalogue is not used by content plugins.
func (p *Plugin) UpdateCatalogue(_ context.Context, req *Catalogue) error {
	p.log.Debug("update catalogue request, ignoring", "entries", len(req.Catalogue))
	return nil
}

// CompareContents compares the actual body against the expected one.
func (p *Plugin) CompareContents(_ context.Context, req *CompareContentsRequest) (*CompareContentsResponse, error) {
	ruleSet, err := ruleSetFromWire(req.Rules)
	if err != nil {
		return nil, aborted(ReasonCompareFailed, prefixCompareFailed, err)
	}

	result, err := p.engine.Compare(bodyFromWire(req.Expected), bodyFromWire(req.Actual), req.AllowUnexpectedKeys, ruleSet)
	if err != nil {
		return nil, aborted(ReasonCompareFailed, prefixCompareFailed, err)
	}

	resp := &CompareContentsResponse{Results: make(map[string]ContentMismatches, len(result))}
	total := 0
	for category, mismatches := range result {
		wire := make([]ContentMismatch, 0, len(mismatches))
		for _, m := range mismatches {
			wire = append(wire, ContentMismatch{
				Expected: optionalBytes(m.Expected),
				Actual:   optionalBytes(m.Actual),
				Mismatch: m.Message,
				Path:     m.Path,
				Diff:     m.Diff,
			})
		}
		total += len(wire)
		resp.Results[category] = ContentMismatches{Mismatches: wire}
	}
	p.metrics.AddMismatches(total)
	return resp, nil
}

// ConfigureInteraction builds an interaction from field definitions.
func (p *Plugin) ConfigureInteraction(_ context.Context, req *ConfigureInteractionRequest) (*ConfigureInteractionResponse, error) {
	p.log.Debug("configure interaction request", "content_type", req.ContentType, "keys", len(req.ContentsConfig))

	result, err := p.engine.Configure(req.ContentsConfig)
	if err != nil {
		return nil, aborted(ReasonInvalidDefinition, prefixInvalidDefinition, err)
	}
	if result.Error != "" {
		return &ConfigureInteractionResponse{Error: result.Error}, nil
	}

	interaction := result.Interaction
	return &ConfigureInteractionResponse{
		Interaction: []InteractionResponse{{
			Contents:              bodyToWire(interaction.Contents),
			Rules:                 ruleSetToWire(interaction.Rules),
			Generators:            generatorSetToWire(interaction.Generators),
			InteractionMarkup:     interaction.Markup,
			InteractionMarkupType: MarkupCommonMark,
		}},
	}, nil
}

// GenerateContent produces a body from the template and generators.
func (p *Plugin) GenerateContent(_ context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error) {
	generatorSet, err := generatorSetFromWire(req.Generators)
	if err != nil {
		return nil, aborted(ReasonGenerateFailed, prefixGenerateFailed, err)
	}

	generated, err := p.engine.Generate(bodyFromWire(req.Contents), generatorSet, req.TestContext)
	if err != nil {
		return nil, aborted(ReasonGenerateFailed, prefixGenerateFailed, err)
	}
	p.log.Debug("generated contents", "bytes", len(generated.Content), "test_mode", req.TestMode, "content_for", req.ContentFor)

	return &GenerateContentResponse{Contents: bodyToWire(generated)}, nil
}

func bodyFromWire(b *Body) *content.Body {
	if b == nil || b.Content == nil {
		return nil
	}
	return &content.Body{ContentType: b.ContentType, Content: b.Content}
}

func bodyToWire(b *content.Body) *Body {
	return &Body{
		ContentType:     b.ContentType,
		Content:         b.Content,
		ContentTypeHint: HintDefault,
	}
}

func optionalBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

// ruleSetFromWire rebuilds the rules sent by the host, checking each one.
func ruleSetFromWire(wire map[string]MatchingRules) (rules.RuleSet, error) {
	set := make(rules.RuleSet, len(wire))
	for path, list := range wire {
		for _, r := range list.Rule {
			rule, err := rules.FromWire(r.Type, r.Values)
			if err != nil {
				return nil, fmt.Errorf("matching rule for '%s': %w", path, err)
			}
			set[path] = append(set[path], rule)
		}
	}
	return set, nil
}

func ruleSetToWire(set rules.RuleSet) map[string]MatchingRules {
	wire := make(map[string]MatchingRules, len(set))
	for path, list := range set {
		out := make([]MatchingRule, 0, len(list))
		for _, r := range list {
			out = append(out, MatchingRule{Type: r.Type, Values: nonNil(r.Values)})
		}
		wire[path] = MatchingRules{Rule: out}
	}
	return wire
}

// generatorSetFromWire parses the generator keys as field keys, so both
// "field:name" and " field : name " address the same field.
func generatorSetFromWire(wire map[string]Generator) (generators.GeneratorSet, error) {
	keys := make([]string, 0, len(wire))
	for key := range wire {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	set := make(generators.GeneratorSet, len(wire))
	for _, key := range keys {
		g := wire[key]
		name, err := field.Parse(key)
		if err != nil {
			return nil, err
		}
		if g.Values == nil {
			return nil, fmt.Errorf("generator for '%s': Generator values were expected", key)
		}
		gen, err := generators.FromWire(g.Type, g.Values)
		if err != nil {
			return nil, fmt.Errorf("Failed to build generator of type %s: %w", g.Type, err)
		}
		set[field.Path(name)] = gen
	}
	return set, nil
}

func generatorSetToWire(set generators.GeneratorSet) map[string]Generator {
	wire := make(map[string]Generator, len(set))
	for path, g := range set {
		wire[path] = Generator{Type: g.Type, Values: nonNil(g.Values)}
	}
	return wire
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
