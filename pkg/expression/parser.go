package expression

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/getmockd/form-urlencoded-plugin/pkg/generators"
	"github.com/getmockd/form-urlencoded-plugin/pkg/rules"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("invalid matching rule definition")

// Parse parses one or more comma separated matching rule definitions.
func Parse(src string) (*Definition, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", ErrSyntax, src, err)
	}

	p := &parser{src: src, tokens: tokens}
	def, err := p.parseDefinitions()
	if err != nil {
		return nil, err
	}
	return def, nil
}

type parser struct {
	src    string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return fmt.Errorf("%w '%s': %s at position %d", ErrSyntax, p.src, fmt.Sprintf(format, args...), tok.pos)
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.advance()
	if tok.kind != kind {
		return tok, p.errorf(tok, "expected %s, got %s", kind, describe(tok))
	}
	return tok, nil
}

func describe(tok token) string {
	if tok.kind == tokEOF {
		return tok.kind.String()
	}
	return fmt.Sprintf("'%s'", tok.text)
}

// definitions := definition ("," definition)* EOF
func (p *parser) parseDefinitions() (*Definition, error) {
	def, err := p.parseDefinition()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokComma {
		p.advance()
		next, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		def.merge(next)
	}
	if _, err := p.expect(tokEOF); err != nil {
		return nil, err
	}
	return def, nil
}

// definition := "matching" "(" rule ")"
//
//	| "notEmpty" "(" primitive ")"
//	| ("eachKey" | "eachValue") "(" definition ")"
//	| ("atLeast" | "atMost") "(" integer ")"
func (p *parser) parseDefinition() (*Definition, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLeftParen); err != nil {
		return nil, err
	}

	var def *Definition
	switch name.text {
	case "matching":
		def, err = p.parseMatchingRule()
	case "notEmpty":
		var value string
		value, err = p.parsePrimitive()
		def = &Definition{Value: value, Rules: []Entry{RuleEntry{Rule: rules.NotEmpty()}}}
	case "eachKey", "eachValue":
		def, err = p.parseEach(name.text)
	case "atLeast", "atMost":
		var n int
		n, err = p.parseInteger()
		rule := rules.Min(n)
		if name.text == "atMost" {
			rule = rules.Max(n)
		}
		def = &Definition{Rules: []Entry{RuleEntry{Rule: rule}}}
	default:
		return nil, p.errorf(name, "expected a matching definition, got '%s'", name.text)
	}
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokRightParen); err != nil {
		return nil, err
	}
	return def, nil
}

func (p *parser) parseEach(ruleType string) (*Definition, error) {
	inner, err := p.parseDefinition()
	if err != nil {
		return nil, err
	}
	nested := make([]any, 0, len(inner.Rules))
	for _, e := range inner.Rules {
		if re, ok := e.(RuleEntry); ok {
			bag := map[string]any{"match": re.Rule.Type}
			for k, v := range re.Rule.Values {
				bag[k] = v
			}
			nested = append(nested, bag)
		}
	}
	rule := rules.MatchingRule{Type: ruleType, Values: map[string]any{"rules": nested}}
	return &Definition{Value: inner.Value, Rules: []Entry{RuleEntry{Rule: rule}}, Generator: inner.Generator}, nil
}

// rule := "$" string
//
//	| ("type" | "equalTo") "," primitive
//	| ("number" | "integer" | "decimal") "," number
//	| ("datetime" | "date" | "time") "," string "," string
//	| "regex" "," string "," string
//	| "include" "," string
//	| "boolean" "," boolean
//	| "semver" "," string
//	| "contentType" "," string "," string
func (p *parser) parseMatchingRule() (*Definition, error) {
	if p.peek().kind == tokDollar {
		p.advance()
		ref, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		return &Definition{Rules: []Entry{ReferenceEntry{Name: ref.text}}}, nil
	}

	kind, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokComma); err != nil {
		return nil, err
	}

	single := func(rule rules.MatchingRule, value string) *Definition {
		return &Definition{Value: value, Rules: []Entry{RuleEntry{Rule: rule}}}
	}

	switch kind.text {
	case "type", "equalTo":
		value, err := p.parsePrimitive()
		if err != nil {
			return nil, err
		}
		if kind.text == "type" {
			return single(rules.Like(), value), nil
		}
		return single(rules.Equality(), value), nil

	case "number", "integer", "decimal":
		tok, err := p.expect(tokNumber)
		if err != nil {
			return nil, err
		}
		switch {
		case kind.text == "integer" && !tok.isInt:
			return nil, p.errorf(tok, "expected an integer, got '%s'", tok.text)
		case kind.text == "decimal" && tok.isInt:
			return nil, p.errorf(tok, "expected a decimal number, got '%s'", tok.text)
		}
		rule := map[string]rules.MatchingRule{
			"number":  rules.Number(),
			"integer": rules.Integer(),
			"decimal": rules.Decimal(),
		}[kind.text]
		return single(rule, tok.text), nil

	case "datetime", "date", "time":
		format, value, err := p.parseStringPair()
		if err != nil {
			return nil, err
		}
		if _, err := rules.GoLayout(format); err != nil {
			return nil, p.errorf(kind, "%v", err)
		}
		def := single(rules.Timestamp(kind.text, format), value)
		def.Generator = &generators.Generator{
			Type:   dateGenerators[kind.text],
			Values: map[string]any{"format": format},
		}
		return def, nil

	case "regex":
		pattern, value, err := p.parseStringPair()
		if err != nil {
			return nil, err
		}
		return single(rules.Regex(pattern), value), nil

	case "include":
		tok, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		return single(rules.Include(tok.text), tok.text), nil

	case "boolean":
		tok, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if tok.text != "true" && tok.text != "false" {
			return nil, p.errorf(tok, "expected a boolean, got '%s'", tok.text)
		}
		return single(rules.Boolean(), tok.text), nil

	case "semver":
		tok, err := p.expect(tokString)
		if err != nil {
			return nil, err
		}
		return single(rules.Semver(), tok.text), nil

	case "contentType":
		mimeType, value, err := p.parseStringPair()
		if err != nil {
			return nil, err
		}
		return single(rules.ContentType(mimeType), value), nil

	default:
		return nil, p.errorf(kind, "unknown matching rule type '%s'", kind.text)
	}
}

var dateGenerators = map[string]string{
	"datetime": generators.TypeDateTime,
	"date":     generators.TypeDate,
	"time":     generators.TypeTime,
}

// parseStringPair reads string "," string.
func (p *parser) parseStringPair() (string, string, error) {
	first, err := p.expect(tokString)
	if err != nil {
		return "", "", err
	}
	if _, err := p.expect(tokComma); err != nil {
		return "", "", err
	}
	second, err := p.expect(tokString)
	if err != nil {
		return "", "", err
	}
	return first.text, second.text, nil
}

// primitive := string | number | "true" | "false" | "null"
func (p *parser) parsePrimitive() (string, error) {
	tok := p.advance()
	switch tok.kind {
	case tokString, tokNumber:
		return tok.text, nil
	case tokIdent:
		switch tok.text {
		case "true", "false":
			return tok.text, nil
		case "null":
			return "", nil
		}
	}
	return "", p.errorf(tok, "expected a primitive value, got %s", describe(tok))
}

func (p *parser) parseInteger() (int, error) {
	tok, err := p.expect(tokNumber)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok.text)
	if err != nil || !tok.isInt {
		return 0, p.errorf(tok, "expected an integer, got '%s'", tok.text)
	}
	return n, nil
}
