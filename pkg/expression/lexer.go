package expression

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLeftParen
	tokRightParen
	tokComma
	tokDollar
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokLeftParen:
		return "'('"
	case tokRightParen:
		return "')'"
	case tokComma:
		return "','"
	case tokDollar:
		return "'$'"
	default:
		return "unknown"
	}
}

type token struct {
	kind  tokenKind
	text  string
	pos   int
	isInt bool
}

// tokenize splits a whole expression into tokens, ending with tokEOF.
func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLeftParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRightParen, text: ")", pos: i})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++
		case c == '$':
			tokens = append(tokens, token{kind: tokDollar, text: "$", pos: i})
			i++
		case c == '\'':
			text, next, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: text, pos: i})
			i = next
		case c == '-' || isDigit(c):
			start := i
			if c == '-' {
				i++
			}
			digits := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i == digits {
				return nil, fmt.Errorf("expected a digit at position %d", i)
			}
			isInt := true
			if i < len(src) && src[i] == '.' {
				isInt = false
				i++
				frac := i
				for i < len(src) && isDigit(src[i]) {
					i++
				}
				if i == frac {
					return nil, fmt.Errorf("expected a digit at position %d", i)
				}
			}
			tokens = append(tokens, token{kind: tokNumber, text: src[start:i], pos: start, isInt: isInt})
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			r, _ := utf8.DecodeRuneInString(src[i:])
			return nil, fmt.Errorf("unexpected character '%c' at position %d", r, i)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(src)}), nil
}

// lexString reads a single quoted string starting at src[start].
func lexString(src string, start int) (string, int, error) {
	var sb strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch c {
		case '\'':
			return sb.String(), i + 1, nil
		case '\\':
			if i+1 >= len(src) {
				return "", 0, fmt.Errorf("unterminated escape at position %d", i)
			}
			switch esc := src[i+1]; esc {
			case '\'', '\\', '$':
				sb.WriteByte(esc)
				i += 2
			case 'n':
				sb.WriteByte('\n')
				i += 2
			case 'r':
				sb.WriteByte('\r')
				i += 2
			case 't':
				sb.WriteByte('\t')
				i += 2
			case 'u':
				if i+6 > len(src) {
					return "", 0, fmt.Errorf("invalid unicode escape at position %d", i)
				}
				code, err := strconv.ParseUint(src[i+2:i+6], 16, 32)
				if err != nil {
					return "", 0, fmt.Errorf("invalid unicode escape at position %d", i)
				}
				sb.WriteRune(rune(code))
				i += 6
			default:
				// Unknown escapes are kept, so '\d+' stays a regex.
				sb.WriteByte('\\')
				sb.WriteByte(esc)
				i += 2
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("unterminated string starting at position %d", start)
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
