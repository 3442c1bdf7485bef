package field

import (
	"errors"
	"fmt"
	"strings"
)

// Prefix is the literal prefix that marks a configuration key as a field
// definition. Keys without it are not field definitions.
const Prefix = "field:"

// ErrInvalidKey is wrapped by every error returned from Parse.
var ErrInvalidKey = errors.New("not a valid field definition")

// Path returns the rule/generator path for a field name (field:<name>).
func Path(name string) string {
	return Prefix + name
}

// IsFieldKey reports whether key carries the field definition prefix.
func IsFieldKey(key string) bool {
	return strings.HasPrefix(key, Prefix)
}

// Parse decodes a field key into the bare field name.
// Grammar: "field" ":" [A-Za-z]+
func Parse(key string) (string, error) {
	lex := newLexer(key)

	if tok := lex.next(); tok != tokenField {
		return "", invalid(key, "'field'", lex.remainder())
	}
	if tok := lex.next(); tok != tokenColon {
		return "", invalid(key, "':'", lex.remainder())
	}
	// "field" is a valid name as well as the keyword.
	if tok := lex.next(); tok != tokenText && tok != tokenField {
		return "", invalid(key, "a text", lex.remainder())
	}
	name := lex.slice()

	// Trailing input means the name itself was not letters only.
	if tok := lex.next(); tok != tokenEOF {
		return "", invalid(key, "a text", lex.trailing())
	}
	return name, nil
}

func invalid(key, expected, got string) error {
	return fmt.Errorf("'%s' is %w, expected %s, got '%s'", key, ErrInvalidKey, expected, got)
}
