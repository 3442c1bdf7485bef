package field

type token int

const (
	tokenEOF token = iota
	tokenField
	tokenColon
	tokenText
	tokenError
)

// lexer splits a field key into tokens. "field" is only a keyword when it is
// followed by something other than a letter, otherwise it lexes as text.
type lexer struct {
	src   string
	start int
	pos   int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) next() token {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	l.start = l.pos
	if l.pos >= len(l.src) {
		return tokenEOF
	}

	c := l.src[l.pos]
	switch {
	case c == ':':
		l.pos++
		return tokenColon
	case isLetter(c):
		for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
			l.pos++
		}
		if l.slice() == "field" {
			return tokenField
		}
		return tokenText
	default:
		l.pos++
		return tokenError
	}
}

// slice returns the text of the last token.
func (l *lexer) slice() string {
	return l.src[l.start:l.pos]
}

// remainder returns the input that follows the last token.
func (l *lexer) remainder() string {
	return l.src[l.pos:]
}

// trailing returns the input from the start of the last token.
func (l *lexer) trailing() string {
	return l.src[l.start:]
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f'
}
