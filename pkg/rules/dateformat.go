package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedPattern is returned for date pattern letters with no Go layout equivalent.
var ErrUnsupportedPattern = errors.New("unsupported date pattern")

// javaLayouts maps Java DateTimeFormatter letter runs to Go reference layouts.
var javaLayouts = map[string]string{
	"yyyy": "2006", "uuuu": "2006", "yy": "06", "uu": "06", "y": "2006", "u": "2006",
	"MMMM": "January", "MMM": "Jan", "MM": "01", "M": "1",
	"LLLL": "January", "LLL": "Jan", "LL": "01", "L": "1",
	"dd": "02", "d": "2",
	"DDD": "002",
	"EEEE": "Monday", "EEE": "Mon", "EE": "Mon", "E": "Mon",
	"HH": "15",
	"hh": "03", "h": "3",
	"mm": "04", "m": "4",
	"ss": "05", "s": "5",
	"a":   "PM",
	"XXX": "Z07:00", "XX": "Z0700", "X": "Z07",
	"xxx": "-07:00", "xx": "-0700", "x": "-07",
	"Z": "-0700", "ZZ": "-0700", "ZZZ": "-0700",
	"z": "MST", "zz": "MST", "zzz": "MST",
}

// GoLayout translates a Java style date pattern such as "yyyy-MM-dd'T'HH:mm:ss"
// into a Go time layout. Quoted text is copied literally, '' is a quote.
func GoLayout(pattern string) (string, error) {
	var sb strings.Builder
	runes := []rune(pattern)

	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c == '\'':
			if i+1 < len(runes) && runes[i+1] == '\'' {
				sb.WriteRune('\'')
				i += 2
				continue
			}
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '\'' {
					if i+1 < len(runes) && runes[i+1] == '\'' {
						sb.WriteRune('\'')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				sb.WriteRune(runes[i])
				i++
			}
			if !closed {
				return "", fmt.Errorf("%w '%s': unterminated quote", ErrUnsupportedPattern, pattern)
			}

		case isPatternLetter(c):
			j := i
			for j < len(runes) && runes[j] == c {
				j++
			}
			run := string(runes[i:j])
			if c == 'S' || c == 'n' {
				// Fraction of second. Go only accepts it after a separator.
				sb.WriteString(strings.Repeat("0", j-i))
				i = j
				continue
			}
			layout, ok := javaLayouts[run]
			if !ok {
				return "", fmt.Errorf("%w '%s': letters '%s'", ErrUnsupportedPattern, pattern, run)
			}
			sb.WriteString(layout)
			i = j

		default:
			sb.WriteRune(c)
			i++
		}
	}
	return sb.String(), nil
}

func isPatternLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
