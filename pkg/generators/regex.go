package generators

import (
	"fmt"
	mathrand "math/rand/v2"
	"regexp/syntax"
	"strings"
)

// maxRepeat bounds unbounded quantifiers such as * and +.
const maxRepeat = 10

// generateRegex returns a string matching pattern by walking its parse tree.
func generateRegex(pattern string, rng *mathrand.Rand) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("%w: Regex requires 'regex'", ErrInvalidParameter)
	}
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", fmt.Errorf("%w: Regex '%s': %v", ErrInvalidParameter, pattern, err)
	}

	var sb strings.Builder
	writeRegex(&sb, re.Simplify(), rng)
	return sb.String(), nil
}

func writeRegex(sb *strings.Builder, re *syntax.Regexp, rng *mathrand.Rand) {
	switch re.Op {
	case syntax.OpLiteral:
		sb.WriteString(string(re.Rune))
	case syntax.OpCharClass:
		sb.WriteRune(pickFromClass(re.Rune, rng))
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		sb.WriteByte(alphanumeric[rngIntN(rng, len(alphanumeric))])
	case syntax.OpCapture:
		writeRegex(sb, re.Sub[0], rng)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			writeRegex(sb, sub, rng)
		}
	case syntax.OpAlternate:
		writeRegex(sb, re.Sub[rngIntN(rng, len(re.Sub))], rng)
	case syntax.OpStar:
		repeat(sb, re.Sub[0], 0, maxRepeat, rng)
	case syntax.OpPlus:
		repeat(sb, re.Sub[0], 1, maxRepeat, rng)
	case syntax.OpQuest:
		repeat(sb, re.Sub[0], 0, 1, rng)
	case syntax.OpRepeat:
		hi := re.Max
		if hi < 0 {
			hi = re.Min + maxRepeat
		}
		repeat(sb, re.Sub[0], re.Min, hi, rng)
	default:
		// Anchors, word boundaries and empty matches produce no text.
	}
}

func repeat(sb *strings.Builder, re *syntax.Regexp, lo, hi int, rng *mathrand.Rand) {
	n := lo + rngIntN(rng, hi-lo+1)
	for i := 0; i < n; i++ {
		writeRegex(sb, re, rng)
	}
}

// pickFromClass chooses a rune from a class given as [lo0, hi0, lo1, hi1, ...]
// pairs, preferring printable ASCII when the class allows it.
func pickFromClass(ranges []rune, rng *mathrand.Rand) rune {
	if len(ranges) == 0 {
		return '?'
	}
	var printable []rune
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := max(ranges[i], ' '), min(ranges[i+1], '~')
		if lo <= hi {
			printable = append(printable, lo, hi)
		}
	}
	if len(printable) > 0 {
		ranges = printable
	}
	pair := rngIntN(rng, len(ranges)/2) * 2
	lo, hi := ranges[pair], ranges[pair+1]
	return lo + rune(rngIntN(rng, int(hi-lo)+1))
}
