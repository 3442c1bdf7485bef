package form

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ContentType is the MIME type handled by this package.
const ContentType = "application/x-www-form-urlencoded"

var (
	// ErrInvalidEncoding is returned when a body is not valid UTF-8.
	ErrInvalidEncoding = errors.New("form body is not valid UTF-8")

	// ErrInvalidEscape is returned when a name or value holds a malformed percent escape.
	ErrInvalidEscape = errors.New("form body has an invalid escape sequence")
)

// Pair is a single name=value entry of a form body.
type Pair struct {
	Name  string
	Value string
}

// Body is an ordered list of pairs. Names may repeat.
type Body []Pair

// Decode parses a raw form body. Empty segments (as in "a=1&&b=2" or a
// trailing "&") are skipped, a segment without "=" decodes to an empty value.
func Decode(data []byte) (Body, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	body := Body{}
	for i, segment := range strings.Split(string(data), "&") {
		if segment == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(segment, "=")

		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d name %q: %v", ErrInvalidEscape, i, rawName, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("%w: pair %d value %q: %v", ErrInvalidEscape, i, rawValue, err)
		}
		body = append(body, Pair{Name: name, Value: value})
	}
	return body, nil
}

// Encode serializes the pairs in order.
func (b Body) Encode() []byte {
	var sb strings.Builder
	for i, p := range b {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return []byte(sb.String())
}

// String returns the encoded form of the body.
func (b Body) String() string {
	return string(b.Encode())
}

// Fields collapses the body to one value per name, the last occurrence
// winning. Names are returned in order of first appearance.
func (b Body) Fields() ([]string, map[string]string) {
	names := make([]string, 0, len(b))
	values := make(map[string]string, len(b))
	for _, p := range b {
		if _, seen := values[p.Name]; !seen {
			names = append(names, p.Name)
		}
		values[p.Name] = p.Value
	}
	return names, values
}
