package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Body
	}{
		{
			name:  "empty body",
			input: "",
			want:  Body{},
		},
		{
			name:  "single pair",
			input: "a=1",
			want:  Body{{Name: "a", Value: "1"}},
		},
		{
			name:  "duplicates keep order",
			input: "b=2&a=1&b=3",
			want:  Body{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}, {Name: "b", Value: "3"}},
		},
		{
			name:  "split on first equals only",
			input: "expr=a=b",
			want:  Body{{Name: "expr", Value: "a=b"}},
		},
		{
			name:  "percent and plus decoding",
			input: "full+name=Mary%20Jones&city=S%C3%A3o+Paulo",
			want:  Body{{Name: "full name", Value: "Mary Jones"}, {Name: "city", Value: "São Paulo"}},
		},
		{
			name:  "empty segments skipped",
			input: "a=1&&b=2&",
			want:  Body{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}},
		},
		{
			name:  "segment without equals",
			input: "flag&a=1",
			want:  Body{{Name: "flag", Value: ""}, {Name: "a", Value: "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	_, err := Decode([]byte{'a', '=', 0xff, 0xfe})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeInvalidEscape(t *testing.T) {
	_, err := Decode([]byte("a=%zz"))
	assert.ErrorIs(t, err, ErrInvalidEscape)
}

func TestEncode(t *testing.T) {
	body := Body{{Name: "name", Value: "Mary Jones"}, {Name: "tag", Value: "a&b"}, {Name: "tag", Value: "c=d"}}
	assert.Equal(t, "name=Mary+Jones&tag=a%26b&tag=c%3Dd", string(body.Encode()))
	assert.Equal(t, "", Body{}.String())
}

func TestRoundTrip(t *testing.T) {
	bodies := []Body{
		{},
		{{Name: "a", Value: "1"}},
		{{Name: "z", Value: ""}, {Name: "a", Value: "x y"}, {Name: "z", Value: "100%"}},
		{{Name: "unicode", Value: "日本語"}, {Name: "sym", Value: "&=+?#"}},
	}
	for _, body := range bodies {
		got, err := Decode(body.Encode())
		require.NoError(t, err)
		if diff := cmp.Diff(body, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestReencodeIsByteIdentical(t *testing.T) {
	input := "a=1&b=two&a=3"
	body, err := Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, input, body.String())
}

func TestFieldsLastWins(t *testing.T) {
	body := Body{{Name: "b", Value: "1"}, {Name: "a", Value: "2"}, {Name: "b", Value: "3"}}
	names, values := body.Fields()
	assert.Equal(t, []string{"b", "a"}, names)
	assert.Equal(t, map[string]string{"a": "2", "b": "3"}, values)
}
