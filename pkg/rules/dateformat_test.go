package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoLayout(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "yyyy-MM-dd", want: "2006-01-02"},
		{pattern: "yyyy-MM-dd'T'HH:mm:ss", want: "2006-01-02T15:04:05"},
		{pattern: "HH:mm:ss.SSS", want: "15:04:05.000"},
		{pattern: "EEE, dd MMM yyyy HH:mm:ss Z", want: "Mon, 02 Jan 2006 15:04:05 -0700"},
		{pattern: "yyyy-MM-dd'T'HH:mm:ssXXX", want: "2006-01-02T15:04:05Z07:00"},
		{pattern: "h:mm a", want: "3:04 PM"},
		{pattern: "dd/MM/yy", want: "02/01/06"},
		{pattern: "'at' HH 'o''clock'", want: "at 15 o'clock"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := GoLayout(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGoLayoutUnsupported(t *testing.T) {
	_, err := GoLayout("yyyy-QQ")
	assert.ErrorIs(t, err, ErrUnsupportedPattern)

	_, err = GoLayout("'open")
	assert.ErrorIs(t, err, ErrUnsupportedPattern)
}
