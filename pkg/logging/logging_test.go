package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"trace", LevelDebug},
		{"info", LevelInfo},
		{"Warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"fatal", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var out bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &out})

	logger.Info("hidden")
	logger.Warn("shown", "field", "name")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "msg=shown")
	assert.Contains(t, out.String(), "field=name")
}

func TestNewTee(t *testing.T) {
	var out, tee bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &out, Tee: &tee})

	logger.With("component", "plugin").Debug("configured", "fields", 2)

	for _, buf := range []*bytes.Buffer{&out, &tee} {
		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "configured", record["msg"])
		assert.Equal(t, "plugin", record["component"])
		assert.Equal(t, float64(2), record["fields"])
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	require.NotNil(t, logger)
	logger.Error("discarded")
}
