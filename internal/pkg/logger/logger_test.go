package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureEmitsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	lgr := Configure(Config{Level: InfoLevel, Output: &buf})

	lgr.Info().Str("rollNo", "21CSE045").Msg("Student provisioned")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "21CSE045", entry["rollNo"])
	assert.Equal(t, "Student provisioned", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: ErrorLevel, Output: &buf})

	Info().Msg("suppressed")
	assert.Zero(t, buf.Len())

	Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestPackageHelpersWriteThroughConfiguredRoot(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: InfoLevel, Output: &buf})

	Warn().Msg("heads up")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
}
