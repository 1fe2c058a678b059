package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", FormatJSON)
	require.NoError(t, err)

	log.Info().Msg("dropped")
	log.Warn().Str("remote", "127.0.0.1:1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "127.0.0.1:1", entry["remote"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "", FormatConsole)
	require.NoError(t, err)

	log.Info().Msg("listening")
	assert.Contains(t, buf.String(), "listening")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", FormatJSON)
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
