package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestZerologAdapterWritesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: zerolog.DebugLevel, Writer: &buf})

	log.Info("Fetcher", "resource fetched", map[string]interface{}{
		"resource": "news.json",
		"bytes":    512,
		"cached":   false,
	})

	entry := decode(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Fetcher", entry["component"])
	assert.Equal(t, "resource fetched", entry["message"])
	assert.Equal(t, "news.json", entry["resource"])
	assert.Equal(t, float64(512), entry["bytes"])
	assert.Equal(t, false, entry["cached"])
}

func TestZerologAdapterStaticFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: zerolog.InfoLevel, Writer: &buf, Fields: map[string]interface{}{"version": "1.1"}})

	log.Warning("Controller", "refusing to open link", nil)

	entry := decode(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "1.1", entry["version"])
}

func TestZerologAdapterError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: zerolog.InfoLevel, Writer: &buf})

	log.Error("Catalog", errors.New("boom"), map[string]interface{}{"took": 1500 * time.Millisecond})

	entry := decode(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, float64(1500), entry["took"])
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: zerolog.WarnLevel, Writer: &buf})

	log.Debug("X", "hidden", map[string]interface{}{"n": 1})
	log.Info("X", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Warning("X", "shown", nil)
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}
