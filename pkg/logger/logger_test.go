package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestFieldsAreTyped(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)

	l.Info("fetched",
		String("scheme", "120503"),
		Int("points", 42),
		Duration("latency_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	m := decode(t, &buf)
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, "fetched", m["message"])
	assert.Equal(t, "120503", m["scheme"])
	assert.Equal(t, float64(42), m["points"])
	assert.Equal(t, float64(1500), m["latency_ms"])
	assert.Equal(t, "boom", m["error"])
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With(String("component", "scheduler"))

	l.Warn("lock busy")

	m := decode(t, &buf)
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, "scheduler", m["component"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("ignored", Error(nil))
	})
}
