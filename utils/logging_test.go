package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Json(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("json", &buf)

	logger.Warn("quote rejected", slog.String("quote_id", "A-1-v1"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "quote rejected", line["message"])
	assert.Equal(t, "WARNING", line["severity"])
	assert.Equal(t, "A-1-v1", line["quote_id"])
	assert.NotContains(t, line, "msg")
	assert.NotContains(t, line, "level")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("text", &buf).With(slog.String("asset_id", "A-1"))

	logger.Debug("quote created", slog.Float64("discount_pct", 10))

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "quote created")
	assert.Contains(t, out, "asset_id=A-1")
	assert.Contains(t, out, "discount_pct=10")
	assert.NotContains(t, out, "msg=")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestWithSessionLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := StoreLoggerInContext(context.Background(), NewLogger("json", &buf))

	ctx = WithSessionLogger(ctx, "7f1c")
	LoggerFromContext(ctx).InfoContext(ctx, "scored 3 assets")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "7f1c", line["session_id"])
	assert.Equal(t, "INFO", line["severity"])
}
