package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// NewLogger builds the process logger. "json" targets GCP log ingestion, anything
// else prints human readable lines for a terminal.
func NewLogger(format string, w io.Writer) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			ReplaceAttr: cloudLoggingAttr,
		}))
	}
	return slog.New(newConsoleHandler(w, slog.LevelDebug))
}

// cloudLoggingAttr renames the message and level keys to the ones GCP log ingestion
// reads as the main message and the severity.
func cloudLoggingAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.MessageKey:
		a.Key = "message"
	case slog.LevelKey:
		a.Key = "severity"
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(severity(level))
		}
	}
	return a
}

func severity(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

var levelColors = map[slog.Level]uint8{
	slog.LevelDebug: 35,
	slog.LevelInfo:  34,
	slog.LevelWarn:  33,
	slog.LevelError: 31,
}

// consoleHandler writes "time LEVEL message" and then the record attributes in text
// form. Clones made by WithAttrs and WithGroup share the writer lock.
type consoleHandler struct {
	attrs slog.Handler
	mu    *sync.Mutex
	w     io.Writer
}

func newConsoleHandler(w io.Writer, level slog.Level) *consoleHandler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
				return slog.Attr{}
			}
			return a
		},
	}
	return &consoleHandler{attrs: slog.NewTextHandler(w, opts), mu: &sync.Mutex{}, w: w}
}

func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.attrs.Enabled(ctx, level)
}

func (h *consoleHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Time.Format(time.RFC3339))
	buf.WriteString(" ")
	color, ok := levelColors[r.Level]
	if !ok {
		color = levelColors[slog.LevelError]
	}
	fmt.Fprintf(&buf, "\x1b[%dm%s\x1b[0m ", color, r.Level.String())
	buf.WriteString(r.Message)
	buf.WriteString(" ")

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.w.Write(buf.Bytes()); err != nil {
		return err
	}
	return h.attrs.Handle(ctx, r)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{attrs: h.attrs.WithAttrs(attrs), mu: h.mu, w: h.w}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{attrs: h.attrs.WithGroup(name), mu: h.mu, w: h.w}
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, found := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !found {
		return slog.Default()
	}
	return logger
}

func StoreLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

// WithSessionLogger scopes the context logger to one renewal session.
func WithSessionLogger(ctx context.Context, sessionId string) context.Context {
	return StoreLoggerInContext(ctx, LoggerFromContext(ctx).With(slog.String("session_id", sessionId)))
}

func StoreLoggerInContextMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxWithLogger := StoreLoggerInContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctxWithLogger)
		c.Next()
	}
}
