package utils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

// LogAndReportSentryError logs an unexpected error with its stack trace and reports it
// to Sentry. Interrupted requests are only logged.
func LogAndReportSentryError(ctx context.Context, err error) {
	logger := LoggerFromContext(ctx)

	if errors.IsAny(err, context.DeadlineExceeded, context.Canceled) {
		logger.WarnContext(ctx, "request interrupted", slog.String("error", err.Error()))
		return
	}
	logger.ErrorContext(ctx, fmt.Sprintf("%+v", err))

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
