package errutil

import (
	"context"

	"github.com/lucasew/decimate/internal/logging"
)

// LogMsg logs the error as a warning with a custom message if it is not nil.
func LogMsg(ctx context.Context, err error, msg string, args ...any) {
	if err != nil {
		allArgs := append([]any{"error", err}, args...)
		logging.FromContext(ctx).Warn(msg, allArgs...)
	}
}

// ReportError logs an unexpected error.
// It funnels errors through a centralized reporting mechanism (currently slog).
func ReportError(ctx context.Context, err error, msg string, args ...any) {
	if err != nil {
		allArgs := append([]any{"error", err}, args...)
		logging.FromContext(ctx).Error(msg, allArgs...)
	}
}
