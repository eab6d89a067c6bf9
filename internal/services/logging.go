package services

import (
	"context"
	"log/slog"
	"time"
)

// logOutcome logs the end of an operation. Caller mistakes (validation,
// authorization, not-found, conflict) are warnings; everything else is an error.
func logOutcome(ctx context.Context, logger *slog.Logger, operation string, start time.Time, err error, args ...any) {
	args = append(args, "operation", operation, "duration_ms", time.Since(start).Milliseconds())

	if err == nil {
		logger.DebugContext(ctx, "Operation finished", args...)
		return
	}

	args = append(args, "error", err)
	switch {
	case IsValidation(err):
		logger.WarnContext(ctx, "Operation rejected", append(args, "status", "validation_error")...)
	case IsUnauthorized(err):
		logger.WarnContext(ctx, "Operation rejected", append(args, "status", "unauthorized")...)
	case IsNotFound(err):
		logger.WarnContext(ctx, "Operation rejected", append(args, "status", "not_found")...)
	case IsConflict(err):
		logger.WarnContext(ctx, "Operation rejected", append(args, "status", "conflict")...)
	default:
		logger.ErrorContext(ctx, "Operation failed", append(args, "status", "error")...)
	}
}
