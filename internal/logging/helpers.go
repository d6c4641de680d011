package logging

import "log/slog"

// The nil-tolerant helpers below let callers hold an optional logger
// without guarding every call site. A nil logger drops the record.

// Info emits an info record through logger, if one is set.
func Info(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn emits a warning record through logger, if one is set.
func Warn(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error emits an error record through logger, if one is set. A non-nil
// err is attached under the "error" key.
func Error(logger *slog.Logger, msg string, err error, args ...any) {
	if logger == nil {
		return
	}
	if err != nil {
		args = append(args, "error", err)
	}
	logger.Error(msg, args...)
}
