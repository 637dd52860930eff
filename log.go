package imbridge

import (
	"log/slog"
	"os"
)

// logLevel controls the log level for bridge logging.
// Default is LevelInfo, which suppresses per-frame Debug messages.
var logLevel = new(slog.LevelVar)

// SetVerbose enables or disables verbose/debug logging for the bridge.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
}

// verbose returns true if debug logging is enabled.
func verbose() bool {
	return logLevel.Level() <= slog.LevelDebug
}

// defaultLogger is shared by every subsystem and replayer that was not given
// its own logger.
var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

// Logger returns the package logger.
func Logger() *slog.Logger { return defaultLogger }

// Verbose reports whether debug logging is enabled, for libraries that
// log through Logger.
func Verbose() bool { return verbose() }
