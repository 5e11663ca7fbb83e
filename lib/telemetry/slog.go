package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler used by every command.
// verbose drops the level to debug, which also turns on per-request
// logging in the resty hooks.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
