package tileable

import (
	"context"
	"log/slog"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}
