package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the narrow logging surface handed to components so they can be
// tested with a fake or an observer core.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}
