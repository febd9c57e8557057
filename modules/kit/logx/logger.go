package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是跨包复用的最小日志接口：结构化字段 + ctx 透传。
//
// DPanic 用于“程序不变量被破坏”的场景：开发模式下 panic，生产模式只记 ERROR。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	DPanic(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}
