package transport

import (
	"Automancy/modules/kit/logx"
	"Automancy/modules/kit/tracex"
	"context"
	"time"

	"go.uber.org/zap"
)

// AccessLog is the per-request log context shared by the HTTP and WS surfaces.
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContextWithParent attaches a trace id, the origin surface and a fresh
// AccessLog to parent, keeping its cancellation.
func NewContextWithParent(parent context.Context, origin, action string) context.Context {
	ctx := tracex.Ensure(parent)
	if origin != "" {
		ctx = tracex.WithOrigin(ctx, origin)
	}
	if action == "" {
		action = "unknown"
	}
	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog logs at info for OK, warn for rejections and error for
// system failures.
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", al.action),
		zap.Int("biz_code", int(al.BizCode)),
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.ErrorReason != "" {
		fields = append(fields, zap.String("error_reason", al.ErrorReason))
	}
	l := log.WithContext(ctx)
	switch code := int(al.BizCode); {
	case code == OK:
		l.Info("access", fields...)
	case code >= SystemError:
		l.Error("access", fields...)
	default:
		l.Warn("access", fields...)
	}
}
