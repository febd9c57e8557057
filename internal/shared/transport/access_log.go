package transport

import (
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	"time"

	"go.uber.org/zap"
)

// SlowThreshold 超过该耗时的请求在访问日志里标 slow=true
var SlowThreshold = 500 * time.Millisecond

// AccessLog 请求级日志上下文，HTTP 与 websocket 共用
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 保留父 ctx 的取消信号和已有 trace_id，没有时新生成
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		if traceID := tracex.NewTraceID(); traceID != "" {
			ctx = tracex.WithTraceID(ctx, traceID)
		}
	}
	ctx = tracex.WithSpanID(ctx, "player")

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

// SetErrorReason 记录拒绝原因码，只在失败时输出
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	latency := time.Since(al.startTime)
	fields := []zap.Field{
		zap.Duration("latency", latency),
		zap.String("biz", al.BizCode.Name()),
	}
	if latency >= SlowThreshold {
		fields = append(fields, zap.Bool("slow", true))
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
