package actors

import (
	"Sanguo/internal/shared/actor/messages"
	"Sanguo/modules/kit/logx"
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type explode struct{}

func TestDispatch_处理函数panic转成内部错误(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := &PlayerActor{playerID: 3, log: logx.NewZapLogger(zap.New(core))}
	d := NewDispatcher()
	register(d, func(context.Context, *PlayerActor, explode) *messages.Response {
		panic("boom")
	})

	resp := d.Dispatch(context.Background(), p, &messages.Request{Player: 3, Body: explode{}})
	if resp == nil || resp.Result.Ok || resp.Result.Reason != ReasonInternal.Code {
		t.Fatalf("panic 应转成 INTERNAL_ERROR: %+v", resp)
	}
	if logs.FilterField(zap.String("action", "player.handler_panic")).Len() != 1 {
		t.Fatalf("应记一条系统错误日志, got=%v", logs.All())
	}
}

func TestDispatch_重复注册会panic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("重复注册应 panic")
		}
	}()
	d := NewDispatcher()
	register(d, PH.HandleGetState)
}
