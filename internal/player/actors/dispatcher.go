package actors

import (
	"Sanguo/internal/shared/actor/messages"
	"Sanguo/modules/kit/errx"
	"Sanguo/modules/kit/logx"
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

// Handler 类型擦除后的命令处理函数
type Handler func(ctx context.Context, p *PlayerActor, body any) *messages.Response

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, PH.HandleGetState)
	register(d, PH.HandleGetGeneral)

	register(d, PH.HandleAddResource)
	register(d, PH.HandleConsumeResources)

	register(d, PH.HandleRecruit)
	register(d, PH.HandleTrain)
	register(d, PH.HandleLose)

	register(d, PH.HandleCreateTerritory)
	register(d, PH.HandleBuild)
	register(d, PH.HandleUpgrade)
	register(d, PH.HandleUpgradeCore)
	register(d, PH.HandleDemolish)
	register(d, PH.HandleExtend)

	register(d, PH.HandleObtainGeneral)
	register(d, PH.HandleAddExperience)
	register(d, PH.HandleStarUp)
	register(d, PH.HandleDismiss)
}

// register 按请求体的具体类型注册，同一类型重复注册会 panic
func register[Req any](
	d *Dispatcher,
	fn func(ctx context.Context, p *PlayerActor, req Req) *messages.Response,
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if _, dup := d.handlers[reqType]; dup {
		panic("dispatcher: duplicate handler for " + reqType.String())
	}
	d.handlers[reqType] = func(ctx context.Context, p *PlayerActor, body any) *messages.Response {
		return fn(ctx, p, body.(Req))
	}
}

// Dispatch 处理函数 panic 时返回 INTERNAL_ERROR，actor 不重启，内存状态保留
func (d *Dispatcher) Dispatch(ctx context.Context, p *PlayerActor, req *messages.Request) (resp *messages.Response) {
	if req == nil || req.Body == nil {
		return fail(ReasonEmptyBody)
	}
	handler, ok := d.handlers[reflect.TypeOf(req.Body)]
	if !ok {
		return fail(ReasonNoHandler)
	}
	defer func() {
		if r := recover(); r != nil {
			err := errx.ErrInternal.WithCause(fmt.Errorf("player handler panic: %v", r))
			logx.ReportSysErrorWithLoggerContext(ctx, p.log, logx.NewSysLog("player.handler_panic", err),
				zap.String("body", reflect.TypeOf(req.Body).String()))
			resp = fail(ReasonInternal)
		}
	}()
	return handler(ctx, p, req.Body)
}
