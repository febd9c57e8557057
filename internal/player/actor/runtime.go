package actor

import (
	"Sanguo/internal/player/actors"
	"Sanguo/internal/shared/actor/messages"
	"Sanguo/internal/shared/transport"
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

// RuntimeError 投递失败或超时，Code 为 transport 层的错误码
type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	// manager 只做路由，玩家状态都在它 spawn 的子 actor 里
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		// 等 manager 及其下所有玩家 actor 停完，玩家存档在 Stopping 里写回
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	res, err := r.root.RequestFuture(pid, msg, timeout).Result()
	if errors.Is(err, protoactor.ErrTimeout) {
		return nil, &RuntimeError{
			Code:    transport.ServerTimeout,
			Message: "actor 请求超时",
			Cause:   err,
		}
	}
	if err != nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

// timeoutFromContext 取 ctx 剩余时间和默认超时里较短的一个
func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// Handle 把请求交给玩家 actor 并等待回复；业务拒绝放在 Response.Result 里，不作为 error
func (r *Runtime) Handle(ctx context.Context, req *messages.Request) (*messages.Response, error) {
	if req == nil || req.Body == nil {
		return nil, &RuntimeError{
			Code:    transport.InvalidParam,
			Message: "player request 不能为空",
		}
	}

	res, err := r.request(r.manager, req, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}

	resp, ok := res.(*messages.Response)
	if !ok {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
	return resp, nil
}

// Evict 通知 manager 停止玩家 actor，不等待结果
func (r *Runtime) Evict(playerID int64) {
	if r == nil || r.root == nil || r.manager == nil {
		return
	}
	r.root.Send(r.manager, &messages.Evict{Player: playerID})
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
