package actors

import (
	"Sanguo/internal/player/manager"
	"Sanguo/internal/shared/actor/messages"
)

var (
	ReasonEmptyBody   = manager.NewReason("EMPTY_BODY", "请求体为空")
	ReasonNoHandler   = manager.NewReason("NO_HANDLER", "没有对应的处理函数")
	ReasonNotOnline   = manager.NewReason("PLAYER_NOT_ONLINE", "玩家未上线")
	ReasonInvalidID   = manager.NewReason("INVALID_PLAYER_ID", "玩家 id 非法")
	ReasonUnknownFail = manager.NewReason("OPERATION_REJECTED", "操作被拒绝")
	ReasonInternal    = manager.NewReason("INTERNAL_ERROR", "处理请求时发生内部错误")
)

// negative 请求边界上的负数直接拒绝，不进入 manager
func negative(n int64) *messages.Response {
	if n < 0 {
		return fail(manager.ReasonNegativeAmount)
	}
	return nil
}

func ok(body any) *messages.Response {
	return messages.OK(body)
}

func fail(r manager.Reason) *messages.Response {
	return messages.Fail(r.Code, r.Message)
}

// rejected 取 session 记录的拒绝原因，没有记录时返回通用原因
func rejected(p *PlayerActor) *messages.Response {
	r := p.Session().LastReason()
	if r.IsZero() {
		r = ReasonUnknownFail
	}
	return fail(r)
}
