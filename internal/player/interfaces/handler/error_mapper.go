package handler

import (
	playeractor "Sanguo/internal/player/actor"
	"Sanguo/internal/player/actors"
	"Sanguo/internal/player/manager"
	"Sanguo/internal/shared/transport"
	"Sanguo/modules/kit/logx"
	"context"
)

var reasonCodes = map[string]int{
	manager.ReasonTerritoryNotFound.Code: transport.NotFound,
	manager.ReasonSlotOutOfRange.Code:    transport.NotFound,
	manager.ReasonBuildingNotFound.Code:  transport.NotFound,
	manager.ReasonGeneralNotFound.Code:   transport.NotFound,
	manager.ReasonUnknownCurrency.Code:   transport.InvalidParam,
	manager.ReasonUnknownUnit.Code:       transport.InvalidParam,
	manager.ReasonUnknownBuilding.Code:   transport.InvalidParam,
	manager.ReasonUnknownClass.Code:      transport.InvalidParam,
	manager.ReasonNegativeAmount.Code:    transport.InvalidParam,
	actors.ReasonEmptyBody.Code:          transport.InvalidParam,
	actors.ReasonInvalidID.Code:          transport.InvalidParam,
	actors.ReasonNoHandler.Code:          transport.InvalidParam,
	actors.ReasonNotOnline.Code:          transport.SystemError,
	actors.ReasonInternal.Code:           transport.SystemError,
}

// CodeForReason 拒绝原因 -> 客户端业务码，未登记的一律按业务拒绝
func CodeForReason(reason string) int {
	if code, ok := reasonCodes[reason]; ok {
		return code
	}
	return transport.BizRejected
}

// HandleError runtime 层错误（超时、actor 异常）转成客户端业务码
func HandleError(ctx context.Context, log logx.Logger, err error) (int, string) {
	code := playeractor.CodeFromError(err)
	switch code {
	case transport.InvalidParam:
		return code, "参数有误"
	case transport.ServerTimeout:
		logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog("player.request_timeout", err))
		return code, "请求超时，请稍后重试"
	default:
		logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog("player.request_failed", err))
		return transport.SystemError, "系统繁忙，请稍后重试"
	}
}
