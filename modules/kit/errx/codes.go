package errx

// 跨服务统一的系统类错误码；业务域错误码由各业务包自行定义。
const (
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeTimeout       Code = "TIMEOUT"
	CodeInvariant     Code = "INVARIANT_VIOLATION"
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	// ErrInvariant 表示内存状态出现了不该出现的不一致（程序缺陷）。
	ErrInvariant   = NewSys(CodeInvariant, "状态不变量被破坏")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
