package transport

// BizCode 访问日志里的业务码
type BizCode int

// 接口层业务码：0 成功，1~499 业务拒绝，>=500 系统错误
const (
	OK            = 0
	InvalidParam  = 400
	Unauthorized  = 401
	NotFound      = 404
	BizRejected   = 409
	SystemError   = 500
	ServerTimeout = 504
)

var bizNames = map[BizCode]string{
	OK:            "ok",
	InvalidParam:  "invalid_param",
	Unauthorized:  "unauthorized",
	NotFound:      "not_found",
	BizRejected:   "rejected",
	SystemError:   "system_error",
	ServerTimeout: "timeout",
}

// Name 日志和监控用的短名，未登记的码按区间归类
func (c BizCode) Name() string {
	if n, ok := bizNames[c]; ok {
		return n
	}
	switch {
	case c > 0 && c < 500:
		return "rejected"
	case c >= 500:
		return "system_error"
	default:
		return "unknown"
	}
}
