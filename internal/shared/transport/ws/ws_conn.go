package ws

// RespBody 下行帧。Seq 为 0 表示服务端主动推送
type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

// ReqBody 上行帧，目前只有心跳和订阅过滤
type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

// WSConn 推送连接
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(name string, data any) bool
	Close()
	// Done 连接关闭时该 channel 会被关闭
	Done() <-chan struct{}
}

type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}

// Subscribe 客户端声明只关心哪些事件，空列表表示全部
type Subscribe struct {
	Kinds []string `json:"kinds"`
}

const (
	HeartbeatMsg = "heartbeat"
	SubscribeMsg = "subscribe"
	ConnKeyUID   = "uid"
	ConnKeyKinds = "kinds"
)
