package messages

// PlayerMessage 可以按玩家路由的消息
type PlayerMessage interface {
	PlayerID() int64
}

// Request 发往玩家 actor 的命令信封，Body 为 player_message.go 中的命令
type Request struct {
	Player  int64
	TraceID string
	Body    any
}

func (r *Request) PlayerID() int64 {
	if r == nil {
		return 0
	}
	return r.Player
}

type Result struct {
	Ok      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type Response struct {
	Result Result
	Body   any
}

func OK(body any) *Response {
	return &Response{Result: Result{Ok: true}, Body: body}
}

func Fail(reason, message string) *Response {
	if message == "" {
		message = reason
	}
	return &Response{Result: Result{Ok: false, Reason: reason, Message: message}}
}

// Evict 让 ManagerActor 停止某个玩家 actor，停止前会写回存档
type Evict struct {
	Player int64
}

func (e *Evict) PlayerID() int64 {
	return e.Player
}
