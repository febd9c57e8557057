package eventbus

import (
	"context"
	"reflect"
)

type Event interface {
	Kind() Kind
	PlayerID() int64
}

// Handler 订阅者。以接口值判等，重复订阅/取消订阅依赖 == 比较，
// 所以实现类型必须可比较（一般用指针）。
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

type HandlerFunc func(ctx context.Context, e Event) error

// FuncHandler 给闭包一个稳定身份，订阅和取消订阅时传同一个指针
type FuncHandler struct {
	name string
	fn   HandlerFunc
}

func NewHandler(name string, fn HandlerFunc) *FuncHandler {
	return &FuncHandler{name: name, fn: fn}
}

func (h *FuncHandler) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

func (h *FuncHandler) Handle(ctx context.Context, e Event) error {
	if h == nil || h.fn == nil {
		return nil
	}
	return h.fn(ctx, e)
}

// On 包装强类型回调；E 必须是值类型事件，Kind 从零值推出
func On[E Event](name string, fn func(ctx context.Context, e E) error) (Kind, *FuncHandler) {
	var zero E
	return zero.Kind(), NewHandler(name, func(ctx context.Context, e Event) error {
		typed, ok := e.(E)
		if !ok {
			return nil
		}
		return fn(ctx, typed)
	})
}

func handlerName(h Handler) string {
	if n, ok := h.(interface{ Name() string }); ok {
		return n.Name()
	}
	return reflect.TypeOf(h).String()
}

func isComparable(h Handler) bool {
	if h == nil {
		return false
	}
	t := reflect.TypeOf(h)
	if !t.Comparable() {
		return false
	}
	if t.Kind() == reflect.Pointer && reflect.ValueOf(h).IsNil() {
		return false
	}
	// 结构体里的 interface 字段装着 slice/map 时，类型可比较但 == 会 panic
	return sameHandler(h, h)
}

func sameHandler(a, b Handler) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
