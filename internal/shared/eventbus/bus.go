package eventbus

import (
	"Sanguo/modules/kit/errx"
	"Sanguo/modules/kit/logx"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Bus 进程内同步事件总线。
// 订阅表读写受锁保护；Publish 先在读锁下拷贝快照，再在锁外逐个回调，
// 所以回调里再订阅/取消订阅/发布都不会死锁，本轮分发看到的是发布时刻的订阅集合。
type Bus struct {
	mu       sync.RWMutex
	handlers [kindEnd][]Handler
	log      logx.Logger
}

func New(logger logx.Logger) *Bus {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Bus{log: logger}
}

var (
	defaultOnce sync.Once
	defaultBus  *Bus
)

// Default 进程级单例，首次访问时创建
func Default() *Bus {
	defaultOnce.Do(func() {
		defaultBus = New(nil)
	})
	return defaultBus
}

// Shutdown 清空单例上的所有订阅；经由 Default 取实例，和首次创建不会竞争
func Shutdown() {
	Default().ClearAll()
}

func (b *Bus) SetLogger(logger logx.Logger) {
	if logger == nil {
		return
	}
	b.mu.Lock()
	b.log = logger
	b.mu.Unlock()
}

// Subscribe 同一 (kind, handler) 重复订阅不生效，返回 false
func (b *Bus) Subscribe(kind Kind, h Handler) bool {
	if !kind.Valid() || !isComparable(h) {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, cur := range b.handlers[kind] {
		if sameHandler(cur, h) {
			return false
		}
	}
	b.handlers[kind] = append(b.handlers[kind], h)
	return true
}

// SubscribeAll 订阅全部事件种类，返回新增的订阅数
func (b *Bus) SubscribeAll(h Handler) int {
	n := 0
	for _, k := range Kinds() {
		if b.Subscribe(k, h) {
			n++
		}
	}
	return n
}

func (b *Bus) Unsubscribe(kind Kind, h Handler) bool {
	if !kind.Valid() || !isComparable(h) {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[kind]
	for i, cur := range list {
		if !sameHandler(cur, h) {
			continue
		}
		// 新切片，避免影响正在分发的旧快照
		next := make([]Handler, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		b.handlers[kind] = next
		return true
	}
	return false
}

func (b *Bus) UnsubscribeAll(h Handler) int {
	n := 0
	for _, k := range Kinds() {
		if b.Unsubscribe(k, h) {
			n++
		}
	}
	return n
}

func (b *Bus) Clear(kind Kind) {
	if !kind.Valid() {
		return
	}
	b.mu.Lock()
	b.handlers[kind] = nil
	b.mu.Unlock()
}

func (b *Bus) ClearAll() {
	b.mu.Lock()
	for k := range b.handlers {
		b.handlers[k] = nil
	}
	b.mu.Unlock()
}

func (b *Bus) Count(kind Kind) int {
	if !kind.Valid() {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

// Publish 按订阅顺序同步回调。单个订阅者失败或 panic 只记日志，不影响后续订阅者和发布方。
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e == nil {
		return
	}
	kind := e.Kind()
	if !kind.Valid() {
		return
	}
	b.mu.RLock()
	snapshot := b.handlers[kind]
	logger := b.log
	b.mu.RUnlock()

	for _, h := range snapshot {
		b.dispatch(ctx, logger, h, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, logger logx.Logger, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			err := errx.ErrInternal.WithCause(fmt.Errorf("event handler panic: %v", r))
			logx.ReportSysErrorWithLoggerContext(ctx, logger, logx.NewSysLog("eventbus.handler_panic", err), handlerFields(h, e)...)
		}
	}()
	if err := h.Handle(ctx, e); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, logger, logx.NewSysLog("eventbus.handler_failed", errx.ErrInternal.WithCause(err)), handlerFields(h, e)...)
	}
}

func handlerFields(h Handler, e Event) []zap.Field {
	return []zap.Field{
		zap.String("handler", handlerName(h)),
		zap.String("event", e.Kind().String()),
		zap.Int64("player_id", e.PlayerID()),
	}
}
