package dc

import (
	"Sanguo/internal/player/app/port"
	"Sanguo/internal/player/entity"
	"Sanguo/modules/kit/logx"
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

type PlayerID = entity.PlayerID

// NewPlayerFunc 存储里没有该玩家时用来创建默认状态
type NewPlayerFunc func(id PlayerID) *entity.Player

type Option func(*PlayerDC)

func WithFlushEvery(d time.Duration) Option {
	return func(dc *PlayerDC) {
		if d > 0 {
			dc.flushEvery = d
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(dc *PlayerDC) {
		if d > 0 {
			dc.retryDelay = d
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(dc *PlayerDC) {
		if l != nil {
			dc.log = l
		}
	}
}

type PlayerDC struct {
	repo       port.PlayerRepository
	log        logx.Logger
	entity     *entity.Player
	flushEvery time.Duration
	retryDelay time.Duration

	mu      sync.Mutex
	pending *entity.PlayerPersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewPlayerDC(repo port.PlayerRepository, opts ...Option) *PlayerDC {
	d := &PlayerDC{
		repo:       repo,
		log:        logx.Nop(),
		flushEvery: 3000 * time.Millisecond,
		retryDelay: 200 * time.Millisecond,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.writerLoop()
	return d
}

// Load 全量加载玩家状态；不存在时用 fresh 创建并标脏，第一次 Flush 即落库。
// 版本号从存档继续递增，旧进程留下的快照不会覆盖新写入。
func (d *PlayerDC) Load(ctx context.Context, id PlayerID, fresh NewPlayerFunc) (*entity.Player, bool, error) {
	s, err := d.repo.LoadPlayer(ctx, id)
	if errors.Is(err, entity.ErrPlayerNotFound) {
		p := fresh(id)
		p.MarkDirty()
		d.entity = p
		return p, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	p, err := entity.HydratePlayer(s.State)
	if err != nil {
		return nil, false, err
	}
	d.mu.Lock()
	d.version = s.Version
	d.mu.Unlock()
	d.entity = p
	return p, false, nil
}

// Flush 脏检查 + 同步快照 + 异步写库。
// 只保留最新快照，写库慢时中间版本会被跳过。
func (d *PlayerDC) Flush(ctx context.Context) {
	_ = ctx
	if !d.IsDirty() {
		return
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return
	}
	d.enqueueLatest(s)
}

func (d *PlayerDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *PlayerDC) Entity() *entity.Player {
	return d.entity
}

func (d *PlayerDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Version 最近一次生成快照的版本号
func (d *PlayerDC) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *PlayerDC) Close(ctx context.Context) error {
	d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *PlayerDC) buildNextSnapshot() (*entity.PlayerPersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *PlayerDC) enqueueLatest(s *entity.PlayerPersistSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *PlayerDC) popPending() *entity.PlayerPersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

func (d *PlayerDC) requeueOnError(s *entity.PlayerPersistSnapshot) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *PlayerDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *PlayerDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		if err := d.repo.Snapshot(context.Background(), s); err != nil {
			fields := []zap.Field{
				zap.Int64("player_id", s.State.PlayerID),
				zap.Uint64("version", s.Version),
			}
			logx.ReportSysErrorWithLoggerContext(context.Background(), d.log, logx.NewSysLog("dc.snapshot", err), fields...)
			// 写库失败时重排当前快照；若已有更新快照，会被更高 version 覆盖。
			if !d.requeueOnError(s) {
				d.log.Error("snapshot dropped on close", fields...)
				continue
			}
			time.Sleep(d.retryDelay)
			continue
		}
	}
}
