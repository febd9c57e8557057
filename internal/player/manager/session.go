package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/gameconfig"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// IDGenerator 领地/建筑/武将 id 来源，线上用 snowflake
type IDGenerator interface {
	NextID() int64
}

// Options Session 的外部协作者，零值字段在 NewSession 中补默认值
type Options struct {
	Bus    *eventbus.Bus
	Logger logx.Logger
	Now    func() time.Time
	Rand   entity.Rand
	IDs    IDGenerator
	Tables *gameconfig.Tables
}

// Defaults 新玩家初始状态，以及不含建筑加成的基础上限
type Defaults struct {
	StartResources entity.Amounts
	ResourceCap    int64
	BaseIncome     entity.Amounts
	TroopCap       int64
	MaxGenerals    int
}

func DefaultDefaults() Defaults {
	return Defaults{
		StartResources: entity.Amounts{1000, 500, 500, 800},
		ResourceCap:    10000,
		BaseIncome:     entity.Amounts{10, 10, 10, 10},
		TroopCap:       5000,
		MaxGenerals:    0,
	}
}

// NewPlayer 按默认值创建新玩家
func NewPlayer(id entity.PlayerID, d Defaults) *entity.Player {
	var caps entity.Amounts
	for _, c := range entity.Currencies() {
		caps[c] = d.ResourceCap
	}
	return entity.NewPlayer(
		id,
		entity.NewResourceLedger(d.StartResources, caps),
		entity.NewArmyRoster(d.TroopCap),
		entity.NewTerritoryGrid(),
		entity.NewGeneralRoster(d.MaxGenerals),
	)
}

// Session 单个玩家的上下文：持有状态图和四个 manager。
// 只能由一个 goroutine（PlayerActor）驱动。
type Session struct {
	player   *entity.Player
	defaults Defaults

	bus    *eventbus.Bus
	log    logx.Logger
	now    func() time.Time
	rng    entity.Rand
	ids    IDGenerator
	tables *gameconfig.Tables

	lastReason Reason

	Resources   *ResourceManager
	Army        *ArmyManager
	Territories *TerritoryManager
	Generals    *GeneralManager
}

func NewSession(p *entity.Player, d Defaults, opts Options) *Session {
	if opts.Bus == nil {
		opts.Bus = eventbus.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logx.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(p.ID())))
	}
	if opts.IDs == nil {
		opts.IDs = &Sequence{}
	}
	if opts.Tables == nil {
		opts.Tables = gameconfig.MustLoad("")
	}
	s := &Session{
		player:   p,
		defaults: d,
		bus:      opts.Bus,
		log:      opts.Logger,
		now:      opts.Now,
		rng:      opts.Rand,
		ids:      opts.IDs,
		tables:   opts.Tables,
	}
	s.Resources = &ResourceManager{s: s}
	s.Army = &ArmyManager{s: s}
	s.Territories = &TerritoryManager{s: s}
	s.Generals = &GeneralManager{s: s}
	return s
}

func (s *Session) Player() *entity.Player {
	return s.player
}

func (s *Session) PlayerID() entity.PlayerID {
	return s.player.ID()
}

func (s *Session) Tables() *gameconfig.Tables {
	return s.tables
}

func (s *Session) Now() time.Time {
	return s.now()
}

// LastReason 最近一次被拒绝操作的原因，ClearReason 之后为零值
func (s *Session) LastReason() Reason {
	return s.lastReason
}

func (s *Session) ClearReason() {
	s.lastReason = Reason{}
}

// Recalculate 按配置表校正建筑等级，再重新计算资源上限和兵力上限，加载存档后调用一次
func (s *Session) Recalculate(ctx context.Context) {
	s.player.Territories().EachBuilding(func(t *entity.Territory, b *entity.Building) {
		spec, ok := s.tables.Buildings.Spec(b.Type())
		if !ok {
			return
		}
		old := b.Level()
		if b.ClampLevel(spec.MaxLevel) {
			s.markDirty()
			s.log.WithContext(s.scope(ctx)).Warn("building level clamped to table max",
				zap.Int64("territory_id", int64(t.ID())),
				zap.Int64("building_id", int64(b.ID())),
				zap.String("type", b.Type().String()),
				zap.Int("old", old),
				zap.Int("new", b.Level()),
			)
		}
	})
	s.Resources.RecalculateCaps(ctx)
	s.Army.RecalculateCap(ctx)
}

func (s *Session) base() events.Base {
	return events.Base{Player: int64(s.player.ID()), At: s.now()}
}

func (s *Session) publish(ctx context.Context, e eventbus.Event) {
	s.bus.Publish(ctx, e)
}

func (s *Session) markDirty() {
	s.player.MarkDirty()
}

func (s *Session) nextID() int64 {
	return s.ids.NextID()
}

// scope 保证日志 ctx 带上 player_id，调用方已带时不重复
func (s *Session) scope(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := tracex.PlayerIDFrom(ctx); ok {
		return ctx
	}
	return tracex.WithPlayerID(ctx, int64(s.player.ID()))
}

// reject 容量/余额类的预期失败：INFO
func (s *Session) reject(ctx context.Context, action string, r Reason, fields ...zap.Field) {
	s.lastReason = r
	logx.ReportBizWithLoggerContext(s.scope(ctx), s.log, logx.NewBizLog(action, r.Code, r.Message), fields...)
}

// missing 引用了不存在的领地/槽位/武将：WARN
func (s *Session) missing(ctx context.Context, action string, r Reason, fields ...zap.Field) {
	s.lastReason = r
	logx.ReportWarnWithLoggerContext(s.scope(ctx), s.log, logx.NewBizLog(action, r.Code, r.Message), fields...)
}

// violated 调用方绕过校验传入非法参数，开发模式下 panic
func (s *Session) violated(ctx context.Context, action string, r Reason, fields ...zap.Field) {
	s.lastReason = r
	base := []zap.Field{
		zap.String("err_type", "invariant"),
		zap.String("action", action),
		zap.String("reason", r.Code),
	}
	s.log.WithContext(s.scope(ctx)).DPanic(r.Message, append(base, fields...)...)
}

// Sequence 进程内自增 id，测试和单机模式使用
type Sequence struct {
	n atomic.Int64
}

func (q *Sequence) NextID() int64 {
	return q.n.Add(1)
}
