package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/gameconfig"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// constRand 每次返回 v % n
type constRand struct {
	v int
}

func (r constRand) IntN(n int) int {
	return r.v % n
}

type recorder struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recorder) Handle(_ context.Context, e eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Of(k eventbus.Kind) []eventbus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []eventbus.Event
	for _, e := range r.events {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type harness struct {
	s     *Session
	rec   *recorder
	clock *fakeClock
	logs  *observer.ObservedLogs
}

var (
	tablesOnce sync.Once
	tables     *gameconfig.Tables
)

func testTables(t *testing.T) *gameconfig.Tables {
	t.Helper()
	tablesOnce.Do(func() {
		tables = gameconfig.MustLoad("")
	})
	return tables
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, DefaultDefaults())
}

func newHarnessWith(t *testing.T, d Defaults) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logx.NewZapLogger(zap.New(core))
	bus := eventbus.New(logger)
	rec := &recorder{}
	bus.SubscribeAll(rec)
	clock := &fakeClock{now: t0}
	s := NewSession(NewPlayer(7, d), d, Options{
		Bus:    bus,
		Logger: logger,
		Now:    clock.Now,
		Rand:   constRand{v: 0},
		IDs:    &Sequence{},
		Tables: testTables(t),
	})
	return &harness{s: s, rec: rec, clock: clock, logs: logs}
}

func TestNewPlayer_默认初始状态(t *testing.T) {
	p := NewPlayer(1, DefaultDefaults())
	want := entity.Amounts{1000, 500, 500, 800}
	if p.Resources().Amounts() != want {
		t.Fatalf("初始资源错误: %v", p.Resources().Amounts())
	}
	for _, c := range entity.Currencies() {
		if p.Resources().Cap(c) != 10000 {
			t.Fatalf("%s 上限应为 10000", c)
		}
	}
	if p.Army().Cap() != 5000 || p.Army().Total() != 0 {
		t.Fatalf("初始兵力错误")
	}
	if p.Territories().Len() != 0 || p.Generals().Len() != 0 {
		t.Fatalf("初始不应有领地和武将")
	}
	if p.Dirty() {
		t.Fatalf("新玩家不应为脏")
	}
}

func TestSession_拒绝原因与日志级别(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if h.s.Resources.Consume(ctx, entity.Copper, 999999) {
		t.Fatalf("余额不足应失败")
	}
	if h.s.LastReason() != ReasonResourceInsufficient {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if n := h.logs.FilterLevelExact(zapcore.InfoLevel).FilterField(zap.String("err_type", "biz")).Len(); n != 1 {
		t.Fatalf("余额不足应记一条 biz INFO, got=%d", n)
	}

	h.s.ClearReason()
	if !h.s.LastReason().IsZero() {
		t.Fatalf("ClearReason 后应为空")
	}

	if h.s.Generals.StarUp(ctx, 404) {
		t.Fatalf("不存在的武将应失败")
	}
	if h.s.LastReason() != ReasonGeneralNotFound {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if n := h.logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 1 {
		t.Fatalf("无效引用应记一条 WARN, got=%d", n)
	}

	if h.s.Resources.Consume(ctx, entity.Copper, -1) {
		t.Fatalf("负数应失败")
	}
	if n := h.logs.FilterLevelExact(zapcore.DPanicLevel).Len(); n != 1 {
		t.Fatalf("负数应记一条 DPanic, got=%d", n)
	}
	if h.s.Player().Dirty() {
		t.Fatalf("失败的操作不应标脏")
	}
}

func TestSession_日志只带一次玩家ID(t *testing.T) {
	h := newHarness(t)
	ctxs := []context.Context{
		context.Background(),
		tracex.WithPlayerID(context.Background(), 7),
	}
	for _, ctx := range ctxs {
		h.logs.TakeAll()
		h.s.Resources.Consume(ctx, entity.Copper, 999999)
		entries := h.logs.TakeAll()
		if len(entries) != 1 {
			t.Fatalf("应记一条日志, got=%d", len(entries))
		}
		n := 0
		for _, f := range entries[0].Context {
			if f.Key == "player_id" {
				n++
				if f.Integer != 7 {
					t.Fatalf("player_id 错误: %d", f.Integer)
				}
			}
		}
		if n != 1 {
			t.Fatalf("player_id 应只出现一次, got=%d", n)
		}
	}
}

func TestSession_事件携带玩家ID(t *testing.T) {
	h := newHarness(t)
	h.s.Resources.Add(context.Background(), entity.Wood, 10)
	evs := h.rec.Of(eventbus.KindResourceChanged)
	if len(evs) != 1 || evs[0].PlayerID() != 7 {
		t.Fatalf("事件应携带玩家 id 7: %+v", evs)
	}
}

func TestSequence_递增(t *testing.T) {
	var q Sequence
	if q.NextID() != 1 || q.NextID() != 2 {
		t.Fatalf("Sequence 应从 1 开始递增")
	}
}

func TestSession_Recalculate_超出满级的建筑被校正(t *testing.T) {
	d := DefaultDefaults()
	snap := NewPlayer(7, d).Snapshot()
	snap.Territories = []entity.TerritorySnapshot{{
		ID: 1, CityRef: "luoyang", Capacity: entity.BaseSlotCapacity, CreatedAt: t0,
		Core:  entity.BuildingSnapshot{ID: 2, Type: "palace", Level: 1},
		Slots: []entity.SlotSnapshot{{Slot: 0, Building: entity.BuildingSnapshot{ID: 3, Type: "stable", Level: 8}}},
	}}
	p, err := entity.HydratePlayer(snap)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSession(p, d, Options{
		Bus:    eventbus.New(logx.Nop()),
		Logger: logx.NewZapLogger(zap.New(core)),
		Now:    func() time.Time { return t0 },
		Tables: testTables(t),
	})
	s.Recalculate(tracex.WithPlayerID(context.Background(), 7))

	spec, _ := testTables(t).Buildings.Spec(entity.Stable)
	terr, _ := s.Territories.Get(1)
	b, _ := terr.SlotAt(0)
	if b.Level() != spec.MaxLevel {
		t.Fatalf("应校正到 %d 级, got=%d", spec.MaxLevel, b.Level())
	}
	if !p.Dirty() {
		t.Fatalf("校正后应标脏以便写回")
	}
	if logs.FilterMessage("building level clamped to table max").Len() != 1 {
		t.Fatalf("应记一条 WARN")
	}
}
