package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"Sanguo/internal/shared/eventbus"
	"context"
	"testing"
	"time"
)

func TestTerritoryManager_领地上限(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i, city := range []string{"luoyang", "xuchang", "ye"} {
		terr := h.s.Territories.CreateTerritory(ctx, city)
		if terr == nil {
			t.Fatalf("第 %d 块领地应创建成功", i+1)
		}
		core := terr.Core()
		if core == nil || core.Type() != entity.Palace || core.Level() != 1 || core.Constructing() {
			t.Fatalf("核心建筑应自动落成: %+v", core)
		}
		if terr.Capacity() != entity.BaseSlotCapacity || terr.UsedSlots() != 0 {
			t.Fatalf("新领地应有 15 个空槽位")
		}
	}
	if h.s.Territories.CreateTerritory(ctx, "wan") != nil {
		t.Fatalf("第 4 块领地应失败")
	}
	if h.s.LastReason() != ReasonTerritoryLimit {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if n := len(h.rec.Of(eventbus.KindTerritoryCreated)); n != 3 {
		t.Fatalf("应发布 3 个创建事件, got=%d", n)
	}
}

func TestTerritoryManager_建造校验(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")

	b := h.s.Territories.Build(ctx, terr.ID(), 4, entity.Farm)
	if b == nil {
		t.Fatalf("建造失败")
	}
	if !b.Constructing() || b.Level() != 1 || !b.CompleteAt().Equal(t0.Add(time.Minute)) {
		t.Fatalf("新建筑状态错误: level=%d constructing=%v at=%v", b.Level(), b.Constructing(), b.CompleteAt())
	}
	if got := h.s.Resources.Amounts(); got != (entity.Amounts{950, 400, 450, 800}) {
		t.Fatalf("农田造价 {50,100,50,0} 扣费错误: %v", got)
	}
	ev := h.rec.Of(eventbus.KindBuildingConstructed)
	if len(ev) != 1 || ev[0].(events.BuildingConstructed).Slot != 4 {
		t.Fatalf("建造事件错误: %+v", ev)
	}

	before := h.s.Resources.Amounts()
	if h.s.Territories.Build(ctx, terr.ID(), 4, entity.Quarry) != nil {
		t.Fatalf("占用的槽位应失败")
	}
	if h.s.LastReason() != ReasonSlotOccupied {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if got, _ := terr.SlotAt(4); got != b || h.s.Resources.Amounts() != before {
		t.Fatalf("失败时网格和资源都不应变化")
	}

	if h.s.Territories.Build(ctx, terr.ID(), terr.Capacity(), entity.Farm) != nil {
		t.Fatalf("越界槽位应失败")
	}
	if h.s.Territories.Build(ctx, terr.ID(), -1, entity.Farm) != nil {
		t.Fatalf("负数槽位应失败")
	}
	if h.s.LastReason() != ReasonSlotOutOfRange {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if h.s.Territories.Build(ctx, terr.ID(), 5, entity.Palace) != nil {
		t.Fatalf("核心建筑不能手动建造")
	}
	if h.s.Territories.Build(ctx, 999, 0, entity.Farm) != nil {
		t.Fatalf("不存在的领地应失败")
	}
	if h.s.LastReason() != ReasonTerritoryNotFound {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if terr.UsedSlots() != 1 {
		t.Fatalf("只应占用 1 个槽位, got=%d", terr.UsedSlots())
	}
}

func TestTerritoryManager_资源不足不落地(t *testing.T) {
	d := DefaultDefaults()
	d.StartResources = entity.Amounts{10, 10, 10, 10}
	h := newHarnessWith(t, d)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")

	if h.s.Territories.Build(ctx, terr.ID(), 0, entity.Farm) != nil {
		t.Fatalf("资源不足应失败")
	}
	if !terr.SlotEmpty(0) {
		t.Fatalf("扣费失败不应留下建筑")
	}
	if h.s.LastReason() != ReasonResourceInsufficient {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if len(h.rec.Of(eventbus.KindBuildingConstructed)) != 0 {
		t.Fatalf("不应发布建造事件")
	}
}

func TestTerritoryManager_升级与完工(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")
	b := h.s.Territories.Build(ctx, terr.ID(), 0, entity.Farm)

	if h.s.Territories.Upgrade(ctx, terr.ID(), b.ID()) {
		t.Fatalf("施工中不能升级")
	}
	if h.s.LastReason() != ReasonBuildingConstructing {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}

	h.clock.Advance(59 * time.Second)
	if n := h.s.Territories.Tick(ctx, h.clock.Now()); n != 0 {
		t.Fatalf("未到期不应完工")
	}
	h.clock.Advance(time.Second)
	if n := h.s.Territories.Tick(ctx, h.clock.Now()); n != 1 {
		t.Fatalf("应完工 1 座, got=%d", n)
	}
	done := h.rec.Of(eventbus.KindBuildingCompleted)
	if len(done) != 1 || done[0].(events.BuildingCompleted).Level != 1 {
		t.Fatalf("完工事件错误: %+v", done)
	}

	before := h.s.Resources.Amounts()
	if !h.s.Territories.Upgrade(ctx, terr.ID(), b.ID()) {
		t.Fatalf("升级失败")
	}
	// 2 级造价 = base * 1.5
	if got := before.Plus(entity.Amounts{-75, -150, -75, 0}); h.s.Resources.Amounts() != got {
		t.Fatalf("升级扣费错误: %v want %v", h.s.Resources.Amounts(), got)
	}
	if b.Level() != 2 || b.EffectiveLevel() != 1 {
		t.Fatalf("升级中目标等级 2，生效等级 1: %d %d", b.Level(), b.EffectiveLevel())
	}
	// 1 -> 2 工期 = 60 * (1 + 1*0.3)
	if !b.CompleteAt().Equal(h.clock.Now().Add(78 * time.Second)) {
		t.Fatalf("升级工期错误: %v", b.CompleteAt().Sub(h.clock.Now()))
	}
	up := h.rec.Of(eventbus.KindBuildingUpgraded)
	if len(up) != 1 || up[0].(events.BuildingUpgraded).Level != 2 {
		t.Fatalf("升级事件错误: %+v", up)
	}
	if got := h.s.Resources.ProductionPerInterval()[entity.Food]; got != 30 {
		t.Fatalf("升级期间按旧等级产出, got=%d", got)
	}

	h.clock.Advance(78 * time.Second)
	h.s.Territories.Tick(ctx, h.clock.Now())
	if got := h.s.Resources.ProductionPerInterval()[entity.Food]; got != 40 {
		t.Fatalf("2 级农田产出 20*1.5 + 10, got=%d", got)
	}
}

func TestTerritoryManager_满级不能升级(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")
	b := h.s.Territories.Build(ctx, terr.ID(), 0, entity.Stable)
	spec, _ := h.s.Tables().Buildings.Spec(entity.Stable)

	for _, c := range entity.Currencies() {
		h.s.Resources.Add(ctx, c, 10000)
	}
	for b.Level() < spec.MaxLevel {
		h.clock.Advance(time.Hour)
		h.s.Territories.Tick(ctx, h.clock.Now())
		if !h.s.Territories.Upgrade(ctx, terr.ID(), b.ID()) {
			t.Fatalf("升到 %d 级失败: %+v", b.Level()+1, h.s.LastReason())
		}
		for _, c := range entity.Currencies() {
			h.s.Resources.Add(ctx, c, 10000)
		}
	}
	h.clock.Advance(time.Hour)
	h.s.Territories.Tick(ctx, h.clock.Now())

	if h.s.Territories.Upgrade(ctx, terr.ID(), b.ID()) {
		t.Fatalf("满级后不能再升级")
	}
	if h.s.LastReason() != ReasonBuildingMaxLevel || b.Level() != spec.MaxLevel {
		t.Fatalf("满级校验错误: %+v level=%d", h.s.LastReason(), b.Level())
	}
}

func TestTerritoryManager_核心建筑升级(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")

	// 官府 2 级造价 {900,720,720,0}，初始木材只有 500
	if h.s.Territories.UpgradeCore(ctx, terr.ID()) {
		t.Fatalf("资源不足应失败")
	}
	if terr.Core().Level() != 1 || terr.Core().Constructing() {
		t.Fatalf("失败时核心建筑不应变化")
	}
	h.s.Resources.Add(ctx, entity.Wood, 1000)
	h.s.Resources.Add(ctx, entity.Stone, 1000)
	if !h.s.Territories.UpgradeCore(ctx, terr.ID()) {
		t.Fatalf("升级失败: %+v", h.s.LastReason())
	}
	if terr.Core().Level() != 2 || !terr.Core().Constructing() {
		t.Fatalf("核心建筑应进入施工")
	}
}

func TestTerritoryManager_拆除(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")
	b := h.s.Territories.Build(ctx, terr.ID(), 2, entity.Wall)

	if h.s.Territories.Demolish(ctx, terr.ID(), 3) {
		t.Fatalf("空槽位应失败")
	}
	if h.s.LastReason() != ReasonSlotEmpty {
		t.Fatalf("原因错误: %+v", h.s.LastReason())
	}
	if h.s.Territories.Demolish(ctx, terr.ID(), 99) {
		t.Fatalf("越界槽位应失败")
	}

	before := h.s.Resources.Amounts()
	if !h.s.Territories.Demolish(ctx, terr.ID(), 2) {
		t.Fatalf("拆除失败")
	}
	if !terr.SlotEmpty(2) || h.s.Resources.Amounts() != before {
		t.Fatalf("拆除后槽位为空且不返还资源")
	}
	ev := h.rec.Of(eventbus.KindBuildingDemolished)
	if len(ev) != 1 || ev[0].(events.BuildingDemolished).BuildingID != int64(b.ID()) {
		t.Fatalf("拆除事件错误: %+v", ev)
	}
	if _, _, ok := terr.FindBuilding(terr.Core().ID()); !ok {
		t.Fatalf("核心建筑不受影响")
	}
}

func TestTerritoryManager_扩容(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")

	if h.s.Territories.Build(ctx, terr.ID(), 15, entity.Farm) != nil {
		t.Fatalf("扩容前 15 号槽位越界")
	}
	if !h.s.Territories.Extend(ctx, terr.ID(), 3) || terr.Capacity() != 18 {
		t.Fatalf("扩容到 18 失败")
	}
	if h.s.Territories.Build(ctx, terr.ID(), 15, entity.Farm) == nil {
		t.Fatalf("扩容后 15 号槽位可用")
	}
	if !h.s.Territories.Extend(ctx, terr.ID(), 10) || terr.Capacity() != entity.MaxSlotCapacity {
		t.Fatalf("扩容应截断到 20, got=%d", terr.Capacity())
	}
	if h.s.Territories.Extend(ctx, terr.ID(), 1) {
		t.Fatalf("已到上限应失败")
	}
	ev := h.rec.Of(eventbus.KindTerritoryExtended)
	if len(ev) != 2 || ev[1].(events.TerritoryExtended).New != 20 {
		t.Fatalf("扩容事件错误: %+v", ev)
	}
}

func TestTerritoryManager_成本与工期查询(t *testing.T) {
	h := newHarness(t)
	spec, _ := h.s.Tables().Buildings.Spec(entity.Farm)

	cost, ok := h.s.Territories.BuildCost(entity.Farm, 1)
	if !ok || cost != spec.BaseCost {
		t.Fatalf("1 级造价应等于基础造价: %v", cost)
	}
	d, ok := h.s.Territories.BuildTime(entity.Farm, 1)
	if !ok || d != spec.BaseTime {
		t.Fatalf("1 级工期应等于基础工期: %v", d)
	}
	if spec.ValueAt(1) != spec.BaseValue {
		t.Fatalf("1 级产量应等于基础产量")
	}
	if _, ok := h.s.Territories.BuildCost(entity.Farm, spec.MaxLevel+1); ok {
		t.Fatalf("超过满级应返回 false")
	}
}
