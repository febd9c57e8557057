package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"Sanguo/internal/shared/eventbus"
	"context"
	"testing"
	"time"
)

func TestResourceManager_ConsumeMany场景(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if !h.s.Resources.ConsumeMany(ctx, entity.Amounts{entity.Copper: 100, entity.Food: 50}) {
		t.Fatalf("应扣费成功")
	}
	if got := h.s.Resources.Amounts(); got != (entity.Amounts{900, 500, 500, 750}) {
		t.Fatalf("扣费后余额错误: %v", got)
	}
	if n := len(h.rec.Of(eventbus.KindResourceChanged)); n != 2 {
		t.Fatalf("两种资源变化应发布 2 个事件, got=%d", n)
	}

	h.rec.Reset()
	if h.s.Resources.ConsumeMany(ctx, entity.Amounts{entity.Copper: 5000}) {
		t.Fatalf("余额不足应失败")
	}
	if got := h.s.Resources.Amounts(); got != (entity.Amounts{900, 500, 500, 750}) {
		t.Fatalf("失败时账本不应变化: %v", got)
	}
	if len(h.rec.events) != 0 {
		t.Fatalf("失败时不应发布事件")
	}
}

func TestResourceManager_全有或全无(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.s.Resources.Amounts()

	// 铜够，木不够
	if h.s.Resources.ConsumeMany(ctx, entity.Amounts{entity.Copper: 10, entity.Wood: 501}) {
		t.Fatalf("任一资源不足应整体失败")
	}
	if h.s.Resources.Amounts() != before {
		t.Fatalf("部分扣除发生了")
	}
}

func TestResourceManager_Add钳制且只在变化时发布(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ch := h.s.Resources.Add(ctx, entity.Copper, 1<<62)
	if ch.New != 10000 || h.s.Resources.Get(entity.Copper) != 10000 {
		t.Fatalf("应钳制到上限: %+v", ch)
	}
	ev := h.rec.Of(eventbus.KindResourceChanged)
	if len(ev) != 1 {
		t.Fatalf("应发布 1 个事件")
	}
	rc := ev[0].(events.ResourceChanged)
	if rc.Currency != "copper" || rc.Old != 1000 || rc.New != 10000 {
		t.Fatalf("事件内容错误: %+v", rc)
	}

	h.rec.Reset()
	if ch := h.s.Resources.Add(ctx, entity.Copper, 5); ch.Changed() {
		t.Fatalf("已在上限，不应变化")
	}
	if len(h.rec.events) != 0 {
		t.Fatalf("无变化不应发布")
	}

	h.s.Resources.Add(ctx, entity.Food, -1<<62)
	if h.s.Resources.Get(entity.Food) != 0 {
		t.Fatalf("应钳制到 0")
	}
}

func TestResourceManager_加后再扣回到原值(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, c := range entity.Currencies() {
		before := h.s.Resources.Get(c)
		h.s.Resources.Add(ctx, c, 123)
		if !h.s.Resources.Consume(ctx, c, 123) {
			t.Fatalf("%s 应扣费成功", c)
		}
		if h.s.Resources.Get(c) != before {
			t.Fatalf("%s 应回到原值 %d, got=%d", c, before, h.s.Resources.Get(c))
		}
	}
}

func TestResourceManager_产出周期(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if got := h.s.Resources.ProductionPerInterval(); got != (entity.Amounts{10, 10, 10, 10}) {
		t.Fatalf("无建筑时只有基础收入: %v", got)
	}

	terr := h.s.Territories.CreateTerritory(ctx, "luoyang")
	if h.s.Territories.Build(ctx, terr.ID(), 0, entity.Farm) == nil {
		t.Fatalf("建造农田失败")
	}
	if got := h.s.Resources.ProductionPerInterval(); got[entity.Food] != 10 {
		t.Fatalf("施工中的农田不产出: %v", got)
	}

	h.clock.Advance(time.Minute)
	h.s.Territories.Tick(ctx, h.clock.Now())
	if got := h.s.Resources.ProductionPerInterval(); got[entity.Food] != 30 {
		t.Fatalf("1 级农田产出 20 + 基础 10, got=%v", got)
	}

	h.rec.Reset()
	before := h.s.Resources.Amounts()
	changes := h.s.Resources.Accrue(ctx)
	if len(changes) != 4 {
		t.Fatalf("四种资源都应变化, got=%d", len(changes))
	}
	if h.s.Resources.Get(entity.Food) != before[entity.Food]+30 {
		t.Fatalf("粮食应 +30")
	}
	acc := h.rec.Of(eventbus.KindResourceAccrued)
	if len(acc) != 1 || acc[0].(events.ResourceAccrued).Gained["food"] != 30 {
		t.Fatalf("应发布一次 ResourceAccrued: %+v", acc)
	}
}

func TestResourceManager_满仓不发布产出(t *testing.T) {
	d := DefaultDefaults()
	d.StartResources = entity.Amounts{100, 100, 100, 100}
	d.ResourceCap = 100
	h := newHarnessWith(t, d)

	if changes := h.s.Resources.Accrue(context.Background()); changes != nil {
		t.Fatalf("满仓时不应有变化")
	}
	if len(h.rec.Of(eventbus.KindResourceAccrued)) != 0 {
		t.Fatalf("满仓时不应发布产出事件")
	}
}

func TestResourceManager_仓库提高上限(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	terr := h.s.Territories.CreateTerritory(ctx, "xuchang")
	if h.s.Territories.Build(ctx, terr.ID(), 3, entity.Warehouse) == nil {
		t.Fatalf("建造仓库失败")
	}
	if h.s.Resources.Cap(entity.Copper) != 10000 {
		t.Fatalf("施工中不生效")
	}
	h.clock.Advance(90 * time.Second)
	h.s.Territories.Tick(ctx, h.clock.Now())
	for _, c := range entity.Currencies() {
		if h.s.Resources.Cap(c) != 12000 {
			t.Fatalf("%s 上限应为 10000+2000, got=%d", c, h.s.Resources.Cap(c))
		}
	}

	h.s.Resources.Add(ctx, entity.Stone, 20000)
	if !h.s.Territories.Demolish(ctx, terr.ID(), 3) {
		t.Fatalf("拆除失败")
	}
	if h.s.Resources.Cap(entity.Stone) != 10000 || h.s.Resources.Get(entity.Stone) != 10000 {
		t.Fatalf("拆除仓库后上限回落并截断数量: cap=%d amount=%d",
			h.s.Resources.Cap(entity.Stone), h.s.Resources.Get(entity.Stone))
	}
}
