package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"context"

	"go.uber.org/zap"
)

// ResourceManager 资源账本的唯一写入口
type ResourceManager struct {
	s *Session
}

func (m *ResourceManager) ledger() *entity.ResourceLedger {
	return m.s.player.Resources()
}

func (m *ResourceManager) Get(c entity.Currency) int64 {
	return m.ledger().Get(c)
}

func (m *ResourceManager) Cap(c entity.Currency) int64 {
	return m.ledger().Cap(c)
}

func (m *ResourceManager) Amounts() entity.Amounts {
	return m.ledger().Amounts()
}

func (m *ResourceManager) Caps() entity.Amounts {
	return m.ledger().Caps()
}

func (m *ResourceManager) HasEnough(c entity.Currency, amount int64) bool {
	return m.ledger().HasEnough(c, amount)
}

func (m *ResourceManager) HasEnoughAll(cost entity.Amounts) bool {
	return m.ledger().HasEnoughAll(cost)
}

// Add 钳制到 [0, cap]，值变化时发布 ResourceChanged
func (m *ResourceManager) Add(ctx context.Context, c entity.Currency, delta int64) entity.Change {
	if !c.Valid() {
		m.s.missing(ctx, "resource.add", ReasonUnknownCurrency, zap.Uint8("currency", uint8(c)))
		return entity.Change{Currency: c}
	}
	ch := m.ledger().Add(c, delta)
	m.notify(ctx, ch)
	return ch
}

func (m *ResourceManager) Consume(ctx context.Context, c entity.Currency, amount int64) bool {
	if !c.Valid() {
		m.s.missing(ctx, "resource.consume", ReasonUnknownCurrency, zap.Uint8("currency", uint8(c)))
		return false
	}
	if amount < 0 {
		m.s.violated(ctx, "resource.consume", ReasonNegativeAmount, zap.String("currency", c.String()), zap.Int64("amount", amount))
		return false
	}
	ch, ok := m.ledger().Consume(c, amount)
	if !ok {
		m.s.reject(ctx, "resource.consume", ReasonResourceInsufficient,
			zap.String("currency", c.String()), zap.Int64("need", amount), zap.Int64("have", ch.Old))
		return false
	}
	m.notify(ctx, ch)
	return true
}

// ConsumeMany 全部足够才扣，任何一项不足则账本不变
func (m *ResourceManager) ConsumeMany(ctx context.Context, cost entity.Amounts) bool {
	for _, c := range entity.Currencies() {
		if cost[c] < 0 {
			m.s.violated(ctx, "resource.consume_many", ReasonNegativeAmount, zap.Any("cost", cost.Map()))
			return false
		}
	}
	changes, ok := m.ledger().ConsumeMany(cost)
	if !ok {
		m.s.reject(ctx, "resource.consume_many", ReasonResourceInsufficient,
			zap.Any("cost", cost.Map()), zap.Any("have", m.Amounts().Map()))
		return false
	}
	for _, ch := range changes {
		m.notify(ctx, ch)
	}
	return true
}

// Refund 退还已扣除的资源，超出上限的部分丢弃
func (m *ResourceManager) Refund(ctx context.Context, amounts entity.Amounts) {
	for _, ch := range m.ledger().AddMany(amounts) {
		m.notify(ctx, ch)
	}
}

// ProductionPerInterval 一个产出周期的产量：基础收入 + 已生效的生产建筑
func (m *ResourceManager) ProductionPerInterval() entity.Amounts {
	out := m.s.defaults.BaseIncome
	m.s.player.Territories().EachBuilding(func(_ *entity.Territory, b *entity.Building) {
		spec, ok := m.s.tables.Buildings.Spec(b.Type())
		if !ok || spec.Effect != entity.EffectProduce {
			return
		}
		var gain entity.Amounts
		gain[spec.Produces] = spec.ValueAt(b.EffectiveLevel())
		out = out.Plus(gain)
	})
	return out
}

// Accrue 由外部定时器每个周期调用一次
func (m *ResourceManager) Accrue(ctx context.Context) []entity.Change {
	changes := m.ledger().AddMany(m.ProductionPerInterval())
	if len(changes) == 0 {
		return nil
	}
	gained := make(map[string]int64, len(changes))
	for _, ch := range changes {
		m.notify(ctx, ch)
		gained[ch.Currency.String()] = ch.Delta()
	}
	m.s.publish(ctx, events.ResourceAccrued{Base: m.s.base(), Gained: gained})
	return changes
}

// RecalculateCaps 上限 = 基础上限 + 各仓库生效等级的容量；上限下降时截断数量
func (m *ResourceManager) RecalculateCaps(ctx context.Context) {
	extra := int64(0)
	m.s.player.Territories().EachBuilding(func(_ *entity.Territory, b *entity.Building) {
		spec, ok := m.s.tables.Buildings.Spec(b.Type())
		if !ok || spec.Effect != entity.EffectStorage {
			return
		}
		extra += spec.ValueAt(b.EffectiveLevel())
	})
	limit := m.s.defaults.ResourceCap + extra
	for _, c := range entity.Currencies() {
		if m.Cap(c) == limit {
			continue
		}
		m.notify(ctx, m.ledger().SetCap(c, limit))
		m.s.markDirty()
	}
}

func (m *ResourceManager) notify(ctx context.Context, ch entity.Change) {
	if !ch.Changed() {
		return
	}
	m.s.markDirty()
	m.s.publish(ctx, events.ResourceChanged{
		Base:     m.s.base(),
		Currency: ch.Currency.String(),
		Old:      ch.Old,
		New:      ch.New,
	})
}
