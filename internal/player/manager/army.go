package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"context"

	"go.uber.org/zap"
)

type ArmyManager struct {
	s *Session
}

func (m *ArmyManager) roster() *entity.ArmyRoster {
	return m.s.player.Army()
}

func (m *ArmyManager) Count(u entity.UnitType) int64 {
	return m.roster().Count(u)
}

func (m *ArmyManager) Total() int64 {
	return m.roster().Total()
}

func (m *ArmyManager) Cap() int64 {
	return m.roster().Cap()
}

func (m *ArmyManager) Headroom() int64 {
	return m.roster().Headroom()
}

func (m *ArmyManager) Counts() map[entity.UnitType]int64 {
	return m.roster().Counts()
}

func (m *ArmyManager) CounterMultiplier(attacker, defender entity.UnitType) float64 {
	return entity.CounterMultiplier(attacker, defender)
}

// Recruit 免费招募，返回实际入伍数量（可能小于请求数）
func (m *ArmyManager) Recruit(ctx context.Context, u entity.UnitType, n int64) int64 {
	if !m.check(ctx, "army.recruit", u, n) {
		return 0
	}
	actual, ch := m.roster().Recruit(u, n)
	if actual == 0 {
		m.s.reject(ctx, "army.recruit", ReasonTroopCapReached,
			zap.String("unit", u.String()), zap.Int64("requested", n), zap.Int64("cap", m.Cap()))
		return 0
	}
	m.trained(ctx, ch, actual, false)
	return actual
}

// Train 先按容量截断数量，再按实际数量扣费；资源不足时不招募
func (m *ArmyManager) Train(ctx context.Context, u entity.UnitType, n int64) int64 {
	if !m.check(ctx, "army.train", u, n) {
		return 0
	}
	spec, ok := m.s.tables.Units.Spec(u)
	if !ok {
		m.s.missing(ctx, "army.train", ReasonUnknownUnit, zap.String("unit", u.String()))
		return 0
	}
	if !m.Unlocked(u) {
		m.s.reject(ctx, "army.train", ReasonUnitLocked,
			zap.String("unit", u.String()), zap.String("requires", spec.Requires.String()))
		return 0
	}
	actual := min(n, m.Headroom())
	if actual == 0 {
		m.s.reject(ctx, "army.train", ReasonTroopCapReached,
			zap.String("unit", u.String()), zap.Int64("requested", n), zap.Int64("cap", m.Cap()))
		return 0
	}
	if !m.s.Resources.ConsumeMany(ctx, spec.Cost.Times(actual)) {
		return 0
	}
	got, ch := m.roster().Recruit(u, actual)
	m.trained(ctx, ch, got, true)
	return got
}

// Lose 战损，数量下限 0，返回实际损失
func (m *ArmyManager) Lose(ctx context.Context, u entity.UnitType, n int64) int64 {
	if !m.check(ctx, "army.lose", u, n) {
		return 0
	}
	lost, ch := m.roster().Lose(u, n)
	if ch.Changed() {
		m.s.markDirty()
		m.s.publish(ctx, events.SoldiersChanged{Base: m.s.base(), Unit: u.String(), Old: ch.Old, New: ch.New})
	}
	return lost
}

// Unlocked 兵种要求的建筑在任一领地已落成
func (m *ArmyManager) Unlocked(u entity.UnitType) bool {
	spec, ok := m.s.tables.Units.Spec(u)
	if !ok {
		return false
	}
	unlocked := false
	m.s.player.Territories().EachBuilding(func(_ *entity.Territory, b *entity.Building) {
		if b.Type() == spec.Requires && b.EffectiveLevel() > 0 {
			unlocked = true
		}
	})
	return unlocked
}

// RecalculateCap 兵力上限 = 基础上限 + 各兵营生效等级的容量
func (m *ArmyManager) RecalculateCap(ctx context.Context) {
	extra := int64(0)
	m.s.player.Territories().EachBuilding(func(_ *entity.Territory, b *entity.Building) {
		spec, ok := m.s.tables.Buildings.Spec(b.Type())
		if !ok || spec.Effect != entity.EffectTroopCap {
			return
		}
		extra += spec.ValueAt(b.EffectiveLevel())
	})
	old := m.Cap()
	m.roster().SetCap(m.s.defaults.TroopCap + extra)
	if m.Cap() != old {
		m.s.markDirty()
		m.s.log.WithContext(m.s.scope(ctx)).Debug("troop cap changed", zap.Int64("old", old), zap.Int64("new", m.Cap()))
	}
}

func (m *ArmyManager) check(ctx context.Context, action string, u entity.UnitType, n int64) bool {
	if !u.Valid() {
		m.s.missing(ctx, action, ReasonUnknownUnit, zap.Uint8("unit", uint8(u)))
		return false
	}
	if n < 0 {
		m.s.violated(ctx, action, ReasonNegativeAmount, zap.String("unit", u.String()), zap.Int64("count", n))
		return false
	}
	return n > 0
}

func (m *ArmyManager) trained(ctx context.Context, ch entity.SoldierChange, actual int64, paid bool) {
	m.s.markDirty()
	m.s.publish(ctx, events.SoldiersChanged{Base: m.s.base(), Unit: ch.Unit.String(), Old: ch.Old, New: ch.New})
	m.s.publish(ctx, events.SoldiersTrained{Base: m.s.base(), Unit: ch.Unit.String(), Count: actual, Paid: paid})
}
