package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"context"

	"go.uber.org/zap"
)

type GeneralManager struct {
	s *Session
}

func (m *GeneralManager) roster() *entity.GeneralRoster {
	return m.s.player.Generals()
}

func (m *GeneralManager) Get(id entity.GeneralID) (*entity.General, bool) {
	return m.roster().Get(id)
}

func (m *GeneralManager) List() []*entity.General {
	return m.roster().List()
}

func (m *GeneralManager) Len() int {
	return m.roster().Len()
}

// Obtain 随机生成一名武将加入名册，名册已满返回 nil
func (m *GeneralManager) Obtain(ctx context.Context, rarity int, class entity.Class) *entity.General {
	const action = "general.obtain"
	if !class.Valid() {
		m.s.missing(ctx, action, ReasonUnknownClass, zap.Uint8("class", uint8(class)))
		return nil
	}
	if m.roster().Full() {
		m.s.reject(ctx, action, ReasonGeneralRosterFull, zap.Int("limit", m.roster().Limit()))
		return nil
	}
	g := entity.CreateRandom(entity.GeneralID(m.s.nextID()), rarity, class, m.s.rng, m.s.tables.Generals.Names(class))
	if !m.roster().Add(g) {
		m.s.reject(ctx, action, ReasonGeneralRosterFull, zap.Int("limit", m.roster().Limit()))
		return nil
	}
	m.s.markDirty()
	m.s.publish(ctx, events.GeneralObtained{
		Base:      m.s.base(),
		GeneralID: int64(g.ID()),
		Name:      g.Name(),
		Class:     class.String(),
		Rarity:    g.Rarity(),
	})
	return g
}

// AddExperience 返回是否至少升了一级；到达等级上限后的经验留存
func (m *GeneralManager) AddExperience(ctx context.Context, id entity.GeneralID, amount int64) bool {
	const action = "general.add_exp"
	g, ok := m.general(ctx, action, id)
	if !ok {
		return false
	}
	if amount < 0 {
		m.s.violated(ctx, action, ReasonNegativeAmount, zap.Int64("general_id", int64(id)), zap.Int64("amount", amount))
		return false
	}
	old := g.Level()
	gained, ok := g.AddExperience(amount)
	if !ok {
		return false
	}
	m.s.markDirty()
	if gained == 0 {
		return false
	}
	m.leveled(ctx, g, old)
	return true
}

// StarUp 满星返回 false；成功后用留存经验继续升级
func (m *GeneralManager) StarUp(ctx context.Context, id entity.GeneralID) bool {
	const action = "general.star_up"
	g, ok := m.general(ctx, action, id)
	if !ok {
		return false
	}
	if !g.StarUp() {
		m.s.reject(ctx, action, ReasonGeneralMaxStars, zap.Int64("general_id", int64(id)), zap.Int("stars", g.Stars()))
		return false
	}
	m.s.markDirty()
	m.s.publish(ctx, events.GeneralStarred{Base: m.s.base(), GeneralID: int64(id), Stars: g.Stars()})
	old := g.Level()
	if g.ApplyBankedExperience() > 0 {
		m.leveled(ctx, g, old)
	}
	return true
}

func (m *GeneralManager) Dismiss(ctx context.Context, id entity.GeneralID) bool {
	g, ok := m.roster().Remove(id)
	if !ok {
		m.s.missing(ctx, "general.dismiss", ReasonGeneralNotFound, zap.Int64("general_id", int64(id)))
		return false
	}
	m.s.markDirty()
	m.s.publish(ctx, events.GeneralDismissed{Base: m.s.base(), GeneralID: int64(id), Name: g.Name()})
	return true
}

func (m *GeneralManager) BonusForUnitType(id entity.GeneralID, u entity.UnitType) (float64, bool) {
	g, ok := m.Get(id)
	if !ok {
		return 0, false
	}
	return g.BonusForUnitType(u), true
}

func (m *GeneralManager) MaxTroops(id entity.GeneralID) (int64, bool) {
	g, ok := m.Get(id)
	if !ok {
		return 0, false
	}
	return g.MaxTroops(m.s.tables.Generals.Troops), true
}

func (m *GeneralManager) Power(id entity.GeneralID) (float64, bool) {
	g, ok := m.Get(id)
	if !ok {
		return 0, false
	}
	return g.Power(), true
}

func (m *GeneralManager) general(ctx context.Context, action string, id entity.GeneralID) (*entity.General, bool) {
	g, ok := m.roster().Get(id)
	if !ok {
		m.s.missing(ctx, action, ReasonGeneralNotFound, zap.Int64("general_id", int64(id)))
	}
	return g, ok
}

func (m *GeneralManager) leveled(ctx context.Context, g *entity.General, old int) {
	m.s.publish(ctx, events.GeneralLeveled{Base: m.s.base(), GeneralID: int64(g.ID()), Old: old, New: g.Level()})
}
