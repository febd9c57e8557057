package manager

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"Sanguo/modules/kit/errx"
	"Sanguo/modules/kit/logx"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TerritoryManager 领地和建筑。
// 建造/升级的顺序固定：校验 -> 扣资源 -> 改动网格，扣费失败时网格不变。
type TerritoryManager struct {
	s *Session
}

func (m *TerritoryManager) grid() *entity.TerritoryGrid {
	return m.s.player.Territories()
}

func (m *TerritoryManager) Len() int {
	return m.grid().Len()
}

func (m *TerritoryManager) Get(id entity.TerritoryID) (*entity.Territory, bool) {
	return m.grid().Get(id)
}

func (m *TerritoryManager) List() []*entity.Territory {
	return m.grid().List()
}

// BuildCost 建到 level 级的造价
func (m *TerritoryManager) BuildCost(bt entity.BuildingType, level int) (entity.Amounts, bool) {
	spec, ok := m.s.tables.Buildings.Spec(bt)
	if !ok || level < 1 || level > spec.MaxLevel {
		return entity.Amounts{}, false
	}
	return spec.CostAt(level), true
}

// BuildTime 建到 level 级的工期
func (m *TerritoryManager) BuildTime(bt entity.BuildingType, level int) (time.Duration, bool) {
	spec, ok := m.s.tables.Buildings.Spec(bt)
	if !ok || level < 1 || level > spec.MaxLevel {
		return 0, false
	}
	return spec.TimeAt(level), true
}

// CreateTerritory 达到领地上限返回 nil；核心建筑随领地直接落成
func (m *TerritoryManager) CreateTerritory(ctx context.Context, cityRef string) *entity.Territory {
	if m.grid().Full() {
		m.s.reject(ctx, "territory.create", ReasonTerritoryLimit,
			zap.String("city_ref", cityRef), zap.Int("count", m.Len()))
		return nil
	}
	core := entity.NewCompleted(entity.BuildingID(m.s.nextID()), entity.Palace, 1)
	t := entity.NewTerritory(entity.TerritoryID(m.s.nextID()), cityRef, core, m.s.now())
	if !m.grid().Add(t) {
		m.s.reject(ctx, "territory.create", ReasonTerritoryLimit, zap.String("city_ref", cityRef))
		return nil
	}
	m.s.markDirty()
	m.s.publish(ctx, events.TerritoryCreated{Base: m.s.base(), TerritoryID: int64(t.ID()), CityRef: cityRef})
	return t
}

// Build 在空槽位上开工一座 1 级建筑
func (m *TerritoryManager) Build(ctx context.Context, tid entity.TerritoryID, slot int, bt entity.BuildingType) *entity.Building {
	const action = "territory.build"
	t, ok := m.territory(ctx, action, tid)
	if !ok {
		return nil
	}
	spec, ok := m.s.tables.Buildings.Spec(bt)
	if !ok {
		m.s.missing(ctx, action, ReasonUnknownBuilding, zap.Uint8("building", uint8(bt)))
		return nil
	}
	if !spec.Buildable() {
		m.s.reject(ctx, action, ReasonBuildingNotBuildable, zap.String("building", bt.String()))
		return nil
	}
	if !t.InRange(slot) {
		m.s.missing(ctx, action, ReasonSlotOutOfRange,
			zap.Int64("territory_id", int64(tid)), zap.Int("slot", slot), zap.Int("capacity", t.Capacity()))
		return nil
	}
	if !t.SlotEmpty(slot) {
		m.s.reject(ctx, action, ReasonSlotOccupied, zap.Int64("territory_id", int64(tid)), zap.Int("slot", slot))
		return nil
	}
	cost := spec.CostAt(1)
	if !m.s.Resources.ConsumeMany(ctx, cost) {
		return nil
	}
	b := entity.NewConstruction(entity.BuildingID(m.s.nextID()), spec, m.s.now())
	if !t.Place(slot, b) {
		m.s.Resources.Refund(ctx, cost)
		err := errx.ErrInvariant.WithCause(fmt.Errorf("place building failed after validation"))
		logx.ReportSysErrorWithLoggerContext(m.s.scope(ctx), m.s.log, logx.NewSysLog(action, err),
			zap.Int64("territory_id", int64(tid)), zap.Int("slot", slot))
		return nil
	}
	m.s.markDirty()
	m.s.publish(ctx, events.BuildingConstructed{
		Base:        m.s.base(),
		TerritoryID: int64(tid),
		BuildingID:  int64(b.ID()),
		Building:    bt.String(),
		Slot:        slot,
		CompleteAt:  b.CompleteAt(),
	})
	return b
}

// Upgrade 满级或施工中返回 false；成功时等级立即 +1 并进入施工
func (m *TerritoryManager) Upgrade(ctx context.Context, tid entity.TerritoryID, bid entity.BuildingID) bool {
	const action = "territory.upgrade"
	t, ok := m.territory(ctx, action, tid)
	if !ok {
		return false
	}
	b, _, ok := t.FindBuilding(bid)
	if !ok {
		m.s.missing(ctx, action, ReasonBuildingNotFound,
			zap.Int64("territory_id", int64(tid)), zap.Int64("building_id", int64(bid)))
		return false
	}
	return m.upgrade(ctx, t, b)
}

// UpgradeCore 升级领地的核心建筑
func (m *TerritoryManager) UpgradeCore(ctx context.Context, tid entity.TerritoryID) bool {
	t, ok := m.territory(ctx, "territory.upgrade_core", tid)
	if !ok {
		return false
	}
	return m.upgrade(ctx, t, t.Core())
}

func (m *TerritoryManager) upgrade(ctx context.Context, t *entity.Territory, b *entity.Building) bool {
	const action = "territory.upgrade"
	spec, ok := m.s.tables.Buildings.Spec(b.Type())
	if !ok {
		m.s.missing(ctx, action, ReasonUnknownBuilding, zap.String("building", b.Type().String()))
		return false
	}
	fields := []zap.Field{
		zap.Int64("territory_id", int64(t.ID())),
		zap.Int64("building_id", int64(b.ID())),
		zap.Int("level", b.Level()),
	}
	if b.Constructing() {
		m.s.reject(ctx, action, ReasonBuildingConstructing, fields...)
		return false
	}
	if b.Level() >= spec.MaxLevel {
		m.s.reject(ctx, action, ReasonBuildingMaxLevel, fields...)
		return false
	}
	if !m.s.Resources.ConsumeMany(ctx, spec.CostAt(b.Level()+1)) {
		return false
	}
	b.StartUpgrade(spec, m.s.now())
	m.s.markDirty()
	m.s.publish(ctx, events.BuildingUpgraded{
		Base:        m.s.base(),
		TerritoryID: int64(t.ID()),
		BuildingID:  int64(b.ID()),
		Building:    b.Type().String(),
		Level:       b.Level(),
		CompleteAt:  b.CompleteAt(),
	})
	return true
}

// Demolish 拆除槽位上的建筑，不返还资源
func (m *TerritoryManager) Demolish(ctx context.Context, tid entity.TerritoryID, slot int) bool {
	const action = "territory.demolish"
	t, ok := m.territory(ctx, action, tid)
	if !ok {
		return false
	}
	if !t.InRange(slot) {
		m.s.missing(ctx, action, ReasonSlotOutOfRange,
			zap.Int64("territory_id", int64(tid)), zap.Int("slot", slot), zap.Int("capacity", t.Capacity()))
		return false
	}
	b, ok := t.Demolish(slot)
	if !ok {
		m.s.reject(ctx, action, ReasonSlotEmpty, zap.Int64("territory_id", int64(tid)), zap.Int("slot", slot))
		return false
	}
	m.s.markDirty()
	m.s.publish(ctx, events.BuildingDemolished{
		Base:        m.s.base(),
		TerritoryID: int64(tid),
		BuildingID:  int64(b.ID()),
		Building:    b.Type().String(),
		Slot:        slot,
		Level:       b.Level(),
	})
	m.s.Recalculate(ctx)
	return true
}

// Extend 科技扩容 n 个槽位，已到上限返回 false
func (m *TerritoryManager) Extend(ctx context.Context, tid entity.TerritoryID, n int) bool {
	const action = "territory.extend"
	t, ok := m.territory(ctx, action, tid)
	if !ok {
		return false
	}
	if n <= 0 {
		m.s.violated(ctx, action, ReasonNegativeAmount, zap.Int64("territory_id", int64(tid)), zap.Int("n", n))
		return false
	}
	if t.Capacity() >= entity.MaxSlotCapacity {
		m.s.reject(ctx, action, ReasonSlotCapacityMax, zap.Int64("territory_id", int64(tid)))
		return false
	}
	old, cur := t.ExtendCapacity(n)
	m.s.markDirty()
	m.s.publish(ctx, events.TerritoryExtended{Base: m.s.base(), TerritoryID: int64(tid), Old: old, New: cur})
	return true
}

// Tick 完成所有到期的施工，返回完工数量。由外部时钟驱动。
func (m *TerritoryManager) Tick(ctx context.Context, now time.Time) int {
	done := 0
	m.grid().EachBuilding(func(t *entity.Territory, b *entity.Building) {
		if !b.CompleteConstruction(now) {
			return
		}
		done++
		m.s.publish(ctx, events.BuildingCompleted{
			Base:        m.s.base(),
			TerritoryID: int64(t.ID()),
			BuildingID:  int64(b.ID()),
			Building:    b.Type().String(),
			Level:       b.Level(),
		})
	})
	if done > 0 {
		m.s.markDirty()
		m.s.Recalculate(ctx)
	}
	return done
}

func (m *TerritoryManager) territory(ctx context.Context, action string, id entity.TerritoryID) (*entity.Territory, bool) {
	t, ok := m.grid().Get(id)
	if !ok {
		m.s.missing(ctx, action, ReasonTerritoryNotFound, zap.Int64("territory_id", int64(id)))
	}
	return t, ok
}
