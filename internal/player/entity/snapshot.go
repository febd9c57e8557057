package entity

import (
	"fmt"
	"time"
)

// PlayerPersistSnapshot 写库单元，version 单调递增，旧版本不会覆盖新版本
type PlayerPersistSnapshot struct {
	Version uint64
	State   PlayerSnapshot
}

// PlayerSnapshot 玩家状态的纯数据形式，字段一一对应，可直接 JSON/BSON 编码
type PlayerSnapshot struct {
	PlayerID    int64               `json:"player_id" bson:"player_id"`
	Resources   ResourceSnapshot    `json:"resources" bson:"resources"`
	Army        ArmySnapshot        `json:"army" bson:"army"`
	Territories []TerritorySnapshot `json:"territories" bson:"territories"`
	Generals    []GeneralSnapshot   `json:"generals" bson:"generals"`
	GeneralCap  int                 `json:"general_cap" bson:"general_cap"`
}

type ResourceSnapshot struct {
	Amounts map[string]int64 `json:"amounts" bson:"amounts"`
	Caps    map[string]int64 `json:"caps" bson:"caps"`
}

type ArmySnapshot struct {
	Counts map[string]int64 `json:"counts" bson:"counts"`
	Cap    int64            `json:"cap" bson:"cap"`
}

type BuildingSnapshot struct {
	ID           int64     `json:"id" bson:"id"`
	Type         string    `json:"type" bson:"type"`
	Level        int       `json:"level" bson:"level"`
	Constructing bool      `json:"constructing" bson:"constructing"`
	CompleteAt   time.Time `json:"complete_at" bson:"complete_at"`
}

type SlotSnapshot struct {
	Slot     int              `json:"slot" bson:"slot"`
	Building BuildingSnapshot `json:"building" bson:"building"`
}

type TerritorySnapshot struct {
	ID        int64            `json:"id" bson:"id"`
	CityRef   string           `json:"city_ref" bson:"city_ref"`
	Capacity  int              `json:"capacity" bson:"capacity"`
	Core      BuildingSnapshot `json:"core" bson:"core"`
	Slots     []SlotSnapshot   `json:"slots" bson:"slots"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}

type GeneralSnapshot struct {
	ID           int64   `json:"id" bson:"id"`
	Name         string  `json:"name" bson:"name"`
	Class        string  `json:"class" bson:"class"`
	Rarity       int     `json:"rarity" bson:"rarity"`
	Level        int     `json:"level" bson:"level"`
	Stars        int     `json:"stars" bson:"stars"`
	Exp          int64   `json:"exp" bson:"exp"`
	Strength     float64 `json:"strength" bson:"strength"`
	Intelligence float64 `json:"intelligence" bson:"intelligence"`
	Command      float64 `json:"command" bson:"command"`
	Speed        float64 `json:"speed" bson:"speed"`
}

func (p *Player) Snapshot() PlayerSnapshot {
	s := PlayerSnapshot{
		PlayerID: int64(p.id),
		Resources: ResourceSnapshot{
			Amounts: p.resources.Amounts().Map(),
			Caps:    p.resources.Caps().Map(),
		},
		Army: ArmySnapshot{
			Counts: make(map[string]int64, UnitTypeCount),
			Cap:    p.army.Cap(),
		},
		Territories: make([]TerritorySnapshot, 0, p.territories.Len()),
		Generals:    make([]GeneralSnapshot, 0, p.generals.Len()),
		GeneralCap:  p.generals.Limit(),
	}
	for _, u := range UnitTypes() {
		s.Army.Counts[u.String()] = p.army.Count(u)
	}
	for _, t := range p.territories.List() {
		s.Territories = append(s.Territories, t.Snapshot())
	}
	for _, g := range p.generals.List() {
		s.Generals = append(s.Generals, g.Snapshot())
	}
	return s
}

func (t *Territory) Snapshot() TerritorySnapshot {
	ts := TerritorySnapshot{
		ID:        int64(t.id),
		CityRef:   t.cityRef,
		Capacity:  t.capacity,
		Core:      t.core.Snapshot(),
		Slots:     make([]SlotSnapshot, 0, t.UsedSlots()),
		CreatedAt: t.createdAt,
	}
	t.EachSlot(func(slot int, b *Building) {
		ts.Slots = append(ts.Slots, SlotSnapshot{Slot: slot, Building: b.Snapshot()})
	})
	return ts
}

func (g *General) Snapshot() GeneralSnapshot {
	return GeneralSnapshot{
		ID:           int64(g.id),
		Name:         g.name,
		Class:        g.class.String(),
		Rarity:       g.rarity,
		Level:        g.level,
		Stars:        g.stars,
		Exp:          g.exp,
		Strength:     g.stats.Strength,
		Intelligence: g.stats.Intelligence,
		Command:      g.stats.Command,
		Speed:        g.stats.Speed,
	}
}

// Snapshot nil 建筑返回零值
func (b *Building) Snapshot() BuildingSnapshot {
	if b == nil {
		return BuildingSnapshot{}
	}
	return BuildingSnapshot{
		ID:           int64(b.id),
		Type:         b.btype.String(),
		Level:        b.level,
		Constructing: b.constructing,
		CompleteAt:   b.completeAt,
	}
}

// HydratePlayer 从快照恢复，名字未知或数值越界时返回 ErrSnapshotInvalid
func HydratePlayer(s PlayerSnapshot) (*Player, error) {
	amounts, err := AmountsFromMap(s.Resources.Amounts)
	if err != nil {
		return nil, invalidSnapshot(s.PlayerID, err)
	}
	caps, err := AmountsFromMap(s.Resources.Caps)
	if err != nil {
		return nil, invalidSnapshot(s.PlayerID, err)
	}
	ledger := NewResourceLedger(amounts, caps)

	army := NewArmyRoster(s.Army.Cap)
	for name, n := range s.Army.Counts {
		u, ok := ParseUnitType(name)
		if !ok {
			return nil, invalidSnapshot(s.PlayerID, fmt.Errorf("unknown unit type %q", name))
		}
		if n < 0 {
			return nil, invalidSnapshot(s.PlayerID, fmt.Errorf("negative soldiers %s=%d", name, n))
		}
		army.counts[u] = n
	}
	// 上限不低于已有兵力
	army.SetCap(s.Army.Cap)

	grid := NewTerritoryGrid()
	for _, ts := range s.Territories {
		t, err := hydrateTerritory(ts)
		if err != nil {
			return nil, invalidSnapshot(s.PlayerID, err)
		}
		if !grid.Add(t) {
			return nil, invalidSnapshot(s.PlayerID, fmt.Errorf("territory %d rejected", ts.ID))
		}
	}

	roster := NewGeneralRoster(s.GeneralCap)
	for _, gs := range s.Generals {
		class, ok := ParseClass(gs.Class)
		if !ok {
			return nil, invalidSnapshot(s.PlayerID, fmt.Errorf("unknown class %q", gs.Class))
		}
		if gs.Stars < 1 || gs.Stars > MaxStars {
			return nil, invalidSnapshot(s.PlayerID, fmt.Errorf("general %d stars %d out of range", gs.ID, gs.Stars))
		}
		if levelCap := min(MaxLevel, gs.Stars*LevelsPerStar); gs.Level < 1 || gs.Level > levelCap {
			return nil, invalidSnapshot(s.PlayerID, fmt.Errorf("general %d level %d exceeds cap %d", gs.ID, gs.Level, levelCap))
		}
		g := RestoreGeneral(GeneralID(gs.ID), gs.Name, class, gs.Rarity, gs.Level, gs.Stars, gs.Exp, Stats{
			Strength:     gs.Strength,
			Intelligence: gs.Intelligence,
			Command:      gs.Command,
			Speed:        gs.Speed,
		})
		// 快照里的名册上限只约束新增，不拒绝已有武将
		roster.byID[g.id] = g
		roster.order = append(roster.order, g.id)
	}

	return NewPlayer(PlayerID(s.PlayerID), ledger, army, grid, roster), nil
}

func hydrateTerritory(ts TerritorySnapshot) (*Territory, error) {
	core, err := hydrateBuilding(ts.Core)
	if err != nil {
		return nil, err
	}
	t := NewTerritory(TerritoryID(ts.ID), ts.CityRef, core, ts.CreatedAt)
	if ts.Capacity < BaseSlotCapacity || ts.Capacity > MaxSlotCapacity {
		return nil, fmt.Errorf("territory %d capacity %d out of range", ts.ID, ts.Capacity)
	}
	t.capacity = ts.Capacity
	for _, slot := range ts.Slots {
		b, err := hydrateBuilding(slot.Building)
		if err != nil {
			return nil, err
		}
		if !t.Place(slot.Slot, b) {
			return nil, fmt.Errorf("territory %d slot %d invalid", ts.ID, slot.Slot)
		}
	}
	return t, nil
}

func hydrateBuilding(bs BuildingSnapshot) (*Building, error) {
	bt, ok := ParseBuildingType(bs.Type)
	if !ok {
		return nil, fmt.Errorf("unknown building type %q", bs.Type)
	}
	if bs.Level < 1 || bs.Level > MaxBuildingLevel {
		return nil, fmt.Errorf("building %d level %d out of [1,%d]", bs.ID, bs.Level, MaxBuildingLevel)
	}
	return &Building{
		id:           BuildingID(bs.ID),
		btype:        bt,
		level:        bs.Level,
		constructing: bs.Constructing,
		completeAt:   bs.CompleteAt,
	}, nil
}

func invalidSnapshot(playerID int64, cause error) error {
	return ErrSnapshotInvalid.WithCause(cause).WithData("player_id", playerID)
}
