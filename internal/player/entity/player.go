package entity

type PlayerID int64

// Player 单个玩家的全部经济与养成状态。
// 由所属的 PlayerActor 单线程持有，不做并发保护。
type Player struct {
	id          PlayerID
	resources   *ResourceLedger
	army        *ArmyRoster
	territories *TerritoryGrid
	generals    *GeneralRoster
	dirty       bool
}

func NewPlayer(id PlayerID, resources *ResourceLedger, army *ArmyRoster, territories *TerritoryGrid, generals *GeneralRoster) *Player {
	if territories == nil {
		territories = NewTerritoryGrid()
	}
	if generals == nil {
		generals = NewGeneralRoster(0)
	}
	return &Player{
		id:          id,
		resources:   resources,
		army:        army,
		territories: territories,
		generals:    generals,
	}
}

func (p *Player) ID() PlayerID {
	return p.id
}

func (p *Player) Resources() *ResourceLedger {
	return p.resources
}

func (p *Player) Army() *ArmyRoster {
	return p.army
}

func (p *Player) Territories() *TerritoryGrid {
	return p.territories
}

func (p *Player) Generals() *GeneralRoster {
	return p.generals
}

func (p *Player) MarkDirty() {
	if p == nil {
		return
	}
	p.dirty = true
}

func (p *Player) Dirty() bool {
	if p == nil {
		return false
	}
	return p.dirty
}

func (p *Player) ClearDirty() {
	if p == nil {
		return
	}
	p.dirty = false
}

// BuildPersistSnapshot 脏时生成带版本号的快照
func (p *Player) BuildPersistSnapshot(version uint64) (*PlayerPersistSnapshot, bool) {
	if p == nil || !p.dirty {
		return nil, false
	}
	return &PlayerPersistSnapshot{
		Version: version,
		State:   p.Snapshot(),
	}, true
}
