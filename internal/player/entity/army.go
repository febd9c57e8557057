package entity

// SoldierChange 单个兵种数量的一次变化
type SoldierChange struct {
	Unit UnitType
	Old  int64
	New  int64
}

func (c SoldierChange) Changed() bool {
	return c.Old != c.New
}

// ArmyRoster 兵力名册，不变量：各兵种 >= 0，总数 <= 上限
type ArmyRoster struct {
	counts [UnitTypeCount]int64
	limit  int64
}

func NewArmyRoster(limit int64) *ArmyRoster {
	return &ArmyRoster{limit: max(limit, 0)}
}

func (a *ArmyRoster) Count(u UnitType) int64 {
	if !u.Valid() {
		return 0
	}
	return a.counts[u]
}

func (a *ArmyRoster) Total() int64 {
	var sum int64
	for _, n := range a.counts {
		sum = satAdd(sum, n)
	}
	return sum
}

func (a *ArmyRoster) Cap() int64 {
	return a.limit
}

func (a *ArmyRoster) Headroom() int64 {
	return max(a.limit-a.Total(), 0)
}

// SetCap 调整上限；不会低于当前总兵力，已有部队不会因上限下降而消失
func (a *ArmyRoster) SetCap(limit int64) {
	a.limit = max(limit, a.Total(), 0)
}

// Recruit 招募 min(n, 剩余容量) 个，返回实际数量
func (a *ArmyRoster) Recruit(u UnitType, n int64) (int64, SoldierChange) {
	if !u.Valid() || n <= 0 {
		return 0, SoldierChange{Unit: u, Old: a.Count(u), New: a.Count(u)}
	}
	actual := min(n, a.Headroom())
	old := a.counts[u]
	a.counts[u] = old + actual
	return actual, SoldierChange{Unit: u, Old: old, New: a.counts[u]}
}

// Lose 战损，数量下限为 0，返回实际损失
func (a *ArmyRoster) Lose(u UnitType, n int64) (int64, SoldierChange) {
	if !u.Valid() || n <= 0 {
		return 0, SoldierChange{Unit: u, Old: a.Count(u), New: a.Count(u)}
	}
	old := a.counts[u]
	lost := min(n, old)
	a.counts[u] = old - lost
	return lost, SoldierChange{Unit: u, Old: old, New: a.counts[u]}
}

func (a *ArmyRoster) Counts() map[UnitType]int64 {
	out := make(map[UnitType]int64, UnitTypeCount)
	for _, u := range UnitTypes() {
		out[u] = a.counts[u]
	}
	return out
}
