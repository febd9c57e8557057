package entity

// TerritoryGrid 玩家名下的领地集合，最多 MaxTerritories 块
type TerritoryGrid struct {
	list []*Territory
}

func NewTerritoryGrid() *TerritoryGrid {
	return &TerritoryGrid{}
}

func (g *TerritoryGrid) Len() int {
	return len(g.list)
}

func (g *TerritoryGrid) Full() bool {
	return len(g.list) >= MaxTerritories
}

// Add 已满或 id 重复返回 false
func (g *TerritoryGrid) Add(t *Territory) bool {
	if t == nil || g.Full() {
		return false
	}
	if _, ok := g.Get(t.id); ok {
		return false
	}
	g.list = append(g.list, t)
	return true
}

func (g *TerritoryGrid) Get(id TerritoryID) (*Territory, bool) {
	for _, t := range g.list {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// List 按创建顺序
func (g *TerritoryGrid) List() []*Territory {
	out := make([]*Territory, len(g.list))
	copy(out, g.list)
	return out
}

// EachBuilding 遍历全部建筑（含核心建筑）
func (g *TerritoryGrid) EachBuilding(fn func(t *Territory, b *Building)) {
	for _, t := range g.list {
		for _, b := range t.Buildings() {
			fn(t, b)
		}
	}
}
