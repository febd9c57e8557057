package entity

// GeneralRoster 武将名册，limit <= 0 表示不限数量
type GeneralRoster struct {
	order []GeneralID
	byID  map[GeneralID]*General
	limit int
}

func NewGeneralRoster(limit int) *GeneralRoster {
	return &GeneralRoster{
		byID:  make(map[GeneralID]*General),
		limit: limit,
	}
}

func (r *GeneralRoster) Len() int {
	return len(r.order)
}

func (r *GeneralRoster) Limit() int {
	return r.limit
}

func (r *GeneralRoster) Full() bool {
	return r.limit > 0 && len(r.order) >= r.limit
}

func (r *GeneralRoster) Add(g *General) bool {
	if g == nil || r.Full() {
		return false
	}
	if _, ok := r.byID[g.id]; ok {
		return false
	}
	r.byID[g.id] = g
	r.order = append(r.order, g.id)
	return true
}

func (r *GeneralRoster) Get(id GeneralID) (*General, bool) {
	g, ok := r.byID[id]
	return g, ok
}

func (r *GeneralRoster) Remove(id GeneralID) (*General, bool) {
	g, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	for i, cur := range r.order {
		if cur == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return g, true
}

// List 按获得顺序
func (r *GeneralRoster) List() []*General {
	out := make([]*General, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
