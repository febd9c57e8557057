package entity

// Change 单个资源的一次变化，Old == New 表示未变化
type Change struct {
	Currency Currency
	Old      int64
	New      int64
}

func (c Change) Changed() bool {
	return c.Old != c.New
}

func (c Change) Delta() int64 {
	return c.New - c.Old
}

// ResourceLedger 玩家资源账本，不变量：0 <= amount <= cap
type ResourceLedger struct {
	amounts Amounts
	caps    Amounts
}

func NewResourceLedger(start, caps Amounts) *ResourceLedger {
	l := &ResourceLedger{}
	for _, c := range Currencies() {
		l.caps[c] = max(caps[c], 0)
		l.amounts[c] = clamp(start[c], 0, l.caps[c])
	}
	return l
}

func (l *ResourceLedger) Get(c Currency) int64 {
	if !c.Valid() {
		return 0
	}
	return l.amounts[c]
}

func (l *ResourceLedger) Cap(c Currency) int64 {
	if !c.Valid() {
		return 0
	}
	return l.caps[c]
}

func (l *ResourceLedger) Amounts() Amounts {
	return l.amounts
}

func (l *ResourceLedger) Caps() Amounts {
	return l.caps
}

// HasEnough 负数请求视为非法，返回 false
func (l *ResourceLedger) HasEnough(c Currency, amount int64) bool {
	if !c.Valid() || amount < 0 {
		return false
	}
	return l.amounts[c] >= amount
}

func (l *ResourceLedger) HasEnoughAll(cost Amounts) bool {
	for _, c := range Currencies() {
		if !l.HasEnough(c, cost[c]) {
			return false
		}
	}
	return true
}

// Set 直接设置数量，钳制到 [0, cap]
func (l *ResourceLedger) Set(c Currency, value int64) Change {
	if !c.Valid() {
		return Change{Currency: c}
	}
	old := l.amounts[c]
	l.amounts[c] = clamp(value, 0, l.caps[c])
	return Change{Currency: c, Old: old, New: l.amounts[c]}
}

// Add 饱和加减，结果钳制到 [0, cap]
func (l *ResourceLedger) Add(c Currency, delta int64) Change {
	if !c.Valid() {
		return Change{Currency: c}
	}
	return l.Set(c, satAdd(l.amounts[c], delta))
}

// Consume 余额不足或数量为负时不改动并返回 false；数量为 0 视为成功
func (l *ResourceLedger) Consume(c Currency, amount int64) (Change, bool) {
	if !l.HasEnough(c, amount) {
		return Change{Currency: c, Old: l.Get(c), New: l.Get(c)}, false
	}
	old := l.amounts[c]
	l.amounts[c] = old - amount
	return Change{Currency: c, Old: old, New: l.amounts[c]}, true
}

// ConsumeMany 全部足够才扣除，否则一项都不动
func (l *ResourceLedger) ConsumeMany(cost Amounts) ([]Change, bool) {
	if !l.HasEnoughAll(cost) {
		return nil, false
	}
	changes := make([]Change, 0, CurrencyCount)
	for _, c := range Currencies() {
		if cost[c] == 0 {
			continue
		}
		ch, _ := l.Consume(c, cost[c])
		changes = append(changes, ch)
	}
	return changes, true
}

// AddMany 批量增加，只返回实际变化的项
func (l *ResourceLedger) AddMany(delta Amounts) []Change {
	changes := make([]Change, 0, CurrencyCount)
	for _, c := range Currencies() {
		if delta[c] == 0 {
			continue
		}
		if ch := l.Add(c, delta[c]); ch.Changed() {
			changes = append(changes, ch)
		}
	}
	return changes
}

// SetCap 调整上限；上限降低时数量被截断，返回数量的变化
func (l *ResourceLedger) SetCap(c Currency, limit int64) Change {
	if !c.Valid() {
		return Change{Currency: c}
	}
	l.caps[c] = max(limit, 0)
	return l.Set(c, l.amounts[c])
}
