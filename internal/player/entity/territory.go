package entity

import "time"

type TerritoryID int64

const (
	BaseSlotCapacity = 15
	MaxSlotCapacity  = 20
	MaxTerritories   = 3
)

// Territory 领地：一个核心建筑 + 若干编号槽位。
// 槽位编号 [0, capacity)，核心建筑不占槽位。
type Territory struct {
	id        TerritoryID
	cityRef   string
	capacity  int
	slots     [MaxSlotCapacity]*Building
	core      *Building
	createdAt time.Time
}

func NewTerritory(id TerritoryID, cityRef string, core *Building, now time.Time) *Territory {
	return &Territory{
		id:        id,
		cityRef:   cityRef,
		capacity:  BaseSlotCapacity,
		core:      core,
		createdAt: now,
	}
}

func (t *Territory) ID() TerritoryID {
	return t.id
}

func (t *Territory) CityRef() string {
	return t.cityRef
}

func (t *Territory) Core() *Building {
	return t.core
}

func (t *Territory) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Territory) Capacity() int {
	return t.capacity
}

func (t *Territory) UsedSlots() int {
	n := 0
	for i := 0; i < t.capacity; i++ {
		if t.slots[i] != nil {
			n++
		}
	}
	return n
}

func (t *Territory) EmptySlots() int {
	return t.capacity - t.UsedSlots()
}

func (t *Territory) InRange(slot int) bool {
	return slot >= 0 && slot < t.capacity
}

func (t *Territory) SlotAt(slot int) (*Building, bool) {
	if !t.InRange(slot) || t.slots[slot] == nil {
		return nil, false
	}
	return t.slots[slot], true
}

func (t *Territory) SlotEmpty(slot int) bool {
	return t.InRange(slot) && t.slots[slot] == nil
}

// Place 放置建筑，槽位越界或已占用返回 false
func (t *Territory) Place(slot int, b *Building) bool {
	if b == nil || !t.SlotEmpty(slot) {
		return false
	}
	t.slots[slot] = b
	return true
}

// Demolish 拆除槽位上的建筑，空槽或越界返回 false
func (t *Territory) Demolish(slot int) (*Building, bool) {
	b, ok := t.SlotAt(slot)
	if !ok {
		return nil, false
	}
	t.slots[slot] = nil
	return b, true
}

// ExtendCapacity 科技扩容，上限 MaxSlotCapacity，返回新旧容量
func (t *Territory) ExtendCapacity(n int) (int, int) {
	old := t.capacity
	if n > 0 {
		t.capacity = min(t.capacity+n, MaxSlotCapacity)
	}
	return old, t.capacity
}

// FindBuilding 按 id 查找，核心建筑的槽位返回 -1
func (t *Territory) FindBuilding(id BuildingID) (*Building, int, bool) {
	if t.core != nil && t.core.id == id {
		return t.core, -1, true
	}
	for i := 0; i < t.capacity; i++ {
		if b := t.slots[i]; b != nil && b.id == id {
			return b, i, true
		}
	}
	return nil, 0, false
}

// Buildings 核心建筑在前，之后按槽位顺序
func (t *Territory) Buildings() []*Building {
	out := make([]*Building, 0, t.capacity+1)
	if t.core != nil {
		out = append(out, t.core)
	}
	for i := 0; i < t.capacity; i++ {
		if t.slots[i] != nil {
			out = append(out, t.slots[i])
		}
	}
	return out
}

// EachSlot 按槽位顺序遍历已占用的槽位
func (t *Territory) EachSlot(fn func(slot int, b *Building)) {
	for i := 0; i < t.capacity; i++ {
		if t.slots[i] != nil {
			fn(i, t.slots[i])
		}
	}
}
