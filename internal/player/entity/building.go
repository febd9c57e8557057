package entity

import "time"

type BuildingID int64

// Building 建筑实例。
// level 是目标等级：升级开始时立即 +1 并进入施工状态，
// 施工期间生效等级为 level-1（首次建造期间为 0）。
type Building struct {
	id           BuildingID
	btype        BuildingType
	level        int
	constructing bool
	completeAt   time.Time
}

// NewConstruction 新建 1 级建筑，立即进入施工
func NewConstruction(id BuildingID, spec BuildingSpec, now time.Time) *Building {
	return &Building{
		id:           id,
		btype:        spec.Type,
		level:        1,
		constructing: true,
		completeAt:   now.Add(spec.TimeAt(1)),
	}
}

// NewCompleted 直接落成的建筑，用于核心建筑
func NewCompleted(id BuildingID, t BuildingType, level int) *Building {
	return &Building{id: id, btype: t, level: max(level, 1)}
}

func (b *Building) ID() BuildingID {
	return b.id
}

func (b *Building) Type() BuildingType {
	return b.btype
}

func (b *Building) Level() int {
	return b.level
}

func (b *Building) Constructing() bool {
	return b.constructing
}

func (b *Building) CompleteAt() time.Time {
	return b.completeAt
}

// IsComplete now 到达完工时间即视为完成，不要求先调用 CompleteConstruction
func (b *Building) IsComplete(now time.Time) bool {
	return !b.constructing || !now.Before(b.completeAt)
}

// EffectiveLevel 当前生效等级
func (b *Building) EffectiveLevel() int {
	if b.constructing {
		return b.level - 1
	}
	return b.level
}

// Remaining 剩余工期
func (b *Building) Remaining(now time.Time) time.Duration {
	if !b.constructing || !now.Before(b.completeAt) {
		return 0
	}
	return b.completeAt.Sub(now)
}

// CompleteConstruction 到期则结束施工，返回是否发生了状态变化
func (b *Building) CompleteConstruction(now time.Time) bool {
	if !b.constructing || now.Before(b.completeAt) {
		return false
	}
	b.constructing = false
	return true
}

// CanUpgrade 施工中或已满级都不能升级
func (b *Building) CanUpgrade(spec BuildingSpec) bool {
	return !b.constructing && b.level < spec.MaxLevel
}

// StartUpgrade 等级 +1 并开始施工，工期按新等级计算
func (b *Building) StartUpgrade(spec BuildingSpec, now time.Time) bool {
	if !b.CanUpgrade(spec) {
		return false
	}
	b.level++
	b.constructing = true
	b.completeAt = now.Add(spec.TimeAt(b.level))
	return true
}

// ClampLevel 配置表调低满级后，存档里超出的等级降到 maxLevel，返回是否有改动
func (b *Building) ClampLevel(maxLevel int) bool {
	if maxLevel < 1 || b.level <= maxLevel {
		return false
	}
	b.level = maxLevel
	b.constructing = false
	b.completeAt = time.Time{}
	return true
}
