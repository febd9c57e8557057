package entity

import (
	"fmt"
	"time"
)

// BuildingType 建筑种类
type BuildingType uint8

const (
	Palace BuildingType = iota
	Farm
	Lumbermill
	Quarry
	Market
	Barracks
	Stable
	ArcheryRange
	Warehouse
	Wall

	BuildingTypeCount = 10
)

var buildingNames = [BuildingTypeCount]string{
	"palace", "farm", "lumbermill", "quarry", "market",
	"barracks", "stable", "archery_range", "warehouse", "wall",
}

func (b BuildingType) Valid() bool {
	return b < BuildingTypeCount
}

func (b BuildingType) String() string {
	if !b.Valid() {
		return fmt.Sprintf("building(%d)", uint8(b))
	}
	return buildingNames[b]
}

func (b BuildingType) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid building type %d", uint8(b))
	}
	return []byte(buildingNames[b]), nil
}

func (b *BuildingType) UnmarshalText(raw []byte) error {
	v, ok := ParseBuildingType(string(raw))
	if !ok {
		return fmt.Errorf("unknown building type %q", string(raw))
	}
	*b = v
	return nil
}

func ParseBuildingType(s string) (BuildingType, bool) {
	for i, n := range buildingNames {
		if n == s {
			return BuildingType(i), true
		}
	}
	return 0, false
}

func BuildingTypes() []BuildingType {
	out := make([]BuildingType, 0, BuildingTypeCount)
	for i := 0; i < BuildingTypeCount; i++ {
		out = append(out, BuildingType(i))
	}
	return out
}

// Category 建筑分类
type Category uint8

const (
	CategoryCore Category = iota
	CategoryProduction
	CategoryMilitary
	CategoryUtility
)

var categoryNames = []string{"core", "production", "military", "utility"}

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

func ParseCategory(s string) (Category, bool) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Effect 建筑等级数值作用到哪里
type Effect uint8

const (
	EffectNone       Effect = iota
	EffectProduce           // 产出 Produces 指定的资源
	EffectStorage           // 提高四种资源上限
	EffectTroopCap          // 提高兵力上限
	EffectUnlockUnit        // 解锁训练兵种
)

var effectNames = []string{"none", "produce", "storage", "troop_cap", "unlock_unit"}

func (e Effect) String() string {
	if int(e) >= len(effectNames) {
		return fmt.Sprintf("effect(%d)", uint8(e))
	}
	return effectNames[e]
}

func ParseEffect(s string) (Effect, bool) {
	for i, n := range effectNames {
		if n == s {
			return Effect(i), true
		}
	}
	return 0, false
}

// MaxBuildingLevel 所有建筑等级的硬上限，配置表的 max_level 不能超过它
const MaxBuildingLevel = 10

// BuildingSpec 一种建筑的静态配置
type BuildingSpec struct {
	Type     BuildingType
	Category Category
	Effect   Effect
	Produces Currency
	MaxLevel int

	BaseCost   Amounts
	CostGrowth float64

	BaseTime   time.Duration
	TimeGrowth float64

	BaseValue   int64
	ValueGrowth float64
}

// Buildable 可以放到槽位上；核心建筑随领地创建，不能手动建造
func (s BuildingSpec) Buildable() bool {
	return s.Category != CategoryCore
}

// CostAt 第 level 级的造价：round(base * (1 + (level-1) * growth))
func (s BuildingSpec) CostAt(level int) Amounts {
	var out Amounts
	for i, base := range s.BaseCost {
		out[i] = CostCurve(base, s.CostGrowth, level)
	}
	return out
}

// TimeAt 建到第 level 级的工期，按起始等级 level-1 代入 TimeCurve，
// 所以首次建造（0 -> 1）正好是基础工期
func (s BuildingSpec) TimeAt(level int) time.Duration {
	secs := TimeCurve(int64(s.BaseTime/time.Second), s.TimeGrowth, level-1)
	return time.Duration(secs) * time.Second
}

// ValueAt 第 level 级的效果值（产量/容量），曲线同造价；0 级为 0
func (s BuildingSpec) ValueAt(level int) int64 {
	if level <= 0 {
		return 0
	}
	return CostCurve(s.BaseValue, s.ValueGrowth, level)
}

func CostCurve(base int64, growth float64, level int) int64 {
	return roundInt(float64(base) * (1 + float64(level-1)*growth))
}

// TimeCurve 从 fromLevel 升一级的工期：round(base * (1 + fromLevel * growth))
func TimeCurve(base int64, growth float64, fromLevel int) int64 {
	return roundInt(float64(base) * (1 + float64(fromLevel)*growth))
}
