package building

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/shared/config"
	_ "embed"
	"fmt"
	"path/filepath"
	"time"
)

const fileName = "building.json"

//go:embed building.json
var embedded []byte

type building struct {
	Title string           `mapstructure:"title"`
	List  []buildingDetail `mapstructure:"list"`
}

type buildingDetail struct {
	Type        string           `mapstructure:"type"`
	Name        string           `mapstructure:"name"`
	Category    string           `mapstructure:"category"`
	Effect      string           `mapstructure:"effect"`
	Produces    string           `mapstructure:"produces"`
	MaxLevel    int              `mapstructure:"max_level"`
	BaseCost    map[string]int64 `mapstructure:"base_cost"`
	CostGrowth  float64          `mapstructure:"cost_growth"`
	BaseTime    time.Duration    `mapstructure:"base_time"`
	TimeGrowth  float64          `mapstructure:"time_growth"`
	BaseValue   int64            `mapstructure:"base_value"`
	ValueGrowth float64          `mapstructure:"value_growth"`
}

// Table 建筑配置表，按 BuildingType 下标
type Table struct {
	Title string
	specs [entity.BuildingTypeCount]entity.BuildingSpec
	names [entity.BuildingTypeCount]string
}

// Conf 进程内只读的全局表，Load 之后才可用
var Conf *Table

func (t *Table) Spec(bt entity.BuildingType) (entity.BuildingSpec, bool) {
	if t == nil || !bt.Valid() {
		return entity.BuildingSpec{}, false
	}
	return t.specs[bt], true
}

// Name 展示名
func (t *Table) Name(bt entity.BuildingType) string {
	if t == nil || !bt.Valid() {
		return ""
	}
	return t.names[bt]
}

func (t *Table) All() []entity.BuildingSpec {
	out := make([]entity.BuildingSpec, 0, entity.BuildingTypeCount)
	for _, bt := range entity.BuildingTypes() {
		out = append(out, t.specs[bt])
	}
	return out
}

// Load dir 为空时使用内嵌表，否则读取 dir/building.json 覆盖
func Load(dir string) (*Table, error) {
	var raw building
	var err error
	if dir == "" {
		err = config.ReadBytes(embedded, "json", &raw)
	} else {
		err = config.Read(filepath.Join(dir, fileName), &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", fileName, err)
	}
	t, err := build(raw)
	if err != nil {
		return nil, err
	}
	Conf = t
	return t, nil
}

func build(raw building) (*Table, error) {
	t := &Table{Title: raw.Title}
	var seen [entity.BuildingTypeCount]bool
	for _, d := range raw.List {
		bt, ok := entity.ParseBuildingType(d.Type)
		if !ok {
			return nil, fmt.Errorf("%s: unknown building type %q", fileName, d.Type)
		}
		if seen[bt] {
			return nil, fmt.Errorf("%s: duplicate building type %q", fileName, d.Type)
		}
		spec, err := d.toSpec(bt)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fileName, d.Type, err)
		}
		seen[bt] = true
		t.specs[bt] = spec
		t.names[bt] = d.Name
	}
	for _, bt := range entity.BuildingTypes() {
		if !seen[bt] {
			return nil, fmt.Errorf("%s: missing building type %s", fileName, bt)
		}
	}
	if t.specs[entity.Palace].Category != entity.CategoryCore {
		return nil, fmt.Errorf("%s: palace must be core", fileName)
	}
	return t, nil
}

func (d buildingDetail) toSpec(bt entity.BuildingType) (entity.BuildingSpec, error) {
	category, ok := entity.ParseCategory(d.Category)
	if !ok {
		return entity.BuildingSpec{}, fmt.Errorf("unknown category %q", d.Category)
	}
	effect, ok := entity.ParseEffect(d.Effect)
	if !ok {
		return entity.BuildingSpec{}, fmt.Errorf("unknown effect %q", d.Effect)
	}
	var produces entity.Currency
	if effect == entity.EffectProduce {
		if produces, ok = entity.ParseCurrency(d.Produces); !ok {
			return entity.BuildingSpec{}, fmt.Errorf("unknown produces %q", d.Produces)
		}
	}
	cost, err := entity.AmountsFromMap(d.BaseCost)
	if err != nil {
		return entity.BuildingSpec{}, err
	}
	if d.MaxLevel < 1 || d.MaxLevel > entity.MaxBuildingLevel {
		return entity.BuildingSpec{}, fmt.Errorf("max_level %d out of [1,%d]", d.MaxLevel, entity.MaxBuildingLevel)
	}
	if d.BaseTime < 0 || d.CostGrowth < 0 || d.TimeGrowth < 0 || d.ValueGrowth < 0 {
		return entity.BuildingSpec{}, fmt.Errorf("negative curve parameter")
	}
	return entity.BuildingSpec{
		Type:        bt,
		Category:    category,
		Effect:      effect,
		Produces:    produces,
		MaxLevel:    d.MaxLevel,
		BaseCost:    cost,
		CostGrowth:  d.CostGrowth,
		BaseTime:    d.BaseTime,
		TimeGrowth:  d.TimeGrowth,
		BaseValue:   d.BaseValue,
		ValueGrowth: d.ValueGrowth,
	}, nil
}
