package unit

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/shared/config"
	_ "embed"
	"fmt"
	"path/filepath"
)

const fileName = "unit.json"

//go:embed unit.json
var embedded []byte

type unit struct {
	Title string       `mapstructure:"title"`
	List  []unitDetail `mapstructure:"list"`
}

type unitDetail struct {
	Type     string           `mapstructure:"type"`
	Name     string           `mapstructure:"name"`
	Attack   int              `mapstructure:"attack"`
	Defense  int              `mapstructure:"defense"`
	Speed    int              `mapstructure:"speed"`
	Cost     map[string]int64 `mapstructure:"cost"`
	Requires string           `mapstructure:"requires"`
}

// Spec 单兵属性与训练消耗
type Spec struct {
	Type     entity.UnitType
	Name     string
	Attack   int
	Defense  int
	Speed    int
	Cost     entity.Amounts
	Requires entity.BuildingType
}

type Table struct {
	Title string
	specs [entity.UnitTypeCount]Spec
}

var Conf *Table

func (t *Table) Spec(u entity.UnitType) (Spec, bool) {
	if t == nil || !u.Valid() {
		return Spec{}, false
	}
	return t.specs[u], true
}

func (t *Table) All() []Spec {
	out := make([]Spec, 0, entity.UnitTypeCount)
	for _, u := range entity.UnitTypes() {
		out = append(out, t.specs[u])
	}
	return out
}

func Load(dir string) (*Table, error) {
	var raw unit
	var err error
	if dir == "" {
		err = config.ReadBytes(embedded, "json", &raw)
	} else {
		err = config.Read(filepath.Join(dir, fileName), &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", fileName, err)
	}
	t := &Table{Title: raw.Title}
	var seen [entity.UnitTypeCount]bool
	for _, d := range raw.List {
		u, ok := entity.ParseUnitType(d.Type)
		if !ok {
			return nil, fmt.Errorf("%s: unknown unit type %q", fileName, d.Type)
		}
		cost, err := entity.AmountsFromMap(d.Cost)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fileName, d.Type, err)
		}
		req, ok := entity.ParseBuildingType(d.Requires)
		if !ok {
			return nil, fmt.Errorf("%s: %s: unknown requires %q", fileName, d.Type, d.Requires)
		}
		seen[u] = true
		t.specs[u] = Spec{
			Type:     u,
			Name:     d.Name,
			Attack:   d.Attack,
			Defense:  d.Defense,
			Speed:    d.Speed,
			Cost:     cost,
			Requires: req,
		}
	}
	for _, u := range entity.UnitTypes() {
		if !seen[u] {
			return nil, fmt.Errorf("%s: missing unit type %s", fileName, u)
		}
	}
	Conf = t
	return t, nil
}
