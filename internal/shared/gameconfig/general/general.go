package general

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/shared/config"
	_ "embed"
	"fmt"
	"path/filepath"
)

const fileName = "general.json"

//go:embed general.json
var embedded []byte

type general struct {
	Title           string        `mapstructure:"title"`
	TroopBase       float64       `mapstructure:"troop_base"`
	TroopPerCommand float64       `mapstructure:"troop_per_command"`
	Classes         []classDetail `mapstructure:"classes"`
}

type classDetail struct {
	Class    string   `mapstructure:"class"`
	Name     string   `mapstructure:"name"`
	Surnames []string `mapstructure:"surnames"`
	Given    []string `mapstructure:"given"`
}

type Table struct {
	Title  string
	Troops entity.TroopFormula
	pools  [entity.ClassCount]entity.NamePool
	names  [entity.ClassCount]string
}

var Conf *Table

// Names 某职业的姓名音节表
func (t *Table) Names(c entity.Class) entity.NamePool {
	if t == nil || !c.Valid() {
		return entity.NamePool{}
	}
	return t.pools[c]
}

func (t *Table) ClassName(c entity.Class) string {
	if t == nil || !c.Valid() {
		return ""
	}
	return t.names[c]
}

func Load(dir string) (*Table, error) {
	var raw general
	var err error
	if dir == "" {
		err = config.ReadBytes(embedded, "json", &raw)
	} else {
		err = config.Read(filepath.Join(dir, fileName), &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", fileName, err)
	}
	t := &Table{
		Title:  raw.Title,
		Troops: entity.TroopFormula{Base: raw.TroopBase, PerCommand: raw.TroopPerCommand},
	}
	var seen [entity.ClassCount]bool
	for _, d := range raw.Classes {
		c, ok := entity.ParseClass(d.Class)
		if !ok {
			return nil, fmt.Errorf("%s: unknown class %q", fileName, d.Class)
		}
		if len(d.Surnames) == 0 || len(d.Given) == 0 {
			return nil, fmt.Errorf("%s: %s: empty name pool", fileName, d.Class)
		}
		seen[c] = true
		t.pools[c] = entity.NamePool{Surnames: d.Surnames, Given: d.Given}
		t.names[c] = d.Name
	}
	for _, c := range entity.Classes() {
		if !seen[c] {
			return nil, fmt.Errorf("%s: missing class %s", fileName, c)
		}
	}
	Conf = t
	return t, nil
}
