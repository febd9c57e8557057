package gameconfig

import (
	"Sanguo/internal/shared/gameconfig/building"
	"Sanguo/internal/shared/gameconfig/general"
	"Sanguo/internal/shared/gameconfig/unit"
)

// Tables 全部静态配置表，启动时加载一次，之后只读
type Tables struct {
	Buildings *building.Table
	Units     *unit.Table
	Generals  *general.Table
}

// Load dir 为空时全部使用内嵌表
func Load(dir string) (*Tables, error) {
	b, err := building.Load(dir)
	if err != nil {
		return nil, err
	}
	u, err := unit.Load(dir)
	if err != nil {
		return nil, err
	}
	g, err := general.Load(dir)
	if err != nil {
		return nil, err
	}
	return &Tables{Buildings: b, Units: u, Generals: g}, nil
}

func MustLoad(dir string) *Tables {
	t, err := Load(dir)
	if err != nil {
		panic(err)
	}
	return t
}
