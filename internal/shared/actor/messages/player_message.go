package messages

import (
	"Sanguo/internal/player/entity"
	"time"
)

// 查询

type GetState struct{}

type StateView struct {
	State      entity.PlayerSnapshot `json:"state"`
	Production map[string]int64      `json:"production"`
	ServerTime time.Time             `json:"server_time"`
}

type GetGeneral struct {
	General entity.GeneralID
}

type GeneralView struct {
	entity.GeneralSnapshot
	Proficient []string `json:"proficient"`
	Power      float64  `json:"power"`
	MaxTroops  int64    `json:"max_troops"`
	LevelCap   int      `json:"level_cap"`
	ExpToNext  int64    `json:"exp_to_next"`
}

// 资源

type AddResource struct {
	Currency entity.Currency
	Delta    int64
}

type ConsumeResources struct {
	Cost entity.Amounts
}

type ResourceView struct {
	Amounts map[string]int64 `json:"amounts"`
	Caps    map[string]int64 `json:"caps"`
}

// 兵力

type Recruit struct {
	Unit  entity.UnitType
	Count int64
}

type Train struct {
	Unit  entity.UnitType
	Count int64
}

type Lose struct {
	Unit  entity.UnitType
	Count int64
}

type TroopsView struct {
	Actual int64            `json:"actual"`
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
	Cap    int64            `json:"cap"`
}

// 领地

type CreateTerritory struct {
	CityRef string
}

type Build struct {
	Territory entity.TerritoryID
	Slot      int
	Building  entity.BuildingType
}

type Upgrade struct {
	Territory entity.TerritoryID
	Building  entity.BuildingID
}

type UpgradeCore struct {
	Territory entity.TerritoryID
}

type Demolish struct {
	Territory entity.TerritoryID
	Slot      int
}

type Extend struct {
	Territory entity.TerritoryID
	Slots     int
}

// 武将

type ObtainGeneral struct {
	Rarity int
	Class  entity.Class
}

type AddExperience struct {
	General entity.GeneralID
	Amount  int64
}

type StarUp struct {
	General entity.GeneralID
}

type Dismiss struct {
	General entity.GeneralID
}
