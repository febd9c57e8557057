package events

import (
	"Sanguo/internal/shared/eventbus"
	"time"
)

// Base 所有玩家事件共有的字段
type Base struct {
	Player int64     `json:"player_id"`
	At     time.Time `json:"at"`
}

func (b Base) PlayerID() int64 {
	return b.Player
}

type ResourceChanged struct {
	Base
	Currency string `json:"currency"`
	Old      int64  `json:"old"`
	New      int64  `json:"new"`
}

func (ResourceChanged) Kind() eventbus.Kind { return eventbus.KindResourceChanged }

// ResourceAccrued 一次周期产出实际入账的数量
type ResourceAccrued struct {
	Base
	Gained map[string]int64 `json:"gained"`
}

func (ResourceAccrued) Kind() eventbus.Kind { return eventbus.KindResourceAccrued }

type SoldiersChanged struct {
	Base
	Unit string `json:"unit"`
	Old  int64  `json:"old"`
	New  int64  `json:"new"`
}

func (SoldiersChanged) Kind() eventbus.Kind { return eventbus.KindSoldiersChanged }

// SoldiersTrained Count 为实际入伍数量
type SoldiersTrained struct {
	Base
	Unit  string `json:"unit"`
	Count int64  `json:"count"`
	Paid  bool   `json:"paid"`
}

func (SoldiersTrained) Kind() eventbus.Kind { return eventbus.KindSoldiersTrained }

type TerritoryCreated struct {
	Base
	TerritoryID int64  `json:"territory_id"`
	CityRef     string `json:"city_ref"`
}

func (TerritoryCreated) Kind() eventbus.Kind { return eventbus.KindTerritoryCreated }

type TerritoryExtended struct {
	Base
	TerritoryID int64 `json:"territory_id"`
	Old         int   `json:"old"`
	New         int   `json:"new"`
}

func (TerritoryExtended) Kind() eventbus.Kind { return eventbus.KindTerritoryExtended }

type BuildingConstructed struct {
	Base
	TerritoryID int64     `json:"territory_id"`
	BuildingID  int64     `json:"building_id"`
	Building    string    `json:"building"`
	Slot        int       `json:"slot"`
	CompleteAt  time.Time `json:"complete_at"`
}

func (BuildingConstructed) Kind() eventbus.Kind { return eventbus.KindBuildingConstructed }

// BuildingUpgraded 升级开始，Level 为目标等级
type BuildingUpgraded struct {
	Base
	TerritoryID int64     `json:"territory_id"`
	BuildingID  int64     `json:"building_id"`
	Building    string    `json:"building"`
	Level       int       `json:"level"`
	CompleteAt  time.Time `json:"complete_at"`
}

func (BuildingUpgraded) Kind() eventbus.Kind { return eventbus.KindBuildingUpgraded }

type BuildingCompleted struct {
	Base
	TerritoryID int64  `json:"territory_id"`
	BuildingID  int64  `json:"building_id"`
	Building    string `json:"building"`
	Level       int    `json:"level"`
}

func (BuildingCompleted) Kind() eventbus.Kind { return eventbus.KindBuildingCompleted }

type BuildingDemolished struct {
	Base
	TerritoryID int64  `json:"territory_id"`
	BuildingID  int64  `json:"building_id"`
	Building    string `json:"building"`
	Slot        int    `json:"slot"`
	Level       int    `json:"level"`
}

func (BuildingDemolished) Kind() eventbus.Kind { return eventbus.KindBuildingDemolished }

type GeneralObtained struct {
	Base
	GeneralID int64  `json:"general_id"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Rarity    int    `json:"rarity"`
}

func (GeneralObtained) Kind() eventbus.Kind { return eventbus.KindGeneralObtained }

type GeneralLeveled struct {
	Base
	GeneralID int64 `json:"general_id"`
	Old       int   `json:"old"`
	New       int   `json:"new"`
}

func (GeneralLeveled) Kind() eventbus.Kind { return eventbus.KindGeneralLeveled }

type GeneralStarred struct {
	Base
	GeneralID int64 `json:"general_id"`
	Stars     int   `json:"stars"`
}

func (GeneralStarred) Kind() eventbus.Kind { return eventbus.KindGeneralStarred }

type GeneralDismissed struct {
	Base
	GeneralID int64  `json:"general_id"`
	Name      string `json:"name"`
}

func (GeneralDismissed) Kind() eventbus.Kind { return eventbus.KindGeneralDismissed }
