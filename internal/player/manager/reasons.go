package manager

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func (r Reason) IsZero() bool {
	return r.Code == ""
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 容量/余额不足，INFO
	ReasonResourceInsufficient = NewReason("RESOURCE_INSUFFICIENT", "资源不足")
	ReasonTroopCapReached      = NewReason("TROOP_CAP_REACHED", "兵力已达上限")
	ReasonUnitLocked           = NewReason("UNIT_LOCKED", "兵种未解锁")
	ReasonTerritoryLimit       = NewReason("TERRITORY_LIMIT", "领地数量已达上限")
	ReasonSlotOccupied         = NewReason("SLOT_OCCUPIED", "槽位已被占用")
	ReasonSlotEmpty            = NewReason("SLOT_EMPTY", "槽位上没有建筑")
	ReasonSlotCapacityMax      = NewReason("SLOT_CAPACITY_MAX", "槽位已扩到上限")
	ReasonBuildingNotBuildable = NewReason("BUILDING_NOT_BUILDABLE", "该建筑不能手动建造")
	ReasonBuildingMaxLevel     = NewReason("BUILDING_MAX_LEVEL", "建筑已满级")
	ReasonBuildingConstructing = NewReason("BUILDING_CONSTRUCTING", "建筑施工中")
	ReasonGeneralRosterFull    = NewReason("GENERAL_ROSTER_FULL", "武将数量已达上限")
	ReasonGeneralMaxStars      = NewReason("GENERAL_MAX_STARS", "武将已满星")
)

var (
	// 无效引用，WARN
	ReasonTerritoryNotFound = NewReason("TERRITORY_NOT_FOUND", "领地不存在")
	ReasonSlotOutOfRange    = NewReason("SLOT_OUT_OF_RANGE", "槽位超出容量")
	ReasonBuildingNotFound  = NewReason("BUILDING_NOT_FOUND", "建筑不存在")
	ReasonGeneralNotFound   = NewReason("GENERAL_NOT_FOUND", "武将不存在")
	ReasonUnknownCurrency   = NewReason("CURRENCY_UNKNOWN", "未知资源类型")
	ReasonUnknownUnit       = NewReason("UNIT_UNKNOWN", "未知兵种")
	ReasonUnknownBuilding   = NewReason("BUILDING_UNKNOWN", "未知建筑类型")
	ReasonUnknownClass      = NewReason("CLASS_UNKNOWN", "未知武将职业")
)

var (
	// 参数违反不变量，DPanic
	ReasonNegativeAmount = NewReason("NEGATIVE_AMOUNT", "数量不能为负")
)
