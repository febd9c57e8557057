package eventbus

// Kind 事件种类，闭集枚举，订阅表按 Kind 分桶
type Kind uint8

const (
	KindResourceChanged Kind = iota + 1
	KindResourceAccrued
	KindSoldiersChanged
	KindSoldiersTrained
	KindTerritoryCreated
	KindTerritoryExtended
	KindBuildingConstructed
	KindBuildingUpgraded
	KindBuildingCompleted
	KindBuildingDemolished
	KindGeneralObtained
	KindGeneralLeveled
	KindGeneralStarred
	KindGeneralDismissed

	kindEnd
)

var kindNames = [kindEnd]string{
	KindResourceChanged:     "resource_changed",
	KindResourceAccrued:     "resource_accrued",
	KindSoldiersChanged:     "soldiers_changed",
	KindSoldiersTrained:     "soldiers_trained",
	KindTerritoryCreated:    "territory_created",
	KindTerritoryExtended:   "territory_extended",
	KindBuildingConstructed: "building_constructed",
	KindBuildingUpgraded:    "building_upgraded",
	KindBuildingCompleted:   "building_completed",
	KindBuildingDemolished:  "building_demolished",
	KindGeneralObtained:     "general_obtained",
	KindGeneralLeveled:      "general_leveled",
	KindGeneralStarred:      "general_starred",
	KindGeneralDismissed:    "general_dismissed",
}

func (k Kind) Valid() bool {
	return k > 0 && k < kindEnd
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds 返回全部合法事件种类，按声明顺序
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindEnd)-1)
	for k := Kind(1); k < kindEnd; k++ {
		out = append(out, k)
	}
	return out
}

func ParseKind(s string) (Kind, bool) {
	for k := Kind(1); k < kindEnd; k++ {
		if kindNames[k] == s {
			return k, true
		}
	}
	return 0, false
}
