package entity

import "fmt"

// UnitType 兵种
type UnitType uint8

const (
	Spearman UnitType = iota
	Shieldman
	Cavalry
	Archer

	UnitTypeCount = 4
)

var unitNames = [UnitTypeCount]string{"spearman", "shieldman", "cavalry", "archer"}

func (u UnitType) Valid() bool {
	return u < UnitTypeCount
}

func (u UnitType) String() string {
	if !u.Valid() {
		return fmt.Sprintf("unit(%d)", uint8(u))
	}
	return unitNames[u]
}

func (u UnitType) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("invalid unit type %d", uint8(u))
	}
	return []byte(unitNames[u]), nil
}

func (u *UnitType) UnmarshalText(b []byte) error {
	v, ok := ParseUnitType(string(b))
	if !ok {
		return fmt.Errorf("unknown unit type %q", string(b))
	}
	*u = v
	return nil
}

func ParseUnitType(s string) (UnitType, bool) {
	for i, n := range unitNames {
		if n == s {
			return UnitType(i), true
		}
	}
	return 0, false
}

func UnitTypes() []UnitType {
	return []UnitType{Spearman, Shieldman, Cavalry, Archer}
}

// 克制表 [攻方][守方]：
// 枪兵克骑兵，骑兵克盾兵，任何兵种打弓兵都占优，弓兵打盾兵吃亏。
// "打弓兵占优" 优先，所以弓兵对弓兵也是 1.5。
var counterTable = func() [UnitTypeCount][UnitTypeCount]float64 {
	var t [UnitTypeCount][UnitTypeCount]float64
	for a := range t {
		for d := range t[a] {
			t[a][d] = 1.0
		}
	}
	t[Spearman][Cavalry] = 1.5
	t[Cavalry][Shieldman] = 1.5
	t[Archer][Shieldman] = 0.5
	for a := range t {
		t[a][Archer] = 1.5
	}
	return t
}()

// CounterMultiplier 攻方对守方的伤害倍率，非法兵种返回 1.0
func CounterMultiplier(attacker, defender UnitType) float64 {
	if !attacker.Valid() || !defender.Valid() {
		return 1.0
	}
	return counterTable[attacker][defender]
}
