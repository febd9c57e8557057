package entity

import "fmt"

type GeneralID int64

// Class 武将职业
type Class uint8

const (
	Commander Class = iota
	Vanguard
	Strategist

	ClassCount = 3
)

var classNames = [ClassCount]string{"commander", "vanguard", "strategist"}

func (c Class) Valid() bool {
	return c < ClassCount
}

func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("class(%d)", uint8(c))
	}
	return classNames[c]
}

func (c Class) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid class %d", uint8(c))
	}
	return []byte(classNames[c]), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	v, ok := ParseClass(string(b))
	if !ok {
		return fmt.Errorf("unknown class %q", string(b))
	}
	*c = v
	return nil
}

func ParseClass(s string) (Class, bool) {
	for i, n := range classNames {
		if n == s {
			return Class(i), true
		}
	}
	return 0, false
}

func Classes() []Class {
	return []Class{Commander, Vanguard, Strategist}
}

const (
	MinRarity         = 1
	MaxRarity         = 5
	MaxLevel          = 50
	MaxStars          = 5
	LevelsPerStar     = 10
	ExpPerLevel       = 100
	StarUpFactor      = 1.1
	StarPowerBonus    = 0.1
	ProficiencyBonus  = 0.15
	StrengthBonusRate = 0.01
)

// Stats 四维属性
type Stats struct {
	Strength     float64
	Intelligence float64
	Command      float64
	Speed        float64
}

func (s Stats) Sum() float64 {
	return s.Strength + s.Intelligence + s.Command + s.Speed
}

func (s Stats) Scale(f float64) Stats {
	return Stats{
		Strength:     s.Strength * f,
		Intelligence: s.Intelligence * f,
		Command:      s.Command * f,
		Speed:        s.Speed * f,
	}
}

func (s Stats) Plus(o Stats) Stats {
	return Stats{
		Strength:     s.Strength + o.Strength,
		Intelligence: s.Intelligence + o.Intelligence,
		Command:      s.Command + o.Command,
		Speed:        s.Speed + o.Speed,
	}
}

type classProfile struct {
	bonus      Stats
	proficient [UnitTypeCount]bool
}

// 职业加成与擅长兵种
var classProfiles = [ClassCount]classProfile{
	Commander: {
		bonus:      Stats{Strength: 5, Command: 5},
		proficient: [UnitTypeCount]bool{Spearman: true, Shieldman: true},
	},
	Vanguard: {
		bonus:      Stats{Strength: 8, Speed: 5},
		proficient: [UnitTypeCount]bool{Cavalry: true},
	},
	Strategist: {
		bonus:      Stats{Intelligence: 8},
		proficient: [UnitTypeCount]bool{Archer: true},
	},
}

// Rand 随机源，math/rand/v2 的 *rand.Rand 满足
type Rand interface {
	IntN(n int) int
}

// NamePool 某职业的姓名音节表
type NamePool struct {
	Surnames []string
	Given    []string
}

func (p NamePool) pick(rng Rand) string {
	if len(p.Surnames) == 0 || len(p.Given) == 0 {
		return "无名"
	}
	return p.Surnames[rng.IntN(len(p.Surnames))] + " " + p.Given[rng.IntN(len(p.Given))]
}

// TroopFormula 带兵上限 = Base + command * PerCommand
type TroopFormula struct {
	Base       float64
	PerCommand float64
}

// General 武将
type General struct {
	id     GeneralID
	name   string
	class  Class
	rarity int
	level  int
	stars  int
	exp    int64
	stats  Stats
}

// CreateRandom 按稀有度和职业随机生成 1 级 1 星武将。
// 稀有度钳制到 [1,5]，每项基础属性 = 10 + rarity*5 + [0,10) 随机整数，再叠加职业加成。
func CreateRandom(id GeneralID, rarity int, class Class, rng Rand, names NamePool) *General {
	rarity = max(MinRarity, min(rarity, MaxRarity))
	base := float64(10 + rarity*5)
	roll := func() float64 { return base + float64(rng.IntN(10)) }
	stats := Stats{
		Strength:     roll(),
		Intelligence: roll(),
		Command:      roll(),
		Speed:        roll(),
	}
	if class.Valid() {
		stats = stats.Plus(classProfiles[class].bonus)
	}
	return &General{
		id:     id,
		name:   names.pick(rng),
		class:  class,
		rarity: rarity,
		level:  1,
		stars:  1,
		stats:  stats,
	}
}

// RestoreGeneral 从持久化数据恢复
func RestoreGeneral(id GeneralID, name string, class Class, rarity, level, stars int, exp int64, stats Stats) *General {
	return &General{
		id:     id,
		name:   name,
		class:  class,
		rarity: rarity,
		level:  level,
		stars:  stars,
		exp:    exp,
		stats:  stats,
	}
}

func (g *General) ID() GeneralID     { return g.id }
func (g *General) Name() string      { return g.name }
func (g *General) Class() Class      { return g.class }
func (g *General) Rarity() int       { return g.rarity }
func (g *General) Level() int        { return g.level }
func (g *General) Stars() int        { return g.stars }
func (g *General) Experience() int64 { return g.exp }
func (g *General) Stats() Stats      { return g.stats }

// LevelCap 当前星级允许的最高等级
func (g *General) LevelCap() int {
	return min(MaxLevel, g.stars*LevelsPerStar)
}

// ExpToNext 升到下一级需要的经验
func (g *General) ExpToNext() int64 {
	return int64(g.level) * ExpPerLevel
}

// AddExperience 非正数返回 false。
// 经验足够时连续升级直到等级上限，上限之外的经验保留，升星后可继续消化。
func (g *General) AddExperience(amount int64) (int, bool) {
	if amount <= 0 {
		return 0, false
	}
	g.exp = satAdd(g.exp, amount)
	return g.settle(), true
}

// ApplyBankedExperience 升星后消化已存的经验
func (g *General) ApplyBankedExperience() int {
	return g.settle()
}

func (g *General) settle() int {
	gained := 0
	limit := g.LevelCap()
	for g.level < limit && g.exp >= g.ExpToNext() {
		g.exp -= g.ExpToNext()
		g.level++
		gained++
	}
	return gained
}

func (g *General) CanStarUp() bool {
	return g.stars < MaxStars
}

// StarUp 四维 *1.1，星级 +1，满星返回 false
func (g *General) StarUp() bool {
	if !g.CanStarUp() {
		return false
	}
	g.stats = g.stats.Scale(StarUpFactor)
	g.stars++
	return true
}

func (g *General) Proficient(u UnitType) bool {
	if !g.class.Valid() || !u.Valid() {
		return false
	}
	return classProfiles[g.class].proficient[u]
}

func (g *General) Proficiencies() []UnitType {
	var out []UnitType
	for _, u := range UnitTypes() {
		if g.Proficient(u) {
			out = append(out, u)
		}
	}
	return out
}

// BonusForUnitType 1 + strength*0.01，擅长兵种再 +0.15
func (g *General) BonusForUnitType(u UnitType) float64 {
	bonus := 1 + g.stats.Strength*StrengthBonusRate
	if g.Proficient(u) {
		bonus += ProficiencyBonus
	}
	return bonus
}

func (g *General) MaxTroops(f TroopFormula) int64 {
	return roundInt(f.Base + g.stats.Command*f.PerCommand)
}

// Power 战力 = 四维之和 * 等级 * (1 + (星级-1)*0.1)
func (g *General) Power() float64 {
	return g.stats.Sum() * float64(g.level) * (1 + float64(g.stars-1)*StarPowerBonus)
}
