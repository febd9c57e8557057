package entity

import "fmt"

// Currency 资源种类
type Currency uint8

const (
	Copper Currency = iota
	Wood
	Stone
	Food

	CurrencyCount = 4
)

var currencyNames = [CurrencyCount]string{"copper", "wood", "stone", "food"}

func (c Currency) Valid() bool {
	return c < CurrencyCount
}

func (c Currency) String() string {
	if !c.Valid() {
		return fmt.Sprintf("currency(%d)", uint8(c))
	}
	return currencyNames[c]
}

func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency %d", uint8(c))
	}
	return []byte(currencyNames[c]), nil
}

func (c *Currency) UnmarshalText(b []byte) error {
	v, ok := ParseCurrency(string(b))
	if !ok {
		return fmt.Errorf("unknown currency %q", string(b))
	}
	*c = v
	return nil
}

func ParseCurrency(s string) (Currency, bool) {
	for i, n := range currencyNames {
		if n == s {
			return Currency(i), true
		}
	}
	return 0, false
}

func Currencies() []Currency {
	return []Currency{Copper, Wood, Stone, Food}
}

// Amounts 按 Currency 下标的资源数量，用于消耗、产出、上限
type Amounts [CurrencyCount]int64

func (a Amounts) Get(c Currency) int64 {
	if !c.Valid() {
		return 0
	}
	return a[c]
}

func (a Amounts) IsZero() bool {
	return a == Amounts{}
}

func (a Amounts) Plus(b Amounts) Amounts {
	var out Amounts
	for i := range a {
		out[i] = satAdd(a[i], b[i])
	}
	return out
}

// Times 按数量放大，溢出时饱和
func (a Amounts) Times(n int64) Amounts {
	var out Amounts
	for i := range a {
		out[i] = satMul(a[i], n)
	}
	return out
}

// Map 以资源名为 key 的视图，快照和接口层使用
func (a Amounts) Map() map[string]int64 {
	out := make(map[string]int64, CurrencyCount)
	for i, v := range a {
		out[currencyNames[i]] = v
	}
	return out
}

func AmountsFromMap(m map[string]int64) (Amounts, error) {
	var out Amounts
	for k, v := range m {
		c, ok := ParseCurrency(k)
		if !ok {
			return Amounts{}, fmt.Errorf("unknown currency %q", k)
		}
		out[c] = v
	}
	return out, nil
}
