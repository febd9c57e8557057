package main

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/shared/gameconfig"
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func testLoad() (*gameconfig.Tables, error) {
	return gameconfig.Load("")
}

func TestFormatCost_跳过零值(t *testing.T) {
	if got := formatCost(entity.Amounts{50, 100, 0, 0}); got != "copper 50, wood 100" {
		t.Fatalf("got=%q", got)
	}
	if got := formatCost(entity.Amounts{}); got != "-" {
		t.Fatalf("空消耗应为 -, got=%q", got)
	}
}

func TestCurveCmd_满级行数(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	cmd := curveCmd(testLoad)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"farm"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	tables, _ := testLoad()
	farm, _ := tables.Buildings.Spec(entity.Farm)
	s := out.String()
	if !strings.Contains(s, "copper 50, wood 100, stone 50") || !strings.Contains(s, "1m0s") {
		t.Fatalf("1 级农田应为基础造价和工期:\n%s", s)
	}
	last := formatCost(farm.CostAt(farm.MaxLevel))
	if !strings.Contains(s, last) {
		t.Fatalf("应打印到满级 %d:\n%s", farm.MaxLevel, s)
	}
}

func TestCurveCmd_未知建筑(t *testing.T) {
	cmd := curveCmd(testLoad)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"castle"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("未知建筑应报错")
	}
}

func TestGeneralCmd_种子可复现(t *testing.T) {
	color.NoColor = true
	run := func() string {
		var out bytes.Buffer
		cmd := generalCmd(testLoad)
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--rarity", "5", "--class", "vanguard", "--seed", "42"})
		if err := cmd.Execute(); err != nil {
			t.Fatal(err)
		}
		return out.String()
	}
	a, b := run(), run()
	if a != b {
		t.Fatalf("同一种子结果应相同:\n%s\n%s", a, b)
	}
	if !strings.Contains(a, "cavalry") || !strings.Contains(a, "MaxTroops") {
		t.Fatalf("输出缺少内容:\n%s", a)
	}
}

func TestCountersCmd_包含全部兵种(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	if err := renderCounters(&out); err != nil {
		t.Fatal(err)
	}
	for _, u := range entity.UnitTypes() {
		if !strings.Contains(out.String(), u.String()) {
			t.Fatalf("缺少兵种 %s", u)
		}
	}
}
