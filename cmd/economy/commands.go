package main

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/shared/gameconfig"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type loader func() (*gameconfig.Tables, error)

func buildingsCmd(load loader) *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:   "buildings",
		Short: "列出全部建筑在指定等级的造价、工期和效果",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load()
			if err != nil {
				return err
			}
			if level <= 0 {
				return fmt.Errorf("level 必须大于 0")
			}
			color.New(color.FgCyan, color.Bold).Fprintf(cmd.OutOrStdout(), "建筑表（%d 级）\n", level)
			return renderBuildings(cmd.OutOrStdout(), t, level)
		},
	}
	cmd.Flags().IntVarP(&level, "level", "l", 1, "等级")
	return cmd
}

func curveCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve <building>",
		Short: "打印某建筑 1 级到满级的成长曲线",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load()
			if err != nil {
				return err
			}
			bt, ok := entity.ParseBuildingType(args[0])
			if !ok {
				return fmt.Errorf("未知建筑 %q", args[0])
			}
			spec, ok := t.Buildings.Spec(bt)
			if !ok {
				return fmt.Errorf("配置表里没有 %s", bt)
			}
			color.New(color.FgCyan, color.Bold).Fprintf(cmd.OutOrStdout(), "%s（%s）成长曲线\n", t.Buildings.Name(bt), bt)
			return renderCurve(cmd.OutOrStdout(), spec)
		},
	}
	return cmd
}

func unitsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "列出兵种属性、训练消耗和解锁建筑",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load()
			if err != nil {
				return err
			}
			return renderUnits(cmd.OutOrStdout(), t)
		},
	}
}

func countersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counters",
		Short: "兵种克制矩阵（行攻击方，列防守方）",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderCounters(cmd.OutOrStdout())
		},
	}
}

func generalCmd(load loader) *cobra.Command {
	var (
		rarity int
		class  string
		seed   uint64
		stars  int
	)
	cmd := &cobra.Command{
		Use:   "general",
		Short: "按种子生成一名武将，查看属性、带兵量和兵种加成",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := load()
			if err != nil {
				return err
			}
			c, ok := entity.ParseClass(class)
			if !ok {
				return fmt.Errorf("未知职业 %q", class)
			}
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			g := entity.CreateRandom(1, rarity, c, rng, t.Generals.Names(c))
			for i := 0; i < stars && g.StarUp(); i++ {
			}
			return renderGeneral(cmd.OutOrStdout(), t, g)
		},
	}
	cmd.Flags().IntVarP(&rarity, "rarity", "r", 3, "稀有度 1-5")
	cmd.Flags().StringVarP(&class, "class", "c", "commander", "职业 commander/vanguard/strategist")
	cmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "随机种子，相同种子结果相同")
	cmd.Flags().IntVar(&stars, "stars", 0, "额外升星次数")
	return cmd
}

func renderBuildings(w io.Writer, t *gameconfig.Tables, level int) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Type", "Name", "Category", "Effect", "Max", "Cost", "Time", "Value"}),
	)
	for _, s := range t.Buildings.All() {
		lv := min(level, s.MaxLevel)
		if err := table.Append([]string{
			s.Type.String(),
			t.Buildings.Name(s.Type),
			s.Category.String(),
			effectText(s),
			fmt.Sprintf("%d", s.MaxLevel),
			formatCost(s.CostAt(lv)),
			s.TimeAt(lv).String(),
			fmt.Sprintf("%d", s.ValueAt(lv)),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderCurve(w io.Writer, s entity.BuildingSpec) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Level", "Cost", "Time", "Value", "Total Cost", "Total Time"}),
	)
	var (
		total    entity.Amounts
		totalDur time.Duration
	)
	for lv := 1; lv <= s.MaxLevel; lv++ {
		cost := s.CostAt(lv)
		dur := s.TimeAt(lv)
		total = total.Plus(cost)
		totalDur += dur
		if err := table.Append([]string{
			fmt.Sprintf("%d", lv),
			formatCost(cost),
			dur.String(),
			fmt.Sprintf("%d", s.ValueAt(lv)),
			formatCost(total),
			totalDur.String(),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderUnits(w io.Writer, t *gameconfig.Tables) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Unit", "Name", "Attack", "Defense", "Speed", "Cost", "Requires"}),
	)
	for _, u := range t.Units.All() {
		if err := table.Append([]string{
			u.Type.String(),
			u.Name,
			fmt.Sprintf("%d", u.Attack),
			fmt.Sprintf("%d", u.Defense),
			fmt.Sprintf("%d", u.Speed),
			formatCost(u.Cost),
			u.Requires.String(),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderCounters(w io.Writer) error {
	units := entity.UnitTypes()
	header := []string{"atk \\ def"}
	for _, u := range units {
		header = append(header, u.String())
	}
	table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
	for _, a := range units {
		row := []string{a.String()}
		for _, d := range units {
			row = append(row, multiplierText(entity.CounterMultiplier(a, d)))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderGeneral(w io.Writer, t *gameconfig.Tables, g *entity.General) error {
	st := g.Stats()
	color.New(color.FgGreen, color.Bold).Fprintf(w, "%s  %s  %d★ rarity %d  Lv.%d/%d\n",
		g.Name(), t.Generals.ClassName(g.Class()), g.Stars(), g.Rarity(), g.Level(), g.LevelCap())
	fmt.Fprintf(w, "   Strength %.0f  Intelligence %.0f  Command %.0f  Speed %.0f\n",
		st.Strength, st.Intelligence, st.Command, st.Speed)
	fmt.Fprintf(w, "   Power %.0f  MaxTroops %d\n", g.Power(), g.MaxTroops(t.Generals.Troops))

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Unit", "Proficient", "Bonus"}),
	)
	for _, u := range entity.UnitTypes() {
		prof := ""
		if g.Proficient(u) {
			prof = "✓"
		}
		if err := table.Append([]string{u.String(), prof, fmt.Sprintf("×%.2f", g.BonusForUnitType(u))}); err != nil {
			return err
		}
	}
	return table.Render()
}

func effectText(s entity.BuildingSpec) string {
	if s.Effect == entity.EffectProduce {
		return s.Effect.String() + ":" + s.Produces.String()
	}
	return s.Effect.String()
}

func multiplierText(m float64) string {
	text := fmt.Sprintf("%.1f", m)
	switch {
	case m > 1:
		return color.GreenString(text)
	case m < 1:
		return color.RedString(text)
	default:
		return text
	}
}

func formatCost(a entity.Amounts) string {
	parts := make([]string, 0, entity.CurrencyCount)
	for _, c := range entity.Currencies() {
		if v := a.Get(c); v > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c, v))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
