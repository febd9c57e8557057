package main

import (
	"Sanguo/internal/shared/gameconfig"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// economy 离线查看数值表：建筑曲线、兵种克制、武将成长
func main() {
	var dataDir string
	rootCmd := &cobra.Command{
		Use:   "economy",
		Short: "三国经济数值查看工具",
		Long: `读取建筑/兵种/武将配置表，打印各级造价、工期、产量，
兵种克制矩阵，以及按种子复现的武将属性。`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "配置表目录，留空使用内嵌表")

	load := func() (*gameconfig.Tables, error) {
		return gameconfig.Load(dataDir)
	}
	rootCmd.AddCommand(
		buildingsCmd(load),
		curveCmd(load),
		unitsCmd(load),
		countersCmd(),
		generalCmd(load),
	)

	if err := rootCmd.Execute(); err != nil {
		color.Red("%v", err)
		fmt.Fprintln(os.Stderr)
		os.Exit(1)
	}
}
