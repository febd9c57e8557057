package config

import (
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// Load 读取配置到 out，失败直接 panic，进程启动阶段调用。
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, out any) {
	load(Resolve(cfgName), out)
}

// Resolve 把 cfgName 解析成绝对路径，找不到时 panic
func Resolve(cfgName string) string {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName
		}
		candidate := filepath.Join(curDir, cfgName)
		if fileExist(candidate) {
			return candidate
		}
		// 相对路径在子目录（比如 go test 的包目录）下向上找
		return findUpward(curDir, cfgName)
	}
	return findUpward(curDir, defaultConfigRelPath)
}

func findUpward(startDir, rel string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched " + rel + " from: " + startDir)
		}
		dir = parent
	}
}
