package main

import (
	"Sanguo/internal/player/app/port"
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/infra/persistence/memory"
	playermongo "Sanguo/internal/player/infra/persistence/mongodb"
	playermysql "Sanguo/internal/player/infra/persistence/mysql"
	"Sanguo/internal/player/manager"
	"Sanguo/internal/shared/infrastructure/db"
	sharedmongo "Sanguo/internal/shared/infrastructure/mongo"
	"Sanguo/internal/shared/logs"
	"Sanguo/internal/shared/serverconfig"
	"context"
	"fmt"
)

// economyDefaults 配置里没写的字段沿用内置默认值
func economyDefaults(cfg serverconfig.EconomyConfig) (manager.Defaults, error) {
	d := manager.DefaultDefaults()
	if len(cfg.StartResources) > 0 {
		a, err := entity.AmountsFromMap(cfg.StartResources)
		if err != nil {
			return d, fmt.Errorf("economy.start_resources: %w", err)
		}
		d.StartResources = a
	}
	if len(cfg.BaseIncome) > 0 {
		a, err := entity.AmountsFromMap(cfg.BaseIncome)
		if err != nil {
			return d, fmt.Errorf("economy.base_income: %w", err)
		}
		d.BaseIncome = a
	}
	if cfg.ResourceCap > 0 {
		d.ResourceCap = cfg.ResourceCap
	}
	if cfg.TroopCap > 0 {
		d.TroopCap = cfg.TroopCap
	}
	if cfg.MaxGenerals > 0 {
		d.MaxGenerals = cfg.MaxGenerals
	}
	return d, nil
}

// openRepo 按 economy.storage 选择存档后端，返回的 close 在进程退出时调用
func openRepo(conf serverconfig.Config) (port.PlayerRepository, func(), error) {
	switch conf.Economy.Storage {
	case "", "memory":
		logs.Warn("player storage is memory, data lost on restart")
		return memory.NewPlayerRepo(), func() {}, nil
	case "mongodb":
		client, err := sharedmongo.Open(conf.MongoDB, logs.L())
		if err != nil {
			return nil, nil, err
		}
		repo := playermongo.NewPlayerRepo(client.Database(conf.MongoDB.Database), conf.MongoDB.Collection)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	case "mysql":
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := playermysql.NewPlayerRepo(gdb)
		if err := repo.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", conf.Economy.Storage)
	}
}
