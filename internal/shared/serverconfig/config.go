package serverconfig

import (
	"Sanguo/internal/shared/config"
	"errors"
	"fmt"
	"os"
	"slices"
)

const defaultConfigRelPath = "configs/conf.yml"

// Storages economy.storage 支持的存档后端
var Storages = []string{"", "memory", "mongodb", "mysql"}

var Conf Config

// Load path 为空时向上查找 configs/conf.yml
func Load(path string) {
	if path == "" {
		path = defaultConfigRelPath
	}
	config.Load(path, &Conf)
	// 环境变量优先，未设置时用配置里的 jwt_secret
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
}

// Validate 启动前检查会导致运行期才报错的配置
func (c Config) Validate() error {
	var errs []error
	if c.PlayerServer.Port <= 0 || c.PlayerServer.Port > 65535 {
		errs = append(errs, fmt.Errorf("playerserver.port out of range: %d", c.PlayerServer.Port))
	}
	if !slices.Contains(Storages, c.Economy.Storage) {
		errs = append(errs, fmt.Errorf("economy.storage unknown: %q", c.Economy.Storage))
	}
	if c.Economy.Storage == "mongodb" && c.MongoDB.URI == "" {
		errs = append(errs, errors.New("mongodb.uri is required when economy.storage=mongodb"))
	}
	if c.Economy.Storage == "mysql" && c.MySQL.Host == "" {
		errs = append(errs, errors.New("mysql.host is required when economy.storage=mysql"))
	}
	if c.Economy.ResourceCap < 0 || c.Economy.TroopCap < 0 || c.Economy.MaxGenerals < 0 {
		errs = append(errs, errors.New("economy caps must not be negative"))
	}
	return errors.Join(errs...)
}
