package serverconfig

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	c := Config{PlayerServer: PlayerServerConfig{Port: 8004}}
	if err := c.Validate(); err != nil {
		t.Fatalf("默认内存存档应通过: %v", err)
	}

	c.Economy.Storage = "redis"
	c.PlayerServer.Port = 0
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "economy.storage") || !strings.Contains(err.Error(), "playerserver.port") {
		t.Fatalf("应同时报告两个错误: %v", err)
	}

	c = Config{PlayerServer: PlayerServerConfig{Port: 8004}, Economy: EconomyConfig{Storage: "mongodb"}}
	if err := c.Validate(); err == nil || !strings.Contains(err.Error(), "mongodb.uri") {
		t.Fatalf("mongodb 缺 uri 应报错: %v", err)
	}
	c.Economy = EconomyConfig{Storage: "memory", TroopCap: -1}
	if err := c.Validate(); err == nil {
		t.Fatalf("负数上限应报错")
	}
}
