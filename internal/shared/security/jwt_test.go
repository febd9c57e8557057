package security

import (
	"testing"
	"time"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Award(1); err == nil {
		t.Fatalf("期望 JWT_SECRET 为空时 Award 返回错误")
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award(42)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if token == "" {
		t.Fatalf("期望 token 非空")
	}

	_, claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims == nil || claims.PlayerID != 42 {
		t.Fatalf("期望 claims.PlayerID==42, got=%v", claims)
	}
}

func TestParseToken_过期或非法玩家id应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	expired, err := AwardWithTTL(42, -time.Minute)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if _, _, err := ParseToken(expired); err == nil {
		t.Fatalf("过期 token 应解析失败")
	}

	zero, _ := Award(0)
	if _, _, err := ParseToken(zero); err == nil {
		t.Fatalf("player id 为 0 的 token 应解析失败")
	}

	t.Setenv("JWT_SECRET", "another-secret")
	good, _ := Award(1)
	t.Setenv("JWT_SECRET", "test-secret-123")
	if _, _, err := ParseToken(good); err == nil {
		t.Fatalf("签名密钥不同应解析失败")
	}
}
