package memory

import (
	"Sanguo/internal/player/entity"
	"context"
	"errors"
	"testing"
)

func TestPlayerRepo_旧版本不覆盖新版本(t *testing.T) {
	r := NewPlayerRepo()
	ctx := context.Background()

	if _, err := r.LoadPlayer(ctx, 1); !errors.Is(err, entity.ErrPlayerNotFound) {
		t.Fatalf("不存在时应返回 ErrPlayerNotFound, got=%v", err)
	}

	newer := &entity.PlayerPersistSnapshot{Version: 3, State: entity.PlayerSnapshot{PlayerID: 1, GeneralCap: 3}}
	older := &entity.PlayerPersistSnapshot{Version: 2, State: entity.PlayerSnapshot{PlayerID: 1, GeneralCap: 2}}
	if err := r.Snapshot(ctx, newer); err != nil {
		t.Fatal(err)
	}
	if err := r.Snapshot(ctx, older); err != nil {
		t.Fatal(err)
	}

	got, err := r.LoadPlayer(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 3 || got.State.GeneralCap != 3 {
		t.Fatalf("旧版本不应覆盖新版本: %+v", got)
	}
}

func TestPlayerRepo_读写不共享内存(t *testing.T) {
	r := NewPlayerRepo()
	ctx := context.Background()
	s := &entity.PlayerPersistSnapshot{Version: 1, State: entity.PlayerSnapshot{
		PlayerID:  1,
		Resources: entity.ResourceSnapshot{Amounts: map[string]int64{"copper": 10}},
	}}
	_ = r.Snapshot(ctx, s)
	s.State.Resources.Amounts["copper"] = 999

	got, _ := r.LoadPlayer(ctx, 1)
	if got.State.Resources.Amounts["copper"] != 10 {
		t.Fatalf("保存后修改原快照不应影响存储")
	}
}
