package model

import (
	"Sanguo/internal/player/entity"
	"testing"
	"time"
)

func TestToSnapshot_缺失玩家ID时用主键补齐(t *testing.T) {
	s := PlayerDocToSnapshot(PlayerDoc{PlayerID: 11, Version: 2})
	if s.State.PlayerID != 11 || s.Version != 2 {
		t.Fatalf("doc 转换错误: %+v", s)
	}
	s = PlayerStateToSnapshot(&PlayerState{PlayerID: 12, Version: 3})
	if s.State.PlayerID != 12 || s.Version != 3 {
		t.Fatalf("row 转换错误: %+v", s)
	}
}

func TestFromSnapshot_记录更新时间(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	src := &entity.PlayerPersistSnapshot{Version: 4, State: entity.PlayerSnapshot{PlayerID: 5}}
	row := PlayerStateFromSnapshot(src, now)
	if row.PlayerID != 5 || row.Version != 4 || !row.UpdatedAt.Equal(now) {
		t.Fatalf("row 字段错误: %+v", row)
	}
	if row.TableName() != "player_state" {
		t.Fatalf("表名错误: %s", row.TableName())
	}
}
