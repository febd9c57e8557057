package port

import (
	"Sanguo/internal/player/entity"
	"context"
)

// PlayerRepository 玩家状态存储。
// LoadPlayer 找不到时返回 entity.ErrPlayerNotFound；
// Snapshot 按 version 保存，旧版本不得覆盖新版本。
type PlayerRepository interface {
	LoadPlayer(ctx context.Context, id entity.PlayerID) (*entity.PlayerPersistSnapshot, error)
	Snapshot(ctx context.Context, s *entity.PlayerPersistSnapshot) error
}
