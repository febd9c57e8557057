package memory

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/errs"
	"context"
	"encoding/json"
	"sync"
)

const (
	OpLoadPlayer = "repo.player.LoadPlayer"
	OpSnapshot   = "repo.player.Snapshot"
)

type record struct {
	version uint64
	state   []byte
}

// PlayerRepo 进程内存储，单机调试和测试使用。
// 快照以 JSON 保存，读写两侧互不共享 map/slice。
type PlayerRepo struct {
	mu   sync.RWMutex
	data map[entity.PlayerID]record
}

func NewPlayerRepo() *PlayerRepo {
	return &PlayerRepo{data: make(map[entity.PlayerID]record)}
}

func (r *PlayerRepo) LoadPlayer(ctx context.Context, id entity.PlayerID) (*entity.PlayerPersistSnapshot, error) {
	_ = ctx
	r.mu.RLock()
	rec, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return nil, entity.ErrPlayerNotFound
	}
	var state entity.PlayerSnapshot
	if err := json.Unmarshal(rec.state, &state); err != nil {
		return nil, errs.Wrap(OpLoadPlayer, errs.KindInfra, err, map[string]any{"player_id": int64(id)})
	}
	return &entity.PlayerPersistSnapshot{Version: rec.version, State: state}, nil
}

func (r *PlayerRepo) Snapshot(ctx context.Context, s *entity.PlayerPersistSnapshot) error {
	_ = ctx
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(s.State)
	if err != nil {
		return errs.Wrap(OpSnapshot, errs.KindInfra, err, map[string]any{"player_id": s.State.PlayerID})
	}
	id := entity.PlayerID(s.State.PlayerID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.data[id]; ok && cur.version >= s.Version {
		return nil
	}
	r.data[id] = record{version: s.Version, state: raw}
	return nil
}

// Version 当前保存的版本号，测试观察写入结果
func (r *PlayerRepo) Version(id entity.PlayerID) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.data[id]
	return rec.version, ok
}
