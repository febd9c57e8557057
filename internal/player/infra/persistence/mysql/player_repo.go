package mysql

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/errs"
	"Sanguo/internal/player/infra/persistence/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	OpLoadPlayer = "repo.player.LoadPlayer"
	OpSnapshot   = "repo.player.Snapshot"
	OpMigrate    = "repo.player.Migrate"
)

type PlayerRepo struct {
	db *gorm.DB
}

func NewPlayerRepo(db *gorm.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

func (r *PlayerRepo) WithTx(tx *gorm.DB) *PlayerRepo {
	return &PlayerRepo{
		db: tx,
	}
}

// AutoMigrate 建表，启动时调用一次
func (r *PlayerRepo) AutoMigrate() error {
	if err := r.db.AutoMigrate(&model.PlayerState{}); err != nil {
		return errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
	}
	return nil
}

func (r *PlayerRepo) LoadPlayer(ctx context.Context, id entity.PlayerID) (*entity.PlayerPersistSnapshot, error) {
	var m model.PlayerState
	err := r.db.WithContext(ctx).Where("player_id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return model.PlayerStateToSnapshot(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entity.ErrPlayerNotFound
	default:
		//  纯技术错误（连接超时等），是无法转换的技术错误，保持原样或包装返回给上级
		return nil, errs.Wrap(OpLoadPlayer, errs.KindInfra, err, map[string]any{"player_id": int64(id)})
	}
}

// Snapshot 行锁内比较版本，旧版本直接丢弃
func (r *PlayerRepo) Snapshot(ctx context.Context, s *entity.PlayerPersistSnapshot) error {
	if s == nil {
		return nil
	}
	meta := map[string]any{"player_id": s.State.PlayerID, "version": s.Version}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.PlayerState
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("player_id", "version").
			Where("player_id = ?", s.State.PlayerID).
			First(&cur).Error
		switch {
		case err == nil:
			if cur.Version >= s.Version {
				return nil
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}
		return r.WithTx(tx).save(ctx, model.PlayerStateFromSnapshot(s, time.Now()))
	})
	if err != nil {
		return errs.Wrap(OpSnapshot, errs.KindInfra, err, meta)
	}
	return nil
}

func (r *PlayerRepo) save(ctx context.Context, m *model.PlayerState) error {
	return r.db.WithContext(ctx).Save(m).Error
}
