package mongodb

import (
	"context"
	"errors"
	"time"

	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/errs"
	"Sanguo/internal/player/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultPlayerCollectionName = "player"

const (
	OpLoadPlayer = "repo.player.LoadPlayer"
	OpSnapshot   = "repo.player.Snapshot"
)

type PlayerRepo struct {
	coll *mongo.Collection
}

// NewPlayerRepo collection 为空时使用默认集合名
func NewPlayerRepo(db *mongo.Database, collection string) *PlayerRepo {
	if db == nil {
		return &PlayerRepo{}
	}
	if collection == "" {
		collection = defaultPlayerCollectionName
	}
	return &PlayerRepo{coll: db.Collection(collection)}
}

func (r *PlayerRepo) LoadPlayer(ctx context.Context, id entity.PlayerID) (*entity.PlayerPersistSnapshot, error) {
	if r == nil || r.coll == nil {
		return nil, errs.Wrap(OpLoadPlayer, errs.KindInfra, errors.New("mongodb player collection is nil"), nil)
	}

	var doc model.PlayerDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	switch {
	case err == nil:
		return model.PlayerDocToSnapshot(doc), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, entity.ErrPlayerNotFound
	default:
		return nil, errs.Wrap(OpLoadPlayer, errs.KindInfra, err, map[string]any{"player_id": int64(id)})
	}
}

// Snapshot 只在库里版本更旧（或不存在）时写入。
// 库里已有更新版本时过滤条件不命中，upsert 转为插入并撞主键，视为过期快照直接丢弃。
func (r *PlayerRepo) Snapshot(ctx context.Context, s *entity.PlayerPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errs.Wrap(OpSnapshot, errs.KindInfra, errors.New("mongodb player collection is nil"), nil)
	}

	doc := model.PlayerDocFromSnapshot(s, time.Now())
	if doc.PlayerID == 0 {
		return errs.Wrap(OpSnapshot, errs.KindInfra, entity.ErrPlayerNotFound, nil)
	}

	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.PlayerID, "version": bson.M{"$lt": doc.Version}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return errs.Wrap(OpSnapshot, errs.KindInfra, err, map[string]any{"player_id": doc.PlayerID, "version": doc.Version})
	}
	return nil
}
