package mongodb

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/errs"
	"Sanguo/internal/player/infra/persistence/model"
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPlayerRepo_未连接返回基础设施错误(t *testing.T) {
	r := NewPlayerRepo(nil, "")
	_, err := r.LoadPlayer(context.Background(), 1)
	if errs.KindOf(err) != errs.KindInfra {
		t.Fatalf("应为 infra 错误: %v", err)
	}
	if errors.Is(err, entity.ErrPlayerNotFound) {
		t.Fatalf("未连接不能当成玩家不存在")
	}
	if err := r.Snapshot(context.Background(), nil); err != nil {
		t.Fatalf("空快照应忽略: %v", err)
	}
	err = r.Snapshot(context.Background(), &entity.PlayerPersistSnapshot{Version: 1, State: entity.PlayerSnapshot{PlayerID: 1}})
	if errs.KindOf(err) != errs.KindInfra {
		t.Fatalf("应为 infra 错误: %v", err)
	}
}

func TestPlayerDoc_BSON往返(t *testing.T) {
	// bson 时间精度为毫秒
	now := time.Now().UTC().Truncate(time.Millisecond)
	src := &entity.PlayerPersistSnapshot{
		Version: 7,
		State: entity.PlayerSnapshot{
			PlayerID:  42,
			Resources: entity.ResourceSnapshot{Amounts: map[string]int64{"wood": 300}, Caps: map[string]int64{"wood": 10000}},
			Army:      entity.ArmySnapshot{Counts: map[string]int64{"archer": 12}, Cap: 5000},
			Territories: []entity.TerritorySnapshot{{
				ID: 5, CityRef: "xuchang", Capacity: 15, CreatedAt: now,
				Core:  entity.BuildingSnapshot{ID: 6, Type: "palace", Level: 1},
				Slots: []entity.SlotSnapshot{{Slot: 2, Building: entity.BuildingSnapshot{ID: 8, Type: "farm", Level: 1, Constructing: true, CompleteAt: now}}},
			}},
			Generals: []entity.GeneralSnapshot{{ID: 9, Name: "子龙", Class: "vanguard", Rarity: 5, Level: 3, Stars: 2, Strength: 48.4}},
		},
	}

	raw, err := bson.Marshal(model.PlayerDocFromSnapshot(src, now))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc model.PlayerDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := model.PlayerDocToSnapshot(doc)
	if got.Version != 7 || got.State.PlayerID != 42 {
		t.Fatalf("主键或版本错误: %+v", got)
	}
	if got.State.Resources.Amounts["wood"] != 300 || got.State.Army.Counts["archer"] != 12 {
		t.Fatalf("资源或兵力错误: %+v", got.State)
	}
	slot := got.State.Territories[0].Slots[0]
	if slot.Slot != 2 || !slot.Building.Constructing || !slot.Building.CompleteAt.Equal(now) {
		t.Fatalf("槽位错误: %+v", slot)
	}
	if got.State.Generals[0].Name != "子龙" || got.State.Generals[0].Strength != 48.4 {
		t.Fatalf("武将错误: %+v", got.State.Generals[0])
	}
}
