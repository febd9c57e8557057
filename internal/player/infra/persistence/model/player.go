package model

import (
	"Sanguo/internal/player/entity"
	"time"
)

// PlayerDoc mongodb 文档，_id 即 player_id
type PlayerDoc struct {
	PlayerID  int64                 `bson:"_id"`
	Version   uint64                `bson:"version"`
	State     entity.PlayerSnapshot `bson:"state"`
	UpdatedAt time.Time             `bson:"updated_at"`
}

// PlayerState mysql 行，整份快照以 JSON 存一列
type PlayerState struct {
	PlayerID  int64                 `gorm:"column:player_id;type:bigint;primaryKey;not null;autoIncrement:false;" json:"player_id"`
	Version   uint64                `gorm:"column:version;type:bigint UNSIGNED;not null;default:0;" json:"version"`
	State     entity.PlayerSnapshot `gorm:"column:state;type:json;serializer:json;not null;" json:"state"`
	UpdatedAt time.Time             `gorm:"column:updated_at;type:timestamp;not null;" json:"updated_at"`
}

func (PlayerState) TableName() string {
	return "player_state"
}

func PlayerDocFromSnapshot(s *entity.PlayerPersistSnapshot, now time.Time) PlayerDoc {
	return PlayerDoc{
		PlayerID:  s.State.PlayerID,
		Version:   s.Version,
		State:     s.State,
		UpdatedAt: now,
	}
}

func PlayerDocToSnapshot(doc PlayerDoc) *entity.PlayerPersistSnapshot {
	s := &entity.PlayerPersistSnapshot{Version: doc.Version, State: doc.State}
	if s.State.PlayerID == 0 {
		s.State.PlayerID = doc.PlayerID
	}
	return s
}

func PlayerStateFromSnapshot(s *entity.PlayerPersistSnapshot, now time.Time) *PlayerState {
	return &PlayerState{
		PlayerID:  s.State.PlayerID,
		Version:   s.Version,
		State:     s.State,
		UpdatedAt: now,
	}
}

func PlayerStateToSnapshot(m *PlayerState) *entity.PlayerPersistSnapshot {
	s := &entity.PlayerPersistSnapshot{Version: m.Version, State: m.State}
	if s.State.PlayerID == 0 {
		s.State.PlayerID = m.PlayerID
	}
	return s
}
