package entity

import (
	"Sanguo/modules/kit/errx"
)

const (
	CodePlayerNotFound  errx.Code = "PLAYER_NOT_FOUND"
	CodeSnapshotInvalid errx.Code = "SNAPSHOT_INVALID"
)

var (
	ErrPlayerNotFound  = errx.NewBiz(CodePlayerNotFound, "player not found")
	ErrSnapshotInvalid = errx.NewSys(CodeSnapshotInvalid, "player snapshot invalid")
)
