package handler

import (
	"Sanguo/internal/player/infra/journal"
	"Sanguo/internal/shared/transport"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

type JournalReader interface {
	ListByPlayer(ctx context.Context, playerID int64, limit int) ([]journal.Entry, error)
}

type journalItem struct {
	ID      int64  `json:"id"`
	Kind    string `json:"kind"`
	TraceID string `json:"trace_id,omitempty"`
	Payload any    `json:"payload"`
	At      int64  `json:"at"`
}

// Journal 最近的事件流水，?limit= 默认 50，最多 500
func (h *PlayerHandler) Journal(reader JournalReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid, ok := PlayerIDFrom(c)
		if !ok {
			h.fail(c, transport.Unauthorized, "", "未登录")
			return
		}
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				h.fail(c, transport.InvalidParam, "", "limit 参数有误")
				return
			}
			limit = min(v, 500)
		}
		list, err := reader.ListByPlayer(c.Request.Context(), pid, limit)
		if err != nil {
			code, msg := HandleError(c.Request.Context(), h.log, err)
			h.fail(c, code, "", msg)
			return
		}
		out := make([]journalItem, 0, len(list))
		for _, e := range list {
			out = append(out, journalItem{ID: e.ID, Kind: e.Kind, TraceID: e.TraceID, Payload: e.Payload, At: e.At.UnixMilli()})
		}
		h.ok(c, out)
	}
}
