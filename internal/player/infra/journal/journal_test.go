package journal

import (
	"Sanguo/internal/player/events"
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/infrastructure/sqlite"
	"Sanguo/internal/shared/serverconfig"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func openJournal(t *testing.T, buffer int) *Journal {
	t.Helper()
	db, err := sqlite.Open(serverconfig.SQLiteConfig{Path: filepath.Join(t.TempDir(), "journal.db")}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	j, err := New(db, logx.Nop(), buffer)
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	return j
}

func TestJournal_按玩家查询(t *testing.T) {
	j := openJournal(t, 0)
	bus := eventbus.New(nil)
	if n := j.Attach(bus); n != len(eventbus.Kinds()) {
		t.Fatalf("应订阅全部事件种类, got=%d", n)
	}

	ctx := tracex.WithTraceID(context.Background(), "trace-1")
	bus.Publish(ctx, events.ResourceChanged{Base: events.Base{Player: 1}, Currency: "wood", Old: 0, New: 10})
	bus.Publish(ctx, events.GeneralLeveled{Base: events.Base{Player: 2}, GeneralID: 5, Old: 1, New: 2})
	bus.Publish(ctx, events.ResourceChanged{Base: events.Base{Player: 1}, Currency: "food", Old: 0, New: 20})
	j.Close()

	if j.Written() != 3 || j.Dropped() != 0 {
		t.Fatalf("written=%d dropped=%d", j.Written(), j.Dropped())
	}
	list, err := j.ListByPlayer(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("玩家 1 应有 2 条, got=%d", len(list))
	}
	// 倒序
	var p struct {
		Currency string `json:"currency"`
		New      int64  `json:"new"`
	}
	if err := json.Unmarshal(list[0].Payload, &p); err != nil || p.Currency != "food" || p.New != 20 {
		t.Fatalf("最新一条应为 food: %s", list[0].Payload)
	}
	if list[0].Kind != "resource_changed" || list[0].TraceID != "trace-1" {
		t.Fatalf("kind/trace 错误: %+v", list[0])
	}
}

func TestJournal_关闭后不再接收(t *testing.T) {
	j := openJournal(t, 4)
	j.Close()
	j.Close()
	if err := j.Handle(context.Background(), events.GeneralDismissed{Base: events.Base{Player: 1}}); err != nil {
		t.Fatalf("关闭后 Handle 不应报错: %v", err)
	}
	if j.Dropped() != 1 {
		t.Fatalf("关闭后的事件应计入丢弃, got=%d", j.Dropped())
	}
}
