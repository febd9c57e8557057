package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestPlayerID_零值视为不存在(t *testing.T) {
	if _, ok := PlayerIDFrom(WithPlayerID(context.Background(), 0)); ok {
		t.Fatalf("期望 player_id=0 视为不存在")
	}
	if got, ok := PlayerIDFrom(WithPlayerID(context.Background(), 9)); !ok || got != 9 {
		t.Fatalf("期望 player_id=9, got=%d ok=%v", got, ok)
	}
}
