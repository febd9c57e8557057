package errs

import (
	"errors"
	"testing"
)

func TestWrap_保留根因(t *testing.T) {
	root := errors.New("connection refused")
	err := Wrap("repo.player.LoadPlayer", KindInfra, root, map[string]any{"player_id": 1})
	if !errors.Is(err, root) {
		t.Fatalf("应能通过 errors.Is 找到根因")
	}
	if KindOf(err) != KindInfra {
		t.Fatalf("kind 错误: %s", KindOf(err))
	}
	if err.Error() != "repo.player.LoadPlayer: connection refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestWrap_nil根因返回nil(t *testing.T) {
	if Wrap("op", KindInfra, nil, nil) != nil {
		t.Fatalf("nil cause 应返回 nil")
	}
	if KindOf(errors.New("x")) != KindUnknown {
		t.Fatalf("非 errs.Error 应为 unknown")
	}
}
