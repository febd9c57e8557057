package errx

import (
	"errors"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("BIZ_X", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("BIZ_X", "x2").WithData("k2", "v2")
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true，e1=%v e2=%v", e1, e2)
	}
}

func TestError_业务错误不捕获栈(t *testing.T) {
	cause := errors.New("mongo down")
	err := NewBiz("BIZ_SLOT_OCCUPIED", "槽位已占用").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
}

func TestError_系统错误只捕获一次栈(t *testing.T) {
	sys := ErrUnavailable.WithCause(errors.New("io timeout"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	outer := ErrInternal.WithCause(sys)
	if outer.Stack() != nil {
		t.Fatalf("期望上层不重复捕获栈，got=%v", outer.Stack())
	}
}

func TestError_派生不污染哨兵(t *testing.T) {
	err := ErrInvariant.WithData("player_id", int64(7))
	if ErrInvariant.Data() != nil {
		t.Fatalf("期望哨兵错误 data 为空")
	}
	if err.Data()["player_id"] != int64(7) {
		t.Fatalf("期望派生错误携带 player_id, got=%v", err.Data())
	}
	m := map[string]any{"k": "v"}
	err2 := NewBiz("BIZ_X", "").WithDataMap(m)
	m["k"] = "mutated"
	if err2.Data()["k"] != "v" {
		t.Fatalf("期望构造时复制 data, got=%v", err2.Data()["k"])
	}
}
