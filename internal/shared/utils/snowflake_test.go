package utils

import "testing"

func TestSnowflake_单调递增(t *testing.T) {
	s, err := NewSnowflake(3)
	if err != nil {
		t.Fatal(err)
	}
	last := int64(0)
	for i := 0; i < 10000; i++ {
		id := s.NextID()
		if id <= last {
			t.Fatalf("id 未递增: %d <= %d", id, last)
		}
		last = id
	}
	if (last>>nodeShift)&maxNodeID != 3 {
		t.Fatalf("节点号未编码进 id")
	}
}

func TestNodeID_环境变量优先(t *testing.T) {
	t.Setenv("SNOWFLAKE_NODE_ID", "")
	if n, _ := NodeID(7); n != 7 {
		t.Fatalf("未设置时应使用 fallback, got=%d", n)
	}
	t.Setenv("SNOWFLAKE_NODE_ID", "12")
	if n, _ := NodeID(7); n != 12 {
		t.Fatalf("应使用环境变量, got=%d", n)
	}
	t.Setenv("SNOWFLAKE_NODE_ID", "x")
	if _, err := NodeID(7); err == nil {
		t.Fatalf("非法值应报错")
	}
	if _, err := NewSnowflake(maxNodeID + 1); err == nil {
		t.Fatalf("节点号越界应报错")
	}
}
