package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// 2025-01-01 00:00:00 UTC，单位毫秒
	snowflakeEpochMilli int64 = 1735689600000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

// Snowflake 生成全局唯一的实体 id（建筑、领地、武将），跨玩家不冲突
type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range: %d", nodeID)
	}
	return &Snowflake{nodeID: nodeID}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := time.Now().UnixMilli()
	if ts < s.lastTS {
		// 时钟回拨时不回退，保持单调递增。
		ts = s.lastTS
	}

	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			ts = waitNextMillisecond(s.lastTS)
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - snowflakeEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

func waitNextMillisecond(lastTS int64) int64 {
	ts := time.Now().UnixMilli()
	for ts <= lastTS {
		ts = time.Now().UnixMilli()
	}
	return ts
}

// NodeID 环境变量 SNOWFLAKE_NODE_ID 优先，未设置时用 fallback（一般是 logic.server_id）
func NodeID(fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv("SNOWFLAKE_NODE_ID"))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid SNOWFLAKE_NODE_ID: %w", err)
	}
	return parsed, nil
}

// MustSnowflake 启动阶段使用，节点号非法直接 panic
func MustSnowflake(fallback int64) *Snowflake {
	node, err := NodeID(fallback)
	if err != nil {
		panic(err)
	}
	s, err := NewSnowflake(node)
	if err != nil {
		panic(err)
	}
	return s
}
