package handler

import (
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/transport/ws"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	"fmt"
	nethttp "net/http"
	"slices"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Feed 把总线上属于当前玩家的事件推给 websocket 客户端
type Feed struct {
	bus    *eventbus.Bus
	log    logx.Logger
	server *ws.Server
	online atomic.Int64
}

func NewFeed(bus *eventbus.Bus, log logx.Logger) *Feed {
	if log == nil {
		log = logx.Nop()
	}
	f := &Feed{bus: bus, log: log}
	f.server = ws.NewServer(log, f.open)
	return f
}

// Serve 挂在 Auth 之后
func (f *Feed) Serve(c *gin.Context) {
	if _, ok := PlayerIDFrom(c); !ok {
		c.AbortWithStatus(nethttp.StatusUnauthorized)
		return
	}
	f.server.ServeHTTP(c.Writer, c.Request)
}

func (f *Feed) Online() int64 {
	return f.online.Load()
}

func (f *Feed) open(conn *ws.WsServer, req *nethttp.Request) {
	pid, _ := tracex.PlayerIDFrom(req.Context())
	conn.SetProperty(ws.ConnKeyUID, pid)

	h := eventbus.NewHandler(fmt.Sprintf("feed-%d-%s", pid, conn.Addr()), func(ctx context.Context, e eventbus.Event) error {
		if e.PlayerID() != pid || !wants(conn, e.Kind()) {
			return nil
		}
		conn.Push(e.Kind().String(), e)
		return nil
	})
	f.bus.SubscribeAll(h)
	f.online.Add(1)
	f.log.Info("feed connected", zap.Int64("player_id", pid), zap.String("addr", conn.Addr()))

	go func() {
		<-conn.Done()
		f.bus.UnsubscribeAll(h)
		f.online.Add(-1)
		f.log.Info("feed disconnected", zap.Int64("player_id", pid))
	}()
}

func wants(conn ws.WSConn, k eventbus.Kind) bool {
	kinds, _ := conn.GetProperty(ws.ConnKeyKinds).([]string)
	if len(kinds) == 0 {
		return true
	}
	return slices.Contains(kinds, k.String())
}
