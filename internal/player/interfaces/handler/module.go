package handler

import (
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/gameconfig"
	"Sanguo/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	Player *PlayerHandler
	Feed   *Feed
	dev    bool
	jr     JournalReader
}

func NewModule(rt Runtime, bus *eventbus.Bus, tables *gameconfig.Tables, log logx.Logger, dev bool) *Module {
	return &Module{
		Player: NewPlayerHandler(rt, tables, log),
		Feed:   NewFeed(bus, log),
		dev:    dev,
	}
}

// WithJournal 开启 /api/player/journal 查询
func (m *Module) WithJournal(jr JournalReader) *Module {
	m.jr = jr
	return m
}

// Register 路由：
//
//	/api/config/*       公开
//	/api/dev/token      仅开发环境
//	/api/player/*       需要登录
//	/api/player/events  websocket 事件推送
//	/api/player/journal 事件流水，配置了 sqlite 才有
func (m *Module) Register(group *gin.RouterGroup) {
	api := group.Group("/api")
	m.Player.RegisterPublic(api)
	if m.dev {
		api.POST("/dev/token", DevToken)
	}

	authed := api.Group("/player", Auth())
	m.Player.RegisterRoutes(authed)
	authed.GET("/events", m.Feed.Serve)
	if m.jr != nil {
		authed.GET("/journal", m.Player.Journal(m.jr))
	}
}
