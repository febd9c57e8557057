package ws

import (
	"Sanguo/modules/kit/logx"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// OpenFunc 握手成功后回调，返回后连接才开始读写
type OpenFunc func(conn *WsServer, req *http.Request)

type Server struct {
	log      logx.Logger
	onOpen   OpenFunc
	upgrader websocket.Upgrader
}

func NewServer(l logx.Logger, onOpen OpenFunc) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		log:    l,
		onOpen: onOpen,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	conn := NewWsServer(wsConn, s.log)
	if s.onOpen != nil {
		s.onOpen(conn, req)
	}
	s.log.Debug("websocket upgrade success", zap.String("addr", conn.Addr()))
	conn.Run()
}
