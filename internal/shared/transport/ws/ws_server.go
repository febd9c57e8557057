package ws

import (
	"Sanguo/modules/kit/logx"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	outBuffer  = 256
)

type WsServer struct {
	conn     *websocket.Conn
	outChan  chan *RespBody
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger) *WsServer {
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *RespBody, outBuffer),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 非阻塞投递；缓冲满说明客户端读得太慢，直接断开
func (s *WsServer) Push(name string, data any) bool {
	return s.send(&RespBody{Name: name, Msg: data})
}

func (s *WsServer) send(body *RespBody) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outChan <- body:
		return true
	default:
		s.log.Warn("ws_server out buffer full, closing", zap.String("addr", s.Addr()))
		s.Close()
		return false
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop error", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		req := ReqBody{}
		if err := json.Unmarshal(data, &req); err != nil {
			s.log.Warn("ws_server unmarshal json error", zap.Error(err))
			continue
		}

		resp := &RespBody{Seq: req.Seq, Name: req.Name}
		switch req.Name {
		case HeartbeatMsg:
			h := &Heartbeat{}
			_ = mapstructure.Decode(req.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Msg = h
		case SubscribeMsg:
			sub := &Subscribe{}
			if err := mapstructure.Decode(req.Msg, sub); err != nil {
				resp.Code = 400
				resp.Msg = err.Error()
				break
			}
			s.SetProperty(ConnKeyKinds, sub.Kinds)
			resp.Msg = sub
		default:
			resp.Code = 404
			resp.Msg = "unknown message " + req.Name
		}
		s.send(resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()
	for {
		select {
		case msg := <-s.outChan:
			if !s.write(msg) {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *RespBody) bool {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.log.Warn("ws_server write error", zap.Error(err))
		return false
	}
	return true
}
