package http

import (
	"Sanguo/internal/shared/transport/http/middleware"
	"Sanguo/modules/kit/logx"
	"context"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine  *gin.Engine
	group   *gin.RouterGroup
	srv     *nethttp.Server
	started time.Time
}

type Option func(*nethttp.Server)

// WithTimeouts 覆盖默认读写超时；websocket 连接自己维护读写 deadline，不受这里影响
func WithTimeouts(read, write, idle time.Duration) Option {
	return func(s *nethttp.Server) {
		s.ReadTimeout = read
		s.WriteTimeout = write
		s.IdleTimeout = idle
	}
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts ...Option) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	if logger == nil {
		logger = logx.Nop()
	}
	s := &Server{
		engine:  engine,
		started: time.Now(),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s.srv)
	}

	engine.Use(middleware.Cors())
	engine.Use(middleware.AccessLog(logger, "/healthz"))
	engine.GET("/healthz", s.healthz)
	s.group = engine.Group("")
	return s
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(nethttp.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Truncate(time.Second).String(),
	})
}

// Start 阻塞监听，关闭时返回 net/http.ErrServerClosed
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Serve 在已有的 listener 上服务，测试里用 127.0.0.1:0
func (s *Server) Serve(l net.Listener) error {
	return s.srv.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}
