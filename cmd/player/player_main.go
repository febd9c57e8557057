package main

import (
	playeractor "Sanguo/internal/player/actor"
	"Sanguo/internal/player/actors"
	"Sanguo/internal/player/infra/journal"
	"Sanguo/internal/player/interfaces/handler"
	"Sanguo/internal/shared/config"
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/gameconfig"
	sqliteinfra "Sanguo/internal/shared/infrastructure/sqlite"
	"Sanguo/internal/shared/logs"
	"Sanguo/internal/shared/serverconfig"
	transporthttp "Sanguo/internal/shared/transport/http"
	"Sanguo/internal/shared/utils"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "player",
		Short: "玩家经济服：资源、兵力、领地建筑、武将",
		Run: func(cmd *cobra.Command, args []string) {
			serve(cfgPath)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "配置文件路径，默认向上查找 configs/conf.yml")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cfgPath string) {
	serverconfig.Load(cfgPath)
	conf := serverconfig.Conf
	if err := logs.Init("player", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("playerserver", conf.PlayerServer), zap.Any("economy", conf.Economy))
	if err := conf.Validate(); err != nil {
		logs.Fatal("invalid config", zap.Error(err))
	}

	// 日志级别支持热更新
	config.OnChange(func(v *viper.Viper) {
		logs.SetLevel(v.GetString("log.level"))
		logs.Info("log level reloaded", zap.String("level", v.GetString("log.level")))
	})

	logger := logs.Logx()

	tables, err := gameconfig.Load(conf.Logic.JSONData)
	if err != nil {
		logs.Fatal("load game config failed", zap.Error(err))
	}

	defaults, err := economyDefaults(conf.Economy)
	if err != nil {
		logs.Fatal("invalid economy config", zap.Error(err))
	}

	repo, closeRepo, err := openRepo(conf)
	if err != nil {
		logs.Fatal("open player storage failed", zap.String("storage", conf.Economy.Storage), zap.Error(err))
	}
	defer closeRepo()

	bus := eventbus.Default()
	bus.SetLogger(logger)
	defer eventbus.Shutdown()

	var jr *journal.Journal
	if conf.SQLite.Path != "" {
		sdb, err := sqliteinfra.Open(conf.SQLite, logs.L())
		if err != nil {
			logs.Fatal("open sqlite failed", zap.Error(err))
		}
		defer func() { _ = sdb.Close() }()
		jr, err = journal.New(sdb, logger, conf.SQLite.BufferSize)
		if err != nil {
			logs.Fatal("init journal failed", zap.Error(err))
		}
		jr.Attach(bus)
		// 先于 sqlite 关闭，把缓冲里的流水写完
		defer jr.Close()
	}

	rt := playeractor.NewRuntime(actors.Deps{
		Repo:             repo,
		Bus:              bus,
		Logger:           logger,
		Tables:           tables,
		IDs:              utils.MustSnowflake(int64(conf.Logic.ServerID)),
		Defaults:         defaults,
		FlushEvery:       conf.Economy.FlushInterval,
		AccrualEvery:     conf.Economy.AccrualInterval,
		ConstructionTick: conf.Economy.ConstructionTick,
	}, conf.PlayerServer.AskTimeout)
	defer rt.Shutdown()

	if !conf.PlayerServer.IsDev {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	host := conf.PlayerServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.PlayerServer.Port)
	server := transporthttp.NewHttpServer(addr, engine, logger)

	module := handler.NewModule(rt, bus, tables, logger, conf.PlayerServer.IsDev)
	if jr != nil {
		module.WithJournal(jr)
	}
	module.Register(server.Group())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("player http server started", zap.String("addr", addr))
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("player http serve failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Warn("http shutdown", zap.Error(err))
	}
	logs.Info("player server stopped", zap.Int64("feed_online", module.Feed.Online()))
}
