package actors

import (
	"Sanguo/internal/player/app/port"
	"Sanguo/internal/player/dc"
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/manager"
	"Sanguo/internal/shared/actor/messages"
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/gameconfig"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// Deps 玩家 actor 的外部依赖，由 Runtime 注入，所有玩家共享
type Deps struct {
	Repo     port.PlayerRepository
	Bus      *eventbus.Bus
	Logger   logx.Logger
	Tables   *gameconfig.Tables
	IDs      manager.IDGenerator
	Defaults manager.Defaults
	Now      func() time.Time

	FlushEvery       time.Duration
	AccrualEvery     time.Duration
	ConstructionTick time.Duration
}

type PlayerActor struct {
	state      State
	playerID   PlayerID
	deps       Deps
	log        logx.Logger
	dc         *dc.PlayerDC
	session    *manager.Session
	dispatcher *Dispatcher
	tickStop   chan struct{}
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

type accrualTick struct{}

func (accrualTick) NotInfluenceReceiveTimeout() {}

type constructionTick struct{}

func (constructionTick) NotInfluenceReceiveTimeout() {}

func NewPlayerActor(playerID PlayerID, deps Deps) *PlayerActor {
	if deps.Logger == nil {
		deps.Logger = logx.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	// player_id 由 ctx 经 WithContext 注入，logger 本身不再带
	log := deps.Logger
	return &PlayerActor{
		state:    None,
		playerID: playerID,
		deps:     deps,
		log:      log,
		dc: dc.NewPlayerDC(deps.Repo,
			dc.WithFlushEvery(deps.FlushEvery),
			dc.WithLogger(log),
		),
		dispatcher: NewDispatcher(),
	}
}

func (p *PlayerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopTicks()
		p.closeDC()
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopTicks()
		p.state = Offline
		return
	case *actor.Restarting:
		// 重启会换一个新实例重新加载，旧实例的写库协程在这里收掉
		p.stopTicks()
		p.closeDC()
		p.state = Init
		return
	case flushTick:
		if p.state != Online {
			return
		}
		p.dc.Flush(context.Background())
		return
	case accrualTick:
		if p.state != Online {
			return
		}
		p.session.Resources.Accrue(p.tickContext())
		return
	case constructionTick:
		if p.state != Online {
			return
		}
		p.session.Territories.Tick(p.tickContext(), p.deps.Now())
		return
	case *messages.Request:
		if msg == nil {
			ctx.Respond(fail(ReasonEmptyBody))
			return
		}
		if p.state != Online {
			ctx.Respond(fail(ReasonNotOnline))
			return
		}
		c := p.context()
		if msg.TraceID != "" {
			c = tracex.WithTraceID(c, msg.TraceID)
		}
		p.session.ClearReason()
		ctx.Respond(p.dispatcher.Dispatch(c, p, msg))
	default:
		return
	}
}

func (p *PlayerActor) init(ctx actor.Context) {
	c := p.context()
	e, created, err := p.dc.Load(c, p.playerID, func(id PlayerID) *entity.Player {
		return manager.NewPlayer(id, p.deps.Defaults)
	})
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(c, p.log, logx.NewSysLog("player.load", err))
		p.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	p.session = manager.NewSession(e, p.deps.Defaults, manager.Options{
		Bus:    p.deps.Bus,
		Logger: p.deps.Logger,
		Now:    p.deps.Now,
		IDs:    p.deps.IDs,
		Tables: p.deps.Tables,
	})
	// 离线期间到期的施工在上线时补完
	p.session.Territories.Tick(c, p.deps.Now())
	p.session.Recalculate(c)
	p.state = Online
	p.log.WithContext(c).Info("player online", zap.Bool("created", created), zap.Uint64("version", p.dc.Version()))
	p.startTicks(ctx)
}

func (p *PlayerActor) PlayerID() PlayerID {
	return p.playerID
}

func (p *PlayerActor) Session() *manager.Session {
	return p.session
}

func (p *PlayerActor) DC() *dc.PlayerDC {
	return p.dc
}

func (p *PlayerActor) context() context.Context {
	return tracex.WithPlayerID(context.Background(), int64(p.playerID))
}

func (p *PlayerActor) tickContext() context.Context {
	return tracex.WithTraceID(p.context(), tracex.NewTraceID())
}

// closeDC 写回最后一版快照并停掉写库协程，可重复调用
func (p *PlayerActor) closeDC() {
	closeCtx, cancel := context.WithTimeout(p.context(), 3*time.Second)
	defer cancel()
	if err := p.dc.Close(closeCtx); err != nil {
		logx.ReportSysErrorWithLoggerContext(closeCtx, p.log, logx.NewSysLog("player.dc_close", err))
	}
}

// startTicks 外部时钟：定时给自己发消息，实际处理仍在 actor 线程里
func (p *PlayerActor) startTicks(ctx actor.Context) {
	if p.tickStop != nil {
		return
	}
	p.tickStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	schedule := func(every time.Duration, msg any) {
		if every <= 0 {
			return
		}
		go func(stop <-chan struct{}) {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					root.Send(self, msg)
				case <-stop:
					return
				}
			}
		}(p.tickStop)
	}
	schedule(p.dc.FlushEvery(), flushTick{})
	schedule(p.deps.AccrualEvery, accrualTick{})
	schedule(p.deps.ConstructionTick, constructionTick{})
}

func (p *PlayerActor) stopTicks() {
	if p.tickStop == nil {
		return
	}
	close(p.tickStop)
	p.tickStop = nil
}
