package actors

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type PlayerID = entity.PlayerID

// stashed 玩家 actor 下线期间到达的请求，保留原 sender 以便回复能回到调用方
type stashed struct {
	msg    *messages.Request
	sender *actor.PID
}

// ManagerActor 只做路由：按 player_id 找到或创建玩家 actor，再原样转发。
// 被 Evict 的玩家在旧 actor 写回存档并终止之前，新请求先暂存，终止后再起新 actor 重放，
// 保证新 actor 加载到的是最后一版存档。
type ManagerActor struct {
	deps         Deps
	playerActors map[PlayerID]*actor.PID // player_id -> actor.pid
	stopping     map[PlayerID]*actor.PID
	stash        map[PlayerID][]stashed
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		playerActors: make(map[PlayerID]*actor.PID),
		stopping:     make(map[PlayerID]*actor.PID),
		stash:        make(map[PlayerID][]stashed),
		deps:         deps,
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.Request:
		if msg == nil {
			ctx.Respond(fail(ReasonEmptyBody))
			return
		}
		playerID, ok := toPlayerID(msg.Player)
		if !ok {
			ctx.Respond(fail(ReasonInvalidID))
			return
		}
		if _, busy := m.stopping[playerID]; busy {
			m.stash[playerID] = append(m.stash[playerID], stashed{msg: msg, sender: ctx.Sender()})
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, playerID))
	case *messages.Evict:
		playerID, ok := toPlayerID(msg.Player)
		if !ok {
			return
		}
		pid, found := m.playerActors[playerID]
		if !found {
			return
		}
		delete(m.playerActors, playerID)
		m.stopping[playerID] = pid
		// Poison 排在已转发的请求之后，先处理完再停
		ctx.Poison(pid)
	case *actor.Terminated:
		m.terminated(ctx, msg.Who)
	}
}

func (m *ManagerActor) terminated(ctx actor.Context, who *actor.PID) {
	for id, pid := range m.stopping {
		if !pid.Equal(who) {
			continue
		}
		delete(m.stopping, id)
		m.logTerminated(id)
		m.replay(ctx, id)
		return
	}
	// 玩家 actor 加载失败自行停止，下次请求重新创建
	for id, pid := range m.playerActors {
		if pid.Equal(who) {
			delete(m.playerActors, id)
			m.logTerminated(id)
			return
		}
	}
}

func (m *ManagerActor) replay(ctx actor.Context, id PlayerID) {
	pending := m.stash[id]
	if len(pending) == 0 {
		return
	}
	delete(m.stash, id)
	pid := m.getOrSpawn(ctx, id)
	for _, s := range pending {
		ctx.RequestWithCustomSender(pid, s.msg, s.sender)
	}
}

func (m *ManagerActor) logTerminated(id PlayerID) {
	if m.deps.Logger != nil {
		m.deps.Logger.Info("player actor terminated", zap.Int64("player_id", int64(id)))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, playerID PlayerID) *actor.PID {
	if pid, ok := m.playerActors[playerID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPlayerActor(playerID, m.deps)
	})
	pid := ctx.Spawn(props)
	m.playerActors[playerID] = pid
	return pid
}

func (m *ManagerActor) Online() int {
	return len(m.playerActors)
}

func toPlayerID(raw int64) (PlayerID, bool) {
	if raw <= 0 {
		return 0, false
	}
	return PlayerID(raw), true
}
