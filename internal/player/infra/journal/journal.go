package journal

import (
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/infrastructure/sqlite"
	"Sanguo/modules/kit/errx"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const schema = `CREATE TABLE IF NOT EXISTS player_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id  INTEGER NOT NULL,
	kind       TEXT    NOT NULL,
	trace_id   TEXT    NOT NULL DEFAULT '',
	payload    TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);`

const index = `CREATE INDEX IF NOT EXISTS idx_player_events_player ON player_events (player_id, id);`

const (
	defaultBuffer = 1024
	batchSize     = 64
)

// Entry 一条事件流水
type Entry struct {
	ID       int64
	PlayerID int64
	Kind     string
	TraceID  string
	Payload  json.RawMessage
	At       time.Time
}

// Journal 订阅总线，把玩家事件异步写进 sqlite，供排查和对账。
// 发布方在 actor 线程里同步回调，这里只做非阻塞入队，缓冲满时丢弃并计数。
type Journal struct {
	db  *sql.DB
	log logx.Logger
	now func() time.Time

	mu     sync.RWMutex
	closed bool
	ch     chan Entry
	done   chan struct{}

	written atomic.Int64
	dropped atomic.Int64
}

func New(db *sql.DB, log logx.Logger, buffer int) (*Journal, error) {
	if log == nil {
		log = logx.Nop()
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if err := sqlite.Migrate(db, schema, index); err != nil {
		return nil, errx.ErrInternal.WithCause(err)
	}
	j := &Journal{
		db:   db,
		log:  log,
		now:  time.Now,
		ch:   make(chan Entry, buffer),
		done: make(chan struct{}),
	}
	go j.loop()
	return j, nil
}

// Attach 订阅全部事件种类
func (j *Journal) Attach(bus *eventbus.Bus) int {
	return bus.SubscribeAll(j)
}

func (j *Journal) Detach(bus *eventbus.Bus) int {
	return bus.UnsubscribeAll(j)
}

func (j *Journal) Name() string {
	return "journal"
}

func (j *Journal) Handle(ctx context.Context, e eventbus.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	traceID, _ := tracex.TraceIDFrom(ctx)
	entry := Entry{
		PlayerID: e.PlayerID(),
		Kind:     e.Kind().String(),
		TraceID:  traceID,
		Payload:  payload,
		At:       j.now(),
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.dropped.Add(1)
		return nil
	}
	select {
	case j.ch <- entry:
	default:
		if j.dropped.Add(1)%100 == 1 {
			j.log.Warn("journal buffer full, dropping", zap.Int64("dropped", j.dropped.Load()))
		}
	}
	return nil
}

// Close 停止接收并把缓冲里剩下的写完
func (j *Journal) Close() {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return
	}
	j.closed = true
	close(j.ch)
	j.mu.Unlock()
	<-j.done
}

func (j *Journal) Written() int64 { return j.written.Load() }
func (j *Journal) Dropped() int64 { return j.dropped.Load() }

func (j *Journal) loop() {
	defer close(j.done)
	batch := make([]Entry, 0, batchSize)
	for first := range j.ch {
		batch = append(batch[:0], first)
	fill:
		for len(batch) < batchSize {
			select {
			case e, ok := <-j.ch:
				if !ok {
					break fill
				}
				batch = append(batch, e)
			default:
				break fill
			}
		}
		if err := j.write(batch); err != nil {
			logx.ReportSysErrorWithLoggerContext(context.Background(), j.log,
				logx.NewSysLog("journal.write", errx.ErrInternal.WithCause(err)), zap.Int("batch", len(batch)))
			continue
		}
		j.written.Add(int64(len(batch)))
	}
}

func (j *Journal) write(batch []Entry) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO player_events (player_id, kind, trace_id, payload, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range batch {
		if _, err := stmt.Exec(e.PlayerID, e.Kind, e.TraceID, string(e.Payload), e.At.UnixMilli()); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ListByPlayer 按写入顺序倒序返回最近 limit 条
func (j *Journal) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, player_id, kind, trace_id, payload, created_at FROM player_events WHERE player_id = ? ORDER BY id DESC LIMIT ?`,
		playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			payload string
			at      int64
		)
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.Kind, &e.TraceID, &payload, &at); err != nil {
			return nil, err
		}
		e.Payload = json.RawMessage(payload)
		e.At = time.UnixMilli(at)
		out = append(out, e)
	}
	return out, rows.Err()
}
