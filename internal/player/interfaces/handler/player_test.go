package handler

import (
	playeractor "Sanguo/internal/player/actor"
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/events"
	"Sanguo/internal/player/manager"
	"Sanguo/internal/shared/actor/messages"
	"Sanguo/internal/shared/eventbus"
	"Sanguo/internal/shared/gameconfig"
	"Sanguo/internal/shared/security"
	"Sanguo/internal/shared/transport"
	sharedhttp "Sanguo/internal/shared/transport/http"
	"Sanguo/modules/kit/logx"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type fakeRuntime struct {
	mu   sync.Mutex
	reqs []*messages.Request
	resp *messages.Response
	err  error
}

func (f *fakeRuntime) Handle(_ context.Context, req *messages.Request) (*messages.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return messages.OK(nil), nil
}

func (f *fakeRuntime) last() *messages.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.reqs) == 0 {
		return nil
	}
	return f.reqs[len(f.reqs)-1]
}

type result struct {
	Code   int             `json:"code"`
	Msg    string          `json:"msg"`
	Reason string          `json:"reason"`
	Data   json.RawMessage `json:"data"`
}

var (
	tablesOnce sync.Once
	tables     *gameconfig.Tables
)

func testTables() *gameconfig.Tables {
	tablesOnce.Do(func() { tables = gameconfig.MustLoad("") })
	return tables
}

func newTestServer(t *testing.T, rt Runtime, bus *eventbus.Bus) *sharedhttp.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	s := sharedhttp.NewHttpServer(":0", gin.New(), logx.Nop())
	NewModule(rt, bus, testTables(), logx.Nop(), true).Register(s.Group())
	return s
}

func token(t *testing.T, pid int64) string {
	t.Helper()
	tok, err := security.Award(pid)
	if err != nil {
		t.Fatalf("签发 token 失败: %v", err)
	}
	return tok
}

func do(t *testing.T, s *sharedhttp.Server, method, path, tok, body string) (int, result) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	var r result
	if w.Code == nethttp.StatusNotFound && !json.Valid(w.Body.Bytes()) {
		return w.Code, r
	}
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("响应不是 JSON: %s", w.Body.String())
	}
	return w.Code, r
}

func TestAuth_缺少token(t *testing.T) {
	s := newTestServer(t, &fakeRuntime{}, eventbus.New(nil))
	status, r := do(t, s, nethttp.MethodGet, "/api/player/state", "", "")
	if status != nethttp.StatusUnauthorized || r.Code != transport.Unauthorized {
		t.Fatalf("未登录应返回 401: status=%d %+v", status, r)
	}
	status, _ = do(t, s, nethttp.MethodGet, "/api/player/state", "bad-token", "")
	if status != nethttp.StatusUnauthorized {
		t.Fatalf("非法 token 应返回 401, got=%d", status)
	}
}

func TestDevToken_签发后可用(t *testing.T) {
	rt := &fakeRuntime{}
	s := newTestServer(t, rt, eventbus.New(nil))
	_, r := do(t, s, nethttp.MethodPost, "/api/dev/token", "", `{"player_id":42}`)
	if r.Code != transport.OK {
		t.Fatalf("签发失败: %+v", r)
	}
	var tr struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(r.Data, &tr)
	_, r = do(t, s, nethttp.MethodGet, "/api/player/state", tr.Token, "")
	if r.Code != transport.OK || rt.last().Player != 42 {
		t.Fatalf("token 应带出 player_id=42: %+v", rt.last())
	}
}

func TestBuild_参数解析(t *testing.T) {
	rt := &fakeRuntime{}
	s := newTestServer(t, rt, eventbus.New(nil))
	tok := token(t, 7)

	_, r := do(t, s, nethttp.MethodPost, "/api/player/territories/12/build", tok, `{"slot":3,"building":"barracks"}`)
	if r.Code != transport.OK {
		t.Fatalf("建造请求应成功: %+v", r)
	}
	req := rt.last()
	b, ok := req.Body.(messages.Build)
	if !ok || b.Territory != 12 || b.Slot != 3 || b.Building != entity.Barracks || req.Player != 7 {
		t.Fatalf("命令解析错误: %#v", req)
	}
	if req.TraceID == "" {
		t.Fatalf("应带上 trace_id")
	}

	n := len(rt.reqs)
	_, r = do(t, s, nethttp.MethodPost, "/api/player/territories/12/build", tok, `{"slot":3,"building":"castle"}`)
	if r.Code != transport.InvalidParam || len(rt.reqs) != n {
		t.Fatalf("未知建筑应在接口层拦下: %+v", r)
	}
	_, r = do(t, s, nethttp.MethodPost, "/api/player/territories/abc/build", tok, `{"slot":3,"building":"farm"}`)
	if r.Code != transport.InvalidParam {
		t.Fatalf("非法 tid 应返回 400: %+v", r)
	}
}

func TestCall_拒绝原因映射(t *testing.T) {
	rt := &fakeRuntime{}
	s := newTestServer(t, rt, eventbus.New(nil))
	tok := token(t, 7)

	rt.resp = messages.Fail(manager.ReasonResourceInsufficient.Code, manager.ReasonResourceInsufficient.Message)
	_, r := do(t, s, nethttp.MethodPost, "/api/player/resources/consume", tok, `{"cost":{"wood":100}}`)
	if r.Code != transport.BizRejected || r.Reason != "RESOURCE_INSUFFICIENT" {
		t.Fatalf("资源不足应为 409: %+v", r)
	}
	cost := rt.last().Body.(messages.ConsumeResources).Cost
	if cost.Get(entity.Wood) != 100 || cost.Get(entity.Copper) != 0 {
		t.Fatalf("消耗解析错误: %v", cost)
	}

	rt.resp = messages.Fail(manager.ReasonGeneralNotFound.Code, "")
	_, r = do(t, s, nethttp.MethodPost, "/api/player/generals/99/star", tok, "")
	if r.Code != transport.NotFound {
		t.Fatalf("武将不存在应为 404: %+v", r)
	}

	rt.resp = nil
	rt.err = &playeractor.RuntimeError{Code: transport.ServerTimeout, Message: "timeout"}
	_, r = do(t, s, nethttp.MethodGet, "/api/player/state", tok, "")
	if r.Code != transport.ServerTimeout {
		t.Fatalf("超时应为 504: %+v", r)
	}
}

func TestCall_未知资源(t *testing.T) {
	rt := &fakeRuntime{}
	s := newTestServer(t, rt, eventbus.New(nil))
	_, r := do(t, s, nethttp.MethodPost, "/api/player/resources/consume", token(t, 7), `{"cost":{"gold":1}}`)
	if r.Code != transport.InvalidParam || rt.last() != nil {
		t.Fatalf("未知资源应返回 400: %+v", r)
	}
}

func TestBind_负数在接口层拦下(t *testing.T) {
	rt := &fakeRuntime{}
	s := newTestServer(t, rt, eventbus.New(nil))
	tok := token(t, 7)

	cases := []struct{ path, body string }{
		{"/api/player/army/recruit", `{"unit":"cavalry","count":-1}`},
		{"/api/player/army/train", `{"unit":"cavalry","count":0}`},
		{"/api/player/army/lose", `{"unit":"cavalry","count":-5}`},
		{"/api/player/resources/consume", `{"cost":{"wood":-100}}`},
		{"/api/player/territories/1/extend", `{"slots":-1}`},
		{"/api/player/generals/1/exp", `{"amount":-10}`},
	}
	for _, c := range cases {
		status, r := do(t, s, nethttp.MethodPost, c.path, tok, c.body)
		if status != nethttp.StatusOK || r.Code != transport.InvalidParam {
			t.Fatalf("%s %s 应返回 400: status=%d %+v", c.path, c.body, status, r)
		}
	}
	if rt.last() != nil {
		t.Fatalf("非法参数不应进入 runtime: %+v", rt.last())
	}

	_, r := do(t, s, nethttp.MethodPost, "/api/player/army/recruit", tok, `{"unit":"cavalry","count":50}`)
	if r.Code != transport.OK || rt.last().Body.(messages.Recruit).Count != 50 {
		t.Fatalf("正常招募应放行: %+v", r)
	}
}

func TestCounters_克制表(t *testing.T) {
	s := newTestServer(t, &fakeRuntime{}, eventbus.New(nil))
	_, r := do(t, s, nethttp.MethodGet, "/api/config/counters", "", "")
	var tbl struct {
		Units  []string    `json:"units"`
		Matrix [][]float64 `json:"matrix"`
	}
	if err := json.Unmarshal(r.Data, &tbl); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(tbl.Units) != entity.UnitTypeCount || len(tbl.Matrix) != entity.UnitTypeCount {
		t.Fatalf("克制表维度错误: %+v", tbl)
	}
	for i, a := range entity.UnitTypes() {
		for j, d := range entity.UnitTypes() {
			if tbl.Matrix[i][j] != entity.CounterMultiplier(a, d) {
				t.Fatalf("%s->%s 倍率不一致", a, d)
			}
		}
	}
}

func TestBuildings_按等级查询(t *testing.T) {
	s := newTestServer(t, &fakeRuntime{}, eventbus.New(nil))
	_, r := do(t, s, nethttp.MethodGet, "/api/config/buildings?level=1", "", "")
	var list []struct {
		Type    string           `json:"type"`
		Cost    map[string]int64 `json:"cost"`
		TimeSec int64            `json:"time_sec"`
	}
	if err := json.Unmarshal(r.Data, &list); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	for _, b := range list {
		if b.Type == "farm" && (b.Cost["wood"] != 100 || b.TimeSec != 60) {
			t.Fatalf("1 级农田应为基础值: %+v", b)
		}
	}
	_, r = do(t, s, nethttp.MethodGet, "/api/config/buildings?level=0", "", "")
	if r.Code != transport.InvalidParam {
		t.Fatalf("level=0 应返回 400")
	}
}

func TestFeed_只推送本玩家事件(t *testing.T) {
	bus := eventbus.New(nil)
	s := newTestServer(t, &fakeRuntime{}, bus)
	srv := httptest.NewServer(s.Engine())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/player/events?token=" + token(t, 7)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("连接失败: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for bus.Count(eventbus.KindResourceChanged) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("连接后应订阅总线")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx := context.Background()
	bus.Publish(ctx, events.ResourceChanged{Base: events.Base{Player: 8}, Currency: "wood", Old: 1, New: 2})
	bus.Publish(ctx, events.ResourceChanged{Base: events.Base{Player: 7}, Currency: "food", Old: 3, New: 4})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Name string `json:"name"`
		Msg  struct {
			PlayerID int64  `json:"player_id"`
			Currency string `json:"currency"`
		} `json:"msg"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("读取推送失败: %v", err)
	}
	if frame.Name != "resource_changed" || frame.Msg.PlayerID != 7 || frame.Msg.Currency != "food" {
		t.Fatalf("推送内容错误: %+v", frame)
	}

	_ = conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for bus.Count(eventbus.KindResourceChanged) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("断开后应取消订阅")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
