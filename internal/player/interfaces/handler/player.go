package handler

import (
	"Sanguo/internal/player/entity"
	"Sanguo/internal/player/interfaces/handler/dto"
	"Sanguo/internal/shared/actor/messages"
	"Sanguo/internal/shared/gameconfig"
	"Sanguo/internal/shared/transport"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Runtime 玩家 actor 运行时，按 player_id 投递命令并等待结果
type Runtime interface {
	Handle(ctx context.Context, req *messages.Request) (*messages.Response, error)
}

type PlayerHandler struct {
	rt     Runtime
	tables *gameconfig.Tables
	log    logx.Logger
}

func NewPlayerHandler(rt Runtime, tables *gameconfig.Tables, log logx.Logger) *PlayerHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &PlayerHandler{rt: rt, tables: tables, log: log}
}

// RegisterRoutes group 需要已经挂上 Auth
func (h *PlayerHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/state", h.State)

	res := group.Group("/resources")
	res.POST("/add", h.AddResource)
	res.POST("/consume", h.ConsumeResources)

	army := group.Group("/army")
	army.POST("/recruit", h.Recruit)
	army.POST("/train", h.Train)
	army.POST("/lose", h.Lose)

	terr := group.Group("/territories")
	terr.POST("", h.CreateTerritory)
	terr.POST("/:tid/build", h.Build)
	terr.POST("/:tid/buildings/:bid/upgrade", h.Upgrade)
	terr.POST("/:tid/core/upgrade", h.UpgradeCore)
	terr.DELETE("/:tid/slots/:slot", h.Demolish)
	terr.POST("/:tid/extend", h.Extend)

	gen := group.Group("/generals")
	gen.POST("", h.ObtainGeneral)
	gen.GET("/:gid", h.GetGeneral)
	gen.POST("/:gid/exp", h.AddExperience)
	gen.POST("/:gid/star", h.StarUp)
	gen.DELETE("/:gid", h.Dismiss)
}

// RegisterPublic 不需要登录的静态配置查询
func (h *PlayerHandler) RegisterPublic(group *gin.RouterGroup) {
	cfg := group.Group("/config")
	cfg.GET("/counters", h.Counters)
	cfg.GET("/buildings", h.Buildings)
}

func (h *PlayerHandler) State(c *gin.Context) {
	h.call(c, messages.GetState{})
}

func (h *PlayerHandler) AddResource(c *gin.Context) {
	var req dto.AddResourceReq
	if !h.bind(c, &req) {
		return
	}
	cur, ok := entity.ParseCurrency(req.Currency)
	if !ok {
		h.fail(c, transport.InvalidParam, "CURRENCY_UNKNOWN", "未知资源 "+req.Currency)
		return
	}
	h.call(c, messages.AddResource{Currency: cur, Delta: req.Delta})
}

func (h *PlayerHandler) ConsumeResources(c *gin.Context) {
	var req dto.ConsumeReq
	if !h.bind(c, &req) {
		return
	}
	cost, err := entity.AmountsFromMap(req.Cost)
	if err != nil {
		h.fail(c, transport.InvalidParam, "CURRENCY_UNKNOWN", err.Error())
		return
	}
	h.call(c, messages.ConsumeResources{Cost: cost})
}

func (h *PlayerHandler) Recruit(c *gin.Context) {
	if u, n, ok := h.troops(c); ok {
		h.call(c, messages.Recruit{Unit: u, Count: n})
	}
}

func (h *PlayerHandler) Train(c *gin.Context) {
	if u, n, ok := h.troops(c); ok {
		h.call(c, messages.Train{Unit: u, Count: n})
	}
}

func (h *PlayerHandler) Lose(c *gin.Context) {
	if u, n, ok := h.troops(c); ok {
		h.call(c, messages.Lose{Unit: u, Count: n})
	}
}

func (h *PlayerHandler) CreateTerritory(c *gin.Context) {
	var req dto.CreateTerritoryReq
	if !h.bind(c, &req) {
		return
	}
	h.call(c, messages.CreateTerritory{CityRef: req.CityRef})
}

func (h *PlayerHandler) Build(c *gin.Context) {
	tid, ok := h.param(c, "tid")
	if !ok {
		return
	}
	var req dto.BuildReq
	if !h.bind(c, &req) {
		return
	}
	bt, found := entity.ParseBuildingType(req.Building)
	if !found {
		h.fail(c, transport.InvalidParam, "BUILDING_UNKNOWN", "未知建筑 "+req.Building)
		return
	}
	h.call(c, messages.Build{Territory: entity.TerritoryID(tid), Slot: req.Slot, Building: bt})
}

func (h *PlayerHandler) Upgrade(c *gin.Context) {
	tid, ok := h.param(c, "tid")
	if !ok {
		return
	}
	bid, ok := h.param(c, "bid")
	if !ok {
		return
	}
	h.call(c, messages.Upgrade{Territory: entity.TerritoryID(tid), Building: entity.BuildingID(bid)})
}

func (h *PlayerHandler) UpgradeCore(c *gin.Context) {
	if tid, ok := h.param(c, "tid"); ok {
		h.call(c, messages.UpgradeCore{Territory: entity.TerritoryID(tid)})
	}
}

func (h *PlayerHandler) Demolish(c *gin.Context) {
	tid, ok := h.param(c, "tid")
	if !ok {
		return
	}
	slot, ok := h.param(c, "slot")
	if !ok {
		return
	}
	h.call(c, messages.Demolish{Territory: entity.TerritoryID(tid), Slot: int(slot)})
}

func (h *PlayerHandler) Extend(c *gin.Context) {
	tid, ok := h.param(c, "tid")
	if !ok {
		return
	}
	var req dto.ExtendReq
	if !h.bind(c, &req) {
		return
	}
	h.call(c, messages.Extend{Territory: entity.TerritoryID(tid), Slots: req.Slots})
}

func (h *PlayerHandler) ObtainGeneral(c *gin.Context) {
	var req dto.ObtainGeneralReq
	if !h.bind(c, &req) {
		return
	}
	class, ok := entity.ParseClass(req.Class)
	if !ok {
		h.fail(c, transport.InvalidParam, "CLASS_UNKNOWN", "未知职业 "+req.Class)
		return
	}
	h.call(c, messages.ObtainGeneral{Rarity: req.Rarity, Class: class})
}

func (h *PlayerHandler) GetGeneral(c *gin.Context) {
	if gid, ok := h.param(c, "gid"); ok {
		h.call(c, messages.GetGeneral{General: entity.GeneralID(gid)})
	}
}

func (h *PlayerHandler) AddExperience(c *gin.Context) {
	gid, ok := h.param(c, "gid")
	if !ok {
		return
	}
	var req dto.ExperienceReq
	if !h.bind(c, &req) {
		return
	}
	h.call(c, messages.AddExperience{General: entity.GeneralID(gid), Amount: req.Amount})
}

func (h *PlayerHandler) StarUp(c *gin.Context) {
	if gid, ok := h.param(c, "gid"); ok {
		h.call(c, messages.StarUp{General: entity.GeneralID(gid)})
	}
}

func (h *PlayerHandler) Dismiss(c *gin.Context) {
	if gid, ok := h.param(c, "gid"); ok {
		h.call(c, messages.Dismiss{General: entity.GeneralID(gid)})
	}
}

func (h *PlayerHandler) Counters(c *gin.Context) {
	units := entity.UnitTypes()
	out := dto.CounterTable{
		Units:  make([]string, 0, len(units)),
		Matrix: make([][]float64, 0, len(units)),
	}
	for _, a := range units {
		out.Units = append(out.Units, a.String())
		row := make([]float64, 0, len(units))
		for _, d := range units {
			row = append(row, entity.CounterMultiplier(a, d))
		}
		out.Matrix = append(out.Matrix, row)
	}
	h.ok(c, out)
}

// Buildings ?level= 查询指定等级的造价/工期/效果，默认 1 级
func (h *PlayerHandler) Buildings(c *gin.Context) {
	level := 1
	if raw := c.Query("level"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.fail(c, transport.InvalidParam, "", "level 参数有误")
			return
		}
		level = v
	}
	specs := h.tables.Buildings.All()
	out := make([]dto.BuildingInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, dto.BuildingInfo{
			Type:     s.Type.String(),
			Name:     h.tables.Buildings.Name(s.Type),
			Category: s.Category.String(),
			Effect:   s.Effect.String(),
			MaxLevel: s.MaxLevel,
			Cost:     s.CostAt(level).Map(),
			TimeSec:  int64(s.TimeAt(level).Seconds()),
			Value:    s.ValueAt(level),
		})
	}
	h.ok(c, out)
}

// call 投递命令到玩家 actor，按结果写响应
func (h *PlayerHandler) call(c *gin.Context, body any) {
	ctx := c.Request.Context()
	pid, ok := PlayerIDFrom(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "", "未登录")
		return
	}
	traceID, _ := tracex.TraceIDFrom(ctx)
	resp, err := h.rt.Handle(ctx, &messages.Request{Player: pid, TraceID: traceID, Body: body})
	if err != nil {
		code, msg := HandleError(ctx, h.log, err)
		h.fail(c, code, "", msg)
		return
	}
	if !resp.Result.Ok {
		transport.SetErrorReason(ctx, resp.Result.Reason)
		h.fail(c, CodeForReason(resp.Result.Reason), resp.Result.Reason, resp.Result.Message)
		return
	}
	h.ok(c, resp.Body)
}

func (h *PlayerHandler) troops(c *gin.Context) (entity.UnitType, int64, bool) {
	var req dto.TroopsReq
	if !h.bind(c, &req) {
		return 0, 0, false
	}
	u, ok := entity.ParseUnitType(req.Unit)
	if !ok {
		h.fail(c, transport.InvalidParam, "UNIT_UNKNOWN", "未知兵种 "+req.Unit)
		return 0, 0, false
	}
	return u, req.Count, true
}

func (h *PlayerHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, transport.InvalidParam, "", "参数有误")
		return false
	}
	return true
}

func (h *PlayerHandler) param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		h.fail(c, transport.InvalidParam, "", name+" 参数有误")
		return 0, false
	}
	return v, true
}

func (h *PlayerHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(data))
}

func (h *PlayerHandler) fail(c *gin.Context, code int, reason, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, reason, msg))
}
