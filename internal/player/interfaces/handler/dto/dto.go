package dto

import "Sanguo/internal/shared/transport"

// Resp 统一响应体，HTTP 状态码恒为 200，结果看 code
type Resp struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Reason string `json:"reason,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func Success(data any) Resp {
	return Resp{Code: transport.OK, Msg: "ok", Data: data}
}

func Error(code int, reason, msg string) Resp {
	return Resp{Code: code, Reason: reason, Msg: msg}
}

type TokenReq struct {
	PlayerID int64 `json:"player_id" binding:"required,gt=0"`
}

type TokenResp struct {
	Token    string `json:"token"`
	PlayerID int64  `json:"player_id"`
}

type AddResourceReq struct {
	Currency string `json:"currency" binding:"required"`
	Delta    int64  `json:"delta"`
}

type ConsumeReq struct {
	Cost map[string]int64 `json:"cost" binding:"required,dive,gte=0"`
}

type TroopsReq struct {
	Unit  string `json:"unit" binding:"required"`
	Count int64  `json:"count" binding:"gt=0"`
}

type CreateTerritoryReq struct {
	CityRef string `json:"city_ref" binding:"required"`
}

type BuildReq struct {
	Slot     int    `json:"slot"`
	Building string `json:"building" binding:"required"`
}

type ExtendReq struct {
	Slots int `json:"slots" binding:"required,gt=0"`
}

type ObtainGeneralReq struct {
	Rarity int    `json:"rarity" binding:"required"`
	Class  string `json:"class" binding:"required"`
}

type ExperienceReq struct {
	Amount int64 `json:"amount" binding:"gt=0"`
}

// CounterTable 兵种克制表，Matrix[i][j] 为 Units[i] 打 Units[j] 的倍率
type CounterTable struct {
	Units  []string    `json:"units"`
	Matrix [][]float64 `json:"matrix"`
}

type BuildingInfo struct {
	Type     string           `json:"type"`
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Effect   string           `json:"effect"`
	MaxLevel int              `json:"max_level"`
	Cost     map[string]int64 `json:"cost"`
	TimeSec  int64            `json:"time_sec"`
	Value    int64            `json:"value"`
}
