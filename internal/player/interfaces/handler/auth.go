package handler

import (
	"Sanguo/internal/player/interfaces/handler/dto"
	"Sanguo/internal/shared/security"
	"Sanguo/internal/shared/transport"
	"Sanguo/modules/kit/tracex"
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxKeyPlayerID = "player_id"

// Auth 校验 Bearer token；浏览器 websocket 带不了头，允许 ?token= 传入
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(nethttp.StatusUnauthorized, dto.Error(transport.Unauthorized, "", "缺少 token"))
			return
		}
		_, claims, err := security.ParseToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(nethttp.StatusUnauthorized, dto.Error(transport.Unauthorized, "", "token 无效"))
			return
		}
		c.Set(ctxKeyPlayerID, claims.PlayerID)
		c.Request = c.Request.WithContext(tracex.WithPlayerID(c.Request.Context(), claims.PlayerID))
		c.Next()
	}
}

func PlayerIDFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxKeyPlayerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// DevToken 开发环境直接签发 token，不校验账号
func DevToken(c *gin.Context) {
	var req dto.TokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(nethttp.StatusOK, dto.Error(transport.InvalidParam, "", "参数有误"))
		return
	}
	token, err := security.Award(req.PlayerID)
	if err != nil {
		c.JSON(nethttp.StatusOK, dto.Error(transport.SystemError, "", err.Error()))
		return
	}
	c.JSON(nethttp.StatusOK, dto.Success(dto.TokenResp{Token: token, PlayerID: req.PlayerID}))
}
