package middleware

import (
	"Sanguo/internal/shared/transport"
	"Sanguo/modules/kit/logx"
	"Sanguo/modules/kit/tracex"
	"bytes"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// HeaderTraceID 调用方可以带上自己的 trace_id，响应里总会回写
const HeaderTraceID = "X-Trace-Id"

// 只截取前 4KB 用于解析 code，状态快照这类大响应不整包缓存
const captureLimit = 4 << 10

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) capture(data []byte) {
	if room := captureLimit - w.body.Len(); room > 0 {
		_, _ = w.body.Write(data[:min(room, len(data))])
	}
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，业务码取响应体里的 `code` 字段；skip 中的路由不记录
func AccessLog(log logx.Logger, skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if slices.Contains(skip, route) {
			c.Next()
			return
		}
		action := c.Request.Method + " " + route

		parent := c.Request.Context()
		if incoming := c.GetHeader(HeaderTraceID); incoming != "" && len(incoming) <= 64 {
			parent = tracex.WithTraceID(parent, incoming)
		}
		ctx := transport.NewContextWithParent(parent, action)
		c.Request = c.Request.WithContext(ctx)
		if traceID, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(HeaderTraceID, traceID)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		// 下游可能换了 ctx（比如 Auth 挂上 player_id），以最新的为准
		final := c.Request.Context()
		if bizCode, ok := parseBizCode(bw.body.Bytes()); ok {
			transport.SetBizCode(final, transport.BizCode(bizCode))
		} else if c.Writer.Status() >= http.StatusBadRequest {
			transport.SetBizCode(final, transport.BizCode(transport.SystemError))
		} else {
			transport.SetBizCode(final, transport.BizCode(transport.OK))
		}

		transport.WriteAccessLog(final, log)
	}
}

// parseBizCode 流式读取顶层字段直到遇到 code，响应体被截断也能拿到排在前面的 code
func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return 0, false
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return 0, false
		}
		if key, _ := tok.(string); key == "code" {
			var code int
			if err := dec.Decode(&code); err != nil {
				return 0, false
			}
			return code, true
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return 0, false
		}
	}
	return 0, false
}
