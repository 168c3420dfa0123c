package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/campus-admin-api/internal/service"
)

const cacheKeyPrefix = "resp:"

type cachedResponse struct {
	Status      int             `json:"status"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache serves GET responses from the cache and records fresh ones.
// Only successful JSON responses are cached.
func ResponseCache(cacheSvc *service.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cacheSvc.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKeyPrefix + c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			key += "?" + raw
		}

		var cached cachedResponse
		if cacheSvc.Get(c.Request.Context(), key, &cached) {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Header("X-Cache", "MISS")
		c.Next()

		status := c.Writer.Status()
		if status != http.StatusOK {
			return
		}
		contentType := c.Writer.Header().Get("Content-Type")
		if contentType == "" {
			contentType = "application/json; charset=utf-8"
		}

		cacheSvc.Set(c.Request.Context(), key, cachedResponse{
			Status:      status,
			ContentType: contentType,
			Body:        json.RawMessage(capture.buf.Bytes()),
		}, 0)
	}
}

// InvalidateResponses drops cached responses whose path starts with prefix.
func InvalidateResponses(c *gin.Context, cacheSvc *service.CacheService, prefix string) {
	cacheSvc.Invalidate(c.Request.Context(), cacheKeyPrefix+prefix+"*")
}
