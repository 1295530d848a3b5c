package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// heartbeatInterval keeps idle SSE connections open through proxies.
var heartbeatInterval = 25 * time.Second

// stream sends the current snapshot (once one is committed) and then one
// "snapshot" event per commit until the client goes away or the broadcaster
// is closed.
func (h *Handler) stream(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming unavailable"})
		return
	}

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if snap := h.store.Snapshot(); snap.Generation > 0 {
		c.SSEvent("snapshot", snap)
	}
	c.Writer.Flush()

	slog.Debug("stream client connected", "subscriber", id, "client_ip", c.ClientIP())

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("stream client disconnected", "subscriber", id)
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("snapshot", snap)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			c.Writer.Flush()
		}
	}
}
