package handlers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/homectl/pkg/home"
)

const defaultHeartbeat = 30 * time.Second

// EventsHandler streams registry and light events
type EventsHandler struct {
	manager   *home.Manager
	heartbeat time.Duration
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(manager *home.Manager) *EventsHandler {
	return &EventsHandler{manager: manager, heartbeat: defaultHeartbeat}
}

// Events handles GET /events (SSE stream)
// @Summary      Subscribe to events
// @Description  Server-Sent Events stream of home, accessory and characteristic changes
// @Tags         events
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /events [get]
func (h *EventsHandler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	events := h.manager.Subscribe()
	defer h.manager.Unsubscribe(events)

	sendSSEEvent(c.Writer, "connected", map[string]any{
		"timestamp": time.Now(),
		"message":   "Connected to event stream",
	})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case evt, ok := <-events:
			if !ok {
				return
			}
			sendSSEEvent(c.Writer, string(evt.Type), evt)
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			c.Writer.Flush()
		}
	}
}

// sendSSEEvent writes an SSE event to the response
func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	_, _ = io.WriteString(w, "event: "+eventType+"\n")
	_, _ = io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
