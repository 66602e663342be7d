package sse

import (
	"fmt"
	"time"

	"github.com/cartotec/gestionale/internal/api"
	"github.com/gin-gonic/gin"
)

// Handler espone lo stream SSE
type Handler struct {
	hub *Hub
}

func NewHandler() *Handler {
	return &Handler{hub: GlobalHub}
}

// Stream endpoint SSE
// GET /api/v1/sse/events?token=xxx
func (h *Handler) Stream(c *gin.Context) {
	userID := api.GetUserID(c)
	clientID := fmt.Sprintf("%s_%d", userID, time.Now().UnixNano())

	client := &Client{
		ID:     clientID,
		UserID: userID,
		Events: make(chan Event, 64),
	}

	h.hub.Register(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteString("event: connected\ndata: {\"client_id\":\"" + clientID + "\"}\n\n")
	c.Writer.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			h.hub.Unregister(clientID)
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			c.Writer.WriteString(fmt.Sprintf("event: %s\ndata: %s\n\n", event.EventType, event.Data))
			c.Writer.Flush()
		case <-heartbeat.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
