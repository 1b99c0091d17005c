package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"tempo/backend/internal/reminder"
)

const eventBuffer = 16

// EventsHandler streams fired reminders to connected clients as server-sent events.
type EventsHandler struct {
	hub *reminder.Hub
}

func NewEventsHandler(hub *reminder.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	deliveries, unsubscribe := h.hub.Subscribe(eventBuffer)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"status": "ok"})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case delivery, ok := <-deliveries:
			if !ok {
				return false
			}
			c.SSEvent("reminder", delivery)
			return true
		}
	})
}
