package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationFeed is the in-process notification history
type NotificationFeed interface {
	Recent(limit int) []shared.Notification
	Subscribe() (<-chan shared.Notification, func())
}

// NotificationHandler exposes the toast notifications over HTTP: the recent
// history as JSON and live notifications as a Server-Sent Events stream.
type NotificationHandler struct {
	BaseHandler
	feed      NotificationFeed
	logger    *zap.Logger
	heartbeat time.Duration
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(feed NotificationFeed, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{
		feed:      feed,
		logger:    logger,
		heartbeat: 30 * time.Second,
	}
}

// Recent handles GET /notifications?limit=N
func (h *NotificationHandler) Recent(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	h.Success(c, h.feed.Recent(limit))
}

// Stream handles GET /notifications/stream
func (h *NotificationHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	ch, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()

	requestID := getRequestID(c)
	h.logger.Debug("Notification stream opened", zap.String("request_id", requestID))

	writeEvent(c.Writer, "connected", []byte(fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix())))
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("Notification stream closed", zap.String("request_id", requestID))
			return
		case <-ticker.C:
			writeEvent(c.Writer, "heartbeat", []byte(fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix())))
			c.Writer.Flush()
		case n, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				h.logger.Error("Failed to marshal notification", zap.Error(err))
				continue
			}
			writeEvent(c.Writer, "notification", data)
			c.Writer.Flush()
		}
	}
}

// writeEvent writes one SSE event
func writeEvent(w io.Writer, event string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
