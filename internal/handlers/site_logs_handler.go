package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxSiteLogMessage = 2000

// SiteLogEntry is one log line reported by the website, e.g. a dialog whose
// submission failed in the browser
type SiteLogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level" binding:"required,oneof=debug info warn error"`
	Message   string         `json:"message" binding:"required"`
	Context   map[string]any `json:"context,omitempty"`
}

type SiteLogBatchRequest struct {
	Logs []SiteLogEntry `json:"logs" binding:"required,min=1,max=100,dive"`
}

type SiteLogsHandler struct {
	log *zap.Logger
}

func NewSiteLogsHandler(log *zap.Logger) *SiteLogsHandler {
	return &SiteLogsHandler{log: log}
}

func (h *SiteLogsHandler) ReceiveSiteLogs(c *gin.Context) {
	var req SiteLogBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	var visitor zap.Field = zap.Skip()
	if session, err := middleware.GetVisitorSession(c); err == nil {
		visitor = zap.String("visitor_id", session.VisitorID)
	}

	for _, entry := range req.Logs {
		level, err := zapcore.ParseLevel(entry.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}

		msg := entry.Message
		if len(msg) > maxSiteLogMessage {
			msg = msg[:maxSiteLogMessage]
		}

		fields := []zap.Field{visitor, zap.String("client_ts", entry.Timestamp)}
		if len(entry.Context) > 0 {
			fields = append(fields, zap.Any("context", entry.Context))
		}
		if ce := h.log.Check(level, msg); ce != nil {
			ce.Write(fields...)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "received": len(req.Logs)})
}
