package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupSiteLogsRouter() (*gin.Engine, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	router := gin.New()
	router.POST("/logs", handlers.NewSiteLogsHandler(zap.New(core)).ReceiveSiteLogs)
	return router, logs
}

func TestSiteLogsHandler_WritesEntries(t *testing.T) {
	router, logs := setupSiteLogsRouter()

	w := postJSON(router, "/logs", map[string]any{
		"logs": []map[string]any{
			{"timestamp": "2026-01-02T10:00:00Z", "level": "error", "message": "Inquiry submission failed", "context": map[string]any{"formId": "kraft-paper"}},
			{"level": "info", "message": "Dialog opened"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":2`)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Inquiry submission failed", entries[0].Message)
	assert.Equal(t, map[string]any{"formId": "kraft-paper"}, entries[0].ContextMap()["context"])
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
}

func TestSiteLogsHandler_RejectsInvalidBatches(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"empty batch", map[string]any{"logs": []any{}}},
		{"unknown level", map[string]any{"logs": []map[string]any{{"level": "fatal", "message": "x"}}}},
		{"missing message", map[string]any{"logs": []map[string]any{{"level": "info"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, logs := setupSiteLogsRouter()

			w := postJSON(router, "/logs", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, logs.Len())
		})
	}
}
