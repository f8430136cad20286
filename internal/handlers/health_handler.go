package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const storePingTimeout = 2 * time.Second

type HealthHandler struct {
	catalogReady func() bool
	pingStore    func(ctx context.Context) error
}

func NewHealthHandler(catalogReady func() bool, pingStore func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{
		catalogReady: catalogReady,
		pingStore:    pingStore,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if !h.catalogReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "catalog cache not initialized",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storePingTimeout)
	defer cancel()
	if err := h.pingStore(ctx); err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "document store unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
