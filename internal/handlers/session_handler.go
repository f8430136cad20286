package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/middleware"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/services"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
)

type SessionHandler struct {
	service services.SessionServiceInterface
}

func NewSessionHandler(service services.SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) cookie() middleware.CookieSettings {
	return middleware.CookieSettings{
		Name:   h.service.GetCookieName(),
		Domain: h.service.GetCookieDomain(),
		Secure: h.service.GetCookieSecure(),
	}
}

// StartAnonymous bootstraps a visitor session. A visitor who already holds a
// valid session keeps it.
func (h *SessionHandler) StartAnonymous(c *gin.Context) {
	if existing, err := middleware.GetVisitorSession(c); err == nil {
		c.JSON(http.StatusOK, models.SessionResponse{Success: true, Session: existing})
		return
	}

	session, token, err := h.service.StartAnonymous(c.Request.Context())
	if err != nil {
		attachError(c, err)
		status := http.StatusInternalServerError
		if apperrors.Is(err, apperrors.ErrConfiguration) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, models.SessionResponse{Success: false, Error: "Failed to start session"})
		return
	}

	middleware.SetSessionCookie(c, h.cookie(), token, h.service.GetSessionTTL())
	c.JSON(http.StatusCreated, models.SessionResponse{Success: true, Session: session})
}

// GetSession returns the current visitor session
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := middleware.GetVisitorSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.SessionResponse{Success: false, Error: "No session"})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Success: true, Session: session})
}
