package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/services"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
)

type SuggestionHandler struct {
	service services.SuggestionServiceInterface
}

func NewSuggestionHandler(service services.SuggestionServiceInterface) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// GetPaperSuggestion answers {data} or {error}; upstream detail is never returned
func (h *SuggestionHandler) GetPaperSuggestion(c *gin.Context) {
	var req models.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.SuggestionResponse{Error: services.MsgInvalidInput})
		return
	}

	result, err := h.service.GetPaperSuggestion(c.Request.Context(), &req)
	if err != nil {
		attachError(c, err)
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, models.SuggestionResponse{Error: services.MsgInvalidInput})
			return
		}
		c.JSON(http.StatusBadGateway, models.SuggestionResponse{Error: services.MsgSuggestionFailed})
		return
	}

	c.JSON(http.StatusOK, models.SuggestionResponse{Data: result})
}
