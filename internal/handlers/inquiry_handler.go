package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/services"
)

type InquiryHandler struct {
	service services.InquiryServiceInterface
}

func NewInquiryHandler(service services.InquiryServiceInterface) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// SubmitInquiry relays a raw inquiry: {success} or {success:false, error}
func (h *InquiryHandler) SubmitInquiry(c *gin.Context) {
	var req models.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req == nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.InquiryResponse{Success: false, Error: services.MsgInvalidInput})
		return
	}

	resp, err := h.service.SubmitInquiry(c.Request.Context(), req)
	if err != nil {
		attachError(c, err)
		if resp == nil {
			resp = &models.InquiryResponse{Success: false, Error: services.MsgInquiryRejected}
		}
		c.JSON(statusForError(err), resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
