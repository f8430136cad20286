package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shabadpapers/shabad-api/internal/inquiryform"
	"github.com/shabadpapers/shabad-api/internal/models"
	"github.com/shabadpapers/shabad-api/internal/services"
)

const msgFormUnavailable = "This inquiry form is currently unavailable. Please close the dialog and try again later."

// FormResponse is what a dialog needs to open
type FormResponse struct {
	Definition *models.FormDefinition `json:"definition"`
	View       inquiryform.View       `json:"view"`
}

type FormHandler struct {
	forms     services.FormServiceInterface
	inquiries services.InquiryServiceInterface
}

func NewFormHandler(forms services.FormServiceInterface, inquiries services.InquiryServiceInterface) *FormHandler {
	return &FormHandler{forms: forms, inquiries: inquiries}
}

// GetForm resolves the form for a dialog opened about ?product=
func (h *FormHandler) GetForm(c *gin.Context) {
	product := c.Query("product")

	def, err := h.forms.Resolve(c.Request.Context(), c.Param("formId"), product)
	if err != nil {
		respondError(c, statusForError(err), msgFormUnavailable, err)
		return
	}

	ctrl := inquiryform.New(def, product, h.inquiries)
	c.JSON(http.StatusOK, FormResponse{Definition: def, View: ctrl.Render()})
}

// SubmitForm runs one dialog submission through the controller
func (h *FormHandler) SubmitForm(c *gin.Context) {
	var req models.FormSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	def, err := h.forms.Resolve(c.Request.Context(), c.Param("formId"), req.Product)
	if err != nil {
		respondError(c, statusForError(err), msgFormUnavailable, err)
		return
	}

	ctrl := inquiryform.New(def, req.Product, h.inquiries)
	ctrl.SetValues(req.Values)
	ctrl.SetCaptchaToken(req.RecaptchaToken)

	out, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, inquiryform.ErrSubmissionInFlight) {
			status = http.StatusConflict
		}
		respondError(c, status, inquiryform.MsgUnexpected, err)
		return
	}

	resp := models.FormSubmitResponse{
		State:       out.State.String(),
		FieldErrors: out.FieldErrors,
		Values:      out.Values,
		Toast:       out.Toast,
		Error:       out.Error,
		Close:       out.Close,
	}

	switch out.State {
	case inquiryform.StateSuccess:
		c.JSON(http.StatusOK, resp)
	case inquiryform.StateInvalid:
		attachError(c, out.FieldErrors)
		c.JSON(http.StatusUnprocessableEntity, resp)
	default:
		attachError(c, out.Err)
		status := statusForError(out.Err)
		if out.Err == nil {
			status = http.StatusBadGateway
		}
		c.JSON(status, resp)
	}
}
