package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// statusForError maps the error taxonomy to an HTTP status
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrValidation):
		return http.StatusUnprocessableEntity
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrDefinitionUnavailable):
		return http.StatusServiceUnavailable
	case apperrors.Is(err, apperrors.ErrRelay),
		apperrors.Is(err, apperrors.ErrNetwork),
		apperrors.Is(err, apperrors.ErrSuggestion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
