package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haitaton/hanke-service/internal/hanke/domain"
)

// ErrorBody is the error part of a failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteError maps a service error to a status code and writes the error response.
func WriteError(c *gin.Context, err error) {
	status, body := MapError(err)
	c.JSON(status, gin.H{"ok": false, "error": body})
}

// BadRequest writes a 400 for a request that could not be decoded.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrorBody{Code: "INVALID_BODY", Message: message}})
}

func MapError(err error) (int, ErrorBody) {
	var (
		validationErr *domain.ValidationError
		restrictedErr *domain.ProcessingRestrictedError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorBody{Code: "VALIDATION_ERROR", Message: err.Error(), Details: validationErr.Paths}
	case errors.As(err, &restrictedErr):
		return http.StatusConflict, ErrorBody{Code: "PROCESSING_RESTRICTED", Message: err.Error(), Details: restrictedErr.ContactIDs}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorBody{Code: "INVALID_ARGUMENT", Message: err.Error()}
	case errors.Is(err, domain.ErrAuthorityConflict):
		return http.StatusConflict, ErrorBody{Code: "ALLU_CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorBody{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrIntegrity):
		return http.StatusInternalServerError, ErrorBody{Code: "INTEGRITY_ERROR", Message: "Server error"}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: "SERVER_ERROR", Message: "Server error"}
	}
}
