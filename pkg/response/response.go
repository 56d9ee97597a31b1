package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidhub/vidhub-api/internal/apperrors"
)

// Envelope is the wire format for every API response. Errors carry the same
// shape with Success=false and no Data.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Errors     any    `json:"errors,omitempty"`
}

// Success writes a success envelope with the given status and payload.
func Success[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope[T]{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Error writes an error envelope. details is optional field-level context,
// e.g. validation messages keyed by field.
func Error(c *gin.Context, status int, message string, details any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope[any]{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     details,
	})
}

// FromError writes the envelope for a service error using the apperrors
// status and client-safe message mapping.
func FromError(c *gin.Context, err error) {
	Error(c, apperrors.StatusCode(err), apperrors.Message(err), nil)
}

// AbortError writes an error envelope and aborts the middleware chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope[any]{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}
