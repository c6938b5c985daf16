package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON error payload returned to the dashboard.
type ErrorBody struct {
	Message   string    `json:"message"`
	Type      ErrorType `json:"type"`
	Code      string    `json:"code,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorResponse wraps ErrorBody under an "error" key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteError renders an error as JSON. PlatformErrors map through
// ErrorTypeToHTTPStatus; anything else becomes a 500 INTERNAL.
func WriteError(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	if platformErr := GetPlatformError(err); platformErr != nil {
		status := ErrorTypeToHTTPStatus(platformErr.Type)
		c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
			Message:   platformErr.Message,
			Type:      platformErr.Type,
			Code:      platformErr.UUID,
			RequestID: requestID,
		}})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
		Message:   "internal server error",
		Type:      ErrorTypeInternal,
		RequestID: requestID,
	}})
}

// WriteTypedError renders an ad-hoc error without constructing a PlatformError first.
func WriteTypedError(c *gin.Context, errorType ErrorType, message string) {
	c.AbortWithStatusJSON(ErrorTypeToHTTPStatus(errorType), ErrorResponse{Error: ErrorBody{
		Message:   message,
		Type:      errorType,
		RequestID: c.GetString("requestID"),
	}})
}

// WriteNotFound renders a 404 response.
func WriteNotFound(c *gin.Context, message string) {
	WriteTypedError(c, ErrorTypeNotFound, message)
}

// WriteValidationError renders a 400 response.
func WriteValidationError(c *gin.Context, message string) {
	WriteTypedError(c, ErrorTypeValidation, message)
}

// WriteUnauthorized renders a 401 response.
func WriteUnauthorized(c *gin.Context, message string) {
	WriteTypedError(c, ErrorTypeUnauthorized, message)
}

// WriteForbidden renders a 403 response.
func WriteForbidden(c *gin.Context, message string) {
	WriteTypedError(c, ErrorTypeForbidden, message)
}
