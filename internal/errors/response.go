package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Default messages for the shortcut helpers.
const (
	MsgCouldNotValidate    = "Could not validate credentials"
	MsgNotEnoughPermission = "Not enough permissions"
	MsgInternal            = "An unexpected error occurred"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code (see codes.go)
	Message string `json:"message"` // human readable message
}

// RespondWithError writes the error body and aborts the handler chain.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = MsgCouldNotValidate
	}
	c.Header("WWW-Authenticate", "Bearer")
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = MsgNotEnoughPermission
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests"
	}
	RespondWithError(c, http.StatusTooManyRequests, AuthRateLimited, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = MsgInternal
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field binding failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Invalid request body",
		Fields:  fields,
	})
}
