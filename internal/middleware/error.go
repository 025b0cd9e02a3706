package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/beqaperanidze/prj-customer-notification/pkg/errors"
)

// ErrorResponse is the wire form every failed request resolves to.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func NewErrorResponse(status int, message, path string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
	}
}

// ErrorHandler translates errors attached to the context into the
// standard response body. Internal errors are logged with their cause
// but reported to clients with a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		lastErr := c.Errors.Last().Err
		path := c.Request.URL.Path

		status := http.StatusInternalServerError
		message := "an unexpected error occurred"

		if appErr, ok := apperrors.AsAppError(lastErr); ok {
			status = appErr.HTTPStatus()
			if status < http.StatusInternalServerError {
				message = appErr.Message
			}
		}

		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Err(lastErr).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Msg("request failed")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, NewErrorResponse(status, message, path))
	}
}
