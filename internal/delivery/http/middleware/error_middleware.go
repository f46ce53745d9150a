package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"zephyrs-web/internal/delivery/http/response"
	"zephyrs-web/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Wrapped causes are logged, never sent.
func ErrorHandler(log *slog.Logger, production bool) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil && appErr.Code >= http.StatusInternalServerError {
				attrs := []any{"request_id", response.RequestID(c), "status", appErr.Code, "path", c.FullPath()}
				if !production {
					attrs = append(attrs, "error", appErr.Err)
				}
				log.Error(appErr.Message, attrs...)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		log.Error("Internal Server Error", "request_id", response.RequestID(c), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
