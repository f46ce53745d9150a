package response

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// RequestIDKey is the gin context key the request ID middleware writes.
	RequestIDKey = "RequestID"
	// APIPrefix is the path prefix of the JSON API; everything else is a page.
	APIPrefix = "/v1/"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// RequestID returns the current request's ID, or "" outside the middleware.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: RequestID(c),
	})
}

// Error sends an error response. err must be safe to show to visitors.
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: RequestID(c),
	})
}

// IsAPI reports whether the request targets the JSON API.
func IsAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, APIPrefix)
}

// Reject aborts the request. API callers get the JSON envelope with message;
// site visitors get page, which must be trusted markup.
func Reject(c *gin.Context, code int, message, page string) {
	if IsAPI(c) {
		Error(c, code, message, nil)
	} else {
		c.Data(code, "text/html; charset=utf-8", []byte(page))
	}
	c.Abort()
}
