package middleware

import (
	"net/http"

	"zephyrs-web/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const maintenancePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Down for maintenance | Zephyrs Fitness</title></head>
<body style="font-family: Arial, sans-serif; padding: 2rem; text-align: center;">
<h1>We'll be right back</h1>
<p>The site is down for scheduled maintenance. Members keep 24/7 access to the gym.</p>
<p>Questions? Call (866) 414-5438.</p>
</body>
</html>
`

// Maintenance answers 503 for everything except the health check while enabled.
func Maintenance(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || c.Request.URL.Path == "/v1/health" {
			c.Next()
			return
		}

		c.Header("Retry-After", "600")
		response.Reject(c, http.StatusServiceUnavailable, "Service is down for maintenance", maintenancePage)
	}
}
