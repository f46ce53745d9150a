package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"zephyrs-web/internal/delivery/http/response"
	"zephyrs-web/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName may carry the token instead of the form field
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenFormField is the hidden input the HTML forms submit
	CSRFTokenFormField = "csrf_token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
	// CSRFTokenExpiry is how long the token is valid
	CSRFTokenExpiry = 24 * time.Hour

	csrfContextKey = "csrf_token"
)

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the double-submit cookie pattern for the HTML
// pages. Every response carries a csrf_token cookie; POST requests must echo
// it in the csrf_token form field or the X-CSRF-Token header.
func CSRFMiddleware(secure bool, secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFTokenCookieName, newToken, int(CSRFTokenExpiry.Seconds()), "/", "", secure, false)
			csrfCookie = newToken
		}
		c.Set(csrfContextKey, csrfCookie)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		submitted := c.PostForm(CSRFTokenFormField)
		if submitted == "" {
			submitted = c.GetHeader(CSRFTokenHeaderName)
		}
		if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(csrfCookie)) != 1 {
			if secLog != nil {
				secLog.Log(c.Request.Context(), security.SecurityEvent{
					Event:     security.EventCSRFViolation,
					IP:        c.ClientIP(),
					UserAgent: c.GetHeader("User-Agent"),
					RequestID: response.RequestID(c),
					Details:   map[string]interface{}{"path": c.FullPath(), "missing": submitted == ""},
				})
			}
			response.Reject(c, http.StatusForbidden, "Invalid or missing security token",
				`<p>Your session expired. Please <a href="/contact">reload the form</a> and try again.</p>`)
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token to embed in forms for this request.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}
