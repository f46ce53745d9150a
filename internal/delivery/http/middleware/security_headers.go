package middleware

import (
	"github.com/gin-gonic/gin"
)

// contentSecurityPolicy allows the member portal calendar and the Google
// Maps embed as frames, and remote images from the photo CDNs.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https://images.squarespace-cdn.com https://images.unsplash.com; " +
	"font-src 'self'; " +
	"connect-src 'self'; " +
	"frame-src https://zfitness.gymmasteronline.com https://www.google.com; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

// SecurityHeadersMiddleware adds the browser hardening headers to every
// response. HSTS is only sent in production so local http keeps working.
func SecurityHeadersMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if production {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")
		c.Header("Content-Security-Policy", contentSecurityPolicy)

		c.Next()
	}
}
