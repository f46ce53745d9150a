package middleware

import (
	"context"
	"log/slog"

	"zephyrs-web/internal/delivery/http/response"
	"zephyrs-web/internal/shell"
	"zephyrs-web/pkg/security"

	"github.com/gin-gonic/gin"
)

const boundaryKey = "render_boundary"

// RenderGuard mounts one shell.Boundary per page request. Handlers render
// through it and any panic below it becomes the fallback page. Failures are
// always logged; with reportErrors they are also sent as security events.
func RenderGuard(log *slog.Logger, production, reportErrors bool, secLog *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		b := shell.NewBoundary(shell.Options{
			Logger:     log,
			Production: production,
			OnFailure: func(ctx context.Context, err error, where string) {
				if !reportErrors || secLog == nil {
					return
				}
				secLog.Log(ctx, security.SecurityEvent{
					Event:     security.EventRenderFailure,
					IP:        c.ClientIP(),
					UserAgent: c.GetHeader("User-Agent"),
					RequestID: response.RequestID(c),
					Details:   map[string]interface{}{"path": where},
				})
			},
		})
		c.Set(boundaryKey, b)

		defer b.Recover(c.Writer, c.Request)
		c.Next()
	}
}

// BoundaryFrom returns the request's boundary. Outside RenderGuard a fresh
// one is returned so handlers stay usable in isolation.
func BoundaryFrom(c *gin.Context) *shell.Boundary {
	if v, ok := c.Get(boundaryKey); ok {
		if b, ok := v.(*shell.Boundary); ok {
			return b
		}
	}
	return shell.NewBoundary(shell.Options{})
}
