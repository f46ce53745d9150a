package v1

import (
	"log/slog"
	"net/http"
	"time"

	"zephyrs-web/config"
	"zephyrs-web/internal/delivery/http/middleware"
	"zephyrs-web/internal/delivery/http/response"
	"zephyrs-web/internal/domain"
	"zephyrs-web/internal/usecase"
	"zephyrs-web/pkg/security"
	"zephyrs-web/web"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC   domain.ContactUsecase
	SiteUC      domain.SiteUsecase
	HealthUC    usecase.HealthUsecase
	Renderer    *web.Renderer
	RateLimiter *middleware.RateLimiter
	Validate    *validator.Validate
	SecLog      *security.SecurityLogger
	Logger      *slog.Logger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	production := cfg.IsProduction()
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = middleware.NewRateLimiter(nil, deps.SecLog)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware(production))
	r.Use(middleware.Maintenance(cfg.MaintenanceMode))

	contactLimit := deps.RateLimiter.Middleware(middleware.ContactRateLimitConfig(
		cfg.ContactRateLimitThreshold,
		time.Duration(cfg.ContactRateLimitWindowSeconds)*time.Second,
	))

	v1 := r.Group("/v1")
	v1.Use(middleware.CORSMiddleware(cfg.FrontendURL, production))
	v1.Use(middleware.ErrorHandler(deps.Logger, production))
	v1.Use(deps.RateLimiter.Middleware(middleware.DefaultRateLimitConfig()))
	{
		v1.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
		})

		NewContactHandler(v1, deps.ContactUC, contactLimit, production)
		NewPlansHandler(v1, deps.SiteUC, deps.Validate)

		// Swagger
		v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.StaticFS("/static", http.FS(web.Static()))

	renderGuard := middleware.RenderGuard(deps.Logger, production, cfg.EnableErrorReporting, deps.SecLog)
	csrf := middleware.CSRFMiddleware(production, deps.SecLog)

	pages := r.Group("/")
	pages.Use(renderGuard, csrf)
	site := NewSiteHandler(pages, deps.SiteUC, deps.ContactUC, deps.Renderer, contactLimit, production)

	// Unknown pages fall back to home; unknown API paths stay JSON 404s.
	r.NoRoute(func(c *gin.Context) {
		if response.IsAPI(c) || c.Request.Method != http.MethodGet {
			response.Error(c, http.StatusNotFound, "Not found", nil)
			c.Abort()
			return
		}
		c.Next()
	}, renderGuard, csrf, site.CatchAll)

	return r
}
