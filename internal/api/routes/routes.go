package routes

import (
	"gestloc/internal/api/handlers"
	"gestloc/internal/api/middleware"
	"gestloc/internal/config"
	"gestloc/internal/metrics"
	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// Metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Initialize services
	auditService := services.NewAuditService(m)
	notifyService := services.NewNotificationService()
	guard := services.NewBruteForceService(cfg, auditService, notifyService, m)
	authCtxService := services.NewAuthContextService(cfg, guard, auditService)
	sessionService := services.NewSessionService(cfg, authCtxService)
	scopeService := services.NewScopeService()
	viewService := services.NewViewService()
	conflictService := services.NewConflictService()
	collectionService := services.NewCollectionService()
	requestService := services.NewAdminRequestService(auditService, viewService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessionService, authCtxService, m)
	authCtxHandler := handlers.NewAuthContextHandler(authCtxService, m)
	blockedIPHandler := handlers.NewBlockedIPHandler(guard, authCtxService)
	collectionHandler := handlers.NewCollectionHandler(
		collectionService, conflictService, scopeService, viewService,
		requestService, guard, authCtxService,
	)

	// Middleware: the blocklist gate runs before any route logic
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.BlocklistGate(guard))
	r.Use(middleware.RequestObserver(auditService))
	r.Use(middleware.Metrics(m))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Legacy single-slot session
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/session", authHandler.GetSession)
		auth.POST("/pending-check", authHandler.PendingCheck)
	}

	// Primary context API
	authCtx := r.Group("/authContext")
	{
		authCtx.GET("", authCtxHandler.Get)
		authCtx.POST("/login", authCtxHandler.Login)
		authCtx.POST("/logout", authCtxHandler.Logout)
		authCtx.POST("/impersonate", authCtxHandler.Impersonate)
		authCtx.POST("/clear-impersonation", authCtxHandler.ClearImpersonation)
	}

	r.DELETE("/blocked_ips/:id", blockedIPHandler.Unblock)

	// Generic collection routes live in the fallback so the explicit routes
	// above keep precedence.
	r.NoRoute(collectionHandler.Dispatch)
}
