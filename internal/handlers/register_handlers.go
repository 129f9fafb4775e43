package handlers

import (
	"github.com/SscSPs/ledger_core/cmd/docs"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps are the collaborators the HTTP layer needs besides the services.
type RouteDeps struct {
	Gatherer prometheus.Gatherer // nil disables /metrics
	Limiter  *limiter.Limiter    // nil disables rate limiting
	DB       Pinger              // nil for the in-memory store
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	RegisterValidators()

	r.GET("/health", health(deps.DB))

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	setupAPIV1Routes(r, cfg, services, deps.Limiter)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the tenant-scoped /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	lim *limiter.Limiter,
) {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)}
	if lim != nil {
		chain = append([]gin.HandlerFunc{middleware.RateLimit(lim)}, chain...)
	}
	v1 := r.Group("/api/v1", chain...)
	tenant := v1.Group("/tenants/:tenant_id", middleware.RequireTenantAccess())

	registerAccountRoutes(tenant, service.Account)
	registerPeriodRoutes(tenant, service.Period)
	registerTaxRoutes(tenant, service.Tax)
	registerTransactionRoutes(tenant, service.Transaction, service.Posting, service.Reversal)
	registerReportingRoutes(tenant, service.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
