package handler

import (
	"subsidy-ledger/internal/adapter/http/middleware"
	redisStore "subsidy-ledger/internal/adapter/storage/redis"
	"subsidy-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	RecipientSvc   ports.RecipientService
	VendorSvc      ports.VendorService
	PaymentSvc     ports.PaymentService
	ValidationSvc  ports.ValidationService
	LedgerSvc      ports.LedgerService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	AuditSvc       ports.AuditService // nil = audit trail disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditTrail(deps.AuditSvc))
	}

	// Health check (deep — wallet service, storage, redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- Program API (rate limited) ---
	paymentHandler := NewPaymentHandler(deps.PaymentSvc, deps.ValidationSvc)
	payments := v1.Group("/payments")
	{
		payments.POST("", rl("payments"), paymentHandler.Pay)
		payments.POST("/validate", rl("payments"), paymentHandler.Validate)
		payments.POST("/record", rl("payments"), paymentHandler.Record)
	}

	invoices := v1.Group("/invoices")
	{
		invoices.POST("", rl("payments"), paymentHandler.CreateInvoice)
		invoices.POST("/:id/settle", rl("payments"), paymentHandler.SettleInvoice)
	}

	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	transactions := v1.Group("/transactions")
	{
		transactions.GET("", rl("payments"), ledgerHandler.List)
		transactions.GET("/:id", rl("payments"), ledgerHandler.Get)
	}

	// --- JWT-authenticated routes (program administration) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	recipientHandler := NewRecipientHandler(deps.RecipientSvc, deps.PaymentSvc)
	vendorHandler := NewVendorHandler(deps.VendorSvc)

	recipients := v1.Group("/recipients", jwtAuth)
	{
		recipients.POST("", rl("admin"), recipientHandler.Create)
		recipients.GET("", rl("admin"), recipientHandler.List)
		recipients.GET("/:id", rl("admin"), recipientHandler.Get)
		recipients.POST("/:id/fund", rl("admin"), recipientHandler.Fund)
	}

	vendors := v1.Group("/vendors", jwtAuth)
	{
		vendors.POST("", rl("admin"), vendorHandler.Create)
		vendors.GET("", rl("admin"), vendorHandler.List)
		vendors.GET("/:id", rl("admin"), vendorHandler.Get)
	}

	reportHandler := NewReportHandler(deps.ReportingSvc)
	reports := v1.Group("/reports", jwtAuth)
	{
		reports.GET("/summary", rl("admin"), reportHandler.Summary)
	}

	return r
}
