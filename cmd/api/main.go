package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subsidy-ledger/config"
	httpHandler "subsidy-ledger/internal/adapter/http/handler"
	"subsidy-ledger/internal/adapter/lnbits"
	memStorage "subsidy-ledger/internal/adapter/storage/memory"
	pgStorage "subsidy-ledger/internal/adapter/storage/postgres"
	redisStorage "subsidy-ledger/internal/adapter/storage/redis"
	sealedStorage "subsidy-ledger/internal/adapter/storage/sealed"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/internal/service"
	"subsidy-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting Subsidy Ledger")

	ctx := context.Background()

	// Storage: in-memory by default, PostgreSQL when configured.
	var (
		recipientRepo  ports.RecipientRepository
		vendorRepo     ports.VendorRepository
		txRepo         ports.TransactionRepository
		healthCheckers []ports.HealthChecker
	)
	var auditRepo ports.AuditRepository
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		recipientRepo = pgStorage.NewRecipientRepo(pool)
		vendorRepo = pgStorage.NewVendorRepo(pool)
		txRepo = pgStorage.NewTransactionRepo(pool)
		auditRepo = pgStorage.NewAuditRepo(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	default:
		recipientRepo = memStorage.NewRecipientStore()
		vendorRepo = memStorage.NewVendorStore()
		txRepo = memStorage.NewTransactionStore()
		auditRepo = memStorage.NewAuditStore()
	}

	// Wallet bearer keys are sealed with AES-256-GCM before they reach
	// the store.
	if cfg.AES.Key != "" {
		encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize encryption service")
		}
		recipientRepo = sealedStorage.NewRecipientRepo(recipientRepo, encSvc)
		vendorRepo = sealedStorage.NewVendorRepo(vendorRepo, encSvc)
	} else {
		log.Warn().Msg("aes.key not set; wallet keys are stored unencrypted")
	}

	// Redis: optional balance cache + rate limiting.
	var (
		balanceCache   ports.BalanceCache
		rateLimitStore *redisStorage.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		balanceCache = redisStorage.NewBalanceCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// External wallet service
	walletSvc := lnbits.New(cfg.LNbits.BaseURL, cfg.LNbits.Timeout, log)
	healthCheckers = append(healthCheckers, lnbits.NewHealthCheck(walletSvc, cfg.LNbits.AdminKey))

	// Core services
	clock := service.NewSystemClock()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Business services
	ledgerSvc := service.NewLedgerService(txRepo, clock, log)
	balanceSvc := service.NewBalanceService(walletSvc, txRepo, balanceCache, cfg.LNbits.AdminKey, log)
	validationSvc := service.NewValidationService(recipientRepo, vendorRepo, ledgerSvc, balanceSvc, cfg.Policy.AllowedCategories, log)
	paymentSvc := service.NewPaymentService(recipientRepo, vendorRepo, txRepo, walletSvc, validationSvc, balanceSvc, clock, cfg.LNbits.AdminKey, log)
	recipientSvc := service.NewRecipientService(recipientRepo, txRepo, walletSvc, balanceSvc, clock, cfg.Policy.DefaultDailyLimit, log)
	vendorSvc := service.NewVendorService(vendorRepo, txRepo, walletSvc, balanceSvc, clock, log)
	authSvc := service.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, hashSvc, tokenSvc, log)
	reportingSvc := service.NewReportingService(txRepo, vendorRepo, clock, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		RecipientSvc:   recipientSvc,
		VendorSvc:      vendorSvc,
		PaymentSvc:     paymentSvc,
		ValidationSvc:  validationSvc,
		LedgerSvc:      ledgerSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		AuditSvc:       auditSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
