package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/pocketledger/pocket_ledger_sync/internal/adapters/attachments"
	memorycache "github.com/pocketledger/pocket_ledger_sync/internal/adapters/cache/memory"
	rediscache "github.com/pocketledger/pocket_ledger_sync/internal/adapters/cache/redis"
	"github.com/pocketledger/pocket_ledger_sync/internal/adapters/database/pgsql"
	"github.com/pocketledger/pocket_ledger_sync/internal/adapters/remote/firefly"
	portsrepo "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/repositories"
	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/core/services"
	"github.com/pocketledger/pocket_ledger_sync/internal/handlers"
	"github.com/pocketledger/pocket_ledger_sync/internal/middleware"
	"github.com/pocketledger/pocket_ledger_sync/internal/retry"
	"github.com/pocketledger/pocket_ledger_sync/pkg/config"
	"github.com/pocketledger/pocket_ledger_sync/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := newWindowRegistry(cfg, logger)

	draftRepo := pgsql.NewDraftRepository(dbPool)
	ledgerRepo := pgsql.NewLedgerRepository(dbPool)
	pendingRepo := pgsql.NewPendingRepository(dbPool)

	remote := firefly.NewClient(cfg.RemoteBaseURL, cfg.RemoteAPIToken)
	uploader := attachments.NewLoggingUploader()

	syncSvc := services.NewSyncService(draftRepo, ledgerRepo, pendingRepo, remote, uploader)
	serviceContainer := &portssvc.ServiceContainer{
		Draft: services.NewDraftService(draftRepo),
		Sync:  syncSvc,
		Mirror: services.NewMirrorService(ledgerRepo, registry, remote, services.DeleteStatusPolicy{
			SuccessStatuses:  cfg.DeleteSuccessStatuses,
			PreserveStatuses: cfg.DeletePreserveStatuses,
		}),
		Search: services.NewSearchService(ledgerRepo, remote),
	}

	// Deferred submissions drain in the background for as long as the
	// process runs.
	runner := retry.NewRunner(syncSvc, cfg.RetryInterval, logger)
	go runner.Run(ctx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newWindowRegistry picks the shared redis registry when configured and falls
// back to the in-process one otherwise.
func newWindowRegistry(cfg *config.Config, logger *slog.Logger) portsrepo.WindowRegistry {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, using in-memory window registry")
		return memorycache.NewWindowRegistry(cfg.MirrorSessionTTL)
	}
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("Invalid REDIS_URL, falling back to in-memory window registry", slog.String("error", err.Error()))
		return memorycache.NewWindowRegistry(cfg.MirrorSessionTTL)
	}
	return rediscache.NewWindowRegistry(goredis.NewClient(opts), cfg.MirrorSessionTTL)
}
