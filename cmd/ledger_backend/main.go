package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/jobs"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/cache"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/lock"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

const shutdownTimeout = 15 * time.Second

// @title Ledger Engine API
// @version 1.0
// @description General ledger posting and financial statement service.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	infra, err := setupInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.close(logger)

	m := metrics.NewMetrics(nil)
	svc := services.NewServiceContainer(cfg, repos, services.Dependencies{
		Publisher: infra.publisher,
		Locker:    infra.locker,
		Metrics:   m,
	})

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, infra.redis)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	opts := handlers.RouteOptions{APIMiddleware: []gin.HandlerFunc{middleware.RateLimit(rateLimiter)}}
	if infra.inspector != nil {
		opts.QueueStatus = infra.inspector.Status
	}
	handlers.RegisterRoutes(r, cfg, svc, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var worker *jobs.Worker
	if cfg.WorkerEnabled {
		if worker, err = newWorker(cfg, repos, svc, logger, m); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if worker != nil {
		g.Go(func() error {
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("worker: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		store := memory.NewStore()
		if cfg.AccountsSeedFile != "" {
			n, err := store.SeedAccountsFromFile(cfg.AccountsSeedFile)
			if err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
			logger.Info("Chart of accounts loaded", slog.Int("accounts", n))
		}
		logger.Warn("Using in-memory storage; data is lost on restart")
		return store.NewRepositoryProvider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

type infrastructure struct {
	redis     *redis.Client
	publisher portssvc.EventPublisher
	locker    portssvc.EntryLocker
	inspector *jobs.QueueInspector
	closers   []func() error
}

func setupInfrastructure(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*infrastructure, error) {
	if !cfg.RedisEnabled() {
		logger.Warn("REDIS_ADDR not set; using in-process locks and logged journal events")
		return &infrastructure{
			publisher: jobs.NewLogPublisher(logger),
			locker:    lock.NewLocalLocker(),
		}, nil
	}

	client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return nil, err
	}
	publisher := jobs.NewAsynqPublisher(redisOpts(cfg))
	inspector := jobs.NewQueueInspector(redisOpts(cfg))
	logger.Info("Redis connected", slog.String("addr", cfg.RedisAddr))

	return &infrastructure{
		redis:     client,
		publisher: publisher,
		locker:    lock.NewRedisLocker(client, cfg.LockExpiry),
		inspector: inspector,
		closers:   []func() error{inspector.Close, publisher.Close, client.Close},
	}, nil
}

func (i *infrastructure) close(logger *slog.Logger) {
	for _, c := range i.closers {
		if err := c(); err != nil {
			logger.Error("Error closing infrastructure", slog.String("error", err.Error()))
		}
	}
}

func redisOpts(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
}

func newWorker(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	svc *portssvc.ServiceContainer,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*jobs.Worker, error) {
	workerLogger := logger.With(slog.String("component", "worker"))
	events := jobs.NewJournalEventHandler(repos.JournalRepo, repos.LedgerRepo, workerLogger, m)
	integrity := jobs.NewGLIntegrityJob(repos.LedgerRepo, svc.Reporting, workerLogger, m)

	recurring := jobs.NewRecurringJob(svc.Recurring, workerLogger, m)

	integrityTask, err := jobs.NewGLIntegrityTask(jobs.GLIntegrityPayload{})
	if err != nil {
		return nil, err
	}
	recurringTask, err := jobs.NewRecurringGenerateTask(jobs.RecurringPayload{})
	if err != nil {
		return nil, err
	}

	return jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts(cfg),
		Concurrency: cfg.WorkerConcurrency,
		Logger:      workerLogger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskJournalEvent, Handler: events.Handle},
			{Type: jobs.TaskGLIntegrity, Handler: integrity.Handle},
			{Type: jobs.TaskRecurringGenerate, Handler: recurring.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.GLIntegrityCron, Task: integrityTask},
			{Spec: cfg.RecurringCron, Task: recurringTask},
		},
	})
}
