package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/app"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/imports"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/locks"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/observability"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/platform/db"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/projects"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/reports"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/suppliers"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/tenants"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
	"github.com/MaxDunkelx/waybill-management-system--sub001/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	locker := locks.NewRedisLocker(redisClient, cfg.LockLease, logger)

	ruleConfig, err := imports.ParseRuleConfig(
		cfg.QuantityMin, cfg.QuantityMax, cfg.QuantityBandPercent,
		cfg.PriceTolerance, cfg.PriceWarnBand)
	if err != nil {
		logger.Error("parse validation rules", slog.Any("error", err))
		os.Exit(1)
	}

	tenantsRepo := tenants.NewRepository(dbpool)
	tenantsService := tenants.NewService(tenantsRepo)
	tenantsHandler := tenants.NewHandler(logger, tenantsService)

	waybillsRepo := waybills.NewRepository(dbpool)
	waybillsService := waybills.NewService(waybillsRepo)
	waybillsHandler := waybills.NewHandler(logger, waybillsService)

	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewRepository(dbpool))
	projectsHandler := projects.NewHandler(logger, projects.NewRepository(dbpool))

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("connect job queue", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	importsService := imports.NewService(
		imports.NewEngine(ruleConfig),
		imports.NewStore(dbpool),
		jobsClient,
		locker,
		logger,
		metrics,
	)
	importsHandler := imports.NewHandler(logger, importsService, cfg.ImportMaxBytes)

	reportsCache := reports.NewCache(redisClient, 10*time.Minute)
	reportsService := reports.NewService(reports.NewRepository(dbpool), reportsCache, locker, logger, metrics)
	reportsHandler := reports.NewHandler(logger, reportsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		TenantsService:   tenantsService,
		TenantsHandler:   tenantsHandler,
		WaybillsHandler:  waybillsHandler,
		SuppliersHandler: suppliersHandler,
		ProjectsHandler:  projectsHandler,
		ImportsHandler:   importsHandler,
		ReportsHandler:   reportsHandler,
		JobsHandler:      jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
