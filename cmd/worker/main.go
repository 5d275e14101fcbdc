package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/app"
	jobmetrics "github.com/MaxDunkelx/waybill-management-system--sub001/internal/jobs"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/reports"
	"github.com/MaxDunkelx/waybill-management-system--sub001/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	reportsCache := reports.NewCache(redisClient, 10*time.Minute)
	importCompleted := jobs.NewImportCompletedHandler(logger, cacheInvalidator{reportsCache})

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:       asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:          logger,
		Metrics:         jobmetrics.NewMetrics(nil),
		ImportCompleted: importCompleted,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

// cacheInvalidator adapts the reports cache to the job handler contract.
type cacheInvalidator struct {
	cache *reports.Cache
}

func (c cacheInvalidator) Invalidate(ctx context.Context, tenantID string) error {
	return c.cache.Bump(ctx, tenantID)
}
