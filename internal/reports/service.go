package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/locks"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/observability"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

// DefaultAcquireTimeout bounds how long a report request waits for the
// per-tenant generation lock before giving up with a retryable error.
const DefaultAcquireTimeout = 10 * time.Second

// Service produces tenant summaries. Generation for a tenant is serialised
// behind a named lock so concurrent requests do not stampede the aggregate
// queries; losers of the lock race wait, and a waiter that exceeds the
// acquire timeout is told to retry rather than queue forever.
type Service struct {
	repo           Repository
	cache          *Cache
	locker         locks.Locker
	logger         *slog.Logger
	metrics        *observability.Metrics
	acquireTimeout time.Duration
}

func NewService(repo Repository, cache *Cache, locker locks.Locker, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		cache:          cache,
		locker:         locker,
		logger:         logger,
		metrics:        metrics,
		acquireTimeout: DefaultAcquireTimeout,
	}
}

// Summary builds the reconciliation summary for one tenant and window.
func (s *Service) Summary(ctx context.Context, tenantID string, f SummaryFilters) (Summary, error) {
	key := shared.ReportLockKey(tenantID)
	start := time.Now()
	ok, err := s.locker.Acquire(ctx, key, s.acquireTimeout)
	s.metrics.ObserveLockWait(ok, time.Since(start))
	if err != nil {
		return Summary{}, fmt.Errorf("reports: acquire %s: %w", key, err)
	}
	if !ok {
		return Summary{}, shared.ErrLockTimeout
	}
	defer func() {
		if err := s.locker.Release(ctx, key); err != nil {
			s.logger.Warn("release report lock failed", slog.String("key", key), slog.Any("error", err))
		}
	}()

	cacheKey, err := s.cache.BuildKey(ctx, tenantID, "summary", window(f.DateFrom), window(f.DateTo))
	if err != nil {
		return Summary{}, fmt.Errorf("reports: cache key: %w", err)
	}
	var summary Summary
	err = s.cache.FetchJSON(ctx, cacheKey, &summary, func(ctx context.Context) (any, error) {
		return s.build(ctx, tenantID, f)
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// build runs the three aggregate queries concurrently.
func (s *Service) build(ctx context.Context, tenantID string, f SummaryFilters) (Summary, error) {
	summary := Summary{
		TenantID:    tenantID,
		GeneratedAt: time.Now().UTC(),
		ByStatus:    []StatusBreakdown{},
		BySupplier:  []SupplierBreakdown{},
	}
	if !f.DateFrom.IsZero() {
		from := f.DateFrom
		summary.DateFrom = &from
	}
	if !f.DateTo.IsZero() {
		to := f.DateTo
		summary.DateTo = &to
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, total, err := s.repo.Totals(gctx, tenantID, f)
		if err != nil {
			return err
		}
		summary.Count = count
		summary.TotalAmount = total
		return nil
	})
	g.Go(func() error {
		byStatus, err := s.repo.StatusTotals(gctx, tenantID, f)
		if err != nil {
			return err
		}
		if byStatus != nil {
			summary.ByStatus = byStatus
		}
		return nil
	})
	g.Go(func() error {
		bySupplier, err := s.repo.SupplierTotals(gctx, tenantID, f)
		if err != nil {
			return err
		}
		if bySupplier != nil {
			summary.BySupplier = bySupplier
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Invalidate drops the tenant's cached summaries. Called by the worker when
// an import batch lands.
func (s *Service) Invalidate(ctx context.Context, tenantID string) error {
	return s.cache.Bump(ctx, tenantID)
}

func window(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
