package imports

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/locks"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/observability"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
)

// batchLockTimeout bounds how long a second concurrent upload for the same
// tenant waits for the running one to commit.
const batchLockTimeout = 30 * time.Second

// Service orchestrates one import: decode, validate every row best-effort,
// persist the valid ones atomically, publish the completion event.
type Service struct {
	engine    *Engine
	store     BatchStore
	publisher Publisher
	locker    locks.Locker
	logger    *slog.Logger
	metrics   *observability.Metrics
}

func NewService(engine *Engine, store BatchStore, publisher Publisher, locker locks.Locker, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, store: store, publisher: publisher, locker: locker, logger: logger, metrics: metrics}
}

// Import processes one uploaded CSV stream on behalf of callerTenantID.
//
// Row-level problems are data, not control flow: they land in the outcome and
// never abort the batch. The returned error is reserved for stream failures
// and for transaction aborts, in which case nothing was committed and no
// partial outcome exists.
func (s *Service) Import(ctx context.Context, upload io.Reader, callerTenantID string) (ImportOutcome, error) {
	rows, parseFindings, err := readRows(upload)
	if err != nil {
		return ImportOutcome{}, err
	}

	outcome := ImportOutcome{
		Findings:  []Finding{},
		Warnings:  []string{},
		Persisted: []waybills.Waybill{},
	}
	outcome.Findings = append(outcome.Findings, parseFindings...)
	errorRows := len(parseFindings)

	var (
		valid               []ValidatedRow
		defaultCurrencyRows int
	)
	for _, row := range rows {
		findings := s.engine.Validate(row, callerTenantID)
		outcome.Findings = append(outcome.Findings, findings...)
		if hasError(findings) {
			errorRows++
			continue
		}
		validated, err := buildValidatedRow(row)
		if err != nil {
			return ImportOutcome{}, err
		}
		if validated.UsedDefaultCurrency {
			defaultCurrencyRows++
		}
		valid = append(valid, validated)
	}

	outcome.TotalRows = len(rows) + len(parseFindings)
	outcome.ErrorCount = errorRows
	outcome.SuccessCount = outcome.TotalRows - errorRows

	if defaultCurrencyRows > 0 {
		outcome.Warnings = append(outcome.Warnings,
			fmt.Sprintf("%d rows used default currency %s", defaultCurrencyRows, waybills.DefaultCurrency))
	}

	// Batches for one tenant commit one at a time: reconciliation upserts on
	// the natural key, and serialising here keeps two concurrent uploads of
	// the same file from deadlocking inside the transaction.
	if s.locker != nil {
		key := shared.ImportLockKey(callerTenantID)
		start := time.Now()
		ok, err := s.locker.Acquire(ctx, key, batchLockTimeout)
		s.metrics.ObserveLockWait(ok, time.Since(start))
		if err != nil {
			return ImportOutcome{}, fmt.Errorf("acquire %s: %w", key, err)
		}
		if !ok {
			return ImportOutcome{}, shared.ErrLockTimeout
		}
		defer func() {
			if err := s.locker.Release(ctx, key); err != nil {
				s.logger.Warn("release import lock failed", slog.String("key", key), slog.Any("error", err))
			}
		}()
	}

	persisted, err := s.store.ReconcileBatch(ctx, callerTenantID, valid)
	if err != nil {
		s.metrics.ObserveImportBatch(false)
		s.logger.Error("import batch aborted",
			slog.String("tenant", callerTenantID),
			slog.Any("error", err))
		return ImportOutcome{}, fmt.Errorf("%w: %v", shared.ErrBatchFailed, err)
	}
	outcome.Persisted = persisted

	s.metrics.ObserveImportBatch(true)
	s.metrics.ObserveImportRows(outcome.SuccessCount, outcome.ErrorCount)

	if s.publisher != nil {
		evt := ImportCompletedEvent{
			TenantID:      callerTenantID,
			ImportedCount: outcome.TotalRows,
			SuccessCount:  outcome.SuccessCount,
			ErrorCount:    outcome.ErrorCount,
			Timestamp:     time.Now().UTC(),
		}
		if err := s.publisher.PublishImportCompleted(ctx, evt); err != nil {
			// Best effort: the batch is committed, the event is not part of
			// the atomicity guarantee.
			s.logger.Error("publish import completed event failed",
				slog.String("tenant", callerTenantID),
				slog.Any("error", err))
		}
	}

	s.logger.Info("import finished",
		slog.String("tenant", callerTenantID),
		slog.Int("total", outcome.TotalRows),
		slog.Int("success", outcome.SuccessCount),
		slog.Int("errors", outcome.ErrorCount))
	return outcome, nil
}
