package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskImportCompleted is published once per committed import batch.
	TaskImportCompleted = "waybills:import_completed"
)

// ImportCompletedPayload carries the outcome counters of a committed import.
// Delivery is at-least-once; the handler must tolerate duplicates.
type ImportCompletedPayload struct {
	TenantID      string    `json:"tenant_id"`
	ImportedCount int       `json:"imported_count"`
	SuccessCount  int       `json:"success_count"`
	ErrorCount    int       `json:"error_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewImportCompletedTask constructs the Asynq task for one import outcome.
func NewImportCompletedTask(payload ImportCompletedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskImportCompleted, data), nil
}

// ReportInvalidator drops a tenant's cached report summaries.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// ImportCompletedHandler reacts to committed imports: it logs the outcome and
// invalidates the tenant's cached summaries so the next report reflects the
// new rows. Both effects are idempotent, so duplicate deliveries are safe.
type ImportCompletedHandler struct {
	logger  *slog.Logger
	reports ReportInvalidator
}

func NewImportCompletedHandler(logger *slog.Logger, reports ReportInvalidator) *ImportCompletedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportCompletedHandler{logger: logger, reports: reports}
}

func (h *ImportCompletedHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ImportCompletedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if h.reports != nil {
		if err := h.reports.Invalidate(ctx, payload.TenantID); err != nil {
			return err
		}
	}
	h.logger.Info("import completed",
		slog.String("tenant", payload.TenantID),
		slog.Int("total", payload.ImportedCount),
		slog.Int("success", payload.SuccessCount),
		slog.Int("errors", payload.ErrorCount),
		slog.Time("at", payload.Timestamp))
	return nil
}
