package imports

import (
	"context"
	"time"
)

// ImportCompletedEvent is published once per committed batch. Delivery is
// at-least-once; consumers treat duplicates as informational.
type ImportCompletedEvent struct {
	TenantID      string    `json:"tenant_id"`
	ImportedCount int       `json:"imported_count"`
	SuccessCount  int       `json:"success_count"`
	ErrorCount    int       `json:"error_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher delivers completion events. Publishing is a best-effort side
// channel: a failure is logged by the caller, never rolled back into the
// already-committed import.
type Publisher interface {
	PublishImportCompleted(ctx context.Context, evt ImportCompletedEvent) error
}
