package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/MaxDunkelx/waybill-management-system--sub001/testing"
)

type fakeInvalidator struct {
	tenants []string
	err     error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, tenantID string) error {
	f.tenants = append(f.tenants, tenantID)
	return f.err
}

func TestImportCompletedHandler_InvalidatesReports(t *testing.T) {
	inv := &fakeInvalidator{}
	handler := NewImportCompletedHandler(nil, inv)

	task, err := NewImportCompletedTask(ImportCompletedPayload{
		TenantID:      "acme",
		ImportedCount: 5,
		SuccessCount:  4,
		ErrorCount:    1,
		Timestamp:     time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), task))
	assert.Equal(t, []string{"acme"}, inv.tenants)
}

func TestImportCompletedHandler_DuplicateDeliveryIsSafe(t *testing.T) {
	inv := &fakeInvalidator{}
	handler := NewImportCompletedHandler(nil, inv)

	task, err := NewImportCompletedTask(ImportCompletedPayload{TenantID: "acme"})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), task))
	require.NoError(t, handler.Handle(context.Background(), task))
	assert.Len(t, inv.tenants, 2)
}

func TestImportCompletedHandler_BadPayloadSkipsRetry(t *testing.T) {
	handler := NewImportCompletedHandler(nil, &fakeInvalidator{})
	task := asynq.NewTask(TaskImportCompleted, []byte("{not json"))

	err := handler.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry, "a malformed payload must not retry forever")
}
