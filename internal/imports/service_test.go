package imports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/locks"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
	_ "github.com/MaxDunkelx/waybill-management-system--sub001/testing"
)

type fakeBatchStore struct {
	err      error
	tenantID string
	rows     []ValidatedRow
	calls    int
}

func (f *fakeBatchStore) ReconcileBatch(_ context.Context, tenantID string, rows []ValidatedRow) ([]waybills.Waybill, error) {
	f.calls++
	f.tenantID = tenantID
	f.rows = rows
	if f.err != nil {
		return nil, f.err
	}
	persisted := make([]waybills.Waybill, 0, len(rows))
	for _, row := range rows {
		persisted = append(persisted, waybills.Waybill{
			TenantID:  tenantID,
			WaybillID: strings.TrimSpace(row.Row.WaybillID),
			Status:    row.Status,
		})
	}
	return persisted, nil
}

type fakePublisher struct {
	err    error
	events []ImportCompletedEvent
}

func (f *fakePublisher) PublishImportCompleted(_ context.Context, evt ImportCompletedEvent) error {
	f.events = append(f.events, evt)
	return f.err
}

func newTestService(store BatchStore, publisher Publisher) *Service {
	return NewService(NewEngine(DefaultRuleConfig()), store, publisher, locks.NewMemoryLocker(locks.DefaultLease, nil), nil, nil)
}

const serviceCSV = csvHeader + "\n" +
	"WB-1,2026-03-01,2026-03-02,P1,S1,CEM,Cement,10,bag,150.75,1507.50,Depot\n" +
	"WB-2,2026-03-01,2026-03-03,P1,S1,CEM,Cement,5,bag,150.75,753.75,Depot\n"

func TestImport_CleanBatch(t *testing.T) {
	store := &fakeBatchStore{}
	publisher := &fakePublisher{}
	svc := newTestService(store, publisher)

	outcome, err := svc.Import(context.Background(), strings.NewReader(serviceCSV), "acme")
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.TotalRows)
	assert.Equal(t, 2, outcome.SuccessCount)
	assert.Equal(t, 0, outcome.ErrorCount)
	assert.Empty(t, outcome.Findings)
	require.Len(t, outcome.Persisted, 2)
	assert.Equal(t, "acme", store.tenantID)
}

func TestImport_RowCountsAlwaysReconcile(t *testing.T) {
	input := serviceCSV +
		"WB-3,2026-03-05,2026-03-04,P1,S1,CEM,Cement,10,bag,150.75,1507.50,Depot\n" + // dates inverted
		"WB-4,2026-03-01,2026-03-02,P1,S1,CEM,Cement,999,bag,1,999.00,Depot\n" // quantity out of range

	store := &fakeBatchStore{}
	svc := newTestService(store, &fakePublisher{})

	outcome, err := svc.Import(context.Background(), strings.NewReader(input), "acme")
	require.NoError(t, err)

	assert.Equal(t, 4, outcome.TotalRows)
	assert.Equal(t, 2, outcome.ErrorCount)
	assert.Equal(t, outcome.TotalRows, outcome.SuccessCount+outcome.ErrorCount)
	assert.Len(t, store.rows, 2, "only clean rows reach the store")
}

func TestImport_MalformedLineCountsAsErrorRow(t *testing.T) {
	input := serviceCSV + "WB-3,broken\"quote,2026-03-02,P1,S1,CEM,Cement,10,bag,150.75,1507.50,Depot\n"

	svc := newTestService(&fakeBatchStore{}, &fakePublisher{})
	outcome, err := svc.Import(context.Background(), strings.NewReader(input), "acme")
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.TotalRows)
	assert.Equal(t, 1, outcome.ErrorCount)
	assert.Equal(t, 2, outcome.SuccessCount)
}

func TestImport_BatchFailureIsAtomic(t *testing.T) {
	store := &fakeBatchStore{err: errors.New("deadlock detected")}
	publisher := &fakePublisher{}
	svc := newTestService(store, publisher)

	outcome, err := svc.Import(context.Background(), strings.NewReader(serviceCSV), "acme")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrBatchFailed)
	assert.Zero(t, outcome.TotalRows, "no partial outcome on an aborted batch")
	assert.Empty(t, publisher.events, "no completion event for an aborted batch")
}

func TestImport_PublishesCompletionEvent(t *testing.T) {
	publisher := &fakePublisher{}
	svc := newTestService(&fakeBatchStore{}, publisher)

	_, err := svc.Import(context.Background(), strings.NewReader(serviceCSV), "acme")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	evt := publisher.events[0]
	assert.Equal(t, "acme", evt.TenantID)
	assert.Equal(t, 2, evt.ImportedCount)
	assert.Equal(t, 2, evt.SuccessCount)
	assert.Equal(t, 0, evt.ErrorCount)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestImport_PublishFailureDoesNotFailImport(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(&fakeBatchStore{}, publisher)

	outcome, err := svc.Import(context.Background(), strings.NewReader(serviceCSV), "acme")
	require.NoError(t, err, "the batch is committed; the event is best effort")
	assert.Equal(t, 2, outcome.SuccessCount)
}

func TestImport_DefaultCurrencyWarning(t *testing.T) {
	svc := newTestService(&fakeBatchStore{}, &fakePublisher{})

	outcome, err := svc.Import(context.Background(), strings.NewReader(serviceCSV), "acme")
	require.NoError(t, err)
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "2 rows used default currency ILS")
}

func TestImport_ExplicitCurrencyNoWarning(t *testing.T) {
	input := csvHeader + ",currency\n" +
		"WB-1,2026-03-01,2026-03-02,P1,S1,CEM,Cement,10,bag,150.75,1507.50,Depot,USD\n"

	svc := newTestService(&fakeBatchStore{}, &fakePublisher{})
	outcome, err := svc.Import(context.Background(), strings.NewReader(input), "acme")
	require.NoError(t, err)
	assert.Empty(t, outcome.Warnings)
}

func TestImport_EmptyUpload(t *testing.T) {
	store := &fakeBatchStore{}
	publisher := &fakePublisher{}
	svc := newTestService(store, publisher)

	outcome, err := svc.Import(context.Background(), strings.NewReader(""), "acme")
	require.NoError(t, err)
	assert.Zero(t, outcome.TotalRows)
	assert.Zero(t, store.rows)
	require.Len(t, publisher.events, 1, "an empty import still completes")
	assert.Zero(t, publisher.events[0].ImportedCount)
}

func TestImport_BatchLockReleasedBetweenUploads(t *testing.T) {
	store := &fakeBatchStore{}
	svc := newTestService(store, &fakePublisher{})

	_, err := svc.Import(context.Background(), strings.NewReader(serviceCSV), "acme")
	require.NoError(t, err)
	_, err = svc.Import(context.Background(), strings.NewReader(serviceCSV), "acme")
	require.NoError(t, err, "the batch lock must not outlive the import")
	assert.Equal(t, 2, store.calls)
}

func TestImport_ValidatedRowTyping(t *testing.T) {
	input := csvHeader + ",status,currency\n" +
		"WB-1,2026-03-01,2026-03-02,P1,S1,CEM,Cement,10.1234,bag,150.75,1526.10,Depot,delivered,USD\n"

	store := &fakeBatchStore{}
	svc := newTestService(store, &fakePublisher{})
	_, err := svc.Import(context.Background(), strings.NewReader(input), "acme")
	require.NoError(t, err)

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, "10.123", row.Quantity.String(), "quantities round to 3 decimal places")
	assert.Equal(t, waybills.StatusDelivered, row.Status)
	assert.Equal(t, "USD", row.Currency)
	assert.False(t, row.UsedDefaultCurrency)
}
