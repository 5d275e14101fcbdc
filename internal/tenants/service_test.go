package tenants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
	_ "github.com/MaxDunkelx/waybill-management-system--sub001/testing"
)

type fakeRepository struct {
	tenants map[string]Tenant
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{tenants: map[string]Tenant{}}
}

func (f *fakeRepository) List(_ context.Context) ([]Tenant, error) {
	out := make([]Tenant, 0, len(f.tenants))
	for _, t := range f.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepository) Get(_ context.Context, id string) (Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return Tenant{}, shared.ErrNotFound
	}
	return t, nil
}

func (f *fakeRepository) Create(_ context.Context, tenant Tenant) (Tenant, error) {
	f.tenants[tenant.ID] = tenant
	return tenant, nil
}

func (f *fakeRepository) UpdateAPIKeyHash(_ context.Context, id, hash string) error {
	t, ok := f.tenants[id]
	if !ok {
		return shared.ErrNotFound
	}
	t.APIKeyHash = hash
	f.tenants[id] = t
	return nil
}

func TestCreate_ReturnsUsableAPIKey(t *testing.T) {
	svc := NewService(newFakeRepository())

	tenant, apiKey, err := svc.Create(context.Background(), "acme", "Acme Construction")
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.ID)
	assert.NotContains(t, apiKey, tenant.APIKeyHash, "plaintext key is never the stored hash")

	id, err := svc.Authenticate(context.Background(), apiKey)
	require.NoError(t, err)
	assert.Equal(t, "acme", id)
}

func TestAuthenticate_RejectsBadCredentials(t *testing.T) {
	svc := NewService(newFakeRepository())
	_, apiKey, err := svc.Create(context.Background(), "acme", "Acme Construction")
	require.NoError(t, err)

	cases := []struct {
		name string
		key  string
	}{
		{"wrong secret", "acme.deadbeef"},
		{"unknown tenant", "ghost." + apiKey[len("acme."):]},
		{"missing separator", "acmesecret"},
		{"empty key", ""},
		{"empty secret", "acme."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tc.key)
			assert.ErrorIs(t, err, shared.ErrInvalidAPIKey)
		})
	}
}

func TestRotateAPIKey_InvalidatesOldKey(t *testing.T) {
	svc := NewService(newFakeRepository())
	_, oldKey, err := svc.Create(context.Background(), "acme", "Acme Construction")
	require.NoError(t, err)

	newKey, err := svc.RotateAPIKey(context.Background(), "acme")
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, newKey)

	_, err = svc.Authenticate(context.Background(), oldKey)
	assert.ErrorIs(t, err, shared.ErrInvalidAPIKey)

	id, err := svc.Authenticate(context.Background(), newKey)
	require.NoError(t, err)
	assert.Equal(t, "acme", id)
}

func TestRotateAPIKey_UnknownTenant(t *testing.T) {
	svc := NewService(newFakeRepository())
	_, err := svc.RotateAPIKey(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
