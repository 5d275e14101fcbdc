package tenants

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Tenant, error) {
	if strings.TrimSpace(id) == "" {
		return Tenant{}, errors.New("tenant id is required")
	}
	return s.repo.Get(ctx, id)
}

// Create registers a tenant and returns the plaintext API key exactly once.
// Only the bcrypt hash is stored.
func (s *Service) Create(ctx context.Context, id, name string) (Tenant, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Tenant{}, "", errors.New("tenant id is required")
	}
	if strings.TrimSpace(name) == "" {
		return Tenant{}, "", errors.New("tenant name is required")
	}

	secret, hash, err := newAPIKeySecret()
	if err != nil {
		return Tenant{}, "", err
	}
	tenant, err := s.repo.Create(ctx, Tenant{ID: id, Name: name, APIKeyHash: hash})
	if err != nil {
		return Tenant{}, "", err
	}
	return tenant, formatAPIKey(id, secret), nil
}

// RotateAPIKey issues a replacement key, invalidating the previous one.
func (s *Service) RotateAPIKey(ctx context.Context, id string) (string, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", err
	}
	secret, hash, err := newAPIKeySecret()
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateAPIKeyHash(ctx, id, hash); err != nil {
		return "", err
	}
	return formatAPIKey(id, secret), nil
}

// Authenticate resolves an API key of the form "<tenant-id>.<secret>" to the
// tenant ID it belongs to.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (string, error) {
	tenantID, secret, ok := strings.Cut(apiKey, ".")
	if !ok || tenantID == "" || secret == "" {
		return "", shared.ErrInvalidAPIKey
	}
	tenant, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrInvalidAPIKey
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(tenant.APIKeyHash), []byte(secret)) != nil {
		return "", shared.ErrInvalidAPIKey
	}
	return tenant.ID, nil
}

func newAPIKeySecret() (secret, hash string, err error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("tenants: generate secret: %w", err)
	}
	secret = hex.EncodeToString(raw)
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("tenants: hash secret: %w", err)
	}
	return secret, string(hashed), nil
}

func formatAPIKey(tenantID, secret string) string {
	return tenantID + "." + secret
}
