package tenants

import (
	"log/slog"
	"net/http"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/platform/httpx"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

// APIKeyHeader carries the tenant credential on every request.
const APIKeyHeader = "X-API-Key"

// Middleware authenticates the calling tenant from the API key header and
// stores the tenant ID in the request context. Handlers read it back once and
// pass it to services as an explicit argument.
func Middleware(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" {
				httpx.RespondError(w, shared.ErrInvalidAPIKey)
				return
			}
			tenantID, err := service.Authenticate(r.Context(), apiKey)
			if err != nil {
				logger.Warn("tenant authentication failed", slog.String("path", r.URL.Path))
				httpx.RespondError(w, err)
				return
			}
			ctx := shared.ContextWithTenant(r.Context(), tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
