package imports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/platform/httpx"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	maxBytes int64
}

func NewHandler(logger *slog.Logger, service *Service, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Handler{logger: logger, service: service, maxBytes: maxBytes}
}

// Upload accepts a multipart CSV file under the "file" field and returns the
// full import outcome. Row failures are part of the outcome, not an HTTP
// error; only batch-level failures surface as problems.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	tenantID := shared.TenantFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		httpx.Problem(w, http.StatusRequestEntityTooLarge, "Upload Too Large", "csv upload exceeds the size limit")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	outcome, err := h.service.Import(r.Context(), file, tenantID)
	if err != nil {
		h.logger.Error("import failed", slog.String("tenant", tenantID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, outcome)
}

// MountRoutes attaches the import endpoint with its own tighter rate limit:
// imports are heavyweight compared to the rest of the API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/", h.Upload)
	})
}
