package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/platform/httpx"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func parseFilters(r *http.Request) (SummaryFilters, error) {
	var f SummaryFilters
	if raw := r.URL.Query().Get("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return SummaryFilters{}, err
		}
		f.DateFrom = t
	}
	if raw := r.URL.Query().Get("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return SummaryFilters{}, err
		}
		f.DateTo = t
	}
	return f, nil
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	tenantID := shared.TenantFromContext(r.Context())
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date_from and date_to must be YYYY-MM-DD")
		return
	}
	summary, err := h.service.Summary(r.Context(), tenantID, filters)
	if err != nil {
		h.logger.Error("summary failed", slog.String("tenant", tenantID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// SummaryCSV streams the summary as a CSV download.
func (h *Handler) SummaryCSV(w http.ResponseWriter, r *http.Request) {
	tenantID := shared.TenantFromContext(r.Context())
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date_from and date_to must be YYYY-MM-DD")
		return
	}
	summary, err := h.service.Summary(r.Context(), tenantID, filters)
	if err != nil {
		h.logger.Error("summary export failed", slog.String("tenant", tenantID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="waybill-summary.csv"`)
	if err := WriteSummaryCSV(w, summary); err != nil {
		h.logger.Error("write summary csv failed", slog.Any("error", err))
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/summary.csv", h.SummaryCSV)
}
