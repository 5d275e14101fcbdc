package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/imports"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/observability"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/projects"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/reports"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/suppliers"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/tenants"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
	"github.com/MaxDunkelx/waybill-management-system--sub001/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Metrics          *observability.Metrics
	TenantsService   *tenants.Service
	TenantsHandler   *tenants.Handler
	WaybillsHandler  *waybills.Handler
	SuppliersHandler *suppliers.Handler
	ProjectsHandler  *projects.Handler
	ImportsHandler   *imports.Handler
	ReportsHandler   *reports.Handler
	JobsHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router. Everything under /api/v1 except tenant
// provisioning requires an authenticated tenant; provisioning necessarily
// happens before any API key exists.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if params.TenantsHandler != nil {
			r.Route("/tenants", params.TenantsHandler.MountRoutes)
		}

		r.Group(func(r chi.Router) {
			r.Use(tenants.Middleware(params.TenantsService, params.Logger))

			if params.WaybillsHandler != nil {
				r.Route("/waybills", params.WaybillsHandler.MountRoutes)
			}
			if params.SuppliersHandler != nil {
				r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
			}
			if params.ProjectsHandler != nil {
				r.Route("/projects", params.ProjectsHandler.MountRoutes)
			}
			if params.ImportsHandler != nil {
				r.Route("/imports", params.ImportsHandler.MountRoutes)
			}
			if params.ReportsHandler != nil {
				r.Route("/reports", params.ReportsHandler.MountRoutes)
			}
		})
	})

	return r
}
