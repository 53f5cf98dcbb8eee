package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approvalHandler "condogov/internal/approval/handler"
	entityHandler "condogov/internal/entity/handler"
	"condogov/internal/platform/middleware"
	processHandler "condogov/internal/process/handler"
	stakeholderHandler "condogov/internal/stakeholder/handler"
	validationHandler "condogov/internal/validation/handler"
	"condogov/pkg/platform/httputil"
)

// Registrar is anything that can attach its routes to the API router.
type Registrar interface {
	Register(r chi.Router)
}

// Deps collects everything the router needs. Health is consulted by the
// readiness endpoint; nil checks are skipped.
type Deps struct {
	Logger       *slog.Logger
	Validator    middleware.JWTValidator
	Entities     *entityHandler.Handler
	Stakeholders *stakeholderHandler.Handler
	Processes    *processHandler.Handler
	Approvals    *approvalHandler.Handler
	Validation   *validationHandler.Handler
	Health       []func() error
}

// NewRouter wires all endpoints. Reads are open; anything that mutates
// governance state sits behind JWT auth.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		for _, check := range d.Health {
			if check == nil {
				continue
			}
			if err := check(); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.RequireAuth(d.Validator, d.Logger))
		for _, h := range []Registrar{d.Entities, d.Stakeholders, d.Processes, d.Approvals, d.Validation} {
			h.Register(api)
		}
	})

	return r
}
