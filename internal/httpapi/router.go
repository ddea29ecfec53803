// Package httpapi exposes the CircuitBuilder service over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Leumas-Tech/CircuitBuilder/internal/service"
)

// Router wires the API routes to a service.
type Router struct {
	svc    *service.Service
	logger *zap.Logger
	// Static, when set, serves the browser front end at /.
	Static http.Handler
}

// NewRouter creates a new router instance
func NewRouter(svc *service.Service, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{svc: svc, logger: logger}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))

	h := &handler{svc: rt.svc, logger: rt.logger}

	router.Get("/health", h.health)

	router.Route("/api", func(r chi.Router) {
		r.Route("/circuits", func(r chi.Router) {
			r.Get("/", h.listCircuits)
			r.Post("/", h.saveCircuit)
			r.Get("/{id}", h.getCircuit)
			r.Post("/{id}/connections", h.wireCircuit)
			r.Get("/{id}/kicad_netlist", h.downloadNetlist)
			r.Get("/{id}/open_folder", h.openFolder)
			r.Get("/{id}/open_kicad", h.openKiCad)
		})

		r.Post("/connections/dedupe", h.dedupe)

		r.Get("/components", h.listComponents)
		r.Post("/components", h.saveComponent)

		r.Route("/circuit-code/{assetFolder}", func(r chi.Router) {
			r.Get("/", h.listCode)
			r.Get("/{filename}", h.readCode)
			r.Post("/{filename}", h.writeCode)
		})
	})

	if rt.Static != nil {
		router.Handle("/*", rt.Static)
	}

	return router
}
