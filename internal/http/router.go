package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"patient360/internal/answer"
	"patient360/internal/handlers"
	"patient360/internal/ingest"
	"patient360/internal/retrieval"
	"patient360/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	PatientRepo storage.PatientStore
	Pipeline    *ingest.Pipeline
	Engine      *retrieval.Engine
	Generator   *answer.Generator
	// Capabilities reports which external capabilities are configured, for the
	// health endpoint.
	Capabilities map[string]bool
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	ingestHandler := handlers.NewIngestHandler(deps.Pipeline)
	reprocessHandler := handlers.NewReprocessHandler(deps.Pipeline)
	copilotHandler := handlers.NewCopilotHandler(deps.PatientRepo, deps.Engine, deps.Generator)
	patientsHandler := handlers.NewPatientsHandler(deps.PatientRepo)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.NewHealthHandler(deps.Capabilities))
		r.Get("/patients", patientsHandler.List)
		r.Route("/patients/{patientID}", func(r chi.Router) {
			r.Get("/", patientsHandler.Get)
			r.Method(http.MethodPost, "/notes", ingestHandler)
			r.Method(http.MethodPost, "/notes/reprocess", reprocessHandler)
			r.Method(http.MethodPost, "/copilot/ask", copilotHandler)
		})
	})

	return r
}
