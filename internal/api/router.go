package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-proxy/internal/auth"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/", s.handleRoot)

	// Front-end proxy routes (no auth, bare numeric responses)
	r.Route("/proxy", func(r chi.Router) {
		r.Get("/light", s.handleReadIntensity)
		r.Get("/light/all", s.handleListIntensities)
		r.Get("/scene", s.handleReadScene)
		r.Get("/scene/all", s.handleListScenes)
		r.Post("/scene", s.handleSetSceneLegacy)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health and metrics stay open for monitoring
		r.Get("/health", s.handleHealth)
		r.Get("/metrics", s.handleMetrics)

		r.Group(func(r chi.Router) {
			r.Use(s.requirePermission(auth.PermStateRead))
			r.Get("/targets/{kind}", s.handleListTargets)
			r.Get("/ws", s.handleWebSocket)
		})

		r.With(s.requirePermission(auth.PermSceneSet)).
			Post("/scenes/recall", s.handleRecallScene)

		r.With(s.requirePermission(auth.PermAuditRead)).
			Get("/audit", s.handleListAuditLogs)
	})

	return r
}

// handleRoot answers the liveness probe used by the original front-end.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response
	w.Write([]byte("SERVER RUNNING"))
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
