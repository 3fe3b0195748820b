package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-proxy/internal/target"
)

// handleListTargets returns every registered target of one kind with its
// last update time. Tokens are never serialised.
//
// Query parameters:
//   - on: "true" to skip targets whose value is 0
func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	kind, err := target.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeNotFound(w, "unknown target kind")
		return
	}

	filter := onlyNonZero(r)
	records := s.registryFor(kind).Snapshot()
	out := make([]target.Record, 0, len(records))
	for _, rec := range records {
		if filter && rec.Value == 0 {
			continue
		}
		out = append(out, rec)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kind":    kind,
		"targets": out,
		"count":   len(out),
	})
}
