package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stubforce/stubforce/internal/service"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, &service.APIError{
			Message:   "missing required parameter q",
			ErrorCode: service.CodeInvalidQuery,
			Status:    http.StatusBadRequest,
		})
		return
	}

	result, apiErr := s.svc.Query(r.Context(), q)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	result, apiErr := s.svc.Describe(object)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Objects())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if apiErr := s.svc.Reload(r.Context()); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded": true,
		"objects":  len(s.svc.Catalog().Objects()),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the CRM's error shape: a JSON array of error entries.
func writeError(w http.ResponseWriter, apiErr *service.APIError) {
	writeJSON(w, apiErr.Status, []*service.APIError{apiErr})
}
