package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/httputil"
	"github.com/Datavoxx/daglig-rad-sub001/internal/service/estimate"
)

// HandleListEstimates returns estimates for the calling org.
// GET /api/estimates?status=&search=&limit=&offset=
func (s *Server) HandleListEstimates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := estimate.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	estimates, total, err := s.estimates.List(r.Context(), orgID(r), filter)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"estimates": estimates,
		"total":     total,
	})
}

// HandleGetEstimate returns one estimate with its lines.
// GET /api/estimates/{id}
func (s *Server) HandleGetEstimate(w http.ResponseWriter, r *http.Request) {
	est, err := s.estimates.Get(r.Context(), orgID(r), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, estimate.ErrNotFound) {
			httputil.NotFound(w, "estimate not found")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, est)
}
