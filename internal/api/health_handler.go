package api

import (
	"net/http"

	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/httputil"
)

// HandleHealth reports liveness.
// GET /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}
