// Package api exposes the HTTP surface: spreadsheet import
// (preview-then-commit) and estimate reads.
package api

import (
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/Datavoxx/daglig-rad-sub001/internal/archive"
	"github.com/Datavoxx/daglig-rad-sub001/internal/config"
	"github.com/Datavoxx/daglig-rad-sub001/internal/importsession"
	"github.com/Datavoxx/daglig-rad-sub001/internal/service/estimate"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

// Server bundles the dependencies of all handlers.
type Server struct {
	estimates *estimate.Service
	pipeline  *sheetimport.Pipeline
	sessions  *importsession.Store
	redis     *redis.Client
	archiver  archive.Archiver
	cfg       config.ImportConfig
}

// NewServer wires the handler dependencies. A nil archiver disables
// source-file archival.
func NewServer(
	estimates *estimate.Service,
	pipeline *sheetimport.Pipeline,
	sessions *importsession.Store,
	redisClient *redis.Client,
	archiver archive.Archiver,
	cfg config.ImportConfig,
) *Server {
	if archiver == nil {
		archiver = archive.Nop{}
	}
	return &Server{
		estimates: estimates,
		pipeline:  pipeline,
		sessions:  sessions,
		redis:     redisClient,
		archiver:  archiver,
		cfg:       cfg,
	}
}

// defaultOrgID covers single-tenant deployments without an auth proxy.
const defaultOrgID = "default"

// orgID resolves the calling organization. The auth proxy in front of this
// service sets the header; local and single-tenant setups fall back to a
// fixed org.
func orgID(r *http.Request) string {
	if org := r.Header.Get("X-Organization-ID"); org != "" {
		return org
	}
	return defaultOrgID
}
