package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
	"github.com/Datavoxx/daglig-rad-sub001/internal/importsession"
	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/distlock"
	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/httputil"
	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/logger"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetdecode"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

// previewRecord is one estimate in the preview response.
type previewRecord struct {
	Number    string   `json:"number"`
	Name      string   `json:"name"`
	Customer  string   `json:"customer"`
	City      string   `json:"city,omitempty"`
	Status    string   `json:"status"`
	Total     *float64 `json:"total,omitempty"`
	LineCount int      `json:"line_count"`
	Duplicate bool     `json:"duplicate"`
}

// previewResponse answers an upload: what we parsed, what would be
// imported, and the session to commit.
type previewResponse struct {
	SessionID    string                `json:"session_id"`
	Structure    sheetimport.Structure `json:"structure"`
	TotalParsed  int                   `json:"total_parsed"`
	NewCount     int                   `json:"new_count"`
	Duplicates   int                   `json:"duplicates"`
	SkippedNoKey int                   `json:"skipped_no_key"`
	Preview      []previewRecord       `json:"preview"`
}

// HandlePreviewImport accepts a spreadsheet upload, runs the pipeline, and
// stores the resulting batch for a later commit. Nothing is persisted here.
// POST /api/imports  (multipart, field "file")
func (s *Server) HandlePreviewImport(w http.ResponseWriter, r *http.Request) {
	org := orgID(r)

	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		httputil.BadRequest(w, "invalid multipart upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "missing file field")
		return
	}
	defer file.Close()

	if !sheetdecode.Accepted(header.Filename, header.Header.Get("Content-Type")) {
		httputil.BadRequest(w, "unsupported file type, upload .csv or .xlsx")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.BadRequest(w, "read upload: "+err.Error())
		return
	}

	// Best effort: a failed archive never blocks the import.
	if key, err := s.archiver.Archive(r.Context(), org, header.Filename, data); err != nil {
		logger.Warn("source file archive failed", "file", header.Filename, "error", err.Error())
	} else if key != "" {
		logger.Debug("source file archived", "key", key)
	}

	sheet, err := sheetdecode.Decode(bytes.NewReader(data), header.Filename)
	if err != nil {
		httputil.UnprocessableEntity(w, "could not read spreadsheet: "+err.Error())
		return
	}

	result := s.pipeline.Run(sheet)

	existing, err := s.estimates.ExistingNumberSet(r.Context(), org)
	if err != nil {
		// Without the dedup snapshot the run cannot proceed safely.
		httputil.InternalError(w, err)
		return
	}
	part := sheetimport.PartitionByExisting(result.Estimates, existing)

	sessionID, err := s.sessions.Save(r.Context(), &importsession.Session{
		OrgID:        org,
		FileName:     header.Filename,
		Structure:    result.Structure,
		NewEstimates: part.New,
		Duplicates:   len(part.Duplicate),
		SkippedNoKey: result.SkippedNoKey,
	})
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	logger.Info("import previewed",
		"org", org, "file", header.Filename, "structure", string(result.Structure),
		"parsed", len(result.Estimates), "new", len(part.New),
		"duplicates", len(part.Duplicate), "skipped", result.SkippedNoKey)

	httputil.OK(w, previewResponse{
		SessionID:    sessionID,
		Structure:    result.Structure,
		TotalParsed:  len(result.Estimates),
		NewCount:     len(part.New),
		Duplicates:   len(part.Duplicate),
		SkippedNoKey: result.SkippedNoKey,
		Preview:      buildPreview(result.Estimates, existing, s.cfg.PreviewRows),
	})
}

func buildPreview(estimates []*domain.Estimate, existing map[string]struct{}, limit int) []previewRecord {
	preview := make([]previewRecord, 0, limit)
	for _, est := range estimates {
		if len(preview) >= limit {
			break
		}
		_, dup := existing[est.NormalizedNumber()]
		preview = append(preview, previewRecord{
			Number:    est.Number,
			Name:      est.Name,
			Customer:  est.CustomerName,
			City:      est.City,
			Status:    string(est.Status),
			Total:     est.Total,
			LineCount: len(est.Lines),
			Duplicate: dup,
		})
	}
	return preview
}

// HandleCommitImport runs the orchestrator for a previewed session.
// POST /api/imports/{sessionID}/commit
func (s *Server) HandleCommitImport(w http.ResponseWriter, r *http.Request) {
	org := orgID(r)
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, importsession.ErrNotFound) {
			httputil.NotFound(w, "import session not found or expired")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	if sess.OrgID != org {
		httputil.NotFound(w, "import session not found or expired")
		return
	}

	// One commit at a time per org: the dedup snapshot in the session is
	// only trustworthy while nobody else is inserting.
	lock := distlock.NewRedisLock(s.redis, "import:"+org, lockTTL(s.cfg.LockTTL()))
	ok, err := lock.Acquire(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !ok {
		httputil.Conflict(w, "another import is already committing for this organization")
		return
	}
	defer lock.Release(r.Context())

	importer := sheetimport.NewImporter(s.estimates.ImportStore(org))
	outcome, err := importer.ImportAll(r.Context(), sess.Batch())
	if err != nil {
		// Cancelled mid-batch: already-persisted records stay; report that.
		logger.Warn("import interrupted", "org", org, "session", sessionID,
			"imported", outcome.Imported, "error", err.Error())
		httputil.InternalError(w, err)
		return
	}

	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		logger.Warn("import session cleanup failed", "session", sessionID, "error", err.Error())
	}

	logger.Info("import committed", "org", org, "file", sess.FileName,
		"imported", outcome.Imported, "lines", outcome.ImportedLines,
		"duplicates", outcome.Duplicates, "skipped", outcome.SkippedNoKey,
		"failed", outcome.Failed)

	httputil.OK(w, outcome)
}

func lockTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 2 * time.Minute
	}
	return ttl
}
