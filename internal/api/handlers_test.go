package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Datavoxx/daglig-rad-sub001/internal/config"
	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
	"github.com/Datavoxx/daglig-rad-sub001/internal/importsession"
	"github.com/Datavoxx/daglig-rad-sub001/internal/service/estimate"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

// memRepo is an in-memory estimate.Repository for handler tests.
type memRepo struct {
	mu        sync.Mutex
	estimates []*domain.Estimate
	lines     map[string][]domain.EstimateLine
	nextID    int
}

func newMemRepo() *memRepo {
	return &memRepo{lines: make(map[string][]domain.EstimateLine)}
}

func (m *memRepo) InsertEstimate(_ context.Context, est *domain.Estimate) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *est
	cp.ID = fmt.Sprintf("id-%d", m.nextID)
	m.estimates = append(m.estimates, &cp)
	return cp.ID, nil
}

func (m *memRepo) InsertLines(_ context.Context, estimateID string, lines []domain.EstimateLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[estimateID] = append(m.lines[estimateID], lines...)
	return nil
}

func (m *memRepo) ExistingNumbers(_ context.Context, orgID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.estimates {
		if e.OrganizationID == orgID {
			out = append(out, e.Number)
		}
	}
	return out, nil
}

func (m *memRepo) List(_ context.Context, orgID string, _ estimate.ListFilter) ([]domain.Estimate, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Estimate
	for _, e := range m.estimates {
		if e.OrganizationID == orgID {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Get(_ context.Context, orgID, id string) (*domain.Estimate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.estimates {
		if e.OrganizationID == orgID && e.ID == id {
			cp := *e
			cp.Lines = m.lines[id]
			return &cp, nil
		}
	}
	return nil, estimate.ErrNotFound
}

func newTestServer(t *testing.T) (*Server, *memRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := newMemRepo()
	svc := estimate.NewService(repo)
	cfg := config.ImportConfig{PreviewRows: 20, SessionTTLMinutes: 30, LockTTLSeconds: 60, MaxUploadMB: 5}

	srv := NewServer(svc,
		sheetimport.DefaultPipeline(),
		importsession.NewStore(client, time.Minute),
		client, nil, cfg)
	return srv, repo
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const flatCSV = `Tilbudsnummer,Kunde,Beskrivelse,Antall,Enhetspris
T-100,Hansen Bygg,Graving,2,950
T-100,Hansen Bygg,Fundament,1,12 500
T-200,Olsen AS,Maling,4,450
,Uten Nummer,Rydding,1,100
`

func doPreview(t *testing.T, srv *Server, csv string) previewResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, uploadRequest(t, "eksport.csv", csv))
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	return resp
}

func doCommit(t *testing.T, srv *Server, sessionID string) sheetimport.Outcome {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/imports/"+sessionID+"/commit", nil)
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("commit status = %d: %s", rec.Code, rec.Body.String())
	}
	var outcome sheetimport.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	return outcome
}

func TestPreviewImport_FlatSheet(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doPreview(t, srv, flatCSV)
	if resp.Structure != sheetimport.StructureFlat {
		t.Errorf("structure = %s, want flat", resp.Structure)
	}
	if resp.TotalParsed != 2 || resp.NewCount != 2 || resp.Duplicates != 0 {
		t.Errorf("counts = %+v", resp)
	}
	if resp.SkippedNoKey != 1 {
		t.Errorf("skipped = %d, want 1", resp.SkippedNoKey)
	}
	if len(resp.Preview) != 2 {
		t.Fatalf("preview rows = %d", len(resp.Preview))
	}
	if resp.Preview[0].Number != "T-100" || resp.Preview[0].LineCount != 2 {
		t.Errorf("preview[0] = %+v", resp.Preview[0])
	}
	if resp.Preview[0].Duplicate {
		t.Error("fresh estimate flagged duplicate")
	}
}

func TestPreviewImport_RejectsUnsupportedFile(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, uploadRequest(t, "notat.pdf", "not a sheet"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPreviewImport_EmptyFileIsUnprocessable(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, uploadRequest(t, "tom.csv", ""))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestCommitImport_RoundTrip(t *testing.T) {
	srv, repo := newTestServer(t)

	resp := doPreview(t, srv, flatCSV)
	outcome := doCommit(t, srv, resp.SessionID)

	if outcome.Imported != 2 || outcome.ImportedLines != 3 {
		t.Errorf("outcome = %+v", outcome)
	}
	if outcome.SkippedNoKey != 1 {
		t.Errorf("skipped = %d, want 1", outcome.SkippedNoKey)
	}
	if len(repo.estimates) != 2 {
		t.Errorf("stored estimates = %d", len(repo.estimates))
	}

	// Committing the same session twice must fail: it's gone.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/imports/"+resp.SessionID+"/commit", nil)
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second commit status = %d, want 404", rec.Code)
	}
}

func TestImport_SecondRunIsAllDuplicates(t *testing.T) {
	srv, _ := newTestServer(t)

	first := doPreview(t, srv, flatCSV)
	doCommit(t, srv, first.SessionID)

	second := doPreview(t, srv, flatCSV)
	if second.NewCount != 0 || second.Duplicates != 2 {
		t.Errorf("second run = %d new / %d duplicates, want 0/2", second.NewCount, second.Duplicates)
	}
	for _, p := range second.Preview {
		if !p.Duplicate {
			t.Errorf("estimate %s not flagged duplicate on second run", p.Number)
		}
	}

	outcome := doCommit(t, srv, second.SessionID)
	if outcome.Imported != 0 || outcome.Duplicates != 2 {
		t.Errorf("second commit outcome = %+v", outcome)
	}
}

func TestCommitImport_UnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/imports/does-not-exist/commit", nil)
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCommitImport_WrongOrg(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doPreview(t, srv, flatCSV)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/imports/"+resp.SessionID+"/commit", nil)
	req.Header.Set("X-Organization-ID", "someone-else")
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for foreign session", rec.Code)
	}
}

func TestListEstimates_AfterImport(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doPreview(t, srv, flatCSV)
	doCommit(t, srv, resp.SessionID)

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/estimates", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "T-100") {
		t.Errorf("list body missing imported estimate: %s", rec.Body.String())
	}
}
