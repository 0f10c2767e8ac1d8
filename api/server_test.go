package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/benchlab/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("BENCHLAB_DISABLE_AUTH", "true")
	t.Setenv("BENCHLAB_API_KEY", "")

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	srv, err := NewServer(st)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, st
}

func seedRun(t *testing.T, st *store.SQLiteStore, id string) {
	t.Helper()
	run := &store.RunRecord{
		ID:               id,
		Name:             "bench-" + id,
		Stage:            "BenchmarkReport",
		CreatedAt:        time.Now().UTC(),
		NInstances:       5,
		NAttempts:        2,
		ExecutionSeconds: 1.5,
	}
	reports := []*store.ReportRecord{
		{RunID: id, Aggregator: "status", Outer: 0.8, Inner: map[string]float64{"q1": 1}},
	}
	if err := st.SaveRun(context.Background(), run, reports); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
}

func doRequest(t *testing.T, srv *Server, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body: got %v", body)
	}
}

func TestListRuns(t *testing.T) {
	srv, st := newTestServer(t)
	seedRun(t, st, "r1")
	seedRun(t, st, "r2")

	w := doRequest(t, srv, http.MethodGet, "/api/runs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", w.Code)
	}

	var runs []runView
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d want 2", len(runs))
	}
}

func TestListRuns_BadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/runs?limit=zero", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
}

func TestGetRun(t *testing.T) {
	srv, st := newTestServer(t)
	seedRun(t, st, "r1")

	w := doRequest(t, srv, http.MethodGet, "/api/runs/r1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", w.Code)
	}

	var run runView
	if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if run.ID != "r1" || run.NInstances != 5 {
		t.Fatalf("run: got %+v", run)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/runs/absent", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want 404", w.Code)
	}
}

func TestGetReports(t *testing.T) {
	srv, st := newTestServer(t)
	seedRun(t, st, "r1")

	w := doRequest(t, srv, http.MethodGet, "/api/runs/r1/reports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", w.Code)
	}

	var reports []reportView
	if err := json.Unmarshal(w.Body.Bytes(), &reports); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(reports) != 1 || reports[0].Aggregator != "status" {
		t.Fatalf("reports: got %+v", reports)
	}
	if reports[0].Inner["q1"] != 1 {
		t.Fatalf("inner: got %v", reports[0].Inner)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("BENCHLAB_API_KEY", "secret")
	t.Setenv("BENCHLAB_DISABLE_AUTH", "")

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	srv, err := NewServer(st)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	w := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without key: got %d want 401", w.Code)
	}

	w = doRequest(t, srv, http.MethodGet, "/api/health", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong key: got %d want 401", w.Code)
	}

	w = doRequest(t, srv, http.MethodGet, "/api/health", map[string]string{"X-API-Key": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("status with key: got %d want 200", w.Code)
	}
}

func TestNewServer_RequiresAuthConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("BENCHLAB_API_KEY", "")
	t.Setenv("BENCHLAB_DISABLE_AUTH", "")

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	if _, err := NewServer(st); err == nil {
		t.Fatalf("NewServer: expected error without auth configuration")
	}
}

func TestNewServer_NilStore(t *testing.T) {
	if _, err := NewServer(nil); err == nil {
		t.Fatalf("NewServer: expected error for nil store")
	}
}
