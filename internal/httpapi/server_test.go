package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/scheduler"
)

type fakeState struct {
	states []scheduler.TargetState
	err    error
}

func (f fakeState) Snapshot(context.Context) ([]scheduler.TargetState, error) {
	return f.states, f.err
}

func setupRouter(t *testing.T, st StateSource) http.Handler {
	t.Helper()
	return NewServer(zap.NewNop(), st, []string{"openai", "statuspage"}).Router()
}

func sample() fakeState {
	return fakeState{states: []scheduler.TargetState{
		{Target: domain.Target{Name: "openai", Endpoint: "https://status.openai.com/x"}, IntervalSeconds: 120, NextCheck: time.Now().Add(time.Minute)},
		{Target: domain.Target{Name: "github", Endpoint: "https://www.githubstatus.com/api", Source: "statuspage"}, Tracking: true, IntervalSeconds: 60},
	}}
}

func TestHealthz(t *testing.T) {
	h := setupRouter(t, sample())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rr.Code, rr.Body.String())
	}
}

func TestListTargets(t *testing.T) {
	h := setupRouter(t, sample())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/targets", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type %q", ct)
	}
	var got []scheduler.TargetState
	if err := sonic.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Target.Name != "openai" || !got[1].Tracking {
		t.Fatalf("unexpected body: %+v", got)
	}
	if got[0].IntervalSeconds != 120 {
		t.Fatalf("interval not carried: %+v", got[0])
	}
}

func TestGetTarget(t *testing.T) {
	h := setupRouter(t, sample())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/targets/github", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var got scheduler.TargetState
	if err := sonic.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Target.Source != "statuspage" || !got.Tracking {
		t.Fatalf("unexpected body: %+v", got)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/targets/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rr.Code)
	}
}

func TestListTargets_SnapshotError(t *testing.T) {
	h := setupRouter(t, fakeState{err: errors.New("store down")})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/targets", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rr.Code)
	}
}

func TestListSources(t *testing.T) {
	h := setupRouter(t, sample())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sources", nil))
	var got struct {
		Sources []string `json:"sources"`
	}
	if err := sonic.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Sources) != 2 || got.Sources[0] != "openai" {
		t.Fatalf("unexpected sources: %+v", got)
	}
}

func TestCORSHeaders(t *testing.T) {
	h := setupRouter(t, sample())
	req := httptest.NewRequest(http.MethodGet, "/api/targets", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected CORS header")
	}
}

var _ StateSource = (*scheduler.Engine)(nil)
