package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubProbe struct {
	name string
	err  error
	// block, when set, makes Check hang until the context is cancelled.
	block bool
}

func (p *stubProbe) Name() string { return p.name }

func (p *stubProbe) Check(ctx context.Context) error {
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

type panicProbe struct{}

func (p *panicProbe) Name() string { return "flaky" }

func (p *panicProbe) Check(_ context.Context) error { panic("probe exploded") }

func doHealthCheck(t *testing.T, s *Server) (*httptest.ResponseRecorder, healthResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, req)

	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	return rec, resp
}

func TestHandleHealth_NoProbes(t *testing.T) {
	s := newTestServer(t)

	rec, resp := doHealthCheck(t, s)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Status)
	}
}

func TestHandleHealth_AllHealthy(t *testing.T) {
	s := newTestServer(t)
	s.HealthProbes = []HealthProbe{
		&stubProbe{name: "database"},
		&stubProbe{name: "weather"},
	}

	rec, resp := doHealthCheck(t, s)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if resp.Components["database"].Status != "healthy" {
		t.Errorf("expected database healthy, got %+v", resp.Components["database"])
	}
	if resp.Components["weather"].Status != "healthy" {
		t.Errorf("expected weather healthy, got %+v", resp.Components["weather"])
	}
}

func TestHandleHealth_OneUnhealthy(t *testing.T) {
	s := newTestServer(t)
	s.HealthProbes = []HealthProbe{
		&stubProbe{name: "database"},
		&stubProbe{name: "weather", err: errors.New("provider unreachable")},
	}

	rec, resp := doHealthCheck(t, s)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %q", resp.Status)
	}
	if resp.Components["weather"].Message != "provider unreachable" {
		t.Errorf("expected probe error surfaced, got %+v", resp.Components["weather"])
	}
	// Healthy probes are still reported.
	if resp.Components["database"].Status != "healthy" {
		t.Errorf("expected database healthy, got %+v", resp.Components["database"])
	}
}

func TestHandleHealth_ProbePanic(t *testing.T) {
	s := newTestServer(t)
	s.HealthProbes = []HealthProbe{&panicProbe{}}

	rec, resp := doHealthCheck(t, s)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	if resp.Components["flaky"].Status != "unhealthy" {
		t.Errorf("expected flaky unhealthy, got %+v", resp.Components["flaky"])
	}
}

func TestHandleHealth_Timeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}

	s := newTestServer(t)
	s.HealthProbes = []HealthProbe{
		&stubProbe{name: "database"},
		&stubProbe{name: "weather", block: true},
	}

	rec, resp := doHealthCheck(t, s)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	if resp.Components["weather"].Status != "unhealthy" {
		t.Errorf("expected weather unhealthy on timeout, got %+v", resp.Components["weather"])
	}
	if resp.Components["database"].Status != "healthy" {
		t.Errorf("expected database healthy despite sibling timeout, got %+v", resp.Components["database"])
	}
}
