package status

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/seedhunt/internal/observability"
	"github.com/danmuck/seedhunt/internal/search"
	"github.com/danmuck/seedhunt/internal/testutil/testlog"
	"github.com/rs/zerolog/log"
)

type staticSource search.Snapshot

func (s staticSource) Snapshot() search.Snapshot {
	return search.Snapshot(s)
}

func newTestServer() *Server {
	s := New("127.0.0.1:0", staticSource{
		State:   "running",
		Workers: 4,
		Active:  3,
		Missing: 2,
		Total:   123456,
		Rate:    789,
	}, nil)
	s.RegisterRoutes()
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	testlog.Start(t)
	s := newTestServer()

	rr := get(t, s, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "seedhunt" {
		t.Fatalf("unexpected response body: %#v", body)
	}
	log.Debug().Int("status", rr.Code).Msg("status/http: GET /health")
}

func TestProgressReportsSnapshot(t *testing.T) {
	testlog.Start(t)
	s := newTestServer()

	rr := get(t, s, "/progress")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var snap search.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snap.State != "running" || snap.Total != 123456 || snap.Rate != 789 || snap.Active != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestMetricsExposesSearchCounters(t *testing.T) {
	testlog.Start(t)
	s := newTestServer()
	observability.RecordCandidates(5)

	rr := get(t, s, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "seedhunt_search_candidates_total") {
		t.Fatalf("metrics output missing search counter")
	}
}

func TestRegisterRoutesTwice(t *testing.T) {
	s := newTestServer()
	s.RegisterRoutes()
	if rr := get(t, s, "/health"); rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestServeListenerStopsOnCancel(t *testing.T) {
	testlog.Start(t)
	s := newTestServer()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ServeListener(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatalf("get health: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		cancel()
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop after cancel")
	}
}
