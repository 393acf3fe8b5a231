package metrics

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/events"
)

type stubSource struct {
	snap atomic.Pointer[engine.Snapshot]
}

func (s *stubSource) Published() *engine.Snapshot { return s.snap.Load() }

func setup(t *testing.T) (*stubSource, *Recorder, http.Handler) {
	t.Helper()
	src := &stubSource{}
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg, src)
	srv := NewServer(src, reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return src, rec, srv.Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, _, h := setup(t)
	w := get(t, h, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestStateBeforeStart(t *testing.T) {
	_, _, h := setup(t)
	if w := get(t, h, "/api/state"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestState(t *testing.T) {
	src, _, h := setup(t)
	src.snap.Store(&engine.Snapshot{SessionID: "abc", Bufos: 12, Rate: 1.5})

	w := get(t, h, "/api/state")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["session_id"] != "abc" || resp["bufos"] != float64(12) || resp["rate"] != 1.5 {
		t.Errorf("unexpected state: %v", resp)
	}
}

func TestMetricsScrape(t *testing.T) {
	src, rec, h := setup(t)
	src.snap.Store(&engine.Snapshot{
		Bufos:  12,
		Rate:   1.5,
		Boosts: []engine.BoostView{{ID: "frenzy"}},
	})

	rec.Handle(events.New(1, time.Time{}, events.EventClicked, nil))
	rec.Handle(events.New(2, time.Time{}, events.EventClicked, nil))
	rec.Handle(events.New(3, time.Time{}, events.EventBuildingPurchased, nil))
	rec.ObserveSave(3*time.Millisecond, 512, nil)
	rec.ObserveSave(time.Millisecond, 0, errors.New("disk full"))

	w := get(t, h, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`bufo_events_total{type="Clicked"} 2`,
		`bufo_events_total{type="BuildingPurchased"} 1`,
		"bufo_balance 12",
		"bufo_production_rate 1.5",
		"bufo_active_boosts 1",
		"bufo_store_save_duration_seconds_count 1",
		"bufo_store_save_errors_total 1",
		"bufo_store_save_bytes 512",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestGaugesWithoutSnapshot(t *testing.T) {
	_, _, h := setup(t)
	body := get(t, h, "/metrics").Body.String()
	if !strings.Contains(body, "bufo_balance 0") {
		t.Errorf("expected zero balance before the first snapshot")
	}
}
