package engine

import (
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/models"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// quiet disables random boosts and golden spawns.
var quiet = Tuning{GoldenLifetime: 3 * time.Second}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recorder struct {
	events []events.Event
}

func (r *recorder) count(t events.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T, tuning Tuning) (*Engine, *recorder) {
	t.Helper()
	cat := catalog.Default()
	bus := events.NewBus()
	rec := &recorder{}
	bus.Subscribe(func(ev events.Event) { rec.events = append(rec.events, ev) })
	e := New(cat, models.NewGameState(cat, t0), t0, Options{
		Tuning: tuning,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Bus:    bus,
		Logger: discardLogger(),
	})
	return e, rec
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewDefaults(t *testing.T) {
	cat := catalog.Default()
	e := New(cat, models.NewGameState(cat, t0), t0, Options{})
	if e.tuning != DefaultTuning() {
		t.Errorf("tuning = %+v, want defaults", e.tuning)
	}
	if e.Bus() == nil || e.rng == nil || e.log == nil {
		t.Fatal("expected defaults for bus, rng and logger")
	}
	if !e.Now().Equal(t0) {
		t.Errorf("Now() = %v, want %v", e.Now(), t0)
	}
}

func TestTickAccumulatesTime(t *testing.T) {
	e, _ := newTestEngine(t, quiet)
	e.State().Owned[0] = 10
	e.Recompute()

	e.Tick(2 * time.Second)
	e.Tick(-time.Second)

	st := e.State()
	if st.Stats.PlaySeconds != 2 {
		t.Errorf("PlaySeconds = %v, want 2", st.Stats.PlaySeconds)
	}
	if !e.Now().Equal(t0.Add(2 * time.Second)) {
		t.Errorf("Now() = %v, want %v", e.Now(), t0.Add(2*time.Second))
	}
	if !approx(st.Bufos, 2) || !approx(st.TotalEarned, 2) {
		t.Errorf("Bufos = %v, TotalEarned = %v, want 2", st.Bufos, st.TotalEarned)
	}
}

func TestTickOrderExpiresBeforeEvaluating(t *testing.T) {
	e, rec := newTestEngine(t, quiet)
	if err := e.TriggerBoost("bufo_rain", t0); err != nil {
		t.Fatal(err)
	}
	e.State().Stats.Clicks = 100

	e.Tick(30 * time.Second)

	if len(e.State().ActiveBoosts()) != 0 {
		t.Error("bufo_rain should have expired")
	}
	if !e.State().Earned[5] {
		t.Error("click achievement should unlock in the same tick")
	}
	if rec.count(events.EventBoostExpired) != 1 {
		t.Errorf("BoostExpired events = %d, want 1", rec.count(events.EventBoostExpired))
	}
}
