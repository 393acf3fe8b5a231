// Package metrics exports game telemetry to Prometheus and serves a small
// read-only HTTP API next to the running game.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/events"
)

// Source hands out the most recently published snapshot. It must be safe to
// call from any goroutine.
type Source interface {
	Published() *engine.Snapshot
}

// SourceFunc adapts a function to Source.
type SourceFunc func() *engine.Snapshot

func (f SourceFunc) Published() *engine.Snapshot { return f() }

// Recorder owns the game's collectors.
type Recorder struct {
	Events       *prometheus.CounterVec
	SaveDuration prometheus.Histogram
	SaveErrors   prometheus.Counter
	SaveBytes    prometheus.Gauge
}

// NewRecorder registers the collectors with reg. Gauges for the economy read
// src lazily on every scrape.
func NewRecorder(reg prometheus.Registerer, src Source) *Recorder {
	f := promauto.With(reg)

	r := &Recorder{
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bufo",
			Name:      "events_total",
			Help:      "Game events published, by type.",
		}, []string{"type"}),
		SaveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bufo",
			Subsystem: "store",
			Name:      "save_duration_seconds",
			Help:      "Time spent writing a save to the backend.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		SaveErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "bufo",
			Subsystem: "store",
			Name:      "save_errors_total",
			Help:      "Saves the backend failed to write.",
		}),
		SaveBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "bufo",
			Subsystem: "store",
			Name:      "save_bytes",
			Help:      "Size of the last save written.",
		}),
	}

	gauge := func(name, help string, read func(*engine.Snapshot) float64) {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "bufo",
			Name:      name,
			Help:      help,
		}, func() float64 {
			snap := src.Published()
			if snap == nil {
				return 0
			}
			return read(snap)
		})
	}
	gauge("balance", "Current bufo balance.", func(s *engine.Snapshot) float64 { return s.Bufos })
	gauge("total_earned", "Lifetime bufos earned.", func(s *engine.Snapshot) float64 { return s.TotalEarned })
	gauge("production_rate", "Bufos produced per second.", func(s *engine.Snapshot) float64 { return s.Rate })
	gauge("click_value", "Bufos earned per click.", func(s *engine.Snapshot) float64 { return s.ClickValue })
	gauge("active_boosts", "Boosts currently running.", func(s *engine.Snapshot) float64 { return float64(len(s.Boosts)) })
	gauge("achievements_earned", "Achievements unlocked.", func(s *engine.Snapshot) float64 { return float64(s.EarnedCount()) })

	return r
}

// Handle is an events.Handler.
func (r *Recorder) Handle(ev events.Event) {
	r.Events.WithLabelValues(string(ev.Type)).Inc()
}

// ObserveSave has the store.WriteHook signature.
func (r *Recorder) ObserveSave(took time.Duration, size int, err error) {
	if err != nil {
		r.SaveErrors.Inc()
		return
	}
	r.SaveDuration.Observe(took.Seconds())
	r.SaveBytes.Set(float64(size))
}
