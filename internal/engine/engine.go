// Package engine runs the Bufo Clicker simulation: the economy, timed boosts,
// the golden bufo spawner, achievements and cheats. An Engine mutates exactly
// one GameState and is driven from a single goroutine; Session wraps it with
// persistence and snapshot publishing for presentations.
package engine

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/models"
)

var (
	ErrInvalidIndex      = errors.New("no such entry")
	ErrInsufficientFunds = errors.New("not enough bufos")
	ErrAlreadyPurchased  = errors.New("upgrade already purchased")
	ErrUnknownBoost      = errors.New("unknown boost")
	ErrUnknownCheat      = errors.New("unknown cheat code")
	ErrUnknownTheme      = errors.New("unknown theme")
	ErrNoBonus           = errors.New("no golden bufo to claim")
	ErrBonusAlive        = errors.New("a golden bufo is already out")
)

// Tuning holds the random-event knobs. Rates are probabilities per second of
// game time.
type Tuning struct {
	RandomBoostRate float64
	GoldenSpawnRate float64
	GoldenLifetime  time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		RandomBoostRate: 0.00001,
		GoldenSpawnRate: 0.00001,
		GoldenLifetime:  3 * time.Second,
	}
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Tuning Tuning
	Rand   *rand.Rand
	Bus    *events.Bus
	Logger *slog.Logger
}

// Engine applies game rules to a GameState.
type Engine struct {
	cat    *catalog.Catalog
	st     *models.GameState
	bus    *events.Bus
	rng    *rand.Rand
	tuning Tuning
	bounds Bounds
	log    *slog.Logger

	// now is game time: it starts at construction and only moves through Tick.
	now time.Time
}

// New wraps st, which must have been created for cat. The production rate is
// recomputed immediately.
func New(cat *catalog.Catalog, st *models.GameState, start time.Time, opts Options) *Engine {
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	if opts.Tuning.GoldenLifetime <= 0 {
		opts.Tuning.GoldenLifetime = DefaultTuning().GoldenLifetime
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(start.UnixNano()), 0x6275666f))
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := &Engine{
		cat:    cat,
		st:     st,
		bus:    opts.Bus,
		rng:    opts.Rand,
		tuning: opts.Tuning,
		bounds: DefaultBounds(),
		log:    opts.Logger,
		now:    start,
	}
	e.Recompute()
	return e
}

func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// State exposes the live state. Callers on other goroutines must use a
// snapshot instead.
func (e *Engine) State() *models.GameState { return e.st }

func (e *Engine) Bus() *events.Bus { return e.bus }

// Now returns the current game time.
func (e *Engine) Now() time.Time { return e.now }

// Replace swaps in a different state (after a load or reset) and recomputes
// the cached production rate.
func (e *Engine) Replace(st *models.GameState) {
	e.st = st
	e.Recompute()
}

// Tick advances the simulation by elapsed game time. Negative durations are
// treated as zero.
func (e *Engine) Tick(elapsed time.Duration) {
	if elapsed < 0 {
		e.log.Debug("negative tick clamped", "elapsed", elapsed)
		elapsed = 0
	}

	e.st.Stats.PlaySeconds += elapsed.Seconds()
	e.now = e.now.Add(elapsed)

	e.Advance(elapsed)
	e.ExpireBoosts(e.now)
	e.rollRandomBoost(elapsed)
	e.ExpireBonus(e.now)
	e.rollGoldenSpawn(elapsed)
	e.EvaluateAchievements()
}

// roll reports whether an event with the given per-second rate fires during
// elapsed.
func (e *Engine) roll(rate float64, elapsed time.Duration) bool {
	if rate <= 0 || elapsed <= 0 {
		return false
	}
	return e.rng.Float64() < rate*elapsed.Seconds()
}

func (e *Engine) publish(t events.EventType, data any) {
	e.bus.Publish(e.now, t, data)
}

func (e *Engine) notify(text string, emphasis events.Emphasis) {
	e.bus.Notify(e.now, text, emphasis)
}
