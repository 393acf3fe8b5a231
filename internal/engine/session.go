package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/clock"
	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/models"
)

// Saver persists encoded saves. store.Writer and the stores satisfy it.
type Saver interface {
	Save(data []byte) error
	Delete() error
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Options

	// Saver receives saves; nil keeps the game in memory only.
	Saver Saver
	// AutosaveInterval is game time between automatic saves; 0 disables them.
	AutosaveInterval time.Duration
	// Clock supplies wall time for session start stamps. Defaults to the
	// real clock.
	Clock clock.Clock
}

// Session is the single entry point presentations drive. All methods except
// Published must be called from one goroutine.
type Session struct {
	id       string
	eng      *Engine
	saver    Saver
	clk      clock.Clock
	autosave time.Duration
	unsaved  time.Duration
	log      *slog.Logger

	published atomic.Pointer[Snapshot]
}

// NewSession starts a fresh game.
func NewSession(cat *catalog.Catalog, opts SessionOptions) *Session {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	id := uuid.NewString()
	opts.Logger = opts.Logger.With("session", id)

	now := opts.Clock.Now()
	s := &Session{
		id:       id,
		eng:      New(cat, models.NewGameState(cat, now), now, opts.Options),
		saver:    opts.Saver,
		clk:      opts.Clock,
		autosave: opts.AutosaveInterval,
		log:      opts.Logger,
	}
	s.publish()
	return s
}

func (s *Session) ID() string { return s.id }

// Engine exposes the rules engine for callers on the session goroutine.
func (s *Session) Engine() *Engine { return s.eng }

// Subscribe registers a handler on the event stream.
func (s *Session) Subscribe(h events.Handler) { s.eng.bus.Subscribe(h) }

// Load replaces the current game with a saved one. A *models.PartialLoadError
// is returned after the recovered game has been installed; any other error
// leaves the current game untouched.
func (s *Session) Load(data []byte) error {
	st, err := models.Decode(data, s.eng.cat, s.clk.Now())
	var partial *models.PartialLoadError
	switch {
	case err == nil:
	case errors.As(err, &partial):
		s.log.Warn("save partially recovered", "fields", partial.Fields)
		s.eng.notify("Save partially recovered; some values were reset", events.EmphasisHigh)
	default:
		return fmt.Errorf("failed to load save: %w", err)
	}

	s.eng.Replace(st)
	s.unsaved = 0
	s.log.Info("game loaded", "bufos", st.Bufos, "rate", st.ProductionRate)
	s.publish()
	return err
}

// OnTick advances the game by elapsed and publishes a fresh snapshot.
func (s *Session) OnTick(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	s.eng.Tick(elapsed)

	if s.autosave > 0 && s.saver != nil {
		s.unsaved += elapsed
		if s.unsaved >= s.autosave {
			if err := s.Save(); err != nil {
				s.log.Warn("autosave failed", "err", err)
			}
		}
	}
	s.publish()
}

func (s *Session) OnClick() float64 {
	return s.eng.ApplyClick()
}

func (s *Session) OnPurchaseBuilding(i int) error {
	return s.rejectable("purchase building", s.eng.PurchaseBuilding(i))
}

func (s *Session) OnPurchaseUpgrade(i int) error {
	return s.rejectable("purchase upgrade", s.eng.PurchaseUpgrade(i))
}

func (s *Session) OnCheat(code string) error {
	return s.rejectable("cheat", s.eng.ApplyCheat(code))
}

func (s *Session) OnClaimBonusObject() error {
	return s.rejectable("claim golden bufo", s.eng.ClaimBonus(s.eng.now))
}

func (s *Session) OnThemeSelect(id string) error {
	return s.rejectable("select theme", s.eng.SelectTheme(id))
}

// rejectable logs refused input. Refusals are normal play, not failures.
func (s *Session) rejectable(action string, err error) error {
	if err != nil {
		s.log.Debug("input rejected", "action", action, "err", err)
	}
	return err
}

// SetBounds tells the spawner how large the play area is.
func (s *Session) SetBounds(b Bounds) { s.eng.SetBounds(b) }

// Save hands an encoded copy of the game to the saver. Failures are logged and
// returned; the game keeps running either way.
func (s *Session) Save() error {
	s.unsaved = 0
	if s.saver == nil {
		return nil
	}
	data, err := models.Encode(s.eng.st, s.eng.cat)
	if err != nil {
		return err
	}
	if err := s.saver.Save(data); err != nil {
		s.log.Error("save failed", "err", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	s.log.Debug("game saved", "bytes", len(data))
	return nil
}

// Reset wipes progress and deletes the stored save.
func (s *Session) Reset() error {
	var delErr error
	if s.saver != nil {
		if delErr = s.saver.Delete(); delErr != nil {
			s.log.Error("failed to delete save", "err", delErr)
			delErr = fmt.Errorf("failed to delete save: %w", delErr)
		}
	}

	s.eng.Replace(models.NewGameState(s.eng.cat, s.clk.Now()))
	s.unsaved = 0
	s.eng.publish(events.EventGameReset, nil)
	s.eng.notify("Game reset. Back to the pond!", events.EmphasisHigh)
	s.log.Info("game reset")
	s.publish()
	return delErr
}

// Close saves the game and closes the saver if it holds resources.
func (s *Session) Close() error {
	err := s.Save()
	if c, ok := s.saver.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Snapshot builds a fresh snapshot on the session goroutine.
func (s *Session) Snapshot() Snapshot {
	snap := s.eng.Snapshot()
	snap.SessionID = s.id
	return snap
}

// DrainNotifications returns queued floating-text messages.
func (s *Session) DrainNotifications() []events.Notification {
	return s.eng.bus.Drain()
}

// Published returns the snapshot taken at the end of the last tick. It is safe
// to call from any goroutine.
func (s *Session) Published() *Snapshot {
	return s.published.Load()
}

func (s *Session) publish() {
	snap := s.Snapshot()
	s.published.Store(&snap)
}
