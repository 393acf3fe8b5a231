// Package audio synthesizes the short sound cues played for game events. No
// sample files are shipped; every cue is generated on the fly.
package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/events"
)

const sampleRate = beep.SampleRate(44100)

// CuePlayer turns game events into sounds. Until Initialize succeeds every
// method is a silent no-op, so the game runs fine without an audio device.
type CuePlayer struct {
	mu          sync.Mutex
	cat         *catalog.Catalog
	mixer       *beep.Mixer
	volume      float64
	pitch       float64
	initialized bool
	log         *slog.Logger
}

func NewCuePlayer(cat *catalog.Catalog, volume float64, logger *slog.Logger) *CuePlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CuePlayer{
		cat:    cat,
		mixer:  &beep.Mixer{},
		volume: volume,
		pitch:  cat.DefaultTheme().ClickPitch,
		log:    logger.With("component", "audio"),
	}
}

// Initialize opens the speaker.
func (p *CuePlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		p.log.Warn("audio unavailable", "error", err)
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Debug("speaker initialized", "sample_rate", int(sampleRate))
	return nil
}

// Handle is an events.Handler.
func (p *CuePlayer) Handle(ev events.Event) {
	if d, ok := ev.Data.(events.ThemeData); ok {
		p.SetTheme(d.ID)
	}
	p.Play(ev.Type.Cue())
}

// SetTheme changes the click pitch to the theme's.
func (p *CuePlayer) SetTheme(id string) {
	th, ok := p.cat.Theme(id)
	if !ok {
		return
	}
	p.mu.Lock()
	p.pitch = th.ClickPitch
	p.mu.Unlock()
}

// Pitch returns the current click frequency in Hz.
func (p *CuePlayer) Pitch() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pitch
}

// Play mixes in the sound for a cue.
func (p *CuePlayer) Play(cue events.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || cue == events.CueNone || p.volume <= 0 {
		return
	}
	s := cueStreamer(cue, p.pitch, p.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Cleanup silences everything still playing.
func (p *CuePlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// cueStreamer builds a finite streamer for a cue.
func cueStreamer(cue events.Cue, pitch, volume float64) beep.Streamer {
	switch cue {
	case events.CueClick:
		return NewToneGenerator(sampleRate, 0.3*volume, 60*time.Millisecond, pitch)
	case events.CuePurchase:
		return NewToneGenerator(sampleRate, 0.25*volume, 70*time.Millisecond, 440, 660)
	case events.CueAchievement:
		return NewToneGenerator(sampleRate, 0.25*volume, 90*time.Millisecond, 523.25, 659.25, 783.99, 1046.5)
	case events.CueBoost:
		return NewSweepGenerator(sampleRate, 0.2*volume, 300*time.Millisecond, 220, 880)
	}
	return nil
}
