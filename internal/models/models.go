package models

import (
	"time"

	"github.com/tatianab/bufo-clicker/internal/catalog"
)

// Stats holds the lifetime counters shown on the stats panel.
type Stats struct {
	Clicks             int       `json:"clicks"`
	PlaySeconds        float64   `json:"play_seconds"`
	BuildingsPurchased int       `json:"buildings_purchased"`
	UpgradesPurchased  int       `json:"upgrades_purchased"`
	GoldenCaught       int       `json:"golden_caught"`
	SessionStart       time.Time `json:"session_start"`
}

// PlayMinutes converts cumulative play time to minutes.
func (s Stats) PlayMinutes() float64 {
	return s.PlaySeconds / 60
}

// BoostState is the runtime state of one timed multiplier.
type BoostState struct {
	ID          string
	Multiplier  float64
	Duration    time.Duration
	ClickOnly   bool
	Description string

	Active  bool
	EndTime time.Time // zero unless Active
	AdHoc   bool      // injected at runtime rather than defined in the catalog
}

// Remaining returns how long the boost stays active after now.
func (b *BoostState) Remaining(now time.Time) time.Duration {
	if !b.Active || !now.Before(b.EndTime) {
		return 0
	}
	return b.EndTime.Sub(now)
}

// BonusObject is a golden bufo waiting to be clicked.
type BonusObject struct {
	X, Y    int
	Size    int
	BoostID string
	Spawned time.Time
	Expiry  time.Time
}

// Contains reports whether the point lies inside the object's square.
func (b *BonusObject) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Size && y >= b.Y && y < b.Y+b.Size
}

// Remaining returns the time left before the object disappears.
func (b *BonusObject) Remaining(now time.Time) time.Duration {
	if !now.Before(b.Expiry) {
		return 0
	}
	return b.Expiry.Sub(now)
}

// GameState is the mutable projection of one game session. Static definitions
// live in the catalog; slices here are indexed by catalog position.
type GameState struct {
	Bufos       float64
	TotalEarned float64
	ClickPower  float64
	Theme       string

	Owned     []int
	Purchased []bool
	Earned    []bool

	Stats  Stats
	Boosts []BoostState
	Bonus  *BonusObject

	// ProductionRate caches bufos per second; it is recomputed whenever
	// ownership, purchases or active boosts change.
	ProductionRate float64
}

// NewGameState returns a fresh game for the given catalog.
func NewGameState(cat *catalog.Catalog, now time.Time) *GameState {
	st := &GameState{
		ClickPower: 1,
		Theme:      cat.DefaultTheme().ID,
		Owned:      make([]int, len(cat.Buildings)),
		Purchased:  make([]bool, len(cat.Upgrades)),
		Earned:     make([]bool, len(cat.Achievements)),
		Stats:      Stats{SessionStart: now},
		Boosts:     make([]BoostState, 0, len(cat.Boosts)+1),
	}
	for _, b := range cat.Boosts {
		st.Boosts = append(st.Boosts, BoostState{
			ID:          b.ID,
			Multiplier:  b.Multiplier,
			Duration:    b.Length(),
			ClickOnly:   b.ClickOnly,
			Description: b.Description,
		})
	}
	return st
}

// Boost returns the runtime boost with the given id.
func (s *GameState) Boost(id string) *BoostState {
	for i := range s.Boosts {
		if s.Boosts[i].ID == id {
			return &s.Boosts[i]
		}
	}
	return nil
}

// ActiveBoosts returns pointers to every active boost in stable order.
func (s *GameState) ActiveBoosts() []*BoostState {
	var out []*BoostState
	for i := range s.Boosts {
		if s.Boosts[i].Active {
			out = append(out, &s.Boosts[i])
		}
	}
	return out
}

// Earn credits bufos to both the balance and the lifetime total.
func (s *GameState) Earn(amount float64) {
	s.Bufos += amount
	s.TotalEarned += amount
}

// Clone deep-copies the state so it can be read without sharing memory with
// the simulation.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Owned = append([]int(nil), s.Owned...)
	c.Purchased = append([]bool(nil), s.Purchased...)
	c.Earned = append([]bool(nil), s.Earned...)
	c.Boosts = append([]BoostState(nil), s.Boosts...)
	if s.Bonus != nil {
		b := *s.Bonus
		c.Bonus = &b
	}
	return &c
}
