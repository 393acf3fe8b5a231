package engine

import (
	"time"

	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/models"
)

// Bounds is the play area a golden bufo may appear in, in presentation units
// (pixels, terminal cells). The object is a Size×Size square kept Margin away
// from every edge.
type Bounds struct {
	Width, Height int
	Margin        int
	Size          int
}

// DefaultBounds matches an 800×600 window with a 100px bufo.
func DefaultBounds() Bounds {
	return Bounds{Width: 800, Height: 600, Margin: 100, Size: 100}
}

// SetBounds changes where future golden bufos spawn. A live one stays put.
func (e *Engine) SetBounds(b Bounds) {
	if b.Size <= 0 {
		b.Size = 1
	}
	if b.Margin < 0 {
		b.Margin = 0
	}
	e.bounds = b
}

func (e *Engine) Bounds() Bounds { return e.bounds }

// place picks a coordinate in [margin, extent-margin-size], collapsing to the
// margin when the area is too small.
func (e *Engine) place(extent int) int {
	lo := e.bounds.Margin
	hi := extent - e.bounds.Margin - e.bounds.Size
	if hi <= lo {
		return lo
	}
	return lo + e.rng.IntN(hi-lo+1)
}

// SpawnBonus puts a golden bufo on screen bound to a random catalog boost.
func (e *Engine) SpawnBonus(now time.Time) error {
	if e.st.Bonus != nil {
		return ErrBonusAlive
	}
	if len(e.cat.Boosts) == 0 {
		return ErrUnknownBoost
	}

	b := &models.BonusObject{
		X:       e.place(e.bounds.Width),
		Y:       e.place(e.bounds.Height),
		Size:    e.bounds.Size,
		BoostID: e.randomBoostID(),
		Spawned: now,
		Expiry:  now.Add(e.tuning.GoldenLifetime),
	}
	e.st.Bonus = b

	e.publish(events.EventBonusSpawned, events.BonusData{BoostID: b.BoostID, X: b.X, Y: b.Y})
	e.notify("Golden Bufo appeared!", events.EmphasisHigh)
	e.log.Debug("golden bufo spawned", "boost", b.BoostID, "x", b.X, "y", b.Y)
	return nil
}

// ClaimBonus catches the golden bufo and activates its boost.
func (e *Engine) ClaimBonus(now time.Time) error {
	b := e.st.Bonus
	if b == nil || !now.Before(b.Expiry) {
		return ErrNoBonus
	}

	e.st.Bonus = nil
	e.st.Stats.GoldenCaught++
	e.publish(events.EventBonusClaimed, events.BonusData{BoostID: b.BoostID, X: b.X, Y: b.Y})
	return e.TriggerBoost(b.BoostID, now)
}

// ExpireBonus removes an unclaimed golden bufo once its lifetime is over.
func (e *Engine) ExpireBonus(now time.Time) {
	b := e.st.Bonus
	if b == nil || now.Before(b.Expiry) {
		return
	}

	e.st.Bonus = nil
	e.publish(events.EventBonusExpired, events.BonusData{BoostID: b.BoostID, X: b.X, Y: b.Y})
	e.notify("Golden Bufo disappeared!", events.EmphasisMuted)
}

func (e *Engine) rollGoldenSpawn(elapsed time.Duration) {
	if e.st.Bonus != nil {
		return
	}
	if e.roll(e.tuning.GoldenSpawnRate, elapsed) {
		_ = e.SpawnBonus(e.now)
	}
}
