package engine

import (
	"fmt"
	"time"

	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/models"
)

// Scope selects which boosts a multiplier covers.
type Scope int

const (
	ScopeProduction Scope = iota // boosts that are not click-only
	ScopeClick                   // click-only boosts
)

// EffectiveMultiplier is the product of active boosts in scope, or 1.
func (e *Engine) EffectiveMultiplier(scope Scope) float64 {
	m := 1.0
	for _, b := range e.st.ActiveBoosts() {
		if b.ClickOnly == (scope == ScopeClick) {
			m *= b.Multiplier
		}
	}
	return m
}

// TriggerBoost activates boost id until now plus its duration. Triggering an
// active boost restarts its timer; multipliers never stack with themselves.
func (e *Engine) TriggerBoost(id string, now time.Time) error {
	b := e.st.Boost(id)
	if b == nil {
		return fmt.Errorf("%q: %w", id, ErrUnknownBoost)
	}
	e.activate(b, now)
	return nil
}

// TriggerAdHoc activates a boost that is not in the catalog, creating it on
// first use. Cheats use this with catalog.CheatBoostID.
func (e *Engine) TriggerAdHoc(id string, multiplier float64, duration time.Duration, description string, now time.Time) {
	b := e.st.Boost(id)
	if b == nil {
		e.st.Boosts = append(e.st.Boosts, models.BoostState{ID: id, AdHoc: true})
		b = &e.st.Boosts[len(e.st.Boosts)-1]
	}
	b.Multiplier = multiplier
	b.Duration = duration
	b.Description = description
	e.activate(b, now)
}

func (e *Engine) activate(b *models.BoostState, now time.Time) {
	b.Active = true
	b.EndTime = now.Add(b.Duration)
	e.Recompute()

	e.publish(events.EventBoostActivated, boostData(b))
	e.notify("Boost activated: "+b.Description, events.EmphasisHigh)
	e.log.Debug("boost activated", "boost", b.ID, "until", b.EndTime)
}

// ExpireBoosts deactivates every boost whose end time has passed. Calling it
// again with the same time does nothing.
func (e *Engine) ExpireBoosts(now time.Time) {
	expired := false
	for i := range e.st.Boosts {
		b := &e.st.Boosts[i]
		if !b.Active || now.Before(b.EndTime) {
			continue
		}
		data := boostData(b)
		b.Active = false
		b.EndTime = time.Time{}
		expired = true
		e.publish(events.EventBoostExpired, data)
	}
	if expired {
		e.Recompute()
	}
}

// rollRandomBoost occasionally fires a catalog boost on its own. It stays
// quiet while a golden bufo is out.
func (e *Engine) rollRandomBoost(elapsed time.Duration) {
	if e.st.Bonus != nil || len(e.cat.Boosts) == 0 {
		return
	}
	if !e.roll(e.tuning.RandomBoostRate, elapsed) {
		return
	}
	id := e.randomBoostID()
	e.log.Info("random boost", "boost", id)
	_ = e.TriggerBoost(id, e.now)
}

func (e *Engine) randomBoostID() string {
	return e.cat.Boosts[e.rng.IntN(len(e.cat.Boosts))].ID
}

func boostData(b *models.BoostState) events.BoostData {
	return events.BoostData{
		ID:          b.ID,
		Description: b.Description,
		Multiplier:  b.Multiplier,
		ClickOnly:   b.ClickOnly,
		Until:       b.EndTime,
	}
}
