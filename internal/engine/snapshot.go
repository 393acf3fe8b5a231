package engine

import (
	"time"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/models"
)

type BuildingView struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Owned       int     `json:"owned"`
	Cost        float64 `json:"cost"`
	Rate        float64 `json:"rate"`
	Affordable  bool    `json:"affordable"`
}

type UpgradeView struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Purchased   bool    `json:"purchased"`
	Affordable  bool    `json:"affordable"`
}

type AchievementView struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

type BoostView struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Multiplier  float64       `json:"multiplier"`
	ClickOnly   bool          `json:"click_only"`
	Remaining   time.Duration `json:"remaining_ns"`
}

type BonusView struct {
	X         int           `json:"x"`
	Y         int           `json:"y"`
	Size      int           `json:"size"`
	BoostID   string        `json:"boost_id"`
	Remaining time.Duration `json:"remaining_ns"`
}

// Snapshot is a read-only copy of everything a presentation draws. It shares
// no memory with the live state.
type Snapshot struct {
	SessionID    string            `json:"session_id"`
	At           time.Time         `json:"at"`
	Bufos        float64           `json:"bufos"`
	TotalEarned  float64           `json:"total_earned"`
	Rate         float64           `json:"rate"`
	ClickValue   float64           `json:"click_value"`
	Theme        catalog.Theme     `json:"theme"`
	Buildings    []BuildingView    `json:"buildings"`
	Upgrades     []UpgradeView     `json:"upgrades"`
	Achievements []AchievementView `json:"achievements"`
	Boosts       []BoostView       `json:"boosts"`
	Bonus        *BonusView        `json:"bonus,omitempty"`
	Stats        models.Stats      `json:"stats"`
}

// EarnedCount returns how many achievements are unlocked.
func (s *Snapshot) EarnedCount() int {
	n := 0
	for _, a := range s.Achievements {
		if a.Earned {
			n++
		}
	}
	return n
}

// Snapshot captures the current state at game time.
func (e *Engine) Snapshot() Snapshot {
	st := e.st
	theme, ok := e.cat.Theme(st.Theme)
	if !ok {
		theme = e.cat.DefaultTheme()
	}

	snap := Snapshot{
		At:           e.now,
		Bufos:        st.Bufos,
		TotalEarned:  st.TotalEarned,
		Rate:         st.ProductionRate,
		ClickValue:   e.ClickValue(),
		Theme:        theme,
		Buildings:    make([]BuildingView, len(e.cat.Buildings)),
		Upgrades:     make([]UpgradeView, len(e.cat.Upgrades)),
		Achievements: make([]AchievementView, len(e.cat.Achievements)),
		Stats:        st.Stats,
	}

	for i, b := range e.cat.Buildings {
		cost := CostOf(b.BaseCost, st.Owned[i])
		snap.Buildings[i] = BuildingView{
			Index:       i,
			Name:        b.Name,
			Description: b.Description,
			Owned:       st.Owned[i],
			Cost:        cost,
			Rate:        e.BuildingRate(i),
			Affordable:  st.Bufos >= cost,
		}
	}
	for i, u := range e.cat.Upgrades {
		snap.Upgrades[i] = UpgradeView{
			Index:       i,
			Name:        u.Name,
			Description: u.Description,
			Cost:        u.Cost,
			Purchased:   st.Purchased[i],
			Affordable:  !st.Purchased[i] && st.Bufos >= u.Cost,
		}
	}
	for i, a := range e.cat.Achievements {
		snap.Achievements[i] = AchievementView{Index: i, Name: a.Name, Description: a.Description, Earned: st.Earned[i]}
	}
	for _, b := range st.ActiveBoosts() {
		snap.Boosts = append(snap.Boosts, BoostView{
			ID:          b.ID,
			Description: b.Description,
			Multiplier:  b.Multiplier,
			ClickOnly:   b.ClickOnly,
			Remaining:   b.Remaining(e.now),
		})
	}
	if b := st.Bonus; b != nil {
		snap.Bonus = &BonusView{X: b.X, Y: b.Y, Size: b.Size, BoostID: b.BoostID, Remaining: b.Remaining(e.now)}
	}
	return snap
}
