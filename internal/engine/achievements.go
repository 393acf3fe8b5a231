package engine

import (
	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/events"
)

// EvaluateAchievements unlocks every achievement whose requirement is now met
// and returns their indices. Earned achievements are never checked again, so
// this is cheap enough to run every tick.
func (e *Engine) EvaluateAchievements() []int {
	var unlocked []int
	for i, a := range e.cat.Achievements {
		if e.st.Earned[i] || !e.satisfied(a.Requirement) {
			continue
		}
		e.st.Earned[i] = true
		unlocked = append(unlocked, i)

		e.publish(events.EventAchievementUnlocked, events.AchievementData{Index: i, Name: a.Name, Description: a.Description})
		e.notify("Achievement Unlocked: "+a.Name, events.EmphasisHigh)
		e.log.Info("achievement unlocked", "achievement", a.Name)
	}
	return unlocked
}

func (e *Engine) satisfied(r catalog.Requirement) bool {
	st := e.st
	switch r := r.(type) {
	case catalog.LifetimeEarned:
		return st.TotalEarned >= r.Bufos
	case catalog.ClickCount:
		return st.Stats.Clicks >= r.Clicks
	case catalog.PlaytimeMinutes:
		return st.Stats.PlayMinutes() >= r.Minutes
	case catalog.AllBuildingsOwned:
		for _, n := range st.Owned {
			if n == 0 {
				return false
			}
		}
		return len(st.Owned) > 0
	case catalog.GoldenCatches:
		return st.Stats.GoldenCaught >= r.Catches
	}
	return false
}
