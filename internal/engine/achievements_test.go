package engine

import (
	"reflect"
	"testing"

	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/models"
)

func TestEvaluateAchievements(t *testing.T) {
	tests := []struct {
		name  string
		setup func(st *models.GameState)
		want  []int
	}{
		{"nothing yet", func(st *models.GameState) {}, nil},
		{"first bufo", func(st *models.GameState) { st.TotalEarned = 1 }, []int{0}},
		{"lifetime ladder", func(st *models.GameState) { st.TotalEarned = 10000 }, []int{0, 1, 2, 3}},
		{"spent bufos still count", func(st *models.GameState) { st.TotalEarned = 150; st.Bufos = 0 }, []int{0, 1}},
		{"clicks", func(st *models.GameState) { st.Stats.Clicks = 100 }, []int{5}},
		{"playtime just short", func(st *models.GameState) { st.Stats.PlaySeconds = 3599 }, nil},
		{"playtime hour", func(st *models.GameState) { st.Stats.PlaySeconds = 3600 }, []int{8}},
		{"one building short", func(st *models.GameState) {
			for i := range st.Owned {
				st.Owned[i] = 1
			}
			st.Owned[7] = 0
		}, nil},
		{"all buildings", func(st *models.GameState) {
			for i := range st.Owned {
				st.Owned[i] = 1
			}
		}, []int{7}},
		{"golden catches", func(st *models.GameState) { st.Stats.GoldenCaught = 5 }, []int{9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine(t, quiet)
			tt.setup(e.State())

			got := e.EvaluateAchievements()
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("EvaluateAchievements() = %v, want %v", got, tt.want)
			}
			if n := rec.count(events.EventAchievementUnlocked); n != len(tt.want) {
				t.Errorf("AchievementUnlocked events = %d, want %d", n, len(tt.want))
			}
			for _, i := range tt.want {
				if !e.State().Earned[i] {
					t.Errorf("Earned[%d] = false", i)
				}
			}
		})
	}
}

func TestAchievementsUnlockOnce(t *testing.T) {
	e, rec := newTestEngine(t, quiet)
	e.State().TotalEarned = 1

	e.EvaluateAchievements()
	if got := e.EvaluateAchievements(); got != nil {
		t.Errorf("second evaluation = %v, want nil", got)
	}
	if n := rec.count(events.EventAchievementUnlocked); n != 1 {
		t.Errorf("AchievementUnlocked events = %d, want 1", n)
	}

	notes := e.Bus().Drain()
	want := "Achievement Unlocked: Bufo Beginner's Luck"
	if len(notes) != 1 || notes[0].Text != want {
		t.Errorf("notifications = %+v, want %q", notes, want)
	}
}

func TestEarnedSurvivesFallingBelowThreshold(t *testing.T) {
	e, _ := newTestEngine(t, quiet)
	e.State().Stats.Clicks = 100
	e.EvaluateAchievements()

	e.State().Stats.Clicks = 0
	e.EvaluateAchievements()
	if !e.State().Earned[5] {
		t.Error("achievement was revoked")
	}
}
