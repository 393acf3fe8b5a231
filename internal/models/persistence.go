package models

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/bufo-clicker/internal/catalog"
)

var (
	ErrNoSave      = errors.New("no saved game")
	ErrCorruptSave = errors.New("corrupt saved game")
)

// PartialLoadError lists the fields that could not be decoded and were
// replaced by defaults. The returned state is still usable.
type PartialLoadError struct {
	Fields []string
}

func (e *PartialLoadError) Error() string {
	return "save partially recovered, defaulted: " + strings.Join(e.Fields, ", ")
}

const legacyTimeLayout = "2006-01-02 15:04:05"

type buildingRecord struct {
	Name  string `yaml:"name,omitempty"`
	Owned int    `yaml:"owned"`
}

type upgradeRecord struct {
	Name      string `yaml:"name,omitempty"`
	Purchased bool   `yaml:"purchased"`
}

type achievementRecord struct {
	Name   string `yaml:"name,omitempty"`
	Earned bool   `yaml:"earned"`
}

type statsRecord struct {
	Clicks             int     `yaml:"clicks"`
	PlayTime           float64 `yaml:"play_time"`
	BuildingsPurchased int     `yaml:"buildings_purchased"`
	UpgradesPurchased  int     `yaml:"upgrades_purchased"`
	GoldenBufosClicked int     `yaml:"golden_bufos_clicked"`
	GameStarted        string  `yaml:"game_started"`
}

// saveFile is the persisted record. Arrays are matched positionally against
// the current catalog; names are written for readability only.
type saveFile struct {
	Bufos        float64             `yaml:"bufos"`
	TotalEarned  float64             `yaml:"total_bufos_earned"`
	ClickPower   float64             `yaml:"click_power"`
	Theme        string              `yaml:"current_theme"`
	Buildings    []buildingRecord    `yaml:"buildings"`
	Upgrades     []upgradeRecord     `yaml:"upgrades"`
	Achievements []achievementRecord `yaml:"achievements"`
	Stats        statsRecord         `yaml:"stats"`
}

// Encode serializes the persistent part of the state. Boosts and the golden
// bufo are transient and not saved.
func Encode(s *GameState, cat *catalog.Catalog) ([]byte, error) {
	f := saveFile{
		Bufos:        s.Bufos,
		TotalEarned:  s.TotalEarned,
		ClickPower:   s.ClickPower,
		Theme:        s.Theme,
		Buildings:    make([]buildingRecord, len(s.Owned)),
		Upgrades:     make([]upgradeRecord, len(s.Purchased)),
		Achievements: make([]achievementRecord, len(s.Earned)),
		Stats: statsRecord{
			Clicks:             s.Stats.Clicks,
			PlayTime:           s.Stats.PlaySeconds,
			BuildingsPurchased: s.Stats.BuildingsPurchased,
			UpgradesPurchased:  s.Stats.UpgradesPurchased,
			GoldenBufosClicked: s.Stats.GoldenCaught,
			GameStarted:        s.Stats.SessionStart.Format(time.RFC3339Nano),
		},
	}
	for i, n := range s.Owned {
		f.Buildings[i].Owned = n
		if i < len(cat.Buildings) {
			f.Buildings[i].Name = cat.Buildings[i].Name
		}
	}
	for i, p := range s.Purchased {
		f.Upgrades[i].Purchased = p
		if i < len(cat.Upgrades) {
			f.Upgrades[i].Name = cat.Upgrades[i].Name
		}
	}
	for i, e := range s.Earned {
		f.Achievements[i].Earned = e
		if i < len(cat.Achievements) {
			f.Achievements[i].Name = cat.Achievements[i].Name
		}
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	return data, nil
}

// Decode rebuilds a game from saved bytes, merging by position into a fresh
// state for the current catalog. Unreadable fields fall back to defaults and
// are reported through a *PartialLoadError alongside the usable state.
// Callers must recompute the production rate before using the state.
func Decode(data []byte, cat *catalog.Catalog, now time.Time) (*GameState, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoSave
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not a mapping", ErrCorruptSave)
	}

	st := NewGameState(cat, now)
	d := &fieldDecoder{}

	var f float64
	if d.get(doc, "bufos", &f) && d.nonNegative("bufos", f) {
		st.Bufos = f
	}
	if d.get(doc, "total_bufos_earned", &f) && d.nonNegative("total_bufos_earned", f) {
		st.TotalEarned = f
	}
	if d.get(doc, "click_power", &f) && d.nonNegative("click_power", f) {
		st.ClickPower = f
	}
	var theme string
	if d.get(doc, "current_theme", &theme) {
		if _, ok := cat.Theme(theme); ok {
			st.Theme = theme
		} else {
			d.fail("current_theme")
		}
	}
	if st.TotalEarned < st.Bufos {
		st.TotalEarned = st.Bufos
	}

	for i, n := range d.list(doc, "buildings", len(st.Owned)) {
		var rec buildingRecord
		key := fmt.Sprintf("buildings[%d]", i)
		if d.decode(key, &n, &rec) {
			if rec.Owned < 0 {
				d.fail(key)
				continue
			}
			st.Owned[i] = rec.Owned
		}
	}
	for i, n := range d.list(doc, "upgrades", len(st.Purchased)) {
		var rec upgradeRecord
		if d.decode(fmt.Sprintf("upgrades[%d]", i), &n, &rec) {
			st.Purchased[i] = rec.Purchased
		}
	}
	for i, n := range d.list(doc, "achievements", len(st.Earned)) {
		var rec achievementRecord
		if d.decode(fmt.Sprintf("achievements[%d]", i), &n, &rec) {
			st.Earned[i] = rec.Earned
		}
	}

	var stats map[string]yaml.Node
	if d.get(doc, "stats", &stats) {
		decodeStats(d, stats, &st.Stats)
	}

	if len(d.bad) > 0 {
		return st, &PartialLoadError{Fields: d.bad}
	}
	return st, nil
}

func decodeStats(d *fieldDecoder, m map[string]yaml.Node, s *Stats) {
	count := func(key string, out *int) {
		var n int
		if d.get(m, key, &n) {
			if n < 0 {
				d.fail("stats." + key)
				return
			}
			*out = n
		}
	}
	count("clicks", &s.Clicks)
	count("buildings_purchased", &s.BuildingsPurchased)
	count("upgrades_purchased", &s.UpgradesPurchased)
	count("golden_bufos_clicked", &s.GoldenCaught)

	var secs float64
	if d.get(m, "play_time", &secs) && d.nonNegative("stats.play_time", secs) {
		s.PlaySeconds = secs
	}

	var started string
	if d.get(m, "game_started", &started) {
		t, err := time.Parse(time.RFC3339Nano, started)
		if err != nil {
			t, err = time.ParseInLocation(legacyTimeLayout, started, time.Local)
		}
		if err != nil {
			d.fail("stats.game_started")
			return
		}
		s.SessionStart = t
	}
}

type fieldDecoder struct {
	bad []string
}

func (d *fieldDecoder) fail(field string) {
	d.bad = append(d.bad, field)
}

// get decodes m[key] into out. Missing and null keys are left at their
// defaults without complaint.
func (d *fieldDecoder) get(m map[string]yaml.Node, key string, out any) bool {
	n, ok := m[key]
	if !ok {
		return false
	}
	return d.decode(key, &n, out)
}

func (d *fieldDecoder) decode(field string, n *yaml.Node, out any) bool {
	if n.ShortTag() == "!!null" {
		return false
	}
	if err := n.Decode(out); err != nil {
		d.fail(field)
		return false
	}
	return true
}

func (d *fieldDecoder) nonNegative(field string, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		d.fail(field)
		return false
	}
	return true
}

// list returns at most limit entries of a sequence field. Entries beyond the
// current catalog are ignored.
func (d *fieldDecoder) list(m map[string]yaml.Node, key string, limit int) []yaml.Node {
	var seq []yaml.Node
	if !d.get(m, key, &seq) {
		return nil
	}
	if len(seq) > limit {
		seq = seq[:limit]
	}
	return seq
}
