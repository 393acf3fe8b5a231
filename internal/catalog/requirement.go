package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RequirementKind enumerates the unlock conditions an achievement can carry.
type RequirementKind int

const (
	KindLifetimeEarned RequirementKind = iota
	KindClickCount
	KindPlaytimeMinutes
	KindAllBuildingsOwned
	KindGoldenCatches
)

func (k RequirementKind) String() string {
	switch k {
	case KindLifetimeEarned:
		return "lifetime_earned"
	case KindClickCount:
		return "clicks"
	case KindPlaytimeMinutes:
		return "time"
	case KindAllBuildingsOwned:
		return "buildings"
	case KindGoldenCatches:
		return "golden_bufos"
	}
	return fmt.Sprintf("RequirementKind(%d)", int(k))
}

// Requirement is the closed set of achievement unlock conditions.
// Only the types in this file implement it.
type Requirement interface {
	Kind() RequirementKind
	requirement()
}

// LifetimeEarned is satisfied once total bufos earned reaches Bufos.
type LifetimeEarned struct{ Bufos float64 }

// ClickCount is satisfied once the player has clicked Clicks times.
type ClickCount struct{ Clicks int }

// PlaytimeMinutes is satisfied after Minutes of cumulative play.
type PlaytimeMinutes struct{ Minutes float64 }

// AllBuildingsOwned is satisfied when every building is owned at least once.
type AllBuildingsOwned struct{}

// GoldenCatches is satisfied once Catches golden bufos have been claimed.
type GoldenCatches struct{ Catches int }

func (LifetimeEarned) Kind() RequirementKind    { return KindLifetimeEarned }
func (ClickCount) Kind() RequirementKind        { return KindClickCount }
func (PlaytimeMinutes) Kind() RequirementKind   { return KindPlaytimeMinutes }
func (AllBuildingsOwned) Kind() RequirementKind { return KindAllBuildingsOwned }
func (GoldenCatches) Kind() RequirementKind     { return KindGoldenCatches }

func (LifetimeEarned) requirement()    {}
func (ClickCount) requirement()        {}
func (PlaytimeMinutes) requirement()   {}
func (AllBuildingsOwned) requirement() {}
func (GoldenCatches) requirement()     {}

// achievementYAML is the authored shape: an optional "type" discriminator and
// a numeric "requirement" threshold.
type achievementYAML struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type,omitempty"`
	Threshold   *float64 `yaml:"requirement,omitempty"`
}

// UnmarshalYAML resolves the authored discriminator into a typed Requirement.
func (a *Achievement) UnmarshalYAML(value *yaml.Node) error {
	var raw achievementYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	req, err := parseRequirement(raw.Type, raw.Threshold)
	if err != nil {
		return fmt.Errorf("achievement %q: %w", raw.Name, err)
	}

	a.Name = raw.Name
	a.Description = raw.Description
	a.Requirement = req
	return nil
}

// MarshalYAML writes the requirement back in its authored shape.
func (a Achievement) MarshalYAML() (any, error) {
	raw := achievementYAML{Name: a.Name, Description: a.Description}
	threshold := func(v float64) *float64 { return &v }

	switch r := a.Requirement.(type) {
	case LifetimeEarned:
		raw.Threshold = threshold(r.Bufos)
	case ClickCount:
		raw.Type = KindClickCount.String()
		raw.Threshold = threshold(float64(r.Clicks))
	case PlaytimeMinutes:
		raw.Type = KindPlaytimeMinutes.String()
		raw.Threshold = threshold(r.Minutes)
	case AllBuildingsOwned:
		raw.Type = KindAllBuildingsOwned.String()
	case GoldenCatches:
		raw.Type = KindGoldenCatches.String()
		raw.Threshold = threshold(float64(r.Catches))
	default:
		return nil, fmt.Errorf("achievement %q: unsupported requirement %T", a.Name, a.Requirement)
	}
	return raw, nil
}

func parseRequirement(kind string, threshold *float64) (Requirement, error) {
	need := func() (float64, error) {
		if threshold == nil {
			return 0, fmt.Errorf("requirement type %q needs a threshold", kind)
		}
		if *threshold < 0 {
			return 0, fmt.Errorf("negative threshold %v", *threshold)
		}
		return *threshold, nil
	}

	switch kind {
	case "", "bufos", KindLifetimeEarned.String():
		v, err := need()
		if err != nil {
			return nil, err
		}
		return LifetimeEarned{Bufos: v}, nil
	case KindClickCount.String():
		v, err := need()
		if err != nil {
			return nil, err
		}
		return ClickCount{Clicks: int(v)}, nil
	case KindPlaytimeMinutes.String():
		v, err := need()
		if err != nil {
			return nil, err
		}
		return PlaytimeMinutes{Minutes: v}, nil
	case KindAllBuildingsOwned.String():
		return AllBuildingsOwned{}, nil
	case KindGoldenCatches.String():
		v, err := need()
		if err != nil {
			return nil, err
		}
		return GoldenCatches{Catches: int(v)}, nil
	}
	return nil, fmt.Errorf("unknown requirement type %q", kind)
}
