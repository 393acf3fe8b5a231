// Package catalog holds the immutable game content: buildings, upgrades,
// achievements, boosts, cheat codes and themes. A Catalog is loaded once at
// process start and shared by reference between sessions; nothing in it is
// mutated after Parse returns.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CheatBoostID is the reserved boost key used by the production cheat.
const CheatBoostID = "cheat_boost"

// ErrInvalidCatalog marks content bugs detected at load time.
var ErrInvalidCatalog = errors.New("invalid catalog")

// EffectKind names what a purchased upgrade modifies.
type EffectKind string

const (
	EffectClickPower    EffectKind = "click_power"
	EffectBuildingMulti EffectKind = "building_multi"
	EffectGlobalMulti   EffectKind = "global_multi"
)

// AffectsProduction reports whether buying an upgrade of this kind requires the
// production rate to be recomputed.
func (k EffectKind) AffectsProduction() bool {
	switch k {
	case EffectClickPower, EffectBuildingMulti, EffectGlobalMulti:
		return true
	}
	return false
}

// CheatEffect names what a cheat code does.
type CheatEffect string

const (
	CheatBufos      CheatEffect = "bufos"
	CheatMultiplier CheatEffect = "multiplier"
	CheatUnlockAll  CheatEffect = "unlock_all"
)

type Building struct {
	Name           string  `yaml:"name"`
	BaseCost       float64 `yaml:"base_cost"`
	BaseProduction float64 `yaml:"base_production"`
	Description    string  `yaml:"description"`
}

type Upgrade struct {
	Name        string     `yaml:"name"`
	Cost        float64    `yaml:"cost"`
	Effect      EffectKind `yaml:"effect"`
	Value       float64    `yaml:"value"`
	Building    *int       `yaml:"building,omitempty"`
	Description string     `yaml:"description"`
}

// Target returns the building index a building_multi upgrade applies to.
func (u Upgrade) Target() (int, bool) {
	if u.Effect != EffectBuildingMulti || u.Building == nil {
		return 0, false
	}
	return *u.Building, true
}

// Achievement is decoded through UnmarshalYAML; see requirement.go.
type Achievement struct {
	Name        string
	Description string
	Requirement Requirement
}

type Boost struct {
	ID          string  `yaml:"id"`
	Multiplier  float64 `yaml:"multiplier"`
	Duration    float64 `yaml:"duration"` // seconds
	ClickOnly   bool    `yaml:"click_only,omitempty"`
	Description string  `yaml:"description"`
}

// Length converts the authored duration in seconds to a time.Duration.
func (b Boost) Length() time.Duration {
	return time.Duration(b.Duration * float64(time.Second))
}

type Cheat struct {
	Code        string      `yaml:"code"`
	Effect      CheatEffect `yaml:"effect"`
	Value       float64     `yaml:"value,omitempty"`
	Duration    float64     `yaml:"duration,omitempty"`
	Description string      `yaml:"description"`
}

type Theme struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	Color      string  `yaml:"color" json:"color"`
	ClickPitch float64 `yaml:"click_pitch" json:"click_pitch"`
}

// Catalog is the full set of static definitions.
type Catalog struct {
	Buildings    []Building    `yaml:"buildings"`
	Upgrades     []Upgrade     `yaml:"upgrades"`
	Achievements []Achievement `yaml:"achievements"`
	Boosts       []Boost       `yaml:"boosts"`
	Cheats       []Cheat       `yaml:"cheats"`
	Themes       []Theme       `yaml:"themes"`

	boostIdx map[string]int
	cheatIdx map[string]int
	themeIdx map[string]int
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog. It panics if the embedded content is
// invalid, since that can only be a content bug shipped with the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load reads and validates a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.index()
	return &c, nil
}

// Validate checks cross references and value ranges.
func (c *Catalog) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
	}

	if len(c.Buildings) == 0 {
		return bad("no buildings defined")
	}
	for i, b := range c.Buildings {
		if b.Name == "" {
			return bad("building %d has no name", i)
		}
		if b.BaseCost <= 0 {
			return bad("building %q: base_cost must be positive, got %v", b.Name, b.BaseCost)
		}
		if b.BaseProduction < 0 {
			return bad("building %q: negative base_production %v", b.Name, b.BaseProduction)
		}
	}

	for i, u := range c.Upgrades {
		if u.Cost <= 0 {
			return bad("upgrade %d %q: cost must be positive, got %v", i, u.Name, u.Cost)
		}
		if !u.Effect.AffectsProduction() {
			return bad("upgrade %q: unknown effect %q", u.Name, u.Effect)
		}
		switch {
		case u.Effect == EffectBuildingMulti && u.Building == nil:
			return bad("upgrade %q: building_multi needs a building index", u.Name)
		case u.Effect == EffectBuildingMulti && (*u.Building < 0 || *u.Building >= len(c.Buildings)):
			return bad("upgrade %q: building index %d out of range [0,%d)", u.Name, *u.Building, len(c.Buildings))
		case u.Effect != EffectBuildingMulti && u.Building != nil:
			return bad("upgrade %q: building index set on %s upgrade", u.Name, u.Effect)
		}
	}

	for i, a := range c.Achievements {
		if a.Requirement == nil {
			return bad("achievement %d %q has no requirement", i, a.Name)
		}
	}

	seen := make(map[string]bool, len(c.Boosts))
	for _, b := range c.Boosts {
		switch {
		case b.ID == "":
			return bad("boost without id")
		case b.ID == CheatBoostID:
			return bad("boost id %q is reserved", CheatBoostID)
		case seen[b.ID]:
			return bad("duplicate boost %q", b.ID)
		case b.Multiplier <= 1:
			return bad("boost %q: multiplier must exceed 1, got %v", b.ID, b.Multiplier)
		case b.Duration <= 0:
			return bad("boost %q: duration must be positive, got %v", b.ID, b.Duration)
		}
		seen[b.ID] = true
	}

	for _, ch := range c.Cheats {
		switch ch.Effect {
		case CheatBufos:
		case CheatMultiplier:
			if ch.Value <= 1 || ch.Duration <= 0 {
				return bad("cheat %q: multiplier needs value > 1 and a duration", ch.Code)
			}
		case CheatUnlockAll:
		default:
			return bad("cheat %q: unknown effect %q", ch.Code, ch.Effect)
		}
	}

	if len(c.Themes) == 0 {
		return bad("no themes defined")
	}
	return nil
}

func (c *Catalog) index() {
	c.boostIdx = make(map[string]int, len(c.Boosts))
	for i, b := range c.Boosts {
		c.boostIdx[b.ID] = i
	}
	c.cheatIdx = make(map[string]int, len(c.Cheats))
	for i, ch := range c.Cheats {
		c.cheatIdx[ch.Code] = i
	}
	c.themeIdx = make(map[string]int, len(c.Themes))
	for i, t := range c.Themes {
		c.themeIdx[t.ID] = i
	}
}

// BuildingIndex returns the position of the named building.
func (c *Catalog) BuildingIndex(name string) (int, bool) {
	for i, b := range c.Buildings {
		if b.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Boost looks up a catalog boost by id.
func (c *Catalog) Boost(id string) (Boost, bool) {
	i, ok := c.boostIdx[id]
	if !ok {
		return Boost{}, false
	}
	return c.Boosts[i], true
}

// BoostIDs returns boost ids in catalog order.
func (c *Catalog) BoostIDs() []string {
	ids := make([]string, len(c.Boosts))
	for i, b := range c.Boosts {
		ids[i] = b.ID
	}
	return ids
}

func (c *Catalog) Cheat(code string) (Cheat, bool) {
	i, ok := c.cheatIdx[code]
	if !ok {
		return Cheat{}, false
	}
	return c.Cheats[i], true
}

func (c *Catalog) Theme(id string) (Theme, bool) {
	i, ok := c.themeIdx[id]
	if !ok {
		return Theme{}, false
	}
	return c.Themes[i], true
}

// DefaultTheme is the first authored theme.
func (c *Catalog) DefaultTheme() Theme {
	return c.Themes[0]
}
