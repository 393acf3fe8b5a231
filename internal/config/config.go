package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration written as "30s" or "5m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type GameConfig struct {
	RandomBoostRate  float64  `toml:"random_boost_rate"`
	GoldenSpawnRate  float64  `toml:"golden_spawn_rate"`
	GoldenLifetime   Duration `toml:"golden_lifetime"`
	AutosaveInterval Duration `toml:"autosave_interval"`
	TickRate         int      `toml:"tick_rate"`
	FixedStep        Duration `toml:"fixed_step"`
	Seed             uint64   `toml:"seed"`
	CatalogPath      string   `toml:"catalog_path"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

type NarratorConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Config holds the application configuration.
type Config struct {
	LogFile string `toml:"log_file"`
	Debug   bool   `toml:"debug"`

	Game     GameConfig     `toml:"game"`
	Store    StoreConfig    `toml:"store"`
	Audio    AudioConfig    `toml:"audio"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Narrator NarratorConfig `toml:"narrator"`

	dir string
}

// Dir is where the config, saves and logs live by default.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bufo-clicker"
	}
	return filepath.Join(home, ".bufo-clicker")
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		LogFile: filepath.Join(dir, "bufo.log"),
		Game: GameConfig{
			RandomBoostRate:  0.00001,
			GoldenSpawnRate:  0.00001,
			GoldenLifetime:   Duration{3 * time.Second},
			AutosaveInterval: Duration{30 * time.Second},
			TickRate:         30,
		},
		Store: StoreConfig{Backend: "file"},
		Audio: AudioConfig{Enabled: true, Volume: 0.5},
		dir:   dir,
	}
}

// SavePath resolves where the configured backend keeps the save.
func (c *Config) SavePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	dir := c.dir
	if dir == "" {
		dir = Dir()
	}
	if c.Store.Backend == "sqlite" {
		return filepath.Join(dir, "bufo.db")
	}
	return filepath.Join(dir, "save.yaml")
}

// TickInterval is the host loop period derived from TickRate.
func (c *Config) TickInterval() time.Duration {
	if c.Game.TickRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.Game.TickRate)
}

// LoadConfig layers defaults, the TOML file at path and environment variables.
// An empty path reads DefaultPath if it exists.
func LoadConfig(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("BUFO_SAVE_PATH"); ok && v != "" {
		cfg.Store.Path = v
	}
	if v, ok := lookup("BUFO_STORE"); ok && v != "" {
		cfg.Store.Backend = v
	}
	if v, ok := lookup("BUFO_AUDIO"); ok && v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: BUFO_AUDIO=%q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Audio.Enabled = on
	}
	if v, ok := lookup("GEMINI_API_KEY"); ok && v != "" {
		cfg.Narrator.APIKey = v
	}
	if v, ok := lookup("BUFO_METRICS_ADDR"); ok {
		cfg.Metrics.Addr = v
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	rate := func(name string, v float64) error {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return bad("%s must be a non-negative number, got %v", name, v)
		}
		return nil
	}

	if err := rate("game.random_boost_rate", c.Game.RandomBoostRate); err != nil {
		return err
	}
	if err := rate("game.golden_spawn_rate", c.Game.GoldenSpawnRate); err != nil {
		return err
	}
	if c.Game.GoldenLifetime.Duration <= 0 {
		return bad("game.golden_lifetime must be positive, got %v", c.Game.GoldenLifetime)
	}
	if c.Game.AutosaveInterval.Duration < 0 {
		return bad("game.autosave_interval must not be negative")
	}
	if c.Game.FixedStep.Duration < 0 {
		return bad("game.fixed_step must not be negative")
	}
	if c.Game.TickRate < 1 || c.Game.TickRate > 240 {
		return bad("game.tick_rate must be in [1,240], got %d", c.Game.TickRate)
	}
	switch c.Store.Backend {
	case "file", "sqlite":
	default:
		return bad("store.backend must be file or sqlite, got %q", c.Store.Backend)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return bad("audio.volume must be in [0,1], got %v", c.Audio.Volume)
	}
	return nil
}
