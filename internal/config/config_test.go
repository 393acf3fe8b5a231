package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Game.RandomBoostRate != 0.00001 {
		t.Errorf("Game.RandomBoostRate = %v, want %v", cfg.Game.RandomBoostRate, 0.00001)
	}
	if cfg.Game.GoldenLifetime.Duration != 3*time.Second {
		t.Errorf("Game.GoldenLifetime = %v, want %v", cfg.Game.GoldenLifetime, 3*time.Second)
	}
	if cfg.Game.TickRate != 30 {
		t.Errorf("Game.TickRate = %d, want %d", cfg.Game.TickRate, 30)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "file")
	}
	if !cfg.Audio.Enabled {
		t.Error("Audio.Enabled should be true by default")
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("Metrics.Addr = %q, want metrics off by default", cfg.Metrics.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestSavePath(t *testing.T) {
	cfg := DefaultConfig()
	if got := filepath.Base(cfg.SavePath()); got != "save.yaml" {
		t.Errorf("file SavePath base = %q, want save.yaml", got)
	}
	cfg.Store.Backend = "sqlite"
	if got := filepath.Base(cfg.SavePath()); got != "bufo.db" {
		t.Errorf("sqlite SavePath base = %q, want bufo.db", got)
	}
	cfg.Store.Path = "/tmp/custom.db"
	if got := cfg.SavePath(); got != "/tmp/custom.db" {
		t.Errorf("SavePath = %q, want /tmp/custom.db", got)
	}
}

func TestTickInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Game.TickRate = 20
	if got := cfg.TickInterval(); got != 50*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 50ms", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
debug = true
log_file = "/tmp/bufo.log"

[game]
golden_spawn_rate = 0.01
golden_lifetime = "5s"
autosave_interval = "1m"
fixed_step = "10ms"
seed = 42

[store]
backend = "sqlite"

[audio]
enabled = false
volume = 0.25

[narrator]
model = "gemini-test"
`)

	cfg, err := load(path, noEnv)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if !cfg.Debug || cfg.LogFile != "/tmp/bufo.log" {
		t.Errorf("Debug = %v, LogFile = %q", cfg.Debug, cfg.LogFile)
	}
	if cfg.Game.GoldenSpawnRate != 0.01 {
		t.Errorf("Game.GoldenSpawnRate = %v, want 0.01", cfg.Game.GoldenSpawnRate)
	}
	if cfg.Game.RandomBoostRate != 0.00001 {
		t.Errorf("Game.RandomBoostRate = %v, want default kept", cfg.Game.RandomBoostRate)
	}
	if cfg.Game.GoldenLifetime.Duration != 5*time.Second || cfg.Game.AutosaveInterval.Duration != time.Minute || cfg.Game.FixedStep.Duration != 10*time.Millisecond {
		t.Errorf("durations = %v %v %v", cfg.Game.GoldenLifetime, cfg.Game.AutosaveInterval, cfg.Game.FixedStep)
	}
	if cfg.Game.Seed != 42 {
		t.Errorf("Game.Seed = %d, want 42", cfg.Game.Seed)
	}
	if cfg.Store.Backend != "sqlite" || filepath.Base(cfg.SavePath()) != "bufo.db" {
		t.Errorf("Store = %+v, SavePath = %q", cfg.Store, cfg.SavePath())
	}
	if cfg.Audio.Enabled || cfg.Audio.Volume != 0.25 {
		t.Errorf("Audio = %+v", cfg.Audio)
	}
	if cfg.Narrator.Model != "gemini-test" {
		t.Errorf("Narrator.Model = %q", cfg.Narrator.Model)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[store]\nbackend = \"sqlite\"\n")
	cfg, err := load(path, envMap(map[string]string{
		"BUFO_SAVE_PATH":    "/tmp/save.yaml",
		"BUFO_STORE":        "file",
		"BUFO_AUDIO":        "false",
		"GEMINI_API_KEY":    "secret",
		"BUFO_METRICS_ADDR": "127.0.0.1:9100",
	}))
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if cfg.Store.Backend != "file" || cfg.SavePath() != "/tmp/save.yaml" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Audio.Enabled {
		t.Error("Audio.Enabled = true, want env override false")
	}
	if cfg.Narrator.APIKey != "secret" || cfg.Metrics.Addr != "127.0.0.1:9100" {
		t.Errorf("Narrator.APIKey = %q, Metrics.Addr = %q", cfg.Narrator.APIKey, cfg.Metrics.Addr)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	if _, err := load(filepath.Join(t.TempDir(), "nope.toml"), noEnv); err == nil {
		t.Error("explicit missing config should fail")
	}

	t.Setenv("HOME", t.TempDir())
	cfg, err := load("", noEnv)
	if err != nil {
		t.Fatalf("missing default config should fall back to defaults: %v", err)
	}
	if cfg.Game.TickRate != 30 {
		t.Errorf("Game.TickRate = %d, want default", cfg.Game.TickRate)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{"unknown key", "[game]\nturbo = true\n", nil, "game.turbo"},
		{"negative rate", "[game]\nrandom_boost_rate = -1.0\n", nil, "random_boost_rate"},
		{"zero lifetime", "[game]\ngolden_lifetime = \"0s\"\n", nil, "golden_lifetime"},
		{"tick rate", "[game]\ntick_rate = 0\n", nil, "tick_rate"},
		{"backend", "[store]\nbackend = \"floppy\"\n", nil, "store.backend"},
		{"volume", "[audio]\nvolume = 1.5\n", nil, "audio.volume"},
		{"audio env", "", map[string]string{"BUFO_AUDIO": "loud"}, "BUFO_AUDIO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeConfig(t, tt.body), envMap(tt.env))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadBadDuration(t *testing.T) {
	if _, err := load(writeConfig(t, "[game]\ngolden_lifetime = \"soon\"\n"), noEnv); err == nil {
		t.Fatal("expected parse error")
	}
}
