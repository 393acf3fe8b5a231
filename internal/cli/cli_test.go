package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/models"
	"github.com/tatianab/bufo-clicker/internal/store"
)

// setupConfig writes a config that keeps everything inside a temp dir.
func setupConfig(t *testing.T, backend string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	savePath := filepath.Join(dir, "save.yaml")
	if backend == store.BackendSQLite {
		savePath = filepath.Join(dir, "bufo.db")
	}
	body := fmt.Sprintf(`log_file = %q

[store]
backend = %q
path = %q

[audio]
enabled = false
`, filepath.Join(dir, "bufo.log"), backend, savePath)

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, savePath
}

func seedSave(t *testing.T, backend, path string) {
	t.Helper()
	cat := catalog.Default()
	st := models.NewGameState(cat, time.Now().Add(-time.Hour))
	st.Bufos = 1234
	st.TotalEarned = 5000
	st.Owned[0] = 3
	st.Stats.Clicks = 42

	data, err := models.Encode(st, cat)
	if err != nil {
		t.Fatal(err)
	}
	s, err := store.Open(backend, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Save(data); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStats(t *testing.T) {
	for _, backend := range []string{store.BackendFile, store.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg, savePath := setupConfig(t, backend)
			seedSave(t, backend, savePath)

			out, err := run(t, "", "--config", cfg, "stats")
			if err != nil {
				t.Fatalf("stats error: %v", err)
			}
			for _, want := range []string{"1,234", "5,000", "Tadpole", "42"} {
				if !strings.Contains(out, want) {
					t.Errorf("stats output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestStatsJSON(t *testing.T) {
	cfg, savePath := setupConfig(t, store.BackendFile)
	seedSave(t, store.BackendFile, savePath)

	out, err := run(t, "", "--config", cfg, "stats", "--json")
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	if !strings.Contains(out, `"bufos": 1234`) {
		t.Errorf("JSON output missing balance:\n%s", out)
	}
}

func TestStatsWithoutSave(t *testing.T) {
	cfg, _ := setupConfig(t, store.BackendFile)
	out, err := run(t, "", "--config", cfg, "stats")
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	if !strings.Contains(out, "No save found") {
		t.Errorf("output = %q", out)
	}
}

func TestReset(t *testing.T) {
	cfg, savePath := setupConfig(t, store.BackendFile)
	seedSave(t, store.BackendFile, savePath)

	out, err := run(t, "n\n", "--config", cfg, "reset")
	if err != nil {
		t.Fatalf("reset error: %v", err)
	}
	if !strings.Contains(out, "Aborted") {
		t.Errorf("declined reset output = %q", out)
	}
	if _, err := os.Stat(savePath); err != nil {
		t.Fatalf("declined reset removed the save: %v", err)
	}

	if _, err := run(t, "", "--config", cfg, "reset", "--yes"); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	s, err := store.Open(store.BackendFile, savePath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); !errors.Is(err, store.ErrNoSave) {
		t.Errorf("Load() after reset error = %v, want ErrNoSave", err)
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"floppy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "", "--config", path, "stats"); err == nil {
		t.Error("expected invalid config to fail")
	}
}
