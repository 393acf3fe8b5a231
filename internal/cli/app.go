package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/config"
	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/models"
	"github.com/tatianab/bufo-clicker/internal/store"
)

// app is what every subcommand needs: settings, a logger, the catalog and the
// save store.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	logFile io.Closer
	cat     *catalog.Catalog
	store   store.Store
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.debug {
		cfg.Debug = true
	}

	a := &app{cfg: cfg}
	if err := a.setupLogging(); err != nil {
		return nil, err
	}

	a.cat = catalog.Default()
	if cfg.Game.CatalogPath != "" {
		if a.cat, err = catalog.Load(cfg.Game.CatalogPath); err != nil {
			a.Close()
			return nil, err
		}
	}

	if a.store, err = store.Open(cfg.Store.Backend, cfg.SavePath()); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	a.log.Debug("store opened", "backend", cfg.Store.Backend, "path", cfg.SavePath())
	return a, nil
}

// setupLogging sends logs to the configured file. The terminal belongs to the
// game, so nothing is logged to stderr.
func (a *app) setupLogging() error {
	level := slog.LevelInfo
	if a.cfg.Debug {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	if a.cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		w = f
	}

	a.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.log)
	return nil
}

// releaseStore hands the store to a new owner; Close will no longer touch it.
func (a *app) releaseStore() store.Store {
	s := a.store
	a.store = nil
	return s
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("failed to close store", "err", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func (a *app) engineOptions() engine.Options {
	opts := engine.Options{
		Tuning: engine.Tuning{
			RandomBoostRate: a.cfg.Game.RandomBoostRate,
			GoldenSpawnRate: a.cfg.Game.GoldenSpawnRate,
			GoldenLifetime:  a.cfg.Game.GoldenLifetime.Duration,
		},
		Logger: a.log,
	}
	if seed := a.cfg.Game.Seed; seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(seed, seed))
	}
	return opts
}

// restore loads the stored game into sess. A missing save leaves the fresh
// game in place. A corrupt one does too, and the decode error is returned so
// the caller can warn the player.
func (a *app) restore(sess *engine.Session, s interface{ Load() ([]byte, error) }) error {
	data, err := s.Load()
	if errors.Is(err, store.ErrNoSave) {
		a.log.Info("no save found, starting a new game")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read save: %w", err)
	}

	err = sess.Load(data)
	var partial *models.PartialLoadError
	if errors.As(err, &partial) {
		return nil
	}
	if err != nil {
		a.log.Error("save is unreadable, starting a new game", "err", err)
	}
	return err
}
