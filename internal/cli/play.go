package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tatianab/bufo-clicker/internal/audio"
	"github.com/tatianab/bufo-clicker/internal/clock"
	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/metrics"
	"github.com/tatianab/bufo-clicker/internal/narrator"
	"github.com/tatianab/bufo-clicker/internal/store"
	"github.com/tatianab/bufo-clicker/internal/tui"
)

type playOptions struct {
	mute        bool
	metricsAddr string
}

func newPlayCmd(root *rootOptions) *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start the game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.mute, "mute", false, "Disable sound")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics and /api/state on this address")
	return cmd
}

func runPlay(ctx context.Context, root *rootOptions, opts *playOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}

	// sess is assigned before anything can scrape the recorder.
	var sess *engine.Session
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg, metrics.SourceFunc(func() *engine.Snapshot {
		if sess == nil {
			return nil
		}
		return sess.Published()
	}))

	writer := store.NewWriter(a.releaseStore(), a.log, rec.ObserveSave)
	sess = engine.NewSession(a.cat, engine.SessionOptions{
		Options:          a.engineOptions(),
		Saver:            writer,
		AutosaveInterval: cfg.Game.AutosaveInterval.Duration,
		Clock:            clock.RealClock{},
	})
	defer func() {
		if err := sess.Close(); err != nil {
			a.log.Error("failed to save on exit", "err", err)
			color.Red("Failed to save: %v", err)
		}
	}()
	sess.Subscribe(rec.Handle)

	if err := a.restore(sess, writer); err != nil {
		color.Yellow("Warning: %v. Starting a new game.", err)
	}

	if cfg.Audio.Enabled && !opts.mute {
		player := audio.NewCuePlayer(a.cat, cfg.Audio.Volume, a.log)
		if err := player.Initialize(); err == nil {
			player.SetTheme(sess.Snapshot().Theme.ID)
			sess.Subscribe(player.Handle)
			defer player.Cleanup()
		}
	}

	var n *narrator.Narrator
	if cfg.Narrator.APIKey != "" {
		n, err = narrator.New(ctx, cfg.Narrator.APIKey, cfg.Narrator.Model, a.log)
		if err != nil {
			a.log.Warn("narrator disabled", "err", err)
		} else {
			defer n.Close()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(sess, reg, a.log)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Metrics.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("metrics server stopped", "err", err)
			}
		}()
	}

	sched := engine.NewScheduler(clock.RealClock{}, cfg.Game.FixedStep.Duration)
	if err := tui.Run(ctx, sess, sched, tui.Options{
		Interval: cfg.TickInterval(),
		Narrator: n,
		Logger:   a.log,
	}); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
