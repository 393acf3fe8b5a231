package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/models"
	"github.com/tatianab/bufo-clicker/internal/store"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the saved game without starting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.Close()
			return runStats(cmd.OutOrStdout(), a, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")
	return cmd
}

func runStats(w io.Writer, a *app, asJSON bool) error {
	data, err := a.store.Load()
	if errors.Is(err, store.ErrNoSave) {
		color.New(color.FgYellow).Fprintln(w, "No save found. Run `bufo-clicker play` to start.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read save: %w", err)
	}

	now := time.Now()
	st, err := models.Decode(data, a.cat, now)
	var partial *models.PartialLoadError
	if err != nil && !errors.As(err, &partial) {
		return err
	}
	snap := engine.New(a.cat, st, now, a.engineOptions()).Snapshot()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	title := color.New(color.FgCyan, color.Bold)
	info := color.New(color.FgYellow)

	title.Fprintln(w, "Bufo Clicker")
	if partial != nil {
		color.New(color.FgRed).Fprintf(w, "Save partially recovered, reset fields: %v\n", partial.Fields)
	}
	fmt.Fprintf(w, "Bufos:        %s\n", humanize.Comma(int64(snap.Bufos)))
	fmt.Fprintf(w, "Total earned: %s\n", humanize.Comma(int64(snap.TotalEarned)))
	fmt.Fprintf(w, "Production:   %s/s\n", engine.FormatNumber(snap.Rate))
	fmt.Fprintf(w, "Click value:  %s\n", engine.FormatNumber(snap.ClickValue))
	fmt.Fprintf(w, "Clicks:       %s\n", humanize.Comma(int64(snap.Stats.Clicks)))
	fmt.Fprintf(w, "Played:       %s\n", (time.Duration(snap.Stats.PlaySeconds) * time.Second).Round(time.Second))
	fmt.Fprintf(w, "Started:      %s\n", humanize.Time(snap.Stats.SessionStart))
	fmt.Fprintf(w, "Theme:        %s\n", snap.Theme.Name)
	if u, ok := a.store.(interface{ UpdatedAt() (time.Time, error) }); ok {
		if at, err := u.UpdatedAt(); err == nil {
			fmt.Fprintf(w, "Saved:        %s\n", humanize.Time(at))
		}
	}
	info.Fprintf(w, "Save size:    %s\n\n", humanize.Bytes(uint64(len(data))))

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Building", "Owned", "Next cost", "Rate/s"}),
	)
	for i, b := range snap.Buildings {
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			b.Name,
			strconv.Itoa(b.Owned),
			humanize.Comma(int64(b.Cost)),
			engine.FormatNumber(b.Rate),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	info.Fprintf(w, "Achievements: %d / %d\n", snap.EarnedCount(), len(snap.Achievements))
	for _, ach := range snap.Achievements {
		if ach.Earned {
			fmt.Fprintf(w, "  ★ %s\n", ach.Name)
		}
	}
	return nil
}
