package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/tatianab/bufo-clicker/internal/catalog"
	"github.com/tatianab/bufo-clicker/internal/clock"
	"github.com/tatianab/bufo-clicker/internal/config"
	"github.com/tatianab/bufo-clicker/internal/engine"
	"github.com/tatianab/bufo-clicker/internal/events"
	"github.com/tatianab/bufo-clicker/internal/narrator"
)

const (
	simulatedMinutes = 60
	clicksPerSecond  = 5
	tickRate         = 10
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The narrator is optional here too; without a key the run is silent.
	var n *narrator.Narrator
	if cfg.Narrator.APIKey != "" {
		n, err = narrator.New(ctx, cfg.Narrator.APIKey, cfg.Narrator.Model, nil)
		if err != nil {
			log.Fatalf("Failed to create narrator: %v", err)
		}
		defer n.Close()
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewManual(start)
	sess := engine.NewSession(catalog.Default(), engine.SessionOptions{
		Options: engine.Options{
			Tuning: engine.Tuning{
				RandomBoostRate: cfg.Game.RandomBoostRate,
				GoldenSpawnRate: 0.01,
				GoldenLifetime:  cfg.Game.GoldenLifetime.Duration,
			},
			Rand: rand.New(rand.NewPCG(1, 1)),
		},
		Clock: clk,
	})

	fmt.Println("--- Step 1: Subscribing to milestones ---")
	sess.Subscribe(func(ev events.Event) {
		if ev.Type != events.EventAchievementUnlocked {
			return
		}
		d := ev.Data.(events.AchievementData)
		fmt.Printf("[%s] Achievement: %s\n", ev.At.Sub(start).Round(time.Second), d.Name)
		if n != nil {
			if quip, err := n.Quip(ctx, narrator.Moment{Kind: "achievement unlocked", Name: d.Name, Detail: d.Description, Bufos: sess.Engine().State().Bufos}); err == nil {
				fmt.Printf("    %s\n", quip)
			}
		}
	})

	fmt.Printf("--- Step 2: Playing %d simulated minutes ---\n", simulatedMinutes)
	sched := engine.NewScheduler(clk, time.Second/tickRate)
	for sec := 0; sec < simulatedMinutes*60; sec++ {
		for range clicksPerSecond {
			sess.OnClick()
		}
		if sess.Snapshot().Bonus != nil {
			sess.OnClaimBonusObject()
		}
		for buyBest(sess) {
		}
		clk.Advance(time.Second)
		sched.Step(sess)
		sess.DrainNotifications()
	}

	fmt.Println("--- Step 3: Summary ---")
	printSummary(sess.Snapshot(), sched.Ticks())
}

// buyBest buys any affordable upgrade, otherwise the affordable building with
// the best production per bufo spent. It reports whether it bought anything.
func buyBest(sess *engine.Session) bool {
	snap := sess.Snapshot()
	for _, u := range snap.Upgrades {
		if u.Affordable {
			return sess.OnPurchaseUpgrade(u.Index) == nil
		}
	}

	best, bestValue := -1, 0.0
	for _, b := range snap.Buildings {
		if !b.Affordable {
			continue
		}
		base := sess.Engine().Catalog().Buildings[b.Index].BaseProduction
		if v := base / b.Cost; v > bestValue {
			best, bestValue = b.Index, v
		}
	}
	if best < 0 {
		return false
	}
	return sess.OnPurchaseBuilding(best) == nil
}

func printSummary(snap engine.Snapshot, ticks uint64) {
	title := color.New(color.FgCyan, color.Bold)
	info := color.New(color.FgYellow)

	title.Printf("Bufos: %s   Total: %s   Rate: %s/s\n",
		engine.FormatNumber(snap.Bufos), engine.FormatNumber(snap.TotalEarned), engine.FormatNumber(snap.Rate))
	info.Printf("Clicks: %d   Golden bufos: %d   Ticks: %d   Achievements: %d/%d\n\n",
		snap.Stats.Clicks, snap.Stats.GoldenCaught, ticks, snap.EarnedCount(), len(snap.Achievements))

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Building", "Owned", "Rate/s"}),
	)
	for _, b := range snap.Buildings {
		_ = table.Append([]string{b.Name, strconv.Itoa(b.Owned), engine.FormatNumber(b.Rate)})
	}
	_ = table.Render()
}
