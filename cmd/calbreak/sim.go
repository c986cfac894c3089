package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/session"
)

var (
	flagMaxTicks int
	flagDecline  bool
	flagSimSave  string
)

var simCmd = &cobra.Command{
	Use:   "sim <layout|file>",
	Short: "Let the autopilot play a full game",
	Long: `Play a game on virtual time with the autopilot steering the paddle,
then print the outcome and every destroyed meeting.

The same seed, preset and layout always produce the same game.

Examples:
  calbreak sim workweek --seed 7
  calbreak sim crunch --preset zen --max-ticks 20000
  calbreak sim ./my-week.yaml --decline --save ./my-week.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 100000, "Give up after this many ticks (0 = no limit)")
	simCmd.Flags().BoolVar(&flagDecline, "decline", false, "Decline the destroyed meetings afterwards")
	simCmd.Flags().StringVar(&flagSimSave, "save", "", "Save the calendar page here afterwards")
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, preset, err := loadConfig()
	if err != nil {
		return err
	}
	runSeed := seed()
	doc, layout, err := loadPage(args[0], runSeed)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, "calbreak-sim")
	if err != nil {
		return err
	}
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, res, err := session.RunHeadless(ctx, session.HeadlessOptions{
		Options: session.Options{
			Layout:   layout,
			Preset:   preset,
			Seed:     runSeed,
			Config:   cfg,
			Document: doc,
			Ledger:   ledger,
			Logger:   logger,
		},
		MaxTicks: flagMaxTicks,
	})
	if sess != nil {
		defer sess.Close()
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s · %s · seed %d · preset %s\n", layout, res.Outcome.Title(), runSeed, preset)
	if res.Err != nil {
		fmt.Printf("Engine failed: %v\n", res.Err)
	}
	fmt.Printf("Run %s: %d ticks, %d of %d meetings destroyed\n", res.RunID, res.Ticks, len(res.Destroyed), doc.Len())
	fmt.Println()

	entries, err := ledger.Destroyed(res.RunID)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		fmt.Printf("  %-6s  %s\n", "Tick", "Meeting")
		fmt.Printf("  %-6s  %s\n", "----", "-------")
		for _, e := range entries {
			fmt.Printf("  %-6d  %s\n", e.Tick, e.Label)
		}
		fmt.Println()
	}

	if flagDecline {
		declined, err := sess.Decline()
		if err != nil {
			return err
		}
		for _, d := range declined {
			if d.Err != nil {
				fmt.Printf("✗ %s: %v\n", d.Title, d.Err)
				continue
			}
			fmt.Printf("✓ %s (%s)\n", d.Title, d.Pressed)
		}
	}

	if flagSimSave != "" {
		if err := calendar.Save(flagSimSave, doc); err != nil {
			return err
		}
		fmt.Printf("Calendar page saved to %s\n", flagSimSave)
	}
	return nil
}
