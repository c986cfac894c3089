package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/calbreak/internal/audio"
	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/config"
	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/platform/tui"
	"github.com/vovakirdan/calbreak/internal/session"
)

var (
	flagFPS     int
	flagLogFile string
	flagSound   bool
	flagSave    string
)

var playCmd = &cobra.Command{
	Use:   "play [layout|file]",
	Short: "Play in the terminal",
	Long: `Start a game on a built-in layout or a calendar page file. Without
an argument a picker lists the built-in layouts.

Controls:
  Left/A/H, Right/D/L  - Move the paddle
  Space/Enter          - Start (and play again after the follow-up)
  Esc                  - Stop the running game
  Y                    - Decline destroyed meetings after the game
  N                    - Keep destroyed meetings after the game
  Q/Ctrl+C             - Quit

Presets:
  easy   - Slower ball, wider paddle, longer timeout
  normal - Defaults
  hard   - Faster ball, narrow paddle, paddle cooldown, short timeout
  zen    - No timeout

Examples:
  calbreak play
  calbreak play workweek
  calbreak play crunch --preset hard --sound
  calbreak play ./my-week.yaml --save ./my-week.yaml
  calbreak play standup --log-file /tmp/calbreak.log --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagFPS, "fps", 60, "Render rate (frames per second)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (logs are discarded otherwise)")
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	playCmd.Flags().StringVar(&flagSave, "save", "", "Save the calendar page here when quitting")
}

func runPlay(cmd *cobra.Command, args []string) error {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	target := ""
	if len(args) == 1 {
		target = args[0]
	} else {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return err
		}
		sel, err := tui.RunPicker(preset, width, height)
		if err != nil {
			return err
		}
		if sel == nil {
			return nil
		}
		target = sel.LayoutID
		flagPreset = sel.Preset.String()
	}

	cfg, preset, err := loadConfig()
	if err != nil {
		return err
	}
	runSeed := seed()
	doc, layout, err := loadPage(target, runSeed)
	if err != nil {
		return err
	}

	// The alt screen owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, "calbreak")
	if err != nil {
		return err
	}

	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	var sinks []engine.Sink
	if flagSound {
		spk, err := audio.OpenSpeaker()
		if err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer spk.Close()
			sinks = append(sinks, audio.NewSink(spk))
		}
	}

	err = tui.Run(tui.Options{
		Session: session.Options{
			Layout:   layout,
			Preset:   preset,
			Seed:     runSeed,
			Config:   cfg,
			Document: doc,
			Sinks:    sinks,
			Ledger:   ledger,
			Logger:   logger,
		},
		FrameRate: flagFPS,
		Width:     width,
		Height:    height,
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	if flagSave != "" {
		if err := calendar.Save(flagSave, doc); err != nil {
			return err
		}
		fmt.Printf("Calendar page saved to %s\n", flagSave)
	}
	return nil
}
