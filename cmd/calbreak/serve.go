package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/calbreak/internal/audio"
	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/platform/web"
	"github.com/vovakirdan/calbreak/internal/session"
)

var (
	flagAddr       string
	flagServeSound bool
)

var serveCmd = &cobra.Command{
	Use:   "serve <layout|file>",
	Short: "Serve the game over a websocket",
	Long: `Start a local HTTP server with a browser client that draws the page.
The first connected browser steers the paddle; any other tab only watches.
Frames and events are streamed as JSON over /ws; the runs of this process
are listed at /api/runs.

Examples:
  calbreak serve workweek                        # Listen on localhost:8080
  calbreak serve crunch --addr localhost:9000    # Listen on port 9000`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "localhost:8080", "HTTP listen address (host:port)")
	serveCmd.Flags().BoolVar(&flagServeSound, "sound", false, "Play sound effects on the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, preset, err := loadConfig()
	if err != nil {
		return err
	}
	runSeed := seed()
	doc, layout, err := loadPage(args[0], runSeed)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, "calbreak-web")
	if err != nil {
		return err
	}
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	var sinks []engine.Sink
	if flagServeSound {
		spk, err := audio.OpenSpeaker()
		if err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer spk.Close()
			sinks = append(sinks, audio.NewSink(spk))
		}
	}

	srv, err := web.NewServer(web.Options{
		Session: session.Options{
			Layout:   layout,
			Preset:   preset,
			Seed:     runSeed,
			Config:   cfg,
			Document: doc,
			Sinks:    sinks,
			Ledger:   ledger,
			Logger:   logger.WithPrefix("session"),
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving %s on http://%s\n", layout, flagAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.ListenAndServe(ctx, flagAddr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
