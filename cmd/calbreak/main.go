// calbreak turns a calendar page into a breakout level: the ball destroys
// meetings, and afterwards you decide whether to decline them.
//
// Usage:
//
//	calbreak list                - List built-in calendar layouts
//	calbreak play <layout|file>  - Play in the terminal
//	calbreak sim <layout|file>   - Let the autopilot play on virtual time
//	calbreak serve <layout|file> - Serve the game to browsers over a websocket
//	calbreak config              - Print or write the effective engine config
//
// Global flags:
//
//	--config <path>    - Engine config (YAML or TOML)
//	--preset <name>    - easy, normal, hard, zen
//	--seed <value>     - Seed for layouts, particles and the autopilot
//	--log-level <lvl>  - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/config"
	"github.com/vovakirdan/calbreak/internal/registry"
	"github.com/vovakirdan/calbreak/internal/storage"

	// Import layouts to register them
	_ "github.com/vovakirdan/calbreak/internal/calendar/presets"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "calbreak",
	Short: "Calendar Breakout - destroy your meetings",
	Long: `Calendar Breakout plays breakout on a calendar page. Meetings are the
bricks; once the game ends you can decline everything you destroyed.

Available commands:
  list     - Show built-in calendar layouts
  play     - Play in the terminal
  sim      - Let the autopilot play a full game
  serve    - Serve the game over a websocket
  config   - Print or write the engine config

Examples:
  calbreak list
  calbreak play workweek
  calbreak play ./my-week.yaml --preset hard
  calbreak sim crunch --seed 42
  calbreak serve standup --addr localhost:9000`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "normal", "Preset: easy, normal, hard, zen")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger creates the process logger writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadConfig resolves the engine config and applies the preset.
func loadConfig() (config.EngineConfig, config.Preset, error) {
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return config.EngineConfig{}, preset, err
	}
	cfg, err := config.LoadEngine(flagConfig)
	if err != nil {
		return cfg, preset, err
	}
	preset.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, preset, err
	}
	return cfg, preset, nil
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

func isLayoutFile(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// loadPage builds the calendar page from a registered layout or a file.
// The returned name is what the ledger records as the layout.
func loadPage(arg string, seed int64) (*calendar.Document, string, error) {
	if isLayoutFile(arg) {
		doc, err := calendar.Load(arg)
		if err != nil {
			return nil, "", err
		}
		return doc, filepath.Base(arg), nil
	}
	if !registry.Exists(arg) {
		return nil, "", fmt.Errorf("unknown layout %q; run 'calbreak list' to see available layouts", arg)
	}
	doc, err := registry.Create(arg, seed)
	if err != nil {
		return nil, "", err
	}
	return doc, arg, nil
}

// openLedger opens the in-memory run ledger shared by every game of this
// process.
func openLedger() (*storage.Store, error) {
	return storage.Open(storage.Memory)
}
