package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/calbreak/internal/config"
)

var (
	flagFormat string
	flagOutput string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or write the effective engine config",
	Long: `Print the engine config after --config and --preset are applied, or
write it to a file that can be edited and passed back with --config.

Examples:
  calbreak config
  calbreak config --preset hard --format toml
  calbreak config -o ~/.calbreak/configs/engine.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagFormat, "format", "yaml", "Output format when printing: yaml or toml")
	configCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to this file instead (format from the extension)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if flagOutput != "" {
		if err := config.WriteFile(flagOutput, cfg); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", flagOutput)
		return nil
	}

	format, err := config.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	data, err := config.Encode(cfg, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
