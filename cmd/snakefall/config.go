package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakefall/internal/config"
	"github.com/vovakirdan/snakefall/internal/registry"
)

var flagConfigDefault bool

var configCmd = &cobra.Command{
	Use:   "config [variant]",
	Short: "Print a board's effective config as YAML",
	Long: `Print the config a board would run with after applying --config and
--speed. With --default, print the built-in config instead, which is a good
starting point for a custom file.

Examples:
  snakefall config
  snakefall config snakefall_compact --speed fast
  snakefall config --default > ~/.snakefall/snakefall.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the built-in default config")
}

func runConfig(cmd *cobra.Command, args []string) error {
	variant := config.VariantClassic
	if len(args) > 0 {
		variant = args[0]
	}
	if !registry.Exists(variant) {
		return fmt.Errorf("%w %q (run 'snakefall list')", registry.ErrUnknownGame, variant)
	}

	out := cmd.OutOrStdout()

	if flagConfigDefault {
		data := config.GetDefaultYAML(variant)
		if data == nil {
			return fmt.Errorf("no built-in config for %q", variant)
		}
		_, err := out.Write(data)
		return err
	}

	cfg, err := loadConfig(variant)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
