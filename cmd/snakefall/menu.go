package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakefall/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick boards from an interactive menu",
	Long: `Start snakefall in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play a board and Tab to browse
recorded runs. After a game ends, press B to return to the menu.

Examples:
  snakefall menu
  snakefall menu --speed slow
  snakefall menu --db ./runs.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := interactiveLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		switch {
		case result.Quit:
			return nil

		case result.WantsRuns:
			goBack, err := tui.RunRunBoard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := newGame(result.Variant, logger)
		if err != nil {
			return err
		}

		// Each game gets a fresh seed unless one was pinned.
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		backToMenu, err := tui.Run(game, store, logger, cfg, true)
		if err != nil {
			return err
		}
		if !backToMenu {
			return nil
		}
	}
}
