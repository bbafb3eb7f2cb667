package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snakefall/internal/core"
	"github.com/vovakirdan/snakefall/internal/platform/tui"
	"github.com/vovakirdan/snakefall/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a board",
	Long: `Start playing the given board variant. Without a variant the board
picker menu opens.

Controls:
  Arrows/WASD/hjkl  - Turn
  P/Esc             - Pause
  R                 - Restart (after game over)
  Ctrl+S            - Save a screenshot to ~/.snakefall/screenshots
  Q/Ctrl+C          - Quit

Speed presets:
  slow    - 500ms per step
  normal  - 333ms per step
  fast    - 200ms per step

Logs are written to ~/.snakefall/snakefall.log while playing.

Examples:
  snakefall play
  snakefall play snakefall_compact
  snakefall play --speed fast --seed 42
  snakefall play snakefall --config ./my-board.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runMenu(cmd, args)
	}
	variant := args[0]

	logger, closeLog, err := interactiveLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	game, err := newGame(variant, logger)
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	_, err = tui.Run(game, store, logger, runtimeConfig(), false)
	return err
}

// runtimeConfig builds the host config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the run database. Play continues without history if it
// cannot be opened.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database, runs will not be recorded", "error", err)
		return nil
	}
	return store
}
