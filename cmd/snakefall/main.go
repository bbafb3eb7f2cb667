// snakefall is a terminal Snake variant where every fruit eaten turns the
// snake into falling blocks that stack and clear like a puzzle game.
//
// Usage:
//
//	snakefall list              - List board variants
//	snakefall play [variant]    - Play a board (menu if no variant is given)
//	snakefall menu              - Pick boards interactively
//	snakefall serve             - Start SSH server for remote play
//	snakefall runs [variant]    - Show recorded runs
//	snakefall config [variant]  - Print the effective config as YAML
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.snakefall/runs.db)
//	--config <path>      - Use a custom board config YAML
//	--speed <preset>     - Speed preset: slow, normal, fast
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakefall/internal/config"
	"github.com/vovakirdan/snakefall/internal/registry"

	// Register board variants
	_ "github.com/vovakirdan/snakefall/internal/games/snakefall"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagSpeed    string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snakefall",
	Short: "Snakefall - Snake meets falling blocks in your terminal",
	Long: `Snakefall is a Snake variant for the terminal. Every fruit you eat turns
your snake into blocks that fall to the bottom of the board. Full rows clear,
and you respawn at the top one segment longer.

Available commands:
  list     - Show the board variants
  play     - Play a board directly
  menu     - Interactive board picker
  serve    - Start SSH server for remote play
  runs     - View recorded runs
  config   - Print a board's effective config

Examples:
  snakefall play
  snakefall play snakefall_compact --speed fast
  snakefall serve --ssh :2222
  snakefall runs snakefall`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snakefall/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom board config YAML")
	rootCmd.PersistentFlags().StringVar(&flagSpeed, "speed", "", "Speed preset: slow, normal, fast")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger at the --log-level level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "snakefall",
		Level:           level,
	}), nil
}

// openLogFile opens ~/.snakefall/snakefall.log for appending. The alt screen
// owns the terminal during play, so interactive commands log there.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".snakefall")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "snakefall.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// interactiveLogger returns a logger writing to the log file, or discarding
// output if the file cannot be opened. The returned func closes the file.
func interactiveLogger() (*log.Logger, func(), error) {
	f, err := openLogFile()
	if err != nil {
		logger, lerr := newLogger(io.Discard)
		return logger, func() {}, lerr
	}
	logger, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// loadConfig resolves a variant's board config from --config and --speed.
func loadConfig(variant string) (config.SnakefallConfig, error) {
	cfg, err := config.Load(variant, flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("load %s config: %w", variant, err)
	}
	if err := config.ApplySpeedPreset(&cfg, config.SpeedPreset(flagSpeed)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newGame builds a game for a variant with its resolved config.
func newGame(variant string, logger *log.Logger) (registry.Game, error) {
	if !registry.Exists(variant) {
		return nil, fmt.Errorf("%w %q (run 'snakefall list')", registry.ErrUnknownGame, variant)
	}
	cfg, err := loadConfig(variant)
	if err != nil {
		return nil, err
	}
	return registry.Create(variant, registry.Settings{Config: &cfg, Logger: logger})
}
