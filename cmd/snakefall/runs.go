package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakefall/internal/platform/tui"
	"github.com/vovakirdan/snakefall/internal/registry"
	"github.com/vovakirdan/snakefall/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [variant]",
	Short: "Show recorded runs",
	Long: `Display recent runs and totals for a board variant, or for every
board with recorded runs when no variant is given.

Examples:
  snakefall runs
  snakefall runs snakefall_compact --limit 20
  snakefall runs snakefall --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of recent runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs of the variant")
}

func runRuns(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if flagRunsClear {
			return fmt.Errorf("--clear needs a variant")
		}
		variants, err := store.Variants()
		if err != nil {
			return err
		}
		if len(variants) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Play 'snakefall play' to record the first one!")
			return nil
		}
		for i, v := range variants {
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := printRuns(out, store, v); err != nil {
				return err
			}
		}
		return nil
	}

	variant := args[0]
	if !registry.Exists(variant) {
		return fmt.Errorf("%w %q (run 'snakefall list')", registry.ErrUnknownGame, variant)
	}

	if flagRunsClear {
		if err := store.ClearRuns(variant); err != nil {
			return err
		}
		logger.Info("runs cleared", "variant", variant)
		return nil
	}

	return printRuns(out, store, variant)
}

func printRuns(out io.Writer, store *storage.Store, variant string) error {
	runs, err := store.RecentRuns(variant, flagRunsLimit)
	if err != nil {
		return err
	}
	stats, err := store.Stats(variant)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Runs - %s\n", variant)
	fmt.Fprintln(out)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'snakefall play %s' to record the first one!\n", variant)
		return nil
	}

	fmt.Fprintf(out, "  %-16s  %4s  %6s  %7s  %7s  %s\n", "Date", "Rows", "Length", "Settled", "Time", "Ended by")
	fmt.Fprintf(out, "  %-16s  %4s  %6s  %7s  %7s  %s\n", "----", "----", "------", "-------", "----", "--------")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-16s  %4d  %6d  %7d  %7s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.RowsCleared,
			r.Length,
			r.Settlements,
			tui.FormatDuration(r.Duration),
			strings.ReplaceAll(r.Reason, "_", " "),
		)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d runs, %d rows cleared, %s played\n",
		stats.RunsCount, stats.TotalRows, tui.FormatDuration(stats.TotalPlayed))

	best, err := store.BestRun(variant)
	if err == nil && best != nil {
		fmt.Fprintf(out, "Best:  %d rows, length %d\n", best.RowsCleared, best.Length)
	}
	return nil
}
