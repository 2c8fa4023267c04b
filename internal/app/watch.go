package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/analyzer"
	"github.com/blackwell-systems/lexcov/internal/watcher"
)

var (
	watchThreshold int
	watchSave      bool
	watchName      string
	watchDebounce  time.Duration
	watchWorkers   int

	watchCmd = &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompute coverage whenever a word-list file changes",
		Long: `Watch a word-list file and print its coverage every time it is saved.

Each line shows the number of languages and concepts, the minimal mutual
coverage and whether it meets --threshold. Parse errors are reported and the
watch continues. With --save the file is also re-imported after every
successful reload, so 'lexcov subset' and 'lexcov history' see the latest
version.

Press Ctrl+C to stop.`,
		Example: `  # Watch a file while editing it
  lexcov watch data/polynesian.tsv --threshold 150

  # Keep the database in sync as well
  lexcov watch data/polynesian.tsv --save`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().IntVar(&watchThreshold, "threshold", 0, "coverage threshold to check against (default from config)")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "re-import the file after every change")
	watchCmd.Flags().StringVar(&watchName, "name", "", "word list name for --save (default: file name without extension)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before reloading")
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 0, "goroutines used to build the matrix (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	threshold := intFlag(cmd, "threshold", watchThreshold, cfg.Threshold)
	out := cmd.OutOrStdout()

	opts := []watcher.Option{
		watcher.WithDebounce(watchDebounce),
		watcher.WithWorkers(intFlag(cmd, "workers", watchWorkers, cfg.Workers)),
	}

	if watchSave {
		st, err := openStore(true)
		if err != nil {
			return err
		}
		defer st.Close()

		name := watchName
		if name == "" {
			name = defaultName(path)
		}
		opts = append(opts, watcher.WithStore(st, name))
	}

	w, err := watcher.New(path, func(u watcher.Update) {
		fmt.Fprintln(out, formatUpdate(u, threshold, time.Now()))
	}, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !w.Exists() {
		fmt.Fprintf(out, "Waiting for %s to be created...\n", w.Path())
	}

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", w.Path())

	<-ctx.Done()

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	fmt.Fprintln(out, "Stopped.")
	return nil
}

// formatUpdate renders one reload as a single status line.
func formatUpdate(u watcher.Update, threshold int, now time.Time) string {
	prefix := fmt.Sprintf("[%s] %s:", now.Format("15:04:05"), filepath.Base(u.Path))
	if u.Err != nil {
		return fmt.Sprintf("%s error: %v", prefix, u.Err)
	}

	minimal := analyzer.MinimalMutualCoverage(u.Matrix)
	status := "✓"
	if !analyzer.MutualCoverageCheck(u.Matrix, threshold) {
		status = "✗"
	}

	line := fmt.Sprintf("%s %d languages, %d concepts, minimal coverage %d %s (threshold %d)",
		prefix, u.Matrix.Size(), u.Matrix.ConceptCount(), minimal, status, threshold)
	if u.Info != nil {
		line += fmt.Sprintf(", saved as %s", u.Info.Name)
	}
	return line
}
