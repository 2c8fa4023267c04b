package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/analyzer"
	"github.com/blackwell-systems/lexcov/internal/output"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

var (
	subsetThreshold  int
	subsetBudget     int
	subsetMaxResults int
	subsetExport     string
	subsetWorkers    int
)

var subsetCmd = &cobra.Command{
	Use:   "subset <name>",
	Short: "Find the largest set of languages meeting a coverage threshold",
	Long: `Find the largest subsets of languages in which every pair shares at least
--threshold concepts.

The search is exhaustive unless it visits more than --budget nodes, in which
case the best subsets found so far are reported and marked as possibly not
maximal. All subsets of the maximal size are listed, best average coverage
first, up to --max-results. Every search is recorded in the run history.

--export writes the entries of the best subset to a TSV file.`,
	Example: `  # Largest subset with at least 150 shared concepts per pair
  lexcov subset polynesian --threshold 150

  # Export it for cognate detection
  lexcov subset polynesian --threshold 150 --export polynesian-150.tsv

  # Unlimited search
  lexcov subset polynesian --threshold 150 --budget 0`,
	Args: cobra.ExactArgs(1),
	RunE: runSubset,
}

func init() {
	subsetCmd.Flags().IntVar(&subsetThreshold, "threshold", 0, "minimal mutual coverage (default from config)")
	subsetCmd.Flags().IntVar(&subsetBudget, "budget", 0, "search node budget, 0 for unlimited (default from config)")
	subsetCmd.Flags().IntVar(&subsetMaxResults, "max-results", 0, "maximum tied subsets to list, 0 for all (default from config)")
	subsetCmd.Flags().StringVar(&subsetExport, "export", "", "write the best subset to this TSV file")
	subsetCmd.Flags().IntVar(&subsetWorkers, "workers", 0, "goroutines used to build the matrix (default from config)")
}

func runSubset(cmd *cobra.Command, args []string) error {
	name := args[0]
	threshold := intFlag(cmd, "threshold", subsetThreshold, cfg.Threshold)
	opts := analyzer.SubsetOptions{
		Budget:     intFlag(cmd, "budget", subsetBudget, cfg.Budget),
		MaxResults: intFlag(cmd, "max-results", subsetMaxResults, cfg.MaxResults),
	}
	if opts.Budget < 0 {
		return fmt.Errorf("invalid budget: %d (must be 0 or positive)", opts.Budget)
	}
	if opts.MaxResults < 0 {
		return fmt.Errorf("invalid max-results: %d (must be 0 or positive)", opts.MaxResults)
	}

	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	a := analyzer.New(st, analyzer.WithWorkers(intFlag(cmd, "workers", subsetWorkers, cfg.Workers)))

	spinner := output.NewSpinner(fmt.Sprintf("Searching %s", name))
	spinner.SetWriter(cmd.ErrOrStderr())
	spinner.Start()

	res, run, err := a.Subset(cmd.Context(), name, threshold, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	slog.Debug("subset search finished", "run", run.ID, "nodes", res.Nodes, "exhaustive", res.Exhaustive)

	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.RenderSubsetTable(res))

	if subsetExport == "" {
		return nil
	}
	if len(res.Subsets) == 0 {
		return errors.New("nothing to export: the word list has no languages")
	}

	wl, err := st.LoadWordList(name)
	if err != nil {
		return err
	}
	sub := wl.Subset(res.Subsets[0].Languages)
	if err := wordlist.WriteFile(subsetExport, sub); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n✓ Exported %s languages, %s concepts, %s entries to %s\n",
		humanize.Comma(int64(len(sub.Languages()))),
		humanize.Comma(int64(len(sub.Concepts()))),
		humanize.Comma(int64(sub.Len())),
		subsetExport)
	return nil
}
