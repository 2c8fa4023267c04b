package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/analyzer"
	"github.com/blackwell-systems/lexcov/internal/output"
)

var (
	coverageCheck   int
	coveragePairs   bool
	coverageMatrix  bool
	coverageLimit   int
	coverageWorkers int
)

var coverageCmd = &cobra.Command{
	Use:   "coverage <name>",
	Short: "Show mutual coverage of a word list",
	Long: `Show the minimal and average mutual coverage of an imported word list.

The minimal mutual coverage is the largest threshold every language pair
meets. --check N verifies that every pair shares at least N concepts and
exits with an error if one does not, listing the pairs that fall short.
--pairs lists the weakest pairs and --matrix prints the full pairwise table.`,
	Example: `  # Summary
  lexcov coverage polynesian

  # Fail unless every pair shares 200 concepts
  lexcov coverage polynesian --check 200

  # The 10 weakest pairs
  lexcov coverage polynesian --pairs --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runCoverage,
}

func init() {
	coverageCmd.Flags().IntVar(&coverageCheck, "check", 0, "fail unless every pair shares at least this many concepts")
	coverageCmd.Flags().BoolVar(&coveragePairs, "pairs", false, "list the weakest language pairs")
	coverageCmd.Flags().BoolVar(&coverageMatrix, "matrix", false, "print the full coverage matrix")
	coverageCmd.Flags().IntVar(&coverageLimit, "limit", 20, "number of pairs to list (0 for all)")
	coverageCmd.Flags().IntVar(&coverageWorkers, "workers", 0, "goroutines used to build the matrix (default from config)")
}

func runCoverage(cmd *cobra.Command, args []string) error {
	if coverageLimit < 0 {
		return fmt.Errorf("invalid limit: %d (must be 0 or positive)", coverageLimit)
	}

	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	workers := intFlag(cmd, "workers", coverageWorkers, cfg.Workers)
	a := analyzer.New(st, analyzer.WithWorkers(workers))

	report, err := a.Report(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	checking := cmd.Flags().Changed("check")
	threshold := cfg.Threshold
	if checking {
		threshold = coverageCheck
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.RenderCoverageSummary(report))

	if coverageMatrix {
		fmt.Fprintln(out)
		fmt.Fprint(out, output.RenderCoverageMatrix(report.Matrix, threshold))
	}

	if coveragePairs {
		fmt.Fprintln(out)
		fmt.Fprint(out, output.RenderPairTable(report.Matrix.WeakestPairs(coverageLimit), threshold))
	}

	if !checking {
		return nil
	}

	ok := analyzer.MutualCoverageCheck(report.Matrix, coverageCheck)
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderCheck(coverageCheck, ok, pairsBelow(report.Matrix, coverageCheck, coverageLimit)))
	if !ok {
		return fmt.Errorf("mutual coverage %d is below %d", report.MinimalCoverage, coverageCheck)
	}
	return nil
}

// pairsBelow returns up to limit of the weakest pairs sharing fewer than
// threshold concepts.
func pairsBelow(m *analyzer.Matrix, threshold, limit int) []analyzer.Pair {
	var below []analyzer.Pair
	for _, p := range m.WeakestPairs(0) {
		if p.Coverage >= threshold {
			break
		}
		below = append(below, p)
		if limit > 0 && len(below) == limit {
			break
		}
	}
	return below
}
