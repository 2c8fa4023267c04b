package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history <name>",
	Short: "Show recorded subset searches for a word list",
	Long: `Show the subset searches recorded for a word list, newest first.

Re-importing a word list clears its history.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListCoverageRuns(args[0])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderRunTable(runs))
	return nil
}
