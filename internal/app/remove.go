package app

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/snapshots"
	"github.com/blackwell-systems/lexcov/internal/store"
)

var (
	removeFlagYes        bool
	removeFlagNoSnapshot bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove an imported word list",
	Long: `Remove an imported word list together with its entries and run history.

The source file is not touched. A snapshot of the word list is saved first
so the removal can be reverted with 'lexcov undo'.`,
	Example: `  # Remove with confirmation
  lexcov remove polynesian

  # Remove without asking
  lexcov remove polynesian --yes

  # Remove without saving a snapshot
  lexcov remove polynesian --yes --no-snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeFlagYes, "yes", "y", false, "skip confirmation")
	removeCmd.Flags().BoolVar(&removeFlagNoSnapshot, "no-snapshot", false, "skip automatic snapshot (dangerous)")
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	info, err := st.GetWordList(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !removeFlagYes {
		question := fmt.Sprintf("Remove %s (%s entries)?", info.Name, humanize.Comma(int64(info.EntryCount)))
		if !confirm(cmd.InOrStdin(), out, question) {
			fmt.Fprintln(out, "Removal cancelled.")
			return nil
		}
	}

	var snap *store.Snapshot
	if !removeFlagNoSnapshot {
		mgr, err := newSnapshotManager(st)
		if err != nil {
			return err
		}
		snap, err = mgr.CreateSnapshot(info.Name, snapshots.ReasonRemove)
		if err != nil {
			return fmt.Errorf("failed to create snapshot: %w", err)
		}
	}

	if err := st.DeleteWordList(name); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Removed %s\n", name)
	if snap != nil {
		fmt.Fprintf(out, "  Snapshot %d saved. Restore with: lexcov undo %d\n", snap.ID, snap.ID)
	}
	return nil
}
