package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/output"
	"github.com/blackwell-systems/lexcov/internal/snapshots"
	"github.com/blackwell-systems/lexcov/internal/store"
)

var (
	undoFlagList  bool
	undoFlagYes   bool
	undoFlagPrune time.Duration
)

var undoCmd = &cobra.Command{
	Use:   "undo [snapshot-id | latest]",
	Short: "Restore a word list from a snapshot",
	Long: `Restore a removed or replaced word list from a snapshot.

Snapshots are created automatically before 'lexcov remove' and before an
import replaces an existing word list. Restoring overwrites any word list
with the same name, which is itself snapshotted first.

Arguments:
  snapshot-id  The numeric ID of the snapshot to restore
  latest       Restore the most recent snapshot`,
	Example: `  lexcov undo --list           # List all snapshots
  lexcov undo latest           # Restore latest snapshot
  lexcov undo 42               # Restore snapshot ID 42
  lexcov undo 42 --yes         # Restore without confirmation
  lexcov undo --prune 720h     # Delete snapshots older than 30 days`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func init() {
	undoCmd.Flags().BoolVar(&undoFlagList, "list", false, "list available snapshots")
	undoCmd.Flags().BoolVarP(&undoFlagYes, "yes", "y", false, "skip confirmation")
	undoCmd.Flags().DurationVar(&undoFlagPrune, "prune", 0, "delete snapshots older than this age")
}

func runUndo(cmd *cobra.Command, args []string) error {
	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	mgr, err := newSnapshotManager(st)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if undoFlagList {
		snaps, err := mgr.ListSnapshots()
		if err != nil {
			return err
		}
		fmt.Fprint(out, output.RenderSnapshotTable(snaps))
		return nil
	}

	if undoFlagPrune > 0 {
		deleted, err := mgr.CleanupOldSnapshots(undoFlagPrune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Deleted %d snapshot(s) older than %s\n", deleted, undoFlagPrune)
		return nil
	}

	if len(args) == 0 {
		return errors.New("snapshot ID or 'latest' required\n\nUse 'lexcov undo --list' to see available snapshots")
	}

	id, err := resolveSnapshotID(mgr, args[0])
	if err != nil {
		return err
	}

	snap, err := st.GetSnapshot(id)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return fmt.Errorf("snapshot %d not found\n\nRun 'lexcov undo --list' to see available snapshots: %w", id, err)
		}
		return err
	}

	fmt.Fprintln(out, "Snapshot Details:")
	fmt.Fprintf(out, "  ID:        %d\n", snap.ID)
	fmt.Fprintf(out, "  Word list: %s\n", snap.WordListName)
	fmt.Fprintf(out, "  Created:   %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Reason:    %s\n", snap.Reason)
	fmt.Fprintf(out, "  Entries:   %s\n", humanize.Comma(int64(snap.EntryCount)))
	fmt.Fprintln(out)

	if !undoFlagYes {
		if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Restore %s?", snap.WordListName)) {
			fmt.Fprintln(out, "Restoration cancelled.")
			return nil
		}
	}

	res, err := mgr.RestoreSnapshot(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Restored %s: %s entries, %s languages, %s concepts\n",
		res.WordList.Name,
		humanize.Comma(int64(res.WordList.EntryCount)),
		humanize.Comma(int64(res.WordList.LanguageCount)),
		humanize.Comma(int64(res.WordList.ConceptCount)))
	if res.Replaced != nil {
		fmt.Fprintf(out, "  Previous %s saved as snapshot %d\n", res.WordList.Name, res.Replaced.ID)
	}
	return nil
}

// resolveSnapshotID turns "latest" or a numeric argument into a snapshot ID.
func resolveSnapshotID(mgr *snapshots.Manager, arg string) (int64, error) {
	if strings.EqualFold(arg, "latest") {
		snaps, err := mgr.ListSnapshots()
		if err != nil {
			return 0, err
		}
		if len(snaps) == 0 {
			return 0, errors.New("no snapshots available\n\nSnapshots are created automatically by 'lexcov remove' and re-imports")
		}
		// Snapshots are ordered newest first
		return snaps[0].ID, nil
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot ID: %s (must be a number or 'latest')", arg)
	}
	return id, nil
}
