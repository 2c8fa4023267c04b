package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/output"
	"github.com/blackwell-systems/lexcov/internal/snapshots"
	"github.com/blackwell-systems/lexcov/internal/store"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

var (
	importName       string
	importNoSnapshot bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a tab-separated word list",
	Long: `Import a tab-separated word list into the database.

The file needs a language column (DOCULECT, LANGUAGE, TAXON or LANGUAGE_NAME)
and a concept column (CONCEPT, GLOSS or PARAMETER). A form column (IPA, FORM,
VALUE or TOKENS) and an ID column are optional; any other column is stored as
is. Lines starting with # are ignored.

Importing under an existing name replaces that word list and drops its run
history. The replaced list is saved as a snapshot first; see 'lexcov undo'.`,
	Example: `  # Import as "polynesian"
  lexcov import data/polynesian.tsv

  # Import under a different name
  lexcov import data/polynesian.tsv --name poly-2024`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "word list name (default: file name without extension)")
	importCmd.Flags().BoolVar(&importNoSnapshot, "no-snapshot", false, "do not snapshot a word list this import replaces")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := importName
	if name == "" {
		name = defaultName(path)
	}

	spinner := output.NewSpinner(fmt.Sprintf("Importing %s", filepath.Base(path)))
	spinner.SetWriter(cmd.ErrOrStderr())
	spinner.Start()
	defer spinner.Stop()

	wl, err := wordlist.ReadFile(path)
	if err != nil {
		return err
	}

	st, err := openStore(true)
	if err != nil {
		return err
	}
	defer st.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if !importNoSnapshot {
		if _, err := snapshotExisting(st, name); err != nil {
			return err
		}
	}

	info, err := st.SaveWordList(name, abs, wl)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	spinner.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s: %s entries, %s languages, %s concepts\n",
		info.Name,
		humanize.Comma(int64(info.EntryCount)),
		humanize.Comma(int64(info.LanguageCount)),
		humanize.Comma(int64(info.ConceptCount)))
	return nil
}

// snapshotExisting saves the word list called name, if there is one, before
// it gets replaced.
func snapshotExisting(st *store.Store, name string) (*store.Snapshot, error) {
	mgr, err := newSnapshotManager(st)
	if err != nil {
		return nil, err
	}
	snap, err := mgr.CreateSnapshot(name, snapshots.ReasonReimport)
	if errors.Is(err, store.ErrWordListNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", name, err)
	}
	return snap, nil
}
