package app

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/lexcov/internal/snapshots"
	"github.com/blackwell-systems/lexcov/internal/store"
)

// openStore opens the configured database. With createSchema the tables are
// created if missing; otherwise an empty database reports
// store.ErrNotInitialized on first use.
func openStore(createSchema bool) (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if createSchema {
		if err := st.CreateSchema(); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return st, nil
}

// getSnapshotDir returns the directory snapshot files are kept in, next to
// the database.
func getSnapshotDir() (string, error) {
	path, err := getDBPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "snapshots"), nil
}

// newSnapshotManager returns a snapshot manager over st.
func newSnapshotManager(st *store.Store) (*snapshots.Manager, error) {
	dir, err := getSnapshotDir()
	if err != nil {
		return nil, err
	}
	return snapshots.New(st, dir), nil
}

// defaultName derives a word-list name from a file path: the base name
// without its extension.
func defaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// intFlag returns the flag's value when it was set on the command line and
// fallback otherwise.
func intFlag(cmd *cobra.Command, name string, value, fallback int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
