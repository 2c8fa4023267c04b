// Package snapshots saves word lists to TSV files before they are removed or
// replaced, and restores them on request.
package snapshots

import (
	"github.com/blackwell-systems/lexcov/internal/store"
)

// Reasons recorded with automatic snapshots.
const (
	ReasonRemove   = "before remove"
	ReasonReimport = "before re-import"
	ReasonUndo     = "before undo"
)

// Manager manages snapshot creation, restoration, and cleanup.
type Manager struct {
	store       *store.Store
	snapshotDir string
}

// New creates a new snapshot Manager writing files under snapshotDir.
func New(store *store.Store, snapshotDir string) *Manager {
	return &Manager{
		store:       store,
		snapshotDir: snapshotDir,
	}
}

// Dir returns the directory snapshot files are written to.
func (m *Manager) Dir() string { return m.snapshotDir }
