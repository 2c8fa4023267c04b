package snapshots

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/lexcov/internal/store"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

// RestoreResult describes a completed restore.
type RestoreResult struct {
	Snapshot *store.Snapshot
	WordList *store.WordListInfo
	// Replaced is the snapshot taken of the word list that the restore
	// overwrote, or nil when no list of that name existed.
	Replaced *store.Snapshot
}

// RestoreSnapshot re-imports the word list saved in snapshot id under its
// original name. A word list currently holding that name is snapshotted
// first, so the restore can itself be undone.
func (m *Manager) RestoreSnapshot(id int64) (*RestoreResult, error) {
	snap, err := m.store.GetSnapshot(id)
	if err != nil {
		return nil, err
	}

	wl, err := wordlist.ReadFile(snap.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot file: %w", err)
	}

	res := &RestoreResult{Snapshot: snap}

	replaced, err := m.CreateSnapshot(snap.WordListName, ReasonUndo)
	switch {
	case errors.Is(err, store.ErrWordListNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to snapshot current %s: %w", snap.WordListName, err)
	default:
		res.Replaced = replaced
	}

	res.WordList, err = m.store.SaveWordList(snap.WordListName, snap.SourcePath, wl)
	if err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", snap.WordListName, err)
	}

	return res, nil
}
