package snapshots

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blackwell-systems/lexcov/internal/store"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

// CreateSnapshot writes the named word list to a TSV file in the snapshot
// directory and records it in the store.
func (m *Manager) CreateSnapshot(name, reason string) (*store.Snapshot, error) {
	info, err := m.store.GetWordList(name)
	if err != nil {
		return nil, err
	}

	wl, err := m.store.LoadWordList(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", name, err)
	}

	if err := os.MkdirAll(m.snapshotDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// name-YYYY-MM-DD-HHMMSS-<random>.tsv
	pattern := fmt.Sprintf("%s-%s-*.tsv", fileSafe(name), time.Now().Format("2006-01-02-150405"))
	f, err := os.CreateTemp(m.snapshotDir, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	snapshotPath := f.Name()

	if err := wordlist.Write(f, wl); err != nil {
		f.Close()
		os.Remove(snapshotPath)
		return nil, fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(snapshotPath)
		return nil, fmt.Errorf("failed to write snapshot file: %w", err)
	}

	snap := &store.Snapshot{
		WordListName: info.Name,
		SourcePath:   info.SourcePath,
		Reason:       reason,
		EntryCount:   wl.Len(),
		SnapshotPath: snapshotPath,
	}
	if err := m.store.InsertSnapshot(snap); err != nil {
		// Try to clean up the file if the DB insert fails
		os.Remove(snapshotPath)
		return nil, fmt.Errorf("failed to insert snapshot into database: %w", err)
	}

	return snap, nil
}

// ListSnapshots returns all snapshots, newest first.
func (m *Manager) ListSnapshots() ([]*store.Snapshot, error) {
	snapshots, err := m.store.ListSnapshots()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// CleanupOldSnapshots removes snapshots created before now minus maxAge,
// both file and record, and returns how many were removed.
func (m *Manager) CleanupOldSnapshots(maxAge time.Duration) (int, error) {
	snapshots, err := m.store.ListSnapshots()
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0

	for _, snapshot := range snapshots {
		if !snapshot.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(snapshot.SnapshotPath); err != nil && !os.IsNotExist(err) {
			return deleted, fmt.Errorf("failed to delete snapshot file %s: %w", snapshot.SnapshotPath, err)
		}
		if err := m.store.DeleteSnapshot(snapshot.ID); err != nil {
			return deleted, err
		}
		deleted++
	}

	return deleted, nil
}

// fileSafe replaces characters that cannot appear in a file name.
func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
