package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

// timeLayout has a fixed-width fraction so stored timestamps sort as text.
// Values are parsed back with time.RFC3339Nano.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Word list operations

// SaveWordList stores wl under name, replacing any word list with the same
// name (and its run history) in a single transaction.
func (s *Store) SaveWordList(name, sourcePath string, wl *wordlist.WordList) (*WordListInfo, error) {
	if name == "" {
		return nil, errors.New("word list name cannot be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM wordlists WHERE name = ?`, name); err != nil {
		return nil, wrapErr("failed to replace word list "+name, err)
	}

	info := &WordListInfo{
		Name:          name,
		SourcePath:    sourcePath,
		ImportedAt:    time.Now().UTC(),
		EntryCount:    wl.Len(),
		LanguageCount: len(wl.Languages()),
		ConceptCount:  len(wl.Concepts()),
	}

	result, err := tx.Exec(`
		INSERT INTO wordlists (name, source_path, imported_at, entry_count, language_count, concept_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		info.Name,
		info.SourcePath,
		info.ImportedAt.UTC().Format(timeLayout),
		info.EntryCount,
		info.LanguageCount,
		info.ConceptCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert word list %s: %w", name, err)
	}

	info.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get word list id: %w", err)
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (wordlist_id, entry_id, position, language, concept, form)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer entryStmt.Close()

	extraStmt, err := tx.Prepare(`
		INSERT INTO entry_extras (wordlist_id, entry_id, column_name, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare extras insert: %w", err)
	}
	defer extraStmt.Close()

	for pos, e := range wl.Entries() {
		if _, err := entryStmt.Exec(info.ID, e.ID, pos, e.Language, e.Concept, e.Form); err != nil {
			return nil, fmt.Errorf("failed to insert entry %d: %w", e.ID, err)
		}
		for col, val := range wl.Extras(e.ID) {
			if _, err := extraStmt.Exec(info.ID, e.ID, col, val); err != nil {
				return nil, fmt.Errorf("failed to insert extra %s for entry %d: %w", col, e.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit word list %s: %w", name, err)
	}

	return info, nil
}

const wordListColumns = `id, name, source_path, imported_at, entry_count, language_count, concept_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWordListInfo(row rowScanner) (*WordListInfo, error) {
	var info WordListInfo
	var sourcePath sql.NullString
	var importedAt string

	err := row.Scan(
		&info.ID,
		&info.Name,
		&sourcePath,
		&importedAt,
		&info.EntryCount,
		&info.LanguageCount,
		&info.ConceptCount,
	)
	if err != nil {
		return nil, err
	}

	info.SourcePath = sourcePath.String
	info.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imported_at for %s: %w", info.Name, err)
	}
	return &info, nil
}

// GetWordList returns the metadata of the named word list.
func (s *Store) GetWordList(name string) (*WordListInfo, error) {
	row := s.db.QueryRow(`SELECT `+wordListColumns+` FROM wordlists WHERE name = ?`, name)

	info, err := scanWordListInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrWordListNotFound)
	}
	if err != nil {
		return nil, wrapErr("failed to get word list "+name, err)
	}
	return info, nil
}

// ListWordLists returns the metadata of all word lists ordered by name.
func (s *Store) ListWordLists() ([]*WordListInfo, error) {
	rows, err := s.db.Query(`SELECT ` + wordListColumns + ` FROM wordlists ORDER BY name`)
	if err != nil {
		return nil, wrapErr("failed to list word lists", err)
	}
	defer rows.Close()

	var infos []*WordListInfo
	for rows.Next() {
		info, err := scanWordListInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word list row: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating word lists: %w", err)
	}

	return infos, nil
}

// LoadWordList reads the named word list back with its extras, in the
// original entry order.
func (s *Store) LoadWordList(name string) (*wordlist.WordList, error) {
	info, err := s.GetWordList(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT entry_id, language, concept, form
		FROM entries
		WHERE wordlist_id = ?
		ORDER BY position
	`, info.ID)
	if err != nil {
		return nil, wrapErr("failed to load entries for "+name, err)
	}
	defer rows.Close()

	var entries []wordlist.Entry
	for rows.Next() {
		var e wordlist.Entry
		var form sql.NullString
		if err := rows.Scan(&e.ID, &e.Language, &e.Concept, &form); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		e.Form = form.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	extras, err := s.loadExtras(info.ID)
	if err != nil {
		return nil, err
	}

	return wordlist.NewWithExtras(entries, extras), nil
}

func (s *Store) loadExtras(wordListID int64) (map[int]map[string]string, error) {
	rows, err := s.db.Query(`
		SELECT entry_id, column_name, value
		FROM entry_extras
		WHERE wordlist_id = ?
	`, wordListID)
	if err != nil {
		return nil, wrapErr("failed to load extras", err)
	}
	defer rows.Close()

	extras := make(map[int]map[string]string)
	for rows.Next() {
		var id int
		var col string
		var val sql.NullString
		if err := rows.Scan(&id, &col, &val); err != nil {
			return nil, fmt.Errorf("failed to scan extra row: %w", err)
		}
		if extras[id] == nil {
			extras[id] = make(map[string]string)
		}
		extras[id][col] = val.String
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extras: %w", err)
	}

	return extras, nil
}

// DeleteWordList removes a word list together with its entries and runs.
func (s *Store) DeleteWordList(name string) error {
	result, err := s.db.Exec(`DELETE FROM wordlists WHERE name = ?`, name)
	if err != nil {
		return wrapErr("failed to delete word list "+name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", name, ErrWordListNotFound)
	}

	return nil
}

// Coverage run operations

// InsertCoverageRun records a subset search. An empty ID is replaced by a
// new UUID.
func (s *Store) InsertCoverageRun(run *CoverageRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	langs := run.Languages
	if langs == nil {
		langs = []string{}
	}
	languagesJSON, err := json.Marshal(langs)
	if err != nil {
		return fmt.Errorf("failed to marshal languages: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO coverage_runs
		(id, wordlist_id, threshold, min_coverage, subset_size, subset_count, languages, exhaustive, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.WordListID,
		run.Threshold,
		run.MinCoverage,
		run.SubsetSize,
		run.SubsetCount,
		string(languagesJSON),
		run.Exhaustive,
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return wrapErr("failed to insert coverage run", err)
	}

	return nil
}

// ListCoverageRuns returns the runs recorded for the named word list, newest
// first.
func (s *Store) ListCoverageRuns(name string) ([]*CoverageRun, error) {
	info, err := s.GetWordList(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, wordlist_id, threshold, min_coverage, subset_size, subset_count, languages, exhaustive, created_at
		FROM coverage_runs
		WHERE wordlist_id = ?
		ORDER BY created_at DESC, id
	`, info.ID)
	if err != nil {
		return nil, wrapErr("failed to list coverage runs", err)
	}
	defer rows.Close()

	var runs []*CoverageRun
	for rows.Next() {
		var run CoverageRun
		var languagesJSON string
		var createdAt string

		err := rows.Scan(
			&run.ID,
			&run.WordListID,
			&run.Threshold,
			&run.MinCoverage,
			&run.SubsetSize,
			&run.SubsetCount,
			&languagesJSON,
			&run.Exhaustive,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coverage run row: %w", err)
		}

		if err := json.Unmarshal([]byte(languagesJSON), &run.Languages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal languages for run %s: %w", run.ID, err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for run %s: %w", run.ID, err)
		}

		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coverage runs: %w", err)
	}

	return runs, nil
}

// Snapshot operations

// InsertSnapshot records a snapshot and sets its ID. A zero CreatedAt is set
// to the current time.
func (s *Store) InsertSnapshot(snap *Snapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.Exec(`
		INSERT INTO snapshots (wordlist_name, source_path, reason, entry_count, snapshot_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		snap.WordListName,
		snap.SourcePath,
		snap.Reason,
		snap.EntryCount,
		snap.SnapshotPath,
		snap.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return wrapErr("failed to insert snapshot", err)
	}

	snap.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get snapshot ID: %w", err)
	}
	return nil
}

const snapshotColumns = `id, wordlist_name, source_path, reason, entry_count, snapshot_path, created_at`

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	var sourcePath sql.NullString
	var createdAt string

	err := row.Scan(
		&snap.ID,
		&snap.WordListName,
		&sourcePath,
		&snap.Reason,
		&snap.EntryCount,
		&snap.SnapshotPath,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	snap.SourcePath = sourcePath.String
	snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for snapshot %d: %w", snap.ID, err)
	}
	return &snap, nil
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(id int64) (*Snapshot, error) {
	row := s.db.QueryRow(`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%d: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get snapshot %d", id), err)
	}
	return snap, nil
}

// ListSnapshots returns all snapshots, newest first.
func (s *Store) ListSnapshots() ([]*Snapshot, error) {
	rows, err := s.db.Query(`SELECT ` + snapshotColumns + ` FROM snapshots ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrapErr("failed to list snapshots", err)
	}
	defer rows.Close()

	var snaps []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snaps, nil
}

// DeleteSnapshot removes a snapshot record. The snapshot file is left alone.
func (s *Store) DeleteSnapshot(id int64) error {
	result, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to delete snapshot %d", id), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%d: %w", id, ErrSnapshotNotFound)
	}
	return nil
}
