package store

import "time"

// WordListInfo describes a stored word list without its entries.
type WordListInfo struct {
	ID            int64
	Name          string
	SourcePath    string
	ImportedAt    time.Time
	EntryCount    int
	LanguageCount int
	ConceptCount  int
}

// CoverageRun records one largest-subset search against a word list.
type CoverageRun struct {
	ID          string // uuid, assigned on insert when empty
	WordListID  int64
	Threshold   int
	MinCoverage int
	SubsetSize  int
	SubsetCount int
	Languages   []string // best subset
	Exhaustive  bool
	CreatedAt   time.Time
}

// Snapshot records a word list saved to a TSV file before it was removed or
// replaced. Snapshots outlive the word list they were taken from.
type Snapshot struct {
	ID           int64
	WordListName string
	SourcePath   string
	Reason       string
	EntryCount   int
	SnapshotPath string
	CreatedAt    time.Time
}
