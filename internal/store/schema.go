package store

const schema = `
CREATE TABLE IF NOT EXISTS wordlists (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    source_path TEXT,
    imported_at TIMESTAMP NOT NULL,
    entry_count INTEGER NOT NULL,
    language_count INTEGER NOT NULL,
    concept_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    wordlist_id INTEGER NOT NULL,
    entry_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    language TEXT NOT NULL,
    concept TEXT NOT NULL,
    form TEXT,
    PRIMARY KEY (wordlist_id, entry_id),
    FOREIGN KEY (wordlist_id) REFERENCES wordlists(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS entry_extras (
    wordlist_id INTEGER NOT NULL,
    entry_id INTEGER NOT NULL,
    column_name TEXT NOT NULL,
    value TEXT,
    PRIMARY KEY (wordlist_id, entry_id, column_name),
    FOREIGN KEY (wordlist_id, entry_id) REFERENCES entries(wordlist_id, entry_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS coverage_runs (
    id TEXT PRIMARY KEY,
    wordlist_id INTEGER NOT NULL,
    threshold INTEGER NOT NULL,
    min_coverage INTEGER NOT NULL,
    subset_size INTEGER NOT NULL,
    subset_count INTEGER NOT NULL,
    languages TEXT,
    exhaustive BOOLEAN,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (wordlist_id) REFERENCES wordlists(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    wordlist_name TEXT NOT NULL,
    source_path TEXT,
    reason TEXT NOT NULL,
    entry_count INTEGER NOT NULL,
    snapshot_path TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_language ON entries(wordlist_id, language);
CREATE INDEX IF NOT EXISTS idx_entries_concept ON entries(wordlist_id, concept);
CREATE INDEX IF NOT EXISTS idx_runs_wordlist ON coverage_runs(wordlist_id);
CREATE INDEX IF NOT EXISTS idx_runs_created ON coverage_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
`
