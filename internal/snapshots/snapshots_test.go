package snapshots

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/lexcov/internal/store"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

func setup(t *testing.T) (*store.Store, *Manager) {
	t.Helper()
	st, err := store.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.CreateSchema())
	t.Cleanup(func() { st.Close() })
	return st, New(st, filepath.Join(t.TempDir(), "snapshots"))
}

func sample() *wordlist.WordList {
	return wordlist.NewWithExtras([]wordlist.Entry{
		{ID: 1, Language: "Maori", Concept: "hand", Form: "ringa"},
		{ID: 2, Language: "Hawaiian", Concept: "hand", Form: "lima"},
		{ID: 3, Language: "Tongan", Concept: "eight", Form: "valu"},
	}, map[int]map[string]string{1: {"COGID": "7"}})
}

func TestCreateSnapshot(t *testing.T) {
	st, mgr := setup(t)
	_, err := st.SaveWordList("polynesian", "/data/polynesian.tsv", sample())
	require.NoError(t, err)

	snap, err := mgr.CreateSnapshot("polynesian", ReasonRemove)
	require.NoError(t, err)

	assert.NotZero(t, snap.ID)
	assert.Equal(t, "polynesian", snap.WordListName)
	assert.Equal(t, "/data/polynesian.tsv", snap.SourcePath)
	assert.Equal(t, ReasonRemove, snap.Reason)
	assert.Equal(t, 3, snap.EntryCount)
	assert.Equal(t, mgr.Dir(), filepath.Dir(snap.SnapshotPath))
	assert.True(t, strings.HasPrefix(filepath.Base(snap.SnapshotPath), "polynesian-"))

	wl, err := wordlist.ReadFile(snap.SnapshotPath)
	require.NoError(t, err)
	assert.Equal(t, sample().Entries(), wl.Entries())
	assert.Equal(t, "7", wl.Extras(1)["COGID"])

	snaps, err := mgr.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, snap.ID, snaps[0].ID)
}

func TestCreateSnapshot_UniqueFiles(t *testing.T) {
	st, mgr := setup(t)
	_, err := st.SaveWordList("a/b", "", sample())
	require.NoError(t, err)

	first, err := mgr.CreateSnapshot("a/b", ReasonRemove)
	require.NoError(t, err)
	second, err := mgr.CreateSnapshot("a/b", ReasonRemove)
	require.NoError(t, err)

	assert.NotEqual(t, first.SnapshotPath, second.SnapshotPath)
	assert.True(t, strings.HasPrefix(filepath.Base(first.SnapshotPath), "a_b-"))
}

func TestCreateSnapshot_NotFound(t *testing.T) {
	_, mgr := setup(t)

	_, err := mgr.CreateSnapshot("missing", ReasonRemove)
	assert.ErrorIs(t, err, store.ErrWordListNotFound)

	_, err = os.Stat(mgr.Dir())
	assert.True(t, os.IsNotExist(err), "no directory for a failed snapshot")
}

func TestRestoreSnapshot_AfterRemove(t *testing.T) {
	st, mgr := setup(t)
	_, err := st.SaveWordList("polynesian", "/data/polynesian.tsv", sample())
	require.NoError(t, err)

	snap, err := mgr.CreateSnapshot("polynesian", ReasonRemove)
	require.NoError(t, err)
	require.NoError(t, st.DeleteWordList("polynesian"))

	res, err := mgr.RestoreSnapshot(snap.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Replaced)
	assert.Equal(t, 3, res.WordList.EntryCount)
	assert.Equal(t, "/data/polynesian.tsv", res.WordList.SourcePath)

	wl, err := st.LoadWordList("polynesian")
	require.NoError(t, err)
	assert.Equal(t, sample().Entries(), wl.Entries())
}

func TestRestoreSnapshot_SnapshotsCurrentList(t *testing.T) {
	st, mgr := setup(t)
	_, err := st.SaveWordList("polynesian", "", sample())
	require.NoError(t, err)

	snap, err := mgr.CreateSnapshot("polynesian", ReasonReimport)
	require.NoError(t, err)

	smaller := wordlist.New([]wordlist.Entry{{ID: 1, Language: "Samoan", Concept: "hand", Form: "lima"}})
	_, err = st.SaveWordList("polynesian", "", smaller)
	require.NoError(t, err)

	res, err := mgr.RestoreSnapshot(snap.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Replaced)
	assert.Equal(t, ReasonUndo, res.Replaced.Reason)
	assert.Equal(t, 1, res.Replaced.EntryCount)

	// Undo the undo.
	_, err = mgr.RestoreSnapshot(res.Replaced.ID)
	require.NoError(t, err)
	wl, err := st.LoadWordList("polynesian")
	require.NoError(t, err)
	assert.Equal(t, []string{"Samoan"}, wl.Languages())
}

func TestRestoreSnapshot_Errors(t *testing.T) {
	st, mgr := setup(t)

	_, err := mgr.RestoreSnapshot(42)
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)

	require.NoError(t, st.InsertSnapshot(&store.Snapshot{
		WordListName: "gone",
		Reason:       ReasonRemove,
		SnapshotPath: filepath.Join(t.TempDir(), "deleted.tsv"),
	}))
	snaps, err := st.ListSnapshots()
	require.NoError(t, err)

	_, err = mgr.RestoreSnapshot(snaps[0].ID)
	assert.Error(t, err, "missing snapshot file")
}

func TestCleanupOldSnapshots(t *testing.T) {
	st, mgr := setup(t)
	_, err := st.SaveWordList("polynesian", "", sample())
	require.NoError(t, err)

	recent, err := mgr.CreateSnapshot("polynesian", ReasonRemove)
	require.NoError(t, err)

	oldPath := filepath.Join(t.TempDir(), "old.tsv")
	require.NoError(t, os.WriteFile(oldPath, []byte("ID\tDOCULECT\tCONCEPT\tIPA\n"), 0644))
	old := &store.Snapshot{
		WordListName: "polynesian",
		Reason:       ReasonRemove,
		SnapshotPath: oldPath,
		CreatedAt:    time.Now().Add(-100 * 24 * time.Hour),
	}
	require.NoError(t, st.InsertSnapshot(old))

	deleted, err := mgr.CleanupOldSnapshots(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(recent.SnapshotPath)
	assert.NoError(t, err)

	snaps, err := mgr.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, recent.ID, snaps[0].ID)
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "poly_2024_v1", fileSafe("poly/2024 v1"))
	assert.Equal(t, "polynesian", fileSafe("polynesian"))
}
