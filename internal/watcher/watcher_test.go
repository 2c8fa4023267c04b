package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/lexcov/internal/store"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

const initialTSV = "ID\tDOCULECT\tCONCEPT\tIPA\n" +
	"1\tMaori\thand\tringa\n" +
	"2\tHawaiian\thand\tlima\n"

const updatedTSV = initialTSV +
	"3\tTongan\thand\tnima\n" +
	"4\tTongan\teight\tvalu\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// collect starts a watcher on path and returns the channel its updates are
// delivered on.
func collect(t *testing.T, path string, opts ...Option) (*Watcher, <-chan Update) {
	t.Helper()
	updates := make(chan Update, 16)
	w, err := New(path, func(u Update) { updates <- u }, append([]Option{WithDebounce(20 * time.Millisecond)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Stop() })
	return w, updates
}

func next(t *testing.T, updates <-chan Update) Update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

// waitFor skips updates produced by partially written files until one with
// the wanted number of languages arrives.
func waitFor(t *testing.T, updates <-chan Update, languages int) Update {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case u := <-updates:
			if u.Err == nil && u.Matrix != nil && u.Matrix.Size() == languages {
				return u
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a %d-language update", languages)
			return Update{}
		}
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New("words.tsv", nil)
	assert.Error(t, err, "nil handler")

	_, err = New("words.tsv", func(Update) {}, WithStore(&store.Store{}, ""))
	assert.Error(t, err, "empty store name")

	w, err := New("words.tsv", func(Update) {})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Path()))
}

func TestWatcher_InitialUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polynesian.tsv")
	writeFile(t, path, initialTSV)

	w, updates := collect(t, path)
	assert.True(t, w.Exists())

	u := next(t, updates)
	require.NoError(t, u.Err)
	assert.Equal(t, path, u.Path)
	assert.Equal(t, []string{"Hawaiian", "Maori"}, u.Matrix.Languages())
	assert.Equal(t, 1, u.Matrix.Coverage("Hawaiian", "Maori"))
	assert.Nil(t, u.Info)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polynesian.tsv")
	writeFile(t, path, initialTSV)

	_, updates := collect(t, path, WithWorkers(2))
	next(t, updates)

	writeFile(t, path, updatedTSV)

	u := waitFor(t, updates, 3)
	assert.Equal(t, []string{"Hawaiian", "Maori", "Tongan"}, u.Matrix.Languages())
	assert.Equal(t, 2, u.Matrix.ConceptCount())
}

func TestWatcher_ReloadsOnRenameOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polynesian.tsv")
	writeFile(t, path, initialTSV)

	_, updates := collect(t, path)
	next(t, updates)

	tmp := filepath.Join(dir, ".polynesian.tsv.swp")
	writeFile(t, tmp, updatedTSV)
	require.NoError(t, os.Rename(tmp, path))

	u := waitFor(t, updates, 3)
	assert.Equal(t, 4, u.WordList.Len())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polynesian.tsv")
	writeFile(t, path, initialTSV)

	_, updates := collect(t, path)
	next(t, updates)

	writeFile(t, filepath.Join(dir, "other.tsv"), updatedTSV)

	select {
	case u := <-updates:
		t.Fatalf("unexpected update for %s", u.Path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.tsv")
	writeFile(t, path, initialTSV)

	_, updates := collect(t, path)
	next(t, updates)

	writeFile(t, path, "ID\tFORM\n1\tlima\n")

	for {
		u := next(t, updates)
		if u.Err != nil {
			assert.ErrorIs(t, u.Err, wordlist.ErrMissingColumn)
			assert.Nil(t, u.Matrix)
			return
		}
	}
}

func TestWatcher_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.tsv")

	w, updates := collect(t, path)
	assert.False(t, w.Exists())

	u := next(t, updates)
	assert.Error(t, u.Err, "initial load of a missing file fails")

	writeFile(t, path, initialTSV)
	u = waitFor(t, updates, 2)
	assert.Equal(t, 2, u.WordList.Len())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope", "words.tsv"), func(Update) {})
	require.NoError(t, err)
	assert.Error(t, w.Start())
}

func TestWatcher_WithStore(t *testing.T) {
	st, err := store.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.CreateSchema())
	t.Cleanup(func() { st.Close() })

	path := filepath.Join(t.TempDir(), "polynesian.tsv")
	writeFile(t, path, initialTSV)

	_, updates := collect(t, path, WithStore(st, "polynesian"))
	u := next(t, updates)
	require.NoError(t, u.Err)
	require.NotNil(t, u.Info)
	assert.Equal(t, 2, u.Info.EntryCount)

	writeFile(t, path, updatedTSV)
	u = waitFor(t, updates, 3)
	assert.Equal(t, 4, u.Info.EntryCount)

	info, err := st.GetWordList("polynesian")
	require.NoError(t, err)
	assert.Equal(t, 4, info.EntryCount)
	assert.Equal(t, path, info.SourcePath)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polynesian.tsv")
	writeFile(t, path, initialTSV)

	w, updates := collect(t, path)
	next(t, updates)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())

	writeFile(t, path, updatedTSV)
	select {
	case <-updates:
		t.Fatal("update delivered after Stop")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestReload_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polynesian.tsv")
	writeFile(t, path, initialTSV)

	w, err := New(path, func(Update) {}, WithWorkers(2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := w.Reload(ctx)
	assert.ErrorIs(t, u.Err, context.Canceled)
	assert.NotNil(t, u.WordList)
}
