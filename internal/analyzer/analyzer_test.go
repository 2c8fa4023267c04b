package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/lexcov/internal/store"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.CreateSchema())
	t.Cleanup(func() { st.Close() })
	return st
}

func TestAnalyzer_Report(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.SaveWordList("abc", "abc.tsv", threeLanguages())
	require.NoError(t, err)

	a := New(st)
	report, err := a.Report(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", report.WordList.Name)
	assert.Equal(t, 2, report.MinimalCoverage)
	assert.InDelta(t, 7.0/3.0, report.AverageCoverage, 1e-9)
	assert.InDelta(t, 7.0/12.0, report.CoverageRatio, 1e-9)
	assert.Equal(t, 3, report.Matrix.Coverage("A", "B"))
}

func TestAnalyzer_MatrixCache(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.SaveWordList("abc", "", threeLanguages())
	require.NoError(t, err)

	a := New(st, WithWorkers(4))
	ctx := context.Background()

	first, _, err := a.Matrix(ctx, "abc")
	require.NoError(t, err)
	second, _, err := a.Matrix(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, first, second, "matrix is cached")

	// A re-import under the same name invalidates the cache.
	_, err = st.SaveWordList("abc", "", wordlist.New([]wordlist.Entry{
		{ID: 1, Language: "A", Concept: "c1"},
		{ID: 2, Language: "D", Concept: "c1"},
	}))
	require.NoError(t, err)

	third, _, err := a.Matrix(ctx, "abc")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, []string{"A", "D"}, third.Languages())
}

func TestAnalyzer_NotFound(t *testing.T) {
	a := New(setupTestStore(t))

	_, err := a.Report(context.Background(), "missing")
	assert.True(t, errors.Is(err, store.ErrWordListNotFound), "got %v", err)
}

func TestAnalyzer_Subset(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.SaveWordList("abc", "", threeLanguages())
	require.NoError(t, err)

	a := New(st)
	res, run, err := a.Subset(context.Background(), "abc", 3, SubsetOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []string{"A", "B"}, res.Subsets[0].Languages)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 3, run.Threshold)
	assert.Equal(t, 2, run.MinCoverage)
	assert.Equal(t, 2, run.SubsetSize)
	assert.Equal(t, 1, run.SubsetCount)
	assert.True(t, run.Exhaustive)

	runs, err := st.ListCoverageRuns("abc")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, []string{"A", "B"}, runs[0].Languages)
}

func TestAnalyzer_SubsetEmptyWordList(t *testing.T) {
	st := setupTestStore(t)
	_, err := st.SaveWordList("empty", "", wordlist.New(nil))
	require.NoError(t, err)

	res, run, err := New(st).Subset(context.Background(), "empty", 10, SubsetOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Subsets)
	assert.Empty(t, run.Languages)
}
