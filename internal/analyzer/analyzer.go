package analyzer

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/blackwell-systems/lexcov/internal/store"
)

const defaultCacheSize = 16

// Analyzer computes coverage statistics for word lists kept in a store.
// Matrices are cached per stored word list; a re-import gets a new ID and
// therefore a fresh matrix.
type Analyzer struct {
	store   *store.Store
	workers int
	cache   *lru.Cache[int64, *Matrix]
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorkers sets the number of goroutines used to build matrices.
// Values below 2 build matrices sequentially.
func WithWorkers(n int) Option {
	return func(a *Analyzer) { a.workers = n }
}

// New creates a new Analyzer instance with the given store.
func New(st *store.Store, opts ...Option) *Analyzer {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[int64, *Matrix](defaultCacheSize)

	a := &Analyzer{store: st, workers: 1, cache: cache}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Matrix returns the coverage matrix of the named word list.
func (a *Analyzer) Matrix(ctx context.Context, name string) (*Matrix, *store.WordListInfo, error) {
	info, err := a.store.GetWordList(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get word list: %w", err)
	}

	if m, ok := a.cache.Get(info.ID); ok {
		return m, info, nil
	}

	wl, err := a.store.LoadWordList(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load word list: %w", err)
	}

	var m *Matrix
	if a.workers > 1 {
		m, err = ComputeMatrixParallel(ctx, wl, a.workers)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to compute coverage matrix: %w", err)
		}
	} else {
		m = ComputeMatrix(wl)
	}

	a.cache.Add(info.ID, m)
	return m, info, nil
}

// Report returns the matrix together with minimal and average coverage.
func (a *Analyzer) Report(ctx context.Context, name string) (*Report, error) {
	m, info, err := a.Matrix(ctx, name)
	if err != nil {
		return nil, err
	}

	return &Report{
		WordList:        info,
		Matrix:          m,
		MinimalCoverage: MinimalMutualCoverage(m),
		AverageCoverage: AverageMutualCoverage(m, m.languages),
		CoverageRatio:   AverageCoverageRatio(m),
	}, nil
}

// Subset runs LargestSubset over all languages of the named word list and
// records the outcome in the store's run history.
func (a *Analyzer) Subset(ctx context.Context, name string, threshold int, opts SubsetOptions) (*SubsetResult, *store.CoverageRun, error) {
	m, info, err := a.Matrix(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	res := LargestSubset(m, m.languages, threshold, opts)

	run := &store.CoverageRun{
		WordListID:  info.ID,
		Threshold:   threshold,
		MinCoverage: MinimalMutualCoverage(m),
		SubsetSize:  res.Count,
		SubsetCount: len(res.Subsets),
		Exhaustive:  res.Exhaustive,
		CreatedAt:   time.Now().UTC(),
	}
	if len(res.Subsets) > 0 {
		run.Languages = res.Subsets[0].Languages
	}

	if err := a.store.InsertCoverageRun(run); err != nil {
		return nil, nil, fmt.Errorf("failed to record coverage run: %w", err)
	}

	return &res, run, nil
}
