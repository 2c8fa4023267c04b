package analyzer

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

// ComputeMatrix counts, for every pair of languages, the concepts both attest.
// An empty word list yields an empty matrix.
func ComputeMatrix(wl *wordlist.WordList) *Matrix {
	m := newMatrix(wl.Languages(), len(wl.Concepts()))
	for _, langs := range conceptSets(wl, m) {
		m.addConcept(m.counts, langs)
	}
	return m
}

// ComputeMatrixParallel is ComputeMatrix with the concepts split across
// workers. Each worker fills a private buffer; the buffers are summed, so the
// result is identical to ComputeMatrix.
func ComputeMatrixParallel(ctx context.Context, wl *wordlist.WordList, workers int) (*Matrix, error) {
	if workers < 1 {
		workers = 1
	}

	m := newMatrix(wl.Languages(), len(wl.Concepts()))
	sets := conceptSets(wl, m)
	if len(sets) == 0 {
		return m, nil
	}
	if workers > len(sets) {
		workers = len(sets)
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(sets) + workers - 1) / workers

	for start := 0; start < len(sets); start += chunk {
		end := start + chunk
		if end > len(sets) {
			end = len(sets)
		}
		part := sets[start:end]

		g.Go(func() error {
			local := make([]int, len(m.counts))
			for _, langs := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				m.addConcept(local, langs)
			}

			mu.Lock()
			defer mu.Unlock()
			for i, c := range local {
				m.counts[i] += c
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// conceptSets returns, per concept in sorted concept order, the ascending
// matrix indices of the languages attesting it.
func conceptSets(wl *wordlist.WordList, m *Matrix) [][]int {
	byConcept := wl.ConceptLanguages()

	concepts := make([]string, 0, len(byConcept))
	for c := range byConcept {
		concepts = append(concepts, c)
	}
	sort.Strings(concepts)

	sets := make([][]int, 0, len(concepts))
	for _, c := range concepts {
		langs := byConcept[c]
		idx := make([]int, len(langs))
		for i, l := range langs {
			idx[i] = m.index[l]
		}
		sets = append(sets, idx)
	}
	return sets
}

// addConcept increments both halves of buf for every pair in langs.
func (m *Matrix) addConcept(buf []int, langs []int) {
	n := len(m.languages)
	for x := 0; x < len(langs); x++ {
		for y := x + 1; y < len(langs); y++ {
			i, j := langs[x], langs[y]
			buf[i*n+j]++
			buf[j*n+i]++
		}
	}
}

// MeetsMinimumCoverage reports whether every pair of distinct languages drawn
// from languages shares at least threshold concepts. Sets of zero or one
// language always qualify; duplicate labels are ignored.
func MeetsMinimumCoverage(m *Matrix, languages []string, threshold int) bool {
	if threshold <= 0 {
		return true
	}

	langs := dedupe(languages)
	for i := 0; i < len(langs); i++ {
		for j := i + 1; j < len(langs); j++ {
			if m.Coverage(langs[i], langs[j]) < threshold {
				return false
			}
		}
	}
	return true
}

// MutualCoverageCheck reports whether all languages of the matrix meet
// threshold pairwise.
func MutualCoverageCheck(m *Matrix, threshold int) bool {
	return MeetsMinimumCoverage(m, m.languages, threshold)
}

// MinimalMutualCoverage returns the largest threshold that every language
// pair meets. It scans down from the concept count, so the result always
// equals m.MinCoverage().
func MinimalMutualCoverage(m *Matrix) int {
	if m.Size() < 2 {
		return 0
	}
	for t := m.concepts; t > 0; t-- {
		if MutualCoverageCheck(m, t) {
			return t
		}
	}
	return 0
}

// AverageMutualCoverage returns the mean coverage over all pairs of the given
// languages, or 0 for fewer than two languages.
func AverageMutualCoverage(m *Matrix, languages []string) float64 {
	langs := dedupe(languages)
	if len(langs) < 2 {
		return 0
	}

	total, pairs := 0, 0
	for i := 0; i < len(langs); i++ {
		for j := i + 1; j < len(langs); j++ {
			total += m.Coverage(langs[i], langs[j])
			pairs++
		}
	}
	return float64(total) / float64(pairs)
}

// AverageCoverageRatio returns the mean pairwise coverage over all languages
// of m as a fraction of the concept count, or 0 when m has no concepts.
func AverageCoverageRatio(m *Matrix) float64 {
	if m.ConceptCount() == 0 {
		return 0
	}
	return AverageMutualCoverage(m, m.languages) / float64(m.ConceptCount())
}

// dedupe returns the distinct labels sorted.
func dedupe(languages []string) []string {
	seen := make(map[string]struct{}, len(languages))
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
