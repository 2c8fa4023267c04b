package analyzer

import (
	"sort"

	"github.com/blackwell-systems/lexcov/internal/store"
)

// Matrix holds mutual coverage counts for every pair of languages in a word
// list. It is symmetric with a zero diagonal and is never mutated after
// construction.
type Matrix struct {
	languages []string       // sorted
	index     map[string]int // language -> position in languages
	concepts  int            // distinct concepts in the source word list
	counts    []int          // dense n*n buffer, counts[i*n+j]
}

// Pair is the coverage of one unordered language pair, with A < B.
type Pair struct {
	A        string
	B        string
	Coverage int
}

// newMatrix allocates an empty matrix over the given sorted languages.
func newMatrix(languages []string, concepts int) *Matrix {
	m := &Matrix{
		languages: languages,
		index:     make(map[string]int, len(languages)),
		concepts:  concepts,
		counts:    make([]int, len(languages)*len(languages)),
	}
	for i, l := range languages {
		m.index[l] = i
	}
	return m
}

func (m *Matrix) at(i, j int) int { return m.counts[i*len(m.languages)+j] }

// Languages returns the matrix languages in sorted order.
func (m *Matrix) Languages() []string {
	out := make([]string, len(m.languages))
	copy(out, m.languages)
	return out
}

// Size returns the number of languages.
func (m *Matrix) Size() int { return len(m.languages) }

// ConceptCount returns the number of distinct concepts the matrix was built
// from, which bounds every entry.
func (m *Matrix) ConceptCount() int { return m.concepts }

// Coverage returns the number of concepts shared by a and b. It is 0 when the
// labels are equal or either is unknown.
func (m *Matrix) Coverage(a, b string) int {
	i, ok := m.index[a]
	if !ok {
		return 0
	}
	j, ok := m.index[b]
	if !ok || i == j {
		return 0
	}
	return m.at(i, j)
}

// Pairs returns every unordered pair, ordered by A then B.
func (m *Matrix) Pairs() []Pair {
	n := len(m.languages)
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: m.languages[i], B: m.languages[j], Coverage: m.at(i, j)})
		}
	}
	return pairs
}

// WeakestPairs returns pairs sorted by ascending coverage, then by name.
// A limit of 0 or less returns all pairs.
func (m *Matrix) WeakestPairs(limit int) []Pair {
	pairs := m.Pairs()
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Coverage < pairs[j].Coverage
	})
	if limit > 0 && limit < len(pairs) {
		pairs = pairs[:limit]
	}
	return pairs
}

// MinCoverage returns the smallest entry over all pairs, or 0 when there are
// fewer than two languages.
func (m *Matrix) MinCoverage() int {
	n := len(m.languages)
	if n < 2 {
		return 0
	}
	min := m.concepts
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c := m.at(i, j); c < min {
				min = c
			}
		}
	}
	return min
}

// Subset is a set of languages that jointly meet a coverage threshold.
type Subset struct {
	Languages       []string // sorted
	AverageCoverage float64
}

// SubsetOptions bounds the largest-subset search.
type SubsetOptions struct {
	// Budget caps the number of search nodes; 0 means unlimited.
	Budget int
	// MaxResults caps the number of tied subsets returned; 0 means all.
	MaxResults int
}

// SubsetResult is the outcome of LargestSubset.
type SubsetResult struct {
	Threshold  int
	Count      int      // size of the largest qualifying subset
	Subsets    []Subset // every subset of size Count found, best average first
	Exhaustive bool     // false when the budget stopped the search early
	Nodes      int      // search nodes visited
}

// Report summarises the coverage of a stored word list.
type Report struct {
	WordList        *store.WordListInfo
	Matrix          *Matrix
	MinimalCoverage int
	AverageCoverage float64
	// CoverageRatio is AverageCoverage divided by the concept count.
	CoverageRatio float64
}
