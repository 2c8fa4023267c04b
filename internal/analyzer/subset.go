package analyzer

import "sort"

// LargestSubset finds the largest subsets of languages in which every pair
// shares at least threshold concepts.
//
// The search is an exhaustive branch-and-bound enumeration of maximum cliques
// in the graph joining languages whose coverage meets threshold. Languages are
// visited in lexicographic order and each clique is generated once, so results
// are reproducible for a fixed input. Every tied subset is returned, best
// average coverage first, then in lexicographic order.
//
// A positive opts.Budget caps the number of search nodes. When it is reached
// the best subsets found so far are returned with Exhaustive set to false.
//
// A threshold of zero or less returns all languages as one subset. When no
// pair qualifies, every language is returned as a singleton subset.
func LargestSubset(m *Matrix, languages []string, threshold int, opts SubsetOptions) SubsetResult {
	langs := dedupe(languages)
	res := SubsetResult{Threshold: threshold, Exhaustive: true}

	if len(langs) == 0 {
		return res
	}

	if threshold <= 0 {
		res.Count = len(langs)
		res.Subsets = []Subset{{Languages: langs, AverageCoverage: AverageMutualCoverage(m, langs)}}
		return res
	}

	n := len(langs)
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ok := m.Coverage(langs[i], langs[j]) >= threshold
			adj[i][j], adj[j][i] = ok, ok
		}
	}

	s := &cliqueSearch{adj: adj, budget: opts.Budget}
	root := make([]int, n)
	for i := range root {
		root[i] = i
	}
	s.extend(make([]int, 0, n), root)

	res.Count = s.best
	res.Exhaustive = !s.stopped
	res.Nodes = s.nodes

	for _, clique := range s.found {
		names := make([]string, len(clique))
		for i, v := range clique {
			names[i] = langs[v]
		}
		res.Subsets = append(res.Subsets, Subset{
			Languages:       names,
			AverageCoverage: AverageMutualCoverage(m, names),
		})
	}

	sort.SliceStable(res.Subsets, func(i, j int) bool {
		a, b := res.Subsets[i], res.Subsets[j]
		if a.AverageCoverage != b.AverageCoverage {
			return a.AverageCoverage > b.AverageCoverage
		}
		return lessLabels(a.Languages, b.Languages)
	})

	if opts.MaxResults > 0 && len(res.Subsets) > opts.MaxResults {
		res.Subsets = res.Subsets[:opts.MaxResults]
	}

	return res
}

// cliqueSearch carries the state of one maximum-clique enumeration.
type cliqueSearch struct {
	adj    [][]bool
	budget int

	nodes   int
	stopped bool

	best  int
	found [][]int
}

// extend grows current with vertices from candidates, which are all adjacent
// to every member of current and listed in ascending order.
func (s *cliqueSearch) extend(current, candidates []int) {
	s.nodes++
	// The budget only applies once a subset is known, so the first descent
	// always reaches a language.
	if s.budget > 0 && s.nodes > s.budget && s.best > 0 {
		s.stopped = true
		return
	}

	if len(current) > s.best {
		s.best = len(current)
		s.found = [][]int{clone(current)}
	} else if len(candidates) == 0 && len(current) == s.best && s.best > 0 {
		s.found = append(s.found, clone(current))
	}

	for i, v := range candidates {
		// Bound: even taking every remaining candidate cannot reach best.
		if len(current)+len(candidates)-i < s.best {
			return
		}

		next := make([]int, 0, len(candidates)-i-1)
		for _, u := range candidates[i+1:] {
			if s.adj[v][u] {
				next = append(next, u)
			}
		}

		s.extend(append(current, v), next)
		if s.stopped {
			return
		}
	}
}

func clone(xs []int) []int {
	out := make([]int, len(xs))
	copy(out, xs)
	return out
}

// lessLabels orders label lists lexicographically.
func lessLabels(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
