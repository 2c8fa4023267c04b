package output_test

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/lexcov/internal/analyzer"
	"github.com/blackwell-systems/lexcov/internal/output"
	"github.com/blackwell-systems/lexcov/internal/wordlist"
)

func ExampleRenderSubsetTable() {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	wl := wordlist.New([]wordlist.Entry{
		{ID: 1, Language: "A", Concept: "hand"},
		{ID: 2, Language: "A", Concept: "eight"},
		{ID: 3, Language: "B", Concept: "hand"},
		{ID: 4, Language: "B", Concept: "eight"},
		{ID: 5, Language: "C", Concept: "hand"},
	})
	m := analyzer.ComputeMatrix(wl)
	res := analyzer.LargestSubset(m, m.Languages(), 2, analyzer.SubsetOptions{})

	fmt.Print(output.RenderSubsetTable(&res))
	// Output:
	// Threshold:   2
	// Subset size: 2
	// Search:      4 nodes
	//
	// #    Average   Languages
	// ────────────────────────────────────────────────────────────────────────
	// 1    2.00      A, B
}
