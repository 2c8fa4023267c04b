// Package output renders lexcov results for the terminal.
//
// Tables are plain text with ANSI colour codes applied only when stdout is a
// terminal and NO_COLOR is unset. Counts and timestamps are humanized.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/lexcov/internal/analyzer"
	"github.com/blackwell-systems/lexcov/internal/store"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// coverageColor grades a coverage value against a threshold. A threshold of
// 0 or less disables grading.
func coverageColor(coverage, threshold int) string {
	switch {
	case threshold <= 0:
		return ""
	case coverage >= threshold:
		return colorGreen
	case coverage*10 >= threshold*9:
		return colorYellow
	default:
		return colorRed
	}
}

func colorizeCoverage(text string, coverage, threshold int) string {
	c := coverageColor(coverage, threshold)
	if c == "" {
		return text
	}
	return colorize(c, text)
}

// RenderWordListTable renders the stored word lists.
func RenderWordListTable(infos []*store.WordListInfo) string {
	if len(infos) == 0 {
		return "No word lists found. Run 'lexcov import <file>' first.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-24s %-10s %-10s %-10s %s\n",
		"Name", "Entries", "Languages", "Concepts", "Imported"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("%-24s %-10s %-10s %-10s %s\n",
			truncate(info.Name, 24),
			humanize.Comma(int64(info.EntryCount)),
			humanize.Comma(int64(info.LanguageCount)),
			humanize.Comma(int64(info.ConceptCount)),
			formatRelativeTime(info.ImportedAt)))
	}

	return sb.String()
}

// RenderCoverageSummary renders the headline numbers of a coverage report.
func RenderCoverageSummary(report *analyzer.Report) string {
	var sb strings.Builder

	name := ""
	if report.WordList != nil {
		name = report.WordList.Name
	}
	sb.WriteString(fmt.Sprintf("Word list:        %s\n", name))
	sb.WriteString(fmt.Sprintf("Languages:        %s\n", humanize.Comma(int64(report.Matrix.Size()))))
	sb.WriteString(fmt.Sprintf("Concepts:         %s\n", humanize.Comma(int64(report.Matrix.ConceptCount()))))
	sb.WriteString(fmt.Sprintf("Minimal coverage: %d\n", report.MinimalCoverage))
	sb.WriteString(fmt.Sprintf("Average coverage: %.2f\n", report.AverageCoverage))
	sb.WriteString(fmt.Sprintf("Coverage ratio:   %.2f\n", report.CoverageRatio))

	return sb.String()
}

// RenderCoverageMatrix renders the full pairwise matrix. Column headers are
// the 1-based row numbers so wide language names do not widen every column.
func RenderCoverageMatrix(m *analyzer.Matrix, threshold int) string {
	langs := m.Languages()
	if len(langs) == 0 {
		return "No languages in word list.\n"
	}

	cell := len(fmt.Sprint(m.ConceptCount()))
	if w := len(fmt.Sprint(len(langs))); w > cell {
		cell = w
	}
	cell++

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-24s", ""))
	for i := range langs {
		sb.WriteString(fmt.Sprintf("%*d", cell, i+1))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 24+cell*len(langs)))
	sb.WriteString("\n")

	for i, a := range langs {
		sb.WriteString(fmt.Sprintf("%-24s", truncate(fmt.Sprintf("%d %s", i+1, a), 23)))
		for j, b := range langs {
			if i == j {
				sb.WriteString(colorize(colorGray, fmt.Sprintf("%*s", cell, "-")))
				continue
			}
			c := m.Coverage(a, b)
			sb.WriteString(colorizeCoverage(fmt.Sprintf("%*d", cell, c), c, threshold))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderPairTable renders language pairs with their coverage, marking pairs
// below threshold. Pairs are printed in the order given.
func RenderPairTable(pairs []analyzer.Pair, threshold int) string {
	if len(pairs) == 0 {
		return "No language pairs.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-24s %-24s %s\n", "Language", "Language", "Coverage"))
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")

	for _, p := range pairs {
		cov := fmt.Sprintf("%d", p.Coverage)
		if threshold > 0 && p.Coverage < threshold {
			cov += " (below " + fmt.Sprint(threshold) + ")"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-24s %s\n",
			truncate(p.A, 24),
			truncate(p.B, 24),
			colorizeCoverage(cov, p.Coverage, threshold)))
	}

	return sb.String()
}

// RenderSubsetTable renders the result of a largest-subset search.
func RenderSubsetTable(res *analyzer.SubsetResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Threshold:   %d\n", res.Threshold))
	sb.WriteString(fmt.Sprintf("Subset size: %d\n", res.Count))
	sb.WriteString(fmt.Sprintf("Search:      %s nodes", humanize.Comma(int64(res.Nodes))))
	if !res.Exhaustive {
		sb.WriteString(colorize(colorYellow, " (budget exhausted, result may not be maximal)"))
	}
	sb.WriteString("\n")

	if len(res.Subsets) == 0 {
		sb.WriteString("\nNo languages in word list.\n")
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-4s %-9s %s\n", "#", "Average", "Languages"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for i, s := range res.Subsets {
		sb.WriteString(fmt.Sprintf("%-4d %-9.2f %s\n",
			i+1,
			s.AverageCoverage,
			strings.Join(s.Languages, ", ")))
	}

	return sb.String()
}

// RenderRunTable renders recorded subset searches, newest first.
func RenderRunTable(runs []*store.CoverageRun) string {
	if len(runs) == 0 {
		return "No coverage runs recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-10s %-16s %-10s %-8s %-6s %-6s %s\n",
		"Run", "When", "Threshold", "Minimal", "Size", "Ties", "Exhaustive"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, run := range runs {
		exhaustive := colorize(colorGreen, "yes")
		if !run.Exhaustive {
			exhaustive = colorize(colorYellow, "no")
		}
		sb.WriteString(fmt.Sprintf("%-10s %-16s %-10d %-8d %-6d %-6d %s\n",
			truncate(run.ID, 8),
			formatRelativeTime(run.CreatedAt),
			run.Threshold,
			run.MinCoverage,
			run.SubsetSize,
			run.SubsetCount,
			exhaustive))
	}

	return sb.String()
}

// RenderCheck renders the outcome of a mutual coverage check.
func RenderCheck(threshold int, ok bool, weakest []analyzer.Pair) string {
	if ok {
		return colorize(colorGreen, fmt.Sprintf("✓ every language pair shares at least %d concepts", threshold)) + "\n"
	}

	var sb strings.Builder
	sb.WriteString(colorize(colorRed, fmt.Sprintf("✗ some language pairs share fewer than %d concepts", threshold)))
	sb.WriteString("\n\n")
	sb.WriteString(RenderPairTable(weakest, threshold))
	return sb.String()
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// RenderSnapshotTable renders saved word-list snapshots, newest first.
func RenderSnapshotTable(snapshots []*store.Snapshot) string {
	if len(snapshots) == 0 {
		return "No snapshots available.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-6s %-20s %-16s %-10s %s\n", "ID", "Word list", "Created", "Entries", "Reason"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, snap := range snapshots {
		sb.WriteString(fmt.Sprintf("%-6d %-20s %-16s %-10s %s\n",
			snap.ID,
			truncate(snap.WordListName, 20),
			formatRelativeTime(snap.CreatedAt),
			humanize.Comma(int64(snap.EntryCount)),
			snap.Reason))
	}

	return sb.String()
}
