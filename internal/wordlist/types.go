// Package wordlist holds the comparative word list data model: entries tagged
// with a language (doculect) and a concept, plus a side-table for any extra
// columns carried by the source file.
package wordlist

import (
	"errors"
	"sort"
)

// Sentinel errors returned by the TSV reader.
var (
	// ErrMissingColumn indicates the header lacks a language or concept column.
	ErrMissingColumn = errors.New("wordlist: missing required column")

	// ErrEmptyField indicates a row with an empty language or concept cell.
	ErrEmptyField = errors.New("wordlist: empty language or concept")

	// ErrDuplicateID indicates two rows share the same ID.
	ErrDuplicateID = errors.New("wordlist: duplicate entry ID")
)

// Entry is a single word form attested for a language and concept.
type Entry struct {
	ID       int
	Language string
	Concept  string
	Form     string
}

// WordList is an ordered, read-only collection of entries.
type WordList struct {
	entries []Entry
	extras  map[int]map[string]string
}

// New builds a WordList from entries. The slice is copied.
func New(entries []Entry) *WordList {
	return NewWithExtras(entries, nil)
}

// NewWithExtras builds a WordList with an extras side-table keyed by entry ID.
// Extras for IDs that do not appear in entries are dropped.
func NewWithExtras(entries []Entry, extras map[int]map[string]string) *WordList {
	wl := &WordList{
		entries: make([]Entry, len(entries)),
		extras:  make(map[int]map[string]string),
	}
	copy(wl.entries, entries)

	for _, e := range wl.entries {
		cols, ok := extras[e.ID]
		if !ok || len(cols) == 0 {
			continue
		}
		cp := make(map[string]string, len(cols))
		for k, v := range cols {
			cp[k] = v
		}
		wl.extras[e.ID] = cp
	}

	return wl
}

// Len returns the number of entries.
func (w *WordList) Len() int {
	return len(w.entries)
}

// Entries returns a copy of the entries in their original order.
func (w *WordList) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Languages returns the distinct language labels, sorted.
func (w *WordList) Languages() []string {
	return w.distinct(func(e Entry) string { return e.Language })
}

// Concepts returns the distinct concept labels, sorted.
func (w *WordList) Concepts() []string {
	return w.distinct(func(e Entry) string { return e.Concept })
}

func (w *WordList) distinct(field func(Entry) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range w.entries {
		v := field(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Extras returns a copy of the extra columns for an entry, or nil.
func (w *WordList) Extras(id int) map[string]string {
	cols, ok := w.extras[id]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(cols))
	for k, v := range cols {
		out[k] = v
	}
	return out
}

// ExtraColumns returns the names of all extra columns, sorted.
func (w *WordList) ExtraColumns() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, cols := range w.extras {
		for k := range cols {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Subset returns a new WordList restricted to the given languages, keeping
// entry order and extras.
func (w *WordList) Subset(languages []string) *WordList {
	keep := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		keep[l] = struct{}{}
	}

	var entries []Entry
	for _, e := range w.entries {
		if _, ok := keep[e.Language]; ok {
			entries = append(entries, e)
		}
	}
	return NewWithExtras(entries, w.extras)
}

// ConceptLanguages maps each concept to the sorted set of languages that
// attest it at least once.
func (w *WordList) ConceptLanguages() map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, e := range w.entries {
		s, ok := sets[e.Concept]
		if !ok {
			s = make(map[string]struct{})
			sets[e.Concept] = s
		}
		s[e.Language] = struct{}{}
	}

	out := make(map[string][]string, len(sets))
	for concept, s := range sets {
		langs := make([]string, 0, len(s))
		for l := range s {
			langs = append(langs, l)
		}
		sort.Strings(langs)
		out[concept] = langs
	}
	return out
}
