package wordlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Accepted header names, matched case-insensitively.
var (
	languageColumns = []string{"doculect", "language", "taxon", "language_name"}
	conceptColumns  = []string{"concept", "gloss", "parameter"}
	formColumns     = []string{"ipa", "form", "value", "tokens"}
	idColumns       = []string{"id"}
)

// Column names written by Write.
const (
	headerID       = "ID"
	headerLanguage = "DOCULECT"
	headerConcept  = "CONCEPT"
	headerForm     = "IPA"
)

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*WordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer f.Close()

	wl, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return wl, nil
}

// Read parses a tab-separated word list. Lines starting with '#' and blank
// lines are skipped; the first remaining record is the header. Rows without a
// language or concept are rejected.
func Read(r io.Reader) (*WordList, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	extras := make(map[int]map[string]string)
	seenIDs := make(map[int]struct{})
	row := 0

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row++
		line, _ := cr.FieldPos(0)

		cell := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		e := Entry{
			ID:       row,
			Language: cell(cols.language),
			Concept:  cell(cols.concept),
			Form:     cell(cols.form),
		}
		if e.Language == "" || e.Concept == "" {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyField)
		}

		if cols.id >= 0 {
			raw := cell(cols.id)
			id, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid ID %q: %w", line, raw, err)
			}
			e.ID = id
		}
		if _, dup := seenIDs[e.ID]; dup {
			return nil, fmt.Errorf("line %d: ID %d: %w", line, e.ID, ErrDuplicateID)
		}
		seenIDs[e.ID] = struct{}{}

		for idx, name := range cols.extras {
			v := cell(idx)
			if v == "" {
				continue
			}
			if extras[e.ID] == nil {
				extras[e.ID] = make(map[string]string)
			}
			extras[e.ID][name] = v
		}

		entries = append(entries, e)
	}

	return NewWithExtras(entries, extras), nil
}

type columnIndex struct {
	id       int
	language int
	concept  int
	form     int
	extras   map[int]string
}

func mapHeader(header []string) (*columnIndex, error) {
	cols := &columnIndex{id: -1, language: -1, concept: -1, form: -1, extras: make(map[int]string)}

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		key := strings.ToLower(name)
		switch {
		case cols.id < 0 && contains(idColumns, key):
			cols.id = i
		case cols.language < 0 && contains(languageColumns, key):
			cols.language = i
		case cols.concept < 0 && contains(conceptColumns, key):
			cols.concept = i
		case cols.form < 0 && contains(formColumns, key):
			cols.form = i
		case name != "":
			cols.extras[i] = name
		}
	}

	if cols.language < 0 {
		return nil, fmt.Errorf("language column (one of %s): %w", strings.Join(languageColumns, ", "), ErrMissingColumn)
	}
	if cols.concept < 0 {
		return nil, fmt.Errorf("concept column (one of %s): %w", strings.Join(conceptColumns, ", "), ErrMissingColumn)
	}
	return cols, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Write serialises wl as tab-separated values with the header
// ID, DOCULECT, CONCEPT, IPA followed by the extra columns in name order.
func Write(w io.Writer, wl *WordList) error {
	extraCols := wl.ExtraColumns()

	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := append([]string{headerID, headerLanguage, headerConcept, headerForm}, extraCols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range wl.entries {
		record := []string{strconv.Itoa(e.ID), e.Language, e.Concept, e.Form}
		extras := wl.extras[e.ID]
		for _, col := range extraCols {
			record = append(record, extras[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write entry %d: %w", e.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	return nil
}

// WriteFile writes wl to path, creating or truncating it.
func WriteFile(path string, wl *WordList) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, wl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
