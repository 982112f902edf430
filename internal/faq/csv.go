// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package faq

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jeranaias/faqchat/internal/model"
)

// Required column names.
const (
	ColumnQuestion = "question"
	ColumnAnswer   = "answer"
)

// RequiredColumns lists the columns every FAQ CSV must carry.
var RequiredColumns = []string{ColumnQuestion, ColumnAnswer}

var (
	// ErrNoHeader indicates the input had no header row at all.
	ErrNoHeader = errors.New("csv has no header row")

	// ErrMissingColumns indicates the schema check failed.
	ErrMissingColumns = errors.New("CSV must contain 'question' and 'answer' columns")
)

// =============================================================================
// TABLE
// =============================================================================

// Table is a parsed CSV file.
type Table struct {
	// Columns holds the header names in file order.
	Columns []string
	// Rows holds one map per non-blank data row, keyed by column name.
	Rows []map[string]string
}

// Parse reads CSV with a header row from r.
//
// A leading byte-order mark is removed, header names are trimmed, rows made
// only of empty cells are skipped, and short rows read missing cells as "".
func Parse(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	table := &Table{Columns: columns, Rows: make([]map[string]string, 0)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if isBlank(record) {
			continue
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ParseFile parses the CSV file at path.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// MissingColumns returns the names from want that the parsed data does not
// expose. The column set is taken from the first data row, so a file with a
// header but no data rows is missing every column.
func (t *Table) MissingColumns(want ...string) []string {
	present := make(map[string]bool)
	if len(t.Rows) > 0 {
		for col := range t.Rows[0] {
			present[col] = true
		}
	}

	var missing []string
	for _, name := range want {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate checks the FAQ schema.
func (t *Table) Validate() error {
	if missing := t.MissingColumns(RequiredColumns...); len(missing) > 0 {
		return fmt.Errorf("%w (missing: %s)", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// Entries projects the rows onto FAQ entries, in file order.
func (t *Table) Entries() []model.FaqEntry {
	entries := make([]model.FaqEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		entries = append(entries, model.FaqEntry{
			Question: row[ColumnQuestion],
			Answer:   row[ColumnAnswer],
		})
	}
	return entries
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
