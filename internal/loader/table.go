// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// InputFormatError reports a required input table that lacks mandatory columns.
type InputFormatError struct {
	Path    string
	Missing []string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// table is a string-typed CSV read into memory, addressed by column name.
type table struct {
	columns map[string]int
	rows    [][]string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readTable(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTable(bytes.TrimPrefix(data, utf8BOM))
}

func parseTable(data []byte) (*table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return &table{columns: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := &table{columns: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// missing returns the required columns absent from the header, in the order given.
func (t *table) missing(required ...string) []string {
	var out []string
	for _, c := range required {
		if !t.has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// get returns the cell at column for row, or "" when the column or cell is absent.
func (t *table) get(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
