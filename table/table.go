// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package table provides the raw tabular data model used by the ingestion
// pipeline: loading delimited and JSON files into string tables, column
// name canonicalization, and cell type inference.
package table

import "strings"

// Table is a raw tabular dataset. All cells are strings; empty string means
// a missing value. Column names are canonical snake_case.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Column returns all values of the named column, or nil if absent.
func (t *Table) Column(name string) []string {
	for i, col := range t.Columns {
		if col != name {
			continue
		}
		out := make([]string, len(t.Rows))
		for r, row := range t.Rows {
			out[r] = row[i]
		}
		return out
	}
	return nil
}

// Sample returns up to n distinct non-empty values from the named column,
// in first-seen order. Used to build AI classification features.
func (t *Table) Sample(name string, n int) []string {
	values := t.Column(name)
	if values == nil {
		return nil
	}

	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) >= n {
			break
		}
	}
	return out
}

// SnakeCase canonicalizes a column name: lowercase, non-alphanumeric runs
// collapsed to a single underscore, leading and trailing underscores trimmed.
func SnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}

// dropEmptyColumns removes columns whose every cell is empty.
func dropEmptyColumns(t *Table) {
	keep := make([]int, 0, len(t.Columns))
	for i := range t.Columns {
		empty := true
		for _, row := range t.Rows {
			if strings.TrimSpace(row[i]) != "" {
				empty = false
				break
			}
		}
		if !empty {
			keep = append(keep, i)
		}
	}

	if len(keep) == len(t.Columns) {
		return
	}

	columns := make([]string, len(keep))
	for j, i := range keep {
		columns[j] = t.Columns[i]
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		newRow := make([]string, len(keep))
		for j, i := range keep {
			newRow[j] = row[i]
		}
		rows[r] = newRow
	}

	t.Columns = columns
	t.Rows = rows
}
