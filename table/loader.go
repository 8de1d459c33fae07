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


package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxRows is the hard cap on data rows per file. Files beyond this size are
// rejected rather than truncated, so no data silently disappears.
const MaxRows = 200000

// separatorCandidates are tried in order when sniffing delimited files.
var separatorCandidates = []rune{',', '\t', '|', ';'}

// Load reads a tabular file into a Table. The format is chosen by
// extension: .csv, .tsv and .txt are parsed as delimited text with
// separator sniffing, .json as an array of flat objects, .jsonl and
// .ndjson as one object per line.
//
// Column names are canonicalized to snake_case and columns that contain
// no values at all are dropped.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer f.Close()

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		t, err = loadDelimited(f, 0)
	case ".tsv":
		t, err = loadDelimited(f, '\t')
	case ".json":
		t, err = loadJSON(f)
	case ".jsonl", ".ndjson":
		t, err = loadJSONL(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	finalize(t)
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}
	return t, nil
}

// LoadText parses tabular content that arrived as text, using the declared
// MIME content type to choose the format. Spreadsheet types arrive already
// converted to CSV text upstream. Unknown types fall back to auto-detection:
// JSON first, then separator-sniffed delimited text.
func LoadText(content, contentType string) (*Table, error) {
	var (
		t   *Table
		err error
	)

	switch contentType {
	case "text/csv",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		t, err = loadDelimited(strings.NewReader(content), 0)
	case "text/tab-separated-values":
		t, err = loadDelimited(strings.NewReader(content), '\t')
	case "application/json":
		t, err = loadJSON(strings.NewReader(content))
		if err != nil {
			t, err = loadJSONL(strings.NewReader(content))
		}
	default:
		t, err = autoDetect(content)
	}
	if err != nil {
		return nil, err
	}

	finalize(t)
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrEmptyTable)
	}
	return t, nil
}

// autoDetect tries JSON, JSONL and finally sniffed delimited text.
func autoDetect(content string) (*Table, error) {
	if t, err := loadJSON(strings.NewReader(content)); err == nil {
		return t, nil
	}
	if t, err := loadJSONL(strings.NewReader(content)); err == nil {
		return t, nil
	}
	return loadDelimited(strings.NewReader(content), 0)
}

// finalize canonicalizes column names and drops all-empty columns.
func finalize(t *Table) {
	for i, col := range t.Columns {
		t.Columns[i] = SnakeCase(col)
	}
	dropEmptyColumns(t)
}

// loadDelimited parses CSV-like text. A zero separator triggers sniffing
// over the first line.
func loadDelimited(r io.Reader, sep rune) (*Table, error) {
	br := bufio.NewReader(r)

	if sep == 0 {
		peeked, _ := br.Peek(8192)
		sep = detectSeparator(peeked)
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrEmptyTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	t := &Table{Columns: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		// Tolerate ragged rows: pad short ones, clip long ones
		row := make([]string, len(header))
		for i := range row {
			if i < len(record) {
				row[i] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)

		if len(t.Rows) > MaxRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, MaxRows)
		}
	}

	return t, nil
}

// detectSeparator picks the candidate that appears most often in the first
// line of the sample. Defaults to comma.
func detectSeparator(sample []byte) rune {
	line := string(sample)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	best := ','
	bestCount := 0
	for _, cand := range separatorCandidates {
		count := strings.Count(line, string(cand))
		if count > bestCount {
			best = cand
			bestCount = count
		}
	}
	return best
}

// loadJSON parses a JSON array of flat objects. Column order follows first
// appearance across the records.
func loadJSON(r io.Reader) (*Table, error) {
	var records []json.RawMessage
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return fromRecords(records)
}

// loadJSONL parses one JSON object per line, skipping blank lines.
func loadJSONL(r io.Reader) (*Table, error) {
	var records []json.RawMessage

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		records = append(records, json.RawMessage(line))
		if len(records) > MaxRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, MaxRows)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	return fromRecords(records)
}

// fromRecords builds a Table from raw JSON objects. Columns are ordered by
// first appearance of each key in the document, so the same input always
// produces the same column order.
func fromRecords(records []json.RawMessage) (*Table, error) {
	if len(records) > MaxRows {
		return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, MaxRows)
	}

	t := &Table{}
	index := map[string]int{}
	for _, raw := range records {
		keys, err := objectKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		for _, key := range keys {
			if _, ok := index[key]; !ok {
				index[key] = len(t.Columns)
				t.Columns = append(t.Columns, key)
			}
		}
	}

	for _, raw := range records {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		row := make([]string, len(t.Columns))
		for key, val := range rec {
			row[index[key]] = stringifyValue(val)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// objectKeys returns the keys of a JSON object in document order. Decoded
// maps cannot be used for this since Go randomizes map iteration.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// stringifyValue renders a decoded JSON value as a table cell.
func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		// Nested objects and arrays are kept as compact JSON
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
