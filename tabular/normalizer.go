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


package tabular

import (
	"log/slog"
	"strings"
	"time"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/table"
)

// Process metadata columns appended to every normalized table.
const (
	ColRegionID        = "region_id"
	ColRecordID        = "record_id"
	ColIngestTimestamp = "ingest_timestamp"
	ColSourceTableType = "source_table_type"
)

// Column-name keywords that trigger casting during normalization.
var (
	dateKeywords    = []string{"date", "datum", "timestamp", "_at"}
	numericKeywords = []string{"score", "grade", "points", "rate", "hours", "count", "amount", "body", "znamka"}
)

// Normalizer converts a classified raw table into canonical warehouse form:
// concept-named columns, typed cells, process metadata, and optional
// identifier pseudonymization.
type Normalizer struct {
	pseudonymize bool
	now          func() time.Time
	logger       *slog.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithPseudonymization toggles deterministic hashing of identifier columns.
func WithPseudonymization(enabled bool) NormalizerOption {
	return func(n *Normalizer) {
		n.pseudonymize = enabled
	}
}

// WithClock overrides the ingest timestamp source. Test hook.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		n.now = now
	}
}

// NewNormalizer creates a normalizer. Pseudonymization is off by default.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		now:    time.Now,
		logger: slog.Default().With("component", "normalizer"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize produces the canonical table for one classified input.
//
// Columns with AUTO or LOW_CONFIDENCE mappings are renamed to their concept
// key; UNKNOWN columns keep their original header for audit. Date-keyword
// columns parse to timestamps with invalid values becoming null, numeric
// keyword columns coerce to numbers, text is trimmed with "nan" normalized
// to null. School-name columns get casing and abbreviation cleanup. Process
// metadata columns are appended last.
func (n *Normalizer) Normalize(tbl *table.Table, tableType string, mappings []core.ColumnMapping, regionID, recordID string) *core.NormalizedTable {
	rename := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.Status == core.MappingAuto || m.Status == core.MappingLowConfidence {
			rename[m.SourceColumn] = m.ConceptKey
		}
	}

	columns := make([]string, 0, len(tbl.Columns)+4)
	for _, col := range tbl.Columns {
		if key, ok := rename[col]; ok {
			columns = append(columns, key)
		} else {
			columns = append(columns, col)
		}
	}

	rows := make([][]core.Cell, len(tbl.Rows))
	for r, raw := range tbl.Rows {
		row := make([]core.Cell, len(columns))
		for i, col := range columns {
			row[i] = castCell(col, raw[i])
		}
		rows[r] = row
	}

	out := &core.NormalizedTable{
		TableType: tableType,
		RegionID:  regionID,
		RecordID:  recordID,
		Columns:   columns,
		Rows:      rows,
	}

	if n.pseudonymize {
		n.pseudonymizeIDs(out)
	}

	n.appendMetadata(out, tableType, regionID, recordID)

	n.logger.Debug("normalized table",
		"table_type", tableType,
		"record_id", recordID,
		"columns", len(out.Columns),
		"rows", len(out.Rows))
	return out
}

// castCell types one raw cell according to its column name.
func castCell(col, raw string) core.Cell {
	if table.IsMissing(raw) {
		return core.NullCell()
	}
	raw = strings.TrimSpace(raw)

	if hasKeyword(col, dateKeywords) {
		if t, ok := table.ParseDate(raw); ok {
			return core.TimeCell(t)
		}
		return core.NullCell()
	}

	if hasKeyword(col, numericKeywords) {
		if num, ok := table.ParseNumber(raw); ok {
			return core.NumberCell(num)
		}
		return core.NullCell()
	}

	if col == "school_name" {
		return core.StringCell(cleanSchoolName(raw))
	}

	return core.StringCell(raw)
}

func hasKeyword(col string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(col, kw) {
			return true
		}
	}
	return false
}

// pseudonymizeIDs replaces values in every *_id column with a deterministic
// hash, keeping the original value under an _original suffix.
func (n *Normalizer) pseudonymizeIDs(t *core.NormalizedTable) {
	for i := len(t.Columns) - 1; i >= 0; i-- {
		col := t.Columns[i]
		if !strings.HasSuffix(col, "_id") || col == ColRegionID || col == ColRecordID {
			continue
		}

		original := col + "_original"
		t.Columns = append(t.Columns, original)
		for r := range t.Rows {
			cell := t.Rows[r][i]
			t.Rows[r] = append(t.Rows[r], cell)
			if cell.Kind == core.CellString {
				t.Rows[r][i] = core.StringCell(core.PseudonymizeID(cell.Str))
			}
		}
	}
}

// appendMetadata adds the process metadata columns to every row.
func (n *Normalizer) appendMetadata(t *core.NormalizedTable, tableType, regionID, recordID string) {
	now := n.now()
	t.Columns = append(t.Columns, ColRegionID, ColRecordID, ColIngestTimestamp, ColSourceTableType)
	for r := range t.Rows {
		t.Rows[r] = append(t.Rows[r],
			core.StringCell(regionID),
			core.StringCell(recordID),
			core.TimeCell(now),
			core.StringCell(tableType),
		)
	}
}

// cleanSchoolName normalizes school naming: common Czech school-kind
// abbreviations are canonicalized and the rest is title-cased.
func cleanSchoolName(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		switch strings.ToLower(strings.TrimRight(f, ".")) {
		case "zs", "zš":
			fields[i] = "ZŠ"
		case "ss", "sš":
			fields[i] = "SŠ"
		case "gymnazium", "gymnázium":
			fields[i] = "Gymnázium"
		default:
			fields[i] = titleCase(f)
		}
	}
	return strings.Join(fields, " ")
}

// titleCase uppercases the first letter of a word, leaving short
// connectives alone.
func titleCase(word string) string {
	switch strings.ToLower(word) {
	case "a", "u", "v", "ve", "na", "nad", "pod", "z", "ze":
		return strings.ToLower(word)
	}
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return word
	}
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
