package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred value type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindDate
	KindCategorical
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindCategorical:
		return "categorical"
	default:
		return "text"
	}
}

// dateSampleSize bounds how many values are probed for date detection.
const dateSampleSize = 10

// Categorical thresholds: a column is categorical when its distinct value
// ratio is below 0.1 and it has fewer than 50 distinct values.
const (
	categoricalMaxRatio    = 0.1
	categoricalMaxDistinct = 50
)

// dateLayouts are tried in order when parsing date cells.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"2006/01/02",
}

// InferKind determines a column's value kind from its raw values.
//
// Precedence: numeric, then date, then categorical, then text. Numeric
// requires every non-missing value to parse as a number. Date detection
// probes only a small sample, matching how large files are profiled.
func InferKind(values []string) Kind {
	nonMissing := make([]string, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			nonMissing = append(nonMissing, strings.TrimSpace(v))
		}
	}
	if len(nonMissing) == 0 {
		return KindText
	}

	numeric := true
	for _, v := range nonMissing {
		if _, ok := ParseNumber(v); !ok {
			numeric = false
			break
		}
	}
	if numeric {
		return KindNumeric
	}

	sample := nonMissing
	if len(sample) > dateSampleSize {
		sample = sample[:dateSampleSize]
	}
	dates := true
	for _, v := range sample {
		if _, ok := ParseDate(v); !ok {
			dates = false
			break
		}
	}
	if dates {
		return KindDate
	}

	distinct := map[string]bool{}
	for _, v := range nonMissing {
		distinct[v] = true
	}
	ratio := float64(len(distinct)) / float64(len(nonMissing))
	if ratio < categoricalMaxRatio && len(distinct) < categoricalMaxDistinct {
		return KindCategorical
	}

	return KindText
}

// IsMissing reports whether a raw cell represents a missing value.
func IsMissing(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || s == "nan" || s == "null"
}

// ParseNumber parses a cell as a float. Comma decimal separators are
// accepted since Czech exports use them. NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParseDate parses a cell against the supported date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
