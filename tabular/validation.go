package tabular

import (
	"fmt"

	"github.com/JedouEdu/digiEduHack-hackathon/catalog"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

// ValidateSchema checks a normalized table against its table type's rules.
//
// Missing required columns are a hard failure. Range rules are soft: numeric
// values outside the declared bounds produce warnings and the table remains
// ingestable.
func ValidateSchema(t *core.NormalizedTable, tt catalog.TableType) ([]string, error) {
	for _, required := range tt.RequiredColumns {
		if !hasColumn(t, required) {
			return nil, fmt.Errorf("%w: table type %q requires column %q",
				ErrMissingRequiredColumn, tt.Name, required)
		}
	}

	var warnings []string
	for _, rule := range tt.Ranges {
		cells := t.Column(rule.Column)
		if cells == nil {
			continue
		}

		outOfRange := 0
		for _, cell := range cells {
			if cell.Kind != core.CellNumber {
				continue
			}
			if cell.Num < rule.Min || cell.Num > rule.Max {
				outOfRange++
			}
		}
		if outOfRange > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"column %q has %d values outside [%g, %g]",
				rule.Column, outOfRange, rule.Min, rule.Max))
		}
	}

	return warnings, nil
}

func hasColumn(t *core.NormalizedTable, name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}
