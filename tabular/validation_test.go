package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JedouEdu/digiEduHack-hackathon/catalog"
	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

func assessmentType() catalog.TableType {
	return catalog.TableType{
		Name:            "assessment",
		AnchorPhrases:   []string{"test scores"},
		RequiredColumns: []string{"student_id", "score"},
		Ranges: []catalog.ColumnRange{
			{Column: "score", Min: 0, Max: 100},
		},
	}
}

func TestValidateSchema_OK(t *testing.T) {
	nt := &core.NormalizedTable{
		Columns: []string{"student_id", "score"},
		Rows: [][]core.Cell{
			{core.StringCell("S001"), core.NumberCell(85)},
			{core.StringCell("S002"), core.NullCell()},
		},
	}

	warnings, err := ValidateSchema(nt, assessmentType())
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateSchema_MissingRequiredColumn(t *testing.T) {
	nt := &core.NormalizedTable{
		Columns: []string{"student_id"},
		Rows:    [][]core.Cell{{core.StringCell("S001")}},
	}

	_, err := ValidateSchema(nt, assessmentType())
	assert.ErrorIs(t, err, ErrMissingRequiredColumn)
}

func TestValidateSchema_RangeWarnings(t *testing.T) {
	nt := &core.NormalizedTable{
		Columns: []string{"student_id", "score"},
		Rows: [][]core.Cell{
			{core.StringCell("S001"), core.NumberCell(185)},
			{core.StringCell("S002"), core.NumberCell(-5)},
			{core.StringCell("S003"), core.NumberCell(50)},
		},
	}

	warnings, err := ValidateSchema(nt, assessmentType())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "score")
	assert.Contains(t, warnings[0], "2 values")
}
