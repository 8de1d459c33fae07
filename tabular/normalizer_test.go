package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/table"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func autoMapping(source, concept string) core.ColumnMapping {
	return core.ColumnMapping{
		SourceColumn: source,
		ConceptKey:   concept,
		Score:        0.9,
		Status:       core.MappingAuto,
	}
}

func TestNormalize_RenamesAndMetadata(t *testing.T) {
	n := NewNormalizer(WithClock(fixedClock()))

	tbl := &table.Table{
		Columns: []string{"id_zaka", "body", "poznamka"},
		Rows:    [][]string{{"S001", "85", "dobra prace"}},
	}
	mappings := []core.ColumnMapping{
		autoMapping("id_zaka", "student_id"),
		autoMapping("body", "score"),
		{SourceColumn: "poznamka", Status: core.MappingUnknown},
	}

	out := n.Normalize(tbl, "assessment", mappings, "CZ010", "rec-1")

	assert.Equal(t, []string{
		"student_id", "score", "poznamka",
		ColRegionID, ColRecordID, ColIngestTimestamp, ColSourceTableType,
	}, out.Columns)
	assert.Equal(t, "assessment", out.TableType)
	assert.Equal(t, "CZ010", out.RegionID)
	assert.Equal(t, "rec-1", out.RecordID)

	require.Len(t, out.Rows, 1)
	row := out.Rows[0]
	assert.Equal(t, core.StringCell("S001"), row[0])
	assert.Equal(t, core.NumberCell(85), row[1])
	assert.Equal(t, core.StringCell("dobra prace"), row[2])
	assert.Equal(t, core.StringCell("CZ010"), row[3])
	assert.Equal(t, core.StringCell("rec-1"), row[4])
	assert.Equal(t, core.CellTime, row[5].Kind)
	assert.Equal(t, fixedClock()(), row[5].Time)
	assert.Equal(t, core.StringCell("assessment"), row[6])
}

func TestNormalize_Casting(t *testing.T) {
	n := NewNormalizer(WithClock(fixedClock()))

	tbl := &table.Table{
		Columns: []string{"date", "score", "note"},
		Rows: [][]string{
			{"2026-01-15", "85", "  ok  "},
			{"not a date", "high", "nan"},
		},
	}
	mappings := []core.ColumnMapping{
		autoMapping("date", "date"),
		autoMapping("score", "score"),
		{SourceColumn: "note", Status: core.MappingUnknown},
	}

	out := n.Normalize(tbl, "assessment", mappings, "CZ010", "rec-1")

	assert.Equal(t, core.CellTime, out.Rows[0][0].Kind)
	assert.Equal(t, core.NumberCell(85), out.Rows[0][1])
	assert.Equal(t, core.StringCell("ok"), out.Rows[0][2])

	// Invalid dates and numbers degrade to null, never raise; "nan" is null
	assert.Equal(t, core.NullCell(), out.Rows[1][0])
	assert.Equal(t, core.NullCell(), out.Rows[1][1])
	assert.Equal(t, core.NullCell(), out.Rows[1][2])
}

func TestNormalize_SchoolNameCleanup(t *testing.T) {
	n := NewNormalizer(WithClock(fixedClock()))

	tbl := &table.Table{
		Columns: []string{"skola"},
		Rows: [][]string{
			{"zs komenskeho"},
			{"GYMNAZIUM nad alejí"},
		},
	}
	mappings := []core.ColumnMapping{autoMapping("skola", "school_name")}

	out := n.Normalize(tbl, "enrollment", mappings, "CZ010", "rec-1")

	assert.Equal(t, core.StringCell("ZŠ Komenskeho"), out.Rows[0][0])
	assert.Equal(t, core.StringCell("Gymnázium nad Alejí"), out.Rows[1][0])
}

func TestNormalize_PseudonymizationRoundTrip(t *testing.T) {
	n := NewNormalizer(WithPseudonymization(true), WithClock(fixedClock()))

	tbl := &table.Table{
		Columns: []string{"id_zaka", "score"},
		Rows:    [][]string{{"S001", "85"}},
	}
	mappings := []core.ColumnMapping{
		autoMapping("id_zaka", "student_id"),
		autoMapping("score", "score"),
	}

	out := n.Normalize(tbl, "assessment", mappings, "CZ010", "rec-1")

	original := out.Column("student_id_original")
	require.NotNil(t, original, "original value must be retained")
	assert.Equal(t, core.StringCell("S001"), original[0])

	hashed := out.Column("student_id")
	require.NotNil(t, hashed)
	assert.Equal(t, core.PseudonymizeID("S001"), hashed[0].Str)
	assert.NotEqual(t, "S001", hashed[0].Str)

	// Metadata identifier columns are exempt
	assert.Equal(t, core.StringCell("CZ010"), out.Column(ColRegionID)[0])
	assert.Equal(t, core.StringCell("rec-1"), out.Column(ColRecordID)[0])
	assert.Nil(t, out.Column(ColRecordID+"_original"))
}

func TestNormalize_PseudonymizationDisabledByDefault(t *testing.T) {
	n := NewNormalizer(WithClock(fixedClock()))

	tbl := &table.Table{
		Columns: []string{"id_zaka"},
		Rows:    [][]string{{"S001"}},
	}
	mappings := []core.ColumnMapping{autoMapping("id_zaka", "student_id")}

	out := n.Normalize(tbl, "assessment", mappings, "CZ010", "rec-1")

	assert.Equal(t, core.StringCell("S001"), out.Column("student_id")[0])
	assert.Nil(t, out.Column("student_id_original"))
}
