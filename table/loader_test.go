package table

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "grades.csv", "Student ID,Subject,Score\ns1,matematika,1\ns2,fyzika,3\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"student_id", "subject", "score"}, tbl.Columns)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"s1", "s2"}, tbl.Column("student_id"))
}

func TestLoad_SeparatorSniffing(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "semicolon", content: "student_id;score\ns1;1\n"},
		{name: "pipe", content: "student_id|score\ns1|1\n"},
		{name: "tab", content: "student_id\tscore\ns1\t1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "data.csv", tt.content)

			tbl, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, []string{"student_id", "score"}, tbl.Columns)
			require.Equal(t, 1, tbl.NumRows())
			assert.Equal(t, "s1", tbl.Rows[0][0])
		})
	}
}

func TestLoad_TSV(t *testing.T) {
	path := writeFile(t, "data.tsv", "name\tregion\nJana\tCZ010\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "region"}, tbl.Columns)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "data.json",
		`[{"student_id":"s1","score":1.5},{"student_id":"s2","score":null,"note":"chybi"}]`)

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"student_id", "score", "note"}, tbl.Columns)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "1.5", tbl.Column("score")[0])
	assert.Equal(t, "", tbl.Column("score")[1])
}

func TestLoad_JSONColumnOrderIsStable(t *testing.T) {
	// Column order must follow the order keys first appear in the
	// document, not map iteration order, so re-ingesting the same file
	// always yields the same table shape.
	content := `[
		{"student_id":"s1","subject":"matematika","score":1,"date":"2026-01-10","region":"CZ010","note":"ok"},
		{"student_id":"s2","score":2,"attendance":0.93}
	]`
	want := []string{"student_id", "subject", "score", "date", "region", "note", "attendance"}

	for i := 0; i < 50; i++ {
		tbl, err := LoadText(content, "application/json")
		require.NoError(t, err)
		require.Equal(t, want, tbl.Columns, "load %d", i)
	}
}

func TestLoad_JSONLColumnOrderIsStable(t *testing.T) {
	content := "{\"teacher\":\"Jana Novakova\",\"school\":\"ZS Kunratice\",\"class\":\"3.B\",\"score\":85,\"date\":\"2026-02-01\"}\n" +
		"{\"teacher\":\"Petr Svoboda\",\"lang\":\"cs-CZ\"}\n"
	want := []string{"teacher", "school", "class", "score", "date", "lang"}

	for i := 0; i < 50; i++ {
		tbl, err := LoadText(content, "application/json")
		require.NoError(t, err)
		require.Equal(t, want, tbl.Columns, "load %d", i)
	}
}

func TestLoad_JSONL(t *testing.T) {
	path := writeFile(t, "data.jsonl",
		"{\"student_id\":\"s1\"}\n\n{\"student_id\":\"s2\"}\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, tbl.Column("student_id"))
}

func TestLoad_RaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.csv", "a,b,c\n1,2\n1,2,3,4\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"1", "2", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, tbl.Rows[1])
}

func TestLoad_DropsEmptyColumns(t *testing.T) {
	path := writeFile(t, "sparse.csv", "a,b,c\n1,,x\n2,,y\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, tbl.Columns)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "data.xlsx", "junk")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeFile(t, "header.csv", "a,b\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, "bad.json", "{not json")
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrMalformedInput))
	})
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Student ID", "student_id"},
		{"  score  ", "score"},
		{"already_snake", "already_snake"},
		{"Région-Č.1", "r_gion_1"},
		{"UPPER", "upper"},
		{"a  b", "a_b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SnakeCase(tt.in), "SnakeCase(%q)", tt.in)
	}
}

func TestLoadText(t *testing.T) {
	t.Run("csv by content type", func(t *testing.T) {
		tbl, err := LoadText("Student ID,Score\ns1,1\ns2,2\n", "text/csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"student_id", "score"}, tbl.Columns)
		assert.Equal(t, 2, tbl.NumRows())
	})

	t.Run("tsv by content type", func(t *testing.T) {
		tbl, err := LoadText("a\tb\n1\t2\n", "text/tab-separated-values")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	})

	t.Run("json array", func(t *testing.T) {
		tbl, err := LoadText(`[{"a": 1, "b": "x"}, {"a": 2, "b": "y"}]`, "application/json")
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.NumRows())
	})

	t.Run("jsonl under json content type", func(t *testing.T) {
		tbl, err := LoadText("{\"a\": 1}\n{\"a\": 2}\n", "application/json")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, tbl.Columns)
		assert.Equal(t, 2, tbl.NumRows())
	})

	t.Run("unknown content type autodetects", func(t *testing.T) {
		tbl, err := LoadText("a;b\n1;2\n", "application/octet-stream")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	})

	t.Run("unknown content type autodetects json", func(t *testing.T) {
		tbl, err := LoadText(`[{"a": 1}]`, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, tbl.Columns)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := LoadText("", "text/csv")
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("unparseable json", func(t *testing.T) {
		_, err := LoadText("{{{ not json", "application/json")
		assert.Error(t, err)
	})
}
