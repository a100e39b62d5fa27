package parser

import (
	"errors"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/tabconv/internal/types"
)

func parseCSV(t *testing.T, content string, opts Options) (*types.Table, error) {
	t.Helper()
	return NewCSVAdapter(nil).Parse(writeFile(t, "data.csv", content), opts)
}

func TestCSVAdapter_Parse(t *testing.T) {
	path := writeFile(t, "people.csv", "name,age\nAlice,30\nBob,25\n")

	tbl, err := NewCSVAdapter(nil).Parse(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, tbl.Columns())
	assert.Equal(t, []types.Row{
		{"name": "Alice", "age": "30"},
		{"name": "Bob", "age": "25"},
	}, tbl.Rows())

	md := tbl.Metadata()
	assert.Equal(t, path, md[types.MetaSource])
	assert.Equal(t, "csv", md[types.MetaFormat])
	assert.Equal(t, ",", md[types.MetaDelimiter])
	assert.Equal(t, "utf-8", md[types.MetaEncoding])
	assert.Equal(t, 2, md[types.MetaRowsCount])
	assert.Equal(t, 2, md[types.MetaColumnsCount])
	assert.Contains(t, md, types.MetaParsedAt)
}

func TestCSVAdapter_Rectangular(t *testing.T) {
	tbl, err := parseCSV(t, "a,b,c\n1,2,3\n4,5,6\n7,8,9\n", DefaultOptions())
	require.NoError(t, err)

	for _, row := range tbl.Rows() {
		assert.Len(t, row, len(tbl.Columns()))
		for _, col := range tbl.Columns() {
			assert.IsType(t, "", row[col])
		}
	}
}

func TestCSVAdapter_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    Options
		columns []string
		rows    []types.Row
	}{
		{
			name:    "leading space stripped",
			content: "name, age\nAlice, 30\n",
			columns: []string{"name", "age"},
			rows:    []types.Row{{"name": "Alice", "age": "30"}},
		},
		{
			name:    "leading space kept",
			content: "name, age\nAlice, 30\n",
			opts:    Options{KeepLeadingSpace: true},
			columns: []string{"name", " age"},
			rows:    []types.Row{{"name": "Alice", " age": " 30"}},
		},
		{
			name:    "short record omits trailing keys",
			content: "a,b,c\n1,2\n",
			columns: []string{"a", "b", "c"},
			rows:    []types.Row{{"a": "1", "b": "2"}},
		},
		{
			name:    "extra fields dropped",
			content: "a,b\n1,2,3,4\n",
			columns: []string{"a", "b"},
			rows:    []types.Row{{"a": "1", "b": "2"}},
		},
		{
			name:    "blank lines skipped",
			content: "a,b\n\n1,2\n\n3,4\n",
			columns: []string{"a", "b"},
			rows:    []types.Row{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}},
		},
		{
			name:    "carriage return line ends",
			content: "name,age\rAlice,30\rBob,25\r",
			columns: []string{"name", "age"},
			rows:    []types.Row{{"name": "Alice", "age": "30"}, {"name": "Bob", "age": "25"}},
		},
		{
			name:    "crlf line ends",
			content: "name,age\r\nAlice,30\r\n",
			columns: []string{"name", "age"},
			rows:    []types.Row{{"name": "Alice", "age": "30"}},
		},
		{
			name:    "header only",
			content: "a,b\n",
			columns: []string{"a", "b"},
			rows:    []types.Row{},
		},
		{
			name:    "quoted fields",
			content: "a,b\n\"x, y\",\"say \"\"hi\"\"\"\n",
			columns: []string{"a", "b"},
			rows:    []types.Row{{"a": "x, y", "b": `say "hi"`}},
		},
		{
			name:    "tab delimiter keeps empty fields",
			content: "a\tb\tc\n1\t\t3\n",
			opts:    Options{Delimiter: '\t'},
			columns: []string{"a", "b", "c"},
			rows:    []types.Row{{"a": "1", "b": "", "c": "3"}},
		},
		{
			name:    "custom quote",
			content: "name;note\nAlice;'x; y'\nBob;say \"hi\"\n",
			opts:    Options{Delimiter: ';', Quote: '\''},
			columns: []string{"name", "note"},
			rows: []types.Row{
				{"name": "Alice", "note": "x; y"},
				{"name": "Bob", "note": `say "hi"`},
			},
		},
		{
			name:    "byte order mark dropped",
			content: "\xef\xbb\xbfname\nAlice\n",
			columns: []string{"name"},
			rows:    []types.Row{{"name": "Alice"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := parseCSV(t, tt.content, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.columns, tbl.Columns())
			assert.Equal(t, tt.rows, tbl.Rows())
		})
	}
}

func TestCSVAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    error
	}{
		{"empty file", "", ErrFormatInvalid},
		{"blank lines only", "\n\n", ErrFormatInvalid},
		{"duplicate header", "a,b,a\n1,2,3\n", ErrFormatInvalid},
		{"unterminated quote", "a,b\n\"open,2\n", ErrFormatInvalid},
		{"bare quote", "a,b\nx\"y,2\n", ErrFormatInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCSV(t, tt.content, DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestCSVAdapter_MissingFile(t *testing.T) {
	_, err := NewCSVAdapter(nil).Parse(filepath.Join(t.TempDir(), "absent.csv"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrFileMissing))
}

func TestCSVAdapter_UnusableSeparators(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"delimiter equals quote", Options{Delimiter: '"'}},
		{"custom quote equals delimiter", Options{Delimiter: ';', Quote: ';'}},
		{"newline delimiter", Options{Delimiter: '\n'}},
		{"carriage return delimiter", Options{Delimiter: '\r'}},
		{"replacement character delimiter", Options{Delimiter: utf8.RuneError}},
		{"newline quote", Options{Quote: '\n'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCSV(t, "a\n1\n", tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.True(t, errors.Is(err, ErrFormatInvalid), "got %v", err)
		})
	}
}

func TestCSVAdapter_Encoding(t *testing.T) {
	content := "name\ncaf\xe9\n"

	t.Run("latin-1", func(t *testing.T) {
		tbl, err := parseCSV(t, content, Options{Encoding: "latin-1"})
		require.NoError(t, err)
		row, _ := tbl.At(0)
		assert.Equal(t, "café", row["name"])
		v, _ := tbl.Meta(types.MetaEncoding)
		assert.Equal(t, "latin-1", v)
	})

	t.Run("utf-8 fails", func(t *testing.T) {
		_, err := parseCSV(t, content, DefaultOptions())
		assert.True(t, errors.Is(err, ErrDecodeFailure))
		assert.Contains(t, err.Error(), "try another encoding")
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := parseCSV(t, content, Options{Encoding: "klingon"})
		assert.True(t, errors.Is(err, ErrDecodeFailure))
	})
}

func TestCSVAdapter_Validate(t *testing.T) {
	a := NewCSVAdapter(nil)

	tests := []struct {
		name string
		file string
		body string
		want bool
	}{
		{"valid", "ok.csv", "a,b\n1,2\n", true},
		{"header only", "head.csv", "a,b\n", true},
		{"upper-case extension", "OK.CSV", "a,b\n1,2\n", true},
		{"empty", "empty.csv", "", false},
		{"wrong extension", "data.txt", "a,b\n1,2\n", false},
		{"malformed", "bad.csv", "a,b\n\"open\n", false},
		{"not utf-8", "latin.csv", "a\ncaf\xe9\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Validate(writeFile(t, tt.file, tt.body)))
		})
	}

	assert.False(t, a.Validate(filepath.Join(t.TempDir(), "absent.csv")))
	assert.False(t, a.Validate(t.TempDir()))
}
