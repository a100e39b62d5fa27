package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/tabconv/internal/types"
)

func parseYAML(t *testing.T, content string, opts Options) (*types.Table, error) {
	t.Helper()
	return NewYAMLAdapter(nil).Parse(writeFile(t, "data.yaml", content), opts)
}

func TestYAMLAdapter_Sequence(t *testing.T) {
	tbl, err := parseYAML(t, `
- name: Alice
  age: 30
  score: 9.5
  active: true
- name: Bob
  age: 25
`, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "score", "active"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())

	first, _ := tbl.At(0)
	assert.Equal(t, "Alice", first["name"])
	assert.Equal(t, int64(30), first["age"])
	assert.Equal(t, 9.5, first["score"])
	assert.Equal(t, true, first["active"])

	v, _ := tbl.Meta(types.MetaFormat)
	assert.Equal(t, "yaml", v)
}

func TestYAMLAdapter_DataKeyAndSingle(t *testing.T) {
	t.Run("data key", func(t *testing.T) {
		tbl, err := parseYAML(t, "total: 1\ndata:\n  - id: 1\n", DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []types.Row{{"id": int64(1)}}, tbl.Rows())
	})

	t.Run("single mapping", func(t *testing.T) {
		tbl, err := parseYAML(t, "id: 1\ntags: [a, b]\nnested: {k: v}\nnone: null\n", DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, 1, tbl.Len())
		row, _ := tbl.At(0)
		assert.Equal(t, []any{"a", "b"}, row["tags"])
		assert.Equal(t, map[string]any{"k": "v"}, row["nested"])
		assert.Nil(t, row["none"])
	})

	t.Run("empty sequence", func(t *testing.T) {
		tbl, err := parseYAML(t, "[]\n", DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
	})

	t.Run("anchors resolved", func(t *testing.T) {
		tbl, err := parseYAML(t, "- &a {id: 1}\n- *a\n", DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, []types.Row{{"id": int64(1)}, {"id": int64(1)}}, tbl.Rows())
	})
}

func TestYAMLAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"scalar", "42\n"},
		{"sequence of scalars", "- 1\n- 2\n"},
		{"unclosed flow sequence", "a: [1, 2\n"},
		{"two documents", "a: 1\n---\nb: 2\n"},
		{"infinity", "- a: .inf\n"},
		{"not a number", "- a: {b: .nan}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseYAML(t, tt.content, DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormatInvalid), "got %v", err)
		})
	}
}

func TestYAMLAdapter_Validate(t *testing.T) {
	a := NewYAMLAdapter(nil)

	assert.True(t, a.Validate(writeFile(t, "ok.yaml", "a: 1\n")))
	assert.True(t, a.Validate(writeFile(t, "ok.yml", "- a: 1\n")))
	assert.False(t, a.Validate(writeFile(t, "ok.json", "a: 1\n")))
	assert.False(t, a.Validate(writeFile(t, "bad.yaml", "a: [1\n")))
}
