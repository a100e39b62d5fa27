// Package types contains the Record Table shared by the parsers, the exporter
// and the verifier.
package types

import (
	"iter"
	"maps"
	"slices"
	"time"
)

// Metadata keys stamped by the parsers.
const (
	MetaSource       = "source"
	MetaFormat       = "format"
	MetaEncoding     = "encoding"
	MetaDelimiter    = "delimiter"
	MetaRootTag      = "root_tag"
	MetaRowsCount    = "rows_count"
	MetaColumnsCount = "columns_count"
	MetaParsedAt     = "parsed_at"
)

// Row is one record keyed by column name.
type Row map[string]any

// Metadata carries provenance about a Table.
type Metadata map[string]any

// Table is the uniform in-memory representation of parsed records.
//
// A Table is not modified after construction. Callers that need different
// rows or metadata build a new Table with New or Filter.
type Table struct {
	columns  []string
	rows     []Row
	metadata Metadata
}

// New builds a Table. The column slice, row slice and metadata map are
// copied; rows themselves are shared. parsed_at is stamped unless present.
func New(columns []string, rows []Row, metadata Metadata) *Table {
	md := make(Metadata, len(metadata)+1)
	maps.Copy(md, metadata)
	if _, ok := md[MetaParsedAt]; !ok {
		md[MetaParsedAt] = time.Now().Format(time.RFC3339Nano)
	}

	cols := slices.Clone(columns)
	if cols == nil {
		cols = []string{}
	}
	rs := slices.Clone(rows)
	if rs == nil {
		rs = []Row{}
	}

	return &Table{columns: cols, rows: rs, metadata: md}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// At returns the i-th row. Negative indices count from the end.
func (t *Table) At(i int) (Row, bool) {
	if i < 0 {
		i += len(t.rows)
	}
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i], true
}

// Slice returns rows[start:end] with negative indices resolved from the end
// and both bounds clamped to the table.
func (t *Table) Slice(start, end int) []Row {
	n := len(t.rows)
	start = clampIndex(start, n)
	end = clampIndex(end, n)
	if start >= end {
		return []Row{}
	}
	return slices.Clone(t.rows[start:end])
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}

// All iterates the rows in order, starting from the first row on every call.
func (t *Table) All() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// Columns returns a copy of the ordered column names.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Rows returns a copy of the row slice.
func (t *Table) Rows() []Row {
	return slices.Clone(t.rows)
}

// Metadata returns a copy of the metadata map.
func (t *Table) Metadata() Metadata {
	return maps.Clone(t.metadata)
}

// Meta returns one metadata value.
func (t *Table) Meta(key string) (any, bool) {
	v, ok := t.metadata[key]
	return v, ok
}

// ToMap returns a snapshot suitable for serialization or debugging.
func (t *Table) ToMap() map[string]any {
	return map[string]any{
		"columns":  t.Columns(),
		"rows":     t.Rows(),
		"metadata": t.Metadata(),
	}
}

// Filter builds a new Table holding the rows keep accepts, in order. The
// source metadata is carried over, rows_count is recomputed, and overrides
// are applied last.
func (t *Table) Filter(keep func(Row) bool, overrides Metadata) *Table {
	kept := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}

	md := maps.Clone(t.metadata)
	md[MetaRowsCount] = len(kept)
	maps.Copy(md, overrides)

	return New(t.columns, kept, md)
}
