package export

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/dbsmedya/tabconv/internal/types"
)

// WriteJSON writes the rows as a JSON array of objects. Keys follow column
// order, then keys outside the columns sorted. Non-ASCII and HTML characters
// are written as is.
func WriteJSON(w io.Writer, tbl *types.Table, opts JSONOptions) error {
	columns := tbl.Columns()

	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, row := range tbl.All() {
		if i > 0 {
			compact.WriteByte(',')
		}
		if err := writeObject(&compact, columns, row); err != nil {
			return err
		}
	}
	compact.WriteByte(']')

	out := compact.Bytes()
	if opts.Indent > 0 {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", strings.Repeat(" ", opts.Indent)); err != nil {
			return err
		}
		out = indented.Bytes()
	}

	return encodeTo(w, opts.Encoding, func(w io.Writer) error {
		if _, err := w.Write(out); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	})
}

func writeObject(buf *bytes.Buffer, columns []string, row types.Row) error {
	buf.WriteByte('{')
	for i, key := range orderedKeys(columns, row) {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(key)
		if err != nil {
			return err
		}
		v, err := marshal(row[key])
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return nil
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
