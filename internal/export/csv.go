package export

import (
	"encoding/csv"
	"io"

	"github.com/dbsmedya/tabconv/internal/types"
)

// WriteCSV writes a header line from the columns and one line per row in
// column order. Missing values are written empty; keys outside the columns
// are ignored. A table without columns produces no output.
func WriteCSV(w io.Writer, tbl *types.Table, opts CSVOptions) error {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	return encodeTo(w, opts.Encoding, func(w io.Writer) error {
		columns := tbl.Columns()
		if len(columns) == 0 {
			return nil
		}

		cw := csv.NewWriter(w)
		cw.Comma = opts.Delimiter

		if err := cw.Write(columns); err != nil {
			return err
		}

		record := make([]string, len(columns))
		for _, row := range tbl.All() {
			for i, col := range columns {
				record[i] = types.ToString(row[col])
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	})
}
