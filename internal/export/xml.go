package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/dbsmedya/tabconv/internal/textenc"
	"github.com/dbsmedya/tabconv/internal/types"
	"github.com/dbsmedya/tabconv/internal/xmlname"
)

// WriteXML writes a declaration followed by RootTag holding one RecordTag
// element per row. Each column becomes a child element carrying the
// stringified value; column names are sanitized into distinct valid tag
// names.
func WriteXML(w io.Writer, tbl *types.Table, opts XMLOptions) error {
	root := xmlname.Sanitize(orDefault(opts.RootTag, "data"))
	record := xmlname.Sanitize(orDefault(opts.RecordTag, "record"))
	encoding := textenc.Normalize(opts.Encoding)

	columns := tbl.Columns()
	tags := xmlname.SanitizeAll(columns)

	return encodeTo(w, encoding, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", encoding); err != nil {
			return err
		}

		enc := xml.NewEncoder(w)
		enc.Indent("", "    ")

		start := func(name string) error {
			return enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
		}
		end := func(name string) error {
			return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
		}

		if err := start(root); err != nil {
			return err
		}
		for _, row := range tbl.All() {
			if err := start(record); err != nil {
				return err
			}
			for i, col := range columns {
				if err := enc.EncodeElement(types.ToString(row[col]), xml.StartElement{Name: xml.Name{Local: tags[i]}}); err != nil {
					return err
				}
			}
			if err := end(record); err != nil {
				return err
			}
		}
		if err := end(root); err != nil {
			return err
		}
		if err := enc.Flush(); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	})
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
