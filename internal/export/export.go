// Package export serializes Record Tables to CSV, JSON, XML and YAML.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dbsmedya/tabconv/internal/config"
	"github.com/dbsmedya/tabconv/internal/textenc"
	"github.com/dbsmedya/tabconv/internal/types"
)

// ErrUnsupportedFormat is returned by ToFile for an unknown output extension.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// CSVOptions controls WriteCSV.
type CSVOptions struct {
	Delimiter rune
	Encoding  string
}

// JSONOptions controls WriteJSON. Indent 0 writes compact JSON.
type JSONOptions struct {
	Indent   int
	Encoding string
}

// XMLOptions controls WriteXML.
type XMLOptions struct {
	RootTag   string
	RecordTag string
	Encoding  string
}

// YAMLOptions controls WriteYAML.
type YAMLOptions struct {
	Encoding string
}

// Options groups the per-format options used by ToFile.
type Options struct {
	CSV  CSVOptions
	JSON JSONOptions
	XML  XMLOptions
	YAML YAMLOptions
}

// DefaultOptions returns comma-separated CSV, JSON indented by 2, and XML with
// a <data> root holding <record> elements, all in UTF-8.
func DefaultOptions() Options {
	return Options{
		CSV:  CSVOptions{Delimiter: ',', Encoding: textenc.DefaultEncoding},
		JSON: JSONOptions{Indent: 2, Encoding: textenc.DefaultEncoding},
		XML:  XMLOptions{RootTag: "data", RecordTag: "record", Encoding: textenc.DefaultEncoding},
		YAML: YAMLOptions{Encoding: textenc.DefaultEncoding},
	}
}

// OptionsFromConfig builds export options from the export config section.
// Empty values keep the defaults.
func OptionsFromConfig(cfg config.ExportConfig) Options {
	opts := DefaultOptions()

	if cfg.CSV.Delimiter != "" {
		opts.CSV.Delimiter, _ = utf8.DecodeRuneInString(cfg.CSV.Delimiter)
	}
	if cfg.CSV.Encoding != "" {
		opts.CSV.Encoding = cfg.CSV.Encoding
	}
	if cfg.JSON.Indent >= 0 {
		opts.JSON.Indent = cfg.JSON.Indent
	}
	if cfg.JSON.Encoding != "" {
		opts.JSON.Encoding = cfg.JSON.Encoding
	}
	if cfg.XML.RootTag != "" {
		opts.XML.RootTag = cfg.XML.RootTag
	}
	if cfg.XML.RecordTag != "" {
		opts.XML.RecordTag = cfg.XML.RecordTag
	}
	if cfg.XML.Encoding != "" {
		opts.XML.Encoding = cfg.XML.Encoding
	}

	return opts
}

// Formats returns the output extensions ToFile understands, sorted.
func Formats() []string {
	exts := make([]string, 0, len(writers))
	for ext := range writers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

type writeFunc func(w io.Writer, tbl *types.Table, opts Options) error

var writers = map[string]writeFunc{
	".csv": func(w io.Writer, tbl *types.Table, opts Options) error {
		return WriteCSV(w, tbl, opts.CSV)
	},
	".json": func(w io.Writer, tbl *types.Table, opts Options) error {
		return WriteJSON(w, tbl, opts.JSON)
	},
	".xml": func(w io.Writer, tbl *types.Table, opts Options) error {
		return WriteXML(w, tbl, opts.XML)
	},
	".yaml": func(w io.Writer, tbl *types.Table, opts Options) error {
		return WriteYAML(w, tbl, opts.YAML)
	},
	".yml": func(w io.Writer, tbl *types.Table, opts Options) error {
		return WriteYAML(w, tbl, opts.YAML)
	},
}

// ToFile writes tbl to path in the format named by path's extension.
func ToFile(tbl *types.Table, path string, opts Options) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	write, ok := writers[ext]
	if !ok {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := write(f, tbl, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// encodeTo runs fn against a writer that encodes into the named encoding.
func encodeTo(w io.Writer, encoding string, fn func(io.Writer) error) error {
	ew, err := textenc.NewWriter(w, encoding)
	if err != nil {
		return err
	}
	if err := fn(ew); err != nil {
		ew.Close()
		return err
	}
	return ew.Close()
}

// orderedKeys returns the row's keys in column order followed by any keys
// outside the columns, sorted.
func orderedKeys(columns []string, row types.Row) []string {
	keys := make([]string, 0, len(row))
	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		known[col] = true
		if _, ok := row[col]; ok {
			keys = append(keys, col)
		}
	}

	var extra []string
	for k := range row {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
