// Package parser turns CSV, JSON, XML and YAML files into Record Tables.
//
// Each format is an Adapter. A Registry maps file extensions to adapter
// constructors and hands out a fresh adapter per lookup; new formats are added
// with Register without touching the dispatch code.
package parser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/tabconv/internal/logger"
	"github.com/dbsmedya/tabconv/internal/textenc"
	"github.com/dbsmedya/tabconv/internal/types"
)

// Adapter reads one file format into a Record Table.
type Adapter interface {
	// Format returns the format tag stored in metadata, e.g. "csv".
	Format() string
	// Parse reads the file at path.
	Parse(path string, opts Options) (*types.Table, error)
	// Validate is a cheap pre-check. It never fails; any problem yields false.
	Validate(path string) bool
}

// Constructor builds an adapter. Adapters are stateless; the registry calls
// the constructor on every lookup.
type Constructor func(log *logger.Logger) Adapter

// Extension returns the lower-cased suffix of path including the dot.
// Dot-files such as ".env" and names ending in a dot have no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base || ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

// readBytes loads the whole file. A missing file is ErrFileMissing; other
// I/O errors are returned unchanged.
func readBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fileMissing(path, err)
		}
		return nil, err
	}
	return data, nil
}

// decodeText converts data under encoding, reporting ErrDecodeFailure.
func decodeText(path string, data []byte, encoding string) (string, error) {
	text, err := textenc.Decode(data, encoding)
	if err != nil {
		return "", decodeFailure(path, textenc.Normalize(encoding), err)
	}
	return text, nil
}

// readText loads and decodes the whole file.
func readText(path, encoding string) (string, error) {
	data, err := readBytes(path)
	if err != nil {
		return "", err
	}
	return decodeText(path, data, encoding)
}

// isRegularFile reports whether path names an existing regular file.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// newTable stamps the metadata every adapter records.
func newTable(path, format, encoding string, columns []string, rows []types.Row, extra types.Metadata) *types.Table {
	md := types.Metadata{
		types.MetaSource:       path,
		types.MetaFormat:       format,
		types.MetaEncoding:     encoding,
		types.MetaRowsCount:    len(rows),
		types.MetaColumnsCount: len(columns),
	}
	for k, v := range extra {
		md[k] = v
	}
	return types.New(columns, rows, md)
}

func orNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.NewNop()
	}
	return log
}
