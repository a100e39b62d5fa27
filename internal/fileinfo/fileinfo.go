// Package fileinfo answers simple questions about input files.
package fileinfo

import (
	"os"

	"github.com/dbsmedya/tabconv/internal/textenc"
)

// candidateEncodings are tried in order by DetectEncoding. latin-1 maps every
// byte, so cp1252 is only reached for bytes latin-1 rejects.
var candidateEncodings = []string{"utf-8", "latin-1", "cp1252"}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsReadable reports whether path is a regular file that can be opened.
func IsReadable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// Size returns the file size in bytes.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// DetectEncoding returns the first candidate encoding that decodes the whole
// file, falling back to utf-8.
func DetectEncoding(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for _, enc := range candidateEncodings {
		if _, err := textenc.Decode(data, enc); err == nil {
			return enc, nil
		}
	}
	return textenc.DefaultEncoding, nil
}
