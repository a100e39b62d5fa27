// Package textenc converts between raw file bytes and UTF-8 text under a
// named character encoding.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used whenever no encoding is requested.
const DefaultEncoding = "utf-8"

var (
	// ErrUnknownEncoding is returned for an encoding name that cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrInvalidText is returned when bytes do not decode under the requested encoding.
	ErrInvalidText = errors.New("invalid text for encoding")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Names recognised directly. Anything else goes through the WHATWG label
// index, which maps "latin1" to windows-1252; these keep the ISO meaning.
var named = map[string]encoding.Encoding{
	"latin-1":      charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// Normalize lower-cases and trims an encoding name, defaulting to utf-8.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultEncoding
	}
	return name
}

func isUTF8(name string) bool {
	return name == "utf-8" || name == "utf8"
}

// lookup resolves a normalized name. A nil encoding means UTF-8.
func lookup(name string) (encoding.Encoding, error) {
	if isUTF8(name) {
		return nil, nil
	}
	if enc, ok := named[name]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// Supported reports whether name resolves to a known encoding.
func Supported(name string) bool {
	_, err := lookup(Normalize(name))
	return err == nil
}

// Decode converts data to UTF-8 text. A leading UTF-8 byte order mark is
// dropped when decoding as UTF-8.
func Decode(data []byte, name string) (string, error) {
	name = Normalize(name)
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}

	if enc == nil {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w %s: invalid byte at offset %d", ErrInvalidText, name, invalidOffset(data))
		}
		return string(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrInvalidText, name, err)
	}
	// x/text decoders substitute U+FFFD for bytes the charset leaves undefined.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("%w %s: undefined byte sequence", ErrInvalidText, name)
	}
	return string(out), nil
}

// NewWriter returns a writer that encodes UTF-8 text written to it into the
// named encoding before passing it to w. Close flushes any pending partial
// rune; it does not close w.
func NewWriter(w io.Writer, name string) (io.WriteCloser, error) {
	enc, err := lookup(Normalize(name))
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nopCloser{w}, nil
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}
