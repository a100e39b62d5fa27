package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dbsmedya/tabconv/internal/logger"
	"github.com/dbsmedya/tabconv/internal/types"
)

// CSVAdapter reads delimited text. The first record is the header; every
// value is a string.
type CSVAdapter struct {
	log *logger.Logger
}

// NewCSVAdapter creates a CSV adapter.
func NewCSVAdapter(log *logger.Logger) Adapter {
	return &CSVAdapter{log: orNop(log).WithFormat("csv")}
}

// Format implements Adapter.
func (a *CSVAdapter) Format() string { return "csv" }

// Parse implements Adapter.
func (a *CSVAdapter) Parse(path string, opts Options) (*types.Table, error) {
	opts = opts.withDefaults()
	encoding := encodingOrDefault(opts.Encoding)
	log := a.log.WithFile(path)

	log.Infow("parsing CSV", "delimiter", string(opts.Delimiter), "encoding", encoding)

	if err := checkSeparators(opts); err != nil {
		log.Errorw("unusable CSV options", "error", err)
		return nil, formatInvalid(path, "", err)
	}

	text, err := readText(path, encoding)
	if err != nil {
		log.Errorw("cannot read CSV", "error", err)
		return nil, err
	}

	columns, rows, err := a.readRecords(log, text, opts)
	if err != nil {
		log.Errorw("CSV parse failed", "error", err)
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, formatInvalid(path, "malformed CSV", err)
		}
		if errors.Is(err, errNoHeader) || errors.Is(err, errDuplicateColumn) {
			return nil, formatInvalid(path, "", err)
		}
		return nil, err
	}

	log.Infow("parsed CSV", "rows", len(rows), "columns", len(columns))

	return newTable(path, a.Format(), encoding, columns, rows, types.Metadata{
		types.MetaDelimiter: string(opts.Delimiter),
	}), nil
}

var (
	errNoHeader        = errors.New("no header row found")
	errDuplicateColumn = errors.New("duplicate column name")
)

// checkSeparators rejects delimiter and quote characters the reader cannot
// work with.
func checkSeparators(opts Options) error {
	if opts.Delimiter == opts.Quote {
		return fmt.Errorf("delimiter and quote must differ, both are %q", opts.Delimiter)
	}
	for _, c := range []struct {
		what string
		r    rune
	}{{"delimiter", opts.Delimiter}, {"quote", opts.Quote}} {
		if c.r == '\r' || c.r == '\n' || c.r == utf8.RuneError || !utf8.ValidRune(c.r) {
			return fmt.Errorf("%q cannot be used as %s", c.r, c.what)
		}
	}
	return nil
}

// lineEndings turns CRLF and lone CR line ends into LF; encoding/csv only
// splits records on LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func (a *CSVAdapter) readRecords(log *logger.Logger, text string, opts Options) ([]string, []types.Row, error) {
	text = lineEndings.Replace(text)

	swap := quoteSwapper(opts.Quote)
	if swap != nil {
		text = swap.Replace(text)
	}

	r := newCSVReader(strings.NewReader(text), opts)

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, errNoHeader
	}
	if err != nil {
		return nil, nil, err
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if swap != nil {
			h = swap.Replace(h)
		}
		if seen[h] {
			return nil, nil, fmt.Errorf("%w %q", errDuplicateColumn, h)
		}
		seen[h] = true
		columns[i] = h
	}

	var rows []types.Row
	extra := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		// Short records leave trailing columns absent.
		row := make(types.Row, len(columns))
		for i, field := range record {
			if i >= len(columns) {
				extra++
				break
			}
			if swap != nil {
				field = swap.Replace(field)
			}
			row[columns[i]] = field
		}
		rows = append(rows, row)
	}

	if extra > 0 {
		log.Warnw("dropped fields beyond the header", "records", extra)
	}

	return columns, rows, nil
}

func newCSVReader(src io.Reader, opts Options) *csv.Reader {
	r := csv.NewReader(src)
	r.Comma = opts.Delimiter
	// After a quote swap a '"' delimiter reads as the quote character.
	if opts.Quote != DefaultQuote && opts.Delimiter == DefaultQuote {
		r.Comma = opts.Quote
	}
	// Trimming after a whitespace delimiter would swallow empty fields.
	r.TrimLeadingSpace = !opts.KeepLeadingSpace && !unicode.IsSpace(opts.Delimiter)
	r.FieldsPerRecord = -1
	return r
}

// quoteSwapper exchanges a custom quote character with '"' so encoding/csv,
// which only knows '"', sees the intended quoting. The swap is its own
// inverse and is applied again to every field.
func quoteSwapper(quote rune) *strings.Replacer {
	if quote == DefaultQuote {
		return nil
	}
	return strings.NewReplacer(string(quote), `"`, `"`, string(quote))
}

// Validate implements Adapter. It reads the header and the first data
// record as UTF-8 with default options.
func (a *CSVAdapter) Validate(path string) bool {
	if !isRegularFile(path) || Extension(path) != ".csv" {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	r := newCSVReader(f, DefaultOptions())
	for i := 0; i < 2; i++ {
		record, err := r.Read()
		if err == io.EOF {
			// a header alone is fine, nothing at all is not
			return i > 0
		}
		if err != nil {
			return false
		}
		for _, field := range record {
			if !utf8.ValidString(field) {
				return false
			}
		}
	}
	return true
}
