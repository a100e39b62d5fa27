package parser

import (
	"unicode/utf8"

	"github.com/dbsmedya/tabconv/internal/config"
	"github.com/dbsmedya/tabconv/internal/textenc"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultDelimiter = ','
	DefaultQuote     = '"'
	DefaultDataKey   = "data"
)

// Options carries the parse options of every format. Each adapter reads the
// fields that apply to it; zero values select the defaults.
type Options struct {
	// Encoding names the file's character encoding. Empty means utf-8, except
	// for XML where the document's declaration is honoured first.
	Encoding string

	// CSV
	Delimiter        rune
	Quote            rune
	KeepLeadingSpace bool // leading whitespace after a delimiter is stripped unless set

	// JSON and YAML
	DataKey string

	// XML
	RootTag string // element whose children are the items; empty: document root
	ItemTag string // when set, every descendant with this tag is an item
}

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{
		Delimiter: DefaultDelimiter,
		Quote:     DefaultQuote,
		DataKey:   DefaultDataKey,
	}
}

func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.Quote == 0 {
		o.Quote = DefaultQuote
	}
	if o.DataKey == "" {
		o.DataKey = DefaultDataKey
	}
	return o
}

// Merge returns o with every non-zero field of over applied.
func (o Options) Merge(over Options) Options {
	if over.Encoding != "" {
		o.Encoding = over.Encoding
	}
	if over.Delimiter != 0 {
		o.Delimiter = over.Delimiter
	}
	if over.Quote != 0 {
		o.Quote = over.Quote
	}
	if over.KeepLeadingSpace {
		o.KeepLeadingSpace = true
	}
	if over.DataKey != "" {
		o.DataKey = over.DataKey
	}
	if over.RootTag != "" {
		o.RootTag = over.RootTag
	}
	if over.ItemTag != "" {
		o.ItemTag = over.ItemTag
	}
	return o
}

// OptionsFromConfig builds the options for one format from the parsing section.
func OptionsFromConfig(cfg config.ParsingConfig, format string) Options {
	opts := DefaultOptions()

	switch format {
	case "csv":
		opts.Delimiter = firstRune(cfg.CSV.Delimiter, DefaultDelimiter)
		opts.Quote = firstRune(cfg.CSV.Quote, DefaultQuote)
		opts.KeepLeadingSpace = cfg.CSV.KeepLeadingSpace
		opts.Encoding = cfg.CSV.Encoding
	case "json", "yaml":
		if cfg.JSON.DataKey != "" {
			opts.DataKey = cfg.JSON.DataKey
		}
		opts.Encoding = cfg.JSON.Encoding
	case "xml":
		opts.RootTag = cfg.XML.RootTag
		opts.ItemTag = cfg.XML.ItemTag
		opts.Encoding = cfg.XML.Encoding
	}

	return opts
}

// OptionsFromAlias converts a configured alias into option overrides.
func OptionsFromAlias(alias config.FormatAlias) Options {
	return Options{
		Encoding:  alias.Encoding,
		Delimiter: firstRune(alias.Delimiter, 0),
		DataKey:   alias.DataKey,
		ItemTag:   alias.ItemTag,
	}
}

func firstRune(s string, fallback rune) rune {
	if s == "" {
		return fallback
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func encodingOrDefault(name string) string {
	return textenc.Normalize(name)
}
