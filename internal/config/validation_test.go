package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Formats = map[string]FormatAlias{
		".tsv": {Format: "csv", Delimiter: "\t"},
		".yml": {Format: "yaml"},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		wantField string
	}{
		{
			name:      "multi character delimiter",
			mutate:    func(cfg *Config) { cfg.Parsing.CSV.Delimiter = "||" },
			wantField: "parsing.csv.delimiter",
		},
		{
			name:      "newline delimiter",
			mutate:    func(cfg *Config) { cfg.Parsing.CSV.Delimiter = "\n" },
			wantField: "parsing.csv.delimiter",
		},
		{
			name:      "carriage return export delimiter",
			mutate:    func(cfg *Config) { cfg.Export.CSV.Delimiter = "\r" },
			wantField: "export.csv.delimiter",
		},
		{
			name:      "replacement character alias delimiter",
			mutate:    func(cfg *Config) { cfg.Formats = map[string]FormatAlias{".dat": {Format: "csv", Delimiter: "\uFFFD"}} },
			wantField: "formats.dat.delimiter",
		},
		{
			name:      "multi character quote",
			mutate:    func(cfg *Config) { cfg.Parsing.CSV.Quote = `""` },
			wantField: "parsing.csv.quote",
		},
		{
			name: "quote equals delimiter",
			mutate: func(cfg *Config) {
				cfg.Parsing.CSV.Delimiter = ";"
				cfg.Parsing.CSV.Quote = ";"
			},
			wantField: "parsing.csv.quote",
		},
		{
			name:      "unknown parse encoding",
			mutate:    func(cfg *Config) { cfg.Parsing.JSON.Encoding = "ebcdic-klingon" },
			wantField: "parsing.json.encoding",
		},
		{
			name:      "invalid item tag",
			mutate:    func(cfg *Config) { cfg.Parsing.XML.ItemTag = "1item" },
			wantField: "parsing.xml.item_tag",
		},
		{
			name:      "invalid root tag",
			mutate:    func(cfg *Config) { cfg.Parsing.XML.RootTag = "my root" },
			wantField: "parsing.xml.root_tag",
		},
		{
			name:      "negative indent",
			mutate:    func(cfg *Config) { cfg.Export.JSON.Indent = -1 },
			wantField: "export.json.indent",
		},
		{
			name:      "invalid record tag",
			mutate:    func(cfg *Config) { cfg.Export.XML.RecordTag = "<row>" },
			wantField: "export.xml.record_tag",
		},
		{
			name:      "invalid export delimiter",
			mutate:    func(cfg *Config) { cfg.Export.CSV.Delimiter = "ab" },
			wantField: "export.csv.delimiter",
		},
		{
			name:      "unknown alias format",
			mutate:    func(cfg *Config) { cfg.Formats = map[string]FormatAlias{".dat": {Format: "parquet"}} },
			wantField: "formats.dat.format",
		},
		{
			name:      "negative preview rows",
			mutate:    func(cfg *Config) { cfg.Preview.Rows = -5 },
			wantField: "preview.rows",
		},
		{
			name:      "invalid verification method",
			mutate:    func(cfg *Config) { cfg.Verification.Method = "md5" },
			wantField: "verification.method",
		},
		{
			name:      "invalid log level",
			mutate:    func(cfg *Config) { cfg.Logging.Level = "trace" },
			wantField: "logging.level",
		},
		{
			name:      "invalid log format",
			mutate:    func(cfg *Config) { cfg.Logging.Format = "xml" },
			wantField: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error to mention %q, got: %v", tt.wantField, err)
			}
		})
	}
}

func TestQualifiedXMLTagsAccepted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parsing.XML.RootTag = "{http://www.w3.org/2005/Atom}feed"
	cfg.Parsing.XML.ItemTag = "{http://www.w3.org/2005/Atom}entry"

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected namespaced tags to be accepted, got: %v", err)
	}
}

func TestMultipleValidationErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parsing.CSV.Delimiter = "::"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(verrs), verrs)
	}
	if !strings.HasPrefix(err.Error(), "validation failed:") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidationErrorsEmpty(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "" {
		t.Errorf("expected empty message, got %q", errs.Error())
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "parsing.csv.delimiter", Message: "must be a single character"}
	want := "parsing.csv.delimiter: must be a single character"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
