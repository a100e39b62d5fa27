package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dbsmedya/tabconv/internal/textenc"
	"github.com/dbsmedya/tabconv/internal/xmlname"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// knownFormats are the format names an alias may point at.
var knownFormats = map[string]bool{"csv": true, "json": true, "xml": true, "yaml": true}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateParsing()...)
	errors = append(errors, c.validateExport()...)

	for ext, alias := range c.Formats {
		errors = append(errors, c.validateAlias(ext, alias)...)
	}

	if c.Preview.Rows < 0 {
		errors = append(errors, ValidationError{
			Field:   "preview.rows",
			Message: "rows cannot be negative",
		})
	}

	errors = append(errors, c.validateVerification()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateParsing() ValidationErrors {
	var errors ValidationErrors
	csv := c.Parsing.CSV

	if err := validateDelimiter("parsing.csv.delimiter", csv.Delimiter); err != nil {
		errors = append(errors, *err)
	}
	if err := validateSingleChar("parsing.csv.quote", csv.Quote); err != nil {
		errors = append(errors, *err)
	}
	if csv.Delimiter != "" && csv.Delimiter == csv.Quote {
		errors = append(errors, ValidationError{
			Field:   "parsing.csv.quote",
			Message: "quote must differ from delimiter",
		})
	}

	errors = append(errors, validateEncoding("parsing.csv.encoding", csv.Encoding)...)
	errors = append(errors, validateEncoding("parsing.json.encoding", c.Parsing.JSON.Encoding)...)
	errors = append(errors, validateEncoding("parsing.xml.encoding", c.Parsing.XML.Encoding)...)

	if tag := c.Parsing.XML.RootTag; tag != "" && !xmlname.IsValidQualified(tag) {
		errors = append(errors, ValidationError{
			Field:   "parsing.xml.root_tag",
			Message: fmt.Sprintf("%q is not a valid XML element name", tag),
		})
	}
	if tag := c.Parsing.XML.ItemTag; tag != "" && !xmlname.IsValidQualified(tag) {
		errors = append(errors, ValidationError{
			Field:   "parsing.xml.item_tag",
			Message: fmt.Sprintf("%q is not a valid XML element name", tag),
		})
	}

	return errors
}

func (c *Config) validateExport() ValidationErrors {
	var errors ValidationErrors

	if err := validateDelimiter("export.csv.delimiter", c.Export.CSV.Delimiter); err != nil {
		errors = append(errors, *err)
	}

	if c.Export.JSON.Indent < 0 {
		errors = append(errors, ValidationError{
			Field:   "export.json.indent",
			Message: "indent cannot be negative",
		})
	}

	for field, tag := range map[string]string{
		"export.xml.root_tag":   c.Export.XML.RootTag,
		"export.xml.record_tag": c.Export.XML.RecordTag,
	} {
		if tag != "" && !xmlname.IsValid(tag) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is not a valid XML element name", tag),
			})
		}
	}

	errors = append(errors, validateEncoding("export.csv.encoding", c.Export.CSV.Encoding)...)
	errors = append(errors, validateEncoding("export.json.encoding", c.Export.JSON.Encoding)...)
	errors = append(errors, validateEncoding("export.xml.encoding", c.Export.XML.Encoding)...)

	return errors
}

func (c *Config) validateAlias(ext string, alias FormatAlias) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("formats.%s", strings.TrimPrefix(ext, "."))

	if !knownFormats[alias.Format] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".format",
			Message: "format must be 'csv', 'json', 'xml', or 'yaml'",
		})
	}

	if err := validateDelimiter(prefix+".delimiter", alias.Delimiter); err != nil {
		errors = append(errors, *err)
	}

	errors = append(errors, validateEncoding(prefix+".encoding", alias.Encoding)...)

	return errors
}

func (c *Config) validateVerification() ValidationErrors {
	var errors ValidationErrors

	validMethods := map[string]bool{"count": true, "sha256": true, "skip": true, "": true}
	if !validMethods[c.Verification.Method] {
		errors = append(errors, ValidationError{
			Field:   "verification.method",
			Message: "method must be 'count', 'sha256', or 'skip'",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}

// validateSingleChar accepts an empty value (default applies) or exactly one rune.
func validateSingleChar(field, value string) *ValidationError {
	if value == "" || utf8.RuneCountInString(value) == 1 {
		return nil
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be a single character, got %q", value),
	}
}

// validateDelimiter is validateSingleChar that also refuses line breaks and
// the Unicode replacement character, which cannot separate fields.
func validateDelimiter(field, value string) *ValidationError {
	if err := validateSingleChar(field, value); err != nil {
		return err
	}
	switch value {
	case "\r", "\n", "\uFFFD":
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%q cannot be used as a delimiter", value),
		}
	}
	return nil
}

func validateEncoding(field, name string) ValidationErrors {
	if name == "" || textenc.Supported(name) {
		return nil
	}
	return ValidationErrors{{
		Field:   field,
		Message: fmt.Sprintf("unknown encoding %q", name),
	}}
}
