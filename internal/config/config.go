// Package config provides configuration structures and loading for tabconv.
package config

// Config represents the complete application configuration.
type Config struct {
	Parsing      ParsingConfig          `yaml:"parsing" mapstructure:"parsing"`
	Export       ExportConfig           `yaml:"export" mapstructure:"export"`
	Formats      map[string]FormatAlias `yaml:"formats" mapstructure:"formats"`
	Preview      PreviewConfig          `yaml:"preview" mapstructure:"preview"`
	Verification VerificationConfig     `yaml:"verification" mapstructure:"verification"`
	Logging      LoggingConfig          `yaml:"logging" mapstructure:"logging"`
}

// ParsingConfig holds per-format parse options.
type ParsingConfig struct {
	CSV  CSVParseConfig  `yaml:"csv" mapstructure:"csv"`
	JSON JSONParseConfig `yaml:"json" mapstructure:"json"`
	XML  XMLParseConfig  `yaml:"xml" mapstructure:"xml"`
}

// CSVParseConfig represents CSV reading settings.
type CSVParseConfig struct {
	Delimiter        string `yaml:"delimiter" mapstructure:"delimiter"`
	Quote            string `yaml:"quote" mapstructure:"quote"`
	KeepLeadingSpace bool   `yaml:"keep_leading_space" mapstructure:"keep_leading_space"`
	Encoding         string `yaml:"encoding" mapstructure:"encoding"`
}

// JSONParseConfig represents JSON reading settings.
type JSONParseConfig struct {
	DataKey  string `yaml:"data_key" mapstructure:"data_key"`
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// XMLParseConfig represents XML reading settings.
type XMLParseConfig struct {
	RootTag  string `yaml:"root_tag" mapstructure:"root_tag"` // empty: document root
	ItemTag  string `yaml:"item_tag" mapstructure:"item_tag"` // empty: direct children
	Encoding string `yaml:"encoding" mapstructure:"encoding"` // empty: declared encoding, else utf-8
}

// ExportConfig holds per-format export options.
type ExportConfig struct {
	CSV  CSVExportConfig  `yaml:"csv" mapstructure:"csv"`
	JSON JSONExportConfig `yaml:"json" mapstructure:"json"`
	XML  XMLExportConfig  `yaml:"xml" mapstructure:"xml"`
}

// CSVExportConfig represents CSV writing settings.
type CSVExportConfig struct {
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding  string `yaml:"encoding" mapstructure:"encoding"`
}

// JSONExportConfig represents JSON writing settings.
type JSONExportConfig struct {
	Indent   int    `yaml:"indent" mapstructure:"indent"` // 0 writes compact JSON
	Encoding string `yaml:"encoding" mapstructure:"encoding"`
}

// XMLExportConfig represents XML writing settings.
type XMLExportConfig struct {
	RootTag   string `yaml:"root_tag" mapstructure:"root_tag"`
	RecordTag string `yaml:"record_tag" mapstructure:"record_tag"`
	Encoding  string `yaml:"encoding" mapstructure:"encoding"`
}

// FormatAlias maps an extra file extension onto a registered format, with
// optional option overrides. Example: ".tsv" as "csv" with a tab delimiter.
type FormatAlias struct {
	Format    string `yaml:"format" mapstructure:"format"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	Encoding  string `yaml:"encoding" mapstructure:"encoding"`
	DataKey   string `yaml:"data_key" mapstructure:"data_key"`
	ItemTag   string `yaml:"item_tag" mapstructure:"item_tag"`
}

// PreviewConfig controls the parse command's row preview.
type PreviewConfig struct {
	Rows int `yaml:"rows" mapstructure:"rows"`
}

// VerificationConfig represents post-conversion verification settings.
type VerificationConfig struct {
	Method string `yaml:"method" mapstructure:"method"` // "count", "sha256" or "skip"
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Parsing: ParsingConfig{
			CSV: CSVParseConfig{
				Delimiter: ",",
				Quote:     `"`,
				Encoding:  "utf-8",
			},
			JSON: JSONParseConfig{
				DataKey:  "data",
				Encoding: "utf-8",
			},
			XML: XMLParseConfig{},
		},
		Export: ExportConfig{
			CSV: CSVExportConfig{
				Delimiter: ",",
				Encoding:  "utf-8",
			},
			JSON: JSONExportConfig{
				Indent:   2,
				Encoding: "utf-8",
			},
			XML: XMLExportConfig{
				RootTag:   "data",
				RecordTag: "record",
				Encoding:  "utf-8",
			},
		},
		Formats: map[string]FormatAlias{},
		Preview: PreviewConfig{
			Rows: 5,
		},
		Verification: VerificationConfig{
			Method: "count",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}
