package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
// An empty path yields the defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	cfg.Formats = normalizeAliases(cfg.Formats)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	cfg.Parsing.CSV.Encoding = expandEnvVar(cfg.Parsing.CSV.Encoding)
	cfg.Parsing.JSON.Encoding = expandEnvVar(cfg.Parsing.JSON.Encoding)
	cfg.Parsing.XML.Encoding = expandEnvVar(cfg.Parsing.XML.Encoding)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// normalizeAliases keys format aliases by lower-cased extension with a
// leading dot. Config files write them without the dot because viper treats
// dots in keys as nesting.
func normalizeAliases(in map[string]FormatAlias) map[string]FormatAlias {
	out := make(map[string]FormatAlias, len(in))
	for ext, alias := range in {
		out[NormalizeExtension(ext)] = alias
	}
	return out
}

// NormalizeExtension lower-cases ext and prepends a dot when missing.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Overrides contains command-line values that take precedence over the file.
type Overrides struct {
	Verbose   bool
	Quiet     bool
	LogFormat string
	Encoding  string
	Delimiter string
	DataKey   string
	RootTag   string
	ItemTag   string
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied; --verbose wins over --quiet.
func (c *Config) ApplyOverrides(o Overrides) {
	switch {
	case o.Verbose:
		c.Logging.Level = "debug"
	case o.Quiet:
		c.Logging.Level = "error"
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.Encoding != "" {
		c.Parsing.CSV.Encoding = o.Encoding
		c.Parsing.JSON.Encoding = o.Encoding
		c.Parsing.XML.Encoding = o.Encoding
	}
	if o.Delimiter != "" {
		c.Parsing.CSV.Delimiter = o.Delimiter
	}
	if o.DataKey != "" {
		c.Parsing.JSON.DataKey = o.DataKey
	}
	if o.RootTag != "" {
		c.Parsing.XML.RootTag = o.RootTag
	}
	if o.ItemTag != "" {
		c.Parsing.XML.ItemTag = o.ItemTag
	}
}

// ListFormatAliases returns the configured alias extensions.
func (c *Config) ListFormatAliases() []string {
	exts := make([]string, 0, len(c.Formats))
	for ext := range c.Formats {
		exts = append(exts, ext)
	}
	return exts
}
