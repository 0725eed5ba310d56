// Package config loads hxview settings.
//
// Settings come from a single file, named explicitly or through the
// HXVIEW_CONFIG environment variable. YAML files (.yaml, .yml) are decoded
// directly; JSON files (.json, .jsonc) may carry // and /* */ comments and
// trailing commas, which are stripped before decoding. Unknown keys are an
// error so typos do not silently fall back to defaults.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "HXVIEW_CONFIG"

// Format is a config file syntax.
type Format string

const (
	// YAML is the default format.
	YAML Format = "yaml"
	// JSONC is JSON with comments and trailing commas.
	JSONC Format = "jsonc"
)

// Config holds the process-wide hxview settings.
type Config struct {
	// ConvertUnderscoresToDashes rewrites "_" to "-" in rendered class
	// lists, so `card_title` is emitted as `card-title`.
	ConvertUnderscoresToDashes bool `yaml:"convert_underscores_to_dashes" json:"convert_underscores_to_dashes"`

	// Fragments configures the rendered fragment cache.
	Fragments FragmentConfig `yaml:"fragments" json:"fragments"`
}

// FragmentConfig configures lib/fragment stores built from config.
type FragmentConfig struct {
	// MaxEntries bounds the number of cached fragments. Zero means the
	// store default.
	MaxEntries int `yaml:"max_entries" json:"max_entries"`

	// MetricsNamespace prefixes the store's Prometheus metric names.
	MetricsNamespace string `yaml:"metrics_namespace" json:"metrics_namespace"`
}

// Default returns the settings used when no file is configured.
func Default() Config {
	return Config{
		Fragments: FragmentConfig{
			MaxEntries:       1024,
			MetricsNamespace: "hxview",
		},
	}
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Fragments.MaxEntries < 0 {
		return errors.Newf("config: fragments.max_entries must not be negative, got %d", c.Fragments.MaxEntries)
	}
	return nil
}

// Parse decodes data in the given format on top of Default.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()

	switch format {
	case JSONC:
		// JSON is a subset of YAML, so the stripped document goes through
		// the same strict decoder.
		data = jsonc.ToJSON(data)
	case YAML, "":
	default:
		return Config{}, errors.Newf("config: unknown format %q", format)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(err, "config: decode")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. The format follows the extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: reading %s", path)
	}
	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// LoadFromEnvironment loads the file named by HXVIEW_CONFIG, or returns
// Default when the variable is unset.
func LoadFromEnvironment() (Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// FormatOf picks a format from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return JSONC
	default:
		return YAML
	}
}
