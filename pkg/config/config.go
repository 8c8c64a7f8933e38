/*
Package config manages TOML config for the suggester daemon.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Suggester SuggesterConfig `toml:"suggester"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit  int `toml:"max_limit"`
	MinPrefix int `toml:"min_prefix"`
	MaxPrefix int `toml:"max_prefix"`
}

// SuggesterConfig configures one suggester instance.
type SuggesterConfig struct {
	Name                string        `toml:"name"`
	MaxSuggestionLength int           `toml:"max_suggestion_length"`
	ExcludeFormat       []string      `toml:"exclude_format"`
	Languages           []string      `toml:"languages"`
	BuildOnStartup      bool          `toml:"build_on_startup"`
	Infix               bool          `toml:"infix"`
	Fields              []FieldConfig `toml:"field"`
}

// FieldConfig is one per-field entry under [[suggester.field]].
//
// A field with analyzer_field_type set contributes raw stored values; the
// reserved type "string" means the value is copied with no analysis at all.
// Fields without it contribute analyzed terms. Zero weight and maxfreq are
// treated as unset and fall back to 1.0. weight_field names a document field
// whose numeric value replaces the base weight for that document's raw
// values.
type FieldConfig struct {
	Name              string  `toml:"name"`
	Weight            float64 `toml:"weight"`
	MinFreq           float64 `toml:"minfreq"`
	MaxFreq           float64 `toml:"maxfreq"`
	AnalyzerFieldType string  `toml:"analyzer_field_type"`
	FilterDuplicates  bool    `toml:"filter_duplicates"`
	SourceField       string  `toml:"source_field"`
	WeightField       string  `toml:"weight_field"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:  64,
			MinPrefix: 1,
			MaxPrefix: 60,
		},
		Suggester: SuggesterConfig{
			Name:                "suggest-infix-all",
			MaxSuggestionLength: 80,
			ExcludeFormat:       []string{"collection"},
			Languages:           []string{"en", "en-us", "en-gb"},
			BuildOnStartup:      true,
			Infix:               true,
			Fields: []FieldConfig{
				{Name: "fulltext", Weight: 1.0, MinFreq: 0.005, MaxFreq: 0.3},
				{Name: "title", Weight: 10.0, AnalyzerFieldType: "string"},
			},
		},
	}
}

// Validate checks the mandatory parameters.
func (c *Config) Validate() error {
	if c.Suggester.Name == "" {
		return fmt.Errorf("config: suggester name is required")
	}
	if len(c.Suggester.Fields) == 0 {
		return fmt.Errorf("config: suggester %q has no fields", c.Suggester.Name)
	}
	for _, f := range c.Suggester.Fields {
		if f.Name == "" {
			return fmt.Errorf("config: suggester %q has a field with no name", c.Suggester.Name)
		}
	}
	if c.Suggester.MaxSuggestionLength <= 0 {
		c.Suggester.MaxSuggestionLength = 80
	}
	return nil
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Scalar values absent from the file fall
// back to defaults; the field list is taken from the file as-is.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults fills zero-valued scalars with the builtin defaults.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.MaxLimit == 0 {
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MinPrefix == 0 {
		c.Server.MinPrefix = def.Server.MinPrefix
	}
	if c.Server.MaxPrefix == 0 {
		c.Server.MaxPrefix = def.Server.MaxPrefix
	}
	if c.Suggester.MaxSuggestionLength == 0 {
		c.Suggester.MaxSuggestionLength = def.Suggester.MaxSuggestionLength
	}
	if c.Suggester.Languages == nil {
		c.Suggester.Languages = def.Suggester.Languages
	}
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("save config %s: %w", configPath, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("encode config %s: %w", configPath, err)
	}
	return nil
}
