package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its config when --config is unset.
const DefaultPath = ".gradegen/config.yaml"

// Config holds all gradegen configuration.
type Config struct {
	// Session controls input collection
	Session SessionConfig `yaml:"session"`

	// Output controls result presentation
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SessionConfig configures the collection session.
type SessionConfig struct {
	// Consecutive rejections allowed per field; 0 means unlimited.
	MaxAttempts int `yaml:"max_attempts"`
}

// OutputConfig configures how results are shown.
type OutputConfig struct {
	Format string `yaml:"format"` // text, json, table, markdown
	Theme  string `yaml:"theme"`  // auto, light, dark
	Banner bool   `yaml:"banner"` // print the welcome line
}

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
)

// ValidFormats lists all supported output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatTable, FormatMarkdown}

// ValidThemes lists all supported themes.
var ValidThemes = []string{"auto", "light", "dark"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			MaxAttempts: 0,
		},
		Output: OutputConfig{
			Format: FormatText,
			Theme:  "auto",
			Banner: true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "console",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Defaults plus environment when there is no file
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// applyEnvOverrides applies environment variable overrides.
// Malformed numeric or boolean values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GRADEGEN_FORMAT"); v != "" {
		c.Output.Format = strings.ToLower(v)
	}
	if v := os.Getenv("GRADEGEN_THEME"); v != "" {
		c.Output.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("GRADEGEN_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GRADEGEN_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("GRADEGEN_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.MaxAttempts = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Session.MaxAttempts < 0 {
		return fmt.Errorf("session.max_attempts must be >= 0, got %d", c.Session.MaxAttempts)
	}
	if !contains(ValidFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, ValidFormats)
	}
	if !contains(ValidThemes, c.Output.Theme) {
		return fmt.Errorf("invalid theme: %s (valid: %v)", c.Output.Theme, ValidThemes)
	}
	if !contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
