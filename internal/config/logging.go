package config

// ValidLevels lists accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	Format     string          `yaml:"format"`               // json, console
	File       string          `yaml:"file,omitempty"`       // stderr when empty
	DebugMode  bool            `yaml:"debug_mode"`           // Master toggle - false = no logging
	Categories map[string]bool `yaml:"categories,omitempty"` // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false.
// Returns true if debug_mode is true and category is enabled (or not specified).
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true // All enabled by default in debug mode
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
