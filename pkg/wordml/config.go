package wordml

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-wordml/pkg/wordml/opc"
)

// Config contains all configuration options for reading and writing documents
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// LogFormat selects the log line format (text, json)
	LogFormat string `yaml:"log_format"`
	// CompressionLevel is the deflate level used when saving (-2..9)
	CompressionLevel int `yaml:"compression_level"`
	// MaxPartSize limits the uncompressed size of any part in bytes. 0 disables the limit.
	MaxPartSize int64 `yaml:"max_part_size"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	// Initialize global config from environment on first use
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	defaults := opc.DefaultOptions()
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		CompressionLevel: defaults.CompressionLevel,
		MaxPartSize:      defaults.MaxPartSize,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()
	applyEnvironment(config)
	return config
}

func applyEnvironment(config *Config) {
	// WORDML_LOG_LEVEL
	if val := os.Getenv("WORDML_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	// WORDML_LOG_FORMAT
	if val := os.Getenv("WORDML_LOG_FORMAT"); val != "" {
		config.LogFormat = strings.ToLower(val)
	}

	// WORDML_COMPRESSION_LEVEL
	if val := os.Getenv("WORDML_COMPRESSION_LEVEL"); val != "" {
		if level, err := strconv.Atoi(val); err == nil {
			config.CompressionLevel = level
		}
	}

	// WORDML_MAX_PART_SIZE
	if val := os.Getenv("WORDML_MAX_PART_SIZE"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.MaxPartSize = size
		}
	}
}

// ConfigFromFile reads a YAML configuration file. Unset keys keep their
// defaults and environment variables override the file.
func ConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("config load", path, err)
	}
	return ConfigFromYAML(data)
}

// ConfigFromYAML parses a YAML configuration. Unset keys keep their defaults
// and environment variables override the document.
func ConfigFromYAML(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	applyEnvironment(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to
// unset fields. CompressionLevel and MaxPartSize are kept as given since zero
// is meaningful for both.
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	// Create a copy of the overrides
	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.LogFormat == "" {
		config.LogFormat = defaults.LogFormat
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var issues []ValidationIssue

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		issues = append(issues, ValidationIssue{Field: "LogLevel", Message: "invalid log level: " + c.LogLevel})
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		issues = append(issues, ValidationIssue{Field: "LogFormat", Message: "invalid log format: " + c.LogFormat})
	}

	if c.CompressionLevel < -2 || c.CompressionLevel > 9 {
		issues = append(issues, ValidationIssue{
			Field:   "CompressionLevel",
			Message: fmt.Sprintf("compression level %d out of range -2..9", c.CompressionLevel),
		})
	}

	if c.MaxPartSize < 0 {
		issues = append(issues, ValidationIssue{Field: "MaxPartSize", Message: "max part size cannot be negative"})
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// packageOptions converts the configuration into package options.
func (c *Config) packageOptions() opc.Options {
	return opc.Options{
		CompressionLevel: c.CompressionLevel,
		MaxPartSize:      c.MaxPartSize,
	}
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}
