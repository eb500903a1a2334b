package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// Config represents the DeepSpyce configuration
type Config struct {
	Codec    Codec    `yaml:"codec"`
	Archive  Archive  `yaml:"archive"`
	Server   Server   `yaml:"server"`
	Security Security `yaml:"security"`
	Logging  Logging  `yaml:"logging"`
}

// Codec holds the default data layout used when reading and writing files
type Codec struct {
	Channels      int               `yaml:"channels" validate:"min=1"`
	ElementFormat string            `yaml:"element_format" validate:"required"`
	MajorOrder    string            `yaml:"major_order" validate:"oneof=F C f c"`
	Swap          bool              `yaml:"swap"`
	Types         map[string]string `yaml:"types,omitempty"`
}

// Archive configures the record archive
type Archive struct {
	Dir string `yaml:"dir" validate:"required"`
}

// Server configures the HTTP service
type Server struct {
	Port int    `yaml:"port" validate:"min=1,max=65535"`
	Bind string `yaml:"bind" validate:"required"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Codec: Codec{
			Channels:      filterbank.DefaultChannels,
			ElementFormat: ">i8",
			MajorOrder:    "F",
		},
		Archive: Archive{
			Dir: "./archive",
		},
		Server: Server{
			Port: 8080,
			Bind: "127.0.0.1",
		},
		Security: Security{
			APIKey: "auto",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks field constraints and that the codec section parses.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.ReadOptions(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ReadOptions converts the codec section into filterbank options. Each call
// returns a fresh value.
func (c *Config) ReadOptions() (filterbank.Options, error) {
	format, err := codec.ParseFormat(c.Codec.ElementFormat)
	if err != nil {
		return filterbank.Options{}, fmt.Errorf("codec.element_format: %w", err)
	}
	if !format.IsNumeric() {
		return filterbank.Options{}, fmt.Errorf("codec.element_format: %q is not numeric", c.Codec.ElementFormat)
	}
	order, err := array.ParseMajorOrder(c.Codec.MajorOrder)
	if err != nil {
		return filterbank.Options{}, fmt.Errorf("codec.major_order: %w", err)
	}
	var types header.TypeMap
	if len(c.Codec.Types) > 0 {
		types, err = header.ParseTypeMap(c.Codec.Types)
		if err != nil {
			return filterbank.Options{}, fmt.Errorf("codec.types: %w", err)
		}
	}
	return filterbank.Options{
		Columns:   c.Codec.Channels,
		Format:    format,
		Order:     order,
		Directive: codec.SwapDirective(c.Codec.Swap),
		Types:     types,
	}, nil
}

// LoadConfig loads and validates configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// unset fields keep their defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.Logging.Level = strings.ToLower(config.Logging.Level)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file carries the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration with a generated API key
func BootstrapConfig(configPath string, archiveDir string) (*Config, error) {
	config := DefaultConfig()
	if archiveDir != "" {
		config.Archive.Dir = archiveDir
	}

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./deepspyce.yaml"
	}
	return filepath.Join(homeDir, ".config", "deepspyce", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
