/*
Package config manages puzzle and service configuration for wordhive.

A config file carries a puzzle request (letters, required letters, bounds),
the word source, output preferences, the validator selection and the server
settings. TOML is the native format; files ending in .json are read as JSON
and .yaml or .yml as YAML, so request files produced by other tools can be
passed directly.

	letters = "Walrus"
	present = "Wl"
	case-sensitive = true
	minimal-word-length = 4
	dictionary = "data/dictionary.txt"

	[server]
	addr = ":8080"
	cache-size = 256
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordhive/internal/utils"
	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/bastiangx/wordhive/pkg/validator"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSize       = 7
	DefaultDictionary = "data/dictionary.txt"
	DefaultFormat     = "plain"
)

// Config holds the entire config structure.
type Config struct {
	Letters       string `toml:"letters,omitempty" json:"letters,omitempty" yaml:"letters,omitempty"`
	Present       string `toml:"present,omitempty" json:"present,omitempty" yaml:"present,omitempty"`
	Size          int    `toml:"size" json:"size" yaml:"size"`
	MinWordLength int    `toml:"minimal-word-length" json:"minimal-word-length" yaml:"minimal-word-length"`
	MaxWordLength int    `toml:"maximal-word-length,omitempty" json:"maximal-word-length,omitempty" yaml:"maximal-word-length,omitempty"`
	Repeats       int    `toml:"repeats,omitempty" json:"repeats,omitempty" yaml:"repeats,omitempty"`
	CaseSensitive bool   `toml:"case-sensitive" json:"case-sensitive" yaml:"case-sensitive"`

	Output     string `toml:"output,omitempty" json:"output,omitempty" yaml:"output,omitempty"`
	Format     string `toml:"format" json:"format" yaml:"format"`
	Dictionary string `toml:"dictionary" json:"dictionary" yaml:"dictionary"`
	Charset    string `toml:"charset,omitempty" json:"charset,omitempty" yaml:"charset,omitempty"`

	Validator    validator.Kind `toml:"validator,omitempty" json:"validator,omitempty" yaml:"validator,omitempty"`
	APIKey       string         `toml:"api-key,omitempty" json:"api-key,omitempty" yaml:"api-key,omitempty"`
	ValidatorURL string         `toml:"validator-url,omitempty" json:"validator-url,omitempty" yaml:"validator-url,omitempty"`

	Server     ServerConfig     `toml:"server" json:"server" yaml:"server"`
	Validation ValidationConfig `toml:"validation" json:"validation" yaml:"validation"`
}

// ServerConfig has front end options.
type ServerConfig struct {
	Addr      string `toml:"addr" json:"addr" yaml:"addr"`
	CacheSize int    `toml:"cache-size" json:"cache-size" yaml:"cache-size"`
	Codec     string `toml:"codec" json:"codec" yaml:"codec"`
}

// ValidationConfig controls batched lookups.
type ValidationConfig struct {
	DelayMS  int `toml:"delay-ms" json:"delay-ms" yaml:"delay-ms"`
	Attempts int `toml:"attempts" json:"attempts" yaml:"attempts"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Size:          DefaultSize,
		MinWordLength: solve.DefaultMinLength,
		Format:        DefaultFormat,
		Dictionary:    DefaultDictionary,
		Server: ServerConfig{
			Addr:      ":8080",
			CacheSize: 256,
			Codec:     "msgpack",
		},
		Validation: ValidationConfig{
			DelayMS:  int(validator.DefaultDelay.Milliseconds()),
			Attempts: 3,
		},
	}
}

// LoadConfig reads configPath on top of the defaults. The format follows
// the file extension.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".json":
		unmarshal = json.Unmarshal
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		if err := utils.LoadTOMLFile(configPath, config); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", configPath, err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if err := unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	return config, nil
}

// GetConfigDir returns the per-user config directory.
func GetConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wordhive"), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag (errors are returned)
// 2. Default path: [UserConfigDir]/wordhive/config.toml (errors are logged)
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		config, err := LoadConfig(customConfigPath)
		if err != nil {
			return nil, "", err
		}
		log.Debugf("Loaded config from custom path: %s", customConfigPath)
		return config, customConfigPath, nil
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Debugf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	if !utils.FileExists(defaultPath) {
		return DefaultConfig(), "", nil
	}
	config, err := LoadConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(config, configPath)
}

// Validate checks the puzzle part of the config. size is informational: a
// mismatch with the number of distinct letters is only logged.
func (c *Config) Validate() error {
	if c.Letters == "" {
		return &solve.ConfigError{Field: "letters", Rule: "letters and present letters are required"}
	}
	if c.Present == "" {
		return &solve.ConfigError{Field: "present", Rule: "letters and present letters are required"}
	}
	if c.Size > 0 {
		distinct := len(lo.Uniq([]rune(strings.ToLower(c.Letters))))
		if distinct != c.Size {
			log.Warnf("size is %d but letters %q hold %d distinct letters", c.Size, c.Letters, distinct)
		}
	}
	return nil
}

// SolveOptions converts the puzzle fields into a search request.
func (c *Config) SolveOptions() solve.Options {
	return solve.Options{
		Letters:       c.Letters,
		Present:       c.Present,
		CaseSensitive: c.CaseSensitive,
		MinLength:     c.MinWordLength,
		MaxLength:     c.MaxWordLength,
		MaxRepeats:    c.Repeats,
	}
}

// ValidatorOptions converts the validator fields for validator.New.
func (c *Config) ValidatorOptions() validator.Options {
	return validator.Options{
		APIKey:   c.APIKey,
		URL:      c.ValidatorURL,
		Attempts: uint(max(c.Validation.Attempts, 1)),
	}
}
