/*
Package config manages TOML config for wordtrie services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit  int `toml:"max_limit"`
	MinPrefix int `toml:"min_prefix"`
	MaxPrefix int `toml:"max_prefix"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	WordsPath   string `toml:"words_path"`
	EnableCache bool   `toml:"enable_cache"`
	CacheSize   int    `toml:"cache_size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit  int `toml:"default_limit"`
	DefaultMinLen int `toml:"default_min_len"`
	DefaultMaxLen int `toml:"default_max_len"`
}

// ConfigFileName is the file looked up in the config directory
const ConfigFileName = "config.toml"

// GetDefaultConfigPath returns the first writable location for config.toml:
// 1. $XDG_CONFIG_HOME/wordtrie or ~/.config/wordtrie (%APPDATA% on windows)
// 2. ~/.wordtrie
// 3. Temp dir
// 4. Current executable dir
func GetDefaultConfigPath() (string, error) {
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to initialize path resolver: %v", err)
		return "", err
	}
	return pathResolver.GetConfigPath(ConfigFileName)
}

// GetConfigDir returns the directory holding the default config file
func GetConfigDir() (string, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordtrie/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:  64,
			MinPrefix: 1,
			MaxPrefix: 60,
		},
		Dict: DictConfig{
			WordsPath:   "",
			EnableCache: true,
			CacheSize:   4096,
		},
		CLI: CliConfig{
			DefaultLimit:  24,
			DefaultMinLen: 1,
			DefaultMaxLen: 24,
		},
	}
}

// Validate reports values that cannot work together.
func (c *Config) Validate() error {
	if c.Server.MinPrefix < 0 {
		return fmt.Errorf("server.min_prefix must not be negative, got %d", c.Server.MinPrefix)
	}
	if c.Server.MaxPrefix < c.Server.MinPrefix {
		return fmt.Errorf("server.max_prefix (%d) is below server.min_prefix (%d)", c.Server.MaxPrefix, c.Server.MinPrefix)
	}
	if c.Server.MaxLimit < 1 {
		return fmt.Errorf("server.max_limit must be at least 1, got %d", c.Server.MaxLimit)
	}
	if c.Dict.CacheSize < 0 {
		return fmt.Errorf("dict.cache_size must not be negative, got %d", c.Dict.CacheSize)
	}
	if c.CLI.DefaultMaxLen < c.CLI.DefaultMinLen {
		return fmt.Errorf("cli.default_max_len (%d) is below cli.default_min_len (%d)", c.CLI.DefaultMaxLen, c.CLI.DefaultMinLen)
	}
	return nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Values that fail validation are
// reported as an error.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed value it can find and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	recovered := 0
	for _, f := range recoverableFields {
		section, ok := utils.ExtractSection(tempConfig, f.section)
		if !ok {
			continue
		}
		if f.apply(config, section) {
			recovered++
		} else if _, present := section[f.key]; present {
			log.Warnf("Ignoring %s.%s in %s: wrong type", f.section, f.key, configPath)
		}
	}
	log.Debugf("Recovered %d config values from %s", recovered, configPath)
	return config, nil
}

// recoverableField binds a TOML key to the Config value it fills in.
type recoverableField struct {
	section, key string
	apply        func(c *Config, section map[string]any) bool
}

func intField(section, key string, dst func(*Config) *int) recoverableField {
	return recoverableField{section, key, func(c *Config, data map[string]any) bool {
		val, ok := utils.ExtractInt64(data, key)
		if ok {
			*dst(c) = val
		}
		return ok
	}}
}

func boolField(section, key string, dst func(*Config) *bool) recoverableField {
	return recoverableField{section, key, func(c *Config, data map[string]any) bool {
		val, ok := utils.ExtractBool(data, key)
		if ok {
			*dst(c) = val
		}
		return ok
	}}
}

func stringField(section, key string, dst func(*Config) *string) recoverableField {
	return recoverableField{section, key, func(c *Config, data map[string]any) bool {
		val, ok := utils.ExtractString(data, key)
		if ok {
			*dst(c) = val
		}
		return ok
	}}
}

// recoverableFields must list every key in Config.
var recoverableFields = []recoverableField{
	intField("server", "max_limit", func(c *Config) *int { return &c.Server.MaxLimit }),
	intField("server", "min_prefix", func(c *Config) *int { return &c.Server.MinPrefix }),
	intField("server", "max_prefix", func(c *Config) *int { return &c.Server.MaxPrefix }),
	stringField("dict", "words_path", func(c *Config) *string { return &c.Dict.WordsPath }),
	boolField("dict", "enable_cache", func(c *Config) *bool { return &c.Dict.EnableCache }),
	intField("dict", "cache_size", func(c *Config) *int { return &c.Dict.CacheSize }),
	intField("cli", "default_limit", func(c *Config) *int { return &c.CLI.DefaultLimit }),
	intField("cli", "default_min_len", func(c *Config) *int { return &c.CLI.DefaultMinLen }),
	intField("cli", "default_max_len", func(c *Config) *int { return &c.CLI.DefaultMaxLen }),
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
