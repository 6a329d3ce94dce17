// Package config loads the DexComX configuration file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "DEXCOMX_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Console ConsoleConfig `toml:"console" yaml:"console"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string         `toml:"name" yaml:"name"`
	Environment string         `toml:"environment" yaml:"environment"`
	DataDir     string         `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string         `toml:"log_level" yaml:"log_level"`
	LogFormat   string         `toml:"log_format" yaml:"log_format"`
	LogFile     string         `toml:"log_file" yaml:"log_file"`
	Rotation    RotationConfig `toml:"rotation" yaml:"rotation"`
}

// RotationConfig holds log file rotation settings
type RotationConfig struct {
	MaxSizeMB  int  `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int  `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool `toml:"compress" yaml:"compress"`
}

// ScriptConfig holds script engine settings
type ScriptConfig struct {
	Debug         bool     `toml:"debug" yaml:"debug"`
	MaxScriptSize int      `toml:"max_script_size" yaml:"max_script_size"`
	RunTimeout    Duration `toml:"run_timeout" yaml:"run_timeout"`
	MaxParallel   int      `toml:"max_parallel" yaml:"max_parallel"`
}

// StoreConfig selects the record database
type StoreConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	DSN    string `toml:"dsn" yaml:"dsn"`
}

// ServerConfig holds host surface settings
type ServerConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	Port           int      `toml:"port" yaml:"port"`
	OwnerToken     string   `toml:"owner_token" yaml:"owner_token"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// ConsoleConfig holds interactive console settings
type ConsoleConfig struct {
	HistoryFile string `toml:"history_file" yaml:"history_file"`
	HistorySize int    `toml:"history_size" yaml:"history_size"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
				WithCode(mdwerror.CodeNotFound).
				WithOperation("config.Load")
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load")
	}

	cfg, err := Parse(content, filepath.Ext(path))
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}
	return cfg, nil
}

// Parse decodes content in the format named by ext (".toml", ".yaml", ".yml")
// and applies defaults
func Parse(content []byte, ext string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml", "":
		if _, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&cfg); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from DEXCOMX_CONFIG or a default location.
// Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}
	if path := FindConfig(); path != "" {
		return Load(path)
	}
	return Default(), nil
}

// FindConfig returns the first existing default config path, or ""
func FindConfig() string {
	defaultPaths := []string{
		"./configs/dexcomx.toml",
		"./dexcomx.toml",
		"./dexcomx.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/dexcomx/config.toml"),
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "DexComX"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}
	if c.General.Rotation.MaxSizeMB == 0 {
		c.General.Rotation.MaxSizeMB = 50
	}
	if c.General.Rotation.MaxBackups == 0 {
		c.General.Rotation.MaxBackups = 5
	}
	if c.General.Rotation.MaxAgeDays == 0 {
		c.General.Rotation.MaxAgeDays = 30
	}

	// Script
	if c.Script.MaxScriptSize == 0 {
		c.Script.MaxScriptSize = 64 * 1024
	}
	if c.Script.RunTimeout.Duration == 0 {
		c.Script.RunTimeout.Duration = 5 * time.Minute
	}
	if c.Script.MaxParallel == 0 {
		c.Script.MaxParallel = 4
	}

	// Store
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite3"
	}
	if c.Store.DSN == "" {
		c.Store.DSN = filepath.Join(c.General.DataDir, "dexcomx.db")
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8420
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 120 * time.Second
	}

	// Console
	if c.Console.HistoryFile == "" {
		c.Console.HistoryFile = filepath.Join(c.General.DataDir, "console_history")
	}
	if c.Console.HistorySize == 0 {
		c.Console.HistorySize = 500
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Store.DSN = os.ExpandEnv(c.Store.DSN)
	c.Server.OwnerToken = os.ExpandEnv(c.Server.OwnerToken)
	c.Console.HistoryFile = os.ExpandEnv(c.Console.HistoryFile)
}

// Validate checks values that have no usable default
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite3", "sqlite", "pgx", "memory":
	default:
		return mdwerror.New(fmt.Sprintf("unknown store driver %q", c.Store.Driver)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("field", "store.driver")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return mdwerror.New(fmt.Sprintf("server port out of range: %d", c.Server.Port)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("field", "server.port")
	}
	if c.Script.MaxScriptSize < 0 || c.Script.MaxParallel < 0 {
		return mdwerror.New("script limits must not be negative").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("field", "script")
	}
	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
