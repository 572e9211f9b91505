// Package config provides centralized configuration management using Viper.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for vibedev-specs.
type Config struct {
	SpecsDir    string `mapstructure:"specs_dir" yaml:"specs_dir"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	Journal     bool   `mapstructure:"journal" yaml:"journal"`
	JournalPath string `mapstructure:"journal_path" yaml:"journal_path,omitempty"`
}

const (
	defaultSpecsDir    = ".vibedev/specs"
	defaultJournalFile = "_journal.db"
	configName         = "vibedev"
	envPrefix          = "VIBEDEV"
)

var keys = []string{"specs_dir", "log_level", "log_file", "journal", "journal_path"}

// Default returns the configuration used when no file or env var sets a key.
func Default() *Config {
	return &Config{
		SpecsDir: defaultSpecsDir,
		LogLevel: "warn",
		Journal:  true,
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
//
// Flags are applied by the caller on top of the returned value.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(configName)

	def := Default()
	v.SetDefault("specs_dir", def.SpecsDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("journal", def.Journal)
	v.SetDefault("journal_path", "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so bool values parse from the environment.
	for _, key := range keys {
		env := envPrefix + "_" + strings.ToUpper(key)
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// ResolvedJournalPath returns journal_path, or the journal file inside the
// specs directory when unset.
func (c *Config) ResolvedJournalPath() string {
	if c.JournalPath != "" {
		return c.JournalPath
	}
	return filepath.Join(c.SpecsDir, defaultJournalFile)
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/vibedev/vibedev.yml or $XDG_CONFIG_HOME/vibedev/vibedev.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configName, configName+".yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", configName, configName+".yml")
}

// ProjectPath returns the project-local config path in the working directory.
func ProjectPath() string {
	return configName + ".yml"
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := atomic.WriteFile(ProjectPath(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
