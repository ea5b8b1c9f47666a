// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Culture  string `mapstructure:"culture"`
	Defaults struct {
		FontName string  `mapstructure:"font_name"`
		FontSize float64 `mapstructure:"font_size"`
	} `mapstructure:"defaults"`
	Output struct {
		Dir   string `mapstructure:"dir"`
		Color bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Watch struct {
		DebounceMS int `mapstructure:"debounce_ms"`
	} `mapstructure:"watch"`
	History struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"history"`
}

// Load reads the configuration from ~/.sheetkit/config.yaml and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	setDefaults()

	// SHEETKIT_LOG_LEVEL overrides log.level.
	viper.SetEnvPrefix("SHEETKIT")
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Output.Dir = expandHome(cfg.Output.Dir)
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("culture", "")
	viper.SetDefault("defaults.font_name", "")
	viper.SetDefault("defaults.font_size", 0)
	viper.SetDefault("output.dir", "")
	viper.SetDefault("output.color", true)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("watch.debounce_ms", 300)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", "")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetkit"
	}
	return filepath.Join(home, ".sheetkit")
}

// Dir returns the directory holding the config file and render history.
func Dir() string { return configDir() }

// HistoryPath returns the render history file, expanding a leading "~/".
func (c *Config) HistoryPath() string {
	if c.History.Path == "" {
		return filepath.Join(configDir(), "history.jsonl")
	}
	return expandHome(c.History.Path)
}

func expandHome(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
