package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

var envReplacer = strings.NewReplacer(".", "_")

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Keys lists the settings `sheetkit config` understands.
var Keys = []string{
	"culture",
	"defaults.font_name",
	"defaults.font_size",
	"output.dir",
	"output.color",
	"log.level",
	"watch.debounce_ms",
	"history.enabled",
	"history.path",
}

// IsKey reports whether key is a known setting.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	if c := viper.GetString("culture"); c != "" {
		if _, err := language.Parse(c); err != nil {
			issues = append(issues, ConfigIssue{
				Key:      "culture",
				Severity: "error",
				Message:  fmt.Sprintf("culture %q is not a BCP 47 language tag", c),
				Fix:      "sheetkit config set culture en-US",
			})
		}
	} else {
		issues = append(issues, ConfigIssue{
			Key:      "culture",
			Severity: "info",
			Message:  "culture not set, documents without one render as en-US",
		})
	}

	if size := viper.GetFloat64("defaults.font_size"); size < 0 || size > 409 {
		issues = append(issues, ConfigIssue{
			Key:      "defaults.font_size",
			Severity: "error",
			Message:  fmt.Sprintf("font size %v is outside 1-409", size),
			Fix:      "sheetkit config set defaults.font_size 11",
		})
	}

	switch lvl := strings.ToLower(viper.GetString("log.level")); lvl {
	case "", "debug", "info", "warn", "error":
	default:
		issues = append(issues, ConfigIssue{
			Key:      "log.level",
			Severity: "warning",
			Message:  fmt.Sprintf("unknown log level %q, using info", lvl),
			Fix:      "sheetkit config set log.level info",
		})
	}

	if ms := viper.GetInt("watch.debounce_ms"); ms < 0 {
		issues = append(issues, ConfigIssue{
			Key:      "watch.debounce_ms",
			Severity: "error",
			Message:  fmt.Sprintf("debounce of %dms is negative", ms),
			Fix:      "sheetkit config set watch.debounce_ms 300",
		})
	}

	if dir := viper.GetString("output.dir"); dir != "" {
		if info, err := os.Stat(expandHome(dir)); err != nil || !info.IsDir() {
			issues = append(issues, ConfigIssue{
				Key:      "output.dir",
				Severity: "warning",
				Message:  fmt.Sprintf("output directory %s does not exist, workbooks are written next to their design", dir),
				Fix:      "mkdir -p " + dir,
			})
		}
	}

	return issues
}

// Set sets a config value and saves to disk. Numeric and boolean settings
// are stored with their type.
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q — run: sheetkit config show", key)
	}
	var v any = value
	switch key {
	case "defaults.font_size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number: %w", key, err)
		}
		v = f
	case "watch.debounce_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		v = n
	case "output.color", "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		v = b
	}
	viper.Set(key, v)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig deletes the config file and restores the defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	for _, k := range Keys {
		viper.Set(k, nil)
	}
	setDefaults()
	return nil
}

// SaveConfig writes the current config to ~/.sheetkit/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	keys := append([]string(nil), Keys...)
	sort.Strings(keys)
	section := ""
	for _, k := range keys {
		group, name, found := strings.Cut(k, ".")
		if !found {
			group, name = "general", k
		}
		if group != section {
			if section != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(group + "\n")
			section = group
		}
		v := viper.GetString(k)
		if v == "" {
			v = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", name+":", v))
	}

	return sb.String()
}

// ToEnv returns the settings that are set as SHEETKIT_* environment
// variables.
func ToEnv() map[string]string {
	env := make(map[string]string)
	for _, k := range Keys {
		if v := viper.GetString(k); v != "" {
			env["SHEETKIT_"+strings.ToUpper(envReplacer.Replace(k))] = v
		}
	}
	return env
}
