package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// OrgConfig is the team-wide configuration layer: a house culture and a
// shared style library every rendered document is combined with.
// Read from /etc/sheetkit/org.yaml (macOS/Linux) or
// C:\ProgramData\sheetkit\org.yaml (Windows).
type OrgConfig struct {
	OrgName string `yaml:"org_name" json:"org_name"`
	Culture string `yaml:"culture" json:"culture"`

	// Styles is a design file whose styles fill in the styles a document
	// does not define itself. Relative paths are relative to the org config.
	Styles string `yaml:"styles" json:"styles"`

	Locked struct {
		Culture bool `yaml:"culture" json:"culture"`
	} `yaml:"locked" json:"locked"`

	path string
}

// OrgConfigPath returns the platform-specific path for org config.
func OrgConfigPath() string {
	if p := os.Getenv("SHEETKIT_ORG_CONFIG"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("ProgramData"), "sheetkit", "org.yaml")
	}
	return "/etc/sheetkit/org.yaml"
}

// LoadOrgConfig reads the org config file. Returns nil (not error) if file does not exist.
func LoadOrgConfig() (*OrgConfig, error) {
	return LoadOrgConfigFrom(OrgConfigPath())
}

// LoadOrgConfigFrom reads the org config from a specific path.
func LoadOrgConfigFrom(path string) (*OrgConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read org config at %s: %w", path, err)
	}

	var cfg OrgConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid org config at %s: %w", path, err)
	}
	cfg.path = path
	return &cfg, nil
}

// ValidateOrgConfig checks that an org config is valid.
func ValidateOrgConfig(cfg *OrgConfig) []string {
	var issues []string
	if cfg.OrgName == "" {
		issues = append(issues, "org_name is required")
	}
	if cfg.Culture != "" {
		if _, err := language.Parse(cfg.Culture); err != nil {
			issues = append(issues, fmt.Sprintf("culture %q is not a BCP 47 language tag", cfg.Culture))
		}
	}
	if cfg.Locked.Culture && cfg.Culture == "" {
		issues = append(issues, "locked.culture is set but culture is empty")
	}
	if cfg.Styles != "" {
		if _, err := os.Stat(cfg.StylesPath()); err != nil {
			issues = append(issues, fmt.Sprintf("styles file %s not found", cfg.Styles))
		}
	}
	return issues
}

// StylesPath returns the shared styles file resolved against the config's
// directory, or "" when none is set.
func (o *OrgConfig) StylesPath() string {
	if o.Styles == "" {
		return ""
	}
	p := expandHome(o.Styles)
	if filepath.IsAbs(p) || o.path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(o.path), p)
}

// EffectiveCulture returns the culture a render should use given the
// document's own culture and the user's configured one. A locked org
// culture wins over both; otherwise the document, the user, then the org.
func (o *OrgConfig) EffectiveCulture(document, user string) string {
	if o != nil && o.Locked.Culture && o.Culture != "" {
		return o.Culture
	}
	if document != "" {
		return document
	}
	if user != "" {
		return user
	}
	if o != nil {
		return o.Culture
	}
	return ""
}

// GenerateOrgTemplate returns a YAML template for org config.
func GenerateOrgTemplate(orgName, culture string) string {
	return fmt.Sprintf(`# sheetkit Organization Configuration
# Deploy to: %s
# Permissions: readable by all users, writable only by root/Administrators

org_name: %q
culture: %q

# Design file whose styles are shared by every document.
styles: ""

locked:
  culture: false
`, OrgConfigPath(), orgName, culture)
}
