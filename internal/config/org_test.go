package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadOrgConfigMissing(t *testing.T) {
	cfg, err := LoadOrgConfigFrom("/nonexistent/org.yaml")
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if cfg != nil {
		t.Error("expected nil config for missing file")
	}
}

func TestLoadOrgConfigValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "org.yaml")
	content := `
org_name: "Test Corp"
culture: de-DE
styles: house.yaml
locked:
  culture: true
`
	os.WriteFile(path, []byte(content), 0644)

	cfg, err := LoadOrgConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadOrgConfigFrom failed: %v", err)
	}
	if cfg.OrgName != "Test Corp" {
		t.Errorf("OrgName = %q", cfg.OrgName)
	}
	if cfg.Culture != "de-DE" || !cfg.Locked.Culture {
		t.Errorf("culture = %q locked = %v", cfg.Culture, cfg.Locked.Culture)
	}
	if got := cfg.StylesPath(); got != filepath.Join(dir, "house.yaml") {
		t.Errorf("StylesPath = %q", got)
	}
}

func TestLoadOrgConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org.yaml")
	os.WriteFile(path, []byte("org_name: [unclosed"), 0644)

	if _, err := LoadOrgConfigFrom(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidateOrgConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  OrgConfig
		want int
	}{
		{"valid", OrgConfig{OrgName: "Acme", Culture: "fr-FR"}, 0},
		{"missing name", OrgConfig{}, 1},
		{"bad culture", OrgConfig{OrgName: "Acme", Culture: "not a tag"}, 1},
		{"missing styles", OrgConfig{OrgName: "Acme", Styles: "/nonexistent/house.yaml"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateOrgConfig(&tt.cfg); len(got) != tt.want {
				t.Errorf("issues = %v, want %d", got, tt.want)
			}
		})
	}

	locked := OrgConfig{OrgName: "Acme"}
	locked.Locked.Culture = true
	if got := ValidateOrgConfig(&locked); len(got) != 1 {
		t.Errorf("locked empty culture: issues = %v", got)
	}
}

func TestEffectiveCulture(t *testing.T) {
	var none *OrgConfig
	if got := none.EffectiveCulture("", "en-GB"); got != "en-GB" {
		t.Errorf("nil org = %q", got)
	}

	org := &OrgConfig{Culture: "de-DE"}
	if got := org.EffectiveCulture("fr-FR", "en-GB"); got != "fr-FR" {
		t.Errorf("document culture lost: %q", got)
	}
	if got := org.EffectiveCulture("", ""); got != "de-DE" {
		t.Errorf("org fallback = %q", got)
	}

	org.Locked.Culture = true
	if got := org.EffectiveCulture("fr-FR", "en-GB"); got != "de-DE" {
		t.Errorf("locked culture = %q", got)
	}
}

func TestOrgConfigPath(t *testing.T) {
	t.Setenv("SHEETKIT_ORG_CONFIG", "")
	path := OrgConfigPath()
	if runtime.GOOS == "windows" {
		if !strings.Contains(path, "sheetkit") {
			t.Errorf("unexpected path: %q", path)
		}
	} else if path != "/etc/sheetkit/org.yaml" {
		t.Errorf("unexpected path: %q", path)
	}

	t.Setenv("SHEETKIT_ORG_CONFIG", "/tmp/team.yaml")
	if got := OrgConfigPath(); got != "/tmp/team.yaml" {
		t.Errorf("override = %q", got)
	}
}

func TestGenerateOrgTemplate(t *testing.T) {
	tmpl := GenerateOrgTemplate("Acme", "en-GB")
	if !strings.Contains(tmpl, `org_name: "Acme"`) || !strings.Contains(tmpl, `culture: "en-GB"`) {
		t.Errorf("template missing values:\n%s", tmpl)
	}
	var cfg OrgConfig
	if err := yaml.Unmarshal([]byte(tmpl), &cfg); err != nil {
		t.Fatalf("template is not valid YAML: %v", err)
	}
	if cfg.OrgName != "Acme" {
		t.Errorf("OrgName = %q", cfg.OrgName)
	}
}
