package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/klytics/sheetkit/internal/logging"
)

func TestRunChecks(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SHEETKIT_ORG_CONFIG", filepath.Join(home, "org.yaml"))
	t.Setenv("SHEETKIT_OUTPUT_DIR", filepath.Join(home, "out"))
	viper.Reset()
	t.Cleanup(viper.Reset)

	checks := runChecks(logging.WithLogger(context.Background(), logging.Discard()))

	got := make(map[string]Check)
	for _, c := range checks {
		got[c.Name] = c
	}
	for _, name := range []string{"Go Runtime", "Org Config", "Output Directory", "History", "Render"} {
		if got[name].Status != "ok" {
			t.Errorf("%s = %+v", name, got[name])
		}
	}
	if got["Config File"].Status != "warning" {
		t.Errorf("missing config file should warn: %+v", got["Config File"])
	}
	if _, err := os.Stat(filepath.Join(home, "out")); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestWritable(t *testing.T) {
	dir := t.TempDir()
	if err := writable(filepath.Join(dir, "nested", "out")); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "nested", "out"))
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
}
