package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml", "c.toml"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := expand([]string{filepath.Join(dir, "*.yaml"), filepath.Join(dir, "a.*"), filepath.Join(dir, "*.toml")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.yaml", "b.yaml", "c.toml"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i, w := range want {
		if filepath.Base(got[i]) != w {
			t.Errorf("got[%d] = %s, want %s", i, got[i], w)
		}
	}

	if _, err := expand([]string{filepath.Join(dir, "*.json")}); err == nil {
		t.Error("expected an error when nothing matches")
	}
	if _, err := expand([]string{"["}); err == nil {
		t.Error("expected an error for a bad pattern")
	}
}
