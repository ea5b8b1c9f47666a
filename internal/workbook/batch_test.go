package workbook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klytics/sheetkit/internal/config"
)

func TestBuildAll(t *testing.T) {
	dir := t.TempDir()
	designs := []string{
		write(t, dir, "a.yaml", "sheets:\n  - name: A\n"),
		write(t, dir, "b.yaml", "sheets:\n  - name: B\n    ranges:\n      - ref: A1\n        style: Missing\n"),
		filepath.Join(dir, "missing.yaml"),
		write(t, dir, "c.toml", "[[sheets]]\nname = \"C\"\n"),
	}
	outDir := filepath.Join(dir, "build")

	var mu sync.Mutex
	var done []string
	b := &Builder{Config: &config.Config{}}
	outcomes := b.BuildAll(testContext(), designs, BatchOptions{
		OutDir:      outDir,
		Concurrency: 3,
		OnDone: func(o Outcome) {
			mu.Lock()
			defer mu.Unlock()
			done = append(done, o.Design)
		},
	})

	if len(outcomes) != len(designs) || len(done) != len(designs) {
		t.Fatalf("got %d outcomes, %d callbacks", len(outcomes), len(done))
	}
	for i, o := range outcomes {
		if o.Design != designs[i] {
			t.Errorf("outcome %d is for %s", i, o.Design)
		}
	}
	if outcomes[0].Failed() || outcomes[3].Failed() {
		t.Errorf("clean designs failed: %v, %v", outcomes[0].Err, outcomes[3].Err)
	}
	if !errors.Is(outcomes[1].Err, ErrInvalidDesign) || outcomes[1].Error == "" {
		t.Errorf("invalid design: err = %v", outcomes[1].Err)
	}
	if !outcomes[2].Failed() {
		t.Error("missing design should fail")
	}
	for _, name := range []string{"a.xlsx", "c.xlsx"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestBuildAllCancelled(t *testing.T) {
	dir := t.TempDir()
	design := write(t, dir, "a.yaml", "sheets:\n  - name: A\n")
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	outcomes := (&Builder{}).BuildAll(ctx, []string{design, design}, BatchOptions{})
	for _, o := range outcomes {
		if !errors.Is(o.Err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", o.Err)
		}
	}
}
