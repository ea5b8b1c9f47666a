// Package tests holds smoke tests that run the compiled sheetkit binary and
// check every command exists, runs, and exits cleanly.
// Build the binary first: go build -o bin/sheetkit ./cmd/sheetkit
package tests

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const design = `name: Smoke
styles:
  - name: Header
    font:
      bold: Yes
sheets:
  - name: Summary
    data:
      rows:
        - [Region, Q1]
        - [North, 10]
    ranges:
      - ref: A1:B1
        style: Header
`

// binary returns the path to the compiled sheetkit binary.
func binary(t *testing.T) string {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	bin := filepath.Join(filepath.Dir(filename), "..", "bin", "sheetkit")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		t.Skipf("sheetkit binary not found at %s — build it first", bin)
	}
	return bin
}

// run executes sheetkit with args under a scratch HOME and returns stdout,
// stderr, and the exit code.
func run(t *testing.T, home string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binary(t), args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"USERPROFILE="+home,
		"SHEETKIT_ORG_CONFIG="+filepath.Join(home, "org.yaml"),
		"SHEETKIT_NO_PROGRESS=1",
	)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	code := 0
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), code
}

func writeDesign(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "smoke.yaml")
	if err := os.WriteFile(path, []byte(design), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestAllCommandsExist validates that every command appears in --help.
func TestAllCommandsExist(t *testing.T) {
	commands := []string{
		"render", "validate", "styles", "inspect", "diff", "convert",
		"init", "watch", "batch", "build", "history", "shell",
		"config", "org", "doctor", "completion", "version",
	}

	stdout, _, code := run(t, t.TempDir(), "--help")
	if code != 0 {
		t.Fatalf("sheetkit --help exited with code %d", code)
	}
	for _, cmd := range commands {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("command %q not found in sheetkit --help output", cmd)
		}
	}
}

// TestRenderThenInspect validates the core render and read-back round trip.
func TestRenderThenInspect(t *testing.T) {
	home := t.TempDir()
	path := writeDesign(t, home)
	out := filepath.Join(home, "out", "smoke.xlsx")

	if _, stderr, code := run(t, home, "render", path, "-o", out); code != 0 {
		t.Fatalf("sheetkit render exited %d: %s", code, stderr)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}

	stdout, _, code := run(t, home, "inspect", out, "--styles")
	if code != 0 {
		t.Fatal("sheetkit inspect should exit 0")
	}
	if !strings.Contains(stdout, "North") {
		t.Errorf("inspect output should contain the data, got: %s", stdout)
	}
}

// TestRenderJSON validates the JSON envelope.
func TestRenderJSON(t *testing.T) {
	home := t.TempDir()
	path := writeDesign(t, home)

	stdout, _, code := run(t, home, "render", path, "--json")
	if code != 0 {
		t.Fatal("sheetkit render --json should exit 0")
	}
	var result struct {
		OK      bool   `json:"ok"`
		Command string `json:"command"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("--json output is not valid JSON: %v\nOutput: %s", err, stdout)
	}
	if !result.OK || result.Command != "render" {
		t.Errorf("envelope = %+v", result)
	}
}

// TestValidateRefusesBrokenDesign validates the exit code for design errors.
func TestValidateRefusesBrokenDesign(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "broken.yaml")
	if err := os.WriteFile(path, []byte("sheets:\n  - name: S\n    ranges:\n      - ref: A1\n        style: Nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, code := run(t, home, "validate", path); code != 1 {
		t.Errorf("validate exit code = %d, want 1", code)
	}
	if _, _, code := run(t, home, "render", path); code != 1 {
		t.Errorf("render exit code = %d, want 1", code)
	}
}

// TestDiffIdentical validates diff with identical files.
func TestDiffIdentical(t *testing.T) {
	home := t.TempDir()
	out := filepath.Join(home, "same.xlsx")
	run(t, home, "render", writeDesign(t, home), "-o", out)

	stdout, _, code := run(t, home, "diff", out, out, "--stats")
	if code != 0 {
		t.Fatal("sheetkit diff on identical files should exit 0")
	}
	if !strings.HasPrefix(stdout, "0 added, 0 removed") {
		t.Errorf("identical diff should report no changes, got: %s", stdout)
	}
}

// TestConvertToCSV validates workbook export.
func TestConvertToCSV(t *testing.T) {
	home := t.TempDir()
	out := filepath.Join(home, "conv.xlsx")
	run(t, home, "render", writeDesign(t, home), "-o", out)

	stdout, _, code := run(t, home, "convert", out, "--to", "csv")
	if code != 0 {
		t.Fatal("sheetkit convert --to csv should exit 0")
	}
	if !strings.Contains(stdout, "North,10") {
		t.Errorf("csv output should contain the data, got: %s", stdout)
	}
}

// TestHistoryRecordsRenders validates that a render lands in the history.
func TestHistoryRecordsRenders(t *testing.T) {
	home := t.TempDir()
	run(t, home, "render", writeDesign(t, home))

	stdout, _, code := run(t, home, "history", "list")
	if code != 0 {
		t.Fatal("sheetkit history list should exit 0")
	}
	if !strings.Contains(stdout, "smoke.yaml") {
		t.Errorf("history should list the render, got: %s", stdout)
	}
}

// TestVersionOutput validates version command format.
func TestVersionOutput(t *testing.T) {
	stdout, _, code := run(t, t.TempDir(), "version")
	if code != 0 {
		t.Fatal("sheetkit version should exit 0")
	}
	if !strings.HasPrefix(stdout, "sheetkit ") {
		t.Errorf("version output should start with 'sheetkit', got: %s", stdout)
	}
}

// TestDoctorRuns validates doctor command runs without panic.
func TestDoctorRuns(t *testing.T) {
	_, stderr, code := run(t, t.TempDir(), "doctor")
	if code > 2 || strings.Contains(stderr, "panic") {
		t.Errorf("doctor should exit 0, 1, or 2, got: %d", code)
	}
}

// TestConfigShowRuns validates config show does not panic.
func TestConfigShowRuns(t *testing.T) {
	_, _, code := run(t, t.TempDir(), "config", "show")
	if code > 1 {
		t.Errorf("config show should exit 0 or 1, got %d", code)
	}
}

// TestAllCommandsHaveHelp validates every command accepts --help.
func TestAllCommandsHaveHelp(t *testing.T) {
	commandPaths := [][]string{
		{"render"}, {"validate"}, {"inspect"}, {"diff"}, {"convert"},
		{"styles", "list"}, {"styles", "show"}, {"styles", "tree"},
		{"init"}, {"watch"}, {"batch"}, {"build"}, {"shell"},
		{"history", "list"}, {"history", "show"}, {"history", "clear"}, {"history", "status"},
		{"config", "show"}, {"config", "set"}, {"config", "get"}, {"config", "reset"},
		{"config", "path"}, {"config", "validate"}, {"config", "env"},
		{"org", "show"}, {"org", "validate"}, {"org", "init"},
		{"completion"}, {"doctor"}, {"version"},
	}

	home := t.TempDir()
	for _, path := range commandPaths {
		args := append(path, "--help")
		t.Run(strings.Join(path, "_"), func(t *testing.T) {
			if _, _, code := run(t, home, args...); code != 0 {
				t.Errorf("sheetkit %s --help should exit 0", strings.Join(path, " "))
			}
		})
	}
}
