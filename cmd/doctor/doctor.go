// Package doctor provides the "sheetkit doctor" command for checking the
// local setup.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/render"
	"github.com/klytics/sheetkit/internal/style"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and rendering health",
		Long:  "Run diagnostic checks to verify sheetkit is properly configured and can write workbooks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks(cmd.Context())

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("doctor", checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("sheetkit doctor")
			fmt.Println("===============")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context) []Check {
	var checks []Check
	add := func(name, status, msg string) {
		checks = append(checks, Check{Name: name, Status: status, Message: msg})
	}

	add("Go Runtime", "ok", fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH))

	cfg, err := config.Load()
	if err != nil {
		add("Config", "error", err.Error())
		return checks
	}
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		add("Config File", "ok", config.ConfigPath())
	} else {
		add("Config File", "warning", "Not found, using defaults — run 'sheetkit config set <key> <value>'")
	}
	for _, is := range config.Validate() {
		if is.Severity == "error" || is.Severity == "warning" {
			add("Config "+is.Key, is.Severity, is.Message)
		}
	}

	org, err := config.LoadOrgConfig()
	switch {
	case err != nil:
		add("Org Config", "error", err.Error())
	case org == nil:
		add("Org Config", "ok", "None at "+config.OrgConfigPath())
	default:
		if issues := config.ValidateOrgConfig(org); len(issues) > 0 {
			add("Org Config", "error", fmt.Sprintf("%s: %s", config.OrgConfigPath(), issues[0]))
		} else {
			add("Org Config", "ok", org.OrgName)
		}
	}

	if culture := org.EffectiveCulture("", cfg.Culture); culture != "" {
		add("Culture", "ok", culture)
	} else {
		add("Culture", "ok", "Not set — designs without a culture render as "+style.CurrentCulture().String())
	}

	if cfg.Output.Dir != "" {
		if err := writable(cfg.Output.Dir); err != nil {
			add("Output Directory", "error", err.Error())
		} else {
			add("Output Directory", "ok", cfg.Output.Dir)
		}
	}

	if cfg.History.Enabled {
		if err := writable(filepath.Dir(cfg.HistoryPath())); err != nil {
			add("History", "warning", err.Error())
		} else {
			add("History", "ok", cfg.HistoryPath())
		}
	} else {
		add("History", "ok", "Disabled")
	}

	if err := selfTest(ctx); err != nil {
		add("Render", "error", err.Error())
	} else {
		add("Render", "ok", "Test workbook written")
	}

	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}
	if _, err := exec.LookPath(pager); err == nil {
		add("Pager", "ok", pager)
	} else {
		add("Pager", "warning", pager+" not found in PATH — long output is printed unpaged")
	}

	return checks
}

// writable reports whether files can be created in dir, creating dir when
// it does not exist.
func writable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".sheetkit-doctor-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// selfTest renders a one-sheet workbook to a temporary file.
func selfTest(ctx context.Context) error {
	dir, err := os.MkdirTemp("", "sheetkit-doctor")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	doc := document.New("Doctor")
	s, err := doc.AddSheet("Check")
	if err != nil {
		return err
	}
	s.Data = &document.Data{Rows: [][]any{{"Status"}, {"ok"}}}

	res, err := render.New(render.Options{}).RenderFile(ctx, doc, filepath.Join(dir, "doctor.xlsx"))
	if err != nil {
		return err
	}
	if !res.Success {
		return &res.Errors[0]
	}
	return nil
}
