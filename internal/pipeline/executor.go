package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/klytics/sheetkit/internal/logging"
)

// ActionFunc is the signature for pipeline action handlers.
type ActionFunc func(ctx context.Context, step Step, input string) (string, error)

// Executor runs pipeline steps sequentially, resolving variable interpolation between steps.
type Executor struct {
	actions map[string]ActionFunc
	writes  map[string]bool
	results map[string]*StepResult
	dryRun  bool
}

// NewExecutor creates a new pipeline executor.
func NewExecutor() *Executor {
	return &Executor{
		actions: make(map[string]ActionFunc),
		writes:  make(map[string]bool),
		results: make(map[string]*StepResult),
	}
}

// SetDryRun enables dry-run mode. Steps whose actions write files are
// skipped with a description of what they would do.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// RegisterAction adds an action handler to the executor's registry.
func (e *Executor) RegisterAction(name string, fn ActionFunc) {
	e.actions[name] = fn
}

// RegisterWriteAction adds a handler for an action that writes files.
func (e *Executor) RegisterWriteAction(name string, fn ActionFunc) {
	e.actions[name] = fn
	e.writes[name] = true
}

// Run executes all steps in the pipeline sequentially. A failing step stops
// the run unless it is marked on_failure: skip.
func (e *Executor) Run(ctx context.Context, p *Pipeline) ([]StepResult, error) {
	logger := logging.FromContext(ctx)
	var results []StepResult

	logger.Info("running pipeline", "name", p.Name, "version", p.Version, "dryRun", e.dryRun)

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("pipeline cancelled: %w", err)
		}
		logger.Debug("step", "n", fmt.Sprintf("%d/%d", i+1, len(p.Steps)), "id", step.ID, "action", step.Action)

		resolved := e.resolveStep(step, p.Dir)

		if e.dryRun && e.writes[resolved.Action] {
			msg := fmt.Sprintf("[DRY-RUN] Would %s %s", resolved.Action, resolved.Input)
			if resolved.To != "" {
				msg += " to " + resolved.To
			}
			e.record(&results, StepResult{StepID: resolved.ID, Action: resolved.Action, Output: resolved.To, Message: msg, Skipped: true})
			logger.Info(msg)
			continue
		}

		action, ok := e.actions[resolved.Action]
		if !ok {
			err := fmt.Errorf("unknown action %q in step %q — registered actions: %v",
				resolved.Action, resolved.ID, e.actionNames())
			if resolved.OnFailure == "skip" {
				logger.Warn("skipping step", "id", resolved.ID, "err", err)
				e.record(&results, StepResult{StepID: resolved.ID, Action: resolved.Action, Error: err, Message: err.Error()})
				continue
			}
			return results, err
		}

		start := time.Now()
		output, err := action(ctx, resolved, resolved.Input)
		result := StepResult{
			StepID:   resolved.ID,
			Action:   resolved.Action,
			Output:   output,
			Error:    err,
			Duration: time.Since(start).Round(time.Millisecond).String(),
		}
		if err != nil {
			result.Message = err.Error()
		}
		e.record(&results, result)
		logger.Debug("step done", "id", resolved.ID, "duration", result.Duration)

		if err != nil {
			if resolved.OnFailure == "skip" {
				logger.Warn("step failed, skipping", "id", resolved.ID, "err", err)
				continue
			}
			return results, fmt.Errorf("step %q failed: %w", resolved.ID, err)
		}
	}

	return results, nil
}

func (e *Executor) record(results *[]StepResult, r StepResult) {
	*results = append(*results, r)
	e.results[r.StepID] = &r
}

var interpolationPattern = regexp.MustCompile(`\$\{\{\s*([^}]+)\s*\}\}`)

// resolveStep interpolates the step's fields and resolves literal relative
// paths against dir. Interpolated values are used as they are.
func (e *Executor) resolveStep(step Step, dir string) Step {
	resolved := step
	resolved.Input = e.resolvePath(step.Input, dir)
	resolved.To = e.resolvePath(step.To, dir)

	if step.Options != nil {
		opts := make(map[string]string, len(step.Options))
		for k, v := range step.Options {
			opts[k] = e.interpolate(v)
		}
		resolved.Options = opts
	}
	return resolved
}

func (e *Executor) resolvePath(s, dir string) string {
	if s == "" {
		return s
	}
	// A path taken from an earlier step is already resolved.
	if m := interpolationPattern.FindStringSubmatchIndex(s); m != nil && m[0] == 0 &&
		strings.HasPrefix(strings.TrimSpace(s[m[2]:m[3]]), "steps.") {
		return e.interpolate(s)
	}
	s = e.interpolate(s)
	if dir == "" || filepath.IsAbs(s) {
		return s
	}
	return filepath.Join(dir, s)
}

func (e *Executor) interpolate(s string) string {
	return interpolationPattern.ReplaceAllStringFunc(s, func(match string) string {
		inner := interpolationPattern.FindStringSubmatch(match)
		if len(inner) < 2 {
			return match
		}
		expr := strings.TrimSpace(inner[1])

		// steps.<id>.output
		if strings.HasPrefix(expr, "steps.") {
			parts := strings.Split(expr, ".")
			if len(parts) >= 3 && parts[2] == "output" {
				if result, ok := e.results[parts[1]]; ok {
					return result.Output
				}
			}
		}

		switch expr {
		case "date.today":
			return time.Now().Format("2006-01-02")
		case "date.month":
			return time.Now().Format("2006-01")
		case "date.now", "date.timestamp":
			return time.Now().Format(time.RFC3339)
		}

		if strings.HasPrefix(expr, "env.") {
			return os.Getenv(strings.TrimPrefix(expr, "env."))
		}

		return match
	})
}

func (e *Executor) actionNames() []string {
	names := make([]string, 0, len(e.actions))
	for name := range e.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
