// Package shell provides the interactive sheetkit design explorer: open a
// design file, inspect its styles and sheets, patch styles, and render.
package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/render"
	"github.com/klytics/sheetkit/internal/style"
)

// CommandRunner executes a sheetkit command and returns its output.
// This is set by the cmd/shell package to avoid import cycles.
type CommandRunner func(ctx context.Context, args []string, stdout, stderr io.Writer) error

// DefaultRunner runs lines that are not explorer commands.
var DefaultRunner CommandRunner

// Session manages an interactive explorer session.
type Session struct {
	Doc            *document.Document
	Renderer       *render.Renderer
	Dirty          bool
	LastOutput     string
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	// KnownCommands is the list of top-level commands for completion.
	KnownCommands []string
}

// builtins are handled by the session itself.
var builtins = map[string]string{
	"open":     "open <file>             load a design file",
	"reload":   "reload                  re-read the open design from disk",
	"sheets":   "sheets                  list sheets and their elements",
	"styles":   "styles                  list named styles",
	"show":     "show <style>            print the resolved design of a style",
	"chain":    "chain <style>           print a style and its ancestors",
	"patch":    "patch <style> <json>    apply style options, e.g. patch Header {\"font\":{\"bold\":\"Yes\"}}",
	"validate": "validate                list problems in the design",
	"render":   "render [out.xlsx]       render the design",
	"save":     "save [file]             write the design back",
	"help":     "help                    show this help",
	"history":  "history                 show command history",
	"exit":     "exit                    leave the shell",
}

// NewSession creates a new interactive session.
func NewSession() (*Session, error) {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".sheetkit", "shell_history")

	os.MkdirAll(filepath.Dir(histFile), 0755)

	known := []string{"inspect", "config", "version", "quit"}
	for name := range builtins {
		known = append(known, name)
	}
	sort.Strings(known)

	return &Session{
		HistoryFile:   histFile,
		StartTime:     time.Now(),
		Renderer:      render.New(render.Options{}),
		KnownCommands: known,
	}, nil
}

// Open loads a design file into the session.
func (s *Session) Open(path string) error {
	d, err := document.Load(path)
	if err != nil {
		return err
	}
	s.Doc, s.Dirty = d, false
	return nil
}

// Prompt returns the prompt for the current state.
func (s *Session) Prompt() string {
	if s.Doc == nil {
		return "sheetkit> "
	}
	mark := ""
	if s.Dirty {
		mark = "*"
	}
	return fmt.Sprintf("sheetkit:%s%s> ", s.Doc.Name, mark)
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.Prompt(),
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("sheetkit — design explorer")
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	fmt.Println()

	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.CommandHistory = append(s.CommandHistory, line)

		if line == "exit" || line == "quit" {
			if s.Dirty {
				fmt.Println("Unsaved changes discarded.")
			}
			fmt.Printf("\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(time.Since(s.StartTime)))
			return nil
		}

		output, err := s.Eval(ctx, line)
		if output != "" {
			fmt.Print(output)
			if !strings.HasSuffix(output, "\n") {
				fmt.Println()
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
	}
	return nil
}

// Eval runs a single command line and returns its output.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	var out string
	var err error
	switch args[0] {
	case "help":
		out = s.help()
	case "history":
		var sb strings.Builder
		for i, cmd := range s.CommandHistory {
			fmt.Fprintf(&sb, "  %d  %s\n", i+1, cmd)
		}
		out = sb.String()
	case "open":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: open <file>")
		}
		if err = s.Open(args[1]); err == nil {
			out = fmt.Sprintf("Opened %s (%d sheets, %d styles)\n", s.Doc.Name, len(s.Doc.Sheets), s.Doc.Styles.Len())
		}
	case "reload":
		if err = s.requireDoc(); err == nil {
			if err = s.Open(s.Doc.Path()); err == nil {
				out = "Reloaded " + s.Doc.Path() + "\n"
			}
		}
	case "sheets":
		out, err = s.sheets()
	case "styles":
		out, err = s.styles()
	case "show":
		out, err = s.show(args[1:])
	case "chain":
		out, err = s.chain(args[1:])
	case "patch":
		out, err = s.patch(line)
	case "validate":
		out, err = s.validate()
	case "render":
		out, err = s.render(ctx, args[1:])
	case "save":
		out, err = s.save(args[1:])
	default:
		return s.run(ctx, args)
	}
	s.LastOutput = out
	return out, err
}

// run passes a line to the command runner.
func (s *Session) run(ctx context.Context, args []string) (string, error) {
	if DefaultRunner == nil {
		return "", fmt.Errorf("unknown command %q — type 'help'", args[0])
	}
	var stdout, stderr bytes.Buffer
	err := DefaultRunner(ctx, args, &stdout, &stderr)

	output := stdout.String()
	s.LastOutput = output

	if errOut := stderr.String(); errOut != "" && err != nil {
		return output, fmt.Errorf("%s", strings.TrimSpace(errOut))
	}
	return output, err
}

func (s *Session) requireDoc() error {
	if s.Doc == nil {
		return fmt.Errorf("no design open — use: open <file>")
	}
	return nil
}

func (s *Session) sheets() (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, sh := range s.Doc.Sheets {
		fmt.Fprintf(&sb, "%-20s %d ranges, %d charts, %d mini charts, %d pictures, %d shapes\n",
			sh.Name, len(sh.Ranges), len(sh.Charts), len(sh.MiniCharts), len(sh.Pictures), len(sh.Shapes))
	}
	return sb.String(), nil
}

func (s *Session) styles() (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, st := range s.Doc.Styles.Items() {
		if st.Inherits() != "" {
			fmt.Fprintf(&sb, "%s <- %s\n", st.Name(), st.Inherits())
		} else {
			fmt.Fprintln(&sb, st.Name())
		}
	}
	return sb.String(), nil
}

func (s *Session) show(args []string) (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	resolved, err := s.Doc.ResolveStyle(name, nil)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func (s *Session) chain(args []string) (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", fmt.Errorf("usage: chain <style>")
	}
	chain, err := s.Doc.Styles.Chain(args[0])
	if err != nil {
		return "", err
	}
	return strings.Join(chain, " -> ") + "\n", nil
}

func (s *Session) patch(line string) (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "patch"))
	name, raw, found := strings.Cut(rest, " ")
	if !found || name == "" {
		return "", fmt.Errorf("usage: patch <style> <json>")
	}
	st, ok := s.Doc.Styles.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", style.ErrStyleNotFound, name)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var opts style.CellStyleOptions
	if err := dec.Decode(&opts); err != nil {
		return "", fmt.Errorf("invalid style options: %w", err)
	}
	if err := st.ApplyOptions(&opts); err != nil {
		return "", err
	}
	s.Dirty = true
	return fmt.Sprintf("Patched %s\n", name), nil
}

func (s *Session) validate() (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	issues := s.Doc.Validate()
	if len(issues) == 0 {
		return "No problems found\n", nil
	}
	var sb strings.Builder
	for _, is := range issues {
		fmt.Fprintf(&sb, "%-7s %s: %s\n", is.Severity, is.Path, is.Message)
	}
	return sb.String(), nil
}

func (s *Session) render(ctx context.Context, args []string) (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	out := ""
	if len(args) > 0 {
		out = args[0]
	} else {
		base := strings.TrimSuffix(filepath.Base(s.Doc.Path()), filepath.Ext(s.Doc.Path()))
		if base == "" || base == "." {
			base = s.Doc.Name
		}
		out = s.Doc.ResolvePath(base + ".xlsx")
	}
	res, err := s.Renderer.RenderFile(ctx, s.Doc, out)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rendered %s (%d sheets, %d styles) in %s\n", res.OutputPath, res.Sheets, res.Styles,
		res.Duration.Round(time.Millisecond))
	for _, e := range res.Errors {
		fmt.Fprintf(&sb, "  %s\n", e.Error())
	}
	return sb.String(), nil
}

func (s *Session) save(args []string) (string, error) {
	if err := s.requireDoc(); err != nil {
		return "", err
	}
	path := s.Doc.Path()
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return "", fmt.Errorf("usage: save <file>")
	}
	if err := s.Doc.Save(path); err != nil {
		return "", err
	}
	s.Dirty = false
	return "Saved " + path + "\n", nil
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return s.KnownCommands
	}

	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		var matches []string
		for _, cmd := range s.KnownCommands {
			if strings.HasPrefix(cmd, parts[0]) {
				matches = append(matches, cmd)
			}
		}
		return matches
	}

	// Style names complete the style commands.
	switch parts[0] {
	case "show", "chain", "patch":
		if s.Doc == nil || len(parts) > 2 || (len(parts) == 2 && strings.HasSuffix(input, " ")) {
			return nil
		}
		prefix := ""
		if len(parts) == 2 {
			prefix = parts[1]
		}
		var matches []string
		for _, name := range s.Doc.Styles.Names() {
			if strings.HasPrefix(name, prefix) {
				matches = append(matches, name)
			}
		}
		return matches
	}
	return nil
}

func (s *Session) help() string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString("Explorer commands:\n")
	for _, name := range names {
		sb.WriteString("  " + builtins[name] + "\n")
	}
	sb.WriteString("\nAny other line runs as a sheetkit command, e.g. inspect out.xlsx\n")
	return sb.String()
}

// styleNames feeds readline's dynamic completion.
func (s *Session) styleNames(string) []string {
	if s.Doc == nil {
		return nil
	}
	return s.Doc.Styles.Names()
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.KnownCommands {
		switch cmd {
		case "show", "chain", "patch":
			items = append(items, readline.PcItem(cmd, readline.PcItemDynamic(s.styleNames)))
		default:
			items = append(items, readline.PcItem(cmd))
		}
	}
	return items
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
