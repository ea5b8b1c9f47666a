// Package styles provides the "sheetkit styles" commands for exploring the
// named styles of a design.
package styles

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/style"
	"github.com/klytics/sheetkit/internal/workbook"
)

// NewCommand creates the "styles" command with its subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Explore the named styles of a design",
		Long: `List, resolve, and graph the named styles of a design, including the
shared styles the org configuration adds.

Example:
  sheetkit styles list sales.yaml
  sheetkit styles show sales.yaml Header
  sheetkit styles tree sales.yaml`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newTreeCmd())

	return cmd
}

func load(design string) (*document.Document, error) {
	b, err := workbook.NewBuilder("styles")
	if err != nil {
		return nil, err
	}
	return b.Load(design, "")
}

type listEntry struct {
	Name     string   `json:"name"`
	Inherits string   `json:"inherits,omitempty"`
	Sets     []string `json:"sets,omitempty"`
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <design>",
		Short: "List named styles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(args[0])
			if err != nil {
				return err
			}

			entries := make([]listEntry, 0, doc.Styles.Len())
			for _, s := range doc.Styles.Items() {
				e := listEntry{Name: s.Name(), Inherits: s.Inherits()}
				if s.FontSpecified() {
					e.Sets = append(e.Sets, "font")
				}
				if s.ContentSpecified() {
					e.Sets = append(e.Sets, "content")
				}
				if s.BordersSpecified() {
					e.Sets = append(e.Sets, "borders")
				}
				entries = append(entries, e)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("styles list", entries)
			}
			if len(entries) == 0 {
				fmt.Println("No named styles.")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "NAME\tINHERITS\tSETS\n")
			for _, e := range entries {
				inherits := e.Inherits
				if inherits == "" {
					inherits = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, inherits, strings.Join(e.Sets, ","))
			}
			return tw.Flush()
		},
	}
}

func newShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <design> <style>",
		Short: "Print the effective design of a style",
		Long: `Print a style combined with its ancestors and the document defaults, as
a range using it would render. With --raw, print only what the style sets
itself.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(args[0])
			if err != nil {
				return err
			}

			var s *style.CellStyle
			if raw {
				var ok bool
				if s, ok = doc.Styles.Lookup(args[1]); !ok {
					return fmt.Errorf("%w: %q", style.ErrStyleNotFound, args[1])
				}
			} else if s, err = doc.ResolveStyle(args[1], nil); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("styles show", s)
			}
			text, err := toYAML(s)
			if err != nil {
				return err
			}
			return output.PageOrPrint(os.Stdout, text)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Show the style as written, without inherited values")
	return cmd
}

// toYAML renders v the way designs are written.
func toYAML(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <design>",
		Short: "Show the inherits hierarchy of named styles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(args[0])
			if err != nil {
				return err
			}
			roots := Tree(doc.Styles)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("styles tree", roots)
			}
			fmt.Println(output.StyleTitle.Render(doc.Name))
			fmt.Print(output.RenderTree(roots))
			return nil
		},
	}
}

// Tree arranges styles by inheritance. Styles whose parent is unknown, and
// styles caught in an inherits loop, are marked broken at the top level.
func Tree(st *style.Styles) []*output.Node {
	nodes := make(map[string]*output.Node)
	children := make(map[string][]string)
	for _, s := range st.Items() {
		nodes[s.Name()] = &output.Node{Label: s.Name()}
		if p := s.Inherits(); p != "" {
			children[p] = append(children[p], s.Name())
		}
	}

	placed := make(map[string]bool)
	var attach func(name string)
	attach = func(name string) {
		placed[name] = true
		kids := children[name]
		sort.Strings(kids)
		for _, k := range kids {
			if placed[k] {
				continue
			}
			nodes[name].Children = append(nodes[name].Children, nodes[k])
			attach(k)
		}
	}

	var roots []*output.Node
	for _, s := range st.Items() {
		p := s.Inherits()
		if p == "" {
			roots = append(roots, nodes[s.Name()])
			attach(s.Name())
			continue
		}
		if _, ok := st.Lookup(p); !ok {
			n := nodes[s.Name()]
			n.Broken, n.Detail = true, fmt.Sprintf("inherits unknown %q", p)
			roots = append(roots, n)
			attach(s.Name())
		}
	}
	for _, s := range st.Items() {
		if placed[s.Name()] {
			continue
		}
		n := nodes[s.Name()]
		n.Broken, n.Detail = true, "inherits loop via "+s.Inherits()
		roots = append(roots, n)
		attach(s.Name())
	}
	return roots
}
