package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
	colorRed  = lipgloss.Color("167")

	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleError for broken entries.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)

	styleBranch = lipgloss.NewStyle().Foreground(colorDim)
	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// Node is one entry of a tree listing.
type Node struct {
	Label    string
	Detail   string
	Broken   bool
	Children []*Node
}

// RenderTree draws roots and their descendants with box-drawing branches.
func RenderTree(roots []*Node) string {
	var sb strings.Builder
	for _, n := range roots {
		sb.WriteString(label(n, true))
		sb.WriteString("\n")
		renderChildren(&sb, n.Children, "")
	}
	return sb.String()
}

func renderChildren(sb *strings.Builder, nodes []*Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		sb.WriteString(styleBranch.Render(prefix + branch))
		sb.WriteString(label(n, false))
		sb.WriteString("\n")
		renderChildren(sb, n.Children, prefix+next)
	}
}

func label(n *Node, root bool) string {
	text := n.Label
	switch {
	case n.Broken:
		text = StyleError.Render(text)
	case root:
		text = StyleTitle.Render(text)
	}
	if n.Detail != "" {
		text += " " + StyleDim.Render(n.Detail)
	}
	return text
}

// KeyValue renders a labeled value line.
func KeyValue(key, value string) string {
	return styleKey.Render(key) + " " + value
}
