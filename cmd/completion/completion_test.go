package completion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func testRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "sheetkit"}
	root.AddCommand(&cobra.Command{Use: "render", Short: "Render designs"})
	root.AddCommand(&cobra.Command{Use: "styles", Short: "Explore styles"})
	return root
}

func TestBashCompletion(t *testing.T) {
	root := testRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)

	if err := root.GenBashCompletion(&buf); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	if !strings.Contains(output, "_sheetkit") {
		t.Error("bash completion should contain _sheetkit function")
	}
}

func TestZshCompletion(t *testing.T) {
	root := testRootCmd()
	var buf bytes.Buffer

	if err := root.GenZshCompletion(&buf); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	if !strings.Contains(output, "compdef") {
		t.Error("zsh completion should contain compdef")
	}
}

func TestFishCompletion(t *testing.T) {
	root := testRootCmd()
	var buf bytes.Buffer

	if err := root.GenFishCompletion(&buf, true); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	if !strings.Contains(output, "complete -c sheetkit") {
		t.Error("fish completion should contain 'complete -c sheetkit'")
	}
}

func TestPowerShellCompletion(t *testing.T) {
	root := testRootCmd()
	var buf bytes.Buffer

	if err := root.GenPowerShellCompletionWithDesc(&buf); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	if !strings.Contains(output, "sheetkit") {
		t.Error("PowerShell completion should contain sheetkit")
	}
}

func TestGenerate(t *testing.T) {
	root := testRootCmd()
	var buf bytes.Buffer
	if err := Generate(root, &buf, "zsh"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# sheetkit zsh completion\n# Install: sheetkit completion zsh") {
		t.Errorf("missing install hint:\n%s", buf.String()[:80])
	}
	if err := Generate(root, &buf, "tcsh"); err == nil || !strings.Contains(err.Error(), "unsupported shell") {
		t.Errorf("err = %v", err)
	}
}
