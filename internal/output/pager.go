package output

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultPageHeight is the line count past which long listings are paged.
const DefaultPageHeight = 40

// ShouldPage returns true if output should be piped through a pager.
// This checks if stdout is a terminal and the content exceeds terminal height.
func ShouldPage(content string, termHeight int) bool {
	if !isTerminal() {
		return false
	}
	lines := strings.Count(content, "\n")
	return lines > termHeight
}

// Page pipes content through the user's preferred pager (PAGER env, or "less -R").
func Page(content string) error {
	pager := strings.Fields(os.Getenv("PAGER"))
	if len(pager) == 0 {
		pager = []string{"less", "-R"}
	}

	cmd := exec.Command(pager[0], pager[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// PageOrPrint pages content when it is taller than the terminal and writes
// it to w otherwise, or when the pager cannot run.
func PageOrPrint(w io.Writer, content string) error {
	if ShouldPage(content, DefaultPageHeight) {
		if err := Page(content); err == nil {
			return nil
		}
	}
	_, err := fmt.Fprint(w, content)
	return err
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
