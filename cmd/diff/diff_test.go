package diff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

func TestPrint(t *testing.T) {
	color.NoColor = true
	d := &xlsx.DiffResult{
		Original:    "a.xlsx",
		Revised:     "b.xlsx",
		SheetsAdded: []string{"Notes"},
		Changes: []xlsx.Change{
			{Sheet: "Summary", Cell: "B2", Kind: xlsx.ChangeValue, Old: "10", New: "11"},
			{Sheet: "Summary", Cell: "A1", Kind: xlsx.ChangeStyle, New: "{Bold:true}"},
			{Sheet: "Detail", Cell: "C4", Kind: xlsx.ChangeRemoved, Old: "x"},
		},
	}
	var buf bytes.Buffer
	Print(&buf, d)
	out := buf.String()
	for _, want := range []string{
		"--- a.xlsx", "+++ b.xlsx", "+ sheet Notes",
		"@@ Summary @@", "~ B2       10 -> 11", "style (none) -> {Bold:true}",
		"@@ Detail @@", "- C4       x",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWithoutStyles(t *testing.T) {
	d := &xlsx.DiffResult{
		Changes: []xlsx.Change{
			{Cell: "A1", Kind: xlsx.ChangeStyle},
			{Cell: "A2", Kind: xlsx.ChangeValue},
		},
		Unchanged: 4,
	}
	got := WithoutStyles(d)
	if len(got.Changes) != 1 || got.Changes[0].Cell != "A2" || got.Unchanged != 5 {
		t.Errorf("got %+v", got)
	}
	if len(d.Changes) != 2 {
		t.Error("input modified")
	}
}

func TestPrintIdentical(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Print(&buf, &xlsx.DiffResult{Original: "a.xlsx", Revised: "a.xlsx"})
	if !strings.Contains(buf.String(), "No differences.") {
		t.Errorf("output = %s", buf.String())
	}
}
