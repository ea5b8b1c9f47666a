package sheet

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
)

func TestDefaults(t *testing.T) {
	s := NewSettings()
	if s.View().Zoom() != 100 || s.View().GridLines() != design.Yes || s.View().ShowZeros() != design.Yes {
		t.Error("view defaults")
	}
	if s.Page().Paper() != A4 || s.Page().Orientation() != Portrait {
		t.Error("page defaults")
	}
	m := s.Margins()
	if m.Left() != 0.7 || m.Top() != 0.75 || m.Header() != 0.3 {
		t.Error("margin defaults")
	}
	if !s.IsDefault() {
		t.Error("reading children must keep the settings default")
	}
}

func TestValidation(t *testing.T) {
	s := NewSettings()
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"zoom low", s.View().SetZoom(5), design.ErrOutOfRange},
		{"zoom high", s.View().SetZoom(401), design.ErrOutOfRange},
		{"freeze", s.Freeze().SetRows(-1), design.ErrOutOfRange},
		{"margin", s.Margins().SetLeft(-0.1), design.ErrOutOfRange},
		{"paper", s.Page().SetPaper(Paper(40)), design.ErrInvalidEnum},
		{"header", s.HeaderFooter().SetHeader(strings.Repeat("x", 256)), design.ErrOutOfRange},
		{"ok", s.View().SetZoom(150), nil},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, tt.err, tt.want)
		}
	}
}

func TestMergeRange(t *testing.T) {
	tests := []struct {
		name      string
		cells     int
		dir       Direction
		ref       string
		from, to  string
		wantError bool
	}{
		{"single", 1, Horizontal, "B2", "B2", "B2", false},
		{"across", 3, Horizontal, "B2", "B2", "D2", false},
		{"down", 4, Vertical, "C5", "C5", "C8", false},
		{"range start", 2, Horizontal, "A1:F1", "A1", "B1", false},
		{"bad ref", 2, Horizontal, "1A", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMerge()
			if err := m.SetCells(tt.cells); err != nil {
				t.Fatal(err)
			}
			_ = m.SetOrientation(tt.dir)
			from, to, err := m.Range(tt.ref)
			if tt.wantError {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if from != tt.from || to != tt.to {
				t.Errorf("range = %s:%s, want %s:%s", from, to, tt.from, tt.to)
			}
		})
	}
	if err := NewMerge().SetCells(0); !errors.Is(err, design.ErrOutOfRange) {
		t.Errorf("cells 0: err = %v", err)
	}
}

func TestFreezePanes(t *testing.T) {
	f := NewFreeze()
	_ = f.SetRows(1)
	p := f.panes()
	if !p.Freeze || p.YSplit != 1 || p.XSplit != 0 || p.TopLeftCell != "A2" || p.ActivePane != "bottomLeft" {
		t.Errorf("panes = %+v", p)
	}
	_ = f.SetColumns(2)
	if p := f.panes(); p.TopLeftCell != "C2" || p.ActivePane != "bottomRight" {
		t.Errorf("panes = %+v", p)
	}
}

func TestApply(t *testing.T) {
	s := NewSettings()
	_ = s.View().SetZoom(125)
	_ = s.View().SetGridLines(design.No)
	_ = s.View().SetTabColor("Red")
	_ = s.Freeze().SetRows(1)
	_ = s.Page().SetOrientation(Landscape)
	_ = s.Page().SetPaper(Letter)
	_ = s.Margins().SetLeft(1)
	_ = s.HeaderFooter().SetFooter("Quarterly report")

	f := excelize.NewFile()
	defer f.Close()
	if err := s.Apply(f, "Sheet1"); err != nil {
		t.Fatal(err)
	}

	view, err := f.GetSheetView("Sheet1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if *view.ZoomScale != 125 || *view.ShowGridLines {
		t.Errorf("view = zoom %v grid %v", *view.ZoomScale, *view.ShowGridLines)
	}
	props, err := f.GetSheetProps("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if props.TabColorRGB == nil || !strings.HasSuffix(*props.TabColorRGB, "FF0000") {
		t.Errorf("tab color = %v", props.TabColorRGB)
	}
	panes, err := f.GetPanes("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Errorf("panes = %+v", panes)
	}
	layout, err := f.GetPageLayout("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if *layout.Orientation != "landscape" || *layout.Size != 1 {
		t.Errorf("layout = %s %d", *layout.Orientation, *layout.Size)
	}
	margins, err := f.GetPageMargins("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if *margins.Left != 1 || *margins.Right != 0.7 {
		t.Errorf("margins = %v %v", *margins.Left, *margins.Right)
	}
	hf, err := f.GetHeaderFooter("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if hf.OddFooter != "&CQuarterly report" {
		t.Errorf("footer = %q", hf.OddFooter)
	}
}

func TestApplyDefaultWritesNothing(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := NewSettings().Apply(f, "Sheet1"); err != nil {
		t.Fatal(err)
	}
	if err := NewSettings().Apply(f, "Missing"); err != nil {
		t.Errorf("default settings should not touch the sheet: %v", err)
	}
}

func TestJSON(t *testing.T) {
	s := NewSettings()
	_ = s.Page().SetOrientation(Landscape)
	_ = s.Freeze().SetColumns(1)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"freeze":{"columns":1},"page":{"orientation":"Landscape"}}` {
		t.Errorf("json = %s", data)
	}
	back := NewSettings()
	if err := json.Unmarshal([]byte(`{"view":{"zoom":"big"}}`), back); err == nil {
		t.Error("expected a decode error")
	}
}
