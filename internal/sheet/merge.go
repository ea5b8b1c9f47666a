package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
)

// Merge describes how many cells, starting at a range's first cell, are
// merged into one.
type Merge struct {
	cells       int
	orientation Direction
}

// MergeOptions is a partial override of a Merge.
type MergeOptions struct {
	Cells       *int       `json:"cells,omitempty" yaml:"cells,omitempty"`
	Orientation *Direction `json:"orientation,omitempty" yaml:"orientation,omitempty"`
}

var (
	mergeCells = design.Scalar("cells", 1,
		func(m *Merge) *int { return &m.cells }, func(o *MergeOptions) **int { return &o.Cells }, design.AtLeast(1))
	mergeOrientation = design.Scalar("orientation", Horizontal,
		func(m *Merge) *Direction { return &m.orientation }, func(o *MergeOptions) **Direction { return &o.Orientation },
		design.ValidEnum[Direction])

	mergeSchema = design.NewSchema[Merge, MergeOptions]("merge", mergeCells, mergeOrientation)
)

// NewMerge returns a rule that merges nothing.
func NewMerge() *Merge { return mergeSchema.New() }

func (m *Merge) Cells() int { return m.cells }
func (m *Merge) Orientation() Direction { return m.orientation }
func (m *Merge) SetCells(v int) error { return mergeCells.Set(m, v) }
func (m *Merge) SetOrientation(v Direction) error { return mergeOrientation.Set(m, v) }

// Active reports whether the rule merges more than one cell.
func (m *Merge) Active() bool { return m.cells > 1 }

// Range returns the top-left and bottom-right cells of the merge starting
// at ref. ref may be a single cell or a range, whose first cell is used.
func (m *Merge) Range(ref string) (string, string, error) {
	start := ref
	for i := range ref {
		if ref[i] == ':' {
			start = ref[:i]
			break
		}
	}
	col, row, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return "", "", fmt.Errorf("could not merge from %q: %w", ref, err)
	}
	endCol, endRow := col, row
	if m.orientation == Vertical {
		endRow += m.cells - 1
	} else {
		endCol += m.cells - 1
	}
	end, err := excelize.CoordinatesToCellName(endCol, endRow)
	if err != nil {
		return "", "", fmt.Errorf("could not merge %d cells from %q: %w", m.cells, ref, err)
	}
	return start, end, nil
}

func (m *Merge) IsDefault() bool { return mergeSchema.IsDefault(m) }
func (m *Merge) Clone() *Merge { return mergeSchema.Clone(m) }
func (m *Merge) Combine(ref *Merge) { mergeSchema.Combine(m, ref) }
func (m *Merge) ApplyOptions(o *MergeOptions) error { return mergeSchema.Apply(m, o) }
func (m *Merge) MarshalJSON() ([]byte, error) { return mergeSchema.Encode(m) }
func (m *Merge) UnmarshalJSON(data []byte) error { return mergeSchema.Decode(m, data) }

func (o *MergeOptions) IsDefault() bool { return mergeSchema.OptionsDefault(o) }
func (o *MergeOptions) Clone() *MergeOptions { return mergeSchema.CloneOptions(o) }
func (o *MergeOptions) Validate() error { return mergeSchema.ValidateOptions(o) }
