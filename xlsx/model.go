package xlsx

import (
	"fmt"

	"github.com/aerissecure/sheetbuilder/richtext"
)

// Intermediate representation of a workbook preview.

// Pixel values are floats to allow fractional widths/heights.

// CellStyle captures the cell formatting the preview reproduces.
type CellStyle struct {
	FontFamily      string  // e.g. "Calibri"
	FontSizePt      float64 // original size in points
	FontColor       string  // "RRGGBB"
	Bold            bool
	Italic          bool
	Underline       bool
	BackgroundColor string // "RRGGBB"
	BorderColor     string // left border color as representative
	HorizontalAlign string // left|center|right|justify
	VerticalAlign   string // top|middle|bottom
	WrapText        bool
	IndentPx        float64
}

func (s CellStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontSizePt: %f, FontColor: %s, Bold: %t, Italic: %t, Underline: %t, BackgroundColor: %s, BorderColor: %s, HorizontalAlign: %s, VerticalAlign: %s, WrapText: %t, IndentPx: %f",
		s.FontFamily, s.FontSizePt, s.FontColor, s.Bold, s.Italic, s.Underline, s.BackgroundColor, s.BorderColor, s.HorizontalAlign, s.VerticalAlign, s.WrapText, s.IndentPx)
}

// RenderCell is a single cell, or the top-left cell of a merged range.
type RenderCell struct {
	Ref     string // e.g. "A1"
	Value   string // already formatted value
	Runs    richtext.RichText
	ColSpan int // 1 if not merged
	RowSpan int // 1 if not merged
	Style   CellStyle
}

// Rich reports whether the cell holds formatted runs rather than a plain
// value.
func (c RenderCell) Rich() bool {
	return len(c.Runs.Runs) > 0
}

func (c RenderCell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %s, Runs: %d, ColSpan: %d, RowSpan: %d, Style: %s", c.Ref, c.Value, len(c.Runs.Runs), c.ColSpan, c.RowSpan, c.Style)
}

// RenderRow is one row of a sheet.
type RenderRow struct {
	HeightPx float64
	Hidden   bool
	Cells    []*RenderCell // len == column count; nil for blank or covered cells
}

func (r RenderRow) String() string {
	return fmt.Sprintf("HeightPx: %f, Hidden: %t, Cells: %d", r.HeightPx, r.Hidden, len(r.Cells))
}

// RenderSheet is a worksheet of the preview.
type RenderSheet struct {
	Name      string
	ColWidths []float64 // px
	ColHidden []bool
	Rows      []RenderRow
}

func (s RenderSheet) String() string {
	return fmt.Sprintf("Name: %s, ColWidths: %v, ColHidden: %v, Rows: %d", s.Name, s.ColWidths, s.ColHidden, len(s.Rows))
}

// Cell returns the cell at 1-based coordinates, or nil.
func (s RenderSheet) Cell(col, row int) *RenderCell {
	if row < 1 || row > len(s.Rows) {
		return nil
	}
	cells := s.Rows[row-1].Cells
	if col < 1 || col > len(cells) {
		return nil
	}
	return cells[col-1]
}

// WorkbookModel is the preview of a whole workbook.
type WorkbookModel struct {
	Sheets []RenderSheet
}
