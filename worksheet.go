// Package sheetbuilder lays out styled tables in spreadsheet worksheets from
// column definitions and arbitrary data, and assembles multi-sheet workbooks
// from registered worksheet builders.
package sheetbuilder

import (
	"github.com/xuri/excelize/v2"
)

// Worksheet is the subset of a spreadsheet document model the builders
// consume. Columns and rows are 1-based.
type Worksheet interface {
	Title() string
	SetTitle(name string) error

	SetCellValue(col, row int, value any) error
	FormattedValue(col, row int) (string, error)
	MergeCells(col1, row1, col2, row2 int) error

	// RowHeight returns the row height in points and whether it was set.
	RowHeight(row int) (float64, bool)
	SetRowHeight(row int, height float64) error
	SetColumnWidth(col int, width float64) error
	SetColumnAutoSize(col int) error

	// ApplyStyle merges style onto every cell of the range.
	ApplyStyle(col1, row1, col2, row2 int, style *excelize.Style) error
	SetNumberFormat(col1, row1, col2, row2 int, code string) error
	SetConditionalStyle(col1, row1, col2, row2 int, rules []excelize.ConditionalFormatOptions) error

	// FreezePanes keeps the rows above row and the columns left of col
	// visible while scrolling.
	FreezePanes(col, row int) error
	SetShowGridlines(show bool) error

	AddImage(col, row int, img Image, offsetX, offsetY int) error
	HighestRow() int
}
