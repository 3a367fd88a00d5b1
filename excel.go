package sheetbuilder

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/sheetbuilder/richtext"
)

// Workbook is an excelize-backed spreadsheet document.
type Workbook struct {
	file   *excelize.File
	sheets []*Sheet
}

// NewWorkbook returns an empty workbook holding a single default sheet.
func NewWorkbook() *Workbook {
	return wrapFile(excelize.NewFile())
}

// OpenWorkbook reads an existing XLSX document.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return wrapFile(f), nil
}

func wrapFile(f *excelize.File) *Workbook {
	wb := &Workbook{file: f}
	for _, name := range f.GetSheetList() {
		wb.sheets = append(wb.sheets, newSheet(wb, name))
	}
	return wb
}

// File exposes the underlying excelize document.
func (wb *Workbook) File() *excelize.File {
	return wb.file
}

// SheetCount returns the number of worksheets.
func (wb *Workbook) SheetCount() int {
	return len(wb.sheets)
}

// SheetAt returns the worksheet at the 0-based index, appending sheets as
// needed so that the index exists.
func (wb *Workbook) SheetAt(index int) (*Sheet, error) {
	if index < 0 {
		return nil, fmt.Errorf("sheet index %d out of range", index)
	}
	for len(wb.sheets) <= index {
		name := wb.freeSheetName(len(wb.sheets) + 1)
		if _, err := wb.file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		wb.sheets = append(wb.sheets, newSheet(wb, name))
	}
	return wb.sheets[index], nil
}

// SheetByName returns the worksheet with the given title.
func (wb *Workbook) SheetByName(name string) (*Sheet, bool) {
	for _, s := range wb.sheets {
		if strings.EqualFold(s.name, name) {
			return s, true
		}
	}
	return nil, false
}

// SetActive makes the sheet at the 0-based index the active one.
func (wb *Workbook) SetActive(index int) error {
	if index < 0 || index >= len(wb.sheets) {
		return fmt.Errorf("sheet index %d out of range", index)
	}
	idx, err := wb.file.GetSheetIndex(wb.sheets[index].name)
	if err != nil {
		return err
	}
	wb.file.SetActiveSheet(idx)
	return nil
}

// SetDefaultFont changes the font family of the workbook's default style.
func (wb *Workbook) SetDefaultFont(family string) error {
	if family == "" {
		return nil
	}
	return wb.file.SetDefaultFont(family)
}

// WriteTo writes the workbook as XLSX, sizing auto-size columns first.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	if err := wb.fitColumns(); err != nil {
		return 0, err
	}
	return wb.file.WriteTo(w)
}

// Bytes returns the workbook encoded as XLSX.
func (wb *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.fitColumns(); err != nil {
		return err
	}
	return wb.file.SaveAs(path)
}

func (wb *Workbook) Close() error {
	return wb.file.Close()
}

func (wb *Workbook) freeSheetName(n int) string {
	for ; ; n++ {
		name := fmt.Sprintf("Sheet%d", n)
		if _, ok := wb.SheetByName(name); !ok {
			return name
		}
	}
}

func (wb *Workbook) fitColumns() error {
	for _, s := range wb.sheets {
		if err := s.fitColumns(); err != nil {
			return fmt.Errorf("sheet %q: %w", s.name, err)
		}
	}
	return nil
}

// Sheet is a single worksheet of a Workbook. It implements Worksheet.
type Sheet struct {
	wb       *Workbook
	name     string
	heights  map[int]float64
	autoSize map[int]bool
	highest  int
}

var _ Worksheet = (*Sheet)(nil)

func newSheet(wb *Workbook, name string) *Sheet {
	s := &Sheet{
		wb:       wb,
		name:     name,
		heights:  make(map[int]float64),
		autoSize: make(map[int]bool),
	}
	if rows, err := wb.file.GetRows(name); err == nil {
		s.highest = len(rows)
	}
	return s
}

func (s *Sheet) Title() string {
	return s.name
}

func (s *Sheet) SetTitle(name string) error {
	if name == "" || name == s.name {
		return nil
	}
	if err := s.wb.file.SetSheetName(s.name, name); err != nil {
		return fmt.Errorf("rename sheet %q: %w", s.name, err)
	}
	s.name = name
	return nil
}

// SetCellValue writes value; richtext.RichText values become rich-text
// cells.
func (s *Sheet) SetCellValue(col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case richtext.RichText:
		err = s.wb.file.SetCellRichText(s.name, cell, toExcelRuns(v))
	case *richtext.RichText:
		if v == nil {
			err = s.wb.file.SetCellValue(s.name, cell, nil)
		} else {
			err = s.wb.file.SetCellRichText(s.name, cell, toExcelRuns(*v))
		}
	default:
		err = s.wb.file.SetCellValue(s.name, cell, value)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	s.touch(row)
	return nil
}

func (s *Sheet) FormattedValue(col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return s.wb.file.GetCellValue(s.name, cell)
}

// CellRichText returns the runs of a rich-text cell. Plain cells yield a
// single unstyled run.
func (s *Sheet) CellRichText(col, row int) (richtext.RichText, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return richtext.RichText{}, err
	}
	return cellRichText(s.wb.file, s.name, cell)
}

func (s *Sheet) MergeCells(col1, row1, col2, row2 int) error {
	from, to, err := rangeNames(col1, row1, col2, row2)
	if err != nil {
		return err
	}
	if err := s.wb.file.MergeCell(s.name, from, to); err != nil {
		return fmt.Errorf("merge %s:%s: %w", from, to, err)
	}
	s.touch(row2)
	return nil
}

func (s *Sheet) RowHeight(row int) (float64, bool) {
	h, ok := s.heights[row]
	return h, ok
}

// SetRowHeight clamps height to the format's maximum row height.
func (s *Sheet) SetRowHeight(row int, height float64) error {
	if height > excelize.MaxRowHeight {
		height = excelize.MaxRowHeight
	}
	if err := s.wb.file.SetRowHeight(s.name, row, height); err != nil {
		return fmt.Errorf("row %d height: %w", row, err)
	}
	s.heights[row] = height
	return nil
}

func (s *Sheet) SetColumnWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if width > excelize.MaxColumnWidth {
		width = excelize.MaxColumnWidth
	}
	delete(s.autoSize, col)
	return s.wb.file.SetColWidth(s.name, name, name, width)
}

// SetColumnAutoSize marks col to be sized from its content when the
// workbook is written.
func (s *Sheet) SetColumnAutoSize(col int) error {
	if _, err := excelize.ColumnNumberToName(col); err != nil {
		return err
	}
	s.autoSize[col] = true
	return nil
}

// AutoSized reports whether col is sized from its content.
func (s *Sheet) AutoSized(col int) bool {
	return s.autoSize[col]
}

func (s *Sheet) ApplyStyle(col1, row1, col2, row2 int, style *excelize.Style) error {
	if style == nil {
		return nil
	}
	merged := make(map[int]int)
	for row := row1; row <= row2; row++ {
		for col := col1; col <= col2; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			current, err := s.wb.file.GetCellStyle(s.name, cell)
			if err != nil {
				return fmt.Errorf("style of %s: %w", cell, err)
			}
			id, ok := merged[current]
			if !ok {
				base, err := s.wb.file.GetStyle(current)
				if err != nil {
					return fmt.Errorf("style %d: %w", current, err)
				}
				if id, err = s.wb.file.NewStyle(mergeStyle(base, style)); err != nil {
					return fmt.Errorf("new style for %s: %w", cell, err)
				}
				merged[current] = id
			}
			if err := s.wb.file.SetCellStyle(s.name, cell, cell, id); err != nil {
				return fmt.Errorf("apply style to %s: %w", cell, err)
			}
		}
	}
	return nil
}

func (s *Sheet) SetNumberFormat(col1, row1, col2, row2 int, code string) error {
	if code == "" {
		return nil
	}
	return s.ApplyStyle(col1, row1, col2, row2, &excelize.Style{CustomNumFmt: &code})
}

func (s *Sheet) SetConditionalStyle(col1, row1, col2, row2 int, rules []excelize.ConditionalFormatOptions) error {
	if len(rules) == 0 {
		return nil
	}
	from, to, err := rangeNames(col1, row1, col2, row2)
	if err != nil {
		return err
	}
	if err := s.wb.file.SetConditionalFormat(s.name, from+":"+to, rules); err != nil {
		return fmt.Errorf("conditional format %s:%s: %w", from, to, err)
	}
	return nil
}

func (s *Sheet) FreezePanes(col, row int) error {
	if col <= 1 && row <= 1 {
		return nil
	}
	topLeft, err := excelize.CoordinatesToCellName(max(col, 1), max(row, 1))
	if err != nil {
		return err
	}
	pane := "bottomRight"
	switch {
	case col <= 1:
		pane = "bottomLeft"
	case row <= 1:
		pane = "topRight"
	}
	return s.wb.file.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		XSplit:      max(col-1, 0),
		YSplit:      max(row-1, 0),
		TopLeftCell: topLeft,
		ActivePane:  pane,
		Selection:   []excelize.Selection{{SQRef: topLeft, ActiveCell: topLeft, Pane: pane}},
	})
}

func (s *Sheet) SetShowGridlines(show bool) error {
	return s.wb.file.SetSheetView(s.name, 0, &excelize.ViewOptions{ShowGridLines: &show})
}

// AddImage anchors img at the cell with pixel offsets.
func (s *Sheet) AddImage(col, row int, img Image, offsetX, offsetY int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	err = s.wb.file.AddPictureFromBytes(s.name, cell, &excelize.Picture{
		Extension: img.Format.Extension(),
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			OffsetX: offsetX,
			OffsetY: offsetY,
		},
	})
	if err != nil {
		return fmt.Errorf("picture at %s: %w", cell, err)
	}
	return nil
}

// Images returns the pictures anchored at the cell.
func (s *Sheet) Images(col, row int) ([]excelize.Picture, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	return s.wb.file.GetPictures(s.name, cell)
}

func (s *Sheet) HighestRow() int {
	return s.highest
}

func (s *Sheet) touch(row int) {
	if row > s.highest {
		s.highest = row
	}
}

func (s *Sheet) fitColumns() error {
	if len(s.autoSize) == 0 {
		return nil
	}
	cols, err := s.wb.file.GetCols(s.name)
	if err != nil {
		return err
	}
	for col := range s.autoSize {
		if col > len(cols) {
			continue
		}
		width := 0
		for _, value := range cols[col-1] {
			for _, line := range strings.Split(value, "\n") {
				width = max(width, runewidth.StringWidth(line))
			}
		}
		if width == 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := s.wb.file.SetColWidth(s.name, name, name, min(float64(width)+2, excelize.MaxColumnWidth)); err != nil {
			return err
		}
	}
	return nil
}

func rangeNames(col1, row1, col2, row2 int) (string, string, error) {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return "", "", err
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func toExcelRuns(rt richtext.RichText) []excelize.RichTextRun {
	runs := make([]excelize.RichTextRun, 0, len(rt.Runs))
	for _, run := range rt.Runs {
		r := excelize.RichTextRun{Text: run.Text}
		if !run.Style.IsZero() {
			r.Font = &excelize.Font{
				Bold:      run.Style.Bold,
				Italic:    run.Style.Italic,
				Underline: run.Style.Underline,
				Color:     run.Style.Color,
			}
		}
		runs = append(runs, r)
	}
	return runs
}

func fromExcelRuns(runs []excelize.RichTextRun) richtext.RichText {
	var rt richtext.RichText
	for _, r := range runs {
		run := richtext.TextRun{Text: r.Text}
		if r.Font != nil {
			run.Style = richtext.Style{
				Bold:      r.Font.Bold,
				Italic:    r.Font.Italic,
				Underline: r.Font.Underline,
				Color:     strings.ToUpper(normalizeColor(r.Font.Color)),
			}
		}
		rt.Runs = append(rt.Runs, run)
	}
	return rt
}

func cellRichText(f *excelize.File, sheet, cell string) (richtext.RichText, error) {
	runs, err := f.GetCellRichText(sheet, cell)
	if err != nil {
		return richtext.RichText{}, err
	}
	if len(runs) > 0 {
		return fromExcelRuns(runs), nil
	}
	value, err := f.GetCellValue(sheet, cell)
	if err != nil {
		return richtext.RichText{}, err
	}
	return richtext.New(richtext.TextRun{Text: value}), nil
}

// normalizeColor converts an 8-digit ARGB hex to a 6-digit RGB string.
func normalizeColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		return hex[2:]
	}
	return hex
}
