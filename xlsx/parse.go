package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/aerissecure/sheetbuilder/richtext"
)

const (
	pxPerChar       = 8.3
	defaultColChars = 8.43
	pxPerPt         = 1.333
	defaultRowPt    = 15.0
	pxPerIndent     = 8.0
)

type span struct {
	rows, cols int
}

// ParseWorkbookModel reads an XLSX from r/size and returns its preview
// model.
func ParseWorkbookModel(r io.ReaderAt, size int64) (WorkbookModel, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return WorkbookModel{}, fmt.Errorf("read workbook: %w", err)
	}

	var model WorkbookModel
	for _, sheet := range wb.Sheets() {
		model.Sheets = append(model.Sheets, parseSheet(wb, sheet))
	}
	return model, nil
}

func parseSheet(wb *spreadsheet.Workbook, sheet spreadsheet.Sheet) RenderSheet {
	masters := make(map[[2]int]span)
	covered := make(map[[2]int]bool)
	maxCols := 0

	if sheet.X().MergeCells != nil {
		for _, mc := range sheet.X().MergeCells.MergeCell {
			from, to, err := reference.ParseRangeReference(mc.RefAttr)
			if err != nil {
				continue
			}
			fromRow, fromCol := int(from.RowIdx)-1, int(from.ColumnIdx)
			toRow, toCol := int(to.RowIdx)-1, int(to.ColumnIdx)
			masters[[2]int{fromRow, fromCol}] = span{rows: toRow - fromRow + 1, cols: toCol - fromCol + 1}
			for r := fromRow; r <= toRow; r++ {
				for c := fromCol; c <= toCol; c++ {
					if r != fromRow || c != fromCol {
						covered[[2]int{r, c}] = true
					}
				}
			}
			maxCols = max(maxCols, toCol+1)
		}
	}

	rows := sheet.Rows()
	for _, row := range rows {
		for _, cell := range row.Cells() {
			name, err := cell.Column()
			if err != nil {
				continue
			}
			maxCols = max(maxCols, int(reference.ColumnToIndex(name))+1)
		}
	}

	rs := RenderSheet{
		Name:      sheet.Name(),
		ColWidths: make([]float64, maxCols),
		ColHidden: make([]bool, maxCols),
	}
	for c := 0; c < maxCols; c++ {
		col := sheet.Column(uint32(c + 1)).X()
		if col.CustomWidthAttr != nil && *col.CustomWidthAttr && col.WidthAttr != nil {
			rs.ColWidths[c] = *col.WidthAttr * pxPerChar
		} else {
			rs.ColWidths[c] = defaultColChars * pxPerChar
		}
		if col.HiddenAttr != nil {
			rs.ColHidden[c] = *col.HiddenAttr
		}
	}

	for _, row := range rows {
		rowIdx := int(row.RowNumber()) - 1
		if rowIdx >= len(rs.Rows) {
			rs.Rows = append(rs.Rows, make([]RenderRow, rowIdx-len(rs.Rows)+1)...)
		}
		rr := &rs.Rows[rowIdx]
		rr.Cells = make([]*RenderCell, maxCols)
		rr.Hidden = row.IsHidden()
		rr.HeightPx = defaultRowPt * pxPerPt
		if row.X().CustomHeightAttr != nil && *row.X().CustomHeightAttr && row.X().HtAttr != nil {
			rr.HeightPx = *row.X().HtAttr * pxPerPt
		}

		for _, cell := range row.Cells() {
			name, err := cell.Column()
			if err != nil {
				continue
			}
			colIdx := int(reference.ColumnToIndex(name))
			if covered[[2]int{rowIdx, colIdx}] {
				continue
			}
			rc := &RenderCell{
				Ref:     fmt.Sprintf("%s%d", name, rowIdx+1),
				Value:   cell.GetFormattedValue(),
				Runs:    cellRuns(wb, cell),
				ColSpan: 1,
				RowSpan: 1,
			}
			if cell.X().SAttr != nil {
				rc.Style = cellStyle(wb, *cell.X().SAttr)
			}
			if s, ok := masters[[2]int{rowIdx, colIdx}]; ok {
				rc.RowSpan, rc.ColSpan = s.rows, s.cols
			}
			rr.Cells[colIdx] = rc
		}
	}

	// rows without any stored cell still need their column slots
	for i := range rs.Rows {
		if rs.Rows[i].Cells == nil {
			rs.Rows[i].Cells = make([]*RenderCell, maxCols)
			rs.Rows[i].HeightPx = defaultRowPt * pxPerPt
		}
	}
	return rs
}

func cellStyle(wb *spreadsheet.Workbook, styleID uint32) CellStyle {
	var st CellStyle
	ss := wb.StyleSheet
	xf := cellXf(ss, styleID)
	if xf == nil {
		return st
	}

	if font := fontProps(ss, xf); font != nil {
		if len(font.Name) > 0 {
			st.FontFamily = font.Name[0].ValAttr
		}
		if len(font.Sz) > 0 {
			st.FontSizePt = font.Sz[0].ValAttr
		}
		if len(font.Color) > 0 {
			st.FontColor = colorOf(wb, font.Color[0])
		}
		st.Bold = len(font.B) > 0 && enabled(font.B[0])
		st.Italic = len(font.I) > 0 && enabled(font.I[0])
		st.Underline = len(font.U) > 0 && font.U[0].ValAttr != sml.ST_UnderlineValuesNone
	}
	if fill := fillProps(ss, xf); fill != nil && fill.PatternFill != nil {
		st.BackgroundColor = colorOf(wb, fill.PatternFill.FgColor)
	}
	if border := borderProps(ss, xf); border != nil && border.Left != nil {
		st.BorderColor = colorOf(wb, border.Left.Color)
	}
	if a := xf.Alignment; a != nil {
		st.HorizontalAlign = a.HorizontalAttr.String()
		switch a.VerticalAttr.String() {
		case "top":
			st.VerticalAlign = "top"
		case "center":
			st.VerticalAlign = "middle"
		default:
			st.VerticalAlign = "bottom"
		}
		if a.WrapTextAttr != nil {
			st.WrapText = *a.WrapTextAttr
		}
		if a.IndentAttr != nil {
			st.IndentPx = float64(*a.IndentAttr) * pxPerIndent
		}
	}
	return st
}

// cellRuns returns the formatted runs of a rich-text cell, or an empty value
// for plain cells.
func cellRuns(wb *spreadsheet.Workbook, cell spreadsheet.Cell) richtext.RichText {
	x := cell.X()
	var rst *sml.CT_Rst
	switch x.TAttr {
	case sml.ST_CellTypeS:
		if x.V == nil {
			return richtext.RichText{}
		}
		id, err := strconv.Atoi(*x.V)
		if err != nil {
			return richtext.RichText{}
		}
		items := wb.SharedStrings.X().Si
		if id < 0 || id >= len(items) {
			return richtext.RichText{}
		}
		rst = items[id]
	case sml.ST_CellTypeInlineStr:
		rst = x.Is
	}
	if rst == nil || len(rst.R) == 0 {
		return richtext.RichText{}
	}

	var rt richtext.RichText
	for _, r := range rst.R {
		run := richtext.TextRun{Text: r.T}
		if p := r.RPr; p != nil {
			run.Style.Bold = enabled(p.B)
			run.Style.Italic = enabled(p.I)
			if p.U != nil {
				switch u := p.U.ValAttr; u {
				case sml.ST_UnderlineValuesNone:
				case sml.ST_UnderlineValuesDouble, sml.ST_UnderlineValuesDoubleAccounting:
					run.Style.Underline = richtext.UnderlineDouble
				default:
					run.Style.Underline = richtext.UnderlineSingle
				}
			}
			run.Style.Color = colorOf(wb, p.Color)
		}
		rt.Runs = append(rt.Runs, run)
	}
	return rt
}
