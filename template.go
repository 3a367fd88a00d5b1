package sheetbuilder

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetbuilder/richtext"
)

const defaultRowHeight = 15

var placeholderRe = regexp.MustCompile(`(?i)\{([a-z_-]*)\}`)

// TemplateBuilder copies a cell range of a template worksheet into the target
// worksheet, replacing {placeholder} tokens with values from the data.
type TemplateBuilder struct {
	template *excelize.File
	sheet    string
	title    string
	fromCol  int
	fromRow  int
	toCol    int
	toRow    int
	log      *zap.Logger
}

// TemplateOption configures a TemplateBuilder.
type TemplateOption func(*TemplateBuilder)

// WithWorksheetTitle sets the title of the produced worksheet. It defaults
// to the template sheet name.
func WithWorksheetTitle(title string) TemplateOption {
	return func(b *TemplateBuilder) {
		b.title = title
	}
}

func WithTemplateLogger(log *zap.Logger) TemplateOption {
	return func(b *TemplateBuilder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewTemplateBuilder loads the template workbook from r. cellRange bounds the
// copied cells, e.g. "A1:Z30".
func NewTemplateBuilder(r io.Reader, sheet, cellRange string, opts ...TemplateOption) (*TemplateBuilder, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("template sheet %q not found", sheet)
	}

	from, to, ok := strings.Cut(cellRange, ":")
	if !ok {
		to = from
	}
	b := &TemplateBuilder{template: f, sheet: sheet, title: sheet, log: zap.NewNop()}
	if b.fromCol, b.fromRow, err = excelize.CellNameToCoordinates(from); err != nil {
		return nil, fmt.Errorf("template range %q: %w", cellRange, err)
	}
	if b.toCol, b.toRow, err = excelize.CellNameToCoordinates(to); err != nil {
		return nil, fmt.Errorf("template range %q: %w", cellRange, err)
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.Named("template")
	return b, nil
}

func (b *TemplateBuilder) WorksheetTitle([]any) string {
	return b.title
}

// Build copies values, rich text, styles, merges and dimensions of the
// template range. Map items of data supply placeholder values; later items
// win.
func (b *TemplateBuilder) Build(ws Worksheet, data []any) error {
	values := make(map[string]any)
	for _, item := range data {
		if m, ok := item.(map[string]any); ok {
			for k, v := range m {
				values[k] = v
			}
		}
	}

	if err := ws.SetTitle(b.title); err != nil {
		return err
	}
	if err := b.copyDimensions(ws); err != nil {
		return err
	}
	for row := b.fromRow; row <= b.toRow; row++ {
		for col := b.fromCol; col <= b.toCol; col++ {
			if err := b.copyCell(ws, col, row, values); err != nil {
				return err
			}
		}
	}
	return b.copyMerges(ws)
}

func (b *TemplateBuilder) copyCell(ws Worksheet, col, row int, values map[string]any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if id, err := b.template.GetCellStyle(b.sheet, cell); err == nil && id != 0 {
		style, err := b.template.GetStyle(id)
		if err != nil {
			return fmt.Errorf("template style of %s: %w", cell, err)
		}
		if err := ws.ApplyStyle(col, row, col, row, style); err != nil {
			return err
		}
	}

	rt, err := cellRichText(b.template, b.sheet, cell)
	if err != nil {
		return fmt.Errorf("template cell %s: %w", cell, err)
	}
	if isStyled(rt) {
		for i := range rt.Runs {
			rt.Runs[i].Text = substitute(rt.Runs[i].Text, values)
		}
		return ws.SetCellValue(col, row, rt)
	}

	text := rt.PlainText()
	if text == "" {
		return nil
	}
	if placeholderRe.MatchString(text) {
		return ws.SetCellValue(col, row, substitute(text, values))
	}
	return ws.SetCellValue(col, row, b.rawValue(cell, text))
}

// rawValue keeps numbers and booleans typed when copying plain cells.
func (b *TemplateBuilder) rawValue(cell, formatted string) any {
	typ, err := b.template.GetCellType(b.sheet, cell)
	if err != nil {
		return formatted
	}
	raw, err := b.template.GetCellValue(b.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return formatted
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	}
	return formatted
}

func (b *TemplateBuilder) copyDimensions(ws Worksheet) error {
	for col := b.fromCol; col <= b.toCol; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		width, err := b.template.GetColWidth(b.sheet, name)
		if err != nil {
			return err
		}
		if err := ws.SetColumnWidth(col, width); err != nil {
			return err
		}
	}
	for row := b.fromRow; row <= b.toRow; row++ {
		height, err := b.template.GetRowHeight(b.sheet, row)
		if err != nil {
			return err
		}
		if height != defaultRowHeight {
			if err := ws.SetRowHeight(row, height); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *TemplateBuilder) copyMerges(ws Worksheet) error {
	merges, err := b.template.GetMergeCells(b.sheet)
	if err != nil {
		return err
	}
	for _, mc := range merges {
		c1, r1, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return err
		}
		c2, r2, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return err
		}
		if c1 < b.fromCol || r1 < b.fromRow || c2 > b.toCol || r2 > b.toRow {
			b.log.Debug("merge outside template range skipped", zap.String("ref", mc.GetStartAxis()+":"+mc.GetEndAxis()))
			continue
		}
		if err := ws.MergeCells(c1, r1, c2, r2); err != nil {
			return err
		}
	}
	return nil
}

func isStyled(rt richtext.RichText) bool {
	if len(rt.Runs) > 1 {
		return true
	}
	return len(rt.Runs) == 1 && !rt.Runs[0].Style.IsZero()
}

func substitute(text string, values map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		v, ok := values[token[1:len(token)-1]]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	})
}
