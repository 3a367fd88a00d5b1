package sheetbuilder

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultHeaderHeight = 50
	defaultCellPadding  = 5
)

// TableLayout describes a table worksheet for a data slice.
type TableLayout interface {
	WorksheetTitle(data []any) string
	TableTitle(data []any) string
	Columns(data []any) []Column
}

// StaticLayout is a TableLayout with fixed titles and columns.
type StaticLayout struct {
	Name  string
	Title string
	Cols  []Column
}

func (l StaticLayout) WorksheetTitle([]any) string { return l.Name }
func (l StaticLayout) TableTitle([]any) string     { return l.Title }
func (l StaticLayout) Columns([]any) []Column      { return l.Cols }

// TableBuilder writes a title, a header row and one row per data item into a
// worksheet. A TableBuilder is not safe for concurrent use of the same
// worksheet, but all per-build state lives in the Build call.
type TableBuilder struct {
	layout       TableLayout
	firstRow     int
	headerHeight float64
	cellPadding  int
	styles       Styles
	log          *zap.Logger
}

// TableOption configures a TableBuilder.
type TableOption func(*TableBuilder)

// WithFirstRow sets the header row number. A value above 1 leaves room for
// the table title.
func WithFirstRow(row int) TableOption {
	return func(b *TableBuilder) {
		if row >= 1 {
			b.firstRow = row
		}
	}
}

func WithHeaderHeight(height float64) TableOption {
	return func(b *TableBuilder) {
		if height > 0 {
			b.headerHeight = height
		}
	}
}

// WithCellPadding sets the offset of embedded pictures inside their cell.
func WithCellPadding(padding int) TableOption {
	return func(b *TableBuilder) {
		if padding >= 0 {
			b.cellPadding = padding
		}
	}
}

func WithStyles(styles Styles) TableOption {
	return func(b *TableBuilder) {
		b.styles = styles
	}
}

func WithTableLogger(log *zap.Logger) TableOption {
	return func(b *TableBuilder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewTableBuilder returns a builder for layout.
func NewTableBuilder(layout TableLayout, opts ...TableOption) *TableBuilder {
	b := &TableBuilder{
		layout:       layout,
		firstRow:     1,
		headerHeight: defaultHeaderHeight,
		cellPadding:  defaultCellPadding,
		styles:       DefaultStyles(),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.Named("table")
	return b
}

// WorksheetTitle implements WorksheetBuilder.
func (b *TableBuilder) WorksheetTitle(data []any) string {
	return b.layout.WorksheetTitle(data)
}

// buildContext is owned by a single Build call.
type buildContext struct {
	ws      Worksheet
	data    []any
	columns []Column
	row     int
	images  pendingImages
}

// Build validates the layout, names the worksheet and writes the table.
// Nothing is written when the layout yields no columns.
func (b *TableBuilder) Build(ws Worksheet, data []any) error {
	_, err := b.BuildTable(ws, data)
	return err
}

// BuildTable is Build returning the number of the last row written.
func (b *TableBuilder) BuildTable(ws Worksheet, data []any) (int, error) {
	columns := b.layout.Columns(data)
	if len(columns) == 0 {
		return 0, ErrEmptyColumns
	}

	ctx := &buildContext{
		ws:      ws,
		data:    data,
		columns: columns,
		images:  make(pendingImages),
	}
	// pending pictures never outlive the build
	defer clear(ctx.images)

	if err := ws.SetTitle(b.layout.WorksheetTitle(data)); err != nil {
		return 0, err
	}
	if err := b.buildTitle(ctx); err != nil {
		return 0, err
	}
	return b.buildTable(ctx)
}

func (b *TableBuilder) buildTitle(ctx *buildContext) error {
	title := b.layout.TableTitle(ctx.data)
	if b.firstRow <= 1 || title == "" {
		return nil
	}
	row := b.firstRow - 1
	if err := ctx.ws.SetCellValue(1, row, title); err != nil {
		return err
	}
	if len(ctx.columns) > 1 {
		if err := ctx.ws.MergeCells(1, row, len(ctx.columns), row); err != nil {
			return err
		}
	}
	return ctx.ws.ApplyStyle(1, row, 1, row, b.styles.Title)
}

func (b *TableBuilder) buildTable(ctx *buildContext) (int, error) {
	ws := ctx.ws
	if err := ws.SetShowGridlines(false); err != nil {
		return 0, err
	}

	if err := b.buildHeader(ctx); err != nil {
		return 0, err
	}
	headerRow := b.firstRow
	firstDataRow := headerRow + 1
	ctx.row = firstDataRow

	if err := ws.FreezePanes(1, firstDataRow); err != nil {
		return 0, err
	}

	for _, item := range ctx.data {
		for i, column := range ctx.columns {
			col := i + 1
			value := column.Value.At(item, col, ctx.row)
			if s, ok := value.(string); ok {
				value = b.extractImage(ctx, s, col)
			}
			if err := ws.SetCellValue(col, ctx.row, value); err != nil {
				return 0, err
			}
			if err := b.placeImage(ctx, col); err != nil {
				return 0, err
			}
		}
		ctx.row++
	}
	lastRow := ctx.row - 1

	if lastRow >= firstDataRow {
		for i, column := range ctx.columns {
			if err := b.applyColumnStyle(ctx, column, i+1, firstDataRow, lastRow); err != nil {
				return 0, err
			}
		}
	}

	if err := ws.ApplyStyle(1, headerRow, len(ctx.columns), lastRow, b.styles.Cell); err != nil {
		return 0, err
	}

	b.log.Debug("table built",
		zap.String("sheet", ws.Title()),
		zap.Int("columns", len(ctx.columns)),
		zap.Int("rows", lastRow-headerRow),
	)
	return lastRow, nil
}

func (b *TableBuilder) buildHeader(ctx *buildContext) error {
	ws := ctx.ws
	row := b.firstRow
	if err := ws.SetRowHeight(row, b.headerHeight); err != nil {
		return err
	}
	for i, column := range ctx.columns {
		col := i + 1
		var err error
		if column.Width > 0 {
			err = ws.SetColumnWidth(col, column.Width)
		} else {
			err = ws.SetColumnAutoSize(col)
		}
		if err != nil {
			return err
		}
	}

	if err := ws.ApplyStyle(1, row, len(ctx.columns), row, b.styles.Header); err != nil {
		return err
	}
	for i, column := range ctx.columns {
		if err := ws.SetCellValue(i+1, row, column.Title); err != nil {
			return err
		}
	}
	return nil
}

// extractImage records the first embedded picture of content for the
// current cell and returns content without its <img> tag.
func (b *TableBuilder) extractImage(ctx *buildContext, content string, col int) string {
	if !strings.Contains(strings.ToLower(content), "<img") {
		return content
	}
	stripped, img, err := ExtractImage(content)
	if err != nil {
		b.log.Debug("embedded image skipped", zap.Int("col", col), zap.Int("row", ctx.row), zap.Error(err))
		return stripped
	}
	if img != nil {
		ctx.images[cellKey{col: col, row: ctx.row}] = *img
	}
	return stripped
}

// placeImage anchors the pending picture of the current cell below any
// content already placed in the row and grows the row to fit it.
func (b *TableBuilder) placeImage(ctx *buildContext, col int) error {
	key := cellKey{col: col, row: ctx.row}
	img, ok := ctx.images[key]
	if !ok {
		return nil
	}
	delete(ctx.images, key)

	offset := float64(b.cellPadding)
	if height, set := ctx.ws.RowHeight(ctx.row); set && height > 0 {
		offset += height
	}
	if err := ctx.ws.AddImage(col, ctx.row, img, b.cellPadding, int(offset)); err != nil {
		return err
	}
	height := offset + float64(img.Height)
	if height > excelize.MaxRowHeight {
		b.log.Debug("row height clamped, picture overflows its row",
			zap.Int("col", col),
			zap.Int("row", ctx.row),
			zap.Float64("height", height),
			zap.Float64("max", float64(excelize.MaxRowHeight)),
		)
	}
	return ctx.ws.SetRowHeight(ctx.row, height)
}

func (b *TableBuilder) applyColumnStyle(ctx *buildContext, column Column, col, fromRow, toRow int) error {
	ws := ctx.ws
	if !column.Style.IsZero() {
		style, err := column.Style.For(col)
		if err != nil {
			return fmt.Errorf("column %q: %w", column.Title, err)
		}
		if err := ws.ApplyStyle(col, fromRow, col, toRow, style); err != nil {
			return err
		}
	}
	if column.NumberFormat != "" {
		if err := ws.SetNumberFormat(col, fromRow, col, toRow, column.NumberFormat); err != nil {
			return err
		}
	}
	if len(column.ConditionalStyle) > 0 {
		if err := ws.SetConditionalStyle(col, fromRow, col, toRow, column.ConditionalStyle); err != nil {
			return err
		}
	}
	return nil
}
