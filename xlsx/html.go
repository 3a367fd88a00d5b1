package xlsx

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/aerissecure/sheetbuilder/richtext"
)

type renderer struct {
	conv  *richtext.HTMLConverter
	log   *zap.Logger
	debug bool
}

// Option configures RenderWorkbookHTML.
type Option func(*renderer)

// WithConverter sets the converter used for cell text and rich-text runs.
func WithConverter(conv *richtext.HTMLConverter) Option {
	return func(r *renderer) {
		if conv != nil {
			r.conv = conv
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(r *renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithDebug adds a data-style attribute holding the resolved cell style to
// every cell.
func WithDebug(debug bool) Option {
	return func(r *renderer) {
		r.debug = debug
	}
}

// RenderWorkbookHTML converts the model into an HTML document fragment: a
// shared <style> block followed by one table per sheet.
func RenderWorkbookHTML(m WorkbookModel, opts ...Option) string {
	r := &renderer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.conv == nil {
		r.conv = richtext.NewHTMLConverter(richtext.WithLogger(r.log))
	}
	r.log = r.log.Named("preview")
	return r.render(m)
}

func (r *renderer) render(m WorkbookModel) string {
	var builder strings.Builder

	// 1. Collect unique cell styles and count declarations
	classes := make(map[CellStyle]string)
	var styleList []CellStyle
	counts := make(map[richtext.Declaration]int)
	var seen []richtext.Declaration
	styledCells := 0

	for _, sheet := range m.Sheets {
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				if cell == nil {
					continue
				}
				styledCells++
				for _, d := range cssFor(cell.Style).Declarations() {
					if counts[d] == 0 {
						seen = append(seen, d)
					}
					counts[d]++
				}
				if _, ok := classes[cell.Style]; !ok {
					classes[cell.Style] = fmt.Sprintf("cellstyle%d", len(styleList)+1)
					styleList = append(styleList, cell.Style)
				}
			}
		}
	}

	// 2. Declarations shared by most cells move to the td rule
	var defaults richtext.StyleMap
	for _, d := range seen {
		if counts[d] > styledCells/2 {
			defaults.Set(d.Property, d.Value)
		}
	}
	td := richtext.NewStyleMap("padding", "4px 8px")
	td.Merge(defaults)
	if _, ok := defaults.Get("border"); !ok {
		td.Set("border", "1px solid #333")
	}

	// 3. Basic CSS
	builder.WriteString("<style>\n")
	builder.WriteString(".table { border-collapse: collapse; table-layout: fixed; margin-bottom: 2em; }\n")
	builder.WriteString(fmt.Sprintf(".table td { %s }\n", td))
	builder.WriteString(".sheet { margin-bottom: 2em; }\n")

	// 4. Cell style classes carry only what differs from the defaults
	for _, style := range styleList {
		var diff richtext.StyleMap
		for _, d := range cssFor(style).Declarations() {
			if !defaults.Has(d.Property, d.Value) {
				diff.Set(d.Property, d.Value)
			}
		}
		if diff.Len() > 0 {
			builder.WriteString(fmt.Sprintf(".%s { %s }\n", classes[style], diff))
		}
	}
	builder.WriteString("</style>\n")

	for _, sheet := range m.Sheets {
		r.renderSheet(&builder, sheet, classes)
	}
	return builder.String()
}

func (r *renderer) renderSheet(builder *strings.Builder, sheet RenderSheet, classes map[CellStyle]string) {
	totalPx := 0.0
	for _, w := range sheet.ColWidths {
		totalPx += w
	}
	builder.WriteString(fmt.Sprintf("<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(sheet.Name)))
	builder.WriteString("<div style=\"width:100%;overflow-x:auto;\">\n")
	builder.WriteString(fmt.Sprintf("<table class=\"table\" style=\"width:%.0fpx;\">\n", totalPx))
	builder.WriteString("  <colgroup>\n")
	for i, w := range sheet.ColWidths {
		style := fmt.Sprintf(" style=\"width:%.0fpx;\"", w)
		if sheet.ColHidden[i] {
			style = " style=\"display:none;\""
		}
		builder.WriteString(fmt.Sprintf("    <col%s>\n", style))
	}
	builder.WriteString("  </colgroup>\n")

	for rowIdx, row := range sheet.Rows {
		rowStyle := fmt.Sprintf("height:%.0fpx;", row.HeightPx)
		if row.Hidden {
			rowStyle += "display:none;"
		}
		builder.WriteString(fmt.Sprintf("  <tr style=\"%s\">\n", rowStyle))
		for colIdx := 0; colIdx < len(row.Cells); colIdx++ {
			cell := row.Cells[colIdx]
			if cell == nil {
				if !coveredBySpan(sheet, rowIdx, colIdx) {
					builder.WriteString("    <td></td>\n")
				}
				continue
			}

			attrs := ""
			if cell.ColSpan > 1 {
				attrs += fmt.Sprintf(" colspan=\"%d\"", cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				attrs += fmt.Sprintf(" rowspan=\"%d\"", cell.RowSpan)
			}
			if r.debug {
				attrs += fmt.Sprintf(" data-style=\"%s\"", html.EscapeString(cell.Style.String()))
			}

			var content string
			if cell.Rich() {
				content = r.conv.ToHTML(cell.Runs)
			} else {
				content = r.conv.ToHTML(html.EscapeString(cell.Value))
			}
			builder.WriteString(fmt.Sprintf("    <td data-cell=\"%s\"%s class=\"%s\">%s</td>\n",
				cell.Ref, attrs, classes[cell.Style], content))

			// columns covered by the colspan get no cell of their own
			if cell.ColSpan > 1 {
				colIdx += cell.ColSpan - 1
			}
		}
		builder.WriteString("  </tr>\n")
	}
	builder.WriteString("</table>\n</div>\n</div>\n")
	r.log.Debug("sheet rendered", zap.String("sheet", sheet.Name), zap.Int("rows", len(sheet.Rows)))
}

// coveredBySpan reports whether the blank slot lies under a rowspan started
// in an earlier row.
func coveredBySpan(sheet RenderSheet, rowIdx, colIdx int) bool {
	for up := rowIdx - 1; up >= 0; up-- {
		for c, cell := range sheet.Rows[up].Cells {
			if cell == nil || cell.RowSpan <= 1 {
				continue
			}
			if up+cell.RowSpan > rowIdx && c <= colIdx && colIdx < c+cell.ColSpan {
				return true
			}
		}
	}
	return false
}

// cssFor converts a cell style to CSS declarations.
func cssFor(s CellStyle) richtext.StyleMap {
	var m richtext.StyleMap
	if s.FontFamily != "" {
		m.Set("font-family", fmt.Sprintf("'%s'", s.FontFamily))
	}
	if s.FontSizePt > 0 {
		m.Set("font-size", fmt.Sprintf("%.1fpt", s.FontSizePt))
	}
	if s.FontColor != "" {
		m.Set("color", "#"+s.FontColor)
	}
	if s.Bold {
		m.Set("font-weight", "bold")
	} else {
		m.Set("font-weight", "normal")
	}
	if s.Italic {
		m.Set("font-style", "italic")
	} else {
		m.Set("font-style", "normal")
	}
	if s.Underline {
		m.Set("text-decoration", "underline")
	} else {
		m.Set("text-decoration", "none")
	}
	if s.BackgroundColor != "" {
		m.Set("background-color", "#"+s.BackgroundColor)
	}
	if s.BorderColor != "" {
		m.Set("border", "1px solid #"+s.BorderColor)
	} else {
		m.Set("border", "1px solid #333")
	}
	switch s.HorizontalAlign {
	case "center", "centerContinuous", "distributed":
		m.Set("text-align", "center")
	case "right":
		m.Set("text-align", "right")
	case "justify":
		m.Set("text-align", "justify")
	default:
		m.Set("text-align", "left")
	}
	switch s.VerticalAlign {
	case "top", "middle":
		m.Set("vertical-align", s.VerticalAlign)
	default:
		m.Set("vertical-align", "bottom")
	}
	if s.WrapText {
		m.Set("white-space", "normal")
	} else {
		m.Set("white-space", "nowrap")
		m.Set("overflow", "hidden")
	}
	if s.IndentPx > 0 {
		side := "padding-left"
		if s.HorizontalAlign == "right" {
			side = "padding-right"
		}
		m.Set(side, fmt.Sprintf("%.0fpx", s.IndentPx))
	}
	return m
}
