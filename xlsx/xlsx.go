// Package xlsx renders a read-only HTML preview of XLSX workbooks, the way
// a produced workbook looks when opened: one table per sheet with merged
// spans, dimensions, cell formatting and rich-text runs.
package xlsx

import (
	"io"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

// XLSXToHTML parses the workbook in r and renders it as an HTML preview.
func XLSXToHTML(r io.ReaderAt, size int64, opts ...Option) (string, error) {
	m, err := ParseWorkbookModel(r, size)
	if err != nil {
		return "", err
	}
	return RenderWorkbookHTML(m, opts...), nil
}

func cellXf(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Xf {
	if ss.X().CellXfs == nil || int(styleID) >= len(ss.X().CellXfs.Xf) {
		return nil
	}
	return ss.X().CellXfs.Xf[styleID]
}

func fontProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Font {
	if xf == nil || xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	idx := int(*xf.FontIdAttr)
	if idx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[idx]
}

func fillProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Fill {
	if xf == nil || xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	idx := int(*xf.FillIdAttr)
	if idx >= len(ss.X().Fills.Fill) {
		return nil
	}
	return ss.X().Fills.Fill[idx]
}

func borderProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Border {
	if xf == nil || xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	idx := int(*xf.BorderIdAttr)
	if idx >= len(ss.X().Borders.Border) {
		return nil
	}
	return ss.X().Borders.Border[idx]
}

// themeColor resolves a 0-based theme color index to "RRGGBB". Indexes 0-3
// address the light/dark pairs in bg1, tx1, bg2, tx2 order. Tint is not
// applied.
func themeColor(wb *spreadsheet.Workbook, idx int) (string, bool) {
	themes := wb.Themes()
	if len(themes) == 0 || themes[0] == nil || themes[0].ThemeElements == nil {
		return "", false
	}
	scheme := themes[0].ThemeElements.ClrScheme
	if scheme == nil {
		return "", false
	}

	var clr *dml.CT_Color
	switch idx {
	case 0:
		clr = scheme.Lt1
	case 1:
		clr = scheme.Dk1
	case 2:
		clr = scheme.Lt2
	case 3:
		clr = scheme.Dk2
	case 4:
		clr = scheme.Accent1
	case 5:
		clr = scheme.Accent2
	case 6:
		clr = scheme.Accent3
	case 7:
		clr = scheme.Accent4
	case 8:
		clr = scheme.Accent5
	case 9:
		clr = scheme.Accent6
	case 10:
		clr = scheme.Hlink
	case 11:
		clr = scheme.FolHlink
	default:
		return "", false
	}
	if clr == nil {
		return "", false
	}
	if clr.SrgbClr != nil && clr.SrgbClr.ValAttr != "" {
		return strings.ToUpper(clr.SrgbClr.ValAttr), true
	}
	if clr.SysClr != nil && clr.SysClr.LastClrAttr != nil {
		return strings.ToUpper(*clr.SysClr.LastClrAttr), true
	}
	return "", false
}

// colorOf resolves an explicit or theme color.
func colorOf(wb *spreadsheet.Workbook, c *sml.CT_Color) string {
	if c == nil {
		return ""
	}
	if c.RgbAttr != nil {
		return normalizeColor(*c.RgbAttr)
	}
	if c.ThemeAttr != nil {
		if hex, ok := themeColor(wb, int(*c.ThemeAttr)); ok {
			return hex
		}
	}
	return ""
}

// normalizeColor converts an 8-digit ARGB hex to a 6-digit RGB string.
func normalizeColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		hex = hex[2:]
	}
	return strings.ToUpper(hex)
}

// enabled reads an OOXML boolean element; a present element without a val
// attribute means true.
func enabled(p *sml.CT_BooleanProperty) bool {
	return p != nil && (p.ValAttr == nil || *p.ValAttr)
}
