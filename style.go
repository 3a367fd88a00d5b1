package sheetbuilder

import (
	"github.com/xuri/excelize/v2"
)

// Styles are the style descriptions applied to the table parts.
type Styles struct {
	Title  *excelize.Style
	Header *excelize.Style
	Cell   *excelize.Style
}

func thinBorders(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

// DefaultStyles returns a bold title, a filled bold wrapped header and
// thin-bordered cells, all left/center aligned.
func DefaultStyles() Styles {
	return Styles{
		Title: &excelize.Style{
			Font: &excelize.Font{Bold: true},
		},
		Header: &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D6DCE5"}},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
			Border:    thinBorders("000000"),
		},
		Cell: &excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
			Border:    thinBorders("000000"),
		},
	}
}

// mergeStyle overlays the set fields of overlay onto a copy of base.
// Booleans can only be switched on.
func mergeStyle(base, overlay *excelize.Style) *excelize.Style {
	var out excelize.Style
	if base != nil {
		out = *base
	}
	if overlay == nil {
		return &out
	}

	if overlay.Font != nil {
		out.Font = mergeFont(out.Font, overlay.Font)
	}
	if overlay.Fill.Type != "" {
		out.Fill = overlay.Fill
	}
	if len(overlay.Border) > 0 {
		out.Border = mergeBorders(out.Border, overlay.Border)
	}
	if overlay.Alignment != nil {
		out.Alignment = mergeAlignment(out.Alignment, overlay.Alignment)
	}
	if overlay.Protection != nil {
		p := *overlay.Protection
		out.Protection = &p
	}
	if overlay.NumFmt != 0 {
		out.NumFmt = overlay.NumFmt
	}
	if overlay.CustomNumFmt != nil {
		out.CustomNumFmt = overlay.CustomNumFmt
	}
	if overlay.DecimalPlaces != nil {
		out.DecimalPlaces = overlay.DecimalPlaces
	}
	out.NegRed = out.NegRed || overlay.NegRed
	return &out
}

func mergeFont(base, overlay *excelize.Font) *excelize.Font {
	var f excelize.Font
	if base != nil {
		f = *base
	}
	f.Bold = f.Bold || overlay.Bold
	f.Italic = f.Italic || overlay.Italic
	f.Strike = f.Strike || overlay.Strike
	if overlay.Underline != "" {
		f.Underline = overlay.Underline
	}
	if overlay.Family != "" {
		f.Family = overlay.Family
	}
	if overlay.Size != 0 {
		f.Size = overlay.Size
	}
	if overlay.Color != "" {
		f.Color = overlay.Color
		f.ColorTheme = nil
		f.ColorIndexed = 0
	}
	if overlay.VertAlign != "" {
		f.VertAlign = overlay.VertAlign
	}
	return &f
}

func mergeBorders(base, overlay []excelize.Border) []excelize.Border {
	out := make([]excelize.Border, 0, len(base)+len(overlay))
	out = append(out, base...)
	for _, b := range overlay {
		replaced := false
		for i := range out {
			if out[i].Type == b.Type {
				out[i] = b
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, b)
		}
	}
	return out
}

func mergeAlignment(base, overlay *excelize.Alignment) *excelize.Alignment {
	var a excelize.Alignment
	if base != nil {
		a = *base
	}
	if overlay.Horizontal != "" {
		a.Horizontal = overlay.Horizontal
	}
	if overlay.Vertical != "" {
		a.Vertical = overlay.Vertical
	}
	if overlay.Indent != 0 {
		a.Indent = overlay.Indent
	}
	if overlay.TextRotation != 0 {
		a.TextRotation = overlay.TextRotation
	}
	a.WrapText = a.WrapText || overlay.WrapText
	a.ShrinkToFit = a.ShrinkToFit || overlay.ShrinkToFit
	return &a
}
