package richtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type BoldConverter struct{}

func (BoldConverter) Matches(run TextRun) bool { return run.Style.Bold }

func (BoldConverter) ToStyle(TextRun) StyleMap { return NewStyleMap("font-weight", "bold") }

func (BoldConverter) MatchesHTML(tag string, style StyleMap) bool {
	if tag == "b" || tag == "strong" {
		return true
	}
	return style.Has("font-weight", "bold")
}

func (BoldConverter) Apply(run *TextRun, _ StyleMap) { run.Style.Bold = true }

type ItalicConverter struct{}

func (ItalicConverter) Matches(run TextRun) bool { return run.Style.Italic }

func (ItalicConverter) ToStyle(TextRun) StyleMap { return NewStyleMap("font-style", "italic") }

func (ItalicConverter) MatchesHTML(tag string, style StyleMap) bool {
	if tag == "em" || tag == "i" {
		return true
	}
	return style.Has("font-style", "italic")
}

func (ItalicConverter) Apply(run *TextRun, _ StyleMap) { run.Style.Italic = true }

// UnderlineConverter only handles single underlines and has no tag shortcut.
type UnderlineConverter struct{}

func (UnderlineConverter) Matches(run TextRun) bool { return run.Style.Underline == UnderlineSingle }

func (UnderlineConverter) ToStyle(TextRun) StyleMap {
	return NewStyleMap("text-decoration", "underline")
}

func (UnderlineConverter) MatchesHTML(_ string, style StyleMap) bool {
	return style.Has("text-decoration", "underline")
}

func (UnderlineConverter) Apply(run *TextRun, _ StyleMap) { run.Style.Underline = UnderlineSingle }

// ColorConverter carries the foreground colour as "color:#RRGGBB".
type ColorConverter struct{}

func (ColorConverter) Matches(run TextRun) bool { return run.Style.Color != "" }

func (ColorConverter) ToStyle(run TextRun) StyleMap {
	return NewStyleMap("color", "#"+strings.ToUpper(run.Style.Color))
}

func (ColorConverter) MatchesHTML(_ string, style StyleMap) bool {
	_, ok := style.Get("color")
	return ok
}

// Apply leaves run untouched when the colour cannot be parsed.
func (ColorConverter) Apply(run *TextRun, style StyleMap) {
	value, _ := style.Get("color")
	if rgb, ok := ParseColor(value); ok {
		run.Style.Color = rgb
	}
}

var (
	hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbColorRe = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,[^)]*)?\)$`)
)

// namedColors is the CSS basic colour keyword set plus a few extended
// keywords commonly produced by editors.
var namedColors = map[string]string{
	"black":   "000000",
	"silver":  "C0C0C0",
	"gray":    "808080",
	"grey":    "808080",
	"white":   "FFFFFF",
	"maroon":  "800000",
	"red":     "FF0000",
	"purple":  "800080",
	"fuchsia": "FF00FF",
	"green":   "008000",
	"lime":    "00FF00",
	"olive":   "808000",
	"yellow":  "FFFF00",
	"navy":    "000080",
	"blue":    "0000FF",
	"teal":    "008080",
	"aqua":    "00FFFF",
	"orange":  "FFA500",
	"brown":   "A52A2A",
	"pink":    "FFC0CB",
}

// ParseColor converts a CSS colour value (#rgb, #rrggbb, rgb(), or a basic
// keyword) to an upper-case "RRGGBB" string.
func ParseColor(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}
	if rgb, ok := namedColors[value]; ok {
		return rgb, true
	}
	if m := hexColorRe.FindStringSubmatch(value); m != nil {
		hex := m[1]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		return strings.ToUpper(hex), true
	}
	if m := rgbColorRe.FindStringSubmatch(value); m != nil {
		var out strings.Builder
		for _, part := range m[1:] {
			n, err := strconv.Atoi(part)
			if err != nil || n > 255 {
				return "", false
			}
			fmt.Fprintf(&out, "%02X", n)
		}
		return out.String(), true
	}
	return "", false
}
