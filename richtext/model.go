package richtext

import (
	"fmt"
	"strings"
)

// Underline values mirror the spreadsheet font underline kinds.
const (
	UnderlineNone   = ""
	UnderlineSingle = "single"
	UnderlineDouble = "double"
)

// Style captures the character formatting a converter can carry between the
// rich-text and HTML representations.
type Style struct {
	Bold      bool
	Italic    bool
	Underline string // UnderlineNone|UnderlineSingle|UnderlineDouble
	Color     string // "RRGGBB", empty when unset
}

func (s Style) String() string {
	return fmt.Sprintf("Bold: %t, Italic: %t, Underline: %s, Color: %s", s.Bold, s.Italic, s.Underline, s.Color)
}

// IsZero reports whether the style carries no formatting at all.
func (s Style) IsZero() bool {
	return s == Style{}
}

// TextRun is a fragment of text sharing a single style.
type TextRun struct {
	Text  string
	Style Style
}

func (r TextRun) String() string {
	return fmt.Sprintf("Text: %q, Style: [%s]", r.Text, r.Style.String())
}

// RichText is an ordered sequence of runs composing one cell's content.
type RichText struct {
	Runs []TextRun
}

// New returns a RichText holding the given runs.
func New(runs ...TextRun) RichText {
	return RichText{Runs: runs}
}

// PlainText concatenates the text of all runs in order.
func (t RichText) PlainText() string {
	var b strings.Builder
	for _, run := range t.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

func (t RichText) String() string {
	return fmt.Sprintf("Runs: %d, Text: %q", len(t.Runs), t.PlainText())
}
