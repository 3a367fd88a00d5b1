package richtext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aerissecure/sheetbuilder/richtext"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#AA0000", "AA0000", true},
		{"#ffcc01", "FFCC01", true},
		{"#abc", "AABBCC", true},
		{"brown", "A52A2A", true},
		{" Red ", "FF0000", true},
		{"rgb(255, 0, 16)", "FF0010", true},
		{"rgba(0,0,0,0.5)", "000000", true},
		{"rgb(256, 0, 0)", "", false},
		{"currentcolor", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := richtext.ParseColor(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseStyle(t *testing.T) {
	m := richtext.ParseStyle(" Font-Weight : Bold ;broken; color:#AbC;;")
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Has("font-weight", "bold"))
	assert.True(t, m.Has("color", "#abc"))
	assert.Equal(t, "font-weight:bold; color:#abc", m.String())
}

func TestStyleMapSetKeepsPosition(t *testing.T) {
	m := richtext.NewStyleMap("a", "1", "b", "2")
	m.Set("a", "3")
	assert.Equal(t, []richtext.Declaration{{Property: "a", Value: "3"}, {Property: "b", Value: "2"}}, m.Declarations())
}

type overrideConverter struct{}

func (overrideConverter) Matches(richtext.TextRun) bool { return true }
func (overrideConverter) ToStyle(richtext.TextRun) richtext.StyleMap {
	return richtext.NewStyleMap("font-weight", "900")
}
func (overrideConverter) MatchesHTML(string, richtext.StyleMap) bool { return false }
func (overrideConverter) Apply(*richtext.TextRun, richtext.StyleMap) {}

func TestChainMergeFollowsOrder(t *testing.T) {
	chain := richtext.NewChain(richtext.BoldConverter{}, overrideConverter{})
	style := chain.Style(richtext.TextRun{Text: "x", Style: richtext.Style{Bold: true}})
	assert.Equal(t, "font-weight:900", style.String())
}

func TestChainAppliesEveryMatch(t *testing.T) {
	run := richtext.TextRun{Text: "x"}
	style := richtext.ParseStyle("font-style: italic; text-decoration: underline; color: navy")
	richtext.DefaultChain().Apply(&run, "b", style)

	assert.Equal(t, richtext.Style{Bold: true, Italic: true, Underline: richtext.UnderlineSingle, Color: "000080"}, run.Style)
}

func TestColorConverterIgnoresUnparseable(t *testing.T) {
	run := richtext.TextRun{Text: "x"}
	richtext.ColorConverter{}.Apply(&run, richtext.NewStyleMap("color", "inherit"))
	assert.Equal(t, "", run.Style.Color)
}
