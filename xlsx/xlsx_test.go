package xlsx_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetbuilder"
	"github.com/aerissecure/sheetbuilder/richtext"
	"github.com/aerissecure/sheetbuilder/xlsx"
)

func reportWorkbook(t *testing.T) []byte {
	t.Helper()
	layout := sheetbuilder.StaticLayout{
		Name:  "Report",
		Title: "Quarterly <report>",
		Cols: []sheetbuilder.Column{
			{Title: "notes", Value: sheetbuilder.Const("line1\nline2"), Width: 20},
			{Title: "mixed", Value: sheetbuilder.Const(richtext.New(
				richtext.TextRun{Text: "A "},
				richtext.TextRun{Text: "B", Style: richtext.Style{Bold: true}},
			))},
		},
	}
	wb, err := sheetbuilder.NewBuilder([]sheetbuilder.WorksheetBuilder{
		sheetbuilder.NewTableBuilder(layout, sheetbuilder.WithFirstRow(2)),
	}).Build([][]any{{"only row"}})
	require.NoError(t, err)

	data, err := wb.Bytes()
	require.NoError(t, err)
	return data
}

func TestParseWorkbookModel(t *testing.T) {
	data := reportWorkbook(t)
	m, err := xlsx.ParseWorkbookModel(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, m.Sheets, 1)

	sheet := m.Sheets[0]
	assert.Equal(t, "Report", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	require.Len(t, sheet.ColWidths, 2)
	assert.InDelta(t, 20*8.3, sheet.ColWidths[0], 0.01)

	title := sheet.Cell(1, 1)
	require.NotNil(t, title)
	assert.Equal(t, "Quarterly <report>", title.Value)
	assert.Equal(t, 2, title.ColSpan)
	assert.True(t, title.Style.Bold)
	assert.Nil(t, sheet.Cell(2, 1))

	header := sheet.Cell(2, 2)
	require.NotNil(t, header)
	assert.Equal(t, "mixed", header.Value)
	assert.True(t, header.Style.Bold)
	assert.True(t, header.Style.WrapText)
	assert.Equal(t, "D6DCE5", header.Style.BackgroundColor)
	assert.Equal(t, "middle", header.Style.VerticalAlign)
	assert.InDelta(t, 50*1.333, sheet.Rows[1].HeightPx, 0.01)

	notes := sheet.Cell(1, 3)
	require.NotNil(t, notes)
	assert.Equal(t, "line1\nline2", notes.Value)
	assert.False(t, notes.Rich())

	mixed := sheet.Cell(2, 3)
	require.NotNil(t, mixed)
	require.True(t, mixed.Rich())
	require.Len(t, mixed.Runs.Runs, 2)
	assert.Equal(t, "A ", mixed.Runs.Runs[0].Text)
	assert.False(t, mixed.Runs.Runs[0].Style.Bold)
	assert.Equal(t, "B", mixed.Runs.Runs[1].Text)
	assert.True(t, mixed.Runs.Runs[1].Style.Bold)
}

func TestXLSXToHTML(t *testing.T) {
	data := reportWorkbook(t)
	out, err := xlsx.XLSXToHTML(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Contains(t, out, `<div class="sheet" data-name="Report">`)
	assert.Contains(t, out, `colspan="2"`)
	assert.Contains(t, out, "Quarterly &lt;report&gt;")
	assert.Contains(t, out, "line1<br />\nline2")
	assert.Contains(t, out, `A <span style="font-weight:bold">B</span>`)
	assert.Contains(t, out, "background-color:#D6DCE5")
	assert.NotContains(t, out, "data-style=")
}

func TestRenderWorkbookHTML_Debug(t *testing.T) {
	m := xlsx.WorkbookModel{Sheets: []xlsx.RenderSheet{{
		Name:      "s",
		ColWidths: []float64{10, 10},
		ColHidden: []bool{false, true},
		Rows: []xlsx.RenderRow{{
			HeightPx: 20,
			Cells: []*xlsx.RenderCell{
				{Ref: "A1", Value: "x", ColSpan: 1, RowSpan: 2},
				nil,
			},
		}, {
			HeightPx: 20,
			Hidden:   true,
			Cells:    []*xlsx.RenderCell{nil, nil},
		}},
	}}}
	out := xlsx.RenderWorkbookHTML(m, xlsx.WithDebug(true))

	assert.Contains(t, out, `rowspan="2"`)
	assert.Contains(t, out, `data-style="FontFamily: `)
	assert.Contains(t, out, `<col style="display:none;">`)
	assert.Contains(t, out, `<tr style="height:20px;display:none;">`)
	// the second row has one blank slot, the first one is covered by the rowspan
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte("<td></td>")))
}
