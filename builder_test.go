package sheetbuilder_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetbuilder"
)

type spyBuilder struct {
	title string
	calls int
	data  []any
}

func (b *spyBuilder) WorksheetTitle([]any) string { return b.title }

func (b *spyBuilder) Build(ws sheetbuilder.Worksheet, data []any) error {
	b.calls++
	b.data = data
	return ws.SetTitle(b.title)
}

func TestBuilder_NoBuilders(t *testing.T) {
	wb, err := sheetbuilder.NewBuilder(nil).Build([][]any{{1}})
	assert.ErrorIs(t, err, sheetbuilder.ErrNoBuilders)
	assert.Nil(t, wb)
}

func TestBuilder_MissingData(t *testing.T) {
	first := &spyBuilder{title: "first"}
	second := &spyBuilder{title: "second"}
	builder := sheetbuilder.NewBuilder([]sheetbuilder.WorksheetBuilder{first, second})

	wb, err := builder.Build([][]any{{"only"}})
	assert.ErrorIs(t, err, sheetbuilder.ErrMissingData)
	assert.Nil(t, wb)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestBuilder_SheetPerBuilder(t *testing.T) {
	first := &spyBuilder{title: "first"}
	second := &spyBuilder{title: "second"}
	builder := sheetbuilder.NewBuilder([]sheetbuilder.WorksheetBuilder{first})
	builder.Register(second)
	require.Len(t, builder.WorksheetBuilders(), 2)

	wb, err := builder.Build([][]any{{"a"}, {"b", "c"}})
	require.NoError(t, err)

	assert.Equal(t, 2, wb.SheetCount())
	assert.Equal(t, []string{"first", "second"}, wb.File().GetSheetList())
	assert.Equal(t, []any{"a"}, first.data)
	assert.Equal(t, []any{"b", "c"}, second.data)
	assert.Equal(t, 1, wb.File().GetActiveSheetIndex())
}

func TestBuilder_SetWorksheetBuildersReplaces(t *testing.T) {
	builder := sheetbuilder.NewBuilder([]sheetbuilder.WorksheetBuilder{&spyBuilder{title: "old"}})
	builder.SetWorksheetBuilders([]sheetbuilder.WorksheetBuilder{&spyBuilder{title: "new"}})

	wb, err := builder.Build([][]any{{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, wb.File().GetSheetList())
}

func TestBuilder_TablesRoundTrip(t *testing.T) {
	builder := sheetbuilder.NewBuilder([]sheetbuilder.WorksheetBuilder{
		sheetbuilder.NewTableBuilder(contactLayout()),
	}, sheetbuilder.WithDefaultFont("Arial"))
	wb, err := builder.Build([][]any{contacts})
	require.NoError(t, err)

	data, err := wb.Bytes()
	require.NoError(t, err)

	reopened, err := sheetbuilder.OpenWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	defer reopened.Close()

	ws, ok := reopened.SheetByName("test worksheet")
	require.True(t, ok)
	assert.Equal(t, 4, ws.HighestRow())

	font, err := reopened.File().GetDefaultFont()
	require.NoError(t, err)
	assert.Equal(t, "Arial", font)

	// auto-sized from the longest email
	width, err := reopened.File().GetColWidth("test worksheet", "D")
	require.NoError(t, err)
	assert.Equal(t, float64(len("bogdan@example.com")+2), width)
}
