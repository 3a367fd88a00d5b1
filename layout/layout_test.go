package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/sheetbuilder"
	"github.com/aerissecure/sheetbuilder/layout"
)

const contacts = `
sheets:
  - name: Contacts
    title: Contact list
    first_row: 2
    columns:
      - {title: id, field: id, width: 8}
      - title: email
        field: email
        number_format: "@"
        style: {bold: true, color: "AA0000", fill: yellow, horizontal: center}
  - name: Plain
    columns:
      - {title: n, field: n}
`

func TestParse(t *testing.T) {
	doc, err := layout.Parse([]byte(contacts))
	require.NoError(t, err)
	require.Len(t, doc.Sheets, 2)

	layouts := doc.Layouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, "Contacts", layouts[0].WorksheetTitle(nil))
	assert.Equal(t, "Contact list", layouts[0].TableTitle(nil))

	cols := layouts[0].Columns(nil)
	require.Len(t, cols, 2)
	assert.Equal(t, 8.0, cols[0].Width)
	assert.True(t, cols[0].Style.IsZero())
	assert.Equal(t, "@", cols[1].NumberFormat)

	style, err := cols[1].Style.For(2)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, "AA0000", style.Font.Color)
	assert.Equal(t, []string{"FFFF00"}, style.Fill.Color)
	assert.Equal(t, "center", style.Alignment.Horizontal)

	item := map[string]any{"id": 7, "email": "a@example.com"}
	assert.Equal(t, 7, cols[0].Value.At(item, 1, 3))
	assert.Equal(t, "a@example.com", cols[1].Value.At(item, 2, 3))
	assert.Nil(t, cols[1].Value.At([]any{"tuple"}, 2, 3))
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":          ``,
		"no sheets":      `sheets: []`,
		"no name":        "sheets:\n  - columns: [{title: a, field: a}]",
		"no columns":     "sheets:\n  - name: s",
		"no field":       "sheets:\n  - name: s\n    columns: [{title: a}]",
		"no title":       "sheets:\n  - name: s\n    columns: [{field: a}]",
		"bad color":      "sheets:\n  - name: s\n    columns: [{title: a, field: a, style: {color: nope}}]",
		"bad alignment":  "sheets:\n  - name: s\n    columns: [{title: a, field: a, style: {horizontal: middle}}]",
		"unknown column": "sheets:\n  - name: s\n    columns: [{title: a, field: a, colour: red}]",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := layout.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_ValidationErrorsAreTyped(t *testing.T) {
	_, err := layout.Parse([]byte("sheets:\n  - name: s\n    columns: [{title: a}]"))
	assert.ErrorIs(t, err, layout.ErrInvalid)
}

func TestBuilders(t *testing.T) {
	doc, err := layout.Parse([]byte(contacts))
	require.NoError(t, err)

	wb, err := sheetbuilder.NewBuilder(doc.Builders()).Build([][]any{
		{
			map[string]any{"id": 1, "email": "one@example.com"},
			map[string]any{"id": 2, "email": "two@example.com"},
		},
		{map[string]any{"n": 3.5}},
	})
	require.NoError(t, err)

	sheet, ok := wb.SheetByName("Contacts")
	require.True(t, ok)
	title, err := sheet.FormattedValue(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Contact list", title)
	header, err := sheet.FormattedValue(2, 2)
	require.NoError(t, err)
	assert.Equal(t, "email", header)
	email, err := sheet.FormattedValue(2, 4)
	require.NoError(t, err)
	assert.Equal(t, "two@example.com", email)

	plain, ok := wb.SheetByName("Plain")
	require.True(t, ok)
	n, err := plain.FormattedValue(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "3.5", n)
}
