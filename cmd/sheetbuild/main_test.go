package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetbuilder/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRenderWorkbook(t *testing.T) {
	dir := t.TempDir()
	layoutFile := writeFile(t, dir, "layout.yaml", `
sheets:
  - name: People
    title: Everyone
    columns:
      - {title: name, field: name}
      - {title: age, field: age, number_format: "0"}
`)
	dataFile := writeFile(t, dir, "data.json", `[[{"name": "Ann", "age": 31}, {"name": "Bob", "age": 42}]]`)

	cfg := config.DefaultConfig()
	cfg.FirstRow = 2
	wb, err := renderWorkbook(layoutFile, dataFile, cfg, zap.NewNop())
	require.NoError(t, err)
	defer wb.Close()

	ws, ok := wb.SheetByName("People")
	require.True(t, ok)
	got, err := ws.FormattedValue(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Everyone", got)
	got, err = ws.FormattedValue(2, 4)
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	out := filepath.Join(dir, "out.xlsx")
	require.NoError(t, wb.SaveAs(out))
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestRenderWorkbook_MissingSheetData(t *testing.T) {
	dir := t.TempDir()
	layoutFile := writeFile(t, dir, "layout.yaml", `
sheets:
  - {name: a, columns: [{title: x, field: x}]}
  - {name: b, columns: [{title: y, field: y}]}
`)
	dataFile := writeFile(t, dir, "data.yaml", "- [{x: 1}]\n")

	_, err := renderWorkbook(layoutFile, dataFile, config.DefaultConfig(), zap.NewNop())
	assert.Error(t, err)
}

func TestConvertHTML(t *testing.T) {
	assert.Equal(t, "a &amp; b", convertHTML("a & b\n", false))
	assert.Equal(t, `<span style="font-weight:bold">bold</span> text`, convertHTML("<b>bold</b> text", true))
	assert.Equal(t, "one<br />\ntwo", convertHTML("one<br>two", true))
}
