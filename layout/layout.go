// Package layout reads table layouts declared in YAML.
//
//	sheets:
//	  - name: Contacts
//	    title: Contact list
//	    first_row: 2
//	    columns:
//	      - {title: id, field: id, width: 8}
//	      - {title: email, field: email, style: {bold: true, color: AA0000}}
//
// Columns resolve their field from map items of the sheet data.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetbuilder"
	"github.com/aerissecure/sheetbuilder/richtext"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("layout: invalid document")

type Document struct {
	Sheets []Sheet `yaml:"sheets"`
}

type Sheet struct {
	Name     string   `yaml:"name"`
	Title    string   `yaml:"title"`
	FirstRow int      `yaml:"first_row"`
	Columns  []Column `yaml:"columns"`
}

type Column struct {
	Title        string  `yaml:"title"`
	Field        string  `yaml:"field"`
	Width        float64 `yaml:"width"`
	NumberFormat string  `yaml:"number_format"`
	Style        *Style  `yaml:"style"`
}

// Style is the column style subset expressible in a layout file. Colors
// accept anything richtext.ParseColor does.
type Style struct {
	Bold       bool   `yaml:"bold"`
	Italic     bool   `yaml:"italic"`
	Color      string `yaml:"color"`
	Fill       string `yaml:"fill"`
	Horizontal string `yaml:"horizontal"`
}

// Parse decodes and validates a layout document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the layout file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data)
}

func (d *Document) Validate() error {
	if len(d.Sheets) == 0 {
		return fmt.Errorf("%w: no sheets", ErrInvalid)
	}
	for i, s := range d.Sheets {
		if s.Name == "" {
			return fmt.Errorf("%w: sheet %d has no name", ErrInvalid, i+1)
		}
		if len(s.Columns) == 0 {
			return fmt.Errorf("%w: sheet %q has no columns", ErrInvalid, s.Name)
		}
		for j, c := range s.Columns {
			if c.Title == "" || c.Field == "" {
				return fmt.Errorf("%w: sheet %q column %d needs a title and a field", ErrInvalid, s.Name, j+1)
			}
			if err := c.Style.validate(); err != nil {
				return fmt.Errorf("%w: sheet %q column %q: %v", ErrInvalid, s.Name, c.Title, err)
			}
		}
	}
	return nil
}

// Layouts returns one table layout per sheet, in document order.
func (d *Document) Layouts() []sheetbuilder.TableLayout {
	out := make([]sheetbuilder.TableLayout, 0, len(d.Sheets))
	for _, s := range d.Sheets {
		out = append(out, s.Layout())
	}
	return out
}

// Builders returns a table builder per sheet. A sheet's first_row overrides
// the row given in opts.
func (d *Document) Builders(opts ...sheetbuilder.TableOption) []sheetbuilder.WorksheetBuilder {
	out := make([]sheetbuilder.WorksheetBuilder, 0, len(d.Sheets))
	for _, s := range d.Sheets {
		sheetOpts := opts
		if s.FirstRow > 0 {
			sheetOpts = append(append([]sheetbuilder.TableOption(nil), opts...), sheetbuilder.WithFirstRow(s.FirstRow))
		}
		out = append(out, sheetbuilder.NewTableBuilder(s.Layout(), sheetOpts...))
	}
	return out
}

func (s Sheet) Layout() sheetbuilder.StaticLayout {
	cols := make([]sheetbuilder.Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		col := sheetbuilder.Column{
			Title:        c.Title,
			Value:        sheetbuilder.Key(c.Field),
			Width:        c.Width,
			NumberFormat: c.NumberFormat,
		}
		if style := c.Style.excel(); style != nil {
			col.Style = sheetbuilder.StaticStyle(style)
		}
		cols = append(cols, col)
	}
	return sheetbuilder.StaticLayout{Name: s.Name, Title: s.Title, Cols: cols}
}

func (s *Style) validate() error {
	if s == nil {
		return nil
	}
	for _, c := range []string{s.Color, s.Fill} {
		if c == "" {
			continue
		}
		if _, ok := richtext.ParseColor(c); !ok {
			return fmt.Errorf("unknown color %q", c)
		}
	}
	switch s.Horizontal {
	case "", "left", "center", "right", "justify", "fill", "distributed", "general":
	default:
		return fmt.Errorf("unknown horizontal alignment %q", s.Horizontal)
	}
	return nil
}

func (s *Style) excel() *excelize.Style {
	if s == nil {
		return nil
	}
	style := &excelize.Style{}
	if s.Bold || s.Italic || s.Color != "" {
		style.Font = &excelize.Font{Bold: s.Bold, Italic: s.Italic}
		if hex, ok := richtext.ParseColor(s.Color); ok {
			style.Font.Color = hex
		}
	}
	if hex, ok := richtext.ParseColor(s.Fill); ok {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}}
	}
	if s.Horizontal != "" {
		style.Alignment = &excelize.Alignment{Horizontal: s.Horizontal}
	}
	return style
}
