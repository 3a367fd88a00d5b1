package sheetbuilder

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Value is either a constant cell value or a resolver evaluated per cell.
type Value struct {
	constant any
	resolve  func(item any, col, row int) any
}

// Const returns a Value always yielding v.
func Const(v any) Value {
	return Value{constant: v}
}

// Resolve returns a Value computed from the data item and the 1-based cell
// coordinate.
func Resolve(fn func(item any, col, row int) any) Value {
	return Value{resolve: fn}
}

// Index resolves element i of a []any item; other items or out-of-range
// indexes yield nil.
func Index(i int) Value {
	return Resolve(func(item any, _, _ int) any {
		if tuple, ok := item.([]any); ok && i >= 0 && i < len(tuple) {
			return tuple[i]
		}
		return nil
	})
}

// Key resolves the named entry of a map[string]any item.
func Key(name string) Value {
	return Resolve(func(item any, _, _ int) any {
		if m, ok := item.(map[string]any); ok {
			return m[name]
		}
		return nil
	})
}

// At evaluates the value for a cell.
func (v Value) At(item any, col, row int) any {
	if v.resolve != nil {
		return v.resolve(item, col, row)
	}
	return v.constant
}

// ColumnStyle is either a constant style or a resolver of the 1-based column
// number. The zero value applies nothing.
type ColumnStyle struct {
	constant *excelize.Style
	resolve  func(col int) *excelize.Style
}

// StaticStyle returns a ColumnStyle always yielding style.
func StaticStyle(style *excelize.Style) ColumnStyle {
	return ColumnStyle{constant: style}
}

// StyleFunc returns a ColumnStyle computed from the column number.
func StyleFunc(fn func(col int) *excelize.Style) ColumnStyle {
	return ColumnStyle{resolve: fn}
}

// IsZero reports whether no style is configured.
func (s ColumnStyle) IsZero() bool {
	return s.constant == nil && s.resolve == nil
}

// For resolves the style of column col. A resolver returning nil is a
// configuration error.
func (s ColumnStyle) For(col int) (*excelize.Style, error) {
	if s.resolve == nil {
		return s.constant, nil
	}
	style := s.resolve(col)
	if style == nil {
		return nil, fmt.Errorf("%w: column %d resolver returned no style", ErrInvalidColumnStyle, col)
	}
	return style, nil
}

// Column configures one table column. Columns are numbered 1..N in slice
// order.
type Column struct {
	Title string
	Value Value
	// Width in characters; zero sizes the column from its content.
	Width            float64
	Style            ColumnStyle
	NumberFormat     string
	ConditionalStyle []excelize.ConditionalFormatOptions
}
