package sheetbuilder

import (
	"fmt"

	"go.uber.org/zap"
)

// WorksheetBuilder fills one worksheet from its slice of input data.
type WorksheetBuilder interface {
	WorksheetTitle(data []any) string
	Build(ws Worksheet, data []any) error
}

// Builder assembles a workbook from registered worksheet builders. The
// builder at index i receives data[i] and writes sheet i.
type Builder struct {
	builders    []WorksheetBuilder
	defaultFont string
	log         *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDefaultFont sets the workbook default font family.
func WithDefaultFont(family string) BuilderOption {
	return func(b *Builder) {
		b.defaultFont = family
	}
}

func WithLogger(log *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBuilder returns a Builder with the given worksheet builders registered
// in order.
func NewBuilder(builders []WorksheetBuilder, opts ...BuilderOption) *Builder {
	b := &Builder{
		defaultFont: "Calibri",
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.Named("builder")
	b.SetWorksheetBuilders(builders)
	return b
}

// Register appends a worksheet builder.
func (b *Builder) Register(builder WorksheetBuilder) {
	b.builders = append(b.builders, builder)
}

// WorksheetBuilders returns the registered builders in order.
func (b *Builder) WorksheetBuilders() []WorksheetBuilder {
	out := make([]WorksheetBuilder, len(b.builders))
	copy(out, b.builders)
	return out
}

// SetWorksheetBuilders replaces the registered builders.
func (b *Builder) SetWorksheetBuilders(builders []WorksheetBuilder) {
	b.builders = nil
	for _, builder := range builders {
		b.Register(builder)
	}
}

// Build creates a workbook and runs every registered builder against its
// data slice. The last built sheet is left active.
func (b *Builder) Build(data [][]any) (*Workbook, error) {
	if len(b.builders) == 0 {
		return nil, ErrNoBuilders
	}

	wb := NewWorkbook()
	if err := wb.SetDefaultFont(b.defaultFont); err != nil {
		return nil, fmt.Errorf("default font: %w", err)
	}

	for i, builder := range b.builders {
		if i >= len(data) {
			return nil, fmt.Errorf("%w: sheet %d (%T)", ErrMissingData, i, builder)
		}
		ws, err := wb.SheetAt(i)
		if err != nil {
			return nil, err
		}
		if err := wb.SetActive(i); err != nil {
			return nil, err
		}
		if err := builder.Build(ws, data[i]); err != nil {
			return nil, fmt.Errorf("sheet %d (%s): %w", i, builder.WorksheetTitle(data[i]), err)
		}
		b.log.Debug("worksheet built", zap.Int("index", i), zap.String("title", ws.Title()))
	}
	return wb, nil
}
