package sheetbuilder

import "errors"

var (
	// ErrEmptyColumns is returned when a layout yields no column settings.
	ErrEmptyColumns = errors.New("sheetbuilder: column settings are missing")

	// ErrInvalidColumnStyle is returned when a column style resolver does not
	// yield a style description.
	ErrInvalidColumnStyle = errors.New("sheetbuilder: column style must be a style or a resolver returning a style")

	// ErrMissingData is returned when no data slice exists for a registered
	// worksheet builder.
	ErrMissingData = errors.New("sheetbuilder: data for worksheet not found")

	// ErrNoBuilders is returned when Build is called without any registered
	// worksheet builders.
	ErrNoBuilders = errors.New("sheetbuilder: worksheet builders are missing")
)
