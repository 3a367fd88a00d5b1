package richtext

// StyleConverter maps one style attribute between a TextRun and its HTML
// representation.
type StyleConverter interface {
	// Matches reports whether run carries the attribute.
	Matches(run TextRun) bool
	// ToStyle emits the attribute as CSS declarations.
	ToStyle(run TextRun) StyleMap
	// MatchesHTML reports whether a tag name or its inline style implies the
	// attribute. tag is lower-case.
	MatchesHTML(tag string, style StyleMap) bool
	// Apply sets the attribute on run.
	Apply(run *TextRun, style StyleMap)
}

// Chain is an ordered, immutable list of converters. Every converter is
// consulted; attributes are unioned, never short-circuited.
type Chain struct {
	converters []StyleConverter
}

// NewChain returns a chain over converters in the given order.
func NewChain(converters ...StyleConverter) *Chain {
	c := &Chain{converters: make([]StyleConverter, len(converters))}
	copy(c.converters, converters)
	return c
}

// DefaultChain returns the built-in Bold, Italic, Underline, Color chain.
func DefaultChain() *Chain {
	return NewChain(BoldConverter{}, ItalicConverter{}, UnderlineConverter{}, ColorConverter{})
}

// Converters returns a copy of the chain's converters.
func (c *Chain) Converters() []StyleConverter {
	out := make([]StyleConverter, len(c.converters))
	copy(out, c.converters)
	return out
}

// Style merges the fragments of every matching converter, in chain order.
func (c *Chain) Style(run TextRun) StyleMap {
	var style StyleMap
	for _, conv := range c.converters {
		if !conv.Matches(run) {
			continue
		}
		style.Merge(conv.ToStyle(run))
	}
	return style
}

// Apply sets every attribute implied by the parent tag and style on run.
func (c *Chain) Apply(run *TextRun, tag string, style StyleMap) {
	for _, conv := range c.converters {
		if conv.MatchesHTML(tag, style) {
			conv.Apply(run, style)
		}
	}
}
