package richtext

import (
	"strings"
)

// Declaration is a single CSS property/value pair.
type Declaration struct {
	Property string
	Value    string
}

// StyleMap maps CSS property names to values. Keys are unique; insertion
// order is kept for output but ignored by Equal.
type StyleMap struct {
	decls []Declaration
}

// NewStyleMap builds a map from alternating property/value arguments.
func NewStyleMap(pairs ...string) StyleMap {
	var m StyleMap
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores value under property, replacing an existing value in place.
func (m *StyleMap) Set(property, value string) {
	for i := range m.decls {
		if m.decls[i].Property == property {
			m.decls[i].Value = value
			return
		}
	}
	m.decls = append(m.decls, Declaration{Property: property, Value: value})
}

// Get returns the value stored for property.
func (m StyleMap) Get(property string) (string, bool) {
	for _, d := range m.decls {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Has reports whether property is present with exactly value.
func (m StyleMap) Has(property, value string) bool {
	v, ok := m.Get(property)
	return ok && v == value
}

// Len returns the number of declarations.
func (m StyleMap) Len() int {
	return len(m.decls)
}

// Declarations returns a copy of the declarations in insertion order.
func (m StyleMap) Declarations() []Declaration {
	out := make([]Declaration, len(m.decls))
	copy(out, m.decls)
	return out
}

// Merge copies every declaration of other into m; other wins on collisions.
func (m *StyleMap) Merge(other StyleMap) {
	for _, d := range other.decls {
		m.Set(d.Property, d.Value)
	}
}

// Equal compares two maps ignoring declaration order.
func (m StyleMap) Equal(other StyleMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, d := range m.decls {
		if !other.Has(d.Property, d.Value) {
			return false
		}
	}
	return true
}

// String renders the map as an inline style attribute value, declarations
// joined with "; ".
func (m StyleMap) String() string {
	parts := make([]string, 0, len(m.decls))
	for _, d := range m.decls {
		parts = append(parts, d.Property+":"+d.Value)
	}
	return strings.Join(parts, "; ")
}

// ParseStyle parses an inline style attribute. The input is lower-cased,
// split on ";" and then on the first ":"; segments without a colon are
// skipped.
func ParseStyle(style string) StyleMap {
	var m StyleMap
	for _, item := range strings.Split(strings.ToLower(style), ";") {
		name, value, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		m.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return m
}
