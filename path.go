package bsonskema

import (
	"strconv"
	"strings"

	"github.com/reoring/bsonskema/i18n"
)

// Path builds dotted document paths in a chain-safe way: fields are joined with
// '.', array elements use their decimal index ("items.2.price").
type Path struct {
	parts []string
}

// Root is the empty path.
func Root() Path { return Path{} }

// ParsePath splits a dotted path into a Path.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path{parts: strings.Split(s, ".")}
}

// Field returns the path extended by a field name.
func (p Path) Field(name string) Path {
	if name == "" {
		return p
	}
	return Path{parts: append(append([]string{}, p.parts...), name)}
}

// Index returns the path extended by an array index.
func (p Path) Index(i int) Path {
	return Path{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.parts) }

func (p Path) String() string { return strings.Join(p.parts, ".") }

// Pointer renders p as an RFC 6901 JSON Pointer ("/items/2/price").
func (p Path) Pointer() string {
	if len(p.parts) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, s := range p.parts {
		b.WriteByte('/')
		s = strings.ReplaceAll(s, "~", "~0")
		b.WriteString(strings.ReplaceAll(s, "/", "~1"))
	}
	return b.String()
}

// Issue creates an Issue located at p.
func (p Path) Issue(code, hint string, cause error) Issue {
	return Issue{Path: p.String(), Code: code, Message: i18n.T(code, nil), Hint: hint, Cause: cause}
}

// JoinPath appends a dotted path to a prefix, tolerating empty operands.
func JoinPath(prefix, rest string) string {
	switch {
	case prefix == "":
		return rest
	case rest == "":
		return prefix
	}
	return prefix + "." + rest
}

// IndexPath appends an array index to a dotted path.
func IndexPath(prefix string, i int) string { return JoinPath(prefix, strconv.Itoa(i)) }
