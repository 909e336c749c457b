// Package source carries the single location type threaded through every
// AST node, symbol, and diagnostic in the compiler.
package source

import "fmt"

// Location pins a point in a source file. The zero value is used for
// synthesized nodes that have no source origin (e.g. prelude symbols).
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return "<generated>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether this location carries no information.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}
