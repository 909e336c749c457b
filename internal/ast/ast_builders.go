package ast

import "github.com/vexel-lang/vexelc/internal/source"

// MakeUint synthesizes an integer-literal expression carrying value v —
// used to canonicalise array sizes to integer literals once fully
// evaluable (spec §3 invariant 4) and by the monomorphiser's signature
// freezing.
func MakeUint(v uint64, loc source.Location, text string) *Expr {
	return &Expr{Kind: EIntLiteral, IntValue: v, IntText: text, Location: loc}
}

// MakeIdentifier synthesizes an identifier expression, e.g. for the `_`
// loop variable introduced by iteration lowering.
func MakeIdentifier(name string, loc source.Location) *Expr {
	return &Expr{Kind: EIdentifier, Name: name, Location: loc}
}

// MakeStringLiteral synthesizes a string-literal expression — used to
// replace a `process` expression with its captured stdout (spec §5) and a
// `resource` expression with its loaded file contents.
func MakeStringLiteral(v string, loc source.Location) *Expr {
	return &Expr{Kind: EStringLiteral, StringValue: v, Location: loc}
}
