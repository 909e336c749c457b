package config

// SourceFileExt is the canonical extension for the language's source files,
// appended by import resolution (spec §6: "an import with segments [a,b,c]
// maps to a/b/c.<ext>").
const SourceFileExt = ".vx"

// KnownAnnotations is the fixed set accepted by the annotation validator
// (spec §4.8), matching original_source/frontend/src/resolve/
// annotation_validator.cpp exactly. Anything outside this set is rejected
// with a source location.
var KnownAnnotations = map[string]bool{
	"nonreentrant": true,
	"nonbanked":    true,
}

// TypeStrictness enumerates the `type_strictness` compiler option (spec §6).
type TypeStrictness int

const (
	StrictnessRelaxed        TypeStrictness = 0
	StrictnessAnnotatedLocal TypeStrictness = 1
	StrictnessFull           TypeStrictness = 2
)

// Reentrancy is the abstract {R, N} tag propagated along call edges
// (spec §4.7 / GLOSSARY: "Reentrancy context").
type Reentrancy int

const (
	ReentrancyUnknown Reentrancy = iota
	ReentrancyR
	ReentrancyN
)

func (r Reentrancy) String() string {
	switch r {
	case ReentrancyR:
		return "R"
	case ReentrancyN:
		return "N"
	default:
		return "?"
	}
}

// Compile-time evaluator guards (spec §4.5, §5): recursion and looping
// inside constant-expression evaluation must terminate even on
// pathological input, so every recursive/iterative construct the
// evaluator interprets is bounded.
const (
	MaxCTimeCallDepth      = 256
	MaxCTimeLoopIterations = 1 << 20
	MaxCTimeExprParamDepth = 64
)
