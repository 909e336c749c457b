// Package diag implements the compiler's error taxonomy (spec §7): a single
// concrete error type carrying a kind, a message, and a source location,
// plus an aggregate for the parser's panic-mode recovery.
package diag

import (
	"fmt"
	"strings"

	"github.com/vexel-lang/vexelc/internal/source"
)

// Kind classifies a diagnostic. These are not exception types — they are
// tags used for reporting and for tests that assert on failure category.
type Kind int

const (
	LexError Kind = iota
	ParseError
	ResolveError
	TypeError
	EvalError
	InvariantError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex"
	case ParseError:
		return "parse"
	case ResolveError:
		return "resolve"
	case TypeError:
		return "type"
	case EvalError:
		return "eval"
	case InvariantError:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is the single diagnostic type produced by every pass. Every error
// surfaced to a caller of this module is terminal: there is no partial
// recovery after resolution (spec §7's propagation policy), except for
// parser diagnostics collected into an Aggregate.
type Error struct {
	Kind     Kind
	Message  string
	Location source.Location
}

func (e *Error) Error() string {
	return fmt.Sprintf("Error at %s: %s", e.Location, e.Message)
}

// New builds a diagnostic of the given kind.
func New(kind Kind, loc source.Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Invariant builds an "invariant failure [stage]: detail" diagnostic —
// reserved for programmer bugs in the compiler itself, per spec §7.
func Invariant(stage string, loc source.Location, detail string) *Error {
	return New(InvariantError, loc, "invariant failure [%s]: %s", stage, detail)
}

// Aggregate collects multiple diagnostics from panic-mode recovery (the
// parser recovers to the next statement boundary and keeps going) and
// re-raises them as a single compile error listing every one, matching
// original_source's parser recovery loop.
type Aggregate struct {
	Errors []*Error
}

func (a *Aggregate) Add(err *Error) {
	a.Errors = append(a.Errors, err)
}

func (a *Aggregate) HasErrors() bool {
	return len(a.Errors) > 0
}

func (a *Aggregate) Error() string {
	lines := make([]string, len(a.Errors))
	for i, e := range a.Errors {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// AsError returns the aggregate as an error if it holds any diagnostics,
// or nil otherwise — convenient for `if err := agg.AsError(); err != nil`.
func (a *Aggregate) AsError() error {
	if !a.HasErrors() {
		return nil
	}
	return a
}
