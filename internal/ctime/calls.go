package ctime

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// funcParamSymbols caches, per function declaration, the Symbol the
// resolver minted for each receiver/parameter — recovered the same way as
// a loop variable's Symbol, by scanning the body for the first identifier
// bound to it (spec §4.2 never exposes a parameter's Symbol anywhere else;
// an unreferenced parameter simply can't be bound here, which only matters
// if it's also never read, i.e. never observable).
type funcParamSymbols struct {
	receivers []*symbols.Symbol
	params    []*symbols.Symbol
}

func (ev *Evaluator) paramSymbolsFor(fn *ast.Stmt) *funcParamSymbols {
	if cached, ok := ev.paramCache[fn]; ok {
		return cached
	}
	byName := make(map[string]*symbols.Symbol)
	var walk func(*ast.Expr)
	var walkStmt func(*ast.Stmt)
	walk = func(e *ast.Expr) {
		if e == nil {
			return
		}
		if e.Kind == ast.EIdentifier {
			if sym, ok := e.ResolvedSymbol.(*symbols.Symbol); ok && sym.Kind == symbols.ParameterSym {
				if _, exists := byName[sym.Name]; !exists {
					byName[sym.Name] = sym
				}
			}
		}
		ast.WalkExprChildren(e, walk, walkStmt)
	}
	walkStmt = func(s *ast.Stmt) {
		ast.WalkStmtChildren(s, walk, walkStmt)
	}
	walk(fn.Body)

	out := &funcParamSymbols{
		receivers: make([]*symbols.Symbol, len(fn.RefParams)),
		params:    make([]*symbols.Symbol, len(fn.Params)),
	}
	for i, name := range fn.RefParams {
		out.receivers[i] = byName[name]
	}
	for i, p := range fn.Params {
		out.params[i] = byName[p.Name]
	}
	ev.paramCache[fn] = out
	return out
}

func (ev *Evaluator) evalCall(e *ast.Expr, fr *frame) outcome {
	sym, ok := e.Operand.ResolvedSymbol.(*symbols.Symbol)
	if !ok || sym == nil {
		return unknownOut()
	}

	if sym.Kind == symbols.TypeSym {
		return ev.evalStructConstructor(e, sym, fr)
	}

	if sym.Kind != symbols.Function || sym.Declaration == nil || sym.Declaration.Body == nil {
		// External function, or no body to interpret: not compile-time
		// evaluable (spec §4.5's "purity" falls out of reachability here).
		return unknownOut()
	}
	fn := sym.Declaration

	if fr.callDepth+1 >= config.MaxCTimeCallDepth {
		return failedOut(diag.New(diag.EvalError, e.Location, "constant evaluation exceeded the maximum call depth"))
	}

	psyms := ev.paramSymbolsFor(fn)
	callee := newFrame(fn.ScopeInstanceID, fr.callDepth+1)

	for i, recvExpr := range e.Receivers {
		if i >= len(psyms.receivers) || psyms.receivers[i] == nil {
			continue
		}
		out := ev.evalExpr(recvExpr, fr)
		if out.Status != Known {
			return out
		}
		v := out.Value
		callee.vars[psyms.receivers[i]] = &v
	}

	for i, p := range fn.Params {
		if i >= len(e.Args) {
			break
		}
		if p.IsExpressionParam {
			callee.exprParams[p.Name] = exprParamBinding{argExpr: e.Args[i], callerFrame: fr}
			continue
		}
		out := ev.evalExpr(e.Args[i], fr)
		if out.Status != Known {
			return out
		}
		if i < len(psyms.params) && psyms.params[i] != nil {
			v := out.Value
			callee.vars[psyms.params[i]] = &v
		}
	}

	bodyOut := ev.evalExpr(fn.Body, callee)
	var result outcome
	switch {
	case bodyOut.Signal == sigReturn:
		result = outcome{Value: bodyOut.Value, Status: bodyOut.Status, Err: bodyOut.Err}
	case bodyOut.Signal == sigBreak || bodyOut.Signal == sigContinue:
		return failedOut(diag.Invariant("ctime", e.Location, "break/continue escaped a function body"))
	default:
		result = bodyOut
	}
	if result.Status != Known {
		return result
	}

	// Receivers are reference parameters: write the (possibly mutated)
	// callee-frame value back into the caller's lvalue.
	for i, recvExpr := range e.Receivers {
		if i >= len(psyms.receivers) || psyms.receivers[i] == nil {
			continue
		}
		if v, ok := callee.vars[psyms.receivers[i]]; ok {
			if out := ev.assign(recvExpr, *v, fr); out.Status != Known {
				return out
			}
		}
	}

	return result
}

func (ev *Evaluator) evalStructConstructor(e *ast.Expr, sym *symbols.Symbol, fr *frame) outcome {
	decl := sym.Declaration
	if decl == nil || decl.Kind != ast.STypeDecl {
		return unknownOut()
	}
	fields := make(map[string]Value, len(decl.Fields))
	for i, f := range decl.Fields {
		if i >= len(e.Args) {
			break
		}
		out := ev.evalExpr(e.Args[i], fr)
		if out.Status != Known {
			return out
		}
		fields[f.Name] = out.Value
	}
	return known(CompositeValue(&Composite{TypeName: decl.TypeDeclName, Fields: fields}))
}
