// Package interp is the tree-walking evaluator: it drives an
// already-parsed ast.Program against a scope.Stack, producing
// langvalue.Slot results and threading return/break/continue through
// the scope stack's exit register (spec.md §4.F, §9).
package interp

import (
	"fmt"

	"maple/internal/ast"
	"maple/internal/langvalue"
	"maple/internal/scope"
	"maple/internal/symbol"
)

// Interp walks an AST against a shared symbol table and scope stack.
// Both must already be initialized (and, typically, pre-populated with
// builtins) before Interpret is called.
type Interp struct {
	syms   *symbol.Table
	scopes *scope.Stack
}

// New builds an Interp over an existing symbol table and scope stack.
func New(syms *symbol.Table, scopes *scope.Stack) *Interp {
	return &Interp{syms: syms, scopes: scopes}
}

// Interpret runs every top-level statement in the global frame in
// order and returns the value of the last expression statement, if
// any (spec.md §6 "interpret(ast) -> optional MemorySlot"). A
// non-local exit (return/break/continue) reaching the top level stops
// execution after that statement; the exit and any value it carries are
// not returned but left on the global frame's exit register, where
// callers that care can read it via the Stack they passed in.
func (in *Interp) Interpret(prog *ast.Program) (*langvalue.Slot, error) {
	var last *langvalue.Slot
	for _, stmt := range prog.Stmts {
		slot, err := in.evalStmt(stmt)
		if err != nil {
			return nil, err
		}
		if slot != nil {
			last = slot
		}
		if in.scopes.GetExit().Kind != scope.ExitNone {
			break
		}
	}
	return last, nil
}

// evalBlock runs a block's statements against the current top frame
// (no frame of its own — callers that need one push it first),
// stopping early the moment the top frame's exit register becomes
// non-None (spec.md §4.F "a statement following an exit never runs").
func (in *Interp) evalBlock(block *ast.Block) error {
	for _, stmt := range block.Stmts {
		if _, err := in.evalStmt(stmt); err != nil {
			return err
		}
		if in.scopes.GetExit().Kind != scope.ExitNone {
			return nil
		}
	}
	return nil
}

func (in *Interp) evalStmt(stmt ast.Stmt) (*langvalue.Slot, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		slot, err := in.evalExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &slot, nil
	case *ast.FuncDef:
		return nil, in.evalFuncDef(s)
	case *ast.IfChain:
		return nil, in.evalIf(s)
	case *ast.While:
		return nil, in.evalWhile(s)
	case *ast.Exit:
		return nil, in.evalExit(s)
	default:
		return nil, fmt.Errorf("line %d: internal error: unhandled statement type %T", stmt.Line(), stmt)
	}
}

func (in *Interp) evalFuncDef(f *ast.FuncDef) error {
	fn := &langvalue.Function{
		Name:       f.Name,
		Params:     f.Params,
		Body:       f.Body,
		ReturnType: f.ReturnType,
		DeclLine:   f.Line(),
	}
	if err := in.scopes.DeclareFunction(f.Name, langvalue.FunctionSlot(fn)); err != nil {
		return fmt.Errorf("line %d: function %q: %w", f.Line(), in.syms.Text(f.Name), err)
	}
	return nil
}

func (in *Interp) evalIf(ic *ast.IfChain) error {
	matched, err := in.runConditionalBranch(ic.Cond, ic.Then)
	if err != nil || matched {
		return err
	}
	for _, ei := range ic.ElseIfs {
		matched, err = in.runConditionalBranch(ei.Cond, ei.Then)
		if err != nil || matched {
			return err
		}
	}
	if ic.Else != nil {
		return in.runBlockInFrame("if", ic.Else)
	}
	return nil
}

// runConditionalBranch evaluates cond and, if true, runs then inside a
// fresh "if" frame. matched reports whether the branch fired, so the
// caller knows whether to keep walking the elseif chain.
func (in *Interp) runConditionalBranch(cond ast.Expr, then *ast.Block) (matched bool, err error) {
	b, err := in.evalBoolCond(cond, "if condition")
	if err != nil {
		return false, err
	}
	if !b {
		return false, nil
	}
	return true, in.runBlockInFrame("if", then)
}

func (in *Interp) runBlockInFrame(name string, block *ast.Block) error {
	in.scopes.Push(name)
	err := in.evalBlock(block)
	if err != nil {
		in.scopes.Pop()
		return err
	}
	in.scopes.PopWithExitPropagation()
	return nil
}

func (in *Interp) evalBoolCond(cond ast.Expr, what string) (bool, error) {
	slot, err := in.evalExpr(cond)
	if err != nil {
		return false, err
	}
	val, ok := slot.Unwrap()
	if !ok {
		return false, fmt.Errorf("line %d: %s has no value", cond.Line(), what)
	}
	if val.TypeName() != "bool" {
		return false, fmt.Errorf("line %d: %s must be bool, got %s", cond.Line(), what, val.TypeName())
	}
	return val.AsBool(), nil
}

// evalWhile runs the loop body in a fresh "while" frame each
// iteration. Return keeps propagating outward once the while frame is
// popped; Break and Continue are consumed here (cleared from the
// enclosing frame's exit register) since neither is meaningful outside
// the loop that produced it (spec.md §4.F "While statement").
func (in *Interp) evalWhile(w *ast.While) error {
	for {
		b, err := in.evalBoolCond(w.Cond, "while condition")
		if err != nil {
			return err
		}
		if !b {
			return nil
		}

		in.scopes.Push("while")
		err = in.evalBlock(w.Body)
		if err != nil {
			in.scopes.Pop()
			return err
		}
		exit := in.scopes.GetExit()
		in.scopes.PopWithExitPropagation()

		switch exit.Kind {
		case scope.ExitReturn:
			return nil
		case scope.ExitBreak:
			in.scopes.ClearExit()
			return nil
		case scope.ExitContinue:
			in.scopes.ClearExit()
			continue
		}
	}
}

func (in *Interp) evalExit(e *ast.Exit) error {
	var carried *langvalue.Slot
	if e.Value != nil {
		slot, err := in.evalExpr(e.Value)
		if err != nil {
			return err
		}
		carried = &slot
	}
	in.scopes.SetExit(toScopeExitKind(e.Kind), carried, e.Line())
	return nil
}

func toScopeExitKind(k ast.ExitKind) scope.ExitKind {
	switch k {
	case ast.ExitBreak:
		return scope.ExitBreak
	case ast.ExitContinue:
		return scope.ExitContinue
	default:
		return scope.ExitReturn
	}
}
