package interp

import (
	"fmt"

	"maple/internal/ast"
	"maple/internal/langvalue"
	"maple/internal/scope"
)

func (in *Interp) evalExpr(expr ast.Expr) (langvalue.Slot, error) {
	switch e := expr.(type) {
	case *ast.FloatLit:
		return langvalue.ValueSlot(langvalue.Float(e.Value)), nil
	case *ast.IntLit:
		return langvalue.ValueSlot(langvalue.Int(e.Value)), nil
	case *ast.Int64Lit:
		return langvalue.ValueSlot(langvalue.Int64(e.Value)), nil
	case *ast.BoolLit:
		return langvalue.ValueSlot(langvalue.Bool(e.Value)), nil
	case *ast.CharLit:
		return langvalue.ValueSlot(langvalue.Char(e.Value)), nil
	case *ast.StringLit:
		// String literals lex but carry no runtime value (spec.md §3, §6).
		return langvalue.UndefinedSlot(), nil
	case *ast.VarRef:
		return in.evalVarRef(e)
	case *ast.VarDecl:
		return in.evalVarDecl(e)
	case *ast.BinaryOp:
		return in.evalBinaryOp(e)
	case *ast.UnaryOp:
		return in.evalUnaryOp(e)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.PreEvaluated:
		slot, ok := e.Payload.(*langvalue.Slot)
		if !ok {
			return langvalue.Slot{}, fmt.Errorf("line %d: internal error: pre-evaluated payload has wrong type", e.Line())
		}
		return *slot, nil
	default:
		return langvalue.Slot{}, fmt.Errorf("line %d: internal error: unhandled expression type %T", expr.Line(), expr)
	}
}

func (in *Interp) evalVarRef(v *ast.VarRef) (langvalue.Slot, error) {
	slot, ok := in.scopes.LookupAny(v.Name)
	if !ok {
		return langvalue.Slot{}, fmt.Errorf("line %d: undefined identifier %q", v.Line(), in.syms.Text(v.Name))
	}
	return slot, nil
}

func (in *Interp) evalVarDecl(d *ast.VarDecl) (langvalue.Slot, error) {
	v := langvalue.NewVariable(d.Name, d.TypeName)
	if err := in.scopes.DeclareVariable(d.Name, v); err != nil {
		return langvalue.Slot{}, fmt.Errorf("line %d: variable %q: %w", d.Line(), in.syms.Text(d.Name), err)
	}
	return langvalue.VariableSlot(v), nil
}

func (in *Interp) evalUnaryOp(u *ast.UnaryOp) (langvalue.Slot, error) {
	slot, err := in.evalExpr(u.Operand)
	if err != nil {
		return langvalue.Slot{}, err
	}
	val, ok := slot.Unwrap()
	if !ok {
		return langvalue.Slot{}, fmt.Errorf("line %d: operand of unary '%s' has no value", u.Line(), u.Op)
	}
	switch u.Op {
	case "!":
		return langvalue.ValueSlot(langvalue.Bool(!val.AsBool())), nil
	case "-":
		return langvalue.ValueSlot(val.Negate()), nil
	default:
		return langvalue.Slot{}, fmt.Errorf("line %d: internal error: unknown unary operator %q", u.Line(), u.Op)
	}
}

func (in *Interp) evalBinaryOp(b *ast.BinaryOp) (langvalue.Slot, error) {
	switch b.Op {
	case "=":
		return in.evalAssign(b.Line(), b.Left, b.Right)
	case "&&", "||":
		return in.evalLogical(b.Line(), b.Op, b.Left, b.Right)
	default:
		return in.evalArithCompare(b.Line(), b.Op, b.Left, b.Right)
	}
}

// evalAssign implements `left = right`. left is either a fresh VarDecl
// (declare-then-assign) or a VarRef naming an existing variable
// (plain reassignment); either way it must evaluate to a Variable slot
// (spec.md §4.F "Assignment"). The right side is unwrapped to a Value
// and coerced to the variable's declared type by Variable.Assign.
// Assignment's own result is the Variable slot, so `a = b = 1` chains
// through the right-associative '=' the parser already builds.
func (in *Interp) evalAssign(line int, left, right ast.Expr) (langvalue.Slot, error) {
	leftSlot, err := in.evalExpr(left)
	if err != nil {
		return langvalue.Slot{}, err
	}
	if leftSlot.Kind != langvalue.SlotVariable {
		return langvalue.Slot{}, fmt.Errorf("line %d: left-hand side of '=' is not assignable", line)
	}
	rightSlot, err := in.evalExpr(right)
	if err != nil {
		return langvalue.Slot{}, err
	}
	val, ok := rightSlot.Unwrap()
	if !ok {
		return langvalue.Slot{}, fmt.Errorf("line %d: right-hand side of '=' has no value", line)
	}
	leftSlot.Var.Assign(val)
	return leftSlot, nil
}

func (in *Interp) evalLogical(line int, op string, left, right ast.Expr) (langvalue.Slot, error) {
	lv, err := in.evalBoolOperand(left, op)
	if err != nil {
		return langvalue.Slot{}, err
	}
	if op == "&&" && !lv {
		return langvalue.ValueSlot(langvalue.Bool(false)), nil
	}
	if op == "||" && lv {
		return langvalue.ValueSlot(langvalue.Bool(true)), nil
	}
	rv, err := in.evalBoolOperand(right, op)
	if err != nil {
		return langvalue.Slot{}, err
	}
	return langvalue.ValueSlot(langvalue.Bool(rv)), nil
}

// evalBoolOperand coerces its operand to bool rather than requiring a
// bool tag: spec.md §4.F routes '&&'/'||' through the same promotion
// path as the other binary operators, coercing first.
func (in *Interp) evalBoolOperand(expr ast.Expr, op string) (bool, error) {
	slot, err := in.evalExpr(expr)
	if err != nil {
		return false, err
	}
	val, ok := slot.Unwrap()
	if !ok {
		return false, fmt.Errorf("line %d: operand of '%s' has no value", expr.Line(), op)
	}
	return val.AsBool(), nil
}

// evalArithCompare implements the numeric operators. Both operands are
// promoted to the wider of their two tags (langvalue.Promote) before
// the operator is applied, matching the doOperator promotion ladder
// (spec.md §4.F) — except '/', which always yields float and never
// participates in the promotion ladder (integer division isn't provided).
func (in *Interp) evalArithCompare(line int, op string, left, right ast.Expr) (langvalue.Slot, error) {
	ls, err := in.evalExpr(left)
	if err != nil {
		return langvalue.Slot{}, err
	}
	lv, ok := ls.Unwrap()
	if !ok {
		return langvalue.Slot{}, fmt.Errorf("line %d: left operand of '%s' has no value", line, op)
	}
	rs, err := in.evalExpr(right)
	if err != nil {
		return langvalue.Slot{}, err
	}
	rv, ok := rs.Unwrap()
	if !ok {
		return langvalue.Slot{}, fmt.Errorf("line %d: right operand of '%s' has no value", line, op)
	}

	tag := langvalue.Promote(lv.Tag, rv.Tag)

	switch op {
	case "/":
		// Division always yields float regardless of operand tags;
		// integer division is not provided.
		return langvalue.ValueSlot(langvalue.Float(lv.AsFloat() / rv.AsFloat())), nil
	case "+", "-", "*":
		return in.evalArith(line, op, tag, lv, rv)
	case ">", "<", ">=", "==", "!=":
		return langvalue.ValueSlot(langvalue.Bool(evalCompare(op, tag, lv, rv))), nil
	default:
		return langvalue.Slot{}, fmt.Errorf("line %d: internal error: unknown binary operator %q", line, op)
	}
}

func (in *Interp) evalArith(line int, op string, tag langvalue.Tag, lv, rv langvalue.Value) (langvalue.Slot, error) {
	switch tag {
	case langvalue.TagFloat:
		a, b := lv.AsFloat(), rv.AsFloat()
		switch op {
		case "+":
			return langvalue.ValueSlot(langvalue.Float(a + b)), nil
		case "-":
			return langvalue.ValueSlot(langvalue.Float(a - b)), nil
		default:
			return langvalue.ValueSlot(langvalue.Float(a * b)), nil
		}
	case langvalue.TagInt64:
		a, b := lv.AsInt64(), rv.AsInt64()
		switch op {
		case "+":
			return langvalue.ValueSlot(langvalue.Int64(a + b)), nil
		case "-":
			return langvalue.ValueSlot(langvalue.Int64(a - b)), nil
		default:
			return langvalue.ValueSlot(langvalue.Int64(a * b)), nil
		}
	default:
		// int, char, and bool operands are computed in 32-bit int and the
		// result is cast back to the promoted tag, so char and bool
		// operands keep their tag (spec.md §4.F promotion ladder).
		a, b := lv.AsInt(), rv.AsInt()
		var r int32
		switch op {
		case "+":
			r = a + b
		case "-":
			r = a - b
		default:
			r = a * b
		}
		return langvalue.ValueSlot(langvalue.Int(r).CoerceTo(tag)), nil
	}
}

func evalCompare(op string, tag langvalue.Tag, lv, rv langvalue.Value) bool {
	switch tag {
	case langvalue.TagFloat:
		a, b := lv.AsFloat(), rv.AsFloat()
		return compareOrdered(op, a < b, a == b)
	case langvalue.TagInt64:
		a, b := lv.AsInt64(), rv.AsInt64()
		return compareOrdered(op, a < b, a == b)
	case langvalue.TagChar:
		a, b := lv.AsChar(), rv.AsChar()
		return compareOrdered(op, a < b, a == b)
	case langvalue.TagBool:
		a, b := lv.AsBool(), rv.AsBool()
		eq := a == b
		switch op {
		case "==":
			return eq
		case "!=":
			return !eq
		default:
			// bool has no ordering; false < true by convention.
			return compareOrdered(op, !a && b, eq)
		}
	default:
		a, b := lv.AsInt(), rv.AsInt()
		return compareOrdered(op, a < b, a == b)
	}
}

func compareOrdered(op string, less, equal bool) bool {
	switch op {
	case "<":
		return less
	case ">":
		return !less && !equal
	case ">=":
		return !less
	case "==":
		return equal
	default: // "!="
		return !equal
	}
}

func (in *Interp) evalCall(c *ast.Call) (langvalue.Slot, error) {
	slot, ok := in.scopes.LookupFunction(c.Callee)
	if !ok {
		return langvalue.Slot{}, fmt.Errorf("line %d: undefined function %q", c.Line(), in.syms.Text(c.Callee))
	}
	switch slot.Kind {
	case langvalue.SlotBuiltin:
		return in.callBuiltin(c, slot.Builtin)
	case langvalue.SlotFunction:
		return in.callUser(c, slot.Fn)
	default:
		return langvalue.Slot{}, fmt.Errorf("line %d: %q is not callable", c.Line(), in.syms.Text(c.Callee))
	}
}

func (in *Interp) callBuiltin(c *ast.Call, bf *langvalue.BuiltinFunction) (langvalue.Slot, error) {
	if len(c.Args) != bf.Arity {
		return langvalue.Slot{}, fmt.Errorf("line %d: %s expects %d argument(s), got %d", c.Line(), bf.Name, bf.Arity, len(c.Args))
	}
	args := make([]langvalue.Value, len(c.Args))
	for i, argExpr := range c.Args {
		slot, err := in.evalExpr(argExpr)
		if err != nil {
			return langvalue.Slot{}, err
		}
		val, ok := slot.Unwrap()
		if !ok {
			return langvalue.Slot{}, fmt.Errorf("line %d: argument %d to %s has no value", argExpr.Line(), i+1, bf.Name)
		}
		if bf.ParamTypes[i] != "var" && val.TypeName() != bf.ParamTypes[i] {
			return langvalue.Slot{}, fmt.Errorf("line %d: argument %d to %s: expected %s, got %s", argExpr.Line(), i+1, bf.Name, bf.ParamTypes[i], val.TypeName())
		}
		args[i] = val
	}
	result, err := bf.Host(args)
	if err != nil {
		return langvalue.Slot{}, fmt.Errorf("line %d: %s: %w", c.Line(), bf.Name, err)
	}
	if result == nil {
		if bf.ReturnType != "void" {
			return langvalue.Slot{}, fmt.Errorf("line %d: %s did not return a value", c.Line(), bf.Name)
		}
		return langvalue.VoidSlot(), nil
	}
	if result.TypeName() != bf.ReturnType {
		return langvalue.Slot{}, fmt.Errorf("line %d: %s returned %s, expected %s", c.Line(), bf.Name, result.TypeName(), bf.ReturnType)
	}
	return langvalue.ValueSlot(*result), nil
}

// callUser evaluates arguments in the caller's own frame, pushes the
// callee's frame, then binds each parameter with a synthetic
// declare-then-assign expression built from ast.VarDecl and
// ast.PreEvaluated — the same mechanism a literal `type name = expr`
// statement uses, reused here instead of duplicated (spec.md §4.F
// "Function call", §9 "Self-referential Function definitions").
func (in *Interp) callUser(c *ast.Call, fn *langvalue.Function) (langvalue.Slot, error) {
	if len(c.Args) != len(fn.Params) {
		return langvalue.Slot{}, fmt.Errorf("line %d: %s expects %d argument(s), got %d", c.Line(), in.syms.Text(fn.Name), len(fn.Params), len(c.Args))
	}

	argSlots := make([]langvalue.Slot, len(c.Args))
	for i, argExpr := range c.Args {
		slot, err := in.evalExpr(argExpr)
		if err != nil {
			return langvalue.Slot{}, err
		}
		argSlots[i] = slot
	}

	in.scopes.Push(in.syms.Text(fn.Name))

	for i, param := range fn.Params {
		assign := &ast.BinaryOp{
			Base: ast.At(c.Line()),
			Op:   "=",
			Left: &ast.VarDecl{Base: ast.At(c.Line()), TypeName: param.TypeName, Name: param.Name},
			Right: &ast.PreEvaluated{Base: ast.At(c.Line()), Payload: &argSlots[i]},
		}
		if _, err := in.evalExpr(assign); err != nil {
			in.scopes.Pop()
			return langvalue.Slot{}, err
		}
	}

	err := in.evalBlock(fn.Body)
	if err != nil {
		in.scopes.Pop()
		return langvalue.Slot{}, err
	}

	exit := in.scopes.GetExit()
	in.scopes.Pop()

	switch exit.Kind {
	case scope.ExitReturn:
		return in.resolveReturn(c.Line(), fn, exit)
	case scope.ExitBreak, scope.ExitContinue:
		return langvalue.Slot{}, fmt.Errorf("line %d: %s leaked out of %s's body; the only valid exit from a function is 'return'", exit.Line, exit.Kind, in.syms.Text(fn.Name))
	default:
		if fn.ReturnType != "void" {
			return langvalue.Slot{}, fmt.Errorf("line %d: missing return statement in %s", c.Line(), in.syms.Text(fn.Name))
		}
		return langvalue.VoidSlot(), nil
	}
}

func (in *Interp) resolveReturn(line int, fn *langvalue.Function, exit scope.ExitRegister) (langvalue.Slot, error) {
	if exit.Carried == nil {
		if fn.ReturnType != "void" {
			return langvalue.Slot{}, fmt.Errorf("line %d: missing return value in %s", exit.Line, in.syms.Text(fn.Name))
		}
		return langvalue.VoidSlot(), nil
	}
	val, ok := exit.Carried.Unwrap()
	if !ok {
		if fn.ReturnType != "void" {
			return langvalue.Slot{}, fmt.Errorf("line %d: return value in %s has no value", exit.Line, in.syms.Text(fn.Name))
		}
		return langvalue.VoidSlot(), nil
	}
	if val.TypeName() != fn.ReturnType {
		return langvalue.Slot{}, fmt.Errorf("line %d: invalid return type in %s: expected %s, got %s", exit.Line, in.syms.Text(fn.Name), fn.ReturnType, val.TypeName())
	}
	return langvalue.ValueSlot(val), nil
}
