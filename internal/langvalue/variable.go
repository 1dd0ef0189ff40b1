package langvalue

import "maple/internal/symbol"

// Variable is a named, typed storage cell. DeclaredType is either a
// concrete primitive name ("int", "float", "int64", "char", "bool") or
// the wildcard "var". A freshly declared Variable holds no value until
// its first assignment.
type Variable struct {
	Name         symbol.Symbol
	DeclaredType string
	value        *Value
}

// NewVariable creates an unassigned Variable of the given declared
// type.
func NewVariable(name symbol.Symbol, declaredType string) *Variable {
	return &Variable{Name: name, DeclaredType: declaredType}
}

// HasValue reports whether the variable has ever been assigned.
func (v *Variable) HasValue() bool { return v.value != nil }

// Value returns the variable's current value. Callers must check
// HasValue first; reading an unassigned variable is a scope/type error
// the evaluator surfaces through the diagnostic reporter, not a Go
// panic.
func (v *Variable) Value() Value { return *v.value }

// TypeName reports the variable's declared type, or — when declared
// `var` — the tag of whatever it currently holds (spec.md §9's "var
// type" design note). An unassigned `var` variable has no effective
// type yet and reports "var".
func (v *Variable) TypeName() string {
	if v.DeclaredType != "var" {
		return v.DeclaredType
	}
	if v.value != nil {
		return v.value.TypeName()
	}
	return "var"
}

// Assign stores val into the variable, coercing to the declared type
// unless the variable is `var`, in which case it takes val's tag
// as-is (spec.md §4.F "Assignment").
func (v *Variable) Assign(val Value) {
	if tag, ok := ParseTag(v.DeclaredType); ok {
		coerced := val.CoerceTo(tag)
		v.value = &coerced
		return
	}
	v.value = &val
}
