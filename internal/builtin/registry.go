// Package builtin is the public surface a host program uses to bind
// external callables into Maple's global scope before parsing or
// execution begins (spec.md §4.G, §6), grounded on
// original_source/Maple/Builtins.cpp's makeBuiltin helper.
package builtin

import (
	"maple/internal/langvalue"
	"maple/internal/scope"
	"maple/internal/symbol"
)

// Registry installs BuiltinFunctions into a scope stack's global
// frame, interning each name through a shared symbol table.
type Registry struct {
	syms   *symbol.Table
	scopes *scope.Stack
}

// New builds a Registry over an already-initialized symbol table and
// scope stack. Must be used after scope.New and before parsing (spec.md
// §6 "registerBuiltin ... after scope init and before parsing/
// execution").
func New(syms *symbol.Table, scopes *scope.Stack) *Registry {
	return &Registry{syms: syms, scopes: scopes}
}

// Host is the signature every builtin's native implementation must
// satisfy: already-evaluated, already-unwrapped argument Values in,
// an optional result Value out (spec.md §6 "Host function contract").
type Host func(args []langvalue.Value) (*langvalue.Value, error)

// Register constructs a BuiltinFunction and installs it in the global
// frame as a function-kind binding under name (spec.md §4.G). It is
// an error to register a name already bound in the global frame.
func (r *Registry) Register(name, returnType string, host Host, paramTypes []string) error {
	bf := &langvalue.BuiltinFunction{
		Name:       name,
		Arity:      len(paramTypes),
		ParamTypes: append([]string(nil), paramTypes...),
		ReturnType: returnType,
		Host:       host,
	}
	sym := r.syms.InternString(name)
	return r.scopes.DeclareFunction(sym, langvalue.BuiltinSlot(bf))
}
