// Package host supplies the concrete builtins a running Maple program
// can call into: the same cos/micro pair original_source/Maple/
// Builtins.cpp registers via addBuiltins, plus a print builtin for
// observing program output (spec.md §6.1). None of these write to
// os.Stdout directly — the caller supplies the io.Writer print uses, so
// host behavior stays testable.
package host

import (
	"fmt"
	"io"
	"math"
	"time"

	"maple/internal/builtin"
	"maple/internal/langvalue"
)

// Register installs cos, micro, and print into reg, writing print's
// output to out.
func Register(reg *builtin.Registry, out io.Writer) error {
	if err := reg.Register("cos", "float", hostCos, []string{"float"}); err != nil {
		return err
	}
	if err := reg.Register("micro", "int64", hostMicro, nil); err != nil {
		return err
	}
	// "var" as a builtin parameter type is the wildcard the evaluator's
	// argument type-check special-cases to accept any primitive tag.
	if err := reg.Register("print", "void", printFn(out), []string{"var"}); err != nil {
		return err
	}
	return nil
}

// hostCos mirrors Builtins.cpp's builtinCos: unpack one float argument,
// return its cosine as a float.
func hostCos(args []langvalue.Value) (*langvalue.Value, error) {
	v := langvalue.Float(math.Cos(args[0].AsFloat()))
	return &v, nil
}

// hostMicro mirrors Builtins.cpp's builtinMicro: a wall-clock reading
// in microseconds since the Unix epoch, taking no arguments.
func hostMicro(args []langvalue.Value) (*langvalue.Value, error) {
	v := langvalue.Int64(time.Now().UnixMicro())
	return &v, nil
}

// printFn closes over the destination writer so Register never touches
// a global stream.
func printFn(out io.Writer) builtin.Host {
	return func(args []langvalue.Value) (*langvalue.Value, error) {
		if _, err := fmt.Fprintln(out, args[0].String()); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
		return nil, nil
	}
}
