// Command maple is the standalone host program: it reads a single
// source file, runs it end to end, and prints a timing summary (spec.md
// §1, §6; original_source/Maple/Maple.cpp's registration-then-parse-
// then-run order). Unlike the original, which hardcodes its source
// path and dumps a handful of named globals at the end, this CLI takes
// the path as its one positional argument and reports the program's
// final expression value instead.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"

	"maple/internal/builtin"
	"maple/internal/config"
	"maple/internal/diag"
	"maple/internal/host"
	"maple/internal/interp"
	"maple/internal/lexer"
	"maple/internal/parser"
	"maple/internal/scope"
	"maple/internal/symbol"
)

var (
	successFG = pterm.FgLightGreen
	successBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

func main() {
	configPath := flag.String("config", "", "path to an optional TOML configuration file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: maple [-config file.toml] <source-file>")
		os.Exit(2)
	}
	sourcePath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		pterm.FgRed.Println("Config Error: " + err.Error())
		os.Exit(1)
	}
	if !cfg.Color {
		pterm.DisableColor()
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		pterm.FgRed.Println("File Error: " + err.Error())
		os.Exit(1)
	}

	reporter := diag.New(sourcePath, source, nil)

	syms := symbol.NewTable()
	scopes := scope.New()
	reg := builtin.New(syms, scopes)

	if shouldRegister(cfg.Builtins, "cos") || shouldRegister(cfg.Builtins, "micro") || shouldRegister(cfg.Builtins, "print") {
		if err := host.Register(reg, os.Stdout); err != nil {
			reporter.Fatal(err.Error(), 0)
		}
	}

	lx := lexer.New(source)
	p, err := parser.New(lx, syms)
	if err != nil {
		reporter.FatalErr(err, 0)
	}

	start := time.Now()
	prog, err := p.ParseProgram()
	if err != nil {
		reporter.FatalErr(err, 0)
	}

	ev := interp.New(syms, scopes)
	result, err := ev.Interpret(prog)
	if err != nil {
		reporter.FatalErr(err, 0)
	}
	elapsed := time.Since(start)

	if result != nil {
		if v, ok := result.Unwrap(); ok {
			fmt.Printf("=> %s\n", v.String())
		}
	}

	if cfg.LogLevel != config.LogQuiet {
		successBG.Print("Done")
		successFG.Printf(" in %v\n", elapsed)
	}
}

func shouldRegister(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
