// Package diag is Maple's error reporter: the single fail-fast sink
// spec.md §4.H describes. It prints a colorized banner, the offending
// source line, and terminates the process — there is no recovery path,
// matching spec.md §7 ("errors do not unwind; they terminate").
package diag

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorFG      = pterm.FgRed
	lineNumberFG = pterm.FgLightGreen
)

// Reporter renders a fatal diagnostic against one source file.
type Reporter struct {
	filename string
	lines    []string
	onFail   func()
}

// New builds a Reporter over the source text that produced it, so a
// failure can be annotated with the offending line's text (spec.md
// §4.H "message and the line"). onFail runs after the banner is
// printed; a nil onFail defaults to os.Exit(1), matching "errors do
// not unwind; they terminate" (spec.md §7). Tests pass a sentinel-
// recording onFail instead, so Fail's own contract — print then
// terminate — never has to be bypassed to be observed.
func New(filename string, source []byte, onFail func()) *Reporter {
	if onFail == nil {
		onFail = func() { os.Exit(1) }
	}
	return &Reporter{
		filename: filename,
		lines:    strings.Split(string(source), "\n"),
		onFail:   onFail,
	}
}

// Fatal prints msg with line's source context and invokes onFail. With
// the default onFail this never returns.
func (r *Reporter) Fatal(msg string, line int) {
	r.print(msg, line)
	r.onFail()
}

// FatalErr is Fatal for an error value produced upstream (lexer/parser
// errors already carry "line N: " in their text; FatalErr re-derives the
// line for the snippet from the err message when line is 0).
func (r *Reporter) FatalErr(err error, line int) {
	msg := err.Error()
	if line == 0 {
		fmt.Sscanf(msg, "line %d:", &line)
	}
	r.Fatal(msg, line)
}

func (r *Reporter) print(msg string, line int) {
	fmt.Print("\n\n-- ")
	errorStyleBG.Print("Runtime Error")
	fmt.Print(" ")
	errorFG.Println(r.filename)
	fmt.Println()
	errorFG.Println(msg)

	if line >= 1 && line <= len(r.lines) {
		fmt.Println()
		width := len(strconv.Itoa(line)) + 1
		fmtStr := "%-" + strconv.Itoa(width) + "v"
		lineNumberFG.Print(fmt.Sprintf(fmtStr, line))
		fmt.Print("|  ")
		fmt.Println(r.lines[line-1])
	}
	fmt.Println()
}
