/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package tool is the command-line driver: the host error sink, file-mode
// and REPL execution, and native injection (spec.md §6). Grounded in the
// teacher's cli/tool/interpret.go CLIInterpreter, trimmed to the
// file/REPL contract spec.md actually asks for (no debugger, packer or
// formatter -- those are the teacher's own additions with no tlox
// analog).
package tool

import (
	"flag"
	"fmt"
	"io/ioutil"
	"strings"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/sortutil"
	"devt.de/krotik/common/termutil"

	"example.org/tlox/config"
	"example.org/tlox/env"
	"example.org/tlox/interp"
	"example.org/tlox/lexer"
	"example.org/tlox/parser"
	"example.org/tlox/resolver"
	"example.org/tlox/stdlib"
	"example.org/tlox/token"
	"example.org/tlox/util"
)

// Exit codes, per spec.md §6.
const (
	ExitOK           = 0
	ExitDataError    = 65 // scan/parse/resolve error
	ExitRuntimeError = 70 // runtime error
)

// Reporter is the host error sink: it accumulates scan/parse/resolve
// diagnostics and runtime errors against a backing util.Logger, and
// tracks whether an error occurred so the driver knows which exit code
// to use. Grounded in original_source/plox/plox.py's Plox class fields
// (had_error/had_runtime_error), restructured as methods on a Go struct
// instead of module-level globals.
type Reporter struct {
	Logger util.Logger

	hadError        bool
	hadRuntimeError bool
}

// NewReporter creates a Reporter backed by logger.
func NewReporter(logger util.Logger) *Reporter {
	return &Reporter{Logger: logger}
}

// Reset clears the error flags, as required between REPL lines (spec.md
// §7: "in a REPL, flags are cleared before the next line").
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}

// HadError reports whether a scan/parse/resolve error was reported.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether a runtime error was reported.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// ScanError reports a lexer diagnostic.
func (r *Reporter) ScanError(line int, message string) {
	r.hadError = true
	r.Logger.LogError(fmt.Sprintf("[line %d] Error: %s", line, message))
}

// ParseError reports a parser/resolver diagnostic, bound to tok.
func (r *Reporter) ParseError(tok token.Token, message string) {
	r.hadError = true
	where := "at end"
	if tok.Type != token.EOF {
		where = fmt.Sprintf("at '%s'", tok.Lexeme)
	}
	r.Logger.LogError(fmt.Sprintf("[line %d] Error %s: %s", tok.Line, where, message))
}

// RuntimeError reports a runtime error surfaced from Interpret.
func (r *Reporter) RuntimeError(err error) {
	r.hadRuntimeError = true
	if rerr, ok := err.(*util.RuntimeError); ok {
		r.Logger.LogError(fmt.Sprintf("%s\n[line %d]", rerr.Message, rerr.Token.Line))
		return
	}
	r.Logger.LogError(err.Error())
}

// Interpreter is the command-line driver for tlox. It owns the global
// environment (seeded with the stdlib natives), the host sink, and --
// in REPL mode -- a line terminal with history.
type Interpreter struct {
	Reporter *Reporter
	Globals  *env.Environment

	EntryFile string

	LogLevel *string
	LogFile  *string

	Term termutil.ConsoleLineTerminal

	// history records submitted REPL lines for the @history command,
	// capped at config.HistorySize entries.
	history *datautil.RingBuffer
}

// NewInterpreter creates a driver with a fresh globals frame seeded with
// the native builtins (spec.md §6's native injection list), and a REPL
// line history sized from config.HistorySize.
func NewInterpreter(logger util.Logger) *Interpreter {
	globals := env.New()
	stdlib.Inject(globals)
	return &Interpreter{
		Reporter: NewReporter(logger),
		Globals:  globals,
		history:  datautil.NewRingBuffer(config.Int(config.HistorySize)),
	}
}

// ParseArgs parses the command line, populating EntryFile/LogLevel/LogFile.
// Returns true if the process should exit without running (e.g. -help).
// The -loglevel default is seeded from config.LogLevel, matching the
// teacher's own default-config-then-flag-override layering.
func (in *Interpreter) ParseArgs(args []string) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	in.LogLevel = fs.String("loglevel", config.Str(config.LogLevel), "logging level (Debug, Info, Error)")
	in.LogFile = fs.String("logfile", "", "log to a file instead of stdout")
	showHelp := fs.Bool("help", false, "show this help message")

	if err := fs.Parse(args[1:]); err != nil {
		return true
	}
	if rest := fs.Args(); len(rest) > 0 {
		in.EntryFile = rest[0]
	}
	return *showHelp
}

// Run executes a single tlox program through the full scan/parse/resolve/
// interpret pipeline against in's globals, reporting through in.Reporter.
// It returns the appropriate process exit code.
func (in *Interpreter) Run(source string) int {
	in.Reporter.Reset()

	toks := lexer.Scan(source, in.Reporter.ScanError)
	p := parser.New(toks, in.Reporter.ParseError)
	stmts := p.Parse()
	if in.Reporter.HadError() {
		return ExitDataError
	}

	res := resolver.New(in.Reporter.ParseError)
	res.Resolve(stmts)
	if in.Reporter.HadError() {
		return ExitDataError
	}

	i := interp.New(res.Locals, interp.PrinterFunc(func(s string) { fmt.Println(s) }))
	i.UseGlobals(in.Globals)

	if err := i.Interpret(stmts); err != nil {
		in.Reporter.RuntimeError(err)
		return ExitRuntimeError
	}
	return ExitOK
}

// RunFile reads and runs path, returning the exit code spec.md §6 defines.
func (in *Interpreter) RunFile(path string) int {
	source, err := ioutil.ReadFile(path)
	if err != nil {
		in.Reporter.Logger.LogError(fmt.Sprintf("could not read %s: %v", path, err))
		return ExitDataError
	}
	return in.Run(string(source))
}

// isBalanced reports whether accum has at least as many '}' as '{' (every
// opened brace is closed), the naive brace-counting rule spec.md §6
// specifies for REPL continuation.
func isBalanced(accum string) bool {
	depth := 0
	for _, r := range accum {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth <= 0
}

// RunREPL starts an interactive console on term, accumulating continuation
// lines per spec.md §6's brace-balance rule, until the user exits or input
// ends. REPL errors are reported but the session continues.
func (in *Interpreter) RunREPL(term termutil.ConsoleLineTerminal) error {
	fmt.Printf("tlox %s\n", config.ProductVersion)
	fmt.Println("Type 'exit' or 'quit' to leave the console")

	var err error
	term, err = termutil.AddHistoryMixin(term, "", func(s string) bool {
		return isExitLine(s)
	})
	if err != nil {
		return err
	}

	if err := term.StartTerm(); err != nil {
		return err
	}
	defer term.StopTerm()

	prompt := config.Str(config.REPLPrompt)

	fmt.Print(prompt)
	line, err := term.NextLine()
	for err == nil && !isExitLine(line) {
		accum := line
		for !isBalanced(accum) {
			var next string
			next, err = term.NextLine()
			if err != nil {
				break
			}
			accum += "\n" + next
		}

		trimmed := strings.TrimSpace(accum)
		if trimmed != "" {
			in.history.Add(trimmed)
			in.handleLine(term, trimmed)
		}

		fmt.Print(prompt)
		line, err = term.NextLine()
	}
	return nil
}

func isExitLine(s string) bool {
	s = strings.TrimSpace(s)
	return s == "exit" || s == "quit" || s == "\x04"
}

// handleLine dispatches a REPL meta-command (@sym, @history) or runs src
// as a program (supplementing spec.md §6's bare REPL with a couple of
// introspection commands, in the spirit of the teacher's own
// @sym/@std/@reload commands).
func (in *Interpreter) handleLine(ot OutputTerminal, src string) {
	switch {
	case strings.HasPrefix(src, "@sym"):
		in.displaySymbols(ot, strings.Fields(src)[1:])
	case strings.HasPrefix(src, "@history"):
		in.displayHistory(ot)
	default:
		in.Run(src)
	}
}

// displayHistory prints the submitted-line buffer config.HistorySize
// caps, oldest first.
func (in *Interpreter) displayHistory(ot OutputTerminal) {
	for _, line := range in.history.Slice() {
		ot.WriteString(fmt.Sprintln(line.(string)))
	}
}

// displaySymbols lists every native bound in globals, in sorted order and
// optionally filtered by a glob search term, mirroring the teacher's @sym
// command built on the same stringutil glob matcher and sortutil sort.
func (in *Interpreter) displaySymbols(ot OutputTerminal, args []string) {
	glob := "*"
	if len(args) > 0 {
		glob = args[0]
	}

	names := make([]interface{}, 0)
	for name := range stdlib.Globals() {
		names = append(names, name)
	}
	sortutil.InterfaceStrings(names)

	for _, name := range names {
		if matchesFulltextSearch(ot, name.(string), glob) {
			ot.WriteString(fmt.Sprintln(name))
		}
	}
}
