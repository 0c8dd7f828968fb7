/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package tool

import (
	"strings"
	"testing"

	"example.org/tlox/config"
	"example.org/tlox/util"
)

func TestRunSuccessReturnsZero(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)

	if code := in.Run(`print 1 + 1;`); code != ExitOK {
		t.Fatalf("got exit code %d", code)
	}
}

func TestRunScanParseErrorReturns65(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)

	if code := in.Run(`var = ;`); code != ExitDataError {
		t.Fatalf("got exit code %d", code)
	}
}

func TestRunRuntimeErrorReturns70(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)

	if code := in.Run(`1 + true;`); code != ExitRuntimeError {
		t.Fatalf("got exit code %d", code)
	}
	if !in.Reporter.HadRuntimeError() {
		t.Error("expected HadRuntimeError() to be true")
	}
}

func TestRunPersistsGlobalsAcrossCalls(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)

	if code := in.Run(`var counter = 1;`); code != ExitOK {
		t.Fatalf("got exit code %d", code)
	}
	if code := in.Run(`counter = counter + 1; print counter;`); code != ExitOK {
		t.Fatalf("got exit code %d", code)
	}
}

func TestReporterResetClearsFlagsBetweenLines(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)

	in.Run(`1 + true;`)
	if !in.Reporter.HadRuntimeError() {
		t.Fatal("expected a runtime error flag")
	}
	in.Run(`print 1;`)
	if in.Reporter.HadRuntimeError() {
		t.Error("runtime error flag should have been reset on the next Run")
	}
}

func TestIsBalancedBraceCounting(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"fun f() {", false},
		{"fun f() { print 1; }", true},
		{"fun f() { if (true) {", false},
		{"fun f() { if (true) { } }", true},
		{"print 1;", true},
	}
	for _, c := range cases {
		if got := isBalanced(c.in); got != c.want {
			t.Errorf("isBalanced(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsExitLine(t *testing.T) {
	for _, s := range []string{"exit", "quit", "  exit  "} {
		if !isExitLine(s) {
			t.Errorf("isExitLine(%q) = false, want true", s)
		}
	}
	if isExitLine("print 1;") {
		t.Error("isExitLine(print 1;) = true, want false")
	}
}

func TestDisplaySymbolsListsNativesFilteredByGlob(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)
	ot := &testOutputTerminal{}

	in.displaySymbols(ot, []string{"cl*"})

	if !strings.Contains(ot.b.String(), "clock") {
		t.Errorf("expected clock in output, got %q", ot.b.String())
	}
	if strings.Contains(ot.b.String(), "pow") {
		t.Errorf("did not expect pow in output, got %q", ot.b.String())
	}
}

func TestDisplayHistoryListsSubmittedLines(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)
	ot := &testOutputTerminal{}

	in.history.Add(`print 1;`)
	in.history.Add(`print 2;`)
	in.displayHistory(ot)

	if ot.b.String() != "print 1;\nprint 2;\n" {
		t.Errorf("got %q", ot.b.String())
	}
}

func TestParseArgsSeedsLogLevelDefaultFromConfig(t *testing.T) {
	ml := util.NewMemoryLogger(10)
	in := NewInterpreter(ml)

	in.ParseArgs([]string{"tlox"})

	if *in.LogLevel != config.Str(config.LogLevel) {
		t.Errorf("got %q, want config default %q", *in.LogLevel, config.Str(config.LogLevel))
	}
}
