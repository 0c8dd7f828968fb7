/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Command tlox is the interpreter's command-line entry point: run a
// script file, or drop into a REPL when none is given (spec.md §6).
package main

import (
	"fmt"
	"os"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/termutil"

	"example.org/tlox/cli/tool"
	"example.org/tlox/util"
)

func main() {
	in := tool.NewInterpreter(util.NewStdOutLogger())

	if in.ParseArgs(os.Args) {
		return
	}

	if in.LogFile != nil && *in.LogFile != "" {
		rollover := fileutil.SizeBasedRolloverCondition(1000000)
		if w, err := fileutil.NewMultiFileBuffer(*in.LogFile, fileutil.ConsecutiveNumberIterator(10), rollover); err == nil {
			in.Reporter.Logger = util.NewBufferLogger(w)
		} else {
			fmt.Println("Error:", err)
			os.Exit(tool.ExitDataError)
		}
	}

	if in.LogLevel != nil && *in.LogLevel != "" {
		if leveled, err := util.NewLogLevelLogger(in.Reporter.Logger, *in.LogLevel); err == nil {
			in.Reporter.Logger = leveled
		}
	}

	if in.EntryFile != "" {
		os.Exit(in.RunFile(in.EntryFile))
	}

	term, err := termutil.NewConsoleLineTerminal(os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(tool.ExitDataError)
	}

	if err := in.RunREPL(term); err != nil {
		fmt.Println("Error:", err)
		os.Exit(tool.ExitRuntimeError)
	}
}
