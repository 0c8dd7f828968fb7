/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package stdlib

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"time"

	"example.org/tlox/interp"
)

// Globals returns the set of natives the driver injects into the
// interpreter's globals frame before running a program, keyed by the name
// bound at the top level (spec.md §6's native injection list).
func Globals() map[string]*interp.Native {
	return map[string]*interp.Native{
		"clock": clockNative(),
		"pow":   Adapt("pow", math.Pow),
		"abs":   Adapt("abs", math.Abs),
		"input": inputNative(),
		"exit":  exitNative(),
	}
}

// Inject defines every native in Globals() into env.
func Inject(globals interface {
	Define(name string, value interface{})
}) {
	for name, native := range Globals() {
		globals.Define(name, native)
	}
}

// clockNative returns the number of seconds since the Unix epoch as a
// tlox number -- used by programs to measure elapsed time (spec.md §4.6's
// example native). It is hand-written rather than run through Adapt
// because its Go signature (func() time.Time) doesn't reduce to a single
// numeric return value without a wrapper.
func clockNative() *interp.Native {
	return &interp.Native{
		Name: "clock",
		Ar:   0,
		Fn: func(i *interp.Interpreter, args []interface{}) (interface{}, error) {
			return float64(time.Now().UnixNano()) / 1e9, nil
		},
	}
}

// inputNative prints prompt (if non-empty) to stdout and reads a single
// line from stdin, returning it without the trailing newline. At end of
// input it returns nil, matching tlox's convention of representing
// absence as nil rather than raising an error.
func inputNative() *interp.Native {
	reader := bufio.NewReader(os.Stdin)
	return &interp.Native{
		Name: "input",
		Ar:   1,
		Fn: func(i *interp.Interpreter, args []interface{}) (interface{}, error) {
			prompt, _ := args[0].(string)
			if prompt != "" {
				fmt.Fprint(os.Stdout, prompt)
			}
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return nil, nil
			}
			return trimNewline(line), nil
		},
	}
}

// exitNative terminates the process with the given status code. Like the
// host's own driver exit codes (spec.md §6), this never returns to the
// caller.
func exitNative() *interp.Native {
	return &interp.Native{
		Name: "exit",
		Ar:   1,
		Fn: func(i *interp.Interpreter, args []interface{}) (interface{}, error) {
			code, _ := args[0].(float64)
			os.Exit(int(code))
			return nil, nil
		},
	}
}

func trimNewline(s string) string {
	n := len(s)
	for n > 0 && (s[n-1] == '\n' || s[n-1] == '\r') {
		n--
	}
	return s[:n]
}
