/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package interp is the tree-walking evaluator: runtime values, callables
// (user functions, classes, instances, natives) and the Interpreter that
// walks a resolved AST against a chain of environment frames.
package interp

import (
	"fmt"
	"strconv"
)

// IsTruthy implements spec.md §4.5: nil and false are false, everything
// else -- including 0 and the empty string -- is true.
func IsTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual implements value equality: same-variant value comparison,
// cross-variant always false, nil == nil true, no coercion.
func IsEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		return an == bn
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as == bs
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok {
		return ab == bb
	}
	// callables (and anything else) compare by identity
	return a == b
}

// Stringify implements spec.md §4.5's print conversion.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(val)
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	return "<unknown>"
}

// formatNumber prints a number without a trailing decimal point when its
// fractional part is zero, per spec.md §9's canonical numeric printing
// choice.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
