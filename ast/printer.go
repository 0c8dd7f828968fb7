/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders an expression as a parenthesized prefix form, e.g.
// "(* (- 123) (group 45.67))". It exists for debugging and for the
// round-trip property exercised in printer_test.go; it is not used by the
// parser or interpreter.
func Print(e Expr) string {
	switch n := e.(type) {
	case *Literal:
		return printLiteral(n.Value)
	case *Grouping:
		return parenthesize("group", n.Expression)
	case *Unary:
		return parenthesize(n.Operator.Lexeme, n.Right)
	case *Binary:
		return parenthesize(n.Operator.Lexeme, n.Left, n.Right)
	case *Logical:
		return parenthesize(n.Operator.Lexeme, n.Left, n.Right)
	case *Variable:
		return n.Name.Lexeme
	case *Assignment:
		return parenthesize("= "+n.Name.Lexeme, n.Value)
	case *Call:
		return parenthesizeCall(n)
	case *Get:
		return fmt.Sprintf("(. %s %s)", Print(n.Object), n.Name.Lexeme)
	case *Set:
		return fmt.Sprintf("(set. %s %s %s)", Print(n.Object), n.Name.Lexeme, Print(n.Value))
	case *This:
		return "this"
	case *Super:
		return fmt.Sprintf("(super %s)", n.Method.Lexeme)
	}
	return "<?>"
}

func parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteString(" ")
		b.WriteString(Print(e))
	}
	b.WriteString(")")
	return b.String()
}

func parenthesizeCall(c *Call) string {
	var b strings.Builder
	b.WriteString("(call ")
	b.WriteString(Print(c.Callee))
	for _, a := range c.Arguments {
		b.WriteString(" ")
		b.WriteString(Print(a))
	}
	b.WriteString(")")
	return b.String()
}

func printLiteral(v interface{}) string {
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
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatNumber applies the same "integers without a decimal point" rule the
// interpreter's stringify uses for print statements, so printed literals
// match what the program itself would print.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
