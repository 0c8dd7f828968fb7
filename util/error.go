/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package util holds error and logging plumbing shared across the scanner,
// parser, resolver, interpreter and driver.
package util

import (
	"fmt"

	"example.org/tlox/token"
)

// RuntimeError is a runtime-detected error (type mismatch, arity mismatch,
// undefined variable/property, non-callable call, non-instance property
// access, non-class superclass), bound to the offending token's line per
// spec.md §7.
type RuntimeError struct {
	Token   token.Token
	Message string
}

// NewRuntimeError creates a RuntimeError bound to tok.
func NewRuntimeError(tok token.Token, message string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: message}
}

func (re *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", re.Message, re.Token.Line)
}
