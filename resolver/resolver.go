/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package resolver implements the static lexical pre-pass: it annotates
// every variable-reading expression with the number of enclosing frames to
// walk at runtime, and rejects a handful of scope/context violations that
// are cheaper to catch once, statically, than on every evaluation.
package resolver

import (
	"example.org/tlox/ast"
	"example.org/tlox/token"
)

// Reporter receives resolve errors. location is the offending token.
type Reporter func(location token.Token, message string)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

type functionKind int

const (
	functionNone functionKind = iota
	functionFunction
	functionMethod
	functionInitializer
)

// scope maps a name to whether it has been fully defined (false between
// declare and define, catching self-referential initializers).
type scope map[string]bool

// Resolver walks a parsed program and populates a Locals table mapping
// each variable-reading expression's identity (ast node id, not name -- see
// ast.base) to its lexical depth.
type Resolver struct {
	report Reporter
	scopes []scope

	currentFunction functionKind
	currentClass    classKind
	loopDepth       int

	Locals map[uint64]int
}

// New creates a Resolver. report may be nil to discard resolve errors.
func New(report Reporter) *Resolver {
	if report == nil {
		report = func(token.Token, string) {}
	}
	return &Resolver{report: report, Locals: make(map[uint64]int)}
}

// Resolve walks every top-level statement.
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[name.Lexeme]; ok {
		r.report(name, "variable with this name already declared in this scope")
	}
	top[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal scans scopes innermost-to-outermost; on the first scope that
// has the name it records depth = (number of scopes between the innermost
// and that one).
func (r *Resolver) resolveLocal(id uint64, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.Locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: a global, left out of the table entirely.
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Expression:
		r.resolveExpr(n.Expr)

	case *ast.Print:
		r.resolveExpr(n.Expr)

	case *ast.Var:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name)

	case *ast.Block:
		r.beginScope()
		r.resolveStmts(n.Statements)
		r.endScope()

	case *ast.If:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}

	case *ast.While:
		r.resolveExpr(n.Condition)
		r.loopDepth++
		r.resolveStmt(n.Body)
		if n.Increment != nil {
			r.resolveExpr(n.Increment)
		}
		r.loopDepth--

	case *ast.Break:
		if r.loopDepth == 0 {
			r.report(n.Keyword, "can not use \"break\" outside of a loop")
		}

	case *ast.Continue:
		if r.loopDepth == 0 {
			r.report(n.Keyword, "can not use \"continue\" outside of a loop")
		}

	case *ast.Return:
		if r.currentFunction == functionNone {
			r.report(n.Keyword, "can not return from top-level code")
		}
		if n.Value != nil {
			if r.currentFunction == functionInitializer {
				r.report(n.Keyword, "can not return a value from an initializer")
			}
			r.resolveExpr(n.Value)
		}

	case *ast.Function:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, functionFunction)

	case *ast.Class:
		r.resolveClass(n)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.report(c.Superclass.Name, "a class can not inherit from itself")
		}
		r.currentClass = classSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, m := range c.Methods {
		kind := functionMethod
		if m.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(m, kind)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		// no sub-expressions, no names

	case *ast.Grouping:
		r.resolveExpr(n.Expression)

	case *ast.Unary:
		r.resolveExpr(n.Right)

	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; ok && !defined {
				r.report(n.Name, "can not read local variable in its own initializer")
			}
		}
		r.resolveLocal(n.ID(), n.Name)

	case *ast.Assignment:
		r.resolveExpr(n.Value)
		r.resolveLocal(n.ID(), n.Name)

	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, a := range n.Arguments {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(n.Object)

	case *ast.Set:
		r.resolveExpr(n.Value)
		r.resolveExpr(n.Object)

	case *ast.This:
		if r.currentClass == classNone {
			r.report(n.Keyword, "can not use \"this\" outside of a class")
			return
		}
		r.resolveLocal(n.ID(), n.Keyword)

	case *ast.Super:
		if r.currentClass == classNone {
			r.report(n.Keyword, "can not use \"super\" outside of a class")
		} else if r.currentClass != classSubclass {
			r.report(n.Keyword, "can not use \"super\" in a class with no superclass")
		}
		r.resolveLocal(n.ID(), n.Keyword)

	default:
		panic("resolver: unhandled expression type")
	}
}
