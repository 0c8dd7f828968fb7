/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package parser implements the recursive-descent grammar of spec.md §4.2,
// with panic-mode synchronization on a syntax error inside a declaration.
package parser

import (
	"example.org/tlox/ast"
	"example.org/tlox/token"
)

// Reporter receives parse errors. loc is "at end" for EOF, "at '<lexeme>'"
// otherwise, formatted by the caller from the offending token.
type Reporter func(tok token.Token, message string)

// Parser consumes a flat token list and produces a list of top-level
// statements.
type Parser struct {
	tokens  []token.Token
	current int
	report  Reporter

	// HadError is set the first time a syntax error is reported.
	HadError bool
}

// New creates a Parser over tokens. report may be nil to discard errors.
func New(tokens []token.Token, report Reporter) *Parser {
	if report == nil {
		report = func(token.Token, string) {}
	}
	return &Parser{tokens: tokens, report: report}
}

// Parse runs the parser to completion. Per spec.md §4.2, it returns an
// empty slice if any error was reported (synchronization recovers enough to
// keep parsing for further diagnostics, but produces no AST to execute).
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if p.HadError {
		return nil
	}
	return stmts
}

// --- token stream helpers ---------------------------------------------

func (p *Parser) isAtEnd() bool     { return p.peek().Type == token.EOF }
func (p *Parser) peek() token.Token { return p.tokens[p.current] }
func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

type parseError struct{}

func (parseError) Error() string { return "parse error" }

func (p *Parser) errorAt(tok token.Token, message string) parseError {
	p.HadError = true
	p.report(tok, message)
	return parseError{}
}

func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

// synchronize discards tokens until it has just consumed a ';' or the next
// token begins a new declaration/statement, per spec.md §4.2.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.peek().Type {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

// recover turns a panicked parseError into a nil statement and
// synchronizes, so callers can keep collecting diagnostics.
func (p *Parser) recover() (stmt ast.Stmt) {
	if r := recover(); r != nil {
		if _, ok := r.(parseError); !ok {
			panic(r)
		}
		p.synchronize()
		stmt = nil
	}
	return
}

// --- declarations --------------------------------------------------------

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() { stmt = p.recover() }()

	switch {
	case p.match(token.Var):
		return p.varDecl()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Class):
		return p.classDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "expected variable name")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after variable declaration")
	return ast.NewVar(name, initializer)
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "expected "+kind+" name")
	p.consume(token.LeftParen, "expected '(' after "+kind+" name")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			params = append(params, p.consume(token.Identifier, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expected ')' after parameters")

	p.consume(token.LeftBrace, "expected '{' before "+kind+" body")
	body := p.block()
	return ast.NewFunction(name, params, body)
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "expected class name")

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName := p.consume(token.Identifier, "expected superclass name")
		superclass = ast.NewVariable(superName)
	}

	p.consume(token.LeftBrace, "expected '{' before class body")
	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RightBrace, "expected '}' after class body")

	return ast.NewClass(name, superclass, methods)
}

// --- statements ------------------------------------------------------------

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.LeftBrace):
		return ast.NewBlock(p.block())
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.Break):
		tok := p.previous()
		p.consume(token.Semicolon, "expected ';' after 'break'")
		return ast.NewBreak(tok)
	case p.match(token.Continue):
		tok := p.previous()
		p.consume(token.Semicolon, "expected ';' after 'continue'")
		return ast.NewContinue(tok)
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() ast.Stmt {
	value := p.expression()
	p.consume(token.Semicolon, "expected ';' after value")
	return ast.NewPrint(value)
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "expected ';' after expression")
	return ast.NewExpression(expr)
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RightBrace, "expected '}' after block")
	return stmts
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RightParen, "expected ')' after if condition")

	then := p.statement()
	var els ast.Stmt
	if p.match(token.Else) {
		els = p.statement()
	}
	return ast.NewIf(cond, then, els)
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RightParen, "expected ')' after while condition")
	body := p.statement()
	return ast.NewWhile(cond, body)
}

// forStmt desugars `for (init; cond; incr) body` into
// `{ init; while (cond) body [with incr attached as the loop's
// post-body increment] }`, per spec.md §4.2. incr is attached to the
// While node itself rather than appended to body, so it still runs when
// a `continue` cuts an iteration of body short.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "expected '(' after 'for'")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after loop condition")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "expected ')' after for clauses")

	body := p.statement()

	if condition == nil {
		condition = ast.NewLiteral(true)
	}
	body = ast.NewWhileFor(condition, body, increment)

	if initializer != nil {
		body = ast.NewBlock([]ast.Stmt{initializer, body})
	}
	return body
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "expected ';' after return value")
	return ast.NewReturn(keyword, value)
}

// --- expressions -----------------------------------------------------------

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses an r-value expression, then, if followed by '=',
// reinterprets the left-hand side per spec.md §4.2: Variable becomes
// Assignment, Get becomes Set, anything else is reported (without raising,
// so the rest of the expression is still usable) as an invalid target.
func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssignment(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		default:
			p.errorAt(equals, "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.Or) {
		op := p.previous()
		right := p.and()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Less, token.LessEqual, token.Greater, token.GreaterEqual) {
		op := p.previous()
		right := p.term()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right := p.factor()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Star, token.Slash) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(op, right)
	}
	return p.call()
}

// call parses primary followed by any mixture of "(args)" and ".name"
// postfix operators, per spec.md's call-postfix loop.
func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "expected property name after '.'")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "expected ')' after arguments")
	return ast.NewCall(callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false)
	case p.match(token.True):
		return ast.NewLiteral(true)
	case p.match(token.Nil):
		return ast.NewLiteral(nil)
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(token.This):
		return ast.NewThis(p.previous())
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "expected '.' after 'super'")
		method := p.consume(token.Identifier, "expected superclass method name")
		return ast.NewSuper(keyword, method)
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous())
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "expected ')' after expression")
		return ast.NewGrouping(expr)
	}
	panic(p.errorAt(p.peek(), "expected expression"))
}
