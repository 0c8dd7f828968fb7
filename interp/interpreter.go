/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package interp

import (
	"fmt"

	"example.org/tlox/ast"
	"example.org/tlox/env"
	"example.org/tlox/token"
	"example.org/tlox/util"
)

// Printer is where `print` statements write. The driver supplies os.Stdout
// in normal operation and a buffer in tests.
type Printer interface {
	Print(s string)
}

// PrinterFunc adapts a plain function to Printer.
type PrinterFunc func(string)

func (f PrinterFunc) Print(s string) { f(s) }

// Interpreter executes a resolved AST. It holds the globals frame (seeded
// by the driver with native callables before Interpret runs), the current
// frame, and the resolver's table of expression-identity -> depth.
type Interpreter struct {
	Globals *env.Environment
	env     *env.Environment
	locals  map[uint64]int
	out     Printer
}

// New creates an Interpreter. locals is typically resolver.Resolver.Locals.
func New(locals map[uint64]int, out Printer) *Interpreter {
	globals := env.New()
	return &Interpreter{Globals: globals, env: globals, locals: locals, out: out}
}

// UseGlobals replaces the interpreter's globals frame with an existing
// one, and resets the current frame to it. A driver that evaluates several
// programs or REPL lines against the same bindings (so a native injected
// once, or a variable defined by an earlier line, stays visible) creates
// the Environment once and passes it to every Interpreter via this method.
func (i *Interpreter) UseGlobals(globals *env.Environment) {
	i.Globals = globals
	i.env = globals
}

// Interpret executes top-level statements in order. A runtime error stops
// execution at that point and is returned to the caller (the driver); it
// never includes a control-flow signal, since those are always caught at
// their own boundary before they could propagate this far.
func (i *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execute(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Expression:
		_, err := i.evaluate(n.Expr)
		return err

	case *ast.Print:
		v, err := i.evaluate(n.Expr)
		if err != nil {
			return err
		}
		i.out.Print(Stringify(v))
		return nil

	case *ast.Var:
		var value interface{}
		if n.Initializer != nil {
			v, err := i.evaluate(n.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.env.Define(n.Name.Lexeme, value)
		return nil

	case *ast.Block:
		return i.executeBlock(n.Statements, env.NewChild(i.env))

	case *ast.If:
		cond, err := i.evaluate(n.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return i.execute(n.Then)
		} else if n.Else != nil {
			return i.execute(n.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := i.evaluate(n.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			err = i.execute(n.Body)
			if err != nil {
				if _, ok := err.(breakSignal); ok {
					return nil
				}
				if _, ok := err.(continueSignal); ok {
					if n.Increment != nil {
						if _, err := i.evaluate(n.Increment); err != nil {
							return err
						}
					}
					continue
				}
				return err
			}
			if n.Increment != nil {
				if _, err := i.evaluate(n.Increment); err != nil {
					return err
				}
			}
		}

	case *ast.Break:
		return errBreak

	case *ast.Continue:
		return errContinue

	case *ast.Return:
		var value interface{}
		if n.Value != nil {
			v, err := i.evaluate(n.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{Value: value}

	case *ast.Function:
		fn := NewFunction(n, i.env, false)
		i.env.Define(n.Name.Lexeme, fn)
		return nil

	case *ast.Class:
		return i.executeClass(n)

	default:
		panic(fmt.Sprintf("interp: unhandled statement %T", s))
	}
}

// executeBlock installs env as current and restores the previous frame on
// every exit path -- including a runtime error or a return/break/continue
// signal unwinding through it -- per spec.md §5's "scoped acquisition".
func (i *Interpreter) executeBlock(stmts []ast.Stmt, blockEnv *env.Environment) error {
	previous := i.env
	i.env = blockEnv
	defer func() { i.env = previous }()

	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeClass(c *ast.Class) error {
	var superclass *Class
	if c.Superclass != nil {
		v, err := i.evaluate(c.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return util.NewRuntimeError(c.Superclass.Name, "superclass must be a class")
		}
		superclass = sc
	}

	i.env.Define(c.Name.Lexeme, nil)

	classEnv := i.env
	if c.Superclass != nil {
		classEnv = env.NewChild(i.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function)
	for _, m := range c.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, classEnv, m.Name.Lexeme == "init")
	}

	class := &Class{Name: c.Name.Lexeme, Superclass: superclass, Methods: methods}
	i.env.Assign(c.Name, class)
	return nil
}

func (i *Interpreter) evaluate(e ast.Expr) (interface{}, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.Grouping:
		return i.evaluate(n.Expression)

	case *ast.Unary:
		right, err := i.evaluate(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Operator.Type {
		case token.Minus:
			num, ok := right.(float64)
			if !ok {
				return nil, util.NewRuntimeError(n.Operator, "operand must be a number")
			}
			return -num, nil
		case token.Bang:
			return !IsTruthy(right), nil
		}
		panic("interp: unreachable unary operator")

	case *ast.Binary:
		return i.evalBinary(n)

	case *ast.Logical:
		left, err := i.evaluate(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Operator.Type == token.Or {
			if IsTruthy(left) {
				return left, nil
			}
		} else {
			if !IsTruthy(left) {
				return left, nil
			}
		}
		return i.evaluate(n.Right)

	case *ast.Variable:
		return i.lookUpVariable(n.Name, n.ID())

	case *ast.Assignment:
		value, err := i.evaluate(n.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := i.locals[n.ID()]; ok {
			i.env.AssignAt(depth, n.Name.Lexeme, value)
		} else if err := i.Globals.Assign(n.Name, value); err != nil {
			return nil, util.NewRuntimeError(n.Name, err.Error())
		}
		return value, nil

	case *ast.Call:
		return i.evalCall(n)

	case *ast.Get:
		obj, err := i.evaluate(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, util.NewRuntimeError(n.Name, "only instances have properties")
		}
		return inst.Get(n.Name)

	case *ast.Set:
		obj, err := i.evaluate(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, util.NewRuntimeError(n.Name, "only instances have fields")
		}
		value, err := i.evaluate(n.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(n.Name, value)
		return value, nil

	case *ast.This:
		v, err := i.lookUpVariable(n.Keyword, n.ID())
		return v, err

	case *ast.Super:
		return i.evalSuper(n)

	default:
		panic(fmt.Sprintf("interp: unhandled expression %T", e))
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, id uint64) (interface{}, error) {
	if depth, ok := i.locals[id]; ok {
		return i.env.GetAt(depth, name.Lexeme), nil
	}
	v, err := i.Globals.Get(name)
	if err != nil {
		return nil, util.NewRuntimeError(name, err.Error())
	}
	return v, nil
}

func (i *Interpreter) evalBinary(n *ast.Binary) (interface{}, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Type {
	case token.EqualEqual:
		return IsEqual(left, right), nil
	case token.BangEqual:
		return !IsEqual(left, right), nil
	case token.Plus:
		return addValues(n.Operator, left, right)
	case token.Minus, token.Star, token.Slash,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		ln, lok := left.(float64)
		rn, rok := right.(float64)
		if !lok || !rok {
			return nil, util.NewRuntimeError(n.Operator, "operands must be numbers")
		}
		switch n.Operator.Type {
		case token.Minus:
			return ln - rn, nil
		case token.Star:
			return ln * rn, nil
		case token.Slash:
			return ln / rn, nil
		case token.Less:
			return ln < rn, nil
		case token.LessEqual:
			return ln <= rn, nil
		case token.Greater:
			return ln > rn, nil
		case token.GreaterEqual:
			return ln >= rn, nil
		}
	}
	panic("interp: unreachable binary operator")
}

// addValues implements spec.md §4.5's overloaded `+`: numeric addition when
// both operands are numbers, string concatenation when both are strings,
// otherwise a type error -- a mixed number/string operand is never silently
// coerced (spec.md §8.8; original_source/plox/interpreter.py's plain `left +
// right` raises a TypeError for exactly this case rather than stringifying).
func addValues(op token.Token, left, right interface{}) (interface{}, error) {
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if lok && rok {
		return ln + rn, nil
	}

	ls, lIsStr := left.(string)
	rs, rIsStr := right.(string)
	if lIsStr && rIsStr {
		return ls + rs, nil
	}

	return nil, util.NewRuntimeError(op, "operands must be numbers or strings")
}

func (i *Interpreter) evalCall(n *ast.Call) (interface{}, error) {
	callee, err := i.evaluate(n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(n.Arguments))
	for idx, a := range n.Arguments {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, util.NewRuntimeError(n.Paren, "can only call functions and classes")
	}
	if len(args) != callable.Arity() {
		return nil, util.NewRuntimeError(n.Paren,
			fmt.Sprintf("expected %d arguments but got %d", callable.Arity(), len(args)))
	}
	return callable.Call(i, args)
}

// evalSuper implements spec.md §4.5: superclass = get_at(depth, "super");
// instance = get_at(depth-1, "this"); look up the method, bind to
// instance.
func (i *Interpreter) evalSuper(n *ast.Super) (interface{}, error) {
	depth, ok := i.locals[n.ID()]
	if !ok {
		return nil, util.NewRuntimeError(n.Keyword, "can not use \"super\" outside of a class")
	}
	superclass := i.env.GetAt(depth, "super").(*Class)
	instance := i.env.GetAt(depth-1, "this").(*Instance)

	method := superclass.FindMethod(n.Method.Lexeme)
	if method == nil {
		return nil, util.NewRuntimeError(n.Method, fmt.Sprintf("undefined method %q", n.Method.Lexeme))
	}
	return method.Bind(instance), nil
}
