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

// Callable is satisfied by every value that can appear in call position:
// user functions, classes (their constructor) and natives. Opaque to the
// core per spec.md §4.6.
type Callable interface {
	Arity() int
	Call(i *Interpreter, args []interface{}) (interface{}, error)
	String() string
}

// Native wraps a Go function as a tlox callable. See stdlib for the
// reflection-based adapter that builds these from ordinary Go funcs.
type Native struct {
	Name  string
	Ar    int
	Fn    func(i *Interpreter, args []interface{}) (interface{}, error)
}

func (n *Native) Arity() int { return n.Ar }

func (n *Native) Call(i *Interpreter, args []interface{}) (interface{}, error) {
	return n.Fn(i, args)
}

func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

// Function is a user-defined function or method. It owns the Function AST
// node (immutable after parse) and a reference -- not a copy -- to its
// closure environment, so two functions created in the same call share
// mutable state (spec.md §3, the closure-identity invariant).
type Function struct {
	declaration   *ast.Function
	closure       *env.Environment
	isInitializer bool
}

// NewFunction wraps declaration, closing over closure.
func NewFunction(declaration *ast.Function, closure *env.Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}

// Bind returns a new Function whose closure is a fresh frame, parented to
// f's own closure, that defines "this" -- spec.md §4.5's method binding.
func (f *Function) Bind(instance *Instance) *Function {
	e := env.NewChild(f.closure)
	e.Define("this", instance)
	return NewFunction(f.declaration, e, f.isInitializer)
}

func (f *Function) Call(i *Interpreter, args []interface{}) (interface{}, error) {
	callEnv := env.NewChild(f.closure)
	for idx, param := range f.declaration.Params {
		callEnv.Define(param.Lexeme, args[idx])
	}

	err := i.executeBlock(f.declaration.Body, callEnv)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			if f.isInitializer {
				return f.closure.GetAt(0, "this"), nil
			}
			return ret.Value, nil
		}
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return nil, nil
}

// Class is a runtime class value: a name, an optional superclass, and a
// method table. Method lookup walks the superclass chain recursively
// (spec.md §4.5's find_method).
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod looks up name in c's own method table, then recursively in its
// superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) String() string { return fmt.Sprintf("<class %q>", c.Name) }

// Call constructs a new Instance, running init (if any) against it; the
// call always returns the instance regardless of what init returns
// (spec.md §3's invariant on init's return value).
func (c *Class) Call(i *Interpreter, args []interface{}) (interface{}, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(i, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is an instance of a Class: a mutable field table plus a shared
// reference to its class.
type Instance struct {
	Class  *Class
	Fields map[string]interface{}
}

// NewInstance creates an instance of class c with no fields set.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]interface{})}
}

func (inst *Instance) String() string {
	return fmt.Sprintf("<class instance %q>", inst.Class.Name)
}

// Get implements spec.md §4.5's method binding: fields first, then a bound
// method from the class (and its superclass chain).
func (inst *Instance) Get(name token.Token) (interface{}, error) {
	if v, ok := inst.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := inst.Class.FindMethod(name.Lexeme); m != nil {
		return m.Bind(inst), nil
	}
	return nil, util.NewRuntimeError(name, fmt.Sprintf("undefined property %s", name.Lexeme))
}

// Set writes a field unconditionally; tlox has no fixed field list.
func (inst *Instance) Set(name token.Token, value interface{}) {
	inst.Fields[name.Lexeme] = value
}
