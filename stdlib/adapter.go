/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package stdlib is the native-function layer injected into the
// interpreter's globals frame before a program runs (spec.md §4.6, §6).
// Adapt builds a reflection-based bridge from an arbitrary Go function to
// an interp.Native, the way the teacher's ECALFunctionAdapter bridges an
// ECAL call to a Go func -- but returning a single value (or error)
// instead of ECAL's always-a-slice convention, matching spec.md §4.6's
// simpler native contract.
package stdlib

import (
	"fmt"
	"reflect"

	"example.org/tlox/interp"
)

// funcAdapter wraps a Go function value, converting tlox runtime values
// (float64/string/bool/nil) to and from the function's declared parameter
// and return types.
type funcAdapter struct {
	name    string
	funcval reflect.Value
}

// Adapt builds a *interp.Native named name out of fn, a Go func of the
// form func(args...) (T, error) or func(args...) T. A parameter of kind
// int, int64, float32 or float64 accepts a tlox number (always float64 at
// the call site); other numeric kinds are not converted, and every
// argument is then checked for assignability to the parameter type.
func Adapt(name string, fn interface{}) *interp.Native {
	fa := &funcAdapter{name: name, funcval: reflect.ValueOf(fn)}
	arity := fa.funcval.Type().NumIn()
	return &interp.Native{Name: name, Ar: arity, Fn: fa.run}
}

func (fa *funcAdapter) run(i *interp.Interpreter, args []interface{}) (ret interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", fa.name, r)
		}
	}()

	funcType := fa.funcval.Type()
	if len(args) != funcType.NumIn() {
		return nil, fmt.Errorf("%s: expected %d arguments but got %d", fa.name, funcType.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for idx, arg := range args {
		expected := funcType.In(idx)

		if n, ok := arg.(float64); ok && expected.Kind() != reflect.Float64 && expected.Kind() != reflect.Interface {
			switch expected.Kind() {
			case reflect.Int:
				arg = int(n)
			case reflect.Int64:
				arg = int64(n)
			case reflect.Float32:
				arg = float32(n)
			}
		}

		given := reflect.TypeOf(arg)
		if given == nil {
			in[idx] = reflect.Zero(expected)
			continue
		}
		if given != expected && !given.AssignableTo(expected) {
			return nil, fmt.Errorf("%s: argument %d should be %v but is %v", fa.name, idx+1, expected, given)
		}
		in[idx] = reflect.ValueOf(arg)
	}

	out := fa.funcval.Call(in)
	if len(out) == 0 {
		return nil, nil
	}

	last := out[len(out)-1]
	if last.Type() == reflect.TypeOf((*error)(nil)).Elem() {
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, err
	}

	return toRuntimeValue(out[0]), err
}

// toRuntimeValue converts a Go return value to a tlox runtime value: every
// numeric kind becomes float64, everything else passes through unchanged.
func toRuntimeValue(v reflect.Value) interface{} {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return v.Interface()
}
