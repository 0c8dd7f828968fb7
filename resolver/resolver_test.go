package resolver

import (
	"testing"

	"example.org/tlox/lexer"
	"example.org/tlox/parser"
	"example.org/tlox/token"
)

func diagnostics(t *testing.T, src string) []string {
	t.Helper()

	var diag []string
	toks := lexer.Scan(src, func(line int, msg string) { diag = append(diag, msg) })
	p := parser.New(toks, func(tok token.Token, msg string) { diag = append(diag, msg) })
	stmts := p.Parse()
	if len(diag) != 0 {
		t.Fatalf("scan/parse errors: %v", diag)
	}

	r := New(func(tok token.Token, msg string) { diag = append(diag, msg) })
	r.Resolve(stmts)
	return diag
}

func TestSelfReferentialInitializerIsRejected(t *testing.T) {
	diag := diagnostics(t, `{ var a = a; }`)
	if len(diag) != 1 || diag[0] != "can not read local variable in its own initializer" {
		t.Fatalf("got %v", diag)
	}
}

func TestRedeclarationInSameScopeIsRejected(t *testing.T) {
	diag := diagnostics(t, `{ var a = 1; var a = 2; }`)
	if len(diag) != 1 || diag[0] != "variable with this name already declared in this scope" {
		t.Fatalf("got %v", diag)
	}
}

func TestBreakOutsideLoopIsRejected(t *testing.T) {
	diag := diagnostics(t, `break;`)
	if len(diag) != 1 || diag[0] != "can not use \"break\" outside of a loop" {
		t.Fatalf("got %v", diag)
	}
}

func TestContinueOutsideLoopIsRejected(t *testing.T) {
	diag := diagnostics(t, `continue;`)
	if len(diag) != 1 || diag[0] != "can not use \"continue\" outside of a loop" {
		t.Fatalf("got %v", diag)
	}
}

func TestBreakInsideWhileIsAccepted(t *testing.T) {
	diag := diagnostics(t, `while (true) { break; }`)
	if len(diag) != 0 {
		t.Fatalf("got %v", diag)
	}
}

func TestForDesugarsSoContinueInsideForIsAccepted(t *testing.T) {
	diag := diagnostics(t, `for (var i = 0; i < 3; i = i + 1) { continue; }`)
	if len(diag) != 0 {
		t.Fatalf("got %v", diag)
	}
}

func TestReturnOutsideFunctionIsRejected(t *testing.T) {
	diag := diagnostics(t, `return 1;`)
	if len(diag) != 1 || diag[0] != "can not return from top-level code" {
		t.Fatalf("got %v", diag)
	}
}

func TestReturnValueFromInitializerIsRejected(t *testing.T) {
	diag := diagnostics(t, `class A { init() { return 1; } }`)
	if len(diag) != 1 || diag[0] != "can not return a value from an initializer" {
		t.Fatalf("got %v", diag)
	}
}

func TestBareReturnFromInitializerIsAccepted(t *testing.T) {
	diag := diagnostics(t, `class A { init() { return; } }`)
	if len(diag) != 0 {
		t.Fatalf("got %v", diag)
	}
}

func TestThisOutsideClassIsRejected(t *testing.T) {
	diag := diagnostics(t, `print this;`)
	if len(diag) != 1 || diag[0] != "can not use \"this\" outside of a class" {
		t.Fatalf("got %v", diag)
	}
}

func TestSuperOutsideClassIsRejected(t *testing.T) {
	diag := diagnostics(t, `print super.foo;`)
	if len(diag) != 1 || diag[0] != "can not use \"super\" outside of a class" {
		t.Fatalf("got %v", diag)
	}
}

func TestSuperInClassWithNoSuperclassIsRejected(t *testing.T) {
	diag := diagnostics(t, `class A { m() { super.m(); } }`)
	if len(diag) != 1 || diag[0] != "can not use \"super\" in a class with no superclass" {
		t.Fatalf("got %v", diag)
	}
}

func TestClassInheritingFromItselfIsRejected(t *testing.T) {
	diag := diagnostics(t, `class A < A {}`)
	if len(diag) != 1 || diag[0] != "a class can not inherit from itself" {
		t.Fatalf("got %v", diag)
	}
}

func TestSuperInSubclassIsAccepted(t *testing.T) {
	diag := diagnostics(t, `class A { m() {} } class B < A { m() { super.m(); } }`)
	if len(diag) != 0 {
		t.Fatalf("got %v", diag)
	}
}

func TestLocalsTableRecordsDepthForBlockScopedVariable(t *testing.T) {
	toks := lexer.Scan(`{ var a = 1; print a; }`, nil)
	p := parser.New(toks, nil)
	stmts := p.Parse()

	r := New(nil)
	r.Resolve(stmts)

	if len(r.Locals) != 1 {
		t.Fatalf("expected exactly one resolved local, got %d", len(r.Locals))
	}
	for _, depth := range r.Locals {
		if depth != 0 {
			t.Errorf("expected depth 0 for a same-scope read, got %d", depth)
		}
	}
}

func TestGlobalVariableIsLeftOutOfLocalsTable(t *testing.T) {
	toks := lexer.Scan(`var a = 1; print a;`, nil)
	p := parser.New(toks, nil)
	stmts := p.Parse()

	r := New(nil)
	r.Resolve(stmts)

	if len(r.Locals) != 0 {
		t.Errorf("expected no resolved locals for a global read, got %v", r.Locals)
	}
}
